/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reader

import (
	"reflect"
	"testing"

	"github.com/go-errors/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/testsupport"
	"github.com/stretchr/testify/assert"
)

type contact struct {
	Name  string `bigquery:"name"`
	Email string `bigquery:"email"`
}

type pricedItem struct {
	Sku   string         `bigquery:"sku"`
	Price pgtype.Numeric `bigquery:"price"`
}

func Test_Reader_Requires_Struct_Type(
	t *testing.T,
) {

	_, err := NewReader[int]()
	assert.Error(t, err)

	unsupported := &mapping.UnsupportedTypeError{}
	assert.ErrorAs(t, err, &unsupported)
}

func Test_Reader_Round_Trips_Sample_Users(
	t *testing.T,
) {

	engine, err := objectmapping.NewEngine()
	assert.NoError(t, err)

	users := testsupport.SampleUsers()

	userSchema, err := engine.InferSchema(reflect.TypeOf(testsupport.User{}))
	assert.NoError(t, err)

	rows := make([]rowset.Row, 0, len(users))
	for _, user := range users {
		record, err := engine.EncodeRecord(user)
		assert.NoError(t, err)
		rows = append(rows, rowset.RecordRow(record))
	}

	reader, err := NewReader[testsupport.User]()
	assert.NoError(t, err)

	decoded, err := reader.Read(testsupport.NewRowsResult(userSchema, rows...))
	assert.NoError(t, err)
	assert.Equal(t, users, decoded)
}

func Test_Reader_Decodes_Rows_In_Order(
	t *testing.T,
) {

	contactSchema := schema.NewBuilder().String("name").String("email").Build()

	rows := make([]rowset.Row, 0, 3)
	for _, name := range []string{"ada", "grace", "margaret"} {
		row := rowset.NewRow()
		row.Append("name", rowset.PrimitiveValue(name))
		row.Append("email", rowset.PrimitiveValue(name+"@example.com"))
		rows = append(rows, row)
	}

	reader, err := NewReader[contact]()
	assert.NoError(t, err)

	decoded, err := reader.Read(testsupport.NewRowsResult(contactSchema, rows...))
	assert.NoError(t, err)
	assert.Equal(t, []contact{
		{Name: "ada", Email: "ada@example.com"},
		{Name: "grace", Email: "grace@example.com"},
		{Name: "margaret", Email: "margaret@example.com"},
	}, decoded)
}

func Test_Reader_Explicit_Mapping_Reads_Only_Mapped_Columns(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("full_name", rowset.PrimitiveValue("Ada Lovelace"))
	row.Append("email", rowset.PrimitiveValue("ada@example.com"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)
	reader.Map("full_name").To("name")

	decoded, err := reader.Read(testsupport.NewRowsResult(nil, row))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(decoded))

	// email is present in the row but not mapped, inference is off
	assert.Equal(t, "Ada Lovelace", decoded[0].Name)
	assert.Equal(t, "", decoded[0].Email)
}

func Test_Reader_Explicit_Mapping_Last_Write_Wins(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("full_name", rowset.PrimitiveValue("Ada Lovelace"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)
	reader.Map("full_name").To("email").Map("full_name").To("name")

	decoded, err := reader.Read(testsupport.NewRowsResult(nil, row))
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", decoded[0].Name)
	assert.Equal(t, "", decoded[0].Email)
}

func Test_Reader_Explicit_Mapping_Unknown_Field_Fails(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("full_name", rowset.PrimitiveValue("Ada Lovelace"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)
	reader.Map("full_name").To("nickname")

	_, err = reader.Read(testsupport.NewRowsResult(nil, row))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no field")
}

func Test_Reader_Explicit_Mapping_Skips_Absent_Columns(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("email", rowset.PrimitiveValue("ada@example.com"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)
	reader.Map("full_name").To("name").Map("email").To("email")

	decoded, err := reader.Read(testsupport.NewRowsResult(nil, row))
	assert.NoError(t, err)
	assert.Equal(t, contact{Email: "ada@example.com"}, decoded[0])
}

func Test_Reader_Null_Cells_Keep_Zero_Values(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("name", rowset.NullValue())
	row.Append("email", rowset.PrimitiveValue("ada@example.com"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)

	decoded, err := reader.Read(testsupport.NewRowsResult(nil, row))
	assert.NoError(t, err)
	assert.Equal(t, contact{Email: "ada@example.com"}, decoded[0])
}

func Test_Reader_Missing_Columns_Keep_Zero_Values(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("name", rowset.PrimitiveValue("Ada Lovelace"))

	reader, err := NewReader[contact]()
	assert.NoError(t, err)

	decoded, err := reader.Read(testsupport.NewRowsResult(nil, row))
	assert.NoError(t, err)
	assert.Equal(t, contact{Name: "Ada Lovelace"}, decoded[0])
}

func Test_Reader_Decode_Failure_Aborts_Read(
	t *testing.T,
) {

	good := rowset.NewRow()
	good.Append("sku", rowset.PrimitiveValue("CBL-USB-C-2M"))
	good.Append("price", rowset.PrimitiveValue("12.95"))

	bad := rowset.NewRow()
	bad.Append("sku", rowset.PrimitiveValue("KBD-ISO-DE"))
	bad.Append("price", rowset.PrimitiveValue("a lot"))

	reader, err := NewReader[pricedItem]()
	assert.NoError(t, err)

	result := testsupport.NewRowsResult(nil, good, bad)
	_, err = reader.Read(result)
	assert.Error(t, err)
	assert.True(t, result.Closed())
}

func Test_Reader_Result_Failure_Is_Reported(
	t *testing.T,
) {

	row := rowset.NewRow()
	row.Append("name", rowset.PrimitiveValue("ada"))

	result := testsupport.NewRowsResult(nil, row).Failing(
		errors.Errorf("connection reset"),
	)

	reader, err := NewReader[contact]()
	assert.NoError(t, err)

	_, err = reader.Read(result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, result.Closed())
}

func Test_Reader_Closes_Result(
	t *testing.T,
) {

	result := testsupport.NewRowsResult(nil)

	reader, err := NewReader[contact]()
	assert.NoError(t, err)

	decoded, err := reader.Read(result)
	assert.NoError(t, err)
	assert.Empty(t, decoded)
	assert.True(t, result.Closed())
}
