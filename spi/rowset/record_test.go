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

package rowset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Record_Keeps_Insertion_Order(
	t *testing.T,
) {

	record := NewRecord().
		Set("id", int64(1)).
		Set("name", "Widget").
		Set("cost", "19.99")

	assert.Equal(t, []string{"id", "name", "cost"}, record.FieldNames())
	assert.Equal(t, 3, record.Len())

	value, present := record.Get("name")
	assert.True(t, present)
	assert.Equal(t, "Widget", value)

	_, present = record.Get("missing")
	assert.False(t, present)
}

func Test_Record_Set_Overwrites_Without_Reordering(
	t *testing.T,
) {

	record := NewRecord().
		Set("id", int64(1)).
		Set("name", "Widget").
		Set("id", int64(2))

	assert.Equal(t, []string{"id", "name"}, record.FieldNames())

	value, _ := record.Get("id")
	assert.Equal(t, int64(2), value)
}

func Test_Record_Marshal_Preserves_Field_Order(
	t *testing.T,
) {

	nested := NewRecord().
		Set("street", "1 Main St").
		Set("city", "Springfield")

	record := NewRecord().
		Set("id", int64(7)).
		Set("active", true).
		Set("address", nested).
		Set("tags", []any{"a", "b"})

	data, err := record.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(
		t,
		`{"id":7,"active":true,"address":{"street":"1 Main St","city":"Springfield"},"tags":["a","b"]}`,
		string(data),
	)
}

func Test_RecordRow_Conversion(
	t *testing.T,
) {

	nested := NewRecord().
		Set("street", "1 Main St").
		Set("postalCode", "12345")

	record := NewRecord().
		Set("id", int64(7)).
		Set("addresses", []any{nested}).
		Set("name", "Arthur")

	row := RecordRow(record)
	assert.Equal(t, []string{"id", "addresses", "name"}, row.Columns())

	id, present := row.Value("id")
	assert.True(t, present)
	assert.Equal(t, KindPrimitive, id.Kind())
	assert.Equal(t, int64(7), id.Primitive())

	addresses, present := row.Value("addresses")
	assert.True(t, present)
	assert.Equal(t, KindRepeated, addresses.Kind())
	assert.Equal(t, 1, len(addresses.Repeated()))

	address := addresses.Repeated()[0]
	assert.Equal(t, KindRecord, address.Kind())

	street, present := address.Record().Value("street")
	assert.True(t, present)
	assert.Equal(t, "1 Main St", street.Primitive())
}

func Test_Value_Kinds(
	t *testing.T,
) {

	assert.True(t, NullValue().IsNull())
	assert.True(t, PrimitiveValue(nil).IsNull())
	assert.Equal(t, KindPrimitive, PrimitiveValue("x").Kind())
	assert.Equal(t, KindRepeated, RepeatedValue(nil).Kind())
	assert.Equal(t, KindRecord, RecordValue(NewRow()).Kind())
}
