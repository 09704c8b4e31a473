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

package mapping

import (
	"reflect"

	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

// ColumnMapping maps result column names to local field names.
// Once any explicit entry exists, name based inference is skipped
// entirely, the two modes are never merged.
type ColumnMapping struct {
	columns []string
	fields  map[string]string
}

func NewColumnMapping() *ColumnMapping {
	return &ColumnMapping{
		columns: make([]string, 0, 4),
		fields:  make(map[string]string, 4),
	}
}

// Put registers a column to field mapping, the last write for a
// column wins
func (m *ColumnMapping) Put(
	column, field string,
) *ColumnMapping {

	if _, present := m.fields[column]; !present {
		m.columns = append(m.columns, column)
	}
	m.fields[column] = field
	return m
}

func (m *ColumnMapping) Field(
	column string,
) (string, bool) {

	field, present := m.fields[column]
	return field, present
}

func (m *ColumnMapping) Columns() []string {
	columns := make([]string, len(m.columns))
	copy(columns, m.columns)
	return columns
}

func (m *ColumnMapping) Explicit() bool {
	return len(m.fields) > 0
}

// SchemaInferrer derives an ordered schema from a declared Go
// type. The same type always yields the same schema, values are
// never consulted.
type SchemaInferrer interface {
	InferSchema(t reflect.Type) (schema.Schema, error)
	InferSchemaFromRecords(records []any) (schema.Schema, error)
}

// RecordEncoder turns one instance into an encoded record with
// canonical value encodings, omitting absent fields
type RecordEncoder interface {
	EncodeRecord(instance any) (*rowset.Record, error)
}

// RowDecoder populates the struct behind target from a result
// row, dispatching on each cell's structural kind
type RowDecoder interface {
	DecodeRow(row rowset.Row, target reflect.Value, columns *ColumnMapping) error
}
