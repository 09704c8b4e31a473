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

// ValueKind is the structural kind of a result cell, decided by
// shape alone, independent of the column's declared type
type ValueKind int

const (
	KindNull ValueKind = iota
	KindPrimitive
	KindRepeated
	KindRecord
)

// Value is a single result cell. Primitive payloads use the wide
// representation: int64, float64, bool, string. Temporal and
// decimal values travel as their canonical string encodings.
type Value struct {
	kind      ValueKind
	primitive any
	repeated  []Value
	record    Row
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func PrimitiveValue(
	primitive any,
) Value {

	if primitive == nil {
		return NullValue()
	}
	return Value{kind: KindPrimitive, primitive: primitive}
}

func RepeatedValue(
	elements []Value,
) Value {

	return Value{kind: KindRepeated, repeated: elements}
}

func RecordValue(
	record Row,
) Value {

	return Value{kind: KindRecord, record: record}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) Primitive() any {
	return v.primitive
}

func (v Value) Repeated() []Value {
	return v.repeated
}

func (v Value) Record() Row {
	return v.record
}

// Row is an ordered sequence of named cells
type Row struct {
	names  []string
	values []Value
}

func NewRow() Row {
	return Row{}
}

func (r *Row) Append(
	name string, value Value,
) {

	r.names = append(r.names, name)
	r.values = append(r.values, value)
}

func (r Row) Columns() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r Row) Value(
	name string,
) (Value, bool) {

	for i, candidate := range r.names {
		if candidate == name {
			return r.values[i], true
		}
	}
	return NullValue(), false
}

func (r Row) Len() int {
	return len(r.names)
}
