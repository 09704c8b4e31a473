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

package schema

// Builder assembles a Schema field by field, keeping the order
// in which fields were added.
type Builder interface {
	Integer(name string) Builder
	Float(name string) Builder
	Boolean(name string) Builder
	String(name string) Builder
	Numeric(name string) Builder
	Date(name string) Builder
	Time(name string) Builder
	DateTime(name string) Builder
	Timestamp(name string) Builder
	Repeated(name string, kind Kind) Builder
	Record(name string, mode Mode, fields Schema) Builder
	Field(field Field) Builder
	Build() Schema
}

func NewBuilder() Builder {
	return &builderImpl{
		fields: make(Schema, 0),
	}
}

type builderImpl struct {
	fields Schema
}

func (b *builderImpl) Integer(
	name string,
) Builder {

	return b.scalar(name, INTEGER)
}

func (b *builderImpl) Float(
	name string,
) Builder {

	return b.scalar(name, FLOAT)
}

func (b *builderImpl) Boolean(
	name string,
) Builder {

	return b.scalar(name, BOOLEAN)
}

func (b *builderImpl) String(
	name string,
) Builder {

	return b.scalar(name, STRING)
}

func (b *builderImpl) Numeric(
	name string,
) Builder {

	return b.scalar(name, NUMERIC)
}

func (b *builderImpl) Date(
	name string,
) Builder {

	return b.scalar(name, DATE)
}

func (b *builderImpl) Time(
	name string,
) Builder {

	return b.scalar(name, TIME)
}

func (b *builderImpl) DateTime(
	name string,
) Builder {

	return b.scalar(name, DATETIME)
}

func (b *builderImpl) Timestamp(
	name string,
) Builder {

	return b.scalar(name, TIMESTAMP)
}

func (b *builderImpl) Repeated(
	name string, kind Kind,
) Builder {

	return b.Field(Field{Name: name, Kind: kind, Mode: REPEATED})
}

func (b *builderImpl) Record(
	name string, mode Mode, fields Schema,
) Builder {

	return b.Field(Field{Name: name, Kind: RECORD, Mode: mode, Fields: fields})
}

func (b *builderImpl) Field(
	field Field,
) Builder {

	b.fields = append(b.fields, field)
	return b
}

func (b *builderImpl) Build() Schema {
	result := make(Schema, len(b.fields))
	copy(result, b.fields)
	return result
}

func (b *builderImpl) scalar(
	name string, kind Kind,
) Builder {

	return b.Field(Field{Name: name, Kind: kind, Mode: NULLABLE})
}
