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

package objectmapping

import (
	"reflect"

	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

// maxNestingDepth bounds inference recursion, cyclic type graphs
// cannot terminate otherwise
const maxNestingDepth = 64

func (e *Engine) InferSchema(
	t reflect.Type,
) (schema.Schema, error) {

	return e.inferSchema(t, 0)
}

func (e *Engine) InferSchemaFromRecords(
	records []any,
) (schema.Schema, error) {

	if len(records) == 0 {
		return nil, mapping.EmptyInputError{}
	}
	return e.InferSchema(reflect.TypeOf(records[0]))
}

func (e *Engine) inferSchema(
	t reflect.Type, depth int,
) (schema.Schema, error) {

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if _, scalar := classifyScalar(t); scalar || t.Kind() != reflect.Struct {
		return nil, &mapping.UnsupportedTypeError{Type: t}
	}

	if depth >= maxNestingDepth {
		return nil, &mapping.CyclicSchemaError{Type: t, Depth: maxNestingDepth}
	}

	descriptors, err := e.fieldDescriptors(t)
	if err != nil {
		return nil, err
	}

	builder := schema.NewBuilder()
	for _, descriptor := range descriptors {
		field, err := e.inferField(descriptor.name, descriptor.typ, depth)
		if err != nil {
			return nil, err
		}
		builder.Field(field)
	}
	return builder.Build(), nil
}

func (e *Engine) inferField(
	name string, t reflect.Type, depth int,
) (schema.Field, error) {

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if kind, scalar := classifyScalar(t); scalar {
		return schema.Field{Name: name, Kind: kind, Mode: schema.NULLABLE}, nil
	}

	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		element := t.Elem()
		for element.Kind() == reflect.Ptr {
			element = element.Elem()
		}

		if kind, scalar := classifyScalar(element); scalar {
			return schema.Field{Name: name, Kind: kind, Mode: schema.REPEATED}, nil
		}

		if element.Kind() == reflect.Struct {
			subfields, err := e.inferSchema(element, depth+1)
			if err != nil {
				return schema.Field{}, err
			}
			return schema.Field{
				Name: name, Kind: schema.RECORD, Mode: schema.REPEATED, Fields: subfields,
			}, nil
		}

		return schema.Field{}, &mapping.UnsupportedTypeError{Type: t}
	}

	if t.Kind() == reflect.Struct {
		subfields, err := e.inferSchema(t, depth+1)
		if err != nil {
			return schema.Field{}, err
		}
		return schema.Field{
			Name: name, Kind: schema.RECORD, Mode: schema.NULLABLE, Fields: subfields,
		}, nil
	}

	return schema.Field{}, &mapping.UnsupportedTypeError{Type: t}
}
