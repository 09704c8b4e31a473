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
	"math/big"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-errors/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
)

func (e *Engine) EncodeRecord(
	instance any,
) (*rowset.Record, error) {

	value := reflect.ValueOf(instance)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, errors.Errorf("cannot encode a nil instance")
		}
		value = value.Elem()
	}

	if !value.IsValid() {
		return nil, errors.Errorf("cannot encode a nil instance")
	}

	if value.Kind() != reflect.Struct {
		return nil, &mapping.UnsupportedTypeError{Type: value.Type(), Value: instance}
	}

	return e.encodeStruct(value)
}

func (e *Engine) encodeStruct(
	value reflect.Value,
) (*rowset.Record, error) {

	descriptors, err := e.fieldDescriptors(value.Type())
	if err != nil {
		return nil, err
	}

	record := rowset.NewRecord()
	for _, descriptor := range descriptors {
		encoded, present, err := e.encodeValue(value.Field(descriptor.index))
		if err != nil {
			return nil, err
		}

		// Absent fields have no key at all
		if present {
			record.Set(descriptor.name, encoded)
		}
	}
	return record, nil
}

func (e *Engine) encodeValue(
	value reflect.Value,
) (any, bool, error) {

	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, false, nil
		}
		value = value.Elem()
	}

	if !value.IsValid() {
		return nil, false, nil
	}

	switch value.Type() {
	case timestampType:
		return formatTimestamp(value.Interface().(time.Time)), true, nil
	case dateType:
		return formatDate(value.Interface().(civil.Date)), true, nil
	case timeType:
		return formatTime(value.Interface().(civil.Time)), true, nil
	case dateTimeType:
		return formatDateTime(value.Interface().(civil.DateTime)), true, nil
	case numericType:
		numeric := value.Interface().(pgtype.Numeric)
		if !numeric.Valid {
			return nil, false, nil
		}
		rendered, err := RenderNumeric(numeric)
		if err != nil {
			return nil, false, err
		}
		return rendered, true, nil
	case bigIntType:
		bigint := value.Interface().(big.Int)
		return bigint.String(), true, nil
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(), true, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(value.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		return value.Float(), true, nil
	case reflect.Bool:
		return value.Bool(), true, nil
	case reflect.String:
		return value.String(), true, nil
	case reflect.Slice, reflect.Array:
		if value.Kind() == reflect.Slice && value.IsNil() {
			return nil, false, nil
		}

		elements := make([]any, 0, value.Len())
		for i := 0; i < value.Len(); i++ {
			encoded, present, err := e.encodeValue(value.Index(i))
			if err != nil {
				return nil, false, err
			}

			// Collections carry no null elements
			if present {
				elements = append(elements, encoded)
			}
		}
		return elements, true, nil
	case reflect.Struct:
		nested, err := e.encodeStruct(value)
		if err != nil {
			return nil, false, err
		}
		return nested, true, nil
	}

	return nil, false, &mapping.UnsupportedTypeError{
		Type:  value.Type(),
		Value: value.Interface(),
	}
}
