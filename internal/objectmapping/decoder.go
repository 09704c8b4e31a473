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
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-errors/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
)

// DecodeRow fills the struct behind target from a result row.
// With an explicit column mapping only the mapped columns are
// read, otherwise columns are matched against the resolved field
// names, unmatched ones stay at their zero values.
func (e *Engine) DecodeRow(
	row rowset.Row, target reflect.Value, columns *mapping.ColumnMapping,
) error {

	if target.Kind() == reflect.Ptr {
		if target.IsNil() {
			return errors.Errorf("cannot decode into a nil target")
		}
		target = target.Elem()
	}

	if target.Kind() != reflect.Struct {
		return &mapping.UnsupportedTypeError{Type: target.Type()}
	}

	descriptors, err := e.fieldDescriptors(target.Type())
	if err != nil {
		return err
	}

	if columns != nil && columns.Explicit() {
		for _, column := range columns.Columns() {
			fieldName, _ := columns.Field(column)
			descriptor, known := findDescriptor(descriptors, fieldName)
			if !known {
				return errors.Errorf(
					"column '%s' is mapped to '%s' which is no field of %s",
					column, fieldName, target.Type(),
				)
			}

			cell, present := row.Value(column)
			if !present {
				continue
			}

			if err := e.decodeField(target.Field(descriptor.index), cell); err != nil {
				return err
			}
		}
		return nil
	}

	for _, descriptor := range descriptors {
		cell, present := row.Value(descriptor.name)
		if !present {
			continue
		}

		if err := e.decodeField(target.Field(descriptor.index), cell); err != nil {
			return err
		}
	}
	return nil
}

func findDescriptor(
	descriptors []fieldDescriptor, name string,
) (fieldDescriptor, bool) {

	for _, descriptor := range descriptors {
		if descriptor.name == name {
			return descriptor, true
		}
	}
	return fieldDescriptor{}, false
}

// decodeField dispatches on the cell's structural kind, repeated
// before record before scalar. Null cells leave the zero value.
func (e *Engine) decodeField(
	field reflect.Value, cell rowset.Value,
) error {

	if cell.IsNull() {
		return nil
	}

	switch cell.Kind() {
	case rowset.KindRepeated:
		return e.decodeRepeated(field, cell.Repeated())
	case rowset.KindRecord:
		return e.decodeRecord(field, cell.Record())
	default:
		return e.decodeScalar(field, cell.Primitive())
	}
}

func (e *Engine) decodeRepeated(
	field reflect.Value, elements []rowset.Value,
) error {

	field = allocateIndirect(field)
	if field.Kind() != reflect.Slice {
		return errors.Errorf("cannot decode a repeated cell into %s", field.Type())
	}

	// Element order and duplicates are preserved as delivered
	slice := reflect.MakeSlice(field.Type(), 0, len(elements))
	for _, element := range elements {
		item := reflect.New(field.Type().Elem()).Elem()
		if err := e.decodeField(item, element); err != nil {
			return err
		}
		slice = reflect.Append(slice, item)
	}
	field.Set(slice)
	return nil
}

func (e *Engine) decodeRecord(
	field reflect.Value, record rowset.Row,
) error {

	field = allocateIndirect(field)
	if field.Kind() != reflect.Struct {
		return errors.Errorf("cannot decode a record cell into %s", field.Type())
	}

	descriptors, err := e.fieldDescriptors(field.Type())
	if err != nil {
		return err
	}

	for _, descriptor := range descriptors {
		cell, present := record.Value(descriptor.name)
		if !present {
			e.logger.Warnf(
				"column '%s' not found in nested record for type %s", descriptor.name, field.Type(),
			)
			continue
		}

		if err := e.decodeField(field.Field(descriptor.index), cell); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) decodeScalar(
	field reflect.Value, primitive any,
) error {

	field = allocateIndirect(field)

	switch field.Type() {
	case timestampType:
		switch v := primitive.(type) {
		case time.Time:
			field.Set(reflect.ValueOf(v))
			return nil
		case string:
			parsed, err := parseTimestamp(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
		return conversionError(field, primitive)

	case dateType:
		switch v := primitive.(type) {
		case civil.Date:
			field.Set(reflect.ValueOf(v))
			return nil
		case time.Time:
			field.Set(reflect.ValueOf(civil.DateOf(v)))
			return nil
		case string:
			parsed, err := parseDate(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
		return conversionError(field, primitive)

	case timeType:
		switch v := primitive.(type) {
		case civil.Time:
			field.Set(reflect.ValueOf(v))
			return nil
		case string:
			parsed, err := parseTime(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
		return conversionError(field, primitive)

	case dateTimeType:
		switch v := primitive.(type) {
		case civil.DateTime:
			field.Set(reflect.ValueOf(v))
			return nil
		case time.Time:
			field.Set(reflect.ValueOf(civil.DateTimeOf(v)))
			return nil
		case string:
			parsed, err := parseDateTime(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
		return conversionError(field, primitive)

	case numericType:
		switch v := primitive.(type) {
		case pgtype.Numeric:
			field.Set(reflect.ValueOf(v))
			return nil
		case string:
			parsed, err := ParseNumeric(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
			return nil
		}
		return conversionError(field, primitive)

	case bigIntType:
		switch v := primitive.(type) {
		case string:
			parsed, ok := new(big.Int).SetString(v, 10)
			if !ok {
				return errors.Errorf("value '%s' is no integral number", v)
			}
			field.Set(reflect.ValueOf(*parsed))
			return nil
		case int64:
			field.Set(reflect.ValueOf(*big.NewInt(v)))
			return nil
		}
		return conversionError(field, primitive)
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := toInt64(primitive)
		if err != nil {
			return err
		}
		if field.OverflowInt(parsed) {
			return errors.Errorf("value %d overflows %s", parsed, field.Type())
		}
		field.SetInt(parsed)
		return nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		parsed, err := toInt64(primitive)
		if err != nil {
			return err
		}
		if parsed < 0 || field.OverflowUint(uint64(parsed)) {
			return errors.Errorf("value %d overflows %s", parsed, field.Type())
		}
		field.SetUint(uint64(parsed))
		return nil

	case reflect.Float32, reflect.Float64:
		parsed, err := toFloat64(primitive)
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
		return nil

	case reflect.Bool:
		parsed, err := toBool(primitive)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
		return nil

	case reflect.String:
		if v, ok := primitive.(string); ok {
			field.SetString(v)
			return nil
		}
		return conversionError(field, primitive)
	}

	return &mapping.UnsupportedTypeError{Type: field.Type(), Value: primitive}
}

// allocateIndirect descends through pointers, allocating along
// the way, and returns the settable element
func allocateIndirect(
	field reflect.Value,
) reflect.Value {

	for field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}
	return field
}

func toInt64(
	primitive any,
) (int64, error) {

	switch v := primitive.(type) {
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.Errorf("value %v is no integral number", v)
		}
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, errors.Errorf("value '%s' is no integral number", v)
		}
		return parsed, nil
	}
	return 0, errors.Errorf("value %v (%T) is no integral number", primitive, primitive)
}

func toFloat64(
	primitive any,
) (float64, error) {

	switch v := primitive.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Errorf("value '%s' is no floating point number", v)
		}
		return parsed, nil
	}
	return 0, errors.Errorf("value %v (%T) is no floating point number", primitive, primitive)
}

func toBool(
	primitive any,
) (bool, error) {

	switch v := primitive.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return false, errors.Errorf("value '%s' is no boolean", v)
		}
		return parsed, nil
	}
	return false, errors.Errorf("value %v (%T) is no boolean", primitive, primitive)
}

func conversionError(
	field reflect.Value, primitive any,
) error {

	return errors.Errorf(
		"cannot decode value %v (%T) into %s", primitive, primitive, field.Type(),
	)
}
