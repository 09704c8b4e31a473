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

package timescaledb

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-errors/errors"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/spi/encoding"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// wideValue normalizes a driver returned value into the wide row
// model: integers to int64, floats to float64, temporals and
// decimals to their canonical text encodings, jsonb documents to
// nested rows and repeated cells.
func wideValue(
	field schema.Field, raw any, decoder *encoding.JsonDecoder,
) (rowset.Value, error) {

	if raw == nil {
		return rowset.NullValue(), nil
	}

	if field.Mode == schema.REPEATED || field.Kind == schema.RECORD {
		payload, err := jsonPayload(raw, decoder)
		if err != nil {
			return rowset.Value{}, err
		}
		return jsonValue(field, payload), nil
	}

	switch v := raw.(type) {
	case int64:
		return rowset.PrimitiveValue(v), nil
	case int32:
		return rowset.PrimitiveValue(int64(v)), nil
	case int16:
		return rowset.PrimitiveValue(int64(v)), nil
	case float64:
		return rowset.PrimitiveValue(v), nil
	case float32:
		return rowset.PrimitiveValue(float64(v)), nil
	case bool:
		return rowset.PrimitiveValue(v), nil
	case string:
		return rowset.PrimitiveValue(v), nil
	case pgtype.Numeric:
		rendered, err := objectmapping.RenderNumeric(v)
		if err != nil {
			return rowset.Value{}, err
		}
		return rowset.PrimitiveValue(rendered), nil
	case time.Time:
		return rowset.PrimitiveValue(formatTemporal(field.Kind, v)), nil
	case pgtype.Time:
		return rowset.PrimitiveValue(formatTimeOfDay(v)), nil
	}

	return rowset.Value{}, errors.Errorf(
		"unsupported query value of type %T in column '%s'", raw, field.Name,
	)
}

func jsonPayload(
	raw any, decoder *encoding.JsonDecoder,
) (payload any, err error) {

	switch v := raw.(type) {
	case []byte:
		err = decoder.Unmarshal(v, &payload)
	case string:
		err = decoder.Unmarshal([]byte(v), &payload)
	default:
		payload = raw
	}
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return payload, nil
}

// jsonValue rebuilds the typed cell tree from a decoded jsonb
// document. Nested rows follow the subfield order of the schema,
// document keys without a schema field are dropped.
func jsonValue(
	field schema.Field, payload any,
) rowset.Value {

	if payload == nil {
		return rowset.NullValue()
	}

	if field.Mode == schema.REPEATED {
		elements, repeated := payload.([]any)
		if !repeated {
			return rowset.PrimitiveValue(payload)
		}

		element := field
		element.Mode = schema.NULLABLE

		values := make([]rowset.Value, 0, len(elements))
		for _, entry := range elements {
			values = append(values, jsonValue(element, entry))
		}
		return rowset.RepeatedValue(values)
	}

	if field.Kind == schema.RECORD {
		document, record := payload.(map[string]any)
		if !record {
			return rowset.PrimitiveValue(payload)
		}
		if len(field.Fields) == 0 {
			return untypedJsonValue(document)
		}

		row := rowset.NewRow()
		for _, sub := range field.Fields {
			nested, present := document[sub.Name]
			if !present {
				continue
			}
			row.Append(sub.Name, jsonValue(sub, nested))
		}
		return rowset.RecordValue(row)
	}

	if number, isNumber := payload.(float64); isNumber && field.Kind == schema.INTEGER {
		return rowset.PrimitiveValue(int64(number))
	}
	return rowset.PrimitiveValue(payload)
}

// untypedJsonValue converts a document without schema knowledge,
// for columns born from query expressions. Keys go in
// lexicographic order to keep results deterministic.
func untypedJsonValue(
	payload any,
) rowset.Value {

	switch v := payload.(type) {
	case nil:
		return rowset.NullValue()
	case []any:
		values := make([]rowset.Value, 0, len(v))
		for _, entry := range v {
			values = append(values, untypedJsonValue(entry))
		}
		return rowset.RepeatedValue(values)
	case map[string]any:
		keys := maps.Keys(v)
		slices.Sort(keys)

		row := rowset.NewRow()
		for _, key := range keys {
			row.Append(key, untypedJsonValue(v[key]))
		}
		return rowset.RecordValue(row)
	default:
		return rowset.PrimitiveValue(payload)
	}
}

func kindFromOid(
	oid uint32,
) schema.Kind {

	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return schema.INTEGER
	case pgtype.Float4OID, pgtype.Float8OID:
		return schema.FLOAT
	case pgtype.BoolOID:
		return schema.BOOLEAN
	case pgtype.NumericOID:
		return schema.NUMERIC
	case pgtype.DateOID:
		return schema.DATE
	case pgtype.TimeOID:
		return schema.TIME
	case pgtype.TimestampOID:
		return schema.DATETIME
	case pgtype.TimestamptzOID:
		return schema.TIMESTAMP
	case pgtype.JSONOID, pgtype.JSONBOID:
		return schema.RECORD
	default:
		return schema.STRING
	}
}

func formatTemporal(
	kind schema.Kind, value time.Time,
) string {

	switch kind {
	case schema.DATE:
		return value.Format("2006-01-02")
	case schema.DATETIME:
		return civil.DateTimeOf(value).String()
	default:
		return value.UTC().Format(time.RFC3339Nano)
	}
}

func formatTimeOfDay(
	value pgtype.Time,
) string {

	sinceMidnight := time.Duration(value.Microseconds) * time.Microsecond
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(sinceMidnight)
	return civil.TimeOf(base).String()
}
