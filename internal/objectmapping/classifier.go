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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

var (
	timestampType = reflect.TypeOf(time.Time{})
	dateType      = reflect.TypeOf(civil.Date{})
	timeType      = reflect.TypeOf(civil.Time{})
	dateTimeType  = reflect.TypeOf(civil.DateTime{})
	numericType   = reflect.TypeOf(pgtype.Numeric{})
	bigIntType    = reflect.TypeOf(big.Int{})
)

// classifyScalar decides the column kind of a declared Go type.
// The decision is purely type driven, values never participate.
// Pointers classify as their element type. A false return means
// the type is no scalar at all, not that it is invalid.
func classifyScalar(
	t reflect.Type,
) (schema.Kind, bool) {

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case timestampType:
		return schema.TIMESTAMP, true
	case dateType:
		return schema.DATE, true
	case timeType:
		return schema.TIME, true
	case dateTimeType:
		return schema.DATETIME, true
	case numericType, bigIntType:
		return schema.NUMERIC, true
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return schema.INTEGER, true
	case reflect.Float32, reflect.Float64:
		return schema.FLOAT, true
	case reflect.Bool:
		return schema.BOOLEAN, true
	case reflect.String:
		return schema.STRING, true
	}

	return "", false
}
