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

package testsupport

import (
	"math/rand"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/samber/lo"
)

// Numeric parses the plain decimal rendering into a numeric value.
// Panics on malformed input, the fixtures using it are literals.
func Numeric(
	value string,
) pgtype.Numeric {

	parsed, err := objectmapping.ParseNumeric(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// CollectRows drains a query result into a slice and closes it.
func CollectRows(
	result rowset.Result,
) ([]rowset.Row, error) {

	defer result.Close()

	rows := make([]rowset.Row, 0)
	for result.Next() {
		rows = append(rows, result.Row())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func RandomTableName() string {
	return lo.RandomString(20, lo.LowerCaseLettersCharset)
}

func RandomNumber(
	min, max int,
) int {

	return min + rand.Intn(max-min)
}
