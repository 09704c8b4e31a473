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
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/stretchr/testify/assert"
)

func Test_Parse_Timestamp_All_Encodings_Same_Instant(
	t *testing.T,
) {

	expected := time.Date(2023, time.October, 27, 10, 30, 0, 0, time.UTC)

	for _, value := range []string{
		"2023-10-27T10:30:00Z",
		"2023-10-27 10:30:00 UTC",
		"1698402600000000",
		"2023-10-27T10:30:00",
	} {
		parsed, err := parseTimestamp(value)
		assert.NoError(t, err, "value %s", value)
		assert.True(t, parsed.Equal(expected), "value %s parsed as %s", value, parsed)
	}
}

func Test_Parse_Timestamp_Epoch_Truncates_To_Milliseconds(
	t *testing.T,
) {

	parsed, err := parseTimestamp("1698402600123456")
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(time.UnixMilli(1698402600123).UTC()))
}

func Test_Parse_Timestamp_Offset_Preserves_Instant(
	t *testing.T,
) {

	parsed, err := parseTimestamp("2023-10-27T12:30:00+02:00")
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2023, time.October, 27, 10, 30, 0, 0, time.UTC)))
}

func Test_Parse_Timestamp_Exhaustion_Carries_Original(
	t *testing.T,
) {

	_, err := parseTimestamp("next thursday")

	var formatError *mapping.DateTimeFormatError
	assert.True(t, errors.As(err, &formatError))
	assert.Equal(t, "next thursday", formatError.Value)
}

func Test_Parse_DateTime_Fallback_Order(
	t *testing.T,
) {

	expected := "2023-10-27T10:30:00"

	for _, value := range []string{
		"2023-10-27 10:30:00 UTC",
		"2023-10-27T10:30:00",
		"2023-10-27 10:30:00",
	} {
		parsed, err := parseDateTime(value)
		assert.NoError(t, err, "value %s", value)
		assert.Equal(t, expected, parsed.String(), "value %s", value)
	}
}

func Test_Parse_DateTime_Fractional_Seconds(
	t *testing.T,
) {

	parsed, err := parseDateTime("2023-10-27 10:30:00.5 UTC")
	assert.NoError(t, err)
	assert.Equal(t, 500000000, parsed.Time.Nanosecond)
}

func Test_Parse_DateTime_Exhaustion_Carries_Original(
	t *testing.T,
) {

	_, err := parseDateTime("27.10.2023")

	var formatError *mapping.DateTimeFormatError
	assert.True(t, errors.As(err, &formatError))
	assert.Equal(t, "27.10.2023", formatError.Value)
}

func Test_Parse_Date_And_Time_Strict(
	t *testing.T,
) {

	date, err := parseDate("2023-10-27")
	assert.NoError(t, err)
	assert.Equal(t, "2023-10-27", date.String())

	_, err = parseDate("10/27/2023")
	assert.Error(t, err)

	parsed, err := parseTime("10:30:00")
	assert.NoError(t, err)
	assert.Equal(t, "10:30:00", parsed.String())

	_, err = parseTime("10.30")
	assert.Error(t, err)
}

func Test_Format_Timestamp_Whole_Seconds_Without_Fraction(
	t *testing.T,
) {

	assert.Equal(
		t,
		"2023-12-25T10:15:30Z",
		formatTimestamp(time.Date(2023, time.December, 25, 10, 15, 30, 0, time.UTC)),
	)
	assert.Equal(
		t,
		"2023-12-25T10:15:30.25Z",
		formatTimestamp(time.Date(2023, time.December, 25, 10, 15, 30, 250000000, time.UTC)),
	)
}

func Test_Render_And_Parse_Numeric_Round_Trip(
	t *testing.T,
) {

	for _, value := range []string{
		"123.45", "-123.45", "0.005", "-0.005", "1200", "0", "0.00", "99999999999999999999.999999",
	} {
		parsed, err := ParseNumeric(value)
		assert.NoError(t, err, "value %s", value)

		rendered, err := RenderNumeric(parsed)
		assert.NoError(t, err, "value %s", value)
		assert.Equal(t, value, rendered, "value %s", value)
	}

	_, err := ParseNumeric("1.2e5")
	assert.Error(t, err)

	_, err = ParseNumeric("money")
	assert.Error(t, err)
}
