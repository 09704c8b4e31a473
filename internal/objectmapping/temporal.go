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
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
)

const (
	utcSuffix      = " UTC"
	spaceSeparated = "2006-01-02 15:04:05.999999"
)

// parseTimestamp resolves the textual timestamp encodings found
// in query results, tried in a fixed order: microsecond epoch
// numbers (truncated to whole milliseconds), the space separated
// UTC suffix form, strict RFC 3339, and finally a zoneless
// datetime attached to UTC.
func parseTimestamp(
	value string,
) (time.Time, error) {

	if micros, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(micros / 1000).UTC(), nil
	}

	if strings.HasSuffix(value, utcSuffix) {
		if parsed, err := time.Parse(spaceSeparated, value[:len(value)-len(utcSuffix)]); err == nil {
			return parsed, nil
		}
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	if parsed, err := civil.ParseDateTime(value); err == nil {
		return parsed.In(time.UTC), nil
	}

	return time.Time{}, &mapping.DateTimeFormatError{Value: value}
}

// parseDateTime resolves zoneless datetime encodings. The UTC
// suffix form is tried first since it denotes the same wall
// clock reading.
func parseDateTime(
	value string,
) (civil.DateTime, error) {

	if strings.HasSuffix(value, utcSuffix) {
		if parsed, err := time.Parse(spaceSeparated, value[:len(value)-len(utcSuffix)]); err == nil {
			return civil.DateTimeOf(parsed), nil
		}
	}

	if parsed, err := civil.ParseDateTime(value); err == nil {
		return parsed, nil
	}

	if parsed, err := time.Parse(spaceSeparated, value); err == nil {
		return civil.DateTimeOf(parsed), nil
	}

	return civil.DateTime{}, &mapping.DateTimeFormatError{Value: value}
}

func parseDate(
	value string,
) (civil.Date, error) {

	parsed, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, &mapping.DateTimeFormatError{Value: value}
	}
	return parsed, nil
}

func parseTime(
	value string,
) (civil.Time, error) {

	parsed, err := civil.ParseTime(value)
	if err != nil {
		return civil.Time{}, &mapping.DateTimeFormatError{Value: value}
	}
	return parsed, nil
}

// formatTimestamp renders the canonical instant encoding, UTC
// normalized with the Z designator, fractional seconds only when
// present
func formatTimestamp(
	value time.Time,
) string {

	return value.UTC().Format(time.RFC3339Nano)
}

func formatDate(
	value civil.Date,
) string {

	return value.String()
}

func formatTime(
	value civil.Time,
) string {

	return value.String()
}

func formatDateTime(
	value civil.DateTime,
) string {

	return value.String()
}
