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

package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

const (
	TSDB_MIN_VERSION TimescaleVersion = 21000
	PG_MIN_VERSION   PostgresVersion  = 130000
)

var (
	BinName    = "bigqueryobjects"
	Version    = "0.1.0"
	CommitHash = "unknown"
	Branch     = "unknown"
)

// PostgresVersion is the comparable form of a PostgreSQL server
// version, encoded as major*10000+minor
type PostgresVersion uint

// Major returns the major version
func (pv PostgresVersion) Major() uint {
	return uint(pv) / 10000
}

// Minor returns the minor version
func (pv PostgresVersion) Minor() uint {
	return uint(pv) % 10000
}

// String renders the version as >>major.minor<<
func (pv PostgresVersion) String() string {
	return fmt.Sprintf("%d.%d", pv.Major(), pv.Minor())
}

// Compare returns a negative value if pv is lower than other,
// zero if both versions match, and a positive value otherwise
func (pv PostgresVersion) Compare(other PostgresVersion) int {
	return cmp.Compare(pv, other)
}

// ParsePostgresVersion parses the server_version setting reported
// by a PostgreSQL server, tolerating vendor suffixes such as
// >>15.2 (Debian 15.2-1.pgdg110+1)<<
func ParsePostgresVersion(version string) (PostgresVersion, error) {
	components := versionComponents(version)
	if len(components) < 2 {
		return 0, errors.Errorf("malformed postgresql version: %s", version)
	}
	return PostgresVersion(components[0]*10000 + components[1]), nil
}

// TimescaleVersion is the comparable form of a TimescaleDB extension
// version, encoded as major*10000+minor*100+release
type TimescaleVersion uint

// Major returns the major version
func (tv TimescaleVersion) Major() uint {
	return uint(tv) / 10000
}

// Minor returns the minor version
func (tv TimescaleVersion) Minor() uint {
	return (uint(tv) / 100) % 100
}

// Release returns the release version
func (tv TimescaleVersion) Release() uint {
	return uint(tv) % 100
}

// String renders the version as >>major.minor.release<<
func (tv TimescaleVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", tv.Major(), tv.Minor(), tv.Release())
}

// Compare returns a negative value if tv is lower than other,
// zero if both versions match, and a positive value otherwise
func (tv TimescaleVersion) Compare(other TimescaleVersion) int {
	return cmp.Compare(tv, other)
}

// ParseTimescaleVersion parses the extversion value reported for the
// timescaledb extension, as in >>2.11.0<<. The release component is
// optional.
func ParseTimescaleVersion(version string) (TimescaleVersion, error) {
	components := versionComponents(version)
	if len(components) < 2 {
		return 0, errors.Errorf("malformed timescaledb version: %s", version)
	}

	release := uint64(0)
	if len(components) > 2 {
		release = components[2]
	}
	return TimescaleVersion(components[0]*10000 + components[1]*100 + release), nil
}

// versionComponents collects up to three leading numeric components
// of a dotted version string and stops at the first non-numeric
// character
func versionComponents(version string) []uint64 {
	components := make([]uint64, 0, 3)
	for _, part := range strings.SplitN(version, ".", 3) {
		digits := part
		if index := strings.IndexFunc(part, notADigit); index > -1 {
			digits = part[:index]
		}

		value, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			break
		}
		components = append(components, value)

		if len(digits) < len(part) {
			break
		}
	}
	return components
}

func notADigit(r rune) bool {
	return r < '0' || r > '9'
}
