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
	"strings"

	"github.com/go-errors/errors"
	"github.com/jackc/pgx/v5/pgtype"
)

// RenderNumeric produces the exact plain decimal encoding of a
// numeric value, never scientific notation, with the full scale
// preserved
func RenderNumeric(
	value pgtype.Numeric,
) (string, error) {

	if value.NaN {
		return "", errors.Errorf("NaN has no plain decimal representation")
	}
	if value.InfinityModifier != pgtype.Finite {
		return "", errors.Errorf("infinity has no plain decimal representation")
	}
	if value.Int == nil {
		return "0", nil
	}

	digits := value.Int.String()
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var rendered string
	if exp := int(value.Exp); exp >= 0 {
		rendered = digits + strings.Repeat("0", exp)
	} else {
		scale := -exp
		if len(digits) <= scale {
			rendered = "0." + strings.Repeat("0", scale-len(digits)) + digits
		} else {
			rendered = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
		}
	}

	if negative {
		rendered = "-" + rendered
	}
	return rendered, nil
}

// ParseNumeric reads the plain decimal encoding back into the
// unscaled integer and exponent pair
func ParseNumeric(
	value string,
) (pgtype.Numeric, error) {

	digits := value
	negative := strings.HasPrefix(digits, "-")
	if negative || strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}

	integral, fraction, _ := strings.Cut(digits, ".")
	unscaled := integral + fraction

	parsed, ok := new(big.Int).SetString(unscaled, 10)
	if !ok || unscaled == "" {
		return pgtype.Numeric{}, errors.Errorf("value '%s' is no plain decimal number", value)
	}
	if negative {
		parsed = parsed.Neg(parsed)
	}

	return pgtype.Numeric{
		Int:   parsed,
		Exp:   int32(-len(fraction)),
		Valid: true,
	}, nil
}
