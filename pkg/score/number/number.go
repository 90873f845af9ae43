// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package number

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Forever is the duration denoted by a field with a trailing 'z'.
const Forever = 800000000000.0

// Scan determines the length of the longest prefix of the given text which is
// a floating point literal.  Accepted forms are an optional sign followed by
// either a decimal literal (with optional exponent), a hexadecimal literal
// (with optional binary exponent), or one of "inf", "infinity" or "nan"
// (ignoring case).  A result of zero indicates no literal was found.
func Scan(text []byte) int {
	var i = 0
	//
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	//
	if n := scanWord(text[i:]); n > 0 {
		return i + n
	} else if i+1 < len(text) && text[i] == '0' && (text[i+1] == 'x' || text[i+1] == 'X') {
		if n := scanMantissa(text[i+2:], isHexDigit, 'p'); n > 0 {
			return i + 2 + n
		}
		// Just the leading zero then.
		return i + 1
	} else if n := scanMantissa(text[i:], isDigit, 'e'); n > 0 {
		return i + n
	}
	// fail
	return 0
}

// Parse converts a complete floating point literal (as accepted by Scan) into
// its value.  Values too large to represent become infinities, rather than
// errors.
func Parse(text string) (float64, error) {
	if n := Scan([]byte(text)); n == 0 || n != len(text) {
		return 0, errors.Errorf("illegal number format \"%s\"", text)
	}
	// Hexadecimal literals require an exponent for strconv.
	if isHex(text) && !strings.ContainsAny(text, "pP") {
		text = text + "p0"
	}
	//
	val, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errors.WithStack(err)
	}
	//
	return val, nil
}

// Field converts the text of a single parameter field into a value.  A 'z'
// immediately following the literal (or on its own) means Forever.  Otherwise,
// the field must consist entirely of a literal, and false is returned when it
// does not.
func Field(text []byte) (float64, bool) {
	n := Scan(text)
	//
	if n < len(text) && text[n] == 'z' {
		return Forever, true
	} else if n == 0 || n != len(text) {
		return 0, false
	}
	//
	val, err := Parse(string(text))
	//
	return val, err == nil
}

// Format produces the textual form used for evaluated expressions within
// statement text.  This is an exact hexadecimal representation, hence Parse
// reproduces the same value.
func Format(val float64) string {
	return strconv.FormatFloat(val, 'x', -1, 64)
}

func isHex(text string) bool {
	text = strings.TrimLeft(text, "+-")
	//
	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// Scan digits with an optional fractional part, followed by an optional
// exponent.  At least one digit is required in the mantissa.  An exponent is
// only consumed when it has at least one (decimal) digit.
func scanMantissa(text []byte, digit func(byte) bool, exp byte) int {
	var (
		i      = 0
		digits = 0
	)
	//
	for i < len(text) && digit(text[i]) {
		i++
		digits++
	}
	//
	if i < len(text) && text[i] == '.' {
		i++
		//
		for i < len(text) && digit(text[i]) {
			i++
			digits++
		}
	}
	//
	if digits == 0 {
		return 0
	}
	//
	if i < len(text) && (text[i] == exp || text[i] == exp-'a'+'A') {
		j := i + 1
		//
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		//
		k := j
		for k < len(text) && isDigit(text[k]) {
			k++
		}
		//
		if k > j {
			i = k
		}
	}
	//
	return i
}

func scanWord(text []byte) int {
	for _, w := range []string{"infinity", "inf", "nan"} {
		if len(text) >= len(w) && strings.EqualFold(string(text[:len(w)]), w) {
			return len(w)
		}
	}
	//
	return 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
