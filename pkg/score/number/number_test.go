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
	"math"
	"testing"
)

func TestScan_01(t *testing.T) {
	checkScan(t, "", 0)
	checkScan(t, "1", 1)
	checkScan(t, "-1.5", 4)
	checkScan(t, ".5", 2)
	checkScan(t, "5.", 2)
	checkScan(t, ".", 0)
	checkScan(t, "+", 0)
}

func TestScan_02(t *testing.T) {
	checkScan(t, "1e3", 3)
	checkScan(t, "1E-3", 4)
	checkScan(t, "1e", 1)
	checkScan(t, "1e+", 1)
	checkScan(t, "2.5z", 3)
	checkScan(t, "3 4", 1)
}

func TestScan_03(t *testing.T) {
	checkScan(t, "0x1.4p+02", 9)
	checkScan(t, "0x10", 4)
	checkScan(t, "0x", 1)
	checkScan(t, "-0xAp1", 6)
}

func TestScan_04(t *testing.T) {
	checkScan(t, "inf", 3)
	checkScan(t, "-Infinity", 9)
	checkScan(t, "nan", 3)
	checkScan(t, "n", 0)
}

func TestParse_01(t *testing.T) {
	checkParse(t, "14", 14)
	checkParse(t, "-2.5", -2.5)
	checkParse(t, "1e3", 1000)
	checkParse(t, "0x10", 16)
	checkParse(t, "0x1.4p+02", 5)
}

func TestParse_02(t *testing.T) {
	for _, s := range []string{"", "x", "1x", "1 ", "--1"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestParse_Overflow(t *testing.T) {
	checkParse(t, "1e999", math.Inf(1))
}

func TestFormat_01(t *testing.T) {
	checkFormat(t, 5, "0x1.4p+02")
	checkFormat(t, 14, "0x1.cp+03")
	checkFormat(t, 20, "0x1.4p+04")
	checkFormat(t, 1, "0x1p+00")
	checkFormat(t, 8, "0x1p+03")
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.1, 1.0 / 3, 123456.789, -1e-300, 1e300, Forever} {
		if w, err := Parse(Format(v)); err != nil || w != v {
			t.Errorf("round trip of %v gave %v (%v)", v, w, err)
		}
	}
}

func TestField_01(t *testing.T) {
	checkField(t, "3.5z", Forever, true)
	checkField(t, "z", Forever, true)
	checkField(t, "1", 1, true)
	checkField(t, "1.2.3", 0, false)
	checkField(t, "<", 0, false)
	checkField(t, "", 0, false)
}

// ==================================================================
// Framework
// ==================================================================

func checkScan(t *testing.T, input string, expected int) {
	if n := Scan([]byte(input)); n != expected {
		t.Errorf("scanning %q: expected %d, got %d", input, expected, n)
	}
}

func checkParse(t *testing.T, input string, expected float64) {
	if v, err := Parse(input); err != nil {
		t.Errorf("parsing %q: %v", input, err)
	} else if v != expected {
		t.Errorf("parsing %q: expected %v, got %v", input, expected, v)
	}
}

func checkFormat(t *testing.T, input float64, expected string) {
	if s := Format(input); s != expected {
		t.Errorf("formatting %v: expected %q, got %q", input, expected, s)
	}
}

func checkField(t *testing.T, input string, expected float64, ok bool) {
	if v, b := Field([]byte(input)); b != ok || v != expected {
		t.Errorf("field %q: expected (%v,%v), got (%v,%v)", input, expected, ok, v, b)
	}
}
