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
package expr

import (
	"math"
	"testing"
)

func TestEvaluate_01(t *testing.T) {
	checkEvaluate(t, "1", 1)
	checkEvaluate(t, " 2.5 ", 2.5)
	checkEvaluate(t, "-3", -3)
	checkEvaluate(t, "+3", 3)
	checkEvaluate(t, "1e2", 100)
}

func TestEvaluate_02(t *testing.T) {
	checkEvaluate(t, "2+3*4", 14)
	checkEvaluate(t, "(2+3)*4", 20)
	checkEvaluate(t, "[2+3]*4", 20)
	checkEvaluate(t, "10-4-3", 3)
	checkEvaluate(t, "8/4/2", 1)
	checkEvaluate(t, "2-3", -1)
	checkEvaluate(t, "2--3", 5)
}

func TestEvaluate_03(t *testing.T) {
	checkEvaluate(t, "2^3", 8)
	checkEvaluate(t, "2^3^2", 512)
	checkEvaluate(t, "2*3^2", 18)
	checkEvaluate(t, "1+2^2*3", 13)
}

func TestEvaluate_04(t *testing.T) {
	checkEvaluate(t, "7%3", 1)
	checkEvaluate(t, "7%-3", 1)
	checkEvaluate(t, "-7%3", -1)
	checkEvaluate(t, "7%0", 0)
	checkEvaluate(t, "7.5%2", 1.5)
}

func TestEvaluate_05(t *testing.T) {
	checkEvaluate(t, "6&3", 2)
	checkEvaluate(t, "6|3", 7)
	checkEvaluate(t, "6#3", 5)
	checkEvaluate(t, "5.6&7", 6)
	// bitwise binds tighter than addition, looser than multiplication
	checkEvaluate(t, "1+6&3", 3)
	checkEvaluate(t, "2*3|8", 14)
}

func TestEvaluate_06(t *testing.T) {
	checkEvaluate(t, "@5", 8)
	checkEvaluate(t, "@8", 8)
	checkEvaluate(t, "@@5", 9)
	checkEvaluate(t, "@@8", 9)
	checkEvaluate(t, "@0", 1)
	checkEvaluate(t, "@1000000000", Pow2Limit)
	checkEvaluate(t, "@ 3 + 1", 5)
	checkEvaluate(t, "@", 1)
}

func TestEvaluate_07(t *testing.T) {
	checkEvaluate(t, "((1))", 1)
	checkEvaluate(t, "[(1+1)*[2]]", 4)
	checkEvaluate(t, "1/0", math.Inf(1))
}

func TestEvaluate_Random(t *testing.T) {
	rng := NewRand31(1)
	//
	for range 1000 {
		v, errs := Evaluate("~", rng)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors %v", errs)
		} else if v < -1 || v >= 1 {
			t.Fatalf("random value %v out of range", v)
		}
	}
}

func TestEvaluate_Invalid_01(t *testing.T) {
	checkInvalid(t, "", 0, 0)
	checkInvalid(t, "1+", 2, 2)
	checkInvalid(t, "*2", 0, 1)
	checkInvalid(t, "2 3", 2, 3)
	checkInvalid(t, "- 3", 0, 1)
}

func TestEvaluate_Invalid_02(t *testing.T) {
	checkInvalid(t, "(1", 0, 1)
	checkInvalid(t, "1)", 1, 2)
	checkInvalid(t, "(1]", 2, 3)
	checkInvalid(t, "()", 1, 2)
}

func TestEvaluate_Invalid_03(t *testing.T) {
	checkInvalid(t, "1+x", 2, 3)
	checkInvalid(t, "1 ~", 2, 3)
	checkInvalid(t, "2(3)", 1, 2)
	checkInvalid(t, ".", 0, 1)
}

func TestRand31_Sequence(t *testing.T) {
	rng := NewRand31(1)
	// first values of x' = 742938285x mod 2^31-1
	expected := []uint32{742938285, 1710921057, 1796558312}
	//
	for _, e := range expected {
		if v := rng.Next(); v != e {
			t.Errorf("expected %d, got %d", e, v)
		}
	}
}

func TestRand31_Seed(t *testing.T) {
	a, b := NewRand31(0), NewRand31(uint32(Rand31Modulus))
	//
	if a.Next() != b.Next() {
		t.Errorf("degenerate seeds should coincide")
	}
}

// ==================================================================
// Framework
// ==================================================================

type fixed float64

func (p fixed) Uniform() float64 {
	return float64(p)
}

func checkEvaluate(t *testing.T, input string, expected float64) {
	val, errs := Evaluate(input, fixed(0.5))
	//
	if len(errs) != 0 {
		t.Errorf("evaluating %q: %s", input, errs[0].Message())
	} else if val != expected {
		t.Errorf("evaluating %q: expected %v, got %v", input, expected, val)
	}
}

func checkInvalid(t *testing.T, input string, start int, end int) {
	_, errs := Evaluate(input, fixed(0.5))
	//
	if len(errs) != 1 {
		t.Errorf("evaluating %q: expected one error, got %d", input, len(errs))
	} else if span := errs[0].Span(); span.Start() != start || span.End() != end {
		t.Errorf("evaluating %q: expected error at %d-%d, got %d-%d (%s)", input, start, end,
			span.Start(), span.End(), errs[0].Message())
	}
}
