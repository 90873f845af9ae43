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
package test

import (
	"testing"

	"github.com/consensys/go-score/pkg/test/util"
)

// ===================================================================
// Statement Tests
// ===================================================================

func Test_Invalid_Opcode_01(t *testing.T) {
	checkInvalid(t, "invalid/opcode_01")
}

func Test_Invalid_Char_01(t *testing.T) {
	checkInvalid(t, "invalid/char_01")
}

func Test_Invalid_Value_01(t *testing.T) {
	checkInvalid(t, "invalid/value_01")
}

func Test_Invalid_Name_01(t *testing.T) {
	checkInvalid(t, "invalid/name_01")
}

// ===================================================================
// Field Tests
// ===================================================================

func Test_Invalid_Number_01(t *testing.T) {
	checkInvalid(t, "invalid/number_01")
}

func Test_Invalid_Quote_01(t *testing.T) {
	checkInvalid(t, "invalid/quote_01")
}

func Test_Invalid_String_01(t *testing.T) {
	checkInvalid(t, "invalid/string_01")
}

func Test_Invalid_Instr_01(t *testing.T) {
	checkInvalid(t, "invalid/instr_01")
}

func Test_Invalid_Carry_01(t *testing.T) {
	checkInvalid(t, "invalid/carry_01")
}

func Test_Invalid_Bang_01(t *testing.T) {
	checkInvalid(t, "invalid/bang_01")
}

func Test_Invalid_Relative_01(t *testing.T) {
	checkInvalid(t, "invalid/relative_01")
}

// ===================================================================
// Expression Tests
// ===================================================================

func Test_Invalid_Expr_01(t *testing.T) {
	checkInvalid(t, "invalid/expr_01")
}

func Test_Invalid_Expr_02(t *testing.T) {
	checkInvalid(t, "invalid/expr_02")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkInvalid(t *testing.T, test string) {
	util.CheckInvalid(t, test, util.SCORE_EXT, util.ReadDiagnostics)
}
