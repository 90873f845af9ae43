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
	"unicode/utf8"

	"github.com/consensys/go-score/pkg/score/number"
	"github.com/consensys/go-score/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// NUMBER signals an (unsigned) floating point literal
const NUMBER uint = 2

// LPAREN signals "left parenthesis"
const LPAREN uint = 3

// RPAREN signals "right parenthesis"
const RPAREN uint = 4

// LBRACKET signals a nested "left bracket"
const LBRACKET uint = 5

// RBRACKET signals a nested "right bracket"
const RBRACKET uint = 6

// ADD represents addition (or a leading plus sign)
const ADD uint = 7

// SUB represents subtraction (or a leading minus sign)
const SUB uint = 8

// MUL represents multiplication
const MUL uint = 9

// DIV represents division
const DIV uint = 10

// MOD represents floating point modulus
const MOD uint = 11

// POW represents exponentiation
const POW uint = 12

// AND represents bitwise conjunction
const AND uint = 13

// OR represents bitwise disjunction
const OR uint = 14

// XOR represents bitwise exclusive-or
const XOR uint = 15

// RANDOM represents a uniform random variate
const RANDOM uint = 16

// POW2 represents rounding up to a power of two
const POW2 uint = 17

// POW2_GUARD represents rounding up to a power of two plus a guard point
const POW2_GUARD uint = 18

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.OneOf(' ', '\t', '\r'))

// Rule for describing numbers.  Signs are handled by the parser, since "2-3"
// must lex as a subtraction.
func scanNumber(items []rune) uint {
	var n = 0
	//
	if len(items) == 0 || items[0] == '+' || items[0] == '-' {
		return 0
	}
	//
	for n < len(items) && items[n] < utf8.RuneSelf {
		n++
	}
	//
	return uint(number.Scan([]byte(string(items[:n]))))
}

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(lex.Unit('('), LPAREN),
	lex.Rule(lex.Unit(')'), RPAREN),
	lex.Rule(lex.Unit('['), LBRACKET),
	lex.Rule(lex.Unit(']'), RBRACKET),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.Unit('%'), MOD),
	lex.Rule(lex.Unit('^'), POW),
	lex.Rule(lex.Unit('&'), AND),
	lex.Rule(lex.Unit('|'), OR),
	lex.Rule(lex.Unit('#'), XOR),
	lex.Rule(lex.Unit('~'), RANDOM),
	lex.Rule(lex.Unit('@', '@'), POW2_GUARD),
	lex.Rule(lex.Unit('@'), POW2),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(scanNumber, NUMBER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

var tokenizer = lex.NewTokenizer(rules...).Ignore(WHITESPACE)
