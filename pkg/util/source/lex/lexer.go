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
package lex

import (
	"slices"

	"github.com/consensys/go-score/pkg/util/source"
)

// Token associates a kind with a given range of characters in the text being
// scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule associates groups of characters with a given tag.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching characters to a given
// tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Tokenizer splits a short input (such as the body of a bracket expression)
// into tokens using an ordered list of rules, where the first rule matching at
// the current position wins.  Tokens of any ignored kind (typically
// whitespace) are dropped from the output.
type Tokenizer[T any] struct {
	rules   []LexRule[T]
	ignored []uint
}

// NewTokenizer constructs a tokenizer from a given set of rules.
func NewTokenizer[T any](rules ...LexRule[T]) *Tokenizer[T] {
	return &Tokenizer[T]{rules, nil}
}

// Ignore marks one or more token kinds as being dropped from the output.
func (p *Tokenizer[T]) Ignore(kinds ...uint) *Tokenizer[T] {
	p.ignored = append(p.ignored, kinds...)
	return p
}

// Tokenize the given input.  This stops either after a token which consumes
// nothing (i.e. an end-of-input rule) or at the first position where no rule
// matches.  In the latter case, the offending position is returned alongside
// the tokens read so far; otherwise, the position is -1.
func (p *Tokenizer[T]) Tokenize(input []T) ([]Token, int) {
	var (
		tokens []Token
		index  int
	)
	//
	for index <= len(input) {
		kind, n, ok := p.match(input[index:])
		//
		if !ok {
			return tokens, index
		}
		//
		end := min(len(input), index+int(n))
		if !slices.Contains(p.ignored, kind) {
			tokens = append(tokens, Token{kind, source.NewSpan(index, end)})
		}
		//
		if n == 0 {
			// End of input
			break
		}
		//
		index = end
	}
	//
	return tokens, -1
}

func (p *Tokenizer[T]) match(items []T) (uint, uint, bool) {
	for _, r := range p.rules {
		if n := r.scanner(items); n > 0 {
			// Eof scanners report one beyond the end
			return r.tag, min(n, uint(len(items))), true
		}
	}
	//
	return 0, 0, false
}
