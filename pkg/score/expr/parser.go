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
	"fmt"
	"math"

	"github.com/consensys/go-score/pkg/score/number"
	"github.com/consensys/go-score/pkg/util/collection/stack"
	"github.com/consensys/go-score/pkg/util/source"
	"github.com/consensys/go-score/pkg/util/source/lex"
)

// Pow2Limit bounds the result of the power-of-two rounding operators.
const Pow2Limit = 0x4000000

// Evaluate a bracket expression, where the input is the text found between
// the outermost brackets.  Any error returned here is fatal for the enclosing
// score, and its span is relative to the given input.
func Evaluate(input string, random Random) (float64, []source.SyntaxError) {
	var (
		srcfile       = source.NewSourceFile("expr", []byte(input))
		tokens, stall = tokenizer.Tokenize(srcfile.Contents())
	)
	// Anything which could not be lexed is an error
	if stall >= 0 {
		c := srcfile.Contents()[stall]
		err := srcfile.SyntaxError(source.NewSpan(stall, stall+1),
			fmt.Sprintf("illegal character %c(%.2x) in [] expression", c, c))
		//
		return 0, []source.SyntaxError{*err}
	}
	//
	return NewParser(srcfile, tokens, random).Parse()
}

// Parser evaluates a stream of expression tokens using an operator stack and
// an operand stack.  Operators are reduced as soon as one of lower (or equal,
// for left-associative operators) precedence arrives.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	random  Random
	// Position within the tokens
	index int
	// Pending operators and brackets
	operators *stack.Stack[lex.Token]
	// Values computed so far
	operands *stack.Stack[float64]
}

// NewParser constructs a parser for a given token stream, which must be
// terminated by END_OF.
func NewParser(srcfile *source.File, tokens []lex.Token, random Random) *Parser {
	return &Parser{srcfile, tokens, random, 0, stack.NewStack[lex.Token](), stack.NewStack[float64]()}
}

// Parse the token stream, producing the value of the expression.
func (p *Parser) Parse() (float64, []source.SyntaxError) {
	var (
		operand = true
		errs    []source.SyntaxError
	)
	//
	for len(errs) == 0 {
		token := p.next()
		//
		switch {
		case operand:
			operand, errs = p.parseOperand(token)
		case token.Kind == END_OF:
			return p.finish(token)
		case token.Kind == RPAREN || token.Kind == RBRACKET:
			errs = p.close(token)
		case precedence(token.Kind) > 0:
			p.reduce(token.Kind)
			p.operators.Push(token)
			operand = true
		default:
			errs = p.syntaxErrors(token, "illegal placement of %s in [] expression", p.describe(token))
		}
	}
	//
	return 0, errs
}

// Parse a token where an operand is expected, returning true if a further
// operand is still expected afterwards (i.e. an opening bracket was seen).
func (p *Parser) parseOperand(token lex.Token) (bool, []source.SyntaxError) {
	switch token.Kind {
	case NUMBER:
		p.operands.Push(p.number(token))
	case ADD, SUB:
		// A sign is only permitted directly in front of a number
		next := p.lookahead()
		if next.Kind != NUMBER || next.Span.Start() != token.Span.End() {
			return true, p.syntaxErrors(token, "illegal placement of operator %s in [] expression",
				p.describe(token))
		}
		//
		val := p.number(p.next())
		//
		if token.Kind == SUB {
			val = -val
		}
		//
		p.operands.Push(val)
	case RANDOM:
		p.operands.Push(p.random.Uniform())
	case POW2, POW2_GUARD:
		var n float64
		//
		if p.lookahead().Kind == NUMBER {
			n = p.number(p.next())
		}
		//
		p.operands.Push(PowerOfTwo(n, token.Kind == POW2_GUARD))
	case LPAREN, LBRACKET:
		p.operators.Push(token)
		return true, nil
	case END_OF:
		return true, p.syntaxErrors(token, "missing operand in [] expression")
	default:
		return true, p.syntaxErrors(token, "missing operand before %s in [] expression", p.describe(token))
	}
	//
	return false, nil
}

// Close a parenthesised (or bracketed) sub-expression.
func (p *Parser) close(token lex.Token) []source.SyntaxError {
	var opener = LPAREN
	//
	if token.Kind == RBRACKET {
		opener = LBRACKET
	}
	//
	p.reduce(0)
	//
	if p.operators.IsEmpty() {
		return p.syntaxErrors(token, "unmatched %s in [] expression", p.describe(token))
	} else if top := p.operators.Top(); top.Kind != opener {
		return p.syntaxErrors(token, "%s does not match %s in [] expression", p.describe(token), p.describe(top))
	}
	//
	p.operators.Pop()
	//
	return nil
}

// Finish off the expression once the end is reached.
func (p *Parser) finish(token lex.Token) (float64, []source.SyntaxError) {
	p.reduce(0)
	//
	if !p.operators.IsEmpty() {
		open := p.operators.Top()
		return 0, p.syntaxErrors(open, "unclosed %s in [] expression", p.describe(open))
	} else if p.operands.Len() != 1 {
		// Should be unreachable
		return 0, p.syntaxErrors(token, "malformed [] expression")
	}
	//
	return p.operands.Pop(), nil
}

// Reduce all pending operators which bind at least as tightly as a given
// operator.  A kind with no precedence (e.g. END_OF) reduces everything up to
// the nearest open bracket.
func (p *Parser) reduce(kind uint) {
	var level = precedence(kind)
	//
	for !p.operators.IsEmpty() {
		top := precedence(p.operators.Top().Kind)
		// Brackets have zero precedence, and exponentiation is right associative.
		if top == 0 || top < level || (top == level && kind == POW) {
			return
		}
		//
		op := p.operators.Pop()
		rhs := p.operands.Pop()
		lhs := p.operands.Pop()
		p.operands.Push(Apply(op.Kind, lhs, rhs))
	}
}

// Apply a given binary operator to its operands.
func Apply(kind uint, lhs float64, rhs float64) float64 {
	switch kind {
	case ADD:
		return lhs + rhs
	case SUB:
		return lhs - rhs
	case MUL:
		return lhs * rhs
	case DIV:
		return lhs / rhs
	case MOD:
		return Modulus(lhs, rhs)
	case POW:
		return math.Pow(lhs, rhs)
	case AND:
		return float64(round(lhs) & round(rhs))
	case OR:
		return float64(round(lhs) | round(rhs))
	case XOR:
		return float64(round(lhs) ^ round(rhs))
	}
	//
	panic(fmt.Sprintf("unknown operator %d", kind))
}

// Modulus returns the remainder of lhs divided by the magnitude of rhs, or 0
// when rhs is zero.
func Modulus(lhs float64, rhs float64) float64 {
	if rhs == 0 {
		return 0
	}
	//
	return math.Mod(lhs, math.Abs(rhs))
}

// PowerOfTwo returns the smallest power of two which is at least n (capped at
// Pow2Limit), plus one if a guard point is requested.
func PowerOfTwo(n float64, guard bool) float64 {
	var i = 1
	//
	for float64(i) < n && i < Pow2Limit {
		i <<= 1
	}
	//
	if guard {
		return float64(i + 1)
	}
	//
	return float64(i)
}

func precedence(kind uint) uint {
	switch kind {
	case POW:
		return 4
	case MUL, DIV, MOD:
		return 3
	case AND, OR, XOR:
		return 2
	case ADD, SUB:
		return 1
	default:
		return 0
	}
}

func round(val float64) int64 {
	return int64(math.RoundToEven(val))
}

func (p *Parser) number(token lex.Token) float64 {
	// Cannot fail, since the lexer only accepts valid literals
	val, err := number.Parse(p.string(token))
	if err != nil {
		panic(err.Error())
	}
	//
	return val
}

func (p *Parser) describe(token lex.Token) string {
	if token.Kind == END_OF {
		return "end of expression"
	}
	//
	return fmt.Sprintf("'%s'", p.string(token))
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

func (p *Parser) next() lex.Token {
	token := p.tokens[p.index]
	// Never move beyond END_OF
	if token.Kind != END_OF {
		p.index++
	}
	//
	return token
}

func (p *Parser) syntaxErrors(token lex.Token, msg string, args ...any) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, fmt.Sprintf(msg, args...))}
}
