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
package reader

import (
	"strings"

	"github.com/consensys/go-score/pkg/score/expr"
	"github.com/consensys/go-score/pkg/score/input"
	"github.com/consensys/go-score/pkg/score/number"
	"github.com/consensys/go-score/pkg/util/source"
)

// Every legal opcode.
const opcodes = "abdCefimnqrstvwxy{}"

// Characters which may begin a parameter field.
const fieldStart = "0123456789.+-^np<>()\"~!z"

// Characters which may continue an unquoted parameter field.
const fieldRest = "0123456789.+-eEnp<>()~z"

// Get the first character which is not a blank, newline or comment.
func (p *Reader) sget1() rune {
	for {
		c := p.src.Next()
		//
		switch c {
		case ' ', '\t', '\r':
			continue
		case '\n':
			p.lincnt++
			p.linpos = 0
		case ';':
			p.flushlin()
		default:
			return c
		}
	}
}

// Get the next legal opcode, skipping (with a warning) any lines which don't
// start with one.
func (p *Reader) getop() rune {
	for {
		c := p.sget1()
		pos := p.src.Tell()
		//
		if c == input.EOF {
			p.span = source.NewSpan(pos, pos)
			return c
		}
		//
		p.span = source.NewSpan(pos-1, pos)
		//
		if strings.ContainsRune(opcodes, c) {
			p.linpos++
			return c
		}
		//
		p.warn(p.span, "illegal opcode %c, remainder of line flushed", c)
		p.flushlin()
	}
}

// Discard the remainder of the current line.
func (p *Reader) flushlin() {
	for c := p.src.Next(); c != '\n' && c != input.EOF; c = p.src.Next() {
	}
	//
	p.linpos = 0
	p.lincnt++
}

// Get the next parameter field, appending its text (followed by a blank) to the
// current block.  Returns false if there is no further field on this
// statement, or a fatal error has occurred.
func (p *Reader) getpfld() bool {
	if p.fault != nil {
		return false
	}
	//
	c := p.sget1()
	start := p.src.Tell() - 1
	//
	if c == input.EOF {
		return false
	} else if c == '[' {
		return p.getExpression(start)
	} else if !strings.ContainsRune(fieldStart, c) {
		p.src.Unget(c)
		//
		if p.linpos > 0 {
			p.warn(source.NewSpan(start, start+1), "unexpected char %c, remainder of line flushed", c)
			p.flushlin()
		}
		//
		return false
	}
	//
	p.sp = p.arena.Cursor()
	p.linpos++
	p.put(c)
	//
	if c == '"' && !p.getString(start) {
		return false
	} else if c != '"' {
		for c = p.src.Next(); strings.ContainsRune(fieldRest, c); c = p.src.Next() {
			p.put(c)
		}
		// Any illegal character delimits the field
		p.src.Unget(c)
	}
	//
	p.span = source.NewSpan(start, p.src.Tell())
	p.put(' ')
	//
	return p.fault == nil
}

// Read the remainder of a quoted string, whose opening quote has already been
// placed into the block.  Strings are only permitted as the first field of
// 'i', 'd' and 'q' statements, or from the fourth field onwards.
func (p *Reader) getString(start int) bool {
	var (
		pcnt = p.bp.PCnt
		op   = p.op
	)
	//
	if pcnt < 3 && (pcnt != 0 || (op != 'i' && op != 'd' && op != 'q')) {
		p.arena.Rewind(p.sp)
		p.warn(source.NewSpan(start, start+1), "illegally placed string, remainder of line flushed")
		p.flushlin()
		//
		return false
	}
	//
	for c := p.src.Next(); c != '"'; c = p.src.Next() {
		if c == '\\' {
			p.put(c)
			c = p.src.Next()
		}
		//
		if c == '\n' || c == input.EOF {
			p.arena.Rewind(p.sp)
			p.src.Unget(c)
			p.warn(source.NewSpan(start, p.src.Tell()), "unmatched quote")
			p.flushlin()
			//
			return false
		}
		//
		p.put(c)
	}
	//
	p.put('"')
	//
	return true
}

// Evaluate a bracket expression, and append its value as a field.  The opening
// bracket has already been consumed.  Any problem here is fatal.
func (p *Reader) getExpression(start int) bool {
	var (
		body  []rune
		depth = 1
	)
	//
	for depth > 0 {
		c := p.src.Next()
		//
		switch c {
		case '\n', input.EOF:
			p.src.Unget(c)
			p.fatal(p.src.File().SyntaxError(source.NewSpan(start, p.src.Tell()),
				"missing closing bracket in [] expression"))
			//
			return false
		case '[':
			depth++
		case ']':
			depth--
		}
		//
		if depth > 0 {
			body = append(body, c)
		}
	}
	//
	val, errs := expr.Evaluate(string(body), p.random)
	//
	if len(errs) > 0 {
		span := errs[0].Span().Shift(start + 1)
		p.fatal(p.src.File().SyntaxError(span, errs[0].Message()))
		//
		return false
	}
	//
	p.sp = p.arena.Cursor()
	p.span = source.NewSpan(start, p.src.Tell())
	p.linpos++
	p.putString(number.Format(val))
	p.put(' ')
	//
	return p.fault == nil
}

// Get the text of the current field (without its trailing blank).
func (p *Reader) field() []byte {
	return p.arena.Slice(p.sp, p.arena.Cursor()-1)
}

// Convert the text of the current field, starting from a given arena offset,
// into a value.  Malformed text is overwritten with zeros, and zero is
// returned.
func (p *Reader) stof(offset int) float64 {
	var (
		end  = p.arena.Cursor() - 1
		text = p.arena.Slice(offset, end)
	)
	//
	if val, ok := number.Field(text); ok {
		return val
	}
	//
	p.warnField("illegal number format \"%s\", zero substituted", string(text))
	//
	for i := offset; i < end; i++ {
		p.arena.Set(i, '0')
	}
	//
	return 0
}

// Read the name of a section, which begins with a letter and continues with
// letters, digits or underscores.  The remainder of the line is discarded.
func (p *Reader) getName() (string, source.Span) {
	var (
		name strings.Builder
		c    = p.src.Next()
	)
	//
	for c == ' ' || c == '\t' {
		c = p.src.Next()
	}
	//
	start := p.src.Tell() - 1
	//
	for isNameChar(c, name.Len()) {
		name.WriteRune(c)
		c = p.src.Next()
	}
	//
	span := source.NewSpan(max(0, start), max(0, start+name.Len()))
	//
	if c == '\n' {
		p.lincnt++
		p.linpos = 0
	} else if c != input.EOF {
		p.flushlin()
	}
	//
	return name.String(), span
}

func isNameChar(c rune, pos int) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case pos > 0 && (c == '_' || ('0' <= c && c <= '9')):
		return true
	default:
		return false
	}
}
