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

	"github.com/consensys/go-score/pkg/score/input"
	"github.com/consensys/go-score/pkg/score/number"
)

// Read the single value of a 'b', 'C' or 'v' statement.  The remainder of the
// line is discarded.  If there is no value, false is returned and nothing is
// discarded (since the next opcode may already have been reached).
func (p *Reader) value() (float64, bool) {
	if !p.getpfld() {
		if p.fault == nil {
			p.warn(p.span, "missing value for %c statement", p.op)
		}
		//
		return 0, false
	}
	//
	val := p.stof(p.sp)
	p.flushlin()
	//
	return val, true
}

// Handle a 'b' statement, which sets the clock base.  The block is reused for
// the following statement.
func (p *Reader) setClockBase() rune {
	if val, ok := p.value(); ok {
		p.clockBase = val
		p.log.Debugf("clock base = %f", val)
	}
	//
	return p.getop()
}

// Handle a 'C' statement, which disables carrying when its value is zero.
func (p *Reader) setCarry() rune {
	if val, ok := p.value(); ok {
		p.noCarry = val == 0
		p.log.Debugf("no carry = %t", p.noCarry)
	}
	//
	return p.getop()
}

// Handle a 'v' statement, which sets the local warp factor.
func (p *Reader) setWarp() rune {
	if val, ok := p.value(); ok {
		p.warp = val
		p.log.Debugf("warp factor = %f", val)
	}
	//
	return p.getop()
}

// Handle an 'm' statement, which records the position of a named section.
// The section begins on the line following the statement.
func (p *Reader) mark() rune {
	name, span := p.getName()
	//
	if name == "" {
		p.warn(span, "missing name for m statement")
		return p.getop()
	}
	//
	offset := p.src.Tell()
	//
	if p.marks.Mark(name, offset, p.src.Line()) {
		p.log.Debugf("named section %s redefined", name)
	}
	//
	p.log.Debugf("%s position %d", name, offset)
	//
	return p.getop()
}

// Handle an 'n' statement, which inserts a copy of a named section.  The copy
// ends at the next 's' or 'e' statement, after which reading resumes here.
func (p *Reader) jump() rune {
	name, span := p.getName()
	//
	if m, ok := p.marks.Lookup(name); !ok {
		p.warn(span, "name %s not found", name)
	} else if p.src.Depth() > p.config.MaxRepeatDepth {
		p.warn(span, "named section %s nested too deeply", name)
	} else {
		p.log.Debugf("named section %s", name)
		p.src.PushRepeat(name, m.Offset, m.Line)
	}
	//
	return p.getop()
}

// Handle an 's' or 'e' statement.  An optional value becomes the block's p1 and
// p2.  Within a named section, this completes the section and reading resumes
// after the 'n' statement which inserted it.
func (p *Reader) sectionEnd() {
	bp := p.bp
	//
	p.copylin()
	//
	if p.fault != nil {
		return
	}
	//
	text := strings.TrimLeft(string(bp.Text()[1:]), " \t")
	//
	if len(text) > 0 && strings.ContainsRune("+-.0123456789", rune(text[0])) {
		if n := number.Scan([]byte(text)); n > 0 && (n == len(text) || isSpace(text[n])) {
			val, _ := number.Parse(text[:n])
			bp.PCnt = 1
			bp.P1, bp.P2, bp.NewP2 = val, val, val
		}
	}
	//
	if p.src.PopRepeat() {
		return
	} else if p.op == 'e' {
		p.ended = true
	} else {
		p.clockBase = 0
		p.warp = 1
		p.prvp2 = -1
	}
}

// Handle an 'x' statement, which skips everything up to the next 's', 'r',
// 'm' or 'e' statement.
func (p *Reader) skip() rune {
	p.flushlin()
	//
	for {
		switch op := p.getop(); op {
		case 's', 'r', 'm', 'e', input.EOF:
			return op
		default:
			p.flushlin()
		}
	}
}

// Handle a 'y' statement, which seeds the generator used by '~' either from its
// value or, if there is none, from the clock.  The rest of the line is kept as
// the statement's text.
func (p *Reader) seed() {
	bp := p.bp
	//
	p.copylin()
	//
	if p.fault != nil {
		return
	}
	//
	var (
		text = strings.TrimLeft(string(bp.Text()[1:]), " \t")
		seed uint32
	)
	//
	if n := number.Scan([]byte(text)); n > 0 && strings.ContainsRune("+-.0123456789", rune(text[0])) {
		val, _ := number.Parse(text[:n])
		seed = uint32(int64(val))
		p.log.Debugf("seed from score %d", seed)
	} else {
		seed = p.config.Clock()
		//
		for seed >= 0x7FFFFFFE {
			seed -= 0x7FFFFFFE
		}
		//
		seed++
		p.log.Debugf("seed from clock %d", seed)
	}
	//
	p.random.Seed(seed)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
