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
	"math"
	"strings"

	"github.com/consensys/go-score/pkg/score/arena"
	"github.com/consensys/go-score/pkg/score/input"
)

// Build an event statement ('i', 'd', 'f', 'a' or 'q'), resolving p1, p2 and p3
// and applying the carry rules.
func (p *Reader) ifa() {
	var (
		bp      = p.bp
		nocarry = false
	)
	//
	p.prvibp = nil
	//
	for p.getpfld() {
		nocarry = false
		bp.PCnt++
		//
		field := string(p.field())
		//
		switch {
		case field[0] == '^' && p.op == 'i' && bp.PCnt == 2:
			p.relativeStart(field)
		case field == "." || field == "+":
			if !p.carry(field[0]) {
				p.carryError()
				p.resolve("0")
			}
		case field[0] == '!':
			if p.op != 'i' {
				p.warnField("ignoring '%s' in '%c' event", field, p.op)
			} else if bp.PCnt < 4 {
				p.warnField("! invalid in p1, p2, or p3, remainder of line flushed")
				p.flushlin()
			} else if len(field) != 1 {
				p.warnField("illegal character after !: '%c', remainder of line flushed", field[1])
				p.flushlin()
			} else {
				nocarry = true
				p.flushlin()
			}
			// The field itself is always deleted
			p.arena.Rewind(p.sp)
			bp.PCnt--
			//
			if p.op != 'i' {
				continue
			}
		default:
			p.resolve(field)
		}
		//
		if field[0] == '!' {
			break
		}
		//
		p.warpFields()
	}
	//
	if p.fault != nil {
		return
	}
	// Fill in p1-p3 when carrying is disabled
	if prv := p.reference(); p.noCarry && bp.PCnt < 3 && p.op == 'i' && prv != nil {
		p.pcopy(bp.PCnt+1, 3-bp.PCnt, prv)
		bp.PCnt = 3
	}
	// Carry any remaining fields
	if prv := p.reference(); p.op == 'i' && !nocarry && !p.noCarry && prv != nil && prv.PCnt > bp.PCnt {
		n := prv.PCnt - bp.PCnt
		p.pcopy(bp.PCnt+1, n, prv)
		bp.PCnt += n
	}
	//
	p.terminate()
}

// Resolve the value of one of the first three fields of an event.
func (p *Reader) resolve(field string) {
	bp := p.bp
	//
	switch bp.PCnt {
	case 1:
		if (p.op == 'i' || p.op == 'd' || p.op == 'q') && field[0] == '"' {
			bp.P1 = arena.StringCode
		} else {
			bp.P1 = p.stof(p.sp)
		}
		//
		if p.op == 'i' || p.op == 'd' {
			p.setprv(field)
		} else {
			p.prvibp = nil
		}
	case 2:
		bp.P2 = p.warp*p.stof(p.sp) + p.clockBase
		p.prvp2 = bp.P2
	case 3:
		if p.op == 'i' {
			bp.P3 = p.warp * p.stof(p.sp)
		} else {
			bp.P3 = p.stof(p.sp)
		}
	}
}

// Resolve a start time given relative to the previous event, as in "^2" or
// "^+2".
func (p *Reader) relativeStart(field string) {
	var (
		bp     = p.bp
		offset = p.sp + 1
		op     = "^"
	)
	//
	if strings.HasPrefix(field, "^+") {
		offset++
		op = "^+"
	}
	//
	if p.prvp2 < 0 {
		p.warnField("no previous event for %s", op)
		bp.P2 = p.warp * p.stof(offset)
	} else if offset >= p.arena.Cursor()-1 {
		p.warnField("illegal space following %s, zero substituted", op)
		bp.P2 = p.prvp2
	} else {
		bp.P2 = p.prvp2 + p.warp*p.stof(offset)
	}
	//
	p.prvp2 = bp.P2
}

// Apply a carry ('.' or '+') to the current field, returning false if carrying
// is not permitted here.
func (p *Reader) carry(c byte) bool {
	var (
		bp  = p.bp
		prv *arena.SortBlock
	)
	//
	if p.op != 'i' || (c == '+' && bp.PCnt != 2) {
		return false
	} else if bp.PCnt >= 2 && p.prvibp != nil && bp.PCnt <= p.prvibp.PCnt {
		prv = p.prvibp
	} else if bp.PCnt == 1 && bp.Prev != nil && bp.Prev.Op == 'i' {
		prv = bp.Prev
	} else {
		return false
	}
	//
	if c == '.' {
		p.arena.Rewind(p.sp)
		p.pcopy(bp.PCnt, 1, prv)
		//
		if bp.PCnt >= 2 {
			p.prvp2 = bp.P2
		}
	} else {
		// Negative durations denote held notes
		bp.P2 = prv.P2 + math.Abs(prv.P3)
		p.prvp2 = bp.P2
	}
	//
	return true
}

// Report an illegal carry, echoing the statement up to the offending field.
// The field is replaced by "0".
func (p *Reader) carryError() {
	text := p.arena.Slice(p.bp.Start(), p.sp+1)
	//
	p.warnField("illegal use of carry, 0 substituted: %s<=", strings.TrimSpace(string(text)))
	p.arena.Set(p.sp, '0')
}

// Read the extra fields which give the warped start and duration, when a
// warp-in is active.  The text of these fields is not retained.
func (p *Reader) warpFields() {
	bp := p.bp
	//
	switch bp.PCnt {
	case 2:
		bp.NewP2 = bp.P2
		//
		if p.warpIn > 0 && p.getpfld() {
			bp.NewP2 = p.warp*p.stof(p.sp) + p.clockBase
			p.arena.Rewind(p.sp)
		}
	case 3:
		bp.NewP3 = bp.P3
		//
		if p.warpIn > 0 && (p.op == 'i' || p.op == 'f') && p.getpfld() {
			bp.NewP3 = p.warp * p.stof(p.sp)
			p.arena.Rewind(p.sp)
		}
	}
}

// Determine the block from which fields are carried.  This is the previous
// event for the same instrument or, for a statement without fields, the
// immediately preceding event.
func (p *Reader) reference() *arena.SortBlock {
	if p.prvibp != nil {
		return p.prvibp
	} else if prv := p.bp.Prev; p.bp.PCnt == 0 && prv != nil && prv.Op == 'i' {
		return prv
	}
	//
	return nil
}

// Set the instrument number of the current block from its first field, and
// locate the previous block for the same instrument.
func (p *Reader) setprv(field string) {
	var (
		bp = p.bp
		n  int
	)
	//
	if arena.IsStringCode(bp.P1) && strings.HasPrefix(field, "\"") {
		n = p.instrument(strings.Trim(field, "\""))
	} else {
		n = int(bp.P1)
	}
	//
	bp.InsNo = n
	p.prvibp = nil
	//
	for prv := bp.Prev; prv != nil; prv = prv.Prev {
		if prv.InsNo == n && (prv.Op == 'i' || prv.Op == 'd') {
			p.prvibp = prv
			return
		}
	}
}

// Look up a named instrument.  A leading '-' negates the number found.
func (p *Reader) instrument(name string) int {
	var (
		sign = 1
		base = name
	)
	//
	if strings.HasPrefix(name, "-") {
		sign, base = -1, name[1:]
	}
	//
	if p.config.Instruments != nil {
		if n, ok := p.config.Instruments.Instrument(base); ok && n != 0 {
			return sign * n
		}
	}
	//
	p.warnField("instr %s not found, assuming insno = -1", name)
	//
	return -1
}

// Copy fields from a previous block, starting from a given field and
// continuing for a given number of fields.  The values of p1-p3 are copied
// with their text.
func (p *Reader) pcopy(pfno int, ncopy int, prv *arena.SortBlock) {
	var (
		bp     = p.bp
		fields = prv.Fields()
	)
	//
	for n := 0; n < ncopy && pfno <= len(fields) && p.fault == nil; n++ {
		text := string(fields[pfno-1])
		//
		p.putString(text)
		p.put(' ')
		//
		switch pfno {
		case 1:
			bp.P1 = prv.P1
			p.setprv(text)
		case 2:
			if text == "+" {
				bp.P2 = prv.P2 + math.Abs(prv.P3)
			} else {
				bp.P2 = prv.P2
			}
			//
			p.prvp2 = bp.P2
			bp.NewP2 = bp.P2
		case 3:
			bp.P3 = prv.P3
			bp.NewP3 = bp.P3
		}
		//
		pfno++
	}
}

// Build a statement whose fields are copied verbatim.
func (p *Reader) copypflds() {
	p.bp.PCnt = 0
	//
	for p.getpfld() {
		p.bp.PCnt++
	}
	//
	p.terminate()
}

// Copy the remainder of the current line verbatim into the block, replacing
// the blank which follows the opcode.
func (p *Reader) copylin() {
	p.arena.Rewind(p.arena.Cursor() - 1)
	//
	for c := p.src.Next(); p.fault == nil; c = p.src.Next() {
		if c == input.EOF {
			p.put('\n')
			break
		}
		//
		p.put(c)
		//
		if c == '\n' {
			break
		}
	}
	//
	p.lincnt++
	p.linpos = 0
}

