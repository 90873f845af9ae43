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
	"github.com/consensys/go-score/pkg/score/arena"
	"github.com/consensys/go-score/pkg/score/expr"
	"github.com/consensys/go-score/pkg/score/input"
	"github.com/consensys/go-score/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Indicates no opcode is pending.
const none rune = 0

// Reader reads a macro-expanded score one section at a time.  Each section is
// produced as a chain of sort blocks, which remains valid until the next call
// to Read.  A Reader is not safe for concurrent use, but independent readers
// share nothing.
type Reader struct {
	config Config
	log    log.FieldLogger
	src    *input.Source
	arena  *arena.Arena
	marks  *Bookmarks
	random *expr.Rand31
	// Current section (counting from 1)
	section int
	// Current opcode and block
	op rune
	bp *arena.SortBlock
	// Previous block with the same instrument
	prvibp *arena.SortBlock
	// Arena offset of current field
	sp int
	// Span of current field (or opcode) within the score
	span source.Span
	// Line within section, and position within line
	lincnt, linpos int
	// Section state
	clockBase, warp, prvp2 float64
	noCarry                bool
	warpIn                 int
	// Set once an 'e' is reached outside a repeat
	ended bool
	// First fatal error encountered
	fault    error
	warnings []Warning
}

// New constructs a reader for a given (macro-expanded) score.
func New(srcfile *source.File, config Config) *Reader {
	logger := config.Logger
	//
	if logger == nil {
		logger = log.StandardLogger()
	}
	//
	if config.Clock == nil {
		config.Clock = ClockSeed
	}
	//
	if config.MaxRepeatDepth == 0 {
		config.MaxRepeatDepth = DefaultRepeatDepth
	}
	//
	return &Reader{
		config: config,
		log:    logger,
		src:    input.NewSource(srcfile),
		arena:  arena.New(config.Arena),
		marks:  NewBookmarks(),
		random: expr.NewRand31(config.Seed),
		warp:   1,
		prvp2:  -1,
	}
}

// Read the next section of the score, returning true if at least one statement
// was read.  Once the end of the score is reached, false is returned
// indefinitely.  A fatal error ends reading altogether.
func (p *Reader) Read() (bool, error) {
	if p.fault != nil {
		return false, p.fault
	} else if p.ended {
		// Nothing more to read, hence no section either
		p.arena.Reset()
		return false, nil
	}
	//
	p.section++
	p.bp, p.prvibp = nil, nil
	p.warpIn = 0
	p.lincnt = 1
	p.arena.Reset()
	//
	if p.config.ClearBookmarks {
		p.marks.Clear()
	}
	//
	produced := p.dispatch()
	//
	if p.fault != nil {
		return false, p.fault
	}
	//
	return produced, nil
}

// First returns the first sort block of the section most recently read.
func (p *Reader) First() *arena.SortBlock {
	return p.arena.First()
}

// Section returns the number of the section most recently read.
func (p *Reader) Section() int {
	return p.section
}

// Warnings returns all warnings reported so far.
func (p *Reader) Warnings() []Warning {
	return p.warnings
}

// Bookmarks returns the named sections currently known.
func (p *Reader) Bookmarks() *Bookmarks {
	return p.marks
}

// Random returns the generator used for '~', as seeded by any 'y' statement.
func (p *Reader) Random() *expr.Rand31 {
	return p.random
}

// Arena returns the arena holding the current section.
func (p *Reader) Arena() *arena.Arena {
	return p.arena
}

// Close releases all storage.  No further sections can be read afterwards.
func (p *Reader) Close() {
	p.arena.Release()
	p.ended = true
}

// Read statements until the end of the section.  Statements such as 'b' which
// only adjust state reuse their block for the statement which follows.
func (p *Reader) dispatch() bool {
	var (
		produced bool
		pending  = none
	)
	//
	for p.fault == nil {
		op := pending
		pending = none
		//
		switch {
		case op == none:
			if op = p.getop(); op == input.EOF {
				return produced
			}
			//
			produced = true
			p.salcblk(op)
		case op == input.EOF:
			// Nothing to reuse the block for
			p.discard()
			return produced
		default:
			p.retarget(op)
		}
		//
		if p.fault != nil {
			break
		}
		//
		p.op = op
		//
		switch op {
		case 'i', 'd', 'f', 'a', 'q':
			p.ifa()
		case 'w':
			p.warpIn++
			p.copypflds()
		case 't':
			p.copypflds()
		case 'b':
			pending = p.setClockBase()
		case 'C':
			pending = p.setCarry()
		case 'v':
			pending = p.setWarp()
		case 'm':
			pending = p.mark()
		case 'n':
			pending = p.jump()
		case 's', 'e':
			p.sectionEnd()
			return produced
		case 'x':
			pending = p.skip()
		case 'y':
			p.seed()
		default:
			p.warn(p.span, "sread is confused on legal opcodes %c", op)
			p.flushlin()
			p.discard()
		}
	}
	//
	return produced
}

// Allocate a new block for a given opcode, and place the opcode in its text.
func (p *Reader) salcblk(op rune) {
	bp, err := p.arena.Alloc()
	//
	if err != nil {
		p.fatalArena(err)
		return
	}
	//
	p.bp = bp
	bp.Op = byte(op)
	bp.LineNo = p.lincnt
	p.put(op)
	p.put(' ')
}

// Reuse the current block for a different opcode.
func (p *Reader) retarget(op rune) {
	bp := p.bp
	p.arena.Rewind(bp.Start())
	bp.Op = byte(op)
	bp.PCnt, bp.InsNo, bp.LineNo = 0, 0, p.lincnt
	bp.P1, bp.P2, bp.P3, bp.NewP2, bp.NewP3 = 0, 0, 0, 0, 0
	p.put(op)
	p.put(' ')
}

// Remove the current block altogether.
func (p *Reader) discard() {
	p.arena.Discard()
	p.bp = p.arena.Last()
}

// Append a character to the current block.  Capacity is checked after every
// character, since a single field (e.g. a string) can be longer than the
// margin.
func (p *Reader) put(c rune) {
	if p.fault == nil {
		if err := p.arena.Put(c); err != nil {
			p.fatalArena(err)
		} else {
			p.ensure()
		}
	}
}

func (p *Reader) putString(s string) {
	for _, c := range s {
		p.put(c)
	}
}

func (p *Reader) ensure() {
	if p.fault == nil {
		if err := p.arena.Ensure(); err != nil {
			p.fatalArena(err)
		}
	}
}

// Terminate the current statement by replacing its final blank with a newline.
func (p *Reader) terminate() {
	if p.fault == nil {
		p.arena.Set(p.arena.Cursor()-1, '\n')
	}
}
