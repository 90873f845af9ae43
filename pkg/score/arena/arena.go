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
package arena

import (
	"fmt"
	"unicode/utf8"
)

// Config determines the allocation policy of an arena.
type Config struct {
	// MemSize is the initial size of the text region, and the quantum to which
	// all subsequent sizes are rounded.
	MemSize int
	// Margin is the slack beyond the end of the text region into which a
	// single field may be written before capacity is next checked.
	Margin int
	// SlabSize is the number of block headers per slab.
	SlabSize int
	// Limit bounds the size of the text region (0 means unbounded).
	Limit int
}

// DefaultConfig returns the standard allocation policy.
func DefaultConfig() Config {
	return Config{16384, 4096, 256, 0}
}

// OverrunError indicates that text was written beyond the end of the text
// region plus its margin, or that the region could not grow any further.
type OverrunError struct {
	Offset int
	End    int
}

func (p OverrunError) Error() string {
	return fmt.Sprintf("text space overrun at %d (end %d), increase margin", p.Offset, p.End)
}

// Arena holds every sort block of one section.  Statement text lives in a
// single contiguous region which grows geometrically, whilst block headers
// live in fixed-size slabs which never move.  Blocks refer to their text by
// offset, hence growing the text region requires no pointer fix-ups: every
// handle remains valid across a relocation.
type Arena struct {
	config Config
	// Text region, whose length is end + margin.
	text []byte
	// Next free position in the text region.
	nxp int
	// Boundary at which the text region must next grow.
	end int
	// Block header storage.
	slabs [][]SortBlock
	// Number of blocks allocated in this section.
	count int
	// First and last blocks of the chain.
	first, last *SortBlock
	// Number of times the text region has been reallocated.
	relocations int
}

// New constructs an arena with a given policy.  No memory is allocated until
// the arena is first used.
func New(config Config) *Arena {
	defaults := DefaultConfig()
	// Fill in anything missing
	if config.MemSize <= 0 {
		config.MemSize = defaults.MemSize
	}
	//
	if config.Margin <= 0 {
		config.Margin = defaults.Margin
	}
	//
	if config.SlabSize <= 0 {
		config.SlabSize = defaults.SlabSize
	}
	//
	return &Arena{config: config}
}

// Alloc allocates a new block at the current cursor, and links it onto the
// end of the chain.  The block initially has no text.
func (p *Arena) Alloc() (*SortBlock, error) {
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	//
	index := p.count / p.config.SlabSize
	//
	if index == len(p.slabs) {
		p.slabs = append(p.slabs, make([]SortBlock, p.config.SlabSize))
	}
	//
	block := &p.slabs[index][p.count%p.config.SlabSize]
	*block = SortBlock{arena: p, Prev: p.last, start: p.nxp, end: p.nxp}
	//
	if p.last != nil {
		p.last.Next = block
	} else {
		p.first = block
	}
	//
	p.last = block
	p.count++
	//
	return block, nil
}

// Discard removes the last block from the chain, releasing its text.
func (p *Arena) Discard() {
	if p.last == nil {
		return
	}
	//
	block := p.last
	p.nxp = block.start
	p.last = block.Prev
	p.count--
	//
	if p.last != nil {
		p.last.Next = nil
	} else {
		p.first = nil
	}
	// Clear links for safety
	*block = SortBlock{}
}

// First returns the first block of the chain, or nil if there are none.
func (p *Arena) First() *SortBlock {
	return p.first
}

// Last returns the last block of the chain, or nil if there are none.
func (p *Arena) Last() *SortBlock {
	return p.last
}

// Len returns the number of blocks in the chain.
func (p *Arena) Len() int {
	return p.count
}

// Cursor returns the offset of the next free position.
func (p *Arena) Cursor() int {
	return p.nxp
}

// Relocations returns the number of times the text region has been
// reallocated since the arena was created.
func (p *Arena) Relocations() int {
	return p.relocations
}

// Capacity returns the size of the text region (excluding margin).
func (p *Arena) Capacity() int {
	return p.end
}

// Put appends a character to the text of the last block.  Writes may extend
// into the margin, but not beyond it.
func (p *Arena) Put(c rune) error {
	if c < utf8.RuneSelf {
		return p.PutByte(byte(c))
	}
	//
	return p.PutString(string(c))
}

// PutByte appends a single byte to the text of the last block.
func (p *Arena) PutByte(c byte) error {
	if p.text == nil {
		p.init()
	}
	//
	if p.nxp >= len(p.text) {
		return OverrunError{p.nxp, p.end}
	}
	//
	p.text[p.nxp] = c
	p.nxp++
	//
	if p.last != nil {
		p.last.end = p.nxp
	}
	//
	return nil
}

// PutString appends zero or more bytes to the text of the last block.
func (p *Arena) PutString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := p.PutByte(s[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

// Rewind moves the cursor back to an earlier offset, discarding everything
// written after it.  The offset must not precede the start of the last block.
func (p *Arena) Rewind(offset int) {
	if offset > p.nxp || (p.last != nil && offset < p.last.start) {
		panic(fmt.Sprintf("invalid rewind to %d", offset))
	}
	//
	p.nxp = offset
	//
	if p.last != nil {
		p.last.end = offset
	}
}

// Set overwrites a previously written byte.
func (p *Arena) Set(offset int, c byte) {
	if offset >= p.nxp {
		panic(fmt.Sprintf("invalid write at %d", offset))
	}
	//
	p.text[offset] = c
}

// Get reads a previously written byte.
func (p *Arena) Get(offset int) byte {
	if offset >= p.nxp {
		panic(fmt.Sprintf("invalid read at %d", offset))
	}
	//
	return p.text[offset]
}

// Slice returns the text between two offsets.  The result is only valid until
// the next write, since the region may be reallocated.
func (p *Arena) Slice(start int, end int) []byte {
	return p.text[start:end]
}

// Ensure grows the text region if the cursor has reached its end.  A cursor
// which has already passed the margin cannot be recovered from.
func (p *Arena) Ensure() error {
	if p.text == nil {
		p.init()
	}
	//
	if p.nxp < p.end {
		return nil
	} else if p.nxp >= p.end+p.config.Margin {
		return OverrunError{p.nxp, p.end}
	}
	// Grow by an eighth, rounded up to the quantum.
	quantum := p.config.MemSize
	nbytes := p.end + (p.end >> 3) + quantum - 1
	nbytes = (nbytes / quantum) * quantum
	//
	if p.config.Limit > 0 && nbytes > p.config.Limit {
		return OverrunError{p.nxp, p.end}
	}
	//
	text := make([]byte, nbytes+p.config.Margin)
	copy(text, p.text[:p.nxp])
	p.text = text
	p.end = nbytes
	p.relocations++
	//
	return nil
}

// Reset rewinds the arena for a new section.  Both the text region and the
// slabs are retained for reuse.
func (p *Arena) Reset() {
	for i := range p.count {
		p.slabs[i/p.config.SlabSize][i%p.config.SlabSize] = SortBlock{}
	}
	//
	p.nxp = 0
	p.count = 0
	p.first = nil
	p.last = nil
}

// Release frees all storage held by the arena.  The arena can still be used
// afterwards, in which case storage is allocated afresh.
func (p *Arena) Release() {
	p.Reset()
	p.text = nil
	p.slabs = nil
	p.end = 0
}

func (p *Arena) init() {
	p.end = p.config.MemSize
	p.text = make([]byte, p.end+p.config.Margin)
}
