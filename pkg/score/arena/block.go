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

import "math"

// A quiet NaN whose payload spells "STRG".  No arithmetic produces it, hence it
// safely marks a field holding a quoted string.
const stringCodeBits = uint64(0x7FF8000053545247)

// StringCode is the value of p1 when the instrument is given by a quoted name.
var StringCode = math.Float64frombits(stringCodeBits)

// IsStringCode checks whether a given value is the quoted string sentinel.
func IsStringCode(val float64) bool {
	return math.Float64bits(val) == stringCodeBits
}

// SortBlock is one resolved score statement.  Its text consists of the opcode
// followed by each parameter field, each separated by a single blank, and
// terminated by a newline.
type SortBlock struct {
	// Neighbouring blocks in the chain
	Prev, Next *SortBlock
	// Opcode character
	Op byte
	// Number of parameter fields
	PCnt int
	// Resolved values of the first three fields, and their time-warped
	// counterparts.
	P1, P2, P3, NewP2, NewP3 float64
	// Instrument number (signed)
	InsNo int
	// Source line (relative to the section)
	LineNo int
	// Owning arena and location of text within it
	arena      *Arena
	start, end int
}

// Text returns the text of this block.  The result is only valid until the
// owning arena is next written.
func (p *SortBlock) Text() []byte {
	return p.arena.text[p.start:p.end]
}

// Start returns the offset of this block's text within its arena.
func (p *SortBlock) Start() int {
	return p.start
}

// End returns the offset one past the end of this block's text.
func (p *SortBlock) End() int {
	return p.end
}

// Field returns the text of the nth parameter field (counting from 1), or nil
// if there is no such field.  Quoted strings are returned with their quotes,
// and may contain blanks.
func (p *SortBlock) Field(n int) []byte {
	fields := p.Fields()
	//
	if n < 1 || n > len(fields) {
		return nil
	}
	//
	return fields[n-1]
}

// Fields splits the text of this block into its parameter fields.
func (p *SortBlock) Fields() [][]byte {
	var (
		text   = p.Text()
		fields [][]byte
	)
	// Skip opcode
	i := min(2, len(text))
	//
	for i < len(text) {
		j := i
		//
		if text[j] == '"' {
			// Find matching quote, honouring escapes
			for j++; j < len(text) && text[j] != '"'; j++ {
				if text[j] == '\\' {
					j++
				}
			}
			//
			j = min(j+1, len(text))
		}
		//
		for j < len(text) && text[j] != ' ' && text[j] != '\n' {
			j++
		}
		//
		if j > i {
			fields = append(fields, text[i:j])
		}
		//
		i = j + 1
	}
	//
	return fields
}

// IsEvent checks whether this block is an event, and hence has resolved p1..p3
// values.
func (p *SortBlock) IsEvent() bool {
	switch p.Op {
	case 'i', 'd', 'f', 'a', 'q':
		return true
	}
	//
	return false
}

func (p *SortBlock) String() string {
	return string(p.Text())
}
