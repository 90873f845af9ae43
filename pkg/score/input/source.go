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
package input

import (
	"github.com/consensys/go-score/pkg/util/collection/stack"
	"github.com/consensys/go-score/pkg/util/source"
)

// EOF is returned by Next once the end of the input is reached.
const EOF rune = -1

// Frame captures one context from which input is being read.  The bottom frame
// is the score itself, whilst each frame above it is a repeat of a named
// section.
type Frame struct {
	// Name of the score file or named section.
	Name string
	// Current line within this frame (counting from 1).
	Line int
	// Indicates this frame repeats a named section.
	Repeat bool
	// Offset at which reading resumes once the repeat completes.
	Resume int
}

// Source provides characters from an (already macro-expanded) score, with
// exactly one character of pushback.  Reading can be redirected to an earlier
// offset for repeats, in which case a frame is pushed recording where to
// resume.
type Source struct {
	srcfile *source.File
	text    []rune
	// Offset of next character
	pos int
	// Column of next character within its line
	column int
	// Column prior to the last character read
	previous int
	// Indicates the last operation was an Unget
	pushed bool
	// Input frames (never empty)
	frames *stack.Stack[*Frame]
}

// NewSource constructs a new character source over a given file.
func NewSource(srcfile *source.File) *Source {
	frames := stack.NewStack[*Frame]()
	frames.Push(&Frame{srcfile.Filename(), 1, false, 0})
	//
	return &Source{srcfile, srcfile.Contents(), 0, 0, 0, false, frames}
}

// File returns the file being read.
func (p *Source) File() *source.File {
	return p.srcfile
}

// Next consumes the next character, returning EOF at the end of the input.
// Once EOF is reached, it is returned indefinitely.
func (p *Source) Next() rune {
	p.pushed = false
	//
	if p.pos >= len(p.text) {
		return EOF
	}
	//
	c := p.text[p.pos]
	p.pos++
	p.previous = p.column
	//
	if c == '\n' {
		p.Frame().Line++
		p.column = 0
	} else {
		p.column++
	}
	//
	return c
}

// Unget returns the character most recently read by Next to the input.  Only
// one character can be returned before Next is called again.  Returning EOF
// has no effect.
func (p *Source) Unget(c rune) {
	if c == EOF {
		return
	} else if p.pushed {
		panic("more than one character pushed back")
	} else if p.pos == 0 {
		panic("nothing to push back")
	}
	//
	p.pushed = true
	p.pos--
	p.column = p.previous
	//
	if c == '\n' {
		p.Frame().Line--
	}
}

// Tell returns the offset of the next character.
func (p *Source) Tell() int {
	return p.pos
}

// Seek repositions the input at a given offset.
func (p *Source) Seek(offset int) {
	p.pos = max(0, min(offset, len(p.text)))
	p.pushed = false
	p.column = 0
	//
	for i := p.pos - 1; i >= 0 && p.text[i] != '\n'; i-- {
		p.column++
	}
	//
	p.previous = p.column
}

// Column returns the column of the next character within its line.
func (p *Source) Column() int {
	return p.column
}

// Line returns the current line of the innermost frame.
func (p *Source) Line() int {
	return p.Frame().Line
}

// Frame returns the innermost input frame.
func (p *Source) Frame() *Frame {
	return p.frames.Top()
}

// Depth returns the number of input frames, which is always at least one.
func (p *Source) Depth() uint {
	return p.frames.Len()
}

// InRepeat checks whether input is currently being read from a repeat.
func (p *Source) InRepeat() bool {
	return p.Frame().Repeat
}

// PushRepeat redirects input to the given offset, which is the start of a named
// section on a given line.  Reading will resume at the current offset once
// PopRepeat is called.
func (p *Source) PushRepeat(name string, offset int, line int) {
	p.frames.Push(&Frame{name, line, true, p.pos})
	p.Seek(offset)
}

// PopRepeat completes the innermost repeat, restoring the input to where the
// repeat began.  The bottom frame is never popped, and false is returned in
// such case.
func (p *Source) PopRepeat() bool {
	if p.frames.Len() <= 1 {
		return false
	}
	//
	frame := p.frames.Pop()
	p.Seek(frame.Resume)
	//
	return true
}

// Backtrace returns a copy of each input frame, innermost first.
func (p *Source) Backtrace() []Frame {
	var frames []Frame
	//
	for frame := range p.frames.TopDown() {
		frames = append(frames, *frame)
	}
	//
	return frames
}
