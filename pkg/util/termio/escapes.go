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
package termio

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape represents an ANSI escape code used for formatting text in a terminal.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape constructs a reset term.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// BoldAnsiEscape constructs a bold term.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[1", 1}
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	col += 30
	// Construct string
	var escape string
	if p.count > 0 {
		escape = fmt.Sprintf("%s;%d", p.escape, col)
	} else {
		escape = fmt.Sprintf("%s[%d", p.escape, col)
	}
	// Done
	return AnsiEscape{escape, p.count + 1}
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("%sm", p.escape)
}

// Highlighter wraps text in escapes, but only when writing to a terminal.
// Diagnostics redirected to a file therefore remain plain text.
type Highlighter struct {
	enabled bool
}

// NewHighlighter constructs a highlighter for a given output file, which is
// enabled only when that file is an interactive terminal.
func NewHighlighter(file *os.File) Highlighter {
	return Highlighter{term.IsTerminal(int(file.Fd()))}
}

// Enabled indicates whether this highlighter emits escapes.
func (p Highlighter) Enabled() bool {
	return p.enabled
}

// Wrap surrounds the given text with the given escape, followed by a reset.
func (p Highlighter) Wrap(escape AnsiEscape, text string) string {
	if !p.enabled {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}

// Error highlights text as an error (bold red).
func (p Highlighter) Error(text string) string {
	return p.Wrap(BoldAnsiEscape().FgColour(TERM_RED), text)
}

// Warning highlights text as a warning (yellow).
func (p Highlighter) Warning(text string) string {
	return p.Wrap(NewAnsiEscape().FgColour(TERM_YELLOW), text)
}

// Opcode highlights the opcode of a listed statement (cyan).
func (p Highlighter) Opcode(text string) string {
	return p.Wrap(NewAnsiEscape().FgColour(TERM_CYAN), text)
}
