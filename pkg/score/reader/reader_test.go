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
	"testing"

	"github.com/consensys/go-score/pkg/score/arena"
	"github.com/consensys/go-score/pkg/score/expr"
	"github.com/consensys/go-score/pkg/score/number"
	"github.com/consensys/go-score/pkg/util/source"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Carry(t *testing.T) {
	r := newReader("i 1 0 1\ni . 1 1\ne\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 3)
	checkEvent(t, blocks[0], "i 1 0 1\n", 1, 0, 1)
	checkEvent(t, blocks[1], "i 1 1 1\n", 1, 1, 1)
	assert.Equal(t, "e\n", blocks[2].String())
	assert.Equal(t, []int{1, 2, 3}, lineNumbers(blocks))
	// Nothing follows an 'e'
	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReader_Empty(t *testing.T) {
	r := newReader("  ; nothing here\n\n", DefaultConfig())
	//
	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r.First())
}

func TestReader_Expression(t *testing.T) {
	r := newReader("i1 0 1 [2+3]\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, 4, blocks[0].PCnt)
	assert.Equal(t, number.Format(5), string(blocks[0].Field(4)))
	assert.Equal(t, 1.0, blocks[0].P3)
}

func TestReader_ExpressionFatal(t *testing.T) {
	r := newReader("i 1 0 [2+]\ni 2 0 1\n", DefaultConfig())
	//
	ok, err := r.Read()
	require.Error(t, err)
	assert.False(t, ok)
	//
	var serr *source.SyntaxError
	//
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "missing operand in [] expression", serr.Message())
	// Reader refuses to continue
	_, again := r.Read()
	assert.Equal(t, err, again)
}

func TestReader_UnclosedExpression(t *testing.T) {
	r := newReader("i 1 0 [2+3\ni 2 0 1\n", DefaultConfig())
	//
	_, err := r.Read()
	//
	var serr *source.SyntaxError
	//
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "missing closing bracket in [] expression", serr.Message())
	span := serr.Span()
	assert.Equal(t, 6, span.Start())
}

func TestReader_IllegalOpcode(t *testing.T) {
	r := newReader("Z 1 2\ni 1 0 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	checkEvent(t, blocks[0], "i 1 0 1\n", 1, 0, 1)
	checkWarnings(t, r, "illegal opcode Z, remainder of line flushed")
	assert.Equal(t, 2, blocks[0].LineNo)
}

func TestReader_UnexpectedChar(t *testing.T) {
	r := newReader("i 1 0 1 $ 4\ni 2 0 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	assert.Equal(t, "i 1 0 1\n", blocks[0].String())
	checkWarnings(t, r, "unexpected char $, remainder of line flushed")
}

func TestReader_Comments(t *testing.T) {
	r := newReader("; heading\ni 1 0 1 ; trailing\ni 2 0 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	checkEvent(t, blocks[0], "i 1 0 1\n", 1, 0, 1)
	checkEvent(t, blocks[1], "i 2 0 1\n", 2, 0, 1)
	assert.Equal(t, []int{2, 3}, lineNumbers(blocks))
	assert.Empty(t, r.Warnings())
}

func TestReader_ContinuationLines(t *testing.T) {
	r := newReader("i 1 0\n  1 5\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	checkEvent(t, blocks[0], "i 1 0 1 5\n", 1, 0, 1)
}

func TestReader_PlusCarry(t *testing.T) {
	r := newReader("i 1 0 2\ni 1 + 1\ni 1 + -3\ni 1 + 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 4)
	assert.Equal(t, 2.0, blocks[1].P2)
	assert.Equal(t, 3.0, blocks[2].P2)
	// Negative durations are held notes
	assert.Equal(t, 6.0, blocks[3].P2)
}

func TestReader_CarryRemaining(t *testing.T) {
	r := newReader("i 1 0 1 5 6\ni 1 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	checkEvent(t, blocks[1], "i 1 1 1 5 6\n", 1, 1, 1)
	assert.Equal(t, 5, blocks[1].PCnt)
}

func TestReader_CarryImmediatelyPreceding(t *testing.T) {
	r := newReader("i 1 0 1 5\ni\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	checkEvent(t, blocks[1], "i 1 0 1 5\n", 1, 0, 1)
}

func TestReader_NoCarry(t *testing.T) {
	r := newReader("C 0\ni 1 0 1 5 6\ni 1 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	checkEvent(t, blocks[1], "i 1 1 1\n", 1, 1, 1)
	assert.Equal(t, 3, blocks[1].PCnt)
}

func TestReader_Bang(t *testing.T) {
	r := newReader("i 1 0 1 5 6\ni 1 1 2 ! 7\ni 1 2 2\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 3)
	checkEvent(t, blocks[1], "i 1 1 2\n", 1, 1, 2)
	assert.Equal(t, 3, blocks[1].PCnt)
	// Carry resumes on the next statement
	assert.Equal(t, "i 1 2 2\n", blocks[2].String())
	assert.Empty(t, r.Warnings())
}

func TestReader_BangInvalid(t *testing.T) {
	r := newReader("i 1 0 ! 5\nf 1 0 4 !\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	assert.Equal(t, "i 1 0\n", blocks[0].String())
	assert.Equal(t, "f 1 0 4\n", blocks[1].String())
	checkWarnings(t, r, "! invalid in p1, p2, or p3, remainder of line flushed", "ignoring '!' in 'f' event")
}

func TestReader_CarryError(t *testing.T) {
	r := newReader("f 1 0 .\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, "f 1 0 0\n", blocks[0].String())
	assert.Equal(t, 0.0, blocks[0].P3)
	checkWarnings(t, r, "illegal use of carry, 0 substituted: f 1 0 .<=")
}

func TestReader_Relative(t *testing.T) {
	r := newReader("i 1 1 1\ni 1 ^2 1\ni 1 ^+1 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 3)
	assert.Equal(t, 3.0, blocks[1].P2)
	assert.Equal(t, 4.0, blocks[2].P2)
	assert.Empty(t, r.Warnings())
}

func TestReader_RelativeNoPrevious(t *testing.T) {
	r := newReader("i 1 ^2 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, 2.0, blocks[0].P2)
	checkWarnings(t, r, "no previous event for ^")
}

func TestReader_ClockBaseAndWarp(t *testing.T) {
	r := newReader("b 10\nv 2\ni 1 1 3\ns\ni 1 1 3\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	checkEvent(t, blocks[0], "i 1 1 3\n", 1, 12, 6)
	// Section end restores defaults
	blocks = readSection(t, r)
	require.Len(t, blocks, 1)
	checkEvent(t, blocks[0], "i 1 1 3\n", 1, 1, 3)
}

func TestReader_MissingValue(t *testing.T) {
	r := newReader("b\ni 1 1 3\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	checkEvent(t, blocks[0], "i 1 1 3\n", 1, 1, 3)
	checkWarnings(t, r, "missing value for b statement")
}

func TestReader_WarpIn(t *testing.T) {
	r := newReader("w 0 60\ni 1 1 2 5 6\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	assert.Equal(t, "w 0 60\n", blocks[0].String())
	//
	bp := blocks[1]
	checkEvent(t, bp, "i 1 1 5\n", 1, 1, 5)
	assert.Equal(t, 2.0, bp.NewP2)
	assert.Equal(t, 6.0, bp.NewP3)
}

func TestReader_IllegalNumber(t *testing.T) {
	r := newReader("i 1 0 1.2.3\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	checkEvent(t, blocks[0], "i 1 0 00000\n", 1, 0, 0)
	checkWarnings(t, r, "illegal number format \"1.2.3\", zero substituted")
}

func TestReader_Forever(t *testing.T) {
	r := newReader("f 0 z\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, number.Forever, blocks[0].P2)
}

func TestReader_Strings(t *testing.T) {
	config := DefaultConfig()
	config.Instruments = Instruments{"piano": 3}
	r := newReader("i \"piano\" 0 1\ni \"-piano\" 1 1\ni \"organ\" 2 1\ni 3 3 1 \"a b\"\n", config)
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 4)
	assert.True(t, arena.IsStringCode(blocks[0].P1))
	assert.Equal(t, []int{3, -3, -1, 3}, instruments(blocks))
	assert.Equal(t, "\"a b\"", string(blocks[3].Field(4)))
	checkWarnings(t, r, "instr organ not found, assuming insno = -1")
}

func TestReader_IllegalString(t *testing.T) {
	r := newReader("f \"x\" 0 1\ni 1 0 1 \"open\ni 2 0 1\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 3)
	assert.Equal(t, "f\n", blocks[0].String())
	assert.Equal(t, "i 1 0 1\n", blocks[1].String())
	checkEvent(t, blocks[2], "i 2 0 1\n", 2, 0, 1)
	checkWarnings(t, r, "illegally placed string, remainder of line flushed", "unmatched quote")
}

func TestReader_Bookmarks(t *testing.T) {
	r := newReader("m verse\ni 1 0 1\ns\nn verse\ne\n", DefaultConfig())
	// First time through
	blocks := readSection(t, r)
	require.Len(t, blocks, 2)
	assert.Equal(t, "i 1 0 1\n", blocks[0].String())
	//
	m, ok := r.Bookmarks().Lookup("verse")
	require.True(t, ok)
	assert.Equal(t, 2, m.Line)
	// Repeated
	blocks = readSection(t, r)
	require.Len(t, blocks, 2)
	assert.Equal(t, "i 1 0 1\n", blocks[0].String())
	assert.Equal(t, "s\n", blocks[1].String())
	// Resumes after the 'n'
	blocks = readSection(t, r)
	require.Len(t, blocks, 1)
	assert.Equal(t, "e\n", blocks[0].String())
	assert.Empty(t, r.Warnings())
}

func TestReader_BookmarksPerSection(t *testing.T) {
	config := DefaultConfig()
	config.ClearBookmarks = true
	r := newReader("m verse\ni 1 0 1\ns\nn verse\ne\n", config)
	//
	readSection(t, r)
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, "e\n", blocks[0].String())
	checkWarnings(t, r, "name verse not found")
}

// Marking an existing name updates its position, which affects only later
// jumps.
func TestReader_BookmarkRedefined(t *testing.T) {
	r := newReader("m a\ni 1 0 1\ns\nn a\nm a\ni 2 0 1\ns\nn a\n", DefaultConfig())
	//
	assert.Equal(t, []int{1, 0}, instruments(readSection(t, r)))
	assert.Equal(t, []int{1, 0}, instruments(readSection(t, r)))
	assert.Equal(t, []int{2, 0}, instruments(readSection(t, r)))
	//
	m, ok := r.Bookmarks().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 6, m.Line)
	// Repeat of the redefined section
	assert.Equal(t, []int{2, 0}, instruments(readSection(t, r)))
	assert.Equal(t, 1, r.Bookmarks().Len())
}

func TestReader_ZeroConfig(t *testing.T) {
	// Missing settings take their defaults, including the repeat depth
	r := newReader("m foo\ni 1 0 1\ns\nn foo\ne\n", Config{})
	//
	assert.Equal(t, []int{1, 0}, instruments(readSection(t, r)))
	assert.Equal(t, []int{1, 0}, instruments(readSection(t, r)))
	assert.Empty(t, r.Warnings())
}

func TestReader_RepeatDepth(t *testing.T) {
	config := DefaultConfig()
	config.MaxRepeatDepth = 3
	// The named section inserts itself, since "b 0" ends its own line
	r := newReader("m a\ni 1 0 1\nb 0\nn a\ne\n", config)
	//
	blocks := readSection(t, r)
	//
	// Three repeats, each producing another copy of the event
	assert.Equal(t, []int{1, 1, 1, 1, 0}, instruments(blocks))
	checkWarnings(t, r, "named section a nested too deeply")
}

func TestReader_RepeatAsContinuation(t *testing.T) {
	// An 'n' on the line after an event continues that event's fields
	r := newReader("m a\ni 1 0 1\nn a\ne\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	assert.Equal(t, "i 1 0 1 n\n", blocks[0].String())
	assert.Equal(t, 4, blocks[0].PCnt)
	checkWarnings(t, r, "unexpected char a, remainder of line flushed")
}

func TestReader_NothingAfterEnd(t *testing.T) {
	r := newReader("i 1 0 1\ne\ni 2 0 1\n", DefaultConfig())
	require.Len(t, readSection(t, r), 2)
	//
	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r.First())
}

func TestReader_Skip(t *testing.T) {
	r := newReader("x\ni 1 0 1\ni 2 0 1\ns\ni 3 0 1\n", DefaultConfig())
	//
	blocks := readSection(t, r)
	require.Len(t, blocks, 1)
	assert.Equal(t, "s\n", blocks[0].String())
	//
	blocks = readSection(t, r)
	require.Len(t, blocks, 1)
	assert.Equal(t, []int{3}, instruments(blocks))
}

func TestReader_SkipToEnd(t *testing.T) {
	r := newReader("i 1 0 1\nx\ni 2 0 1\n", DefaultConfig())
	//
	blocks := readSection(t, r)
	require.Len(t, blocks, 1)
	assert.Equal(t, []int{1}, instruments(blocks))
}

func TestReader_SectionValue(t *testing.T) {
	r := newReader("i 1 0 1\ns 4\ne\n", DefaultConfig())
	//
	blocks := readSection(t, r)
	require.Len(t, blocks, 2)
	assert.Equal(t, "s 4\n", blocks[1].String())
	assert.Equal(t, 1, blocks[1].PCnt)
	assert.Equal(t, 4.0, blocks[1].P2)
}

func TestReader_SeedFromScore(t *testing.T) {
	r := newReader("y 42\ni 1 0 1 [~]\n", DefaultConfig())
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 2)
	assert.Equal(t, "y 42\n", blocks[0].String())
	//
	expected := expr.NewRand31(42).Uniform()
	assert.Equal(t, number.Format(expected), string(blocks[1].Field(4)))
}

func TestReader_SeedFromClock(t *testing.T) {
	config := DefaultConfig()
	config.Clock = func() uint32 { return 0x7FFFFFFE + 5 }
	r := newReader("y\n", config)
	//
	readSection(t, r)
	assert.Equal(t, expr.NewRand31(6).Next(), r.Random().Next())
}

func TestReader_Relocation(t *testing.T) {
	var (
		config = DefaultConfig()
		text   string
	)
	//
	config.Arena = arena.Config{MemSize: 64, Margin: 32, SlabSize: 4}
	//
	for range 50 {
		text += "i 1 0 1 2 3\n"
	}
	//
	r := newReader(text, config)
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 50)
	//
	for _, bp := range blocks {
		checkEvent(t, bp, "i 1 0 1 2 3\n", 1, 0, 1)
	}
	//
	assert.Positive(t, r.Arena().Relocations())
}

func TestReader_LongString(t *testing.T) {
	config := DefaultConfig()
	config.Arena = arena.Config{MemSize: 64, Margin: 8, SlabSize: 4}
	// A single field much longer than the margin
	text := "i 1 0 1 \"" + strings.Repeat("x", 100) + "\""
	r := newReader(text+"\n", config)
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 1)
	assert.Equal(t, text+"\n", blocks[0].String())
	assert.Equal(t, 4, blocks[0].PCnt)
	assert.Positive(t, r.Arena().Relocations())
}

func TestReader_LongStringAfterEvents(t *testing.T) {
	config := DefaultConfig()
	config.Arena = arena.Config{MemSize: 64, Margin: 8, SlabSize: 4}
	// Enough events that the string starts close to the end of the region
	text := strings.Repeat("i 1 0 1\n", 7) + "i 1 0 1 \"" + strings.Repeat("y", 50) + "\"\n"
	r := newReader(text, config)
	blocks := readSection(t, r)
	//
	require.Len(t, blocks, 8)
	assert.Equal(t, "\""+strings.Repeat("y", 50)+"\"", string(blocks[7].Field(4)))
}

func TestReader_Overrun(t *testing.T) {
	config := DefaultConfig()
	config.Arena = arena.Config{MemSize: 64, Margin: 8, SlabSize: 4, Limit: 64}
	r := newReader("i 1 0 1 \""+strings.Repeat("x", 100)+"\"\n", config)
	//
	_, err := r.Read()
	//
	var overrun arena.OverrunError
	//
	require.ErrorAs(t, err, &overrun)
	assert.Contains(t, err.Error(), "section 1")
}

func TestReader_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	config := DefaultConfig()
	config.Logger = logger
	r := newReader("i 1 0 1\nZ\n", config)
	//
	readSection(t, r)
	//
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "sread: illegal opcode Z, remainder of line flushed", entry.Message)
	assert.Equal(t, 1, entry.Data["section"])
	assert.Equal(t, "section 1: at position 1; in line 2 of test.sco", entry.Data["input"])
}

func TestReader_Listing(t *testing.T) {
	r := newReader("i 1 0 1\ns 2\nf 1 0 4\n", DefaultConfig())
	lines, err := Listing(r)
	//
	require.NoError(t, err)
	assert.Equal(t, []string{
		"section 1",
		"1: i 1 0 1 (ins=1 p2=0 p3=1 np2=0 np3=1)",
		"2: s 2 (p2=2)",
		"section 2",
		"1: f 1 0 4 (ins=0 p2=0 p3=4 np2=0 np3=4)",
	}, lines)
}

// ==================================================================
// Framework
// ==================================================================

func newReader(text string, config Config) *Reader {
	logger, _ := test.NewNullLogger()
	//
	if config.Logger == nil || config.Logger == DefaultConfig().Logger {
		config.Logger = logger
	}
	//
	return New(source.NewSourceFile("test.sco", []byte(text)), config)
}

func readSection(t *testing.T, r *Reader) []*arena.SortBlock {
	var blocks []*arena.SortBlock
	//
	_, err := r.Read()
	require.NoError(t, err)
	//
	for bp := r.First(); bp != nil; bp = bp.Next {
		blocks = append(blocks, bp)
	}
	//
	return blocks
}

func checkEvent(t *testing.T, bp *arena.SortBlock, text string, insno int, p2 float64, p3 float64) {
	t.Helper()
	assert.Equal(t, text, bp.String())
	assert.Equal(t, insno, bp.InsNo)
	assert.Equal(t, p2, bp.P2)
	assert.Equal(t, p3, bp.P3)
}

func checkWarnings(t *testing.T, r *Reader, messages ...string) {
	t.Helper()
	//
	var actual []string
	//
	for _, w := range r.Warnings() {
		actual = append(actual, w.Message())
	}
	//
	assert.Equal(t, messages, actual)
}

func lineNumbers(blocks []*arena.SortBlock) []int {
	var lines []int
	//
	for _, bp := range blocks {
		lines = append(lines, bp.LineNo)
	}
	//
	return lines
}

func instruments(blocks []*arena.SortBlock) []int {
	var insnos []int
	//
	for _, bp := range blocks {
		insnos = append(insnos, bp.InsNo)
	}
	//
	return insnos
}
