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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-score/pkg/score/arena"
	"github.com/consensys/go-score/pkg/score/reader"
	"github.com/consensys/go-score/pkg/util/source"
	"github.com/consensys/go-score/pkg/util/termio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected signed integer, or panic if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetSeed gets the seed for the ~ generator, or panic if an error arises.
func GetSeed(cmd *cobra.Command) uint32 {
	r, err := cmd.Flags().GetUint32("seed")
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInstruments gets the table of named instruments given on the command line.
func GetInstruments(cmd *cobra.Command) reader.Instruments {
	r, err := cmd.Flags().GetStringToInt("instr")
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return reader.Instruments(r)
}

// Construct the reader configuration from the command-line flags.
func getReaderConfig(cmd *cobra.Command) reader.Config {
	config := reader.DefaultConfig()
	config.Instruments = GetInstruments(cmd)
	config.Seed = GetSeed(cmd)
	config.ClearBookmarks = GetFlag(cmd, "clear-marks")
	config.MaxRepeatDepth = GetUint(cmd, "repeat-depth")
	config.Arena = arena.Config{
		MemSize:  int(GetUint(cmd, "mem-size")),
		Margin:   int(GetUint(cmd, "margin")),
		SlabSize: arena.DefaultConfig().SlabSize,
		Limit:    int(GetUint(cmd, "mem-limit")),
	}
	//
	return config
}

// Add the flags which configure a reader.
func addReaderFlags(cmd *cobra.Command) {
	defaults := arena.DefaultConfig()
	//
	cmd.Flags().StringToInt("instr", nil, "number of a named instrument (e.g. --instr piano=3)")
	cmd.Flags().Bool("clear-marks", false, "forget named sections at the end of each section")
	cmd.Flags().Uint("repeat-depth", reader.DefaultConfig().MaxRepeatDepth, "maximum nesting of named sections")
	cmd.Flags().Uint("mem-size", uint(defaults.MemSize), "allocation quantum (in bytes) for statement text")
	cmd.Flags().Uint("margin", uint(defaults.Margin), "slack (in bytes) beyond the allocated statement text")
	cmd.Flags().Uint("mem-limit", 0, "maximum size (in bytes) of statement text per section (0 is unlimited)")
}

// Read a given score file, or exit if this is not possible.
func readScoreFile(filename string) *source.File {
	files, err := source.ReadFiles(filename)
	if err != nil {
		fmt.Println(errors.Wrapf(err, "reading score"))
		os.Exit(2)
	}
	//
	return &files[0]
}

// Report a fatal error arising from reading a score.
func printError(err error, hl termio.Highlighter) {
	var serr *source.SyntaxError
	//
	if errors.As(err, &serr) {
		printSyntaxError(serr, hl.Error)
	} else {
		fmt.Println(hl.Error("error:"), err)
	}
}

// Report each warning arising from reading a score.
func printWarnings(warnings []reader.Warning, hl termio.Highlighter) {
	for _, w := range warnings {
		log.Debugf("warning in section %d", w.Section)
		printSyntaxError(&w.SyntaxError, hl.Warning)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError, highlight func(string) string) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-(span.Start()-line.Start()), span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+span.Start()-line.Start(), 1+span.Start()-line.Start()+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	indent := span.Start() - line.Start()
	fmt.Print(strings.Repeat(" ", max(0, indent)))
	// Print highlight
	fmt.Println(highlight(strings.Repeat("^", length)))
}
