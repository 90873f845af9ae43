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
	"github.com/consensys/go-score/pkg/util"
	"github.com/consensys/go-score/pkg/util/termio"
	"github.com/goforj/godump"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [flags] score_file(s)",
	Short: "Read the statements of one or more scores.",
	Long: `Read the statements of one or more (already expanded) scores, printing
	the sort blocks of each section along with their resolved values.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg readConfig
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		cfg.reader = getReaderConfig(cmd)
		cfg.dump = GetFlag(cmd, "dump")
		cfg.raw = GetFlag(cmd, "raw")
		cfg.warnings = GetFlag(cmd, "warnings")
		cfg.highlighter = termio.NewHighlighter(os.Stdout)
		//
		if cfg.warnings {
			// Warnings are reported with their context instead
			logger := log.New()
			logger.SetLevel(log.ErrorLevel)
			cfg.reader.Logger = logger
		}
		//
		ok := true
		//
		for _, filename := range args {
			ok = readScore(filename, cfg) && ok
		}
		//
		if !ok {
			os.Exit(3)
		}
	},
}

// Determines how scores are read and reported.
type readConfig struct {
	// Configuration given to each reader
	reader reader.Config
	// Dump the structure of each block
	dump bool
	// Print only the raw text of each block
	raw bool
	// Report warnings with their source context
	warnings bool
	// Highlighting to use for output
	highlighter termio.Highlighter
}

// Read every section of a given score, returning false if a fatal error
// occurred.
func readScore(filename string, cfg readConfig) bool {
	var (
		srcfile = readScoreFile(filename)
		r       = reader.New(srcfile, cfg.reader)
		hl      = cfg.highlighter
		stats   = util.NewPerfStats()
	)
	//
	defer r.Close()
	//
	for {
		ok, err := r.Read()
		//
		if cfg.warnings {
			printWarnings(r.Warnings(), hl)
		}
		//
		if err != nil {
			printError(err, hl)
			return false
		} else if !ok {
			break
		}
		//
		if !cfg.raw {
			fmt.Printf("%s %d\n", hl.Opcode("section"), r.Section())
		}
		//
		for bp := r.First(); bp != nil; bp = bp.Next {
			printBlock(bp, cfg)
		}
	}
	//
	log.Debugf("read %d section(s) of %s, %d named section(s)", r.Section()-1, filename,
		r.Bookmarks().Len())
	stats.Log(fmt.Sprintf("reading %s", filename))
	//
	return true
}

func printBlock(bp *arena.SortBlock, cfg readConfig) {
	switch {
	case cfg.raw:
		fmt.Print(bp.String())
	case cfg.dump:
		godump.Dump(blockSummary{
			Op:     string(bp.Op),
			Line:   bp.LineNo,
			Fields: blockFields(bp),
			InsNo:  bp.InsNo,
			P2:     bp.P2,
			P3:     bp.P3,
			NewP2:  bp.NewP2,
			NewP3:  bp.NewP3,
		})
	default:
		text := reader.FormatBlock(bp)
		// Highlight the opcode following the line number
		if i := strings.Index(text, ": "); i >= 0 && len(text) > i+2 {
			text = text[:i+2] + cfg.highlighter.Opcode(text[i+2:i+3]) + text[i+3:]
		}
		//
		fmt.Println(text)
	}
}

func blockFields(bp *arena.SortBlock) []string {
	var fields []string
	//
	for _, field := range bp.Fields() {
		fields = append(fields, string(field))
	}
	//
	return fields
}

// Provides a more readable form of a block for dumping, since blocks are linked
// to their neighbours and arena.
type blockSummary struct {
	Op     string
	Line   int
	Fields []string
	InsNo  int
	P2     float64
	P3     float64
	NewP2  float64
	NewP3  float64
}

func init() {
	rootCmd.AddCommand(readCmd)
	addReaderFlags(readCmd)
	readCmd.Flags().Bool("dump", false, "dump the structure of each sort block")
	readCmd.Flags().Bool("raw", false, "print only the text of each sort block")
	readCmd.Flags().Bool("warnings", false, "report warnings with their source context")
}
