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
	"io"
	"os"
	"strings"

	"github.com/consensys/go-score/pkg/score/reader"
	"github.com/consensys/go-score/pkg/util/source"
	"github.com/consensys/go-score/pkg/util/termio"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console [flags]",
	Short: "Interactively read score statements.",
	Long: `Interactively read score statements.  Statements are accumulated until a
	blank line is entered, at which point they are read as a score and the
	resulting sort blocks printed.  Enter :quit (or end of input) to exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			config = getReaderConfig(cmd)
			hl     = termio.NewHighlighter(os.Stdout)
			state  = liner.NewLiner()
		)
		//
		defer state.Close()
		//
		state.SetCtrlCAborts(true)
		// Warnings are reported with their context instead
		logger := log.New()
		logger.SetLevel(log.ErrorLevel)
		config.Logger = logger
		//
		runConsole(state, config, hl)
	},
}

func runConsole(state *liner.State, config reader.Config, hl termio.Highlighter) {
	var (
		lines []string
		count int
	)
	//
	for {
		prompt := "score> "
		if len(lines) > 0 {
			prompt = "...... "
		}
		//
		line, err := state.Prompt(prompt)
		//
		if err == io.EOF || err == liner.ErrPromptAborted {
			return
		} else if err != nil {
			log.Errorf("console: %s", err)
			return
		}
		//
		switch {
		case strings.TrimSpace(line) == ":quit":
			return
		case strings.TrimSpace(line) != "":
			state.AppendHistory(line)
			lines = append(lines, line)
		case len(lines) > 0:
			count++
			text := strings.Join(lines, "\n") + "\n"
			srcfile := source.NewSourceFile(fmt.Sprintf("<console:%d>", count), []byte(text))
			lines = nil
			//
			consoleRead(srcfile, config, hl)
		}
	}
}

// Read the score accumulated by the console, printing every section.
func consoleRead(srcfile *source.File, config reader.Config, hl termio.Highlighter) {
	r := reader.New(srcfile, config)
	//
	defer r.Close()
	//
	lines, err := reader.Listing(r)
	//
	printWarnings(r.Warnings(), hl)
	//
	for _, line := range lines {
		fmt.Println(line)
	}
	//
	if err != nil {
		printError(err, hl)
	}
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	addReaderFlags(consoleCmd)
}
