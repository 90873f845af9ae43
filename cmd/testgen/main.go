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
package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	util "github.com/consensys/go-score/pkg/cmd"
	testutil "github.com/consensys/go-score/pkg/test/util"
	"github.com/consensys/go-score/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("check", false, "check existing listings rather than writing them")
	rootCmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] score_file(s)",
	Short: "Test generation utility for go-score.",
	Long: `Generate the expected listing (.out) for each given score (.sco) file,
	as used by the valid score tests.  Scores are read with the same
	configuration as the tests (seed, clock and instruments).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if util.GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var cfg TestGenConfig
		//
		cfg.check = util.GetFlag(cmd, "check")
		//
		ok := true
		//
		for _, filename := range args {
			ok = generateListing(cfg, filename) && ok
		}
		//
		if !ok {
			os.Exit(2)
		}
	},
}

// TestGenConfig determines how listings are generated.
type TestGenConfig struct {
	// Compare against existing listings, rather than overwriting them.
	check bool
}

// Generate the listing for a given score file, writing it alongside the score.
func generateListing(cfg TestGenConfig, filename string) bool {
	files, err := source.ReadFiles(filename)
	if err != nil {
		log.Error(err)
		return false
	}
	//
	lines, err := testutil.ReadListing(&files[0])
	if err != nil {
		log.Errorf("%s: %s", filename, err)
		return false
	}
	//
	listing := strings.Join(lines, "\n") + "\n"
	outfile := strings.TrimSuffix(filename, path.Ext(filename)) + ".out"
	//
	if cfg.check {
		bytes, err := os.ReadFile(outfile)
		if err != nil || string(bytes) != listing {
			log.Errorf("%s: listing differs", outfile)
			return false
		}
		//
		return true
	}
	//
	log.Debugf("writing %s (%d lines)", outfile, len(lines))
	//
	if err := os.WriteFile(outfile, []byte(listing), 0644); err != nil {
		log.Error(err)
		return false
	}
	//
	return true
}
