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
	"strconv"
	"strings"

	"github.com/consensys/go-score/pkg/score/expr"
	"github.com/consensys/go-score/pkg/score/number"
	"github.com/consensys/go-score/pkg/util/termio"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] expression(s)",
	Short: "Evaluate one or more bracket expressions.",
	Long: `Evaluate one or more bracket expressions, as would appear between [ and ]
	in a score.  Each expression is evaluated in turn using the same generator for ~.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		var (
			random = expr.NewRand31(GetSeed(cmd))
			hex    = GetFlag(cmd, "hex")
			hl     = termio.NewHighlighter(os.Stdout)
		)
		//
		for _, arg := range args {
			// Permit the brackets to be given
			text := strings.TrimSuffix(strings.TrimPrefix(arg, "["), "]")
			//
			val, errs := expr.Evaluate(text, random)
			//
			if len(errs) > 0 {
				for _, err := range errs {
					printSyntaxError(&err, hl.Error)
				}
				//
				os.Exit(3)
			}
			//
			fmt.Println(formatResult(val, hex))
		}
	},
}

func formatResult(val float64, hex bool) string {
	if hex {
		return number.Format(val)
	}
	//
	return strconv.FormatFloat(val, 'g', -1, 64)
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("hex", false, "print results in the exact hexadecimal form used within statements")
}
