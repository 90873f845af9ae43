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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-score/pkg/score/arena"
)

// FormatBlock produces a single line describing a sort block.  This consists
// of the block's line number and text, followed (for events) by its resolved
// values.
func FormatBlock(bp *arena.SortBlock) string {
	var builder strings.Builder
	//
	text := strings.TrimSuffix(string(bp.Text()), "\n")
	builder.WriteString(fmt.Sprintf("%d: %s", bp.LineNo, text))
	//
	if bp.IsEvent() {
		builder.WriteString(fmt.Sprintf(" (ins=%d p2=%s p3=%s np2=%s np3=%s)", bp.InsNo,
			formatValue(bp.P2), formatValue(bp.P3), formatValue(bp.NewP2), formatValue(bp.NewP3)))
	} else if (bp.Op == 's' || bp.Op == 'e') && bp.PCnt == 1 {
		builder.WriteString(fmt.Sprintf(" (p2=%s)", formatValue(bp.P2)))
	}
	//
	return builder.String()
}

// Listing reads every remaining section, producing a header line for each
// followed by one line per block.  Reading stops at the first fatal error,
// which is returned along with the listing so far.
func Listing(reader *Reader) ([]string, error) {
	var lines []string
	//
	for {
		ok, err := reader.Read()
		//
		if err != nil {
			return lines, err
		} else if !ok {
			return lines, nil
		}
		//
		lines = append(lines, fmt.Sprintf("section %d", reader.Section()))
		//
		for bp := reader.First(); bp != nil; bp = bp.Next {
			lines = append(lines, FormatBlock(bp))
		}
	}
}

func formatValue(val float64) string {
	return strconv.FormatFloat(val, 'g', -1, 64)
}
