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
package util

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-score/pkg/util/source"
)

// ListingReader reads a score, producing its listing (or a fatal error).
type ListingReader func(*source.File) ([]string, error)

// CheckValid checks that reading a given score succeeds, and produces exactly
// the listing held in the corresponding listing file.
// nolint
func CheckValid(t *testing.T, test string, reader ListingReader) {
	var (
		scoreFile   = fmt.Sprintf("%s/%s.%s", TestDir, test, SCORE_EXT)
		listingFile = fmt.Sprintf("%s/%s.%s", TestDir, test, LISTING_EXT)
	)
	// Enable testing each score in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, scoreFile)
	//
	actual, err := reader(srcfile)
	if err != nil {
		t.Fatalf("Error %s: %s", scoreFile, err)
	}
	//
	expected := readListingFile(t, listingFile)
	//
	checkListing(t, scoreFile, actual, expected)
}

func checkListing(t *testing.T, filename string, actual, expected []string) {
	for i := 0; i < max(len(actual), len(expected)); i++ {
		var act, exp = "<none>", "<none>"
		//
		if i < len(actual) {
			act = actual[i]
		}
		//
		if i < len(expected) {
			exp = expected[i]
		}
		//
		if act != exp {
			t.Fatalf("Error %s (listing line %d)\n unexpected %s\n   expected %s", filename, i+1, act, exp)
		}
	}
}

func readListingFile(t *testing.T, filename string) []string {
	bytes, err := os.ReadFile(filename)
	// Check listing file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	return strings.Split(strings.TrimSuffix(string(bytes), "\n"), "\n")
}
