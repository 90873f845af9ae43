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
	"errors"

	"github.com/consensys/go-score/pkg/score/reader"
	"github.com/consensys/go-score/pkg/util/source"
	"github.com/sirupsen/logrus/hooks/test"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the score files (sco) and their expected listings (out) are found.
const TestDir = "../../testdata"

// SCORE_EXT is the extension of score files.
const SCORE_EXT = "sco"

// LISTING_EXT is the extension of expected listings.
const LISTING_EXT = "out"

// TestConfig returns the reader configuration used for all tests.  Scores are
// read with a fixed seed, a couple of named instruments, and diagnostics
// discarded.
func TestConfig() reader.Config {
	logger, _ := test.NewNullLogger()
	//
	config := reader.DefaultConfig()
	config.Logger = logger
	config.Seed = 1
	config.Clock = func() uint32 { return 1 }
	config.Instruments = reader.Instruments{"piano": 1, "strings": 2}
	//
	return config
}

// ReadListing reads every section of a score, producing its listing.
func ReadListing(srcfile *source.File) ([]string, error) {
	r := reader.New(srcfile, TestConfig())
	defer r.Close()
	//
	return reader.Listing(r)
}

// ReadDiagnostics reads every section of a score, producing the warnings which
// arose followed by the fatal error (if any).
func ReadDiagnostics(srcfile *source.File) []Diagnostic {
	var (
		r           = reader.New(srcfile, TestConfig())
		diagnostics []Diagnostic
	)
	//
	defer r.Close()
	//
	_, err := reader.Listing(r)
	//
	for _, w := range r.Warnings() {
		diagnostics = append(diagnostics, Diagnostic{false, w.SyntaxError})
	}
	//
	var serr *source.SyntaxError
	//
	if errors.As(err, &serr) {
		diagnostics = append(diagnostics, Diagnostic{true, *serr})
	}
	//
	return diagnostics
}
