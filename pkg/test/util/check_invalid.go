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
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-score/pkg/util/source"
)

// DiagnosticReader reads a score, producing the diagnostics which arose.
type DiagnosticReader func(*source.File) []Diagnostic

// CheckInvalid checks that reading a given score produces exactly the
// diagnostics listed at the start of the score.
// nolint
func CheckInvalid(t *testing.T, test, ext string, reader DiagnosticReader) {
	var filename = fmt.Sprintf("%s/%s.%s", TestDir, test, ext)
	// Enable testing each score in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	// Read score to produce diagnostics
	actual := reader(srcfile)
	// Extract expected diagnostics for comparison
	expected, errs := ExtractAttributes(srcfile, extractDiagnostic)
	//
	if len(errs) > 0 {
		// Report any errors encountered parsing the attributes themselves.
		t.Fatal(errors.Join(errs...))
	} else if len(expected) == 0 {
		t.Fatalf("Error %s has no expected diagnostics", filename)
	}
	//
	checkExpectedDiagnostics(t, srcfile, actual, expected)
}

func checkExpectedDiagnostics(t *testing.T, srcfile *source.File, actual, expected []Diagnostic) {
	var (
		failed = false
		msg    = fmt.Sprintf("Error %s\n", srcfile.Filename())
	)
	//
	for i := 0; i < max(len(actual), len(expected)); i++ {
		if i < len(actual) && i < len(expected) {
			expected := expected[i]
			actual := actual[i]
			// Check whether diagnostic OK
			if expected.Fatal == actual.Fatal && expected.Message() == actual.Message() &&
				expected.Span() == actual.Span() {
				continue
			}
		}
		// Indicate error arose
		failed = true
		//
		if i < len(actual) {
			msg = fmt.Sprintf("%s unexpected %s\n", msg, diagnosticToString(actual[i]))
		}
		//
		if i < len(expected) {
			msg = fmt.Sprintf("%s   expected %s\n", msg, diagnosticToString(expected[i]))
		}
	}
	//
	if failed {
		t.Fatal(msg)
	}
}

func readSourceFile(t *testing.T, filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	// Package up as source file
	return source.NewSourceFile(filename, bytes)
}

// Convert a diagnostic into a useful human readable string, using the same
// form as expected diagnostics.
func diagnosticToString(diag Diagnostic) string {
	span := diag.Span()
	line := diag.FirstEnclosingLine()
	offset := span.Start() - line.Start()
	//
	return fmt.Sprintf("%s %s:%d:%d-%d %s", diag.Severity(), diag.SourceFile().Filename(),
		line.Number(), 1+offset, 1+offset+span.Length(), diag.Message())
}
