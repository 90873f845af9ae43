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
	"strconv"
	"strings"

	"github.com/consensys/go-score/pkg/util/source"
)

// Diagnostic is a problem reported when reading a score.  Fatal diagnostics
// stop reading altogether, whilst others are warnings.
type Diagnostic struct {
	Fatal bool
	source.SyntaxError
}

// Severity returns the name of this diagnostic's severity, as used in expected
// diagnostic attributes.
func (p *Diagnostic) Severity() string {
	if p.Fatal {
		return "error"
	}
	//
	return "warning"
}

// Attribute extracts a single item from a given line at the start of a source
// file.  It reports whether the line matched, the item produced and, where the
// line matched but was malformed, an error.
type Attribute[T any] func(int, []source.Line, *source.File) (bool, T, error)

// ExtractAttributes extracts items from the leading lines of a source file.
// Extraction stops at the first line which no attribute matches.
func ExtractAttributes[T any](srcfile *source.File, attributes ...Attribute[T]) ([]T, []error) {
	var (
		lines = srcfile.Lines()
		items []T
		errs  []error
	)
	//
	for i := 0; i < len(lines); i++ {
		matched := false
		//
		for _, attribute := range attributes {
			ok, item, err := attribute(i, lines, srcfile)
			//
			if err != nil {
				errs = append(errs, err)
			} else if ok {
				items = append(items, item)
			}
			//
			matched = matched || ok
		}
		//
		if !matched {
			break
		}
	}
	//
	return items, errs
}

// Extract an expected diagnostic from a given line, which has the form
// ";;error:LINE:START-END:MSG" or ";;warning:LINE:START-END:MSG".
func extractDiagnostic(lineno int, lines []source.Line, srcfile *source.File) (bool, Diagnostic, error) {
	var (
		contents = lines[lineno].String()
		fatal    bool
	)
	//
	switch {
	case strings.HasPrefix(contents, ";;error:"):
		fatal = true
	case strings.HasPrefix(contents, ";;warning:"):
		fatal = false
	default:
		return false, Diagnostic{}, nil
	}
	//
	line, start, end, msg, err := parseExpectedLine(contents)
	if err != nil {
		return true, Diagnostic{}, err
	}
	//
	span, err := determineFileSpan(line, start, end, lines)
	if err != nil {
		return true, Diagnostic{}, err
	}
	//
	return true, Diagnostic{fatal, *srcfile.SyntaxError(span, msg)}, nil
}

func parseExpectedLine(contents string) (line, start, end int, msg string, err error) {
	var splits = strings.SplitN(contents, ":", 4)
	//
	if len(splits) < 4 {
		return 0, 0, 0, "", fmt.Errorf("malformed expected diagnostic \"%s\", should be e.g. \";;error:X:Y-Z:msg\"",
			contents)
	}
	// Parse line number
	if line, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, 0, "", fmt.Errorf("invalid line \"%s\" (%s)", splits[1], err.Error())
	} else if line <= 0 {
		return 0, 0, 0, "", fmt.Errorf("invalid line \"%s\" (lines numbered from 1)", splits[1])
	}
	//
	if start, end, err = parseExpectedSpan(splits[2]); err != nil {
		return 0, 0, 0, "", err
	}
	//
	return line, start, end, splits[3], nil
}

func parseExpectedSpan(text string) (start, end int, err error) {
	var splits = strings.Split(text, "-")
	//
	if len(splits) != 2 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", text)
	} else if start, err = strconv.Atoi(splits[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", text, err.Error())
	} else if start <= 0 {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (columns numbered from 1)", text)
	} else if end, err = strconv.Atoi(splits[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (%s)", text, err.Error())
	} else if end < start {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (ends before it starts)", text)
	}
	//
	return start, end, nil
}

// Determine the span within the file corresponding to the given columns of the
// given line.  Columns are numbered from 1, and a span may include the end of
// its line.
func determineFileSpan(lineno, start, end int, lines []source.Line) (source.Span, error) {
	if lineno > len(lines) {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (non-existent line)", lineno, start, end)
	}
	//
	line := lines[lineno-1]
	//
	if start-1 > line.Length() || end-1 > line.Length() {
		return source.Span{}, fmt.Errorf("invalid span \"%d:%d-%d\" (overflows line)", lineno, start, end)
	}
	//
	return source.NewSpan(line.Start()+start-1, line.Start()+end-1), nil
}
