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
	"strings"

	"github.com/consensys/go-score/pkg/util/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Warning is a non-fatal problem found whilst reading a score.  Reading
// continues after a warning, usually from the next line.
type Warning struct {
	// Section in which the problem arose (counting from 1).
	Section int
	source.SyntaxError
}

// Warn reports a non-fatal problem at a given span of the score.
func (p *Reader) warn(span source.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	err := p.src.File().SyntaxError(span, msg)
	//
	p.warnings = append(p.warnings, Warning{p.section, *err})
	//
	p.log.WithFields(log.Fields{
		"section":  p.section,
		"position": p.src.Column(),
		"input":    strings.Join(p.Backtrace(), "; "),
	}).Warn("sread: " + msg)
}

// Warn about a problem with the current field.
func (p *Reader) warnField(format string, args ...any) {
	p.warn(p.span, format, args...)
}

// Report a fatal problem.  Only the first such problem is retained, and no
// further input is read once one has occurred.
func (p *Reader) fatal(err error) {
	if p.fault == nil {
		p.fault = err
		//
		p.log.WithFields(log.Fields{
			"section": p.section,
			"input":   strings.Join(p.Backtrace(), "; "),
		}).Error("score error: " + err.Error())
	}
}

// Report a fatal problem arising from the arena.
func (p *Reader) fatalArena(err error) {
	p.fatal(errors.Wrapf(err, "section %d", p.section))
}

// Backtrace describes the current input position, with one line for the
// section and one for each input frame, innermost first.
func (p *Reader) Backtrace() []string {
	var lines = []string{fmt.Sprintf("section %d: at position %d", p.section, p.src.Column())}
	//
	for _, frame := range p.src.Backtrace() {
		if frame.Name == "" {
			p.log.Warn("internal error in input backtrace")
			break
		}
		//
		lines = append(lines, fmt.Sprintf("in line %d of %s", frame.Line, frame.Name))
	}
	//
	return lines
}
