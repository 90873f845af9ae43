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
	"time"

	"github.com/consensys/go-score/pkg/score/arena"
	log "github.com/sirupsen/logrus"
)

// InstrumentTable binds instrument names to instrument numbers.
type InstrumentTable interface {
	// Instrument returns the number of a named instrument, or false if no such
	// instrument exists.
	Instrument(name string) (int, bool)
}

// Instruments is a simple instrument table backed by a map.
type Instruments map[string]int

// Instrument implementation for the InstrumentTable interface.
func (p Instruments) Instrument(name string) (int, bool) {
	n, ok := p[name]
	return n, ok
}

// Config determines how a score is read.
type Config struct {
	// Instruments resolves quoted instrument names.  When nil, every name is
	// unknown.
	Instruments InstrumentTable
	// Clock provides a seed when a 'y' statement gives none.
	Clock func() uint32
	// Logger receives all diagnostics.
	Logger log.FieldLogger
	// Seed is the initial seed of the generator used by '~' (0 means 1).
	Seed uint32
	// ClearBookmarks forgets named sections at each section boundary.  By
	// default they are retained, so a section can be repeated by a later one.
	ClearBookmarks bool
	// MaxRepeatDepth bounds the nesting of repeated named sections (0 means
	// DefaultRepeatDepth).
	MaxRepeatDepth uint
	// Arena determines the allocation policy for sort blocks.
	Arena arena.Config
}

// DefaultRepeatDepth is the default bound on the nesting of named sections.
const DefaultRepeatDepth = 40

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Instruments:    nil,
		Clock:          ClockSeed,
		Logger:         log.StandardLogger(),
		Seed:           0,
		ClearBookmarks: false,
		MaxRepeatDepth: DefaultRepeatDepth,
		Arena:          arena.DefaultConfig(),
	}
}

// ClockSeed derives a seed from the current time.
func ClockSeed() uint32 {
	return uint32(time.Now().UnixNano())
}
