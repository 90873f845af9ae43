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
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time and memory used by some activity, such as reading
// a score.  A snapshot is taken when the stats are created, and the difference
// is reported when they are logged.
type PerfStats struct {
	// Time when activity began
	startTime time.Time
	// Bytes allocated when activity began
	startAlloc uint64
	// Number of collections when activity began
	startGc uint32
}

// NewPerfStats takes a snapshot of the current time and memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Log reports (at debug level) the time taken and memory allocated since this
// snapshot was taken.  Scores are small, hence memory is given in Kb.
func (p *PerfStats) Log(activity string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	exectime := time.Since(p.startTime).Seconds()
	alloc := (m.TotalAlloc - p.startAlloc) / 1024
	//
	log.WithField("gcs", m.NumGC-p.startGc).Debugf("%s took %0.3fs using %vKb", activity, exectime, alloc)
}
