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
	"maps"
	"slices"
)

// Mark records the position of a named section.
type Mark struct {
	Name string
	// Offset in the score at which the section begins.
	Offset int
	// Line on which the section begins.
	Line int
}

// Bookmarks maps section names to their positions.  Marking a name which
// already exists overwrites its position.  A repeat already in progress is
// unaffected, since it holds its own resume offset.
type Bookmarks struct {
	marks map[string]Mark
}

// NewBookmarks constructs an empty table.
func NewBookmarks() *Bookmarks {
	return &Bookmarks{make(map[string]Mark)}
}

// Mark records (or updates) the position of a named section, returning true if
// the name was already present.
func (p *Bookmarks) Mark(name string, offset int, line int) bool {
	_, ok := p.marks[name]
	p.marks[name] = Mark{name, offset, line}
	//
	return ok
}

// Lookup returns the position of a named section.
func (p *Bookmarks) Lookup(name string) (Mark, bool) {
	m, ok := p.marks[name]
	return m, ok
}

// Len returns the number of named sections.
func (p *Bookmarks) Len() int {
	return len(p.marks)
}

// Names returns the names of all sections in sorted order.
func (p *Bookmarks) Names() []string {
	return slices.Sorted(maps.Keys(p.marks))
}

// Clear removes all named sections.
func (p *Bookmarks) Clear() {
	clear(p.marks)
}
