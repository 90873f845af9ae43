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
package lex

import (
	"cmp"
	"slices"
)

// Scanner is a function which accepts a prefix of the given items, returning
// the number of items matched.  Zero indicates no match.
type Scanner[T any] func(items []T) uint

// Or combines zero or more scanners such that the resulting scanner succeeds if
// any of the scanners succeeds.  Observe that there is an implicit
// left-to-right order of evaluation, hence longer alternatives (e.g. "@@")
// must be given before their prefixes (e.g. "@").
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		// fail
		return 0
	}
}

// Unit accepts a given sequence of characters.  That is, for this scanner to
// match, it must match all the given characters (one after the other) in their
// given order.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(chars) {
			return 0
		}
		//
		for i := range chars {
			if items[i] != chars[i] {
				return 0
			}
		}
		//
		return uint(len(chars))
	}
}

// OneOf accepts exactly one character, provided it is one of those given.
func OneOf[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && slices.Contains(chars, items[0]) {
			return 1
		}
		// fail
		return 0
	}
}

// Within accepts any character within a given (inclusive) range.
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		// fail
		return 0
	}
}

// Many matches zero or more repetitions of a given scanner.  Since a zero
// length match is reported as failure, Many effectively means "one or more"
// when used on its own.
func Many[T any](acceptor Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}
			//
			index += n
		}
		//
		return index
	}
}

// Sequence matches all the scanners in order, each one starting where the
// previous one finished.  Every scanner must match at least one item.
func Sequence[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items[n:])
			if m == 0 {
				return 0
			}
			//
			n += m
		}
		//
		return n
	}
}

// Optional matches a leading scanner, followed by an optional trailing one.
// The trailing scanner contributes its match only when it succeeds; otherwise
// the result is just the leading match.
func Optional[T any](leading Scanner[T], trailing Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := leading(items)
		if n == 0 {
			return 0
		}
		//
		return n + trailing(items[n:])
	}
}

// Eof matches the end of the input stream.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}
