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
package stack

import "iter"

// Stack is a LIFO stack backed by a slice.  The expression evaluator keeps its
// operands and pending operators on these, and the score input keeps its
// nested repeat frames on one.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Top returns the topmost item, which must exist.
func (p *Stack[T]) Top() T {
	if len(p.items) == 0 {
		panic("top of empty stack")
	}
	//
	return p.items[len(p.items)-1]
}

// TopDown iterates the items from the top of the stack to the bottom.
func (p *Stack[T]) TopDown() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(p.items) - 1; i >= 0; i-- {
			if !yield(p.items[i]) {
				return
			}
		}
	}
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the topmost item off the stack, which must exist.
func (p *Stack[T]) Pop() T {
	item := p.Top()
	p.items = p.items[:len(p.items)-1]
	//
	return item
}
