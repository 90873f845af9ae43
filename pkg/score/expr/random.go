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
package expr

// Rand31Modulus is the (prime) modulus 2^31-1 of the generator.
const Rand31Modulus = uint64(0x7FFFFFFF)

// Rand31Multiplier is the multiplier of the generator.
const Rand31Multiplier = uint64(742938285)

// Random provides uniformly distributed values for the '~' operator.
type Random interface {
	// Uniform returns a value in the half-open interval [-1,1).
	Uniform() float64
}

// Rand31 is a multiplicative congruential generator modulo 2^31-1.  Scores
// must be reproducible for a given seed, hence this exact generator is used
// rather than whatever math/rand happens to provide.
type Rand31 struct {
	state uint64
}

// NewRand31 constructs a generator with a given seed.
func NewRand31(seed uint32) *Rand31 {
	var r Rand31
	//
	r.Seed(seed)
	//
	return &r
}

// Seed resets the state of this generator.  Seeds outside the range
// [1,2^31-2] are folded into it.
func (p *Rand31) Seed(seed uint32) {
	p.state = uint64(seed) % Rand31Modulus
	//
	if p.state == 0 {
		p.state = 1
	}
}

// Next returns the next value in the range [1,2^31-2].
func (p *Rand31) Next() uint32 {
	p.state = (p.state * Rand31Multiplier) % Rand31Modulus
	//
	return uint32(p.state)
}

// Uniform returns the next value scaled into [-1,1).
func (p *Rand31) Uniform() float64 {
	r := float64(p.Next() - 1)
	//
	return 2*(r/float64(Rand31Modulus-1)) - 1
}
