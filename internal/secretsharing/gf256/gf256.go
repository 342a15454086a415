// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gf256 implements arithmetic in GF(2^8) reduced by the AES polynomial
// x^8 + x^4 + x^3 + x + 1.
package gf256

import "fmt"

// reduction is the low byte of the AES polynomial {01}{1B}.
const reduction = 0x1B

// Element is a member of GF(2^8).
type Element byte

// Add returns e + a. Addition and subtraction are both XOR in characteristic 2.
func (e Element) Add(a Element) Element {
	return e ^ a
}

// Sub returns e - a.
func (e Element) Sub(a Element) Element {
	return e ^ a
}

// Mul returns e * a without tables or data-dependent branches.
func (e Element) Mul(a Element) Element {
	x, y := byte(e), byte(a)

	var p byte
	for i := 7; i >= 0; i-- {
		// Negation turns a single bit into an all-zeros or all-ones mask.
		carry := -(p >> 7) & reduction
		term := -((x >> i) & 1) & y
		p = term ^ carry ^ (p << 1)
	}
	return Element(p)
}

// Inv returns the multiplicative inverse of e, computed as e^254.
func (e Element) Inv() (Element, error) {
	if e == 0 {
		return 0, fmt.Errorf("zero has no multiplicative inverse")
	}

	// Addition chain for 254: https://crypto.stackexchange.com/a/40140
	e2 := e.Mul(e)
	e3 := e2.Mul(e)
	t := e3.Mul(e3) // e^6
	t = t.Mul(t)    // e^12
	e15 := t.Mul(e3)
	t = e15.Mul(e15) // e^30
	t = t.Mul(t)     // e^60
	t = t.Mul(e3)    // e^63
	t = t.Mul(t)     // e^126
	t = t.Mul(e)     // e^127
	return t.Mul(t), nil
}

// Div returns e / a.
func (e Element) Div(a Element) (Element, error) {
	inv, err := a.Inv()
	if err != nil {
		return 0, err
	}
	return e.Mul(inv), nil
}

// Eval evaluates the polynomial with coefficients c (c[0] is the constant
// term) at x using Horner's rule.
func Eval(c []Element, x Element) Element {
	var sum Element
	for i := len(c) - 1; i >= 0; i-- {
		sum = sum.Mul(x).Add(c[i])
	}
	return sum
}
