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

// Package shamir performs t-of-n [Shamir Secret Sharing] byte-wise over
// GF(2^8). Every byte of the secret is the constant term of its own random
// polynomial of degree t-1; share i holds the evaluations of all those
// polynomials at x = i+1.
//
// This scheme is secure under the following assumptions:
//   - The dealer is trusted with the secret and generates shares honestly.
//   - The adversary is passive: it may observe fewer than t shares but does not
//     submit chosen shares to Combine. Combine does not detect corrupted
//     shares; integrity is the caller's concern.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/secretsplit/internal/secretsharing/gf256"
)

// MaxShares is the number of distinct non-zero evaluation points in GF(2^8).
const MaxShares = 255

// Share is one point of every per-byte polynomial. Value has the same length
// as the secret.
type Share struct {
	X     byte
	Value []byte
}

// Dealer splits secrets. A zero Dealer draws coefficients from crypto/rand.
type Dealer struct {
	// Rand is the source of polynomial coefficients.
	Rand io.Reader
}

// Split splits secret into n shares so that any threshold of them reconstruct
// it. Empty secrets are allowed and yield shares with empty values.
func (d *Dealer) Split(threshold, n int, secret []byte) ([]Share, error) {
	if err := validateSplitInput(threshold, n); err != nil {
		return nil, err
	}
	r := d.Rand
	if r == nil {
		r = rand.Reader
	}

	shares := make([]Share, n)
	for i := range shares {
		shares[i] = Share{X: byte(i + 1), Value: make([]byte, len(secret))}
	}

	coefficients := make([]gf256.Element, threshold)
	random := make([]byte, threshold-1)
	for pos, b := range secret {
		if err := readNonZero(r, random); err != nil {
			return nil, err
		}
		coefficients[0] = gf256.Element(b)
		for i, c := range random {
			coefficients[i+1] = gf256.Element(c)
		}
		// shares[0].Value = [ F1(1), F2(1), ..., FL(1) ]
		// shares[1].Value = [ F1(2), F2(2), ..., FL(2) ]
		for i := range shares {
			shares[i].Value[pos] = byte(gf256.Eval(coefficients, gf256.Element(shares[i].X)))
		}
	}
	clear(coefficients)
	clear(random)

	return shares, nil
}

// Combine reconstructs the secret from at least threshold shares. Only the
// first threshold shares are interpolated; extra shares are ignored.
func Combine(threshold int, shares []Share) ([]byte, error) {
	if err := validateCombineInput(threshold, shares); err != nil {
		return nil, err
	}
	points := shares[:threshold]

	xs := make([]gf256.Element, len(points))
	for i, s := range points {
		xs[i] = gf256.Element(s.X)
	}
	basis, err := lagrangeAtZero(xs)
	if err != nil {
		return nil, err
	}

	secret := make([]byte, len(points[0].Value))
	for pos := range secret {
		var sum gf256.Element
		for i, s := range points {
			sum = sum.Add(gf256.Element(s.Value[pos]).Mul(basis[i]))
		}
		secret[pos] = byte(sum)
	}
	return secret, nil
}

// lagrangeAtZero returns the Lagrange basis polynomials evaluated at zero:
// l_i(0) = ∏ j≠i ( x[j] / (x[j] - x[i]) ).
func lagrangeAtZero(xs []gf256.Element) ([]gf256.Element, error) {
	out := make([]gf256.Element, len(xs))
	for i := range xs {
		l := gf256.Element(1)
		for j := range xs {
			if i == j {
				continue
			}
			if xs[i] == xs[j] {
				return nil, fmt.Errorf("duplicate share x coordinate %d", xs[i])
			}
			term, err := xs[j].Div(xs[j].Sub(xs[i]))
			if err != nil {
				return nil, err
			}
			l = l.Mul(term)
		}
		out[i] = l
	}
	return out, nil
}

// readNonZero fills b with random non-zero bytes.
func readNonZero(r io.Reader, b []byte) error {
	var one [1]byte
	for i := range b {
		for {
			if _, err := io.ReadFull(r, one[:]); err != nil {
				return fmt.Errorf("reading random coefficient: %v", err)
			}
			if one[0] != 0 {
				b[i] = one[0]
				break
			}
		}
	}
	return nil
}

func validateSplitInput(threshold, n int) error {
	if threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", threshold)
	}
	if n > MaxShares {
		return fmt.Errorf("number of shares must be at most %d, got %d", MaxShares, n)
	}
	if threshold > n {
		return fmt.Errorf("threshold %d is larger than the number of shares %d", threshold, n)
	}
	return nil
}

func validateCombineInput(threshold int, shares []Share) error {
	if threshold < 1 || threshold > MaxShares {
		return fmt.Errorf("invalid threshold %d", threshold)
	}
	if len(shares) < threshold {
		return fmt.Errorf("not enough shares to reconstruct the secret, need at least %d, got %d", threshold, len(shares))
	}
	secretLen := len(shares[0].Value)
	for _, s := range shares {
		if s.X == 0 {
			return fmt.Errorf("invalid x coordinate 0")
		}
		if len(s.Value) != secretLen {
			return fmt.Errorf("inconsistent share lengths %d and %d", secretLen, len(s.Value))
		}
	}
	return nil
}
