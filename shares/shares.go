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

// Package shares is the default sharing engine: it splits secrets with
// Shamir's Secret Sharing, serializes each share as a self-describing text
// line and optionally signs every share with a per-split ED25519 key.
package shares

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/secretsplit/internal/secretsharing/shamir"
	"github.com/google/tink/go/subtle/random"
	"github.com/google/tink/go/tink"
	"github.com/google/uuid"
)

// Engine generates and recovers text shares. The zero value is ready to use.
type Engine struct {
	// Rand overrides the source of polynomial coefficients.
	Rand io.Reader
}

// HashShare performs a SHA-256 hash on the provided share.
func HashShare(share []byte) []byte {
	hash := sha256.Sum256(share)
	return hash[:]
}

// GenerateShares splits secret into n shares, any k of which recover it. If
// sign is set every share carries a signature and the public key to check it.
func (e *Engine) GenerateShares(k, n uint8, secret []byte, sign bool) ([][]byte, error) {
	if k < 1 || k > n {
		return nil, fmt.Errorf("invalid threshold %d for %d shares", k, n)
	}

	dealer := shamir.Dealer{Rand: e.rand()}
	points, err := dealer.Split(int(k), int(n), secret)
	if err != nil {
		return nil, fmt.Errorf("error splitting secret: %v", err)
	}

	var (
		signer tink.Signer
		pub    []byte
	)
	if sign {
		if signer, pub, err = newSigner(); err != nil {
			return nil, err
		}
	}

	setID := uuid.NewString()
	out := make([][]byte, 0, len(points))
	for _, p := range points {
		b := &body{
			SetID:      setID,
			Threshold:  k,
			ShareCount: n,
			X:          p.X,
			SecretLen:  uint64(len(secret)),
			Value:      p.Value,
		}
		if signer != nil {
			if b.Signature, err = signer.Sign(b.signedBytes()); err != nil {
				return nil, fmt.Errorf("signing share %d: %v", p.X, err)
			}
			b.PublicKeyset = pub
		}
		out = append(out, b.marshalText())
	}
	return out, nil
}

// RecoverSecret reconstructs the secret from shares produced by
// GenerateShares. Identical duplicates are ignored. If verify is set, every
// share must carry a valid signature from the same key.
func (e *Engine) RecoverSecret(shareTexts [][]byte, verify bool) ([]byte, error) {
	if len(shareTexts) == 0 {
		return nil, fmt.Errorf("no shares provided")
	}

	var bodies []*body
	byX := map[uint8]*body{}
	for i, text := range shareTexts {
		b, err := parseText(text)
		if err != nil {
			return nil, fmt.Errorf("share #%d: %v", i, err)
		}
		if err := checkSameSet(bodies, b, i); err != nil {
			return nil, err
		}
		if prev, ok := byX[b.X]; ok {
			if !bytes.Equal(prev.marshal(), b.marshal()) {
				return nil, fmt.Errorf("share #%d conflicts with another share for point %d", i, b.X)
			}
			continue
		}
		byX[b.X] = b
		bodies = append(bodies, b)
	}

	if verify {
		if err := verifySignatures(bodies); err != nil {
			return nil, fmt.Errorf("share verification failed: %v", err)
		}
	}

	threshold := int(bodies[0].Threshold)
	if len(bodies) < threshold {
		return nil, fmt.Errorf("need at least %d distinct shares to recover the secret, got %d", threshold, len(bodies))
	}

	points := make([]shamir.Share, len(bodies))
	for i, b := range bodies {
		points[i] = shamir.Share{X: b.X, Value: b.Value}
	}
	secret, err := shamir.Combine(threshold, points)
	if err != nil {
		return nil, fmt.Errorf("error combining shares: %v", err)
	}
	if uint64(len(secret)) != bodies[0].SecretLen {
		return nil, fmt.Errorf("recovered secret has length %d, expected %d", len(secret), bodies[0].SecretLen)
	}
	return secret, nil
}

func checkSameSet(seen []*body, b *body, i int) error {
	if b.Threshold < 1 || b.Threshold > b.ShareCount {
		return fmt.Errorf("share #%d: invalid threshold %d for %d shares", i, b.Threshold, b.ShareCount)
	}
	if b.X < 1 || b.X > b.ShareCount {
		return fmt.Errorf("share #%d: invalid share number %d", i, b.X)
	}
	if uint64(len(b.Value)) != b.SecretLen {
		return fmt.Errorf("share #%d: value length %d does not match secret length %d", i, len(b.Value), b.SecretLen)
	}
	if len(seen) == 0 {
		return nil
	}
	first := seen[0]
	switch {
	case b.SetID != first.SetID:
		return fmt.Errorf("share #%d belongs to a different secret than share #0", i)
	case b.Threshold != first.Threshold || b.ShareCount != first.ShareCount:
		return fmt.Errorf("share #%d is a %d-of-%d share, share #0 is %d-of-%d", i, b.Threshold, b.ShareCount, first.Threshold, first.ShareCount)
	case b.SecretLen != first.SecretLen:
		return fmt.Errorf("share #%d has secret length %d, share #0 has %d", i, b.SecretLen, first.SecretLen)
	}
	return nil
}

func (e *Engine) rand() io.Reader {
	if e.Rand != nil {
		return e.Rand
	}
	return tinkRandom{}
}

// tinkRandom adapts tink's CSPRNG helper to io.Reader.
type tinkRandom struct{}

func (tinkRandom) Read(p []byte) (int, error) {
	copy(p, random.GetRandomBytes(uint32(len(p))))
	return len(p), nil
}
