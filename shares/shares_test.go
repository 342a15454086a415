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

package shares

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/tink/go/subtle/random"
)

func TestHashShareIsDeterministic(t *testing.T) {
	share := random.GetRandomBytes(16)
	other := random.GetRandomBytes(16)

	if !bytes.Equal(HashShare(share), HashShare(share)) {
		t.Fatalf("HashShare(share) is not deterministic")
	}
	if bytes.Equal(HashShare(share), HashShare(other)) {
		t.Fatalf("HashShare(share1) = HashShare(share2) for different shares")
	}
}

func TestGenerateAndRecoverEveryQuorum(t *testing.T) {
	var e Engine
	for _, tc := range []struct {
		k, n uint8
	}{
		{1, 1}, {1, 3}, {2, 3}, {3, 3}, {3, 5}, {5, 9}, {255, 255},
	} {
		for _, secret := range [][]byte{{}, []byte("hello"), random.GetRandomBytes(64)} {
			t.Run(fmt.Sprintf("k-%d n-%d len-%d", tc.k, tc.n, len(secret)), func(t *testing.T) {
				shares, err := e.GenerateShares(tc.k, tc.n, secret, false)
				if err != nil {
					t.Fatalf("GenerateShares(%d, %d) err = %v, want nil", tc.k, tc.n, err)
				}
				if len(shares) != int(tc.n) {
					t.Fatalf("GenerateShares(%d, %d) returned %d shares, want %d", tc.k, tc.n, len(shares), tc.n)
				}

				// The last k shares, in reverse order.
				var subset [][]byte
				for i := len(shares) - 1; i >= len(shares)-int(tc.k); i-- {
					subset = append(subset, shares[i])
				}
				got, err := e.RecoverSecret(subset, false)
				if err != nil {
					t.Fatalf("RecoverSecret() err = %v, want nil", err)
				}
				if !bytes.Equal(got, secret) {
					t.Errorf("RecoverSecret() = %x, want %x", got, secret)
				}
			})
		}
	}
}

func TestShareTextFormat(t *testing.T) {
	var e Engine
	shares, err := e.GenerateShares(2, 3, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range shares {
		prefix := fmt.Sprintf("2-%d-", i+1)
		if !strings.HasPrefix(string(s), prefix) {
			t.Errorf("share %d = %q, want prefix %q", i, s, prefix)
		}
		if !strings.HasSuffix(string(s), "\n") || strings.Count(string(s), "\n") != 1 {
			t.Errorf("share %d = %q, want a single line", i, s)
		}
	}
}

func TestRecoverWithFewerThanThresholdFails(t *testing.T) {
	var e Engine
	shares, err := e.GenerateShares(3, 5, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecoverSecret(shares[:2], false); err == nil {
		t.Errorf("RecoverSecret(2 of 3) err = nil, want error")
	}
	// Duplicates do not count towards the quorum.
	if _, err := e.RecoverSecret([][]byte{shares[0], shares[1], shares[0]}, false); err == nil {
		t.Errorf("RecoverSecret(with duplicate) err = nil, want error")
	}
}

func TestRecoverRejectsMixedSets(t *testing.T) {
	var e Engine
	a, err := e.GenerateShares(2, 3, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.GenerateShares(2, 3, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecoverSecret([][]byte{a[0], b[1]}, false); err == nil {
		t.Errorf("RecoverSecret(mixed sets) err = nil, want error")
	}
}

func TestRecoverRejectsMalformedShares(t *testing.T) {
	var e Engine
	shares, err := e.GenerateShares(2, 3, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	good := string(shares[0])
	for _, tc := range []struct {
		name  string
		share string
	}{
		{name: "empty", share: ""},
		{name: "no header", share: "aGVsbG8="},
		{name: "bad threshold", share: "x" + good[1:]},
		{name: "header mismatch", share: "3" + good[1:]},
		{name: "leading zero", share: "0" + good},
		{name: "not base64", share: "2-1-!!!!\n"},
		{name: "trailing garbage", share: good + "extra"},
		{name: "crlf", share: strings.TrimSuffix(good, "\n") + "\r\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.RecoverSecret([][]byte{[]byte(tc.share), shares[1]}, false); err == nil {
				t.Errorf("RecoverSecret(%q) err = nil, want error", tc.share)
			}
		})
	}
	if _, err := e.RecoverSecret(nil, false); err == nil {
		t.Errorf("RecoverSecret(nil) err = nil, want error")
	}
}

func TestSignedSharesVerify(t *testing.T) {
	var e Engine
	secret := []byte("hello")
	shares, err := e.GenerateShares(2, 3, secret, true)
	if err != nil {
		t.Fatalf("GenerateShares(sign) err = %v, want nil", err)
	}
	got, err := e.RecoverSecret(shares[1:], true)
	if err != nil {
		t.Fatalf("RecoverSecret(verify) err = %v, want nil", err)
	}
	if !bytes.Equal(got, secret) {
		t.Errorf("RecoverSecret(verify) = %q, want %q", got, secret)
	}

	// Signed shares still recover without verification.
	if _, err := e.RecoverSecret(shares[:2], false); err != nil {
		t.Errorf("RecoverSecret(signed, no verify) err = %v, want nil", err)
	}
}

func TestVerifyRejectsUnsignedShares(t *testing.T) {
	var e Engine
	shares, err := e.GenerateShares(2, 3, []byte("hello"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RecoverSecret(shares[:2], true); err == nil {
		t.Errorf("RecoverSecret(unsigned, verify) err = nil, want error")
	}
}

func TestVerifyDetectsAnyTamperedByte(t *testing.T) {
	var e Engine
	shares, err := e.GenerateShares(2, 3, []byte("attack at dawn"), true)
	if err != nil {
		t.Fatal(err)
	}

	orig := shares[0]
	for i := range orig {
		tampered := append([]byte(nil), orig...)
		// Flip to a different byte that stays printable where possible.
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		if _, err := e.RecoverSecret([][]byte{tampered, shares[1]}, true); err == nil {
			t.Fatalf("RecoverSecret() with byte %d of share 0 changed from %q to %q succeeded, want error", i, orig[i], tampered[i])
		}
	}
}

func TestBodyRoundTripIsCanonical(t *testing.T) {
	b := &body{
		SetID:        "set",
		Threshold:    2,
		ShareCount:   3,
		X:            1,
		SecretLen:    3,
		Value:        []byte{1, 2, 3},
		Signature:    []byte{9},
		PublicKeyset: []byte{8},
	}
	got, err := parseText(b.marshalText())
	if err != nil {
		t.Fatalf("parseText(marshalText()) err = %v, want nil", err)
	}
	if !bytes.Equal(got.marshal(), b.marshal()) {
		t.Errorf("round trip changed the share body")
	}

	// A repeated field is not canonical.
	raw := append(b.marshal(), b.marshal()...)
	if _, err := unmarshalBody(raw); err == nil {
		t.Errorf("unmarshalBody(repeated fields) err = nil, want error")
	}
}
