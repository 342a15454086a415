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

	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/signature"
	"github.com/google/tink/go/tink"
)

// newSigner creates a single-use ED25519 keyset for one split. It returns the
// signer and the serialized public keyset that every share will carry.
func newSigner() (tink.Signer, []byte, error) {
	kh, err := keyset.NewHandle(signature.ED25519KeyTemplate())
	if err != nil {
		return nil, nil, fmt.Errorf("generating signing key: %v", err)
	}
	signer, err := signature.NewSigner(kh)
	if err != nil {
		return nil, nil, fmt.Errorf("creating signer: %v", err)
	}
	pub, err := kh.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("extracting public key: %v", err)
	}

	var buf bytes.Buffer
	if err := pub.WriteWithNoSecrets(keyset.NewBinaryWriter(&buf)); err != nil {
		return nil, nil, fmt.Errorf("serializing public key: %v", err)
	}
	return signer, buf.Bytes(), nil
}

// verifySignatures checks that every share is signed by the same key and that
// every signature matches its share.
func verifySignatures(bodies []*body) error {
	if len(bodies) == 0 {
		return fmt.Errorf("no shares to verify")
	}
	for i, b := range bodies {
		if !b.signed() {
			return fmt.Errorf("share #%d is not signed", i)
		}
		if !bytes.Equal(b.PublicKeyset, bodies[0].PublicKeyset) {
			return fmt.Errorf("share #%d is signed by a different key than share #0", i)
		}
	}

	kh, err := keyset.ReadWithNoSecrets(keyset.NewBinaryReader(bytes.NewReader(bodies[0].PublicKeyset)))
	if err != nil {
		return fmt.Errorf("reading public key: %v", err)
	}
	verifier, err := signature.NewVerifier(kh)
	if err != nil {
		return fmt.Errorf("creating verifier: %v", err)
	}
	for i, b := range bodies {
		if err := verifier.Verify(b.Signature, b.signedBytes()); err != nil {
			return fmt.Errorf("share #%d has an invalid signature: %v", i, err)
		}
	}
	return nil
}
