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
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the share body. Fields 1-6 are covered by the signature.
const (
	fieldSetID        protowire.Number = 1
	fieldThreshold    protowire.Number = 2
	fieldShareCount   protowire.Number = 3
	fieldX            protowire.Number = 4
	fieldSecretLen    protowire.Number = 5
	fieldValue        protowire.Number = 6
	fieldSignature    protowire.Number = 7
	fieldPublicKeyset protowire.Number = 8
)

var encoding = base64.StdEncoding.Strict()

// body is the decoded form of a single share.
type body struct {
	SetID      string
	Threshold  uint8
	ShareCount uint8
	X          uint8
	SecretLen  uint64
	Value      []byte

	Signature    []byte
	PublicKeyset []byte
}

// signedBytes returns the encoding of the fields covered by the signature.
func (b *body) signedBytes() []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldSetID, protowire.BytesType)
	buf = protowire.AppendString(buf, b.SetID)
	buf = appendVarint(buf, fieldThreshold, uint64(b.Threshold))
	buf = appendVarint(buf, fieldShareCount, uint64(b.ShareCount))
	buf = appendVarint(buf, fieldX, uint64(b.X))
	buf = appendVarint(buf, fieldSecretLen, b.SecretLen)
	buf = protowire.AppendTag(buf, fieldValue, protowire.BytesType)
	buf = protowire.AppendBytes(buf, b.Value)
	return buf
}

func (b *body) marshal() []byte {
	buf := b.signedBytes()
	if len(b.Signature) > 0 {
		buf = protowire.AppendTag(buf, fieldSignature, protowire.BytesType)
		buf = protowire.AppendBytes(buf, b.Signature)
	}
	if len(b.PublicKeyset) > 0 {
		buf = protowire.AppendTag(buf, fieldPublicKeyset, protowire.BytesType)
		buf = protowire.AppendBytes(buf, b.PublicKeyset)
	}
	return buf
}

func (b *body) signed() bool {
	return len(b.Signature) > 0 && len(b.PublicKeyset) > 0
}

func appendVarint(buf []byte, num protowire.Number, v uint64) []byte {
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, v)
}

func unmarshalBody(data []byte) (*body, error) {
	b := &body{}
	seen := map[protowire.Number]bool{}
	for rest := data; len(rest) > 0; {
		num, typ, n := protowire.ConsumeTag(rest)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		rest = rest[n:]

		switch {
		case num == fieldSetID && typ == protowire.BytesType:
			b.SetID, n = protowire.ConsumeString(rest)
		case num == fieldValue && typ == protowire.BytesType:
			b.Value, n = consumeBytes(rest)
		case num == fieldSignature && typ == protowire.BytesType:
			b.Signature, n = consumeBytes(rest)
		case num == fieldPublicKeyset && typ == protowire.BytesType:
			b.PublicKeyset, n = consumeBytes(rest)
		case typ == protowire.VarintType && num >= fieldThreshold && num <= fieldSecretLen:
			var v uint64
			v, n = protowire.ConsumeVarint(rest)
			if n >= 0 {
				if err := b.setVarint(num, v); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("unexpected field %d of wire type %d", num, typ)
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		if seen[num] {
			return nil, fmt.Errorf("repeated field %d", num)
		}
		seen[num] = true
		rest = rest[n:]
	}

	// Anything that does not re-encode byte for byte was not produced by
	// marshal.
	if !bytes.Equal(b.marshal(), data) {
		return nil, fmt.Errorf("non-canonical share encoding")
	}
	return b, nil
}

func (b *body) setVarint(num protowire.Number, v uint64) error {
	if num == fieldSecretLen {
		b.SecretLen = v
		return nil
	}
	if v > 255 {
		return fmt.Errorf("field %d value %d out of range", num, v)
	}
	switch num {
	case fieldThreshold:
		b.Threshold = uint8(v)
	case fieldShareCount:
		b.ShareCount = uint8(v)
	case fieldX:
		b.X = uint8(v)
	}
	return nil
}

func consumeBytes(b []byte) ([]byte, int) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, n
	}
	return append([]byte(nil), v...), n
}

// marshalText renders a share as a single "<k>-<x>-<base64 body>" line.
func (b *body) marshalText() []byte {
	return []byte(fmt.Sprintf("%d-%d-%s\n", b.Threshold, b.X, encoding.EncodeToString(b.marshal())))
}

func parseText(text []byte) (*body, error) {
	s := strings.TrimSuffix(string(text), "\n")

	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected <k>-<x>-<data>, got %d dash-separated fields", len(parts))
	}
	k, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q", parts[0])
	}
	x, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid share number %q", parts[1])
	}
	// The decoder skips line breaks; a share is exactly one line.
	if strings.ContainsAny(parts[2], "\r\n") {
		return nil, fmt.Errorf("share data spans more than one line")
	}
	raw, err := encoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid share data: %v", err)
	}

	b, err := unmarshalBody(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid share data: %v", err)
	}
	if strconv.FormatUint(k, 10) != parts[0] || strconv.FormatUint(x, 10) != parts[1] {
		return nil, fmt.Errorf("share header %q is not canonical", parts[0]+"-"+parts[1])
	}
	if uint64(b.Threshold) != k || uint64(b.X) != x {
		return nil, fmt.Errorf("share header %d-%d does not match its data (%d-%d)", k, x, b.Threshold, b.X)
	}
	return b, nil
}
