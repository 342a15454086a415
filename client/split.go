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

package client

import (
	"io"
	"os"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
	"github.com/GoogleCloudPlatform/secretsplit/naming"
	"github.com/GoogleCloudPlatform/secretsplit/shares"
	"github.com/GoogleCloudPlatform/secretsplit/validate"
	glog "github.com/golang/glog"
)

// SplitRequest describes one split invocation.
type SplitRequest struct {
	// K is the quorum and N the number of shares, 1 <= K <= N.
	K, N uint8
	// Input is drained completely before any share is generated.
	Input io.Reader
	// OutputDir must be an existing directory.
	OutputDir string
	// Template names share files. The zero value uses naming.Default().
	Template naming.Template
	// Sign asks the engine to embed per-share authenticity tags.
	Sign bool
	// Overwrite allows replacing existing files. Without it an existing share
	// file fails the split.
	Overwrite bool
}

// Split reads the secret, generates shares and writes each one to its
// templated path under req.OutputDir, in index order. A failed write leaves
// the shares already written in place.
func (c *SecretSplitClient) Split(req SplitRequest) ([]Share, error) {
	if req.K < 1 {
		return nil, failure.New(failure.InvalidParameters, "k must be at least 1")
	}
	if err := validate.Quorum(req.K, req.N); err != nil {
		return nil, err
	}
	tmpl := req.Template
	if tmpl == (naming.Template{}) {
		tmpl = naming.Default()
	}

	c.infof("Reading secret...")
	secret, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, failure.Wrap(failure.InputResolution, err, "could not read secret")
	}
	defer clear(secret)
	c.infof("  Read %d bytes.", len(secret))

	c.infof("Generating %d shares with a quorum of %d...", req.N, req.K)
	data, err := c.engine().GenerateShares(req.K, req.N, secret, req.Sign)
	if err != nil {
		return nil, failure.Wrap(failure.Engine, err, "could not generate shares")
	}

	written := make([]Share, 0, len(data))
	for i, d := range data {
		path := tmpl.Path(req.OutputDir, i)
		c.infof("Writing share #%d to %q (sha256 %x)...", i, path, shares.HashShare(d)[:8])
		if err := writeShare(path, d, req.Overwrite); err != nil {
			if len(written) > 0 {
				glog.Warningf("Split stopped after writing %d of %d shares to %q", len(written), len(data), req.OutputDir)
			}
			return written, err
		}
		written = append(written, Share{Index: i, Path: path, Data: d})
	}
	return written, nil
}

func writeShare(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		return failure.Wrap(failure.OutputTarget, err, "could not create share file %q", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return failure.Wrap(failure.OutputTarget, err, "could not write share data to %q", path)
	}
	if err := f.Close(); err != nil {
		return failure.Wrap(failure.OutputTarget, err, "could not write share data to %q", path)
	}
	return nil
}
