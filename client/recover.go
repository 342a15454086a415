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
	"unicode/utf8"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
	"github.com/GoogleCloudPlatform/secretsplit/validate"
	glog "github.com/golang/glog"
)

// RecoverRequest describes one recover invocation.
type RecoverRequest struct {
	// SharePaths are read in order. Every path must be a regular file.
	SharePaths []string
	// Output is the secret file to create or overwrite. Empty or "-" writes
	// the secret to Stdout.
	Output string
	// Verify asks the engine to check share authenticity tags.
	Verify bool
	// UTF8 renders a secret written to Stdout as text: it must be valid UTF-8
	// and is followed by a newline. It has no effect on file output.
	UTF8 bool
}

// Recover collects the shares, asks the engine for the secret and writes it
// out. Nothing is written unless recovery succeeds.
func (c *SecretSplitClient) Recover(req RecoverRequest) error {
	if len(req.SharePaths) == 0 {
		return failure.New(failure.ShareCollection, "no shares given")
	}
	for _, p := range req.SharePaths {
		if err := checkShareFile(p); err != nil {
			return err
		}
	}

	collection := make([]Share, 0, len(req.SharePaths))
	for i, p := range req.SharePaths {
		c.infof("Reading share %q...", p)
		data, err := readShare(p)
		if err != nil {
			return err
		}
		c.infof("  Read %d bytes.", len(data))
		collection = append(collection, Share{Index: i, Path: p, Data: data})
	}

	texts := make([][]byte, len(collection))
	for i, s := range collection {
		texts[i] = s.Data
	}

	c.infof("Recovering secret from %d shares...", len(texts))
	secret, err := c.engine().RecoverSecret(texts, req.Verify)
	if err != nil {
		return failure.Wrap(failure.Engine, err, "could not recover secret")
	}
	defer clear(secret)

	if req.Output == "" || req.Output == validate.Stdin {
		return c.writeStdout(secret, req.UTF8)
	}
	if _, err := os.Stat(req.Output); err == nil {
		glog.Warningf("Overwriting existing file %q with the recovered secret", req.Output)
	}
	c.infof("Writing secret to %q...", req.Output)
	return writeSecretFile(req.Output, secret)
}

func checkShareFile(path string) error {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return failure.New(failure.ShareCollection, "share %q does not exist", path)
	}
	if err != nil {
		return failure.Wrap(failure.ShareCollection, err, "could not inspect share %q", path)
	}
	if !fi.Mode().IsRegular() {
		return failure.New(failure.ShareCollection, "share %q is not a file", path)
	}
	return nil
}

func readShare(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Wrap(failure.ShareCollection, err, "could not open share %q", path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, failure.Wrap(failure.ShareCollection, err, "could not read share %q", path)
	}
	return data, nil
}

func (c *SecretSplitClient) writeStdout(secret []byte, text bool) error {
	out := secret
	if text {
		if !utf8.Valid(secret) {
			return failure.New(failure.OutputEncoding, "could not parse secret as UTF-8, consider outputting it to a file instead")
		}
		out = append(append(make([]byte, 0, len(secret)+1), secret...), '\n')
		defer clear(out)
	}
	if _, err := c.stdout().Write(out); err != nil {
		return failure.Wrap(failure.OutputTarget, err, "could not write secret to standard output")
	}
	return nil
}

func writeSecretFile(path string, secret []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return failure.Wrap(failure.OutputTarget, err, "could not create secret file %q", path)
	}
	if _, err := f.Write(secret); err != nil {
		f.Close()
		return failure.Wrap(failure.OutputTarget, err, "could not write secret to file %q", path)
	}
	if err := f.Close(); err != nil {
		return failure.Wrap(failure.OutputTarget, err, "could not write secret to file %q", path)
	}
	return nil
}
