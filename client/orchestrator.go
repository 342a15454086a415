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

// Package client orchestrates splitting a secret into share files and
// recovering it from a quorum of them. The threshold sharing itself is
// delegated to an Engine.
package client

import (
	"fmt"
	"io"
	"os"

	"github.com/GoogleCloudPlatform/secretsplit/shares"
	glog "github.com/golang/glog"
)

// Engine performs threshold secret sharing. Share contents are opaque to the
// client.
type Engine interface {
	// GenerateShares splits secret into n shares, any k of which recover it.
	// If sign is set the engine embeds per-share authenticity tags.
	GenerateShares(k, n uint8, secret []byte, sign bool) ([][]byte, error)
	// RecoverSecret reconstructs a secret from shares. If verify is set the
	// engine checks the embedded authenticity tags first.
	RecoverSecret(shares [][]byte, verify bool) ([]byte, error)
}

// Share is one share together with where it lives on disk.
type Share struct {
	// Index is the zero-based ordinal used to name the share file.
	Index int
	Path  string
	Data  []byte
}

// SecretSplitClient runs split and recover workflows. The zero value uses
// the default shares engine and writes recovered secrets to os.Stdout.
type SecretSplitClient struct {
	// Engine overrides the sharing engine, mostly for testing.
	Engine Engine

	// Stdout receives recovered secrets when no output file is given.
	Stdout io.Writer

	// Verbose enables progress notices through glog.
	Verbose bool

	// Notify replaces glog as the receiver of progress notices.
	Notify func(msg string)
}

func (c *SecretSplitClient) engine() Engine {
	if c.Engine == nil {
		return &shares.Engine{}
	}
	return c.Engine
}

func (c *SecretSplitClient) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *SecretSplitClient) infof(format string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if c.Notify != nil {
		c.Notify(msg)
		return
	}
	// Depth 1 stamps the caller's file and line, not this helper's.
	glog.InfoDepth(1, msg)
}
