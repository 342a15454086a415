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

// Package input resolves the secret source named on the command line to a
// byte stream, reading either a named file or standard input.
package input

import (
	"io"
	"os"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
	"github.com/GoogleCloudPlatform/secretsplit/validate"
)

// Stdin is read when no path or the "-" sentinel is given.
var Stdin io.Reader = os.Stdin

// Input is a readable secret source. It is not seekable.
type Input struct {
	r    io.Reader
	file *os.File
}

// FromArg opens the source named by arg. An empty arg or "-" selects standard
// input.
func FromArg(arg string) (*Input, error) {
	if arg == "" || arg == validate.Stdin {
		return &Input{r: Stdin}, nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, failure.Wrap(failure.InputResolution, err, "could not open secret file %q", arg)
	}
	return &Input{r: f, file: f}, nil
}

// Read implements io.Reader for both variants.
func (in *Input) Read(p []byte) (int, error) {
	return in.r.Read(p)
}

// Name describes the source for diagnostics.
func (in *Input) Name() string {
	if in.file == nil {
		return "stdin"
	}
	return in.file.Name()
}

// Close releases the named file. Standard input is left open.
func (in *Input) Close() error {
	if in.file == nil {
		return nil
	}
	return in.file.Close()
}
