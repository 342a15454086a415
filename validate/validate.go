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

// Package validate checks command-line parameters before any file is opened
// or any share is generated. Checks only stat paths; they never open them.
package validate

import (
	"os"
	"strconv"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
)

// Stdin is the path sentinel that selects the standard input stream.
const Stdin = "-"

// StrictlyPositive parses s as a share count in [1, 255].
func StrictlyPositive(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, failure.New(failure.InvalidParameters, "%s is not a positive number", s)
	}
	if v < 1 {
		return 0, failure.New(failure.InvalidParameters, "%s is not strictly positive", s)
	}
	return uint8(v), nil
}

// Quorum checks that the threshold k does not exceed the share count n.
func Quorum(k, n uint8) error {
	if k > n {
		return failure.New(failure.InvalidParameters, "k must be smaller than or equal to n (k = %d, n = %d)", k, n)
	}
	return nil
}

// File checks that path exists and is a regular file.
func File(path string) error {
	fi, err := stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return failure.New(failure.InvalidParameters, "'%s' is not a file", path)
	}
	return nil
}

// FileOrStdin is File, except that the Stdin sentinel is always accepted.
func FileOrStdin(path string) error {
	if path == Stdin {
		return nil
	}
	return File(path)
}

// Directory checks that path exists and is a directory.
func Directory(path string) error {
	fi, err := stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return failure.New(failure.InvalidParameters, "'%s' is not a directory", path)
	}
	return nil
}

func stat(path string) (os.FileInfo, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, failure.New(failure.InvalidParameters, "'%s' does not exist", path)
	}
	if err != nil {
		return nil, failure.Wrap(failure.InvalidParameters, err, "could not inspect '%s'", path)
	}
	return fi, nil
}
