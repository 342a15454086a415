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

package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
)

func TestStrictlyPositive(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    uint8
		wantErr string
	}{
		{in: "1", want: 1},
		{in: "3", want: 3},
		{in: "255", want: 255},
		{in: "0", wantErr: "0 is not strictly positive"},
		{in: "256", wantErr: "256 is not a positive number"},
		{in: "-1", wantErr: "-1 is not a positive number"},
		{in: "three", wantErr: "three is not a positive number"},
		{in: "", wantErr: " is not a positive number"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := StrictlyPositive(tc.in)
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("StrictlyPositive(%q) = %d, want error %q", tc.in, got, tc.wantErr)
				}
				if err.Error() != tc.wantErr {
					t.Errorf("StrictlyPositive(%q) err = %q, want %q", tc.in, err, tc.wantErr)
				}
				if kind := failure.KindOf(err); kind != failure.InvalidParameters {
					t.Errorf("StrictlyPositive(%q) kind = %v, want %v", tc.in, kind, failure.InvalidParameters)
				}
				return
			}
			if err != nil {
				t.Fatalf("StrictlyPositive(%q) err = %v, want nil", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("StrictlyPositive(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestQuorum(t *testing.T) {
	if err := Quorum(2, 3); err != nil {
		t.Errorf("Quorum(2, 3) err = %v, want nil", err)
	}
	if err := Quorum(3, 3); err != nil {
		t.Errorf("Quorum(3, 3) err = %v, want nil", err)
	}
	if err := Quorum(4, 3); err == nil {
		t.Errorf("Quorum(4, 3) err = nil, want error")
	}
}

func TestPathChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(file, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	for _, tc := range []struct {
		name    string
		check   func(string) error
		path    string
		wantErr string
	}{
		{name: "file ok", check: File, path: file},
		{name: "file is dir", check: File, path: dir, wantErr: "is not a file"},
		{name: "file missing", check: File, path: missing, wantErr: "does not exist"},
		{name: "stdin sentinel", check: FileOrStdin, path: "-"},
		{name: "file or stdin with file", check: FileOrStdin, path: file},
		{name: "file or stdin with dir", check: FileOrStdin, path: dir, wantErr: "is not a file"},
		{name: "dir ok", check: Directory, path: dir},
		{name: "dir is file", check: Directory, path: file, wantErr: "is not a directory"},
		{name: "dir missing", check: Directory, path: missing, wantErr: "does not exist"},
		{name: "stdin sentinel is not a directory", check: Directory, path: Stdin, wantErr: "does not exist"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.path)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("check(%q) err = %v, want nil", tc.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("check(%q) err = %v, want error containing %q", tc.path, err, tc.wantErr)
			}
		})
	}
}
