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

package failure

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCausesWalksChainOutermostFirst(t *testing.T) {
	root := &fs.PathError{Op: "open", Path: "secret.txt", Err: fs.ErrNotExist}
	err := Wrap(Engine, Wrap(InputResolution, root, "could not read secret"), "could not split")

	want := []string{
		"could not split",
		"could not read secret",
		"open secret.txt: file does not exist",
	}
	if diff := cmp.Diff(want, Causes(err)); diff != "" {
		t.Errorf("Causes() mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorStringJoinsChain(t *testing.T) {
	err := Wrap(OutputTarget, errors.New("disk full"), "could not write share %d", 2)
	if got, want := err.Error(), "could not write share 2: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindOfReturnsOutermostKind(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want Kind
	}{
		{name: "root", err: New(InvalidParameters, "k must be smaller than or equal to n"), want: InvalidParameters},
		{name: "wrapped", err: Wrap(Engine, New(ShareCollection, "bad share"), "could not recover secret"), want: Engine},
		{name: "foreign", err: errors.New("boom"), want: Unknown},
		{name: "nil", err: nil, want: Unknown},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if err := Wrap(Engine, nil, "unused"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestErrorsIsSeesThroughChain(t *testing.T) {
	err := Wrap(ShareCollection, fs.ErrNotExist, "could not open share")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(%v, fs.ErrNotExist) = false, want true", err)
	}
}

func TestReport(t *testing.T) {
	err := Wrap(Engine, New(ShareCollection, "share %q is not a file", "/tmp"), "could not recover secret")

	var buf bytes.Buffer
	Report(&buf, err, false)

	want := "    error: could not recover secret\n" +
		"caused by: share \"/tmp\" is not a file\n"
	if got := buf.String(); got != want {
		t.Errorf("Report() wrote %q, want %q", got, want)
	}
}

func TestReportWithBacktrace(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, New(InvalidParameters, "bad"), true)

	got := buf.String()
	if !strings.Contains(got, "backtrace:") {
		t.Fatalf("Report() output %q has no backtrace section", got)
	}
	if !strings.Contains(got, "TestReportWithBacktrace") {
		t.Errorf("Report() backtrace %q does not name the failing test", got)
	}
}

func TestReportNilWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, nil, true)
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q, want nothing", buf.String())
	}
}
