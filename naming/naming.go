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

// Package naming maps a share's ordinal index to its output file name.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/secretsplit/failure"
)

const (
	// Placeholder is replaced by the zero-based share index.
	Placeholder = "{{num}}"
	// IndexPlaceholder is accepted as an alias of Placeholder.
	IndexPlaceholder = "{index}"

	// DefaultTemplate names shares share_0, share_1, ...
	DefaultTemplate = "share_" + Placeholder
)

// Template is an immutable share file name pattern.
type Template struct {
	prefix, suffix string
}

// Parse checks that pattern holds exactly one placeholder. An empty pattern
// selects DefaultTemplate.
func Parse(pattern string) (Template, error) {
	if pattern == "" {
		pattern = DefaultTemplate
	}
	n := strings.Count(pattern, Placeholder) + strings.Count(pattern, IndexPlaceholder)
	if n != 1 {
		return Template{}, failure.New(failure.InvalidParameters,
			"share template %q must contain exactly one %s placeholder, found %d", pattern, Placeholder, n)
	}

	token := Placeholder
	if !strings.Contains(pattern, Placeholder) {
		token = IndexPlaceholder
	}
	prefix, suffix, _ := strings.Cut(pattern, token)
	return Template{prefix: prefix, suffix: suffix}, nil
}

// Default returns the parsed DefaultTemplate.
func Default() Template {
	return Template{prefix: "share_"}
}

// Name returns the file name of the share at index i.
func (t Template) Name(i int) string {
	return t.prefix + strconv.Itoa(i) + t.suffix
}

// Path joins the share file name for index i onto dir.
func (t Template) Path(dir string, i int) string {
	return filepath.Join(dir, t.Name(i))
}

// String returns the pattern in its canonical form.
func (t Template) String() string {
	return t.prefix + Placeholder + t.suffix
}
