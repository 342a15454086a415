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
	"io"

	"github.com/alecthomas/colour"
)

// Report writes err to w as a red "error:" line, one yellow "caused by:" line
// per wrapped cause and, if backtrace is set and a stack was recorded, the
// stack frames. Colours are dropped when w is not a terminal.
func Report(w io.Writer, err error, backtrace bool) {
	if err == nil {
		return
	}
	p := colour.TTY(w)

	causes := Causes(err)
	p.Printf("^1^B    error:^R %s\n", causes[0])
	for _, c := range causes[1:] {
		p.Printf("^3^Bcaused by:^R %s\n", c)
	}

	if !backtrace {
		return
	}
	if trace := Backtrace(err); trace != nil {
		p.Printf("^4^Bbacktrace:^R%+v\n", trace)
	}
}
