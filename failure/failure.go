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

// Package failure defines the closed set of failure causes reported by
// secretsplit and renders them as a chain of "caused by" lines.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is reported for errors that did not originate in this package.
	Unknown Kind = iota
	// InvalidParameters covers k/n bounds, k > n, bad templates and bad paths.
	InvalidParameters
	// InputResolution covers failures to open or read the secret.
	InputResolution
	// OutputTarget covers failures to create or write share and secret files.
	OutputTarget
	// ShareCollection covers missing, non-regular or unreadable share files.
	ShareCollection
	// Engine covers share generation and recovery failures, including an
	// insufficient quorum and failed verification.
	Engine
	// OutputEncoding covers a recovered secret that cannot be rendered as text.
	OutputEncoding
)

func (k Kind) String() string {
	switch k {
	case InvalidParameters:
		return "invalid parameters"
	case InputResolution:
		return "input resolution"
	case OutputTarget:
		return "output target"
	case ShareCollection:
		return "share collection"
	case Engine:
		return "engine"
	case OutputEncoding:
		return "output encoding"
	default:
		return "unknown"
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Error is one level of a failure chain.
type Error struct {
	Kind    Kind
	Message string
	// Cause is the lower-level error, or nil for a root failure.
	Cause error

	trace errors.StackTrace
}

// New returns a root failure of the given kind.
func New(kind Kind, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	// Frame 0 is New itself.
	trace := errors.New(msg).(stackTracer).StackTrace()[1:]
	return &Error{Kind: kind, Message: msg, trace: trace}
}

// Wrap adds a level of context on top of cause. A nil cause returns nil.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	trace := errors.New(msg).(stackTracer).StackTrace()[1:]
	return &Error{Kind: kind, Message: msg, Cause: cause, trace: trace}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Cause }

// StackTrace returns the call stack recorded when e was created.
func (e *Error) StackTrace() errors.StackTrace { return e.trace }

// KindOf returns the kind of the outermost failure in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Causes returns one message per level of err's chain, outermost first. A
// foreign error ends the chain with its full text.
func Causes(err error) []string {
	var out []string
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			out = append(out, err.Error())
			break
		}
		out = append(out, e.Message)
		err = e.Cause
	}
	return out
}

// Backtrace returns the stack of the innermost failure in err's chain, which
// points closest to where things went wrong, or nil if none was recorded.
func Backtrace(err error) errors.StackTrace {
	var trace errors.StackTrace
	for err != nil {
		if st, ok := err.(stackTracer); ok && len(st.StackTrace()) > 0 {
			trace = st.StackTrace()
		}
		err = errors.Unwrap(err)
	}
	return trace
}
