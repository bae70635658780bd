// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package discovery

import "fmt"

// ErrorKind discriminates discovery failures (spec.md §7, "Discovery"
// kinds).
type ErrorKind string

const (
	ErrRequest    ErrorKind = "request"
	ErrParse      ErrorKind = "parse"
	ErrResponse   ErrorKind = "response"
	ErrValidation ErrorKind = "validation_error"
)

// Error is returned by Discover and JWKSURL.Fetch.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Status int    // set for ErrResponse
	Body   []byte // set for ErrResponse
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == ErrResponse {
		return fmt.Sprintf("discovery: %s: %s (status %d)", e.Kind, e.Msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("discovery: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("discovery: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func newResponseError(status int, body []byte) *Error {
	return &Error{Kind: ErrResponse, Msg: "unexpected response status", Status: status, Body: body}
}
