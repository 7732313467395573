// Copyright (C) 2025 SAGE-X Project
//
// This file is part of ncmb-go.
//
// ncmb-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ncmb-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ncmb-go.  If not, see <https://www.gnu.org/licenses/>.

package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Kind classifies an Error.
type Kind string

const (
	KindEncoding        Kind = "ENCODING_ERROR"
	KindTransport       Kind = "TRANSPORT_ERROR"
	KindTimeout         Kind = "TIMEOUT_ERROR"
	KindHTTPStatus      Kind = "HTTP_STATUS_ERROR"
	KindIntegrity       Kind = "INTEGRITY_ERROR"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
)

// CodeInvalidResponse is used when a response body cannot be interpreted.
const CodeInvalidResponse = "INVALID_RESPONSE"

// Sentinels for errors.Is.
var (
	ErrEncoding        = &Error{Kind: KindEncoding}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrHTTPStatus      = &Error{Kind: KindHTTPStatus}
	ErrIntegrity       = &Error{Kind: KindIntegrity}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
)

// Error is the domain exception returned by the client.
type Error struct {
	Kind Kind

	// Code is the backend machine code (e.g. "E404001") for HTTP status
	// errors, or a local code otherwise.
	Code string

	Message string

	// StatusCode is set for HTTP_STATUS_ERROR only.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// New creates an Error whose code equals its kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: fmt.Sprintf(format, args...), Err: cause}
}

// Error implements error.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Code == "" {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target that
// also carries a Code only matches errors with that code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FromResponse converts a non-success response into an HTTP_STATUS_ERROR.
// The body is expected as {"code": "...", "error": "..."}; anything else
// yields CodeInvalidResponse.
func FromResponse(status int, body []byte) *Error {
	if gjson.ValidBytes(body) {
		code := gjson.GetBytes(body, "code")
		message := gjson.GetBytes(body, "error")
		if code.Type == gjson.String && message.Exists() {
			return &Error{
				Kind:       KindHTTPStatus,
				Code:       code.String(),
				Message:    message.String(),
				StatusCode: status,
			}
		}
	}

	text := http.StatusText(status)
	if text == "" {
		text = "unknown status"
	}
	return &Error{
		Kind:       KindHTTPStatus,
		Code:       CodeInvalidResponse,
		Message:    fmt.Sprintf("invalid status %d %s", status, text),
		StatusCode: status,
	}
}
