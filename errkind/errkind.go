// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errkind defines the engine's flat error taxonomy and a typed
// error carrying one of its kinds, so callers can branch on failure
// mode instead of matching error strings.
package errkind

import "fmt"

// Kind identifies one of the engine's recognised failure modes.
type Kind int

const (
	Unknown Kind = iota
	NoMemory
	InvalidArgument
	NilPointer
	NoFile
	InvalidFile
	InUse
	Busy
	InvalidCommand
	QueueFull
	NotFound
	Exist
	InvalidWindow
	Unsupported
	Overflow
	Limit
	DeviceGenerated
	Other
)

var names = [...]string{
	"unknown",
	"no_memory",
	"invalid_argument",
	"nil_pointer",
	"no_file",
	"invalid_file",
	"in_use",
	"busy",
	"invalid_command",
	"queue_full",
	"not_found",
	"exist",
	"invalid_window",
	"unsupported",
	"overflow",
	"limit",
	"device_generated",
	"other",
}

// String returns the canonical lower_snake_case name of the kind.
func (k Kind) String() string {

	if k < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Error wraps a Kind with a message and, optionally, an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {

	return e.Err
}

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, v ...interface{}) error {

	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

// Wrap creates an error of the given kind that carries an underlying cause.
func Wrap(kind Kind, cause error, format string, v ...interface{}) error {

	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...), Err: cause}
}

// Is reports whether err (or any error it wraps) carries the given kind.
func Is(err error, kind Kind) bool {

	return KindOf(err) == kind
}

// KindOf extracts the Kind from err, returning Unknown if err is nil or
// does not carry a recognised kind.
func KindOf(err error) Kind {

	if err == nil {
		return Unknown
	}
	var e *Error
	for {
		if ee, ok := err.(*Error); ok {
			e = ee
			break
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return Unknown
		}
		err = unwrapper.Unwrap()
		if err == nil {
			return Unknown
		}
	}
	return e.Kind
}

// Recoverable reports whether kind is one of the three kinds §7 names as
// expected and locally recoverable: in_use, exist, invalid_window.
func Recoverable(kind Kind) bool {

	switch kind {
	case InUse, Exist, InvalidWindow:
		return true
	default:
		return false
	}
}
