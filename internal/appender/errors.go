// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package appender

import (
	"errors"
	"fmt"
)

// Operations reported in Error.Op.
const (
	OpOpen  = "open"
	OpWrite = "write"
	OpSync  = "sync"
	OpClose = "close"
)

// Error is the single I/O error kind returned by an Appender. It unwraps
// to the underlying cause, so errors.Is(err, fs.ErrNotExist) and friends
// keep working.
type Error struct {
	Op      string
	Path    string
	Written int // bytes written before the failure
	Err     error
}

func (e *Error) Error() string {
	if e.Op == OpWrite && e.Written > 0 {
		return fmt.Sprintf("append %s: %s failed after %d bytes: %v", e.Path, e.Op, e.Written, e.Err)
	}
	return fmt.Sprintf("append %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Partial reports whether some, but not all, of the content reached the
// file before the write failed.
func (e *Error) Partial() bool {
	return e.Op == OpWrite && e.Written > 0
}

// IsIOError reports whether err is, or wraps, an *Error.
func IsIOError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
