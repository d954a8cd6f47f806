// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package appender writes a byte sequence to the end of a file, creating
// the file when it does not exist. Each call opens the file, writes once
// and closes it again; no handle outlives the call.
package appender

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// DefaultPerm is the permission used when the target file is created.
const DefaultPerm os.FileMode = 0o644

// Options tune how an Appender writes.
type Options struct {
	// Sync flushes the file to stable storage before it is closed.
	Sync bool
	// Perm is used when the file is created. Zero means DefaultPerm.
	Perm os.FileMode
}

// Appender appends content to files on a file system.
type Appender struct {
	fs   afero.Fs
	opts Options
}

// Default appends through the operating system's file system.
var Default = New(afero.NewOsFs(), Options{})

// New returns an Appender backed by fs. A nil fs selects the OS file system.
func New(fs afero.Fs, opts Options) *Appender {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if opts.Perm == 0 {
		opts.Perm = DefaultPerm
	}
	return &Appender{fs: fs, opts: opts}
}

// AppendLine appends content to the file at path using Default.
func AppendLine(path string, content []byte) error {
	return Default.AppendLine(path, content)
}

// AppendLine opens path in append mode, writes content in full and closes
// the file. Parent directories are never created, so a missing parent
// leaves the file system untouched. Any failure, including a short write
// or a failing close, is returned as an *Error.
func (a *Appender) AppendLine(path string, content []byte) (err error) {
	f, err := a.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, a.opts.Perm)
	if err != nil {
		return &Error{Op: OpOpen, Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Op: OpClose, Path: path, Written: len(content), Err: cerr}
		}
	}()

	n, werr := f.Write(content)
	if werr == nil && n < len(content) {
		werr = io.ErrShortWrite
	}
	if werr != nil {
		return &Error{Op: OpWrite, Path: path, Written: n, Err: werr}
	}

	if a.opts.Sync {
		if serr := f.Sync(); serr != nil {
			return &Error{Op: OpSync, Path: path, Written: n, Err: serr}
		}
	}
	return nil
}
