// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

package appender

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestAppendLine_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	if err := AppendLine(path, []byte("hello world\n")); err != nil {
		t.Fatalf("AppendLine: %v", err)
	}
	if got := readFile(t, path); got != "hello world\n" {
		t.Fatalf("unexpected content %q", got)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() != int64(len("hello world\n")) {
		t.Fatalf("expected size %d, got %d", len("hello world\n"), st.Size())
	}
}

func TestAppendLine_PreservesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.log")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := AppendLine(path, []byte("second\n")); err != nil {
		t.Fatalf("AppendLine: %v", err)
	}
	if got := readFile(t, path); got != "first\nsecond\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestAppendLine_SequentialCallsConcatenate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.log")

	if err := AppendLine(path, []byte("a\n")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendLine(path, []byte("b\n")); err != nil {
		t.Fatalf("second append: %v", err)
	}
	if got := readFile(t, path); got != "a\nb\n" {
		t.Fatalf("expected %q, got %q", "a\nb\n", got)
	}
}

func TestAppendLine_WritesBytesVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.log")
	payload := []byte{0x00, 0xff, '\r', '\n', 0xc3, 0x28}

	if err := AppendLine(path, payload); err != nil {
		t.Fatalf("AppendLine: %v", err)
	}
	if got := readFile(t, path); got != string(payload) {
		t.Fatalf("content was transformed: %x", got)
	}
}

func TestAppendLine_EmptyContentCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")

	if err := AppendLine(path, nil); err != nil {
		t.Fatalf("AppendLine: %v", err)
	}
	if got := readFile(t, path); got != "" {
		t.Fatalf("expected empty file, got %q", got)
	}
}

func TestAppendLine_MissingParentLeavesNothingBehind(t *testing.T) {
	tmp := t.TempDir()
	parent := filepath.Join(tmp, "missing")
	path := filepath.Join(parent, "test.log")

	err := AppendLine(path, []byte("hello world\n"))
	if err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
	if !IsIOError(err) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Op != OpOpen || aerr.Path != path {
		t.Fatalf("unexpected error detail: %#v", aerr)
	}
	if _, statErr := os.Stat(parent); !os.IsNotExist(statErr) {
		t.Fatalf("parent directory must not be created, stat err: %v", statErr)
	}
	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Fatalf("expected temp dir to stay empty, found %d entries", len(entries))
	}
}

func TestAppendLine_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root; permission bits are not enforced")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o500); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := AppendLine(filepath.Join(dir, "test.log"), []byte("x"))
	if !IsIOError(err) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission IOError, got %v", err)
	}
}

func TestAppendLine_PathIsDirectory(t *testing.T) {
	err := AppendLine(t.TempDir(), []byte("x"))
	if !IsIOError(err) {
		t.Fatalf("expected IOError when path is a directory, got %v", err)
	}
}

func TestAppender_MemFs(t *testing.T) {
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll("/tmp", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	a := New(mem, Options{Sync: true})

	for _, line := range []string{"one\n", "two\n", "three\n"} {
		if err := a.AppendLine("/tmp/keykapp.log", []byte(line)); err != nil {
			t.Fatalf("append %q: %v", line, err)
		}
	}
	got, err := afero.ReadFile(mem, "/tmp/keykapp.log")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "one\ntwo\nthree\n" {
		t.Fatalf("unexpected content %q", got)
	}
	st, err := mem.Stat("/tmp/keykapp.log")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != DefaultPerm {
		t.Fatalf("expected perm %v, got %v", DefaultPerm, st.Mode().Perm())
	}
}

func TestAppender_CustomPerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perm.log")
	a := New(nil, Options{Perm: 0o600})

	if err := a.AppendLine(path, []byte("x")); err != nil {
		t.Fatalf("AppendLine: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm()&0o077 != 0 {
		t.Fatalf("expected group/other bits cleared, got %v", st.Mode().Perm())
	}
}

// faultyFs hands out files whose Write, Sync and Close can be made to fail.
type faultyFs struct {
	afero.Fs
	limit    int // bytes accepted per Write; negative means unlimited
	writeErr error
	syncErr  error
	closeErr error
	opened   []*faultyFile
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	ff := &faultyFile{File: file, fs: f}
	f.opened = append(f.opened, ff)
	return ff, nil
}

type faultyFile struct {
	afero.File
	fs     *faultyFs
	closed bool
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if f.fs.limit >= 0 && len(p) > f.fs.limit {
		n, err := f.File.Write(p[:f.fs.limit])
		if err != nil {
			return n, err
		}
		return n, f.fs.writeErr
	}
	return f.File.Write(p)
}

func (f *faultyFile) Sync() error {
	if f.fs.syncErr != nil {
		return f.fs.syncErr
	}
	return f.File.Sync()
}

func (f *faultyFile) Close() error {
	f.closed = true
	if err := f.File.Close(); err != nil {
		return err
	}
	return f.fs.closeErr
}

func newFaultyFs() *faultyFs {
	return &faultyFs{Fs: afero.NewMemMapFs(), limit: -1}
}

func TestAppender_SilentShortWriteIsReported(t *testing.T) {
	ffs := newFaultyFs()
	ffs.limit = 3
	a := New(ffs, Options{})

	err := a.AppendLine("/x.log", []byte("hello world\n"))
	if err == nil {
		t.Fatalf("expected short write to fail")
	}
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if aerr.Op != OpWrite || aerr.Written != 3 || !aerr.Partial() {
		t.Fatalf("unexpected error detail: %+v", aerr)
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected io.ErrShortWrite in chain, got %v", err)
	}
	if len(ffs.opened) != 1 || !ffs.opened[0].closed {
		t.Fatalf("file handle was not released")
	}
}

func TestAppender_WriteErrorIsReported(t *testing.T) {
	ffs := newFaultyFs()
	ffs.limit = 0
	ffs.writeErr = errors.New("no space left on device")
	a := New(ffs, Options{})

	err := a.AppendLine("/x.log", []byte("data"))
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Op != OpWrite {
		t.Fatalf("expected write error, got %v", err)
	}
	if aerr.Partial() {
		t.Fatalf("nothing was written, Partial must be false")
	}
	if !errors.Is(err, ffs.writeErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !ffs.opened[0].closed {
		t.Fatalf("file handle was not released")
	}
}

func TestAppender_CloseErrorIsReported(t *testing.T) {
	ffs := newFaultyFs()
	ffs.closeErr = errors.New("deferred write failed")
	a := New(ffs, Options{})

	err := a.AppendLine("/x.log", []byte("data"))
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Op != OpClose {
		t.Fatalf("expected close error, got %v", err)
	}
	if aerr.Written != len("data") {
		t.Fatalf("expected Written=%d, got %d", len("data"), aerr.Written)
	}
}

func TestAppender_WriteErrorWinsOverCloseError(t *testing.T) {
	ffs := newFaultyFs()
	ffs.limit = 0
	ffs.writeErr = errors.New("io fault")
	ffs.closeErr = errors.New("close fault")
	a := New(ffs, Options{})

	err := a.AppendLine("/x.log", []byte("data"))
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Op != OpWrite {
		t.Fatalf("expected the write error to be reported, got %v", err)
	}
}

func TestAppender_SyncErrorIsReported(t *testing.T) {
	ffs := newFaultyFs()
	ffs.syncErr = errors.New("sync fault")
	a := New(ffs, Options{Sync: true})

	err := a.AppendLine("/x.log", []byte("data"))
	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Op != OpSync {
		t.Fatalf("expected sync error, got %v", err)
	}
	if !ffs.opened[0].closed {
		t.Fatalf("file handle was not released")
	}
}

func TestError_Message(t *testing.T) {
	e := &Error{Op: OpWrite, Path: "/tmp/k.log", Written: 4, Err: io.ErrShortWrite}
	want := "append /tmp/k.log: write failed after 4 bytes: short write"
	if e.Error() != want {
		t.Fatalf("expected %q, got %q", want, e.Error())
	}
	e = &Error{Op: OpOpen, Path: "/tmp/k.log", Err: fs.ErrNotExist}
	if e.Error() != "append /tmp/k.log: open: file does not exist" {
		t.Fatalf("unexpected message %q", e.Error())
	}
	if IsIOError(errors.New("plain")) {
		t.Fatalf("plain error must not be an IOError")
	}
}
