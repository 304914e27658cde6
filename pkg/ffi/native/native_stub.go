//go:build !linux || !cgo

// Package native loads shared libraries and calls into them. This build
// has no cgo backend: libraries cannot be opened and calls fail.
package native

import (
	"fmt"

	"ttexec/pkg/ffi"
)

// Library is unavailable in this build
type Library struct {
	path string
}

// Open always fails in this build
func Open(path string) (*Library, error) {
	return nil, fmt.Errorf("open %q: %w", path, ffi.ErrUnsupported)
}

func (l *Library) Name() string {
	return l.path
}

func (l *Library) Symbol(name string) (uintptr, bool) {
	return 0, false
}

func (l *Library) Close() error {
	return nil
}

// Invoker always fails in this build
type Invoker struct{}

func (Invoker) Invoke(addr uintptr, d ffi.Descriptor, args []ffi.Arg) (ffi.Result, error) {
	return ffi.Unsupported{}.Invoke(addr, d, args)
}
