package ffi

import (
	"fmt"
	"strings"
)

// Library is a loaded dynamic library that can be queried by symbol name
type Library interface {
	Name() string
	Symbol(name string) (uintptr, bool)
}

// Resolve looks name up in every library. Exactly one library must export it.
func Resolve(libs []Library, name string) (uintptr, error) {
	var (
		addr  uintptr
		found []string
	)
	for _, lib := range libs {
		if p, ok := lib.Symbol(name); ok {
			addr = p
			found = append(found, lib.Name())
		}
	}
	switch len(found) {
	case 0:
		return 0, fmt.Errorf("%w: %q", ErrSymbolNotFound, name)
	case 1:
		return addr, nil
	default:
		return 0, fmt.Errorf("%w: %q is exported by %s", ErrAmbiguousSymbol, name, strings.Join(found, ", "))
	}
}

// StaticLibrary is a Library backed by a fixed symbol table
type StaticLibrary struct {
	LibName string
	Symbols map[string]uintptr
}

func (l *StaticLibrary) Name() string {
	return l.LibName
}

func (l *StaticLibrary) Symbol(name string) (uintptr, bool) {
	p, ok := l.Symbols[name]
	return p, ok
}
