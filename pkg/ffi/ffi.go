// Package ffi describes foreign calls: the C-level argument and return
// types, call descriptors, pointer encoding, and symbol resolution across
// the dynamic libraries handed to the evaluator. The native call itself is
// done by an Invoker, see package native.
package ffi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrAmbiguousSymbol = errors.New("ambiguous symbol")
	ErrMarshal         = errors.New("marshaling error")
	ErrUnsupported     = errors.New("foreign calls are not supported in this build")
)

// Type is a C-level type tag
type Type int

const (
	FInt Type = iota
	FFloat
	FChar
	FString
	FPtr
	FUnit
)

var typeNames = map[string]Type{
	"FInt":    FInt,
	"FFloat":  FFloat,
	"FChar":   FChar,
	"FString": FString,
	"FPtr":    FPtr,
	"FUnit":   FUnit,
}

// TypeByName returns the tag named name, if any
func TypeByName(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}

func (t Type) String() string {
	for name, tt := range typeNames {
		if tt == t {
			return name
		}
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Descriptor is a decoded foreign function signature
type Descriptor struct {
	Symbol string
	Args   []Type
	Ret    Type
}

// Arity is the number of arguments the call consumes
func (d Descriptor) Arity() int {
	return len(d.Args)
}

func (d Descriptor) String() string {
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s) %s", d.Symbol, strings.Join(parts, ", "), d.Ret)
}

// Arg is an argument already converted to its native-side shape. Only the
// field selected by Type is meaningful.
type Arg struct {
	Type  Type
	Int   int64
	Float float64
	Str   string
	Ptr   uintptr
}

// Result is a native return value. Only the field selected by Type is
// meaningful; FUnit carries nothing.
type Result struct {
	Type  Type
	Int   int64
	Float float64
	Str   string
	Ptr   uintptr
}

// Invoker performs a native call of the function at addr
type Invoker interface {
	Invoke(addr uintptr, d Descriptor, args []Arg) (Result, error)
}

// Unsupported is the Invoker used when no native backend was configured
type Unsupported struct{}

func (Unsupported) Invoke(addr uintptr, d Descriptor, args []Arg) (Result, error) {
	return Result{}, fmt.Errorf("%w: %s", ErrUnsupported, d.Symbol)
}
