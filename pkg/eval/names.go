package eval

import (
	"ttexec/pkg/ffi"
	"ttexec/pkg/term"
)

// Names the evaluator gives a meaning to
const (
	NameRunIO   = "unsafePerformPrimIO"
	NameIO      = "prim__IO"
	NameUnit    = "MkUnit"
	NameLazy    = "lazy"
	NameForeign = "mkForeignPrim"
	NamePtr     = "prim__ptr"
	NameNil     = "Nil"
	NameCons    = "::"
)

// Built-in foreign functions executed without going through a library
const (
	ForeignPutStr    = "putStr"
	ForeignFileOpen  = "fileOpen"
	ForeignFileEOF   = "fileEOF"
	ForeignFileClose = "fileClose"
	ForeignIsNull    = "isNull"
)

// Unit returns the unit constructor value
func Unit() *Value {
	return NewConRef(NameUnit)
}

// IOWrap wraps a result in the IO envelope
func IOWrap(v *Value) *Value {
	return MkApp(NewConRef(NameIO), Erased, v)
}

// IOUnit is an IO action that returned unit
func IOUnit() *Value {
	return IOWrap(Unit())
}

// UnwrapIO returns the payload of an IO envelope
func UnwrapIO(v *Value) (*Value, bool) {
	h, args := UnApply(v)
	if h.Tag != VRef || h.Name != NameIO || len(args) != 2 {
		return nil, false
	}
	return args[1], true
}

// NewPointer encodes a native address in the reserved pointer constructor
func NewPointer(p uintptr) *Value {
	return MkApp(NewConRef(NamePtr), NewInt(ffi.EncodePointer(p)))
}

// PointerOf decodes a value built by NewPointer
func PointerOf(v *Value) (uintptr, bool) {
	h, args := UnApply(v)
	if h.Tag != VRef || h.Name != NamePtr || len(args) != 1 || !IsConst(args[0], term.CInt) {
		return 0, false
	}
	return ffi.DecodePointer(args[0].Const.Int), true
}
