package term

import (
	"strconv"
)

// ConstKind is the kind of a literal constant
type ConstKind int

const (
	CInt ConstKind = iota
	CFloat
	CChar
	CStr
	CTypeName // a primitive type such as Int or String used as a value
)

// Const is a literal. Only the field selected by Kind is meaningful.
type Const struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Char  rune
	Str   string // also the name for CTypeName
}

// IntConst creates an integer constant
func IntConst(i int64) Const {
	return Const{Kind: CInt, Int: i}
}

// FloatConst creates a float constant
func FloatConst(f float64) Const {
	return Const{Kind: CFloat, Float: f}
}

// CharConst creates a character constant
func CharConst(c rune) Const {
	return Const{Kind: CChar, Char: c}
}

// StrConst creates a string constant
func StrConst(s string) Const {
	return Const{Kind: CStr, Str: s}
}

// TypeConst names a primitive type
func TypeConst(name string) Const {
	return Const{Kind: CTypeName, Str: name}
}

// Equal compares two constants of the same kind
func (c Const) Equal(o Const) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CInt:
		return c.Int == o.Int
	case CFloat:
		return c.Float == o.Float
	case CChar:
		return c.Char == o.Char
	default:
		return c.Str == o.Str
	}
}

// String renders the constant as a literal
func (c Const) String() string {
	switch c.Kind {
	case CInt:
		return strconv.FormatInt(c.Int, 10)
	case CFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case CChar:
		return strconv.QuoteRune(c.Char)
	case CStr:
		return strconv.Quote(c.Str)
	default:
		return c.Str
	}
}
