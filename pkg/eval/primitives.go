package eval

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"ttexec/pkg/term"
)

// primFn implements one primitive operator. It reports false when the
// arguments do not have the shape it expects.
type primFn func(st *State, args []*Value) (*Value, bool, error)

var primitives map[string]primFn

func init() {
	primitives = map[string]primFn{
		"prim__concat":     primConcat,
		"prim__eqInt":      primEqInt,
		"prim__ltInt":      primLtInt,
		"prim__subInt":     primSubInt,
		"prim__addInt":     primAddInt,
		"prim__mulInt":     primMulInt,
		"prim__strLen":     primStrLen,
		"prim__intToStr":   primIntToStr,
		"prim__readString": primReadString,
		"prim__fread":      primFread,
	}
}

// IsPrimitive reports whether name has a built-in implementation
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

func (st *State) primitive(name string, args []*Value) (*Value, bool, error) {
	fn, ok := primitives[name]
	if !ok {
		return nil, false, nil
	}
	return fn(st, args)
}

// twoInts safely extracts two integer arguments
func twoInts(args []*Value) (int64, int64, bool) {
	if len(args) != 2 || !IsConst(args[0], term.CInt) || !IsConst(args[1], term.CInt) {
		return 0, 0, false
	}
	return args[0].Const.Int, args[1].Const.Int, true
}

// oneStr safely extracts a single string argument
func oneStr(args []*Value) (string, bool) {
	if len(args) != 1 || !IsConst(args[0], term.CStr) {
		return "", false
	}
	return args[0].Const.Str, true
}

func boolInt(b bool) *Value {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

func primConcat(st *State, args []*Value) (*Value, bool, error) {
	if len(args) != 2 || !IsConst(args[0], term.CStr) || !IsConst(args[1], term.CStr) {
		return nil, false, nil
	}
	return NewStr(args[0].Const.Str + args[1].Const.Str), true, nil
}

func primEqInt(st *State, args []*Value) (*Value, bool, error) {
	a, b, ok := twoInts(args)
	if !ok {
		return nil, false, nil
	}
	return boolInt(a == b), true, nil
}

func primLtInt(st *State, args []*Value) (*Value, bool, error) {
	a, b, ok := twoInts(args)
	if !ok {
		return nil, false, nil
	}
	return boolInt(a < b), true, nil
}

func primSubInt(st *State, args []*Value) (*Value, bool, error) {
	a, b, ok := twoInts(args)
	if !ok {
		return nil, false, nil
	}
	return NewInt(a - b), true, nil
}

func primAddInt(st *State, args []*Value) (*Value, bool, error) {
	a, b, ok := twoInts(args)
	if !ok {
		return nil, false, nil
	}
	return NewInt(a + b), true, nil
}

func primMulInt(st *State, args []*Value) (*Value, bool, error) {
	a, b, ok := twoInts(args)
	if !ok {
		return nil, false, nil
	}
	return NewInt(a * b), true, nil
}

func primStrLen(st *State, args []*Value) (*Value, bool, error) {
	s, ok := oneStr(args)
	if !ok {
		return nil, false, nil
	}
	return NewInt(int64(utf8.RuneCountInString(s))), true, nil
}

func primIntToStr(st *State, args []*Value) (*Value, bool, error) {
	if len(args) != 1 || !IsConst(args[0], term.CInt) {
		return nil, false, nil
	}
	return NewStr(strconv.FormatInt(args[0].Const.Int, 10)), true, nil
}

// primReadString reads one line from stdin. Its single argument is the
// world token and is ignored.
func primReadString(st *State, args []*Value) (*Value, bool, error) {
	if len(args) != 1 {
		return nil, false, nil
	}
	line, err := st.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, err
	}
	return NewStr(strings.TrimSuffix(line, "\n")), true, nil
}

// primFread reads one line from a handle, keeping the trailing newline
func primFread(st *State, args []*Value) (*Value, bool, error) {
	if len(args) != 1 {
		return nil, false, nil
	}
	h, err := st.handle(args[0])
	if err != nil {
		return nil, false, err
	}
	line, err := h.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, err
	}
	return IOWrap(NewStr(line)), true, nil
}
