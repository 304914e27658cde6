package eval

import (
	"fmt"
	"io"

	"ttexec/pkg/defs"
	"ttexec/pkg/ffi"
	"ttexec/pkg/term"
)

// applyForeign handles mkForeignPrim ty desc args... Built-in symbols run
// here directly; anything else goes through the configured libraries once
// the call is saturated.
func (st *State) applyForeign(ctxt defs.Context, f *Value, args []*Value) (*Value, error) {
	if len(args) < 2 {
		return MkApp(f, args...), nil
	}
	d, ok, err := st.decodeDescriptor(args[1])
	if err != nil {
		return nil, err
	}
	if !ok {
		st.log.Debug().Stringer("desc", args[1]).Msg("not a foreign call")
		return MkApp(f, args...), nil
	}

	callArgs := args[2:]
	if len(callArgs) < d.Arity() {
		return MkApp(f, args...), nil
	}
	rest := callArgs[d.Arity():]
	forced := make([]*Value, d.Arity())
	for i := range forced {
		if forced[i], err = st.TryForce(callArgs[i]); err != nil {
			return nil, err
		}
	}

	var res *Value
	if builtinForeigns[d.Symbol] {
		if res, ok, err = st.builtinForeign(d.Symbol, forced); err != nil {
			return nil, err
		}
		if !ok {
			return MkApp(f, args...), nil
		}
	} else if res, err = st.callForeign(d, forced); err != nil {
		return nil, err
	}
	return st.Apply(ctxt, res, rest)
}

var builtinForeigns = map[string]bool{
	ForeignPutStr:    true,
	ForeignFileOpen:  true,
	ForeignFileEOF:   true,
	ForeignFileClose: true,
	ForeignIsNull:    true,
}

// builtinForeign runs the foreign functions the evaluator implements
// itself. It reports false when the arguments have the wrong shape.
func (st *State) builtinForeign(symbol string, args []*Value) (*Value, bool, error) {
	switch symbol {
	case ForeignPutStr:
		if len(args) != 1 || !IsConst(args[0], term.CStr) {
			return nil, false, nil
		}
		if _, err := io.WriteString(st.stdout, args[0].Const.Str); err != nil {
			return nil, false, err
		}
		return IOUnit(), true, nil

	case ForeignFileOpen:
		if len(args) != 2 || !IsConst(args[0], term.CStr) || !IsConst(args[1], term.CStr) {
			return nil, false, nil
		}
		h, opened, err := st.openFile(args[0].Const.Str, args[1].Const.Str)
		if err != nil {
			return nil, false, err
		}
		if !opened {
			return IOWrap(NewPointer(ffi.Null)), true, nil
		}
		return IOWrap(h), true, nil

	case ForeignFileEOF:
		if len(args) != 1 {
			return nil, false, nil
		}
		eof, err := st.atEOF(args[0])
		if err != nil {
			return nil, false, err
		}
		return IOWrap(boolInt(eof)), true, nil

	case ForeignFileClose:
		if len(args) != 1 {
			return nil, false, nil
		}
		if err := st.closeHandle(args[0]); err != nil {
			return nil, false, err
		}
		return IOUnit(), true, nil

	case ForeignIsNull:
		if len(args) != 1 {
			return nil, false, nil
		}
		if args[0].Tag == VHandle {
			return IOWrap(boolInt(false)), true, nil
		}
		p, ok := PointerOf(args[0])
		if !ok {
			return nil, false, nil
		}
		return IOWrap(boolInt(p == ffi.Null)), true, nil
	}
	return nil, false, nil
}

// callForeign resolves d in the loaded libraries and invokes it natively
func (st *State) callForeign(d ffi.Descriptor, args []*Value) (*Value, error) {
	addr, err := ffi.Resolve(st.libs, d.Symbol)
	if err != nil {
		st.log.Warn().Err(err).Str("symbol", d.Symbol).Msg("foreign call")
		return nil, err
	}

	native := make([]ffi.Arg, len(args))
	for i, a := range args {
		if native[i], err = marshal(d.Args[i], a); err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", d.Symbol, i, err)
		}
	}

	st.log.Debug().Stringer("call", d).Msg("foreign call")
	res, err := st.invoker.Invoke(addr, d, native)
	if err != nil {
		return nil, err
	}
	return IOWrap(unmarshal(d.Ret, res)), nil
}

func marshal(t ffi.Type, v *Value) (ffi.Arg, error) {
	arg := ffi.Arg{Type: t}
	switch t {
	case ffi.FInt:
		if IsConst(v, term.CInt) {
			arg.Int = v.Const.Int
			return arg, nil
		}
	case ffi.FFloat:
		if IsConst(v, term.CFloat) {
			arg.Float = v.Const.Float
			return arg, nil
		}
	case ffi.FChar:
		if IsConst(v, term.CChar) {
			arg.Int = int64(v.Const.Char)
			return arg, nil
		}
	case ffi.FString:
		if IsConst(v, term.CStr) {
			arg.Str = v.Const.Str
			return arg, nil
		}
	case ffi.FPtr:
		if p, ok := PointerOf(v); ok {
			arg.Ptr = p
			return arg, nil
		}
	case ffi.FUnit:
		return arg, nil
	}
	return arg, fmt.Errorf("%w: %s is not a %s", ffi.ErrMarshal, v, t)
}

func unmarshal(t ffi.Type, r ffi.Result) *Value {
	switch t {
	case ffi.FInt:
		return NewInt(r.Int)
	case ffi.FFloat:
		return NewConst(term.FloatConst(r.Float))
	case ffi.FChar:
		return NewConst(term.CharConst(rune(r.Int)))
	case ffi.FString:
		return NewStr(r.Str)
	case ffi.FPtr:
		return NewPointer(r.Ptr)
	}
	return Unit()
}

// DecodeDescriptor reads a foreign call descriptor
// (symbol, argument type list, return type) out of an evaluated value.
func DecodeDescriptor(v *Value) (ffi.Descriptor, bool) {
	d, ok, _ := decodeDescriptor(v, func(v *Value) (*Value, error) { return v, nil })
	return d, ok
}

func (st *State) decodeDescriptor(v *Value) (ffi.Descriptor, bool, error) {
	return decodeDescriptor(v, st.TryForce)
}

func decodeDescriptor(v *Value, force func(*Value) (*Value, error)) (ffi.Descriptor, bool, error) {
	var d ffi.Descriptor
	v, err := force(v)
	if err != nil {
		return d, false, err
	}
	h, args := UnApply(v)
	if h.Tag != VRef || len(args) < 3 {
		return d, false, nil
	}
	args = args[len(args)-3:]

	sym, err := force(args[0])
	if err != nil || !IsConst(sym, term.CStr) {
		return d, false, err
	}
	d.Symbol = sym.Const.Str

	ret, ok, err := decodeType(args[2], force)
	if err != nil || !ok {
		return d, false, err
	}
	d.Ret = ret

	list, err := force(args[1])
	if err != nil {
		return d, false, err
	}
	for {
		h, elems := UnApply(list)
		if h.Tag != VRef {
			return d, false, nil
		}
		switch {
		case h.Name == NameNil && len(elems) <= 1:
			return d, true, nil
		case h.Name == NameCons && (len(elems) == 2 || len(elems) == 3):
			elems = elems[len(elems)-2:]
			t, ok, err := decodeType(elems[0], force)
			if err != nil || !ok {
				return d, false, err
			}
			d.Args = append(d.Args, t)
			if list, err = force(elems[1]); err != nil {
				return d, false, err
			}
		default:
			return d, false, nil
		}
	}
}

func decodeType(v *Value, force func(*Value) (*Value, error)) (ffi.Type, bool, error) {
	v, err := force(v)
	if err != nil {
		return 0, false, err
	}
	name, ok := HeadName(v)
	if !ok {
		return 0, false, nil
	}
	t, ok := ffi.TypeByName(name)
	return t, ok, nil
}
