package eval

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttexec/pkg/ffi"
	"ttexec/pkg/term"
)

func con(name string) *term.Term {
	return term.NewDCon(name, 0, 0)
}

// desc builds the descriptor term of a foreign function
func desc(symbol, ret string, args ...string) *term.Term {
	list := term.MkApp(con(NameNil), term.Erased)
	for i := len(args) - 1; i >= 0; i-- {
		list = term.MkApp(con(NameCons), term.Erased, con(args[i]), list)
	}
	return term.MkApp(con("MkFDesc"), term.NewStr(symbol), list, con(ret))
}

func foreign(d *term.Term, args ...*term.Term) *term.Term {
	return call(NameForeign, append([]*term.Term{term.Erased, d}, args...)...)
}

func runIO(action *term.Term) *term.Term {
	return call(NameRunIO, term.Erased, action)
}

func ioResult(v *term.Term) *term.Term {
	return term.MkApp(con(NameIO), term.Erased, v)
}

// fakeInvoker adds up its integer arguments
type fakeInvoker struct {
	calls []ffi.Descriptor
	args  [][]ffi.Arg
}

func (f *fakeInvoker) Invoke(addr uintptr, d ffi.Descriptor, args []ffi.Arg) (ffi.Result, error) {
	f.calls = append(f.calls, d)
	f.args = append(f.args, args)
	var sum int64
	for _, a := range args {
		sum += a.Int
	}
	return ffi.Result{Type: d.Ret, Int: sum, Ptr: uintptr(sum)}, nil
}

func libm() *ffi.StaticLibrary {
	return &ffi.StaticLibrary{LibName: "libm", Symbols: map[string]uintptr{"add": 0x10, "sub": 0x20}}
}

func TestPutStr(t *testing.T) {
	var out bytes.Buffer
	tm := runIO(foreign(desc(ForeignPutStr, "FUnit", "FString"), term.NewStr("hello")))

	res := run(t, prelude(), tm, WithStdout(&out))
	assertTerm(t, con(NameUnit), res)
	assert.Equal(t, "hello", out.String())
}

func TestForeignCall(t *testing.T) {
	add := desc("add", "FInt", "FInt", "FInt")

	t.Run("saturated", func(t *testing.T) {
		inv := &fakeInvoker{}
		res := run(t, prelude(), runIO(foreign(add, term.NewInt(2), term.NewInt(3))),
			WithLibraries(libm()), WithInvoker(inv))

		assertTerm(t, term.NewInt(5), res)
		require.Len(t, inv.calls, 1)
		assert.Equal(t, "add", inv.calls[0].Symbol)
		assert.Equal(t, []ffi.Type{ffi.FInt, ffi.FInt}, inv.calls[0].Args)
	})

	t.Run("unsaturated", func(t *testing.T) {
		inv := &fakeInvoker{}
		tm := foreign(add, term.NewInt(2))
		res := run(t, prelude(), tm, WithLibraries(libm()), WithInvoker(inv))

		assertTerm(t, tm, res)
		assert.Empty(t, inv.calls)
	})

	t.Run("io result", func(t *testing.T) {
		res := run(t, prelude(), foreign(add, term.NewInt(2), term.NewInt(3)),
			WithLibraries(libm()), WithInvoker(&fakeInvoker{}))
		assertTerm(t, ioResult(term.NewInt(5)), res)
	})

	t.Run("pointer", func(t *testing.T) {
		inv := &fakeInvoker{}
		lib := &ffi.StaticLibrary{LibName: "libc", Symbols: map[string]uintptr{"id": 0x30}}
		ptr := term.MkApp(con(NamePtr), term.NewInt(4096))
		tm := runIO(foreign(desc("id", "FPtr", "FPtr"), ptr))

		res := run(t, prelude(), tm, WithLibraries(lib), WithInvoker(inv))
		require.Len(t, inv.args, 1)
		assert.Equal(t, uintptr(4096), inv.args[0][0].Ptr)
		assertTerm(t, term.MkApp(con(NamePtr), term.NewInt(0)), res)
	})

	t.Run("undecodable descriptor", func(t *testing.T) {
		tm := foreign(desc("add", "FBogus", "FInt"), term.NewInt(1))
		res := run(t, prelude(), tm, WithLibraries(libm()), WithInvoker(&fakeInvoker{}))
		assertTerm(t, tm, res)
	})
}

func TestForeignCallErrors(t *testing.T) {
	other := &ffi.StaticLibrary{LibName: "libother", Symbols: map[string]uintptr{"add": 0x40}}

	tests := []struct {
		name     string
		input    *term.Term
		libs     []ffi.Library
		expected error
	}{
		{
			"symbol not found",
			foreign(desc("missing", "FInt"), term.Erased),
			[]ffi.Library{libm()},
			ffi.ErrSymbolNotFound,
		},
		{
			"no libraries",
			foreign(desc("add", "FInt", "FInt", "FInt"), term.NewInt(1), term.NewInt(2)),
			nil,
			ffi.ErrSymbolNotFound,
		},
		{
			"ambiguous symbol",
			foreign(desc("add", "FInt", "FInt", "FInt"), term.NewInt(1), term.NewInt(2)),
			[]ffi.Library{libm(), other},
			ffi.ErrAmbiguousSymbol,
		},
		{
			"pointer argument",
			foreign(desc("sub", "FInt", "FPtr"), term.NewInt(1)),
			[]ffi.Library{libm()},
			ffi.ErrMarshal,
		},
		{
			"string argument",
			foreign(desc("sub", "FInt", "FString"), term.NewInt(1)),
			[]ffi.Library{libm()},
			ffi.ErrMarshal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(prelude(), tt.input, WithLibraries(tt.libs...), WithInvoker(&fakeInvoker{}))
			assert.ErrorIs(t, err, tt.expected)
			assert.False(t, IsInvariant(err))
		})
	}
}

func TestUnsupportedInvoker(t *testing.T) {
	tm := foreign(desc("add", "FInt", "FInt", "FInt"), term.NewInt(1), term.NewInt(2))
	_, err := Execute(prelude(), tm, WithLibraries(libm()))
	assert.ErrorIs(t, err, ffi.ErrUnsupported)
}

func TestDecodeDescriptor(t *testing.T) {
	cons := func(args ...*Value) *Value { return MkApp(NewConRef(NameCons), args...) }
	nilList := NewConRef(NameNil)
	mk := func(sym *Value, list *Value, ret string) *Value {
		return MkApp(NewConRef("MkFDesc"), sym, list, NewConRef(ret))
	}

	tests := []struct {
		name     string
		input    *Value
		expected ffi.Descriptor
		ok       bool
	}{
		{
			"untyped list",
			mk(NewStr("f"), cons(NewConRef("FInt"), cons(NewConRef("FString"), nilList)), "FFloat"),
			ffi.Descriptor{Symbol: "f", Args: []ffi.Type{ffi.FInt, ffi.FString}, Ret: ffi.FFloat},
			true,
		},
		{
			"typed list",
			mk(NewStr("g"), cons(Erased, NewConRef("FChar"), MkApp(nilList, Erased)), "FUnit"),
			ffi.Descriptor{Symbol: "g", Args: []ffi.Type{ffi.FChar}, Ret: ffi.FUnit},
			true,
		},
		{
			"no arguments",
			mk(NewStr("h"), nilList, "FPtr"),
			ffi.Descriptor{Symbol: "h", Ret: ffi.FPtr},
			true,
		},
		{"unknown tag", mk(NewStr("f"), cons(NewConRef("FWord"), nilList), "FInt"), ffi.Descriptor{}, false},
		{"symbol is not a string", mk(NewInt(1), nilList, "FInt"), ffi.Descriptor{}, false},
		{"malformed list", mk(NewStr("f"), NewInt(0), "FInt"), ffi.Descriptor{}, false},
		{"not an application", NewStr("f"), ffi.Descriptor{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := DecodeDescriptor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, d)
			}
		})
	}
}
