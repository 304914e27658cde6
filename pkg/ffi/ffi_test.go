package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	libc := &StaticLibrary{LibName: "libc", Symbols: map[string]uintptr{"puts": 0x100, "abs": 0x200}}
	libm := &StaticLibrary{LibName: "libm", Symbols: map[string]uintptr{"sin": 0x300, "abs": 0x400}}

	addr, err := Resolve([]Library{libc, libm}, "sin")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0x300), addr)

	_, err = Resolve([]Library{libc, libm}, "cos")
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = Resolve(nil, "puts")
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = Resolve([]Library{libc, libm}, "abs")
	assert.ErrorIs(t, err, ErrAmbiguousSymbol)
	assert.Contains(t, err.Error(), "libc, libm")
}

func TestPointerEncoding(t *testing.T) {
	for _, p := range []uintptr{Null, 1, 0x7fff_0000_1000} {
		assert.Equal(t, p, DecodePointer(EncodePointer(p)))
	}
	assert.Equal(t, int64(0), EncodePointer(Null))
}

func TestTypes(t *testing.T) {
	for _, name := range []string{"FInt", "FFloat", "FChar", "FString", "FPtr", "FUnit"} {
		ty, ok := TypeByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, ty.String())
	}
	_, ok := TypeByName("FBits8")
	assert.False(t, ok)

	d := Descriptor{Symbol: "pow", Args: []Type{FFloat, FFloat}, Ret: FFloat}
	assert.Equal(t, 2, d.Arity())
	assert.Equal(t, "pow(FFloat, FFloat) FFloat", d.String())
}

func TestUnsupported(t *testing.T) {
	_, err := Unsupported{}.Invoke(0x10, Descriptor{Symbol: "f"}, nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}
