package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnApply(t *testing.T) {
	f := NewRef("f")
	tests := []struct {
		input *Term
		head  *Term
		args  int
	}{
		{f, f, 0},
		{MkApp(f, NewInt(1)), f, 1},
		{MkApp(f, NewInt(1), NewInt(2), NewInt(3)), f, 3},
		{NewApp(MkApp(f, NewInt(1)), NewInt(2)), f, 2},
	}

	for _, tt := range tests {
		head, args := UnApply(tt.input)
		assert.Same(t, tt.head, head, tt.input.String())
		assert.Len(t, args, tt.args)
	}

	_, args := UnApply(MkApp(f, NewInt(1), NewInt(2)))
	assert.Equal(t, int64(1), args[0].Const.Int)
	assert.Equal(t, int64(2), args[1].Const.Int)
}

func TestAbstract(t *testing.T) {
	tests := []struct {
		name     string
		body     *Term
		expected *Term
	}{
		{"variable", NewBound("x"), NewV(0)},
		{"other name", NewBound("y"), NewBound("y")},
		{"global of same name", NewRef("x"), NewRef("x")},
		{"application", MkApp(NewRef("f"), NewBound("x"), NewBound("x")), MkApp(NewRef("f"), NewV(0), NewV(0))},
		{"under binder", NewLam("y", NewBound("x"), NewBound("x")), NewLam("y", NewV(0), NewV(1))},
		{"projection", NewProj(NewBound("x"), 1), NewProj(NewV(0), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Abstract("x", tt.body)
			assert.True(t, Equal(tt.expected, got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b  *Term
		equal bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewStr("1"), false},
		{NewRef("x"), NewBound("x"), false},
		{NewLam("x", Erased, NewV(0)), NewLam("y", Erased, NewV(0)), true},
		{NewLam("x", Erased, NewV(0)), NewPi("x", Erased, NewV(0)), false},
		{NewType(0), NewType(1), false},
		{Erased, Erased, true},
		{nil, nil, true},
		{nil, Erased, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.equal, Equal(tt.a, tt.b), "%s == %s", tt.a, tt.b)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input    *Term
		expected string
	}{
		{MkApp(NewRef("f"), NewInt(1), NewStr("a")), `(f 1 "a")`},
		{NewLam("x", Erased, NewV(0)), `\x : _ => {V 0}`},
		{NewPi("a", NewType(0), NewV(0)), `(a : Type 0) -> {V 0}`},
		{NewLet("x", Erased, NewInt(1), NewV(0)), `let x : _ = 1 in {V 0}`},
		{NewConstant(CharConst('c')), `'c'`},
		{NewProj(NewRef("p"), 2), `p!2`},
		{Impossible, `impossible`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.input.String())
	}
}

func TestConstEqual(t *testing.T) {
	assert.True(t, IntConst(3).Equal(IntConst(3)))
	assert.False(t, IntConst(3).Equal(FloatConst(3)))
	assert.True(t, StrConst("a").Equal(StrConst("a")))
	assert.False(t, TypeConst("Int").Equal(StrConst("Int")))
	assert.True(t, CharConst('x').Equal(CharConst('x')))
}
