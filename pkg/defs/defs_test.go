package defs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttexec/pkg/term"
)

func TestTable(t *testing.T) {
	tree := NewCase("n",
		NewConCase("Z", 0, nil, NewSTerm(term.NewInt(0))),
		NewDefaultCase(NewUnmatched("no match")),
	)
	tbl := NewTable().
		AddFunction("one", term.NewInt(1)).
		AddTyDecl("Nat").
		AddOperator("prim__addInt", 2).
		AddCaseOp("isZero", []string{"n"}, tree)

	assert.Equal(t, 4, tbl.Len())
	assert.Empty(t, tbl.Lookup("missing"))

	tests := []struct {
		name string
		kind Kind
	}{
		{"one", Function},
		{"Nat", TyDecl},
		{"prim__addInt", Operator},
		{"isZero", CaseOp},
	}
	for _, tt := range tests {
		ds := tbl.Lookup(tt.name)
		require.Len(t, ds, 1, tt.name)
		assert.Equal(t, tt.kind, ds[0].Kind, tt.name)
	}

	assert.Equal(t, 2, tbl.Lookup("prim__addInt")[0].Arity)
	assert.Equal(t, []string{"n"}, tbl.Lookup("isZero")[0].Params)
}

func TestCaseTreeString(t *testing.T) {
	tree := NewCase("n",
		NewConCase("S", 1, []string{"k"}, NewSTerm(term.NewBound("k"))),
		NewConstCase(term.IntConst(0), NewImpossibleCase()),
		NewDefaultCase(NewUnmatched("partial")),
	)
	assert.Equal(t, `case n of S k => k | 0 => impossible | _ => error "partial"`, tree.String())
}

func TestLaziness(t *testing.T) {
	l := NewLaziness().Set("f", []bool{false, true, false, true})

	assert.True(t, l.Known("f"))
	assert.False(t, l.Known("g"))
	assert.Equal(t, []bool{false, true, false, true, false}, l.Flags("f", 5))
	assert.Equal(t, []bool{false, false}, l.Flags("g", 2))

	c := l.Clone()
	c.Set("f", []bool{true})
	assert.False(t, l.IsLazy("f", 0))
	assert.True(t, c.IsLazy("f", 0))

	var none *Laziness
	assert.False(t, none.IsLazy("f", 0))
	assert.False(t, none.Known("f"))
	assert.NotNil(t, none.Clone())
}
