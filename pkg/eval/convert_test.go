package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

func TestValueToTerm(t *testing.T) {
	st := NewState()
	tests := []struct {
		name     string
		input    *Value
		expected *term.Term
	}{
		{"constant", NewInt(3), term.NewInt(3)},
		{"type", NewType(2), term.NewType(2)},
		{"utype", UType, term.UType},
		{"erased", Erased, term.Erased},
		{"thunk", NewThunk(7), term.Erased},
		{"handle", NewHandle(1), term.Erased},
		{"stuck", MkApp(NewConRef("S"), NewConRef("Z")), term.MkApp(succ, zero)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ValueToTerm(tt.input)
			require.NoError(t, err)
			assertTerm(t, tt.expected, got)
		})
	}
}

func TestBinderKindSurvivesConversion(t *testing.T) {
	kinds := []term.BinderKind{term.Lam, term.Pi, term.Hole, term.PVar, term.PVTy}
	for _, k := range kinds {
		tm := term.NewBind("x", &term.Binder{Kind: k, Ty: term.NewType(0)}, term.NewV(0))
		res := run(t, prelude(), tm)
		require.Equal(t, term.TBind, res.Tag)
		assert.Equal(t, k, res.Binder.Kind, term.BinderName(k))
		assertTerm(t, tm, res)
	}
}

func TestRoundTrip(t *testing.T) {
	ctxt := natCases().AddTyDecl("Vect")
	tests := []struct {
		name  string
		input *term.Term
	}{
		{"identity", term.NewLam("x", term.Erased, term.NewV(0))},
		{"const", term.NewLam("x", term.Erased, term.NewLam("y", term.Erased, term.NewV(1)))},
		{"pi", term.NewPi("a", term.NewType(0), term.NewPi("x", term.NewV(0), term.NewV(1)))},
		{"stuck under binder", term.NewLam("n", term.Erased, call("pred", term.NewV(0)))},
		{"reduces under binder", term.NewLam("n", term.Erased, call("double", nat(1)))},
		{"stuck global", call("Vect", term.NewInt(3), term.NewType(0))},
		{"constructors", nat(3)},
		{"guess", term.NewBind("g", &term.Binder{Kind: term.Guess, Ty: term.Erased, Val: term.NewInt(1)}, term.NewV(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := run(t, ctxt, tt.input)
			twice := run(t, ctxt, once)
			assertTerm(t, once, twice)
		})
	}
}

func TestConversionUsesFreshNames(t *testing.T) {
	// both binders are called x, the inner one must not capture the outer
	tm := term.NewLam("x", term.Erased, term.NewLam("x", term.Erased, term.NewV(1)))
	res := run(t, defs.NewTable(), tm)
	assertTerm(t, tm, res)
}
