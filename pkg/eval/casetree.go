package eval

import (
	"fmt"

	"ttexec/pkg/defs"
)

type binding struct {
	name string
	val  *Value
}

// ExecCase runs a compiled case function. It reports false when there are
// fewer arguments than params or when no alternative matched; surplus
// arguments are applied to the result.
func (st *State) ExecCase(ctxt defs.Context, params []string, sc *defs.SC, args []*Value) (*Value, bool, error) {
	arity := len(params)
	if len(args) < arity {
		return nil, false, nil
	}

	bs := make([]binding, arity)
	for i, p := range params {
		bs[i] = binding{name: p, val: args[i]}
	}

	res, ok, err := st.walk(ctxt, bs, sc)
	if err != nil || !ok {
		return nil, ok, err
	}
	v, err := st.Apply(ctxt, res, args[arity:])
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (st *State) walk(ctxt defs.Context, bs []binding, sc *defs.SC) (*Value, bool, error) {
	switch sc.Kind {
	case defs.UnmatchedCase:
		return nil, false, nil

	case defs.ImpossibleCase:
		return nil, false, ErrImpossible

	case defs.STerm:
		var env *Env
		for i := len(bs) - 1; i >= 0; i-- {
			env = env.ExtendLet(bs[i].name, bs[i].val)
		}
		v, err := st.Eval(env, ctxt, sc.Term)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil

	case defs.Case:
		idx := lookupBinding(bs, sc.Scrutinee)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: case on %s", ErrUnbound, sc.Scrutinee)
		}
		x, err := st.TryForce(bs[idx].val)
		if err != nil {
			return nil, false, err
		}
		bs[idx].val = x

		next, sub, ok := chooseAlt(x, sc.Alts)
		if !ok {
			return nil, false, nil
		}
		st.log.Debug().Str("scrutinee", sc.Scrutinee).Stringer("value", x).Msg("case")
		return st.walk(ctxt, shadow(bs, sub), next)
	}

	return nil, false, fmt.Errorf("%w: unknown case tree kind %d", ErrInvariant, sc.Kind)
}

// chooseAlt picks the first alternative matching x, in order
func chooseAlt(x *Value, alts []defs.Alt) (*defs.SC, []binding, bool) {
	for _, alt := range alts {
		switch alt.Kind {
		case defs.DefaultCase:
			return alt.Tree, nil, true

		case defs.ConstCase:
			if x.Tag == VConst && x.Const.Equal(alt.Const) {
				return alt.Tree, nil, true
			}

		case defs.ConCase:
			h, args := UnApply(x)
			if h.Tag != VRef || h.Name != alt.Con {
				continue
			}
			n := min(len(alt.Args), len(args))
			sub := make([]binding, n)
			for i := 0; i < n; i++ {
				sub[i] = binding{name: alt.Args[i], val: args[i]}
			}
			return alt.Tree, sub, true
		}
	}
	return nil, nil, false
}

// shadow puts sub in front of bs, dropping older bindings of the same names
func shadow(bs, sub []binding) []binding {
	if len(sub) == 0 {
		return bs
	}
	out := append([]binding(nil), sub...)
	for _, b := range bs {
		if lookupBinding(sub, b.name) < 0 {
			out = append(out, b)
		}
	}
	return out
}

func lookupBinding(bs []binding, name string) int {
	for i, b := range bs {
		if b.name == name {
			return i
		}
	}
	return -1
}
