// Package eval reduces elaborated terms to values: call-by-need evaluation
// with a thunk store, case-tree dispatch, primitive operators and foreign
// calls.
package eval

import (
	"fmt"

	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

// Eval reduces tm under env. Global names are resolved through ctxt.
func (st *State) Eval(env *Env, ctxt defs.Context, tm *term.Term) (*Value, error) {
	if tm == nil {
		return Erased, nil
	}

	switch tm.Tag {
	case term.TP:
		switch tm.NameType.Kind {
		case term.Ref:
			return st.evalGlobal(ctxt, tm.Name)
		case term.Bound:
			b, ok := env.Lookup(tm.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnbound, tm.Name)
			}
			if b.Kind != term.Let {
				return nil, fmt.Errorf("%w: %s is bound by %s", ErrNotLetBound, tm.Name, term.BinderName(b.Kind))
			}
			return b.Val, nil
		default:
			// constructors are tagged, never unfolded
			return NewRef(tm.NameType, tm.Name), nil
		}

	case term.TV:
		e, ok := env.At(tm.Index)
		if !ok {
			return nil, fmt.Errorf("%w: variable %d in an environment of size %d", ErrIndexOutOfRange, tm.Index, env.Len())
		}
		switch e.Binder.Kind {
		case term.Let, term.NLet:
			return e.Binder.Val, nil
		}
		return st.Eval(env, ctxt, term.NewBound(e.Name))

	case term.TBind:
		return st.evalBind(env, ctxt, tm)

	case term.TApp:
		head, args := term.UnApply(tm)
		f, err := st.Eval(env, ctxt, head)
		if err != nil {
			return nil, err
		}
		return st.applyTerms(env, ctxt, f, args)

	case term.TConstant:
		return NewConst(tm.Const), nil

	case term.TErased:
		return Erased, nil

	case term.TType:
		return NewType(tm.Level), nil

	case term.TUType:
		return UType, nil

	case term.TProj:
		head, args := term.UnApply(tm.Fun)
		all := append([]*term.Term{head}, args...)
		if tm.Index < 0 || tm.Index >= len(all) {
			return nil, fmt.Errorf("%w: projection %d of %s", ErrIndexOutOfRange, tm.Index, tm.Fun)
		}
		return st.Eval(env, ctxt, all[tm.Index])

	case term.TImpossible:
		return nil, ErrImpossible
	}

	return nil, fmt.Errorf("%w: unknown term tag %d", ErrInvariant, tm.Tag)
}

func (st *State) evalGlobal(ctxt defs.Context, name string) (*Value, error) {
	ds := ctxt.Lookup(name)
	if len(ds) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}

	d := ds[0]
	switch d.Kind {
	case defs.Function:
		return st.Eval(nil, ctxt, d.Body)
	case defs.CaseOp:
		if len(d.Params) == 0 && d.Tree != nil && d.Tree.Kind == defs.STerm {
			return st.Eval(nil, ctxt, d.Tree.Term)
		}
	}
	// declarations, operators and case functions waiting for arguments
	return NewGlobalRef(name), nil
}

func (st *State) evalBind(env *Env, ctxt defs.Context, tm *term.Term) (*Value, error) {
	switch tm.Binder.Kind {
	case term.Let:
		v, err := st.Eval(env, ctxt, tm.Binder.Val)
		if err != nil {
			return nil, err
		}
		return st.Eval(env.ExtendLet(tm.Name, v), ctxt, tm.Body)
	case term.NLet:
		return nil, fmt.Errorf("%w: %s", ErrLazyLet, tm.Name)
	}

	b := &ValBinder{Kind: tm.Binder.Kind}
	var err error
	if b.Ty, err = st.Eval(env, ctxt, tm.Binder.Ty); err != nil {
		return nil, err
	}
	if tm.Binder.Val != nil {
		if b.Val, err = st.Eval(env, ctxt, tm.Binder.Val); err != nil {
			return nil, err
		}
	}

	name, body := tm.Name, tm.Body
	return NewBind(name, b, func(arg *Value) (*Value, error) {
		return st.Eval(env.ExtendLet(name, arg), ctxt, body)
	}), nil
}
