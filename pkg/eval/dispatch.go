package eval

import (
	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

// argLaziness returns, for each of n arguments applied to f, whether it
// should be delayed rather than evaluated.
func (st *State) argLaziness(f *Value, n int) []bool {
	if f.Tag != VRef {
		return make([]bool, n)
	}
	if f.Name == NameLazy {
		flags := make([]bool, n)
		if n > 0 {
			flags[0] = true
		}
		return flags
	}
	return st.laziness.Flags(f.Name, n)
}

// applyTerms evaluates or delays each argument and applies f to them
func (st *State) applyTerms(env *Env, ctxt defs.Context, f *Value, args []*term.Term) (*Value, error) {
	lazy := st.argLaziness(f, len(args))
	vals := make([]*Value, len(args))
	for i, a := range args {
		if lazy[i] {
			vals[i] = NewThunk(st.Delay(env, ctxt, a))
			continue
		}
		v, err := st.Eval(env, ctxt, a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return st.Apply(ctxt, f, vals)
}

// Apply applies f to already evaluated or delayed arguments. Whatever
// cannot be reduced is returned as a stuck application.
func (st *State) Apply(ctxt defs.Context, f *Value, args []*Value) (*Value, error) {
	if len(args) == 0 {
		return f, nil
	}

	switch f.Tag {
	case VThunk:
		v, err := st.Force(f.Key)
		if err != nil {
			return nil, err
		}
		return st.Apply(ctxt, v, args)

	case VApp:
		head, prev := UnApply(f)
		return st.Apply(ctxt, head, append(prev, args...))

	case VBind:
		res, err := f.Body(args[0])
		if err != nil {
			return nil, err
		}
		return st.Apply(ctxt, res, args[1:])

	case VRef:
		return st.applyRef(ctxt, f, args)
	}

	return MkApp(f, args...), nil
}

func (st *State) applyRef(ctxt defs.Context, f *Value, args []*Value) (*Value, error) {
	if f.NameType.Kind == term.Bound {
		return MkApp(f, args...), nil
	}

	switch f.Name {
	case NameRunIO:
		return st.applyRunIO(ctxt, f, args)
	case NameForeign:
		return st.applyForeign(ctxt, f, args)
	}

	if f.NameType.Kind != term.Ref {
		return MkApp(f, args...), nil
	}

	ds := ctxt.Lookup(f.Name)
	if len(ds) == 0 {
		return MkApp(f, args...), nil
	}

	d := ds[0]
	switch d.Kind {
	case defs.Operator:
		if len(args) < d.Arity {
			return MkApp(f, args...), nil
		}
		opArgs := make([]*Value, d.Arity)
		for i := range opArgs {
			v, err := st.TryForce(args[i])
			if err != nil {
				return nil, err
			}
			opArgs[i] = v
		}
		res, ok, err := st.primitive(f.Name, opArgs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return MkApp(f, args...), nil
		}
		return st.Apply(ctxt, res, args[d.Arity:])

	case defs.CaseOp:
		if len(d.Params) == 0 {
			if d.Tree == nil || d.Tree.Kind != defs.STerm {
				return MkApp(f, args...), nil
			}
			rhs, err := st.Eval(nil, ctxt, d.Tree.Term)
			if err != nil {
				return nil, err
			}
			return st.Apply(ctxt, rhs, args)
		}
		res, ok, err := st.ExecCase(ctxt, d.Params, d.Tree, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			st.log.Debug().Str("fn", f.Name).Int("args", len(args)).Msg("case function stuck")
			return MkApp(f, args...), nil
		}
		return res, nil
	}

	return MkApp(f, args...), nil
}

// applyRunIO runs an IO action in place: the payload of the envelope
// becomes the head for the remaining arguments.
func (st *State) applyRunIO(ctxt defs.Context, f *Value, args []*Value) (*Value, error) {
	if len(args) < 2 {
		return MkApp(f, args...), nil
	}
	action, err := st.TryForce(args[1])
	if err != nil {
		return nil, err
	}
	payload, ok := UnwrapIO(action)
	if !ok {
		return MkApp(f, args...), nil
	}
	return st.Apply(ctxt, payload, args[2:])
}
