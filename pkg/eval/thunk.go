package eval

import (
	"fmt"

	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

type thunkState int

const (
	thunkPending thunkState = iota
	thunkForcing
	thunkDone
)

// thunk is a delayed evaluation of tm under env, or its memoized result
type thunk struct {
	state thunkState
	env   *Env
	ctxt  defs.Context
	tm    *term.Term
	val   *Value
}

// Delay stores tm for later evaluation and returns its key
func (st *State) Delay(env *Env, ctxt defs.Context, tm *term.Term) int {
	key := st.nextThunk
	st.nextThunk++
	st.thunks[key] = &thunk{env: env, ctxt: ctxt, tm: tm}
	st.log.Debug().Int("thunk", key).Msg("delay")
	return key
}

// Force evaluates the thunk at key once and memoizes the result. A result
// that is itself a thunk is forced too, and the final value is stored
// under key.
func (st *State) Force(key int) (*Value, error) {
	th, ok := st.thunks[key]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrMissingThunk, key)
	}
	switch th.state {
	case thunkDone:
		return th.val, nil
	case thunkForcing:
		return nil, fmt.Errorf("%w: %d", ErrThunkLoop, key)
	}

	th.state = thunkForcing
	v, err := st.Eval(th.env, th.ctxt, th.tm)
	if err == nil && v.Tag == VThunk {
		v, err = st.Force(v.Key)
	}
	if err != nil {
		th.state = thunkPending
		return nil, err
	}

	th.state = thunkDone
	th.val = v
	th.env, th.ctxt, th.tm = nil, nil, nil
	st.forced++
	st.log.Debug().Int("thunk", key).Stringer("value", v).Msg("force")
	return v, nil
}

// TryForce forces v if it is a thunk reference and returns it unchanged
// otherwise.
func (st *State) TryForce(v *Value) (*Value, error) {
	if v.Tag != VThunk {
		return v, nil
	}
	return st.Force(v.Key)
}
