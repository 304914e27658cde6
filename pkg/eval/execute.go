package eval

import (
	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

// Execute evaluates tm with a fresh State and returns the result as a term.
// Handles opened during the evaluation are closed before it returns.
func Execute(ctxt defs.Context, tm *term.Term, opts ...Option) (*term.Term, error) {
	st := NewState(opts...)
	defer func() {
		if err := st.Close(); err != nil {
			st.log.Warn().Err(err).Msg("closing handles")
		}
	}()

	st.log.Debug().Stringer("term", tm).Msg("execute")

	v, err := st.Eval(nil, ctxt, tm)
	if err == nil {
		v, err = st.TryForce(v)
	}
	if err != nil {
		st.log.Debug().Err(err).Bool("invariant", IsInvariant(err)).Msg("execution failed")
		return nil, err
	}

	res, err := st.ValueToTerm(v)
	if err != nil {
		return nil, err
	}
	allocated, forced := st.Stats()
	st.log.Debug().Int("thunks", allocated).Int("forced", forced).Msg("executed")
	return res, nil
}
