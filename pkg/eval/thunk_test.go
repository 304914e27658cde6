package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttexec/pkg/term"
)

func TestForceMemoizes(t *testing.T) {
	st := NewState()
	key := st.Delay(nil, prelude(), call("prim__addInt", term.NewInt(1), term.NewInt(2)))

	v1, err := st.Force(key)
	require.NoError(t, err)
	v2, err := st.Force(key)
	require.NoError(t, err)

	assert.Same(t, v1, v2)
	assert.Equal(t, int64(3), v1.Const.Int)

	allocated, forced := st.Stats()
	assert.Equal(t, 1, allocated)
	assert.Equal(t, 1, forced)
}

func TestForceIsTransitive(t *testing.T) {
	st := NewState()
	inner := st.Delay(nil, prelude(), term.NewInt(3))
	env := (*Env)(nil).ExtendLet("x", NewThunk(inner))
	outer := st.Delay(env, prelude(), term.NewBound("x"))

	v, err := st.Force(outer)
	require.NoError(t, err)
	assert.True(t, IsConst(v, term.CInt))
	assert.False(t, IsThunk(st.thunks[outer].val))
	assert.Equal(t, thunkDone, st.thunks[inner].state)
}

func TestForceErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := NewState().Force(42)
		assert.ErrorIs(t, err, ErrMissingThunk)
		assert.True(t, IsInvariant(err))
	})

	t.Run("loop", func(t *testing.T) {
		st := NewState()
		env := (*Env)(nil).ExtendLet("x", NewThunk(0))
		key := st.Delay(env, prelude(), term.NewBound("x"))
		require.Equal(t, 0, key)

		_, err := st.Force(key)
		assert.ErrorIs(t, err, ErrThunkLoop)
	})

	t.Run("failed force can be retried", func(t *testing.T) {
		st := NewState()
		key := st.Delay(nil, prelude(), term.Impossible)

		_, err := st.Force(key)
		assert.ErrorIs(t, err, ErrImpossible)
		_, err = st.Force(key)
		assert.ErrorIs(t, err, ErrImpossible)
	})
}

func TestTryForce(t *testing.T) {
	st := NewState()
	v := NewInt(1)

	got, err := st.TryForce(v)
	require.NoError(t, err)
	assert.Same(t, v, got)

	key := st.Delay(nil, prelude(), term.NewStr("x"))
	got, err = st.TryForce(NewThunk(key))
	require.NoError(t, err)
	assert.Equal(t, "x", got.Const.Str)
}

func TestKeysAreNotReused(t *testing.T) {
	st := NewState()
	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		key := st.Delay(nil, prelude(), term.NewInt(int64(i)))
		assert.False(t, seen[key])
		seen[key] = true
		_, err := st.Force(key)
		require.NoError(t, err)
	}
}
