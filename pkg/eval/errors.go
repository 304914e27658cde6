package eval

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error that means the evaluated program
// was not produced correctly upstream.
var ErrInvariant = errors.New("invariant violation")

var (
	ErrMissingThunk    = invariant("missing thunk")
	ErrThunkLoop       = invariant("thunk forced while it is being forced")
	ErrIndexOutOfRange = invariant("index out of range")
	ErrUnbound         = invariant("unbound name")
	ErrNotLetBound     = invariant("name is not let bound")
	ErrImpossible      = invariant("reached an impossible case")
	ErrNotHandle       = invariant("not a handle")
	ErrLazyLet         = invariant("lazy let is not implemented")
)

var (
	ErrUndefined     = errors.New("could not find definition")
	ErrInvalidMode   = errors.New("invalid file mode")
	ErrInvalidHandle = errors.New("invalid handle")
)

func invariant(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvariant, msg)
}

// IsInvariant reports whether err comes from a broken upstream invariant
// rather than from the program's own behavior.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}
