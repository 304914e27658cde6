package eval

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ttexec/pkg/defs"
	"ttexec/pkg/ffi"
)

// State is everything one evaluation owns: the thunk and handle tables,
// their key counters, and the ambient program state copied in when the
// evaluation starts. A State must not be shared between evaluations.
type State struct {
	thunks    map[int]*thunk
	nextThunk int
	forced    int

	handles    map[int]*handle
	nextHandle int

	fresh int

	laziness *defs.Laziness
	libs     []ffi.Library
	invoker  ffi.Invoker

	stdout io.Writer
	stdin  *bufio.Reader

	session uuid.UUID
	log     zerolog.Logger
}

// Option configures a State
type Option func(*State)

// WithLogger sets the logger; evaluation events are logged at debug level
func WithLogger(l zerolog.Logger) Option {
	return func(st *State) { st.log = l }
}

// WithStdout redirects the output of putStr
func WithStdout(w io.Writer) Option {
	return func(st *State) { st.stdout = w }
}

// WithStdin sets where prim__readString reads from
func WithStdin(r io.Reader) Option {
	return func(st *State) { st.stdin = bufio.NewReader(r) }
}

// WithLaziness sets the laziness annotations; the table is copied
func WithLaziness(l *defs.Laziness) Option {
	return func(st *State) { st.laziness = l.Clone() }
}

// WithLibraries sets the libraries foreign symbols are resolved in
func WithLibraries(libs ...ffi.Library) Option {
	return func(st *State) { st.libs = append([]ffi.Library(nil), libs...) }
}

// WithInvoker sets the backend performing native calls
func WithInvoker(inv ffi.Invoker) Option {
	return func(st *State) { st.invoker = inv }
}

// NewState creates a fresh evaluation state
func NewState(opts ...Option) *State {
	st := &State{
		thunks:   make(map[int]*thunk),
		handles:  make(map[int]*handle),
		laziness: defs.NewLaziness(),
		invoker:  ffi.Unsupported{},
		stdout:   os.Stdout,
		stdin:    bufio.NewReader(os.Stdin),
		session:  uuid.New(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(st)
	}
	st.log = st.log.With().Str("src", "eval").Str("session", st.session.String()).Logger()
	return st
}

// Session identifies this evaluation in logs
func (st *State) Session() uuid.UUID {
	return st.session
}

// Stats reports how many thunks were allocated and how many were forced
func (st *State) Stats() (allocated, forced int) {
	return st.nextThunk, st.forced
}

// Close releases every handle that is still open
func (st *State) Close() error {
	var errs []error
	for key, h := range st.handles {
		if err := h.f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(st.handles, key)
	}
	return errors.Join(errs...)
}

func (st *State) freshName(hint string) string {
	st.fresh++
	return hint + "{" + strconv.Itoa(st.fresh) + "}"
}
