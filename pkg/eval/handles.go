package eval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// handle is an open file plus the reader every read goes through
type handle struct {
	f    *os.File
	r    *bufio.Reader
	path string
}

var fileModes = map[string]int{
	"r":  os.O_RDONLY,
	"w":  os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"a":  os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	"rw": os.O_RDWR | os.O_CREATE,
	"wr": os.O_RDWR | os.O_CREATE,
	"r+": os.O_RDWR,
}

// openFile opens path with a mode string. An unknown mode is an error; a
// failure of the open itself is reported as ok == false.
func (st *State) openFile(path, mode string) (*Value, bool, error) {
	flag, known := fileModes[mode]
	if !known {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		st.log.Debug().Err(err).Str("path", path).Str("mode", mode).Msg("open failed")
		return nil, false, nil
	}
	return st.openHandle(f), true, nil
}

func (st *State) openHandle(f *os.File) *Value {
	key := st.nextHandle
	st.nextHandle++
	st.handles[key] = &handle{f: f, r: bufio.NewReader(f), path: f.Name()}
	st.log.Debug().Int("handle", key).Str("path", f.Name()).Msg("open")
	return NewHandle(key)
}

func (st *State) handle(v *Value) (*handle, error) {
	if v.Tag != VHandle {
		return nil, fmt.Errorf("%w: %s", ErrNotHandle, v)
	}
	h, ok := st.handles[v.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, v.Key)
	}
	return h, nil
}

func (st *State) closeHandle(v *Value) error {
	h, err := st.handle(v)
	if err != nil {
		return err
	}
	delete(st.handles, v.Key)
	st.log.Debug().Int("handle", v.Key).Str("path", h.path).Msg("close")
	return h.f.Close()
}

func (st *State) atEOF(v *Value) (bool, error) {
	h, err := st.handle(v)
	if err != nil {
		return false, err
	}
	_, err = h.r.Peek(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		// write-only handles never report EOF
		st.log.Debug().Err(err).Int("handle", v.Key).Msg("eof check")
	}
	return false, nil
}
