package defs

import (
	"github.com/bits-and-blooms/bitset"
)

// Laziness records, per name, which argument positions are evaluated
// lazily. Positions that were never declared are eager.
type Laziness struct {
	flags map[string]*bitset.BitSet
}

// NewLaziness creates an empty laziness table
func NewLaziness() *Laziness {
	return &Laziness{flags: make(map[string]*bitset.BitSet)}
}

// Set records the per-position laziness flags of name
func (l *Laziness) Set(name string, lazy []bool) *Laziness {
	bs := bitset.New(uint(len(lazy)))
	for i, b := range lazy {
		if b {
			bs.Set(uint(i))
		}
	}
	l.flags[name] = bs
	return l
}

// Known reports whether name has an entry
func (l *Laziness) Known(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.flags[name]
	return ok
}

// IsLazy reports whether argument position i of name is lazy
func (l *Laziness) IsLazy(name string, i int) bool {
	if l == nil {
		return false
	}
	bs, ok := l.flags[name]
	if !ok {
		return false
	}
	return bs.Test(uint(i))
}

// Flags returns the flags of name padded with eager positions to n
func (l *Laziness) Flags(name string, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = l.IsLazy(name, i)
	}
	return out
}

// Clone returns a copy that can be changed independently
func (l *Laziness) Clone() *Laziness {
	c := NewLaziness()
	if l == nil {
		return c
	}
	for name, bs := range l.flags {
		c.flags[name] = bs.Clone()
	}
	return c
}
