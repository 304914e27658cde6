package eval

import "ttexec/pkg/term"

// Env is an immutable stack of bindings. The nil *Env is the empty
// environment; index 0 is the innermost binding.
type Env struct {
	Name   string
	Binder *ValBinder
	next   *Env
	depth  int
}

// Extend pushes a new innermost binding
func (e *Env) Extend(name string, b *ValBinder) *Env {
	return &Env{Name: name, Binder: b, next: e, depth: e.Len() + 1}
}

// ExtendLet pushes a let binding of name to v
func (e *Env) ExtendLet(name string, v *Value) *Env {
	return e.Extend(name, letBinder(v))
}

// Len returns the number of bindings
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return e.depth
}

// At returns the binding at de Bruijn index i
func (e *Env) At(i int) (*Env, bool) {
	if i < 0 || i >= e.Len() {
		return nil, false
	}
	for ; i > 0; i-- {
		e = e.next
	}
	return e, true
}

// Lookup finds the innermost binding of name
func (e *Env) Lookup(name string) (*ValBinder, bool) {
	for ; e != nil; e = e.next {
		if e.Name == name {
			return e.Binder, true
		}
	}
	return nil, false
}

func letBinder(v *Value) *ValBinder {
	return &ValBinder{Kind: term.Let, Ty: Erased, Val: v}
}
