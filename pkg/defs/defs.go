// Package defs holds the global definition table consumed by the evaluator:
// plain functions, abstract declarations, primitive operators and compiled
// case functions.
package defs

import (
	"ttexec/pkg/term"
)

// Kind is the kind of a global definition
type Kind int

const (
	Function Kind = iota // plain function with a body term
	TyDecl               // abstract declaration, never unfolded
	Operator             // primitive operator resolved by the evaluator
	CaseOp               // compiled case function
)

// Def is one entry of the definition table
type Def struct {
	Kind Kind

	// Function
	Body *term.Term

	// Operator
	Arity int

	// CaseOp
	Params []string
	Tree   *SC
}

// Context is the lookup interface the evaluator needs from the global
// definition table. Implementations return at most one meaningful entry
// per name.
type Context interface {
	Lookup(name string) []Def
}

// Table is a map-backed Context
type Table struct {
	defs map[string][]Def
}

// NewTable creates an empty definition table
func NewTable() *Table {
	return &Table{defs: make(map[string][]Def)}
}

// Lookup returns the definitions registered under name
func (t *Table) Lookup(name string) []Def {
	return t.defs[name]
}

// Add registers a definition under name
func (t *Table) Add(name string, d Def) *Table {
	t.defs[name] = append(t.defs[name], d)
	return t
}

// AddFunction registers a plain function
func (t *Table) AddFunction(name string, body *term.Term) *Table {
	return t.Add(name, Def{Kind: Function, Body: body})
}

// AddTyDecl registers an abstract declaration
func (t *Table) AddTyDecl(name string) *Table {
	return t.Add(name, Def{Kind: TyDecl})
}

// AddOperator registers a primitive operator of the given arity
func (t *Table) AddOperator(name string, arity int) *Table {
	return t.Add(name, Def{Kind: Operator, Arity: arity})
}

// AddCaseOp registers a compiled case function
func (t *Table) AddCaseOp(name string, params []string, tree *SC) *Table {
	return t.Add(name, Def{Kind: CaseOp, Params: params, Tree: tree})
}

// Len returns the number of defined names
func (t *Table) Len() int {
	return len(t.defs)
}
