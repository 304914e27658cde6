// Package program reads program images: a JSON document holding the root
// term, the global definitions with their compiled case trees, and the
// laziness annotations.
package program

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"ttexec/pkg/defs"
	"ttexec/pkg/term"
)

var ErrBadImage = errors.New("malformed program image")

// Image is the JSON layout of a program
type Image struct {
	Main     *Term             `json:"main"`
	Defs     map[string]Def    `json:"defs,omitempty"`
	Laziness map[string][]bool `json:"laziness,omitempty"`
}

// Def is the JSON form of a global definition. Kind is one of function,
// decl, operator or case.
type Def struct {
	Kind   string   `json:"kind"`
	Body   *Term    `json:"body,omitempty"`
	Arity  int      `json:"arity,omitempty"`
	Params []string `json:"params,omitempty"`
	Tree   *Tree    `json:"tree,omitempty"`
}

// Tree is the JSON form of a case tree. T is one of case, term, unmatched
// or impossible.
type Tree struct {
	T         string `json:"t"`
	Scrutinee string `json:"on,omitempty"`
	Alts      []Alt  `json:"alts,omitempty"`
	Term      *Term  `json:"term,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Alt is one alternative of a case node: a constructor pattern when Con is
// set, a constant pattern when Const is set, the default otherwise.
type Alt struct {
	Con   string   `json:"con,omitempty"`
	Tag   int      `json:"tag,omitempty"`
	Args  []string `json:"args,omitempty"`
	Const *Term    `json:"const,omitempty"`
	Tree  *Tree    `json:"tree"`
}

// Program is a decoded image, ready to be executed
type Program struct {
	Main     *term.Term
	Defs     *defs.Table
	Laziness *defs.Laziness
}

// Load reads the program image at path
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a program image from r
func Decode(r io.Reader) (*Program, error) {
	var img Image
	if err := json.NewDecoder(r).Decode(&img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return img.Program()
}

// Program converts the image to its in-memory form
func (img *Image) Program() (*Program, error) {
	if img.Main == nil {
		return nil, fmt.Errorf("%w: no main term", ErrBadImage)
	}
	main, err := img.Main.ToTerm()
	if err != nil {
		return nil, err
	}

	tbl := defs.NewTable()
	names := make([]string, 0, len(img.Defs))
	for name := range img.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d, err := img.Defs[name].toDef()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tbl.Add(name, d)
	}

	lz := defs.NewLaziness()
	for name, flags := range img.Laziness {
		lz.Set(name, flags)
	}

	return &Program{Main: main, Defs: tbl, Laziness: lz}, nil
}

func (d Def) toDef() (defs.Def, error) {
	switch d.Kind {
	case "function":
		body, err := d.Body.ToTerm()
		if err != nil {
			return defs.Def{}, err
		}
		return defs.Def{Kind: defs.Function, Body: body}, nil
	case "decl":
		return defs.Def{Kind: defs.TyDecl}, nil
	case "operator":
		return defs.Def{Kind: defs.Operator, Arity: d.Arity}, nil
	case "case":
		if d.Tree == nil {
			return defs.Def{}, fmt.Errorf("%w: case function without a tree", ErrBadImage)
		}
		tree, err := d.Tree.toSC()
		if err != nil {
			return defs.Def{}, err
		}
		return defs.Def{Kind: defs.CaseOp, Params: d.Params, Tree: tree}, nil
	}
	return defs.Def{}, fmt.Errorf("%w: unknown definition kind %q", ErrBadImage, d.Kind)
}

func (t *Tree) toSC() (*defs.SC, error) {
	switch t.T {
	case "term":
		tm, err := t.Term.ToTerm()
		if err != nil {
			return nil, err
		}
		return defs.NewSTerm(tm), nil
	case "unmatched":
		return defs.NewUnmatched(t.Reason), nil
	case "impossible":
		return defs.NewImpossibleCase(), nil
	case "case":
		alts := make([]defs.Alt, len(t.Alts))
		for i, a := range t.Alts {
			alt, err := a.toAlt()
			if err != nil {
				return nil, err
			}
			alts[i] = alt
		}
		return defs.NewCase(t.Scrutinee, alts...), nil
	}
	return nil, fmt.Errorf("%w: unknown case tree %q", ErrBadImage, t.T)
}

func (a Alt) toAlt() (defs.Alt, error) {
	if a.Tree == nil {
		return defs.Alt{}, fmt.Errorf("%w: alternative without a tree", ErrBadImage)
	}
	sc, err := a.Tree.toSC()
	if err != nil {
		return defs.Alt{}, err
	}

	switch {
	case a.Con != "":
		return defs.NewConCase(a.Con, a.Tag, a.Args, sc), nil
	case a.Const != nil:
		c, err := a.Const.ToTerm()
		if err != nil {
			return defs.Alt{}, err
		}
		if c.Tag != term.TConstant {
			return defs.Alt{}, fmt.Errorf("%w: constant pattern %s", ErrBadImage, c)
		}
		return defs.NewConstCase(c.Const, sc), nil
	}
	return defs.NewDefaultCase(sc), nil
}

// EncodeTerm writes t as JSON
func EncodeTerm(w io.Writer, t *term.Term) error {
	return json.NewEncoder(w).Encode(FromTerm(t))
}
