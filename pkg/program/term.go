package program

import (
	"fmt"

	"ttexec/pkg/term"
)

// Term is the JSON form of a term. T selects the shape:
//
//	ref bound dcon tcon   name (tag, arity for constructors)
//	v                     index
//	lam pi let nlet hole guess pvar pvty
//	                      name, ty, val (let, nlet, guess), body
//	app                   fun, args
//	int float char str tyname
//	                      the literal in int, float or str
//	type                  level
//	proj                  fun, index
//	utype erased impossible
type Term struct {
	T     string  `json:"t"`
	Name  string  `json:"name,omitempty"`
	Tag   int     `json:"tag,omitempty"`
	Arity int     `json:"arity,omitempty"`
	Index int     `json:"index,omitempty"`
	Level int     `json:"level,omitempty"`
	Ty    *Term   `json:"ty,omitempty"`
	Val   *Term   `json:"val,omitempty"`
	Body  *Term   `json:"body,omitempty"`
	Fun   *Term   `json:"fun,omitempty"`
	Args  []*Term `json:"args,omitempty"`
	Int   int64   `json:"int,omitempty"`
	Float float64 `json:"float,omitempty"`
	Str   string  `json:"str,omitempty"`
}

var nameKinds = map[string]term.NameKind{
	"ref":   term.Ref,
	"bound": term.Bound,
	"dcon":  term.DCon,
	"tcon":  term.TCon,
}

var binderKinds = map[string]term.BinderKind{
	"lam":   term.Lam,
	"pi":    term.Pi,
	"let":   term.Let,
	"nlet":  term.NLet,
	"hole":  term.Hole,
	"guess": term.Guess,
	"pvar":  term.PVar,
	"pvty":  term.PVTy,
}

// ToTerm decodes j. A nil j is the erased term.
func (j *Term) ToTerm() (*term.Term, error) {
	if j == nil {
		return term.Erased, nil
	}
	if k, ok := nameKinds[j.T]; ok {
		return term.NewP(term.NameType{Kind: k, Tag: j.Tag, Arity: j.Arity}, j.Name, term.Erased), nil
	}
	if k, ok := binderKinds[j.T]; ok {
		return j.bindToTerm(k)
	}

	switch j.T {
	case "v":
		return term.NewV(j.Index), nil
	case "app":
		f, err := j.Fun.ToTerm()
		if err != nil {
			return nil, err
		}
		args, err := toTerms(j.Args)
		if err != nil {
			return nil, err
		}
		return term.MkApp(f, args...), nil
	case "int":
		return term.NewConstant(term.IntConst(j.Int)), nil
	case "float":
		return term.NewConstant(term.FloatConst(j.Float)), nil
	case "char":
		r := []rune(j.Str)
		if len(r) != 1 {
			return nil, fmt.Errorf("%w: char literal %q", ErrBadImage, j.Str)
		}
		return term.NewConstant(term.CharConst(r[0])), nil
	case "str":
		return term.NewConstant(term.StrConst(j.Str)), nil
	case "tyname":
		return term.NewConstant(term.TypeConst(j.Str)), nil
	case "type":
		return term.NewType(j.Level), nil
	case "proj":
		target, err := j.Fun.ToTerm()
		if err != nil {
			return nil, err
		}
		return term.NewProj(target, j.Index), nil
	case "utype":
		return term.UType, nil
	case "erased":
		return term.Erased, nil
	case "impossible":
		return term.Impossible, nil
	}
	return nil, fmt.Errorf("%w: unknown term shape %q", ErrBadImage, j.T)
}

func (j *Term) bindToTerm(k term.BinderKind) (*term.Term, error) {
	ty, err := j.Ty.ToTerm()
	if err != nil {
		return nil, err
	}
	b := &term.Binder{Kind: k, Ty: ty}
	if k.HasValue() {
		if j.Val == nil {
			return nil, fmt.Errorf("%w: %s %s has no value", ErrBadImage, j.T, j.Name)
		}
		if b.Val, err = j.Val.ToTerm(); err != nil {
			return nil, err
		}
	}
	body, err := j.Body.ToTerm()
	if err != nil {
		return nil, err
	}
	return term.NewBind(j.Name, b, body), nil
}

func toTerms(js []*Term) ([]*term.Term, error) {
	out := make([]*term.Term, len(js))
	for i, j := range js {
		t, err := j.ToTerm()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// FromTerm encodes t
func FromTerm(t *term.Term) *Term {
	switch t.Tag {
	case term.TP:
		for name, k := range nameKinds {
			if k == t.NameType.Kind {
				return &Term{T: name, Name: t.Name, Tag: t.NameType.Tag, Arity: t.NameType.Arity}
			}
		}
	case term.TV:
		return &Term{T: "v", Index: t.Index}
	case term.TBind:
		j := &Term{T: term.BinderName(t.Binder.Kind), Name: t.Name, Body: FromTerm(t.Body)}
		if t.Binder.Ty != nil {
			j.Ty = FromTerm(t.Binder.Ty)
		}
		if t.Binder.Val != nil {
			j.Val = FromTerm(t.Binder.Val)
		}
		return j
	case term.TApp:
		head, args := term.UnApply(t)
		j := &Term{T: "app", Fun: FromTerm(head), Args: make([]*Term, len(args))}
		for i, a := range args {
			j.Args[i] = FromTerm(a)
		}
		return j
	case term.TConstant:
		return fromConst(t.Const)
	case term.TType:
		return &Term{T: "type", Level: t.Level}
	case term.TUType:
		return &Term{T: "utype"}
	case term.TProj:
		return &Term{T: "proj", Fun: FromTerm(t.Fun), Index: t.Index}
	case term.TImpossible:
		return &Term{T: "impossible"}
	}
	return &Term{T: "erased"}
}

func fromConst(c term.Const) *Term {
	switch c.Kind {
	case term.CInt:
		return &Term{T: "int", Int: c.Int}
	case term.CFloat:
		return &Term{T: "float", Float: c.Float}
	case term.CChar:
		return &Term{T: "char", Str: string(c.Char)}
	case term.CStr:
		return &Term{T: "str", Str: c.Str}
	default:
		return &Term{T: "tyname", Str: c.Str}
	}
}
