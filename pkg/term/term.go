// Package term is the elaborated program representation handed to the
// evaluator. Terms are produced upstream and are treated as read-only.
package term

// Tag represents the shape of a Term
type Tag int

const (
	TP          Tag = iota // free reference, see NameType
	TV                     // de Bruijn index
	TBind                  // binder with a body
	TApp                   // binary application
	TConstant              // literal constant
	TType                  // universe literal
	TUType                 // uniqueness universe
	TErased                // erased placeholder
	TProj                  // projection from a tuple by index
	TImpossible            // unreachable case-tree leaf
)

// NameKind says what a free reference points at
type NameKind int

const (
	Bound NameKind = iota
	Ref
	DCon
	TCon
)

// NameType tags a free reference. Tag and Arity are only meaningful for
// data and type constructors.
type NameType struct {
	Kind  NameKind
	Tag   int
	Arity int
}

// BinderKind is the kind of a Bind node
type BinderKind int

const (
	Lam BinderKind = iota
	Pi
	Let
	NLet // lazy let
	Hole
	Guess
	PVar
	PVTy
)

// Binder holds the type of the bound name and, for Let, NLet and Guess,
// its value.
type Binder struct {
	Kind BinderKind
	Ty   *Term
	Val  *Term
}

// HasValue reports whether the binder kind carries a value.
func (k BinderKind) HasValue() bool {
	return k == Let || k == NLet || k == Guess
}

// Term is the tagged union of all term shapes
type Term struct {
	Tag Tag

	// TP
	NameType NameType
	Name     string // also the bound name for TBind
	Ty       *Term

	// TV, TProj
	Index int

	// TBind
	Binder *Binder
	Body   *Term

	// TApp; Fun is also the projection target for TProj
	Fun *Term
	Arg *Term

	// TConstant
	Const Const

	// TType
	Level int
}

// Erased is the shared erased placeholder
var Erased = &Term{Tag: TErased}

// Impossible marks a case that the elaborator proved unreachable
var Impossible = &Term{Tag: TImpossible}

// UType is the uniqueness universe literal
var UType = &Term{Tag: TUType}

// NewP creates a free reference
func NewP(nt NameType, name string, ty *Term) *Term {
	if ty == nil {
		ty = Erased
	}
	return &Term{Tag: TP, NameType: nt, Name: name, Ty: ty}
}

// NewRef creates a reference to a global definition
func NewRef(name string) *Term {
	return NewP(NameType{Kind: Ref}, name, Erased)
}

// NewBound creates a reference to a locally bound name
func NewBound(name string) *Term {
	return NewP(NameType{Kind: Bound}, name, Erased)
}

// NewDCon creates a data constructor reference
func NewDCon(name string, tag, arity int) *Term {
	return NewP(NameType{Kind: DCon, Tag: tag, Arity: arity}, name, Erased)
}

// NewTCon creates a type constructor reference
func NewTCon(name string, tag, arity int) *Term {
	return NewP(NameType{Kind: TCon, Tag: tag, Arity: arity}, name, Erased)
}

// NewV creates a de Bruijn index
func NewV(i int) *Term {
	return &Term{Tag: TV, Index: i}
}

// NewBind creates a binder node
func NewBind(name string, b *Binder, body *Term) *Term {
	return &Term{Tag: TBind, Name: name, Binder: b, Body: body}
}

// NewLam creates a lambda
func NewLam(name string, ty, body *Term) *Term {
	return NewBind(name, &Binder{Kind: Lam, Ty: ty}, body)
}

// NewPi creates a function type
func NewPi(name string, ty, body *Term) *Term {
	return NewBind(name, &Binder{Kind: Pi, Ty: ty}, body)
}

// NewLet creates a plain let
func NewLet(name string, ty, val, body *Term) *Term {
	return NewBind(name, &Binder{Kind: Let, Ty: ty, Val: val}, body)
}

// NewNLet creates a lazy let
func NewNLet(name string, ty, val, body *Term) *Term {
	return NewBind(name, &Binder{Kind: NLet, Ty: ty, Val: val}, body)
}

// NewApp creates a single application node
func NewApp(f, a *Term) *Term {
	return &Term{Tag: TApp, Fun: f, Arg: a}
}

// MkApp applies f to args left to right
func MkApp(f *Term, args ...*Term) *Term {
	for _, a := range args {
		f = NewApp(f, a)
	}
	return f
}

// UnApply splits nested applications into a head and its arguments
func UnApply(t *Term) (*Term, []*Term) {
	var rev []*Term
	for t.Tag == TApp {
		rev = append(rev, t.Arg)
		t = t.Fun
	}
	args := make([]*Term, len(rev))
	for i := range rev {
		args[i] = rev[len(rev)-1-i]
	}
	return t, args
}

// NewConstant creates a constant literal
func NewConstant(c Const) *Term {
	return &Term{Tag: TConstant, Const: c}
}

// NewInt creates an integer constant
func NewInt(i int64) *Term {
	return NewConstant(IntConst(i))
}

// NewStr creates a string constant
func NewStr(s string) *Term {
	return NewConstant(StrConst(s))
}

// NewType creates a universe literal
func NewType(level int) *Term {
	return &Term{Tag: TType, Level: level}
}

// NewProj creates a projection of the index-th element of target
func NewProj(target *Term, index int) *Term {
	return &Term{Tag: TProj, Fun: target, Index: index}
}

// IsApp checks if a term is an application
func IsApp(t *Term) bool {
	return t != nil && t.Tag == TApp
}

// IsErased checks if a term is the erased placeholder
func IsErased(t *Term) bool {
	return t != nil && t.Tag == TErased
}

// IsRef checks if a term is a free reference with the given name
func IsRef(t *Term, name string) bool {
	return t != nil && t.Tag == TP && t.Name == name
}
