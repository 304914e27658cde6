package eval

import (
	"fmt"
	"strings"

	"ttexec/pkg/term"
)

// VTag represents the shape of a Value
type VTag int

const (
	VRef    VTag = iota // opaque reference: constructor, stuck global or bound placeholder
	VBind               // binder whose body is a closure
	VApp                // application that could not be reduced
	VType               // universe literal
	VUType              // uniqueness universe
	VErased             // erased placeholder
	VConst              // literal constant
	VThunk              // key into the thunk table
	VHandle             // key into the handle table
)

// Closure re-enters the evaluator with the argument bound
type Closure func(arg *Value) (*Value, error)

// ValBinder is a term binder whose type and value parts are already evaluated
type ValBinder struct {
	Kind term.BinderKind
	Ty   *Value
	Val  *Value
}

// Value is the runtime representation produced by the evaluator
type Value struct {
	Tag VTag

	// VRef
	NameType term.NameType
	Name     string // also the bound name for VBind
	Ty       *Value

	// VBind
	Binder *ValBinder
	Body   Closure

	// VApp
	Fun *Value
	Arg *Value

	// VConst
	Const term.Const

	// VType
	Level int

	// VThunk, VHandle
	Key int
}

// Erased is the shared erased value
var Erased = &Value{Tag: VErased}

// UType is the shared uniqueness universe value
var UType = &Value{Tag: VUType}

// NewRef creates an opaque reference with an erased type
func NewRef(nt term.NameType, name string) *Value {
	return &Value{Tag: VRef, NameType: nt, Name: name, Ty: Erased}
}

// NewGlobalRef creates a reference to a global definition
func NewGlobalRef(name string) *Value {
	return NewRef(term.NameType{Kind: term.Ref}, name)
}

// NewConRef creates a data constructor reference
func NewConRef(name string) *Value {
	return NewRef(term.NameType{Kind: term.DCon}, name)
}

// NewBind creates a binder value
func NewBind(name string, b *ValBinder, body Closure) *Value {
	return &Value{Tag: VBind, Name: name, Binder: b, Body: body}
}

// NewApp creates a single stuck application
func NewApp(f, a *Value) *Value {
	return &Value{Tag: VApp, Fun: f, Arg: a}
}

// MkApp applies f to args left to right without reducing
func MkApp(f *Value, args ...*Value) *Value {
	for _, a := range args {
		f = NewApp(f, a)
	}
	return f
}

// UnApply splits a stuck application into its head and arguments
func UnApply(v *Value) (*Value, []*Value) {
	var rev []*Value
	for v.Tag == VApp {
		rev = append(rev, v.Arg)
		v = v.Fun
	}
	args := make([]*Value, len(rev))
	for i := range rev {
		args[i] = rev[len(rev)-1-i]
	}
	return v, args
}

// NewConst creates a constant value
func NewConst(c term.Const) *Value {
	return &Value{Tag: VConst, Const: c}
}

// NewInt creates an integer constant
func NewInt(i int64) *Value {
	return NewConst(term.IntConst(i))
}

// NewStr creates a string constant
func NewStr(s string) *Value {
	return NewConst(term.StrConst(s))
}

// NewType creates a universe value
func NewType(level int) *Value {
	return &Value{Tag: VType, Level: level}
}

// NewThunk creates a reference to a delayed computation
func NewThunk(key int) *Value {
	return &Value{Tag: VThunk, Key: key}
}

// NewHandle creates a reference to an open file handle
func NewHandle(key int) *Value {
	return &Value{Tag: VHandle, Key: key}
}

// IsThunk checks if a value is a thunk reference
func IsThunk(v *Value) bool {
	return v != nil && v.Tag == VThunk
}

// IsHandle checks if a value is a handle reference
func IsHandle(v *Value) bool {
	return v != nil && v.Tag == VHandle
}

// IsConst checks if a value is a constant of the given kind
func IsConst(v *Value, kind term.ConstKind) bool {
	return v != nil && v.Tag == VConst && v.Const.Kind == kind
}

// HeadName returns the name of the reference at the head of v, if any
func HeadName(v *Value) (string, bool) {
	h, _ := UnApply(v)
	if h.Tag != VRef {
		return "", false
	}
	return h.Name, true
}

// String returns a string representation of a value
func (v *Value) String() string {
	if v == nil {
		return "nil"
	}
	switch v.Tag {
	case VRef:
		return v.Name
	case VBind:
		return fmt.Sprintf("#<%s %s>", term.BinderName(v.Binder.Kind), v.Name)
	case VApp:
		head, args := UnApply(v)
		var sb strings.Builder
		sb.WriteByte('(')
		sb.WriteString(head.String())
		for _, a := range args {
			sb.WriteByte(' ')
			sb.WriteString(a.String())
		}
		sb.WriteByte(')')
		return sb.String()
	case VType:
		return fmt.Sprintf("Type %d", v.Level)
	case VUType:
		return "UType"
	case VErased:
		return "_"
	case VConst:
		return v.Const.String()
	case VThunk:
		return fmt.Sprintf("#<thunk %d>", v.Key)
	case VHandle:
		return fmt.Sprintf("#<handle %d>", v.Key)
	default:
		return "?"
	}
}

// TagName returns the name of a tag
func TagName(t VTag) string {
	switch t {
	case VRef:
		return "REF"
	case VBind:
		return "BIND"
	case VApp:
		return "APP"
	case VType:
		return "TYPE"
	case VUType:
		return "UTYPE"
	case VErased:
		return "ERASED"
	case VConst:
		return "CONST"
	case VThunk:
		return "THUNK"
	case VHandle:
		return "HANDLE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}
