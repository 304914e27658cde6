package defs

import (
	"fmt"
	"strings"

	"ttexec/pkg/term"
)

// SCKind is the kind of a case tree node
type SCKind int

const (
	Case           SCKind = iota // switch on a bound name
	STerm                        // right-hand side
	UnmatchedCase                // intentionally absent case
	ImpossibleCase               // case proven unreachable
)

// SC is a compiled decision tree
type SC struct {
	Kind SCKind

	// Case
	Scrutinee string
	Alts      []Alt

	// STerm
	Term *term.Term

	// UnmatchedCase
	Reason string
}

// AltKind is the kind of a case alternative
type AltKind int

const (
	ConCase AltKind = iota
	ConstCase
	DefaultCase
)

// Alt is one alternative of a Case node
type Alt struct {
	Kind AltKind

	// ConCase
	Con  string
	Tag  int
	Args []string

	// ConstCase
	Const term.Const

	Tree *SC
}

// NewCase creates a switch on the bound name x
func NewCase(x string, alts ...Alt) *SC {
	return &SC{Kind: Case, Scrutinee: x, Alts: alts}
}

// NewSTerm creates a term leaf
func NewSTerm(t *term.Term) *SC {
	return &SC{Kind: STerm, Term: t}
}

// NewUnmatched creates a leaf for a missing case
func NewUnmatched(reason string) *SC {
	return &SC{Kind: UnmatchedCase, Reason: reason}
}

// NewImpossibleCase creates a leaf for an unreachable case
func NewImpossibleCase() *SC {
	return &SC{Kind: ImpossibleCase}
}

// NewConCase creates a constructor alternative
func NewConCase(con string, tag int, args []string, sc *SC) Alt {
	return Alt{Kind: ConCase, Con: con, Tag: tag, Args: args, Tree: sc}
}

// NewConstCase creates a constant alternative
func NewConstCase(c term.Const, sc *SC) Alt {
	return Alt{Kind: ConstCase, Const: c, Tree: sc}
}

// NewDefaultCase creates a fallback alternative
func NewDefaultCase(sc *SC) Alt {
	return Alt{Kind: DefaultCase, Tree: sc}
}

// String renders a case tree on one line
func (sc *SC) String() string {
	if sc == nil {
		return "nil"
	}
	switch sc.Kind {
	case Case:
		var sb strings.Builder
		fmt.Fprintf(&sb, "case %s of", sc.Scrutinee)
		for i, alt := range sc.Alts {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteByte(' ')
			switch alt.Kind {
			case ConCase:
				sb.WriteString(alt.Con)
				for _, a := range alt.Args {
					sb.WriteByte(' ')
					sb.WriteString(a)
				}
			case ConstCase:
				sb.WriteString(alt.Const.String())
			default:
				sb.WriteByte('_')
			}
			sb.WriteString(" => ")
			sb.WriteString(alt.Tree.String())
		}
		return sb.String()
	case STerm:
		return sc.Term.String()
	case UnmatchedCase:
		return "error " + fmt.Sprintf("%q", sc.Reason)
	default:
		return "impossible"
	}
}
