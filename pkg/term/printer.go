package term

import (
	"fmt"
	"strings"
)

// String returns a string representation of a term
func (t *Term) String() string {
	if t == nil {
		return "nil"
	}
	switch t.Tag {
	case TP:
		return t.Name
	case TV:
		return fmt.Sprintf("{V %d}", t.Index)
	case TBind:
		return bindString(t)
	case TApp:
		head, args := UnApply(t)
		var sb strings.Builder
		sb.WriteByte('(')
		sb.WriteString(head.String())
		for _, a := range args {
			sb.WriteByte(' ')
			sb.WriteString(a.String())
		}
		sb.WriteByte(')')
		return sb.String()
	case TConstant:
		return t.Const.String()
	case TType:
		return fmt.Sprintf("Type %d", t.Level)
	case TUType:
		return "UType"
	case TErased:
		return "_"
	case TProj:
		return fmt.Sprintf("%s!%d", t.Fun.String(), t.Index)
	case TImpossible:
		return "impossible"
	default:
		return "?"
	}
}

func bindString(t *Term) string {
	b := t.Binder
	switch b.Kind {
	case Lam:
		return fmt.Sprintf("\\%s : %s => %s", t.Name, b.Ty, t.Body)
	case Pi:
		return fmt.Sprintf("(%s : %s) -> %s", t.Name, b.Ty, t.Body)
	case Let, NLet:
		kw := "let"
		if b.Kind == NLet {
			kw = "nlet"
		}
		return fmt.Sprintf("%s %s : %s = %s in %s", kw, t.Name, b.Ty, b.Val, t.Body)
	case Guess:
		return fmt.Sprintf("?%s : %s ≈ %s . %s", t.Name, b.Ty, b.Val, t.Body)
	default:
		return fmt.Sprintf("%s %s : %s . %s", BinderName(b.Kind), t.Name, b.Ty, t.Body)
	}
}

// BinderName returns the name of a binder kind
func BinderName(k BinderKind) string {
	switch k {
	case Lam:
		return "lam"
	case Pi:
		return "pi"
	case Let:
		return "let"
	case NLet:
		return "nlet"
	case Hole:
		return "hole"
	case Guess:
		return "guess"
	case PVar:
		return "pvar"
	case PVTy:
		return "pvty"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", k)
	}
}
