package term

// Abstract replaces free bound references to name in body with the de Bruijn
// index of the binder that is about to enclose body.
func Abstract(name string, body *Term) *Term {
	return abstractAt(name, body, 0)
}

func abstractAt(name string, t *Term, depth int) *Term {
	if t == nil {
		return nil
	}
	switch t.Tag {
	case TP:
		if t.NameType.Kind == Bound && t.Name == name {
			return NewV(depth)
		}
		return t
	case TBind:
		b := &Binder{
			Kind: t.Binder.Kind,
			Ty:   abstractAt(name, t.Binder.Ty, depth),
			Val:  abstractAt(name, t.Binder.Val, depth),
		}
		return NewBind(t.Name, b, abstractAt(name, t.Body, depth+1))
	case TApp:
		return NewApp(abstractAt(name, t.Fun, depth), abstractAt(name, t.Arg, depth))
	case TProj:
		return NewProj(abstractAt(name, t.Fun, depth), t.Index)
	default:
		return t
	}
}

// Equal compares two terms structurally. Bound names on binders are hints
// and are ignored; references compare by kind and name.
func Equal(a, b *Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TP:
		return a.NameType.Kind == b.NameType.Kind && a.Name == b.Name
	case TV:
		return a.Index == b.Index
	case TBind:
		return a.Binder.Kind == b.Binder.Kind &&
			Equal(a.Binder.Ty, b.Binder.Ty) &&
			Equal(a.Binder.Val, b.Binder.Val) &&
			Equal(a.Body, b.Body)
	case TApp:
		return Equal(a.Fun, b.Fun) && Equal(a.Arg, b.Arg)
	case TConstant:
		return a.Const.Equal(b.Const)
	case TType:
		return a.Level == b.Level
	case TProj:
		return a.Index == b.Index && Equal(a.Fun, b.Fun)
	default:
		return true
	}
}
