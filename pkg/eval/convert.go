package eval

import (
	"fmt"

	"ttexec/pkg/term"
)

// ValueToTerm turns a value back into a term. Thunks and handles have no
// term form and become erased; binders are opened with a fresh bound name
// and closed again over the converted body.
func (st *State) ValueToTerm(v *Value) (*term.Term, error) {
	switch v.Tag {
	case VRef:
		ty, err := st.ValueToTerm(v.Ty)
		if err != nil {
			return nil, err
		}
		return term.NewP(v.NameType, v.Name, ty), nil

	case VBind:
		return st.bindToTerm(v)

	case VApp:
		f, err := st.ValueToTerm(v.Fun)
		if err != nil {
			return nil, err
		}
		a, err := st.ValueToTerm(v.Arg)
		if err != nil {
			return nil, err
		}
		return term.NewApp(f, a), nil

	case VType:
		return term.NewType(v.Level), nil
	case VUType:
		return term.UType, nil
	case VConst:
		return term.NewConstant(v.Const), nil
	case VErased, VThunk, VHandle:
		return term.Erased, nil
	}
	return nil, fmt.Errorf("%w: cannot convert value tag %s", ErrInvariant, TagName(v.Tag))
}

func (st *State) bindToTerm(v *Value) (*term.Term, error) {
	b := &term.Binder{Kind: v.Binder.Kind}
	var err error
	if b.Ty, err = st.ValueToTerm(orErased(v.Binder.Ty)); err != nil {
		return nil, err
	}
	if v.Binder.Val != nil {
		if b.Val, err = st.ValueToTerm(v.Binder.Val); err != nil {
			return nil, err
		}
	}

	fresh := st.freshName(v.Name)
	res, err := v.Body(NewRef(term.NameType{Kind: term.Bound}, fresh))
	if err != nil {
		return nil, err
	}
	body, err := st.ValueToTerm(res)
	if err != nil {
		return nil, err
	}
	return term.NewBind(v.Name, b, term.Abstract(fresh, body)), nil
}

func orErased(v *Value) *Value {
	if v == nil {
		return Erased
	}
	return v
}
