package typesystem

// ReplaceVars rebuilds t with every variable v replaced by f(v).
// It is used to print fully resolved results once inference settles.
func ReplaceVars(t Type, f func(TVar) Type) Type {
	if t == nil {
		return nil
	}
	switch typ := t.(type) {
	case TVar:
		return f(typ)
	case TApp:
		return TApp{
			Constructor: ReplaceVars(typ.Constructor, f),
			Args:        replaceAll(typ.Args, f),
		}
	case TFunc:
		return TFunc{
			Params:     replaceAll(typ.Params, f),
			ReturnType: ReplaceVars(typ.ReturnType, f),
		}
	case TTuple:
		return TTuple{Elements: replaceAll(typ.Elements, f)}
	case TOpaque:
		return TOpaque{Def: typ.Def, Args: replaceAll(typ.Args, f)}
	default:
		return t
	}
}

func replaceAll(ts []Type, f func(TVar) Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = ReplaceVars(t, f)
	}
	return out
}
