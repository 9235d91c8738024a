package ir

// Walk calls visit for arg and then for every generic argument nested in it, depth-first.
// If visit returns false, the children of that argument are skipped
func Walk(arg GenericArg, visit func(GenericArg) bool) {
	if arg == nil || !visit(arg) {
		return
	}
	for _, child := range childrenOf(arg) {
		Walk(child, visit)
	}
}

// WalkPredicate calls Walk on every argument of p
func WalkPredicate(p Predicate, visit func(GenericArg) bool) {
	switch p := p.(type) {
	case *TraitPredicate:
		for _, arg := range p.Args {
			Walk(arg, visit)
		}
	case *ProjectionPredicate:
		for _, arg := range p.Args {
			Walk(arg, visit)
		}
		Walk(p.Term, visit)
	case *TypeOutlives:
		Walk(p.Type, visit)
		Walk(p.Region, visit)
	case *RegionOutlives:
		Walk(p.Long, visit)
		Walk(p.Short, visit)
	}
}

func childrenOf(arg GenericArg) []GenericArg {
	switch t := arg.(type) {
	case *Ref:
		return []GenericArg{t.Region, t.Elem}
	case *RawPtr:
		return []GenericArg{t.Elem}
	case *Slice:
		return []GenericArg{t.Elem}
	case *Array:
		return []GenericArg{t.Elem, t.Len}
	case *Tuple:
		children := make([]GenericArg, 0, len(t.Elems))
		for _, elem := range t.Elems {
			children = append(children, elem)
		}
		return children
	case *Adt:
		return t.Args
	case *Opaque:
		return t.Args
	case *Projection:
		return t.Args
	case *Unevaluated:
		return t.Args
	case *FnPtr:
		children := make([]GenericArg, 0, len(t.Sig.Inputs)+1)
		for _, input := range t.Sig.Inputs {
			children = append(children, input)
		}
		if t.Sig.Output != nil {
			children = append(children, t.Sig.Output)
		}
		return children
	case *Dynamic:
		var children []GenericArg
		if t.Principal != nil {
			children = append(children, t.Principal.Args...)
		}
		for _, p := range t.Projections {
			children = append(children, p.Term)
		}
		if t.Region != nil {
			children = append(children, t.Region)
		}
		return children
	default:
		return nil
	}
}
