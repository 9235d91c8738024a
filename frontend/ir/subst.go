package ir

// Subst replaces every parameter in arg by the argument with the same index in args.
// Parameters without a matching argument, late-bound and anonymous regions are left untouched
func Subst(arg GenericArg, args []GenericArg) GenericArg {
	if arg == nil {
		return nil
	}
	switch t := arg.(type) {
	case *Param:
		if t.Index < len(args) {
			return args[t.Index]
		}
		return t
	case *EarlyBound:
		if t.Index < len(args) {
			return args[t.Index]
		}
		return t
	case *ConstParam:
		if t.Index < len(args) {
			return args[t.Index]
		}
		return t
	case *Ref:
		return &Ref{Region: SubstRegion(t.Region, args), Mutable: t.Mutable, Elem: SubstType(t.Elem, args)}
	case *RawPtr:
		return &RawPtr{Mutable: t.Mutable, Elem: SubstType(t.Elem, args)}
	case *Slice:
		return &Slice{Elem: SubstType(t.Elem, args)}
	case *Array:
		return &Array{Elem: SubstType(t.Elem, args), Len: substConst(t.Len, args)}
	case *Tuple:
		elems := make([]Type, 0, len(t.Elems))
		for _, elem := range t.Elems {
			elems = append(elems, SubstType(elem, args))
		}
		return &Tuple{Elems: elems}
	case *Adt:
		return &Adt{Item: t.Item, Args: SubstArgs(t.Args, args)}
	case *Opaque:
		return &Opaque{Item: t.Item, Args: SubstArgs(t.Args, args)}
	case *Projection:
		return &Projection{Trait: t.Trait, Assoc: t.Assoc, Args: SubstArgs(t.Args, args)}
	case *Unevaluated:
		return &Unevaluated{Item: t.Item, Args: SubstArgs(t.Args, args)}
	case *FnPtr:
		return &FnPtr{BoundRegions: t.BoundRegions, Sig: *SubstSig(&t.Sig, args)}
	case *Dynamic:
		dyn := &Dynamic{Region: SubstRegion(t.Region, args)}
		if t.Principal != nil {
			dyn.Principal = &TraitRef{Trait: t.Principal.Trait, Args: SubstArgs(t.Principal.Args, args)}
		}
		for _, p := range t.Projections {
			dyn.Projections = append(dyn.Projections, ProjectionBound{Assoc: p.Assoc, Term: Subst(p.Term, args)})
		}
		return dyn
	default:
		return arg
	}
}

// SubstType is Subst for types. Substitution is kind-preserving for well-formed args
func SubstType(t Type, args []GenericArg) Type {
	if t == nil {
		return nil
	}
	substituted, ok := Subst(t, args).(Type)
	if !ok {
		return t
	}
	return substituted
}

func SubstRegion(r Region, args []GenericArg) Region {
	if r == nil {
		return nil
	}
	substituted, ok := Subst(r, args).(Region)
	if !ok {
		return r
	}
	return substituted
}

func substConst(c Const, args []GenericArg) Const {
	if c == nil {
		return nil
	}
	substituted, ok := Subst(c, args).(Const)
	if !ok {
		return c
	}
	return substituted
}

func SubstArgs(in []GenericArg, args []GenericArg) []GenericArg {
	if in == nil {
		return nil
	}
	out := make([]GenericArg, 0, len(in))
	for _, arg := range in {
		out = append(out, Subst(arg, args))
	}
	return out
}

func SubstSig(sig *FnSig, args []GenericArg) *FnSig {
	inputs := make([]Type, 0, len(sig.Inputs))
	for _, input := range sig.Inputs {
		inputs = append(inputs, SubstType(input, args))
	}
	return &FnSig{Inputs: inputs, Output: SubstType(sig.Output, args)}
}

func SubstPredicate(p Predicate, args []GenericArg) Predicate {
	switch p := p.(type) {
	case *TraitPredicate:
		return &TraitPredicate{Trait: p.Trait, Args: SubstArgs(p.Args, args)}
	case *ProjectionPredicate:
		return &ProjectionPredicate{Trait: p.Trait, Assoc: p.Assoc, Args: SubstArgs(p.Args, args), Term: Subst(p.Term, args)}
	case *TypeOutlives:
		return &TypeOutlives{Type: SubstType(p.Type, args), Region: SubstRegion(p.Region, args)}
	case *RegionOutlives:
		return &RegionOutlives{Long: SubstRegion(p.Long, args), Short: SubstRegion(p.Short, args)}
	default:
		return p
	}
}
