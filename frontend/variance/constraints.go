package variance

import (
	"github.com/cottand/variance/frontend/ir"
	"golang.org/x/sync/errgroup"
)

// constraint requires the term at index inferred to be at least variance
type constraint struct {
	inferred int
	variance *varianceTerm
}

type constraintsContext struct {
	terms       *termsContext
	constraints []constraint
	// arenas holds the arena of every worker, which must outlive the constraints
	arenas []*termArena
}

// constraintBuilder generates the constraints of a single item into its own arena
type constraintBuilder struct {
	terms       *termsContext
	arena       *termArena
	constraints []constraint
	// start is the index of the first term of the item being built
	start int
}

func addConstraintsFromCrate(terms *termsContext, config Config) *constraintsContext {
	items := terms.inferredItems
	perItem := make([][]constraint, len(items))
	arenas := make([]*termArena, len(items))

	var g errgroup.Group
	g.SetLimit(config.parallelism())
	for i, item := range items {
		g.Go(func() error {
			b := &constraintBuilder{
				terms: terms,
				arena: &termArena{},
				start: terms.inferredStarts[item.ID],
			}
			b.buildConstraintsForItem(item)
			perItem[i], arenas[i] = b.constraints, b.arena
			return nil
		})
	}
	// generation cannot fail
	_ = g.Wait()

	cx := &constraintsContext{terms: terms, arenas: arenas}
	for _, constraints := range perItem {
		cx.constraints = append(cx.constraints, constraints...)
	}
	logger.Debug("generated constraints", "constraints", len(cx.constraints), "items", len(items))
	return cx
}

func (b *constraintBuilder) buildConstraintsForItem(item *ir.Item) {
	covariant := constant(ir.Covariant)

	// fixed variances of local items, like the one of a PhantomData marker, are a lower bound
	for i, v := range item.Declared {
		b.addConstraint(i, constant(v))
	}

	switch {
	case item.Kind == ir.KindEnum:
		for _, variantID := range item.Variants {
			variant, ok := b.terms.crate.Item(variantID)
			if !ok {
				continue
			}
			for _, field := range variant.Fields {
				b.addConstraintsFromType(field.Type, covariant)
			}
		}
	case item.Kind.IsAdt() || item.Kind == ir.KindVariant:
		for _, field := range item.Fields {
			b.addConstraintsFromType(field.Type, covariant)
		}
	case item.Kind.IsFnLike():
		if item.Sig != nil {
			b.addConstraintsFromSig(item.Sig, covariant)
		}
	}
}

func (b *constraintBuilder) addConstraint(index int, variance *varianceTerm) {
	b.constraints = append(b.constraints, constraint{inferred: b.start + index, variance: variance})
}

// xform composes two terms, folding constants
func (b *constraintBuilder) xform(outer, inner *varianceTerm) *varianceTerm {
	if outer.kind == constantTerm && inner.kind == constantTerm {
		return constant(outer.constant.Xform(inner.constant))
	}
	return b.arena.alloc(varianceTerm{kind: transformTerm, outer: outer, inner: inner})
}

func (b *constraintBuilder) contravariant(variance *varianceTerm) *varianceTerm {
	return b.xform(variance, constant(ir.Contravariant))
}

func (b *constraintBuilder) invariant(variance *varianceTerm) *varianceTerm {
	return b.xform(variance, constant(ir.Invariant))
}

func (b *constraintBuilder) addConstraintsFromType(t ir.Type, variance *varianceTerm) {
	switch t := t.(type) {
	case *ir.Primitive, *ir.Never:
	case *ir.Param:
		b.addConstraint(t.Index, variance)
	case *ir.Ref:
		b.addConstraintsFromRegion(t.Region, b.contravariant(variance))
		b.addConstraintsFromMutability(t.Mutable, t.Elem, variance)
	case *ir.RawPtr:
		b.addConstraintsFromMutability(t.Mutable, t.Elem, variance)
	case *ir.Slice:
		b.addConstraintsFromType(t.Elem, variance)
	case *ir.Array:
		b.addConstraintsFromType(t.Elem, variance)
		b.addConstraintsFromConst(t.Len, variance)
	case *ir.Tuple:
		for _, elem := range t.Elems {
			b.addConstraintsFromType(elem, variance)
		}
	case *ir.Adt:
		b.addConstraintsFromArgs(t.Item, t.Args, variance)
	case *ir.Projection:
		b.addConstraintsFromInvariantArgs(t.Args, variance)
	case *ir.Opaque:
		b.addConstraintsFromInvariantArgs(t.Args, variance)
	case *ir.Dynamic:
		b.addConstraintsFromRegion(t.Region, b.contravariant(variance))
		if t.Principal != nil {
			b.addConstraintsFromInvariantArgs(t.Principal.Args, variance)
		}
		for _, projection := range t.Projections {
			b.addConstraintsFromArg(projection.Term, b.invariant(variance))
		}
	case *ir.FnPtr:
		b.addConstraintsFromSig(&t.Sig, variance)
	default:
		logger.Warn("unexpected type when generating constraints", "type", t)
	}
}

func (b *constraintBuilder) addConstraintsFromMutability(mutable bool, elem ir.Type, variance *varianceTerm) {
	if mutable {
		b.addConstraintsFromType(elem, b.invariant(variance))
		return
	}
	b.addConstraintsFromType(elem, variance)
}

// addConstraintsFromArgs handles the arguments of an item that has variances of its own,
// so that each argument is constrained by the variance of the parameter it is passed to
func (b *constraintBuilder) addConstraintsFromArgs(id ir.ItemID, args []ir.GenericArg, variance *varianceTerm) {
	if len(args) == 0 {
		return
	}
	for i, arg := range args {
		b.addConstraintsFromArg(arg, b.xform(variance, b.declaredVariance(id, i)))
	}
}

// declaredVariance is the term of parameter i of id, which is inferred for
// items of this crate and constant for external ones
func (b *constraintBuilder) declaredVariance(id ir.ItemID, i int) *varianceTerm {
	if start, ok := b.terms.inferredStarts[id]; ok {
		return b.terms.inferredTerms[start+i]
	}
	item, ok := b.terms.crate.Item(id)
	if !ok || i >= len(item.Declared) {
		// the loader rejects these, but invariance is always sound
		return constant(ir.Invariant)
	}
	return constant(item.Declared[i])
}

func (b *constraintBuilder) addConstraintsFromInvariantArgs(args []ir.GenericArg, variance *varianceTerm) {
	invariant := b.invariant(variance)
	for _, arg := range args {
		b.addConstraintsFromArg(arg, invariant)
	}
}

func (b *constraintBuilder) addConstraintsFromArg(arg ir.GenericArg, variance *varianceTerm) {
	switch arg := arg.(type) {
	case ir.Region:
		b.addConstraintsFromRegion(arg, variance)
	case ir.Const:
		b.addConstraintsFromConst(arg, variance)
	case ir.Type:
		b.addConstraintsFromType(arg, variance)
	}
}

func (b *constraintBuilder) addConstraintsFromSig(sig *ir.FnSig, variance *varianceTerm) {
	contra := b.contravariant(variance)
	for _, input := range sig.Inputs {
		b.addConstraintsFromType(input, contra)
	}
	if sig.Output != nil {
		b.addConstraintsFromType(sig.Output, variance)
	}
}

func (b *constraintBuilder) addConstraintsFromRegion(region ir.Region, variance *varianceTerm) {
	switch region := region.(type) {
	case *ir.EarlyBound:
		b.addConstraint(region.Index, variance)
	case *ir.Static, *ir.LateBound, *ir.Anon, nil:
		// no parameter to constrain
	}
}

func (b *constraintBuilder) addConstraintsFromConst(c ir.Const, variance *varianceTerm) {
	switch c := c.(type) {
	case *ir.ConstParam:
		b.addConstraint(c.Index, variance)
	case *ir.Unevaluated:
		b.addConstraintsFromInvariantArgs(c.Args, variance)
	case *ir.ConstValue:
	}
}
