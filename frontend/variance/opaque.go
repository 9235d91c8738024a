package variance

import (
	"sort"

	"github.com/cottand/variance/frontend/ir"
	"github.com/xtgo/set"
)

// varianceOfOpaque computes the variances of an opaque item from its bounds alone.
//
// The hidden type of an opaque item may use any of its type and const parameters,
// so those are Invariant. It may only use the lifetimes that its bounds mention, so
// lifetimes start Bivariant and become Invariant once found in a bound:
//
//	type Foo<'a, 'b, 'c> = impl Trait<'a> + 'b;   // [o, o, *]
func varianceOfOpaque(crate *ir.Crate, item *ir.Item) []ir.Variance {
	variances := make([]ir.Variance, item.Generics.Count())
	for i := range variances {
		variances[i] = ir.Invariant
	}
	for param := range crate.Params(item.ID) {
		if param.Kind == ir.ParamLifetime && param.Index < len(variances) {
			variances[param.Index] = ir.Bivariant
		}
	}

	marked := collectBoundLifetimes(crate, item)
	for _, index := range marked {
		if index < len(variances) {
			variances[index] = ir.Invariant
		}
	}
	logger.Debug("computed opaque variances", "item", item.ID, "marked", marked, "variances", ir.ShowVariances(variances))
	return variances
}

// collectBoundLifetimes returns the sorted indices of the early-bound lifetimes the bounds of item mention
func collectBoundLifetimes(crate *ir.Crate, item *ir.Item) []int {
	var found sort.IntSlice
	visit := func(arg ir.GenericArg) bool {
		if region, ok := arg.(*ir.EarlyBound); ok {
			found = append(found, region.Index)
		}
		return true
	}
	visitAll := func(args []ir.GenericArg) {
		for _, arg := range args {
			ir.Walk(arg, visit)
		}
	}

	identity := ir.IdentityArgs(crate, item.ID)
	for _, bound := range item.Bounds {
		// the self type of a bound is the opaque type itself, so its arguments say nothing
		// about what the hidden type uses. Only the outermost self type is skipped,
		// which keeps recursive bounds like PartialEq<Foo<'a>> mentioning 'a
		switch pred := ir.SubstPredicate(bound, identity).(type) {
		case *ir.TraitPredicate:
			visitAll(skipSelf(pred.Args))
		case *ir.ProjectionPredicate:
			visitAll(skipSelf(pred.Args))
			ir.Walk(pred.Term, visit)
		case *ir.TypeOutlives:
			ir.Walk(pred.Region, visit)
		default:
			ir.WalkPredicate(pred, visit)
		}
	}

	sort.Sort(found)
	return found[:set.Uniq(found)]
}

func skipSelf(args []ir.GenericArg) []ir.GenericArg {
	if len(args) == 0 {
		return nil
	}
	return args[1:]
}
