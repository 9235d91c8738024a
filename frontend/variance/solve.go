package variance

import (
	"github.com/cottand/variance/frontend/ir"
)

// Stats describes the work done to compute the variances of a crate
type Stats struct {
	Terms       int
	Constraints int
	// Passes counts every pass over the constraints, including the last one, which changes nothing
	Passes int
}

type solveContext struct {
	terms       *termsContext
	constraints []constraint
	config      Config
	solutions   []ir.Variance
	passes      int
}

func solveConstraints(cx *constraintsContext, config Config) (*Map, Stats) {
	solutions := make([]ir.Variance, cx.terms.termCount())
	for i := range solutions {
		solutions[i] = ir.Bivariant
	}
	s := &solveContext{
		terms:       cx.terms,
		constraints: cx.constraints,
		config:      config,
		solutions:   solutions,
	}
	s.solve()
	stats := Stats{
		Terms:       len(solutions),
		Constraints: len(cx.constraints),
		Passes:      s.passes,
	}
	logger.Debug("solved constraints", "terms", stats.Terms, "constraints", stats.Constraints, "passes", stats.Passes)
	return s.createMap(), stats
}

func (s *solveContext) solve() {
	for s.pass() {
	}
}

// pass applies every constraint once and reports whether any solution changed.
// Later constraints see the updates of earlier ones
func (s *solveContext) pass() bool {
	s.passes++
	changed := false
	for _, c := range s.constraints {
		variance := s.evaluate(c.variance)
		old := s.solutions[c.inferred]
		updated := variance.Join(old)
		if updated != old {
			logger.Debug("updated term", "term", c.inferred, "from", old, "to", updated, "constraint", c.variance)
			s.solutions[c.inferred] = updated
			changed = true
		}
	}
	return changed
}

func (s *solveContext) evaluate(term *varianceTerm) ir.Variance {
	switch term.kind {
	case constantTerm:
		return term.constant
	case transformTerm:
		return s.evaluate(term.outer).Xform(s.evaluate(term.inner))
	default:
		return s.solutions[term.inferred]
	}
}

func (s *solveContext) createMap() *Map {
	builder := newMapBuilder()
	crate := s.terms.crate
	for _, item := range s.terms.inferredItems {
		start := s.terms.inferredStarts[item.ID]
		variances := make([]ir.Variance, item.Generics.Count())
		copy(variances, s.solutions[start:])

		if s.config.ConstInvariant {
			enforceConstInvariance(crate, item.ID, variances)
		}
		if s.config.UnusedFnParamsInvariant && item.Kind.IsFnLike() {
			for i, v := range variances {
				if v == ir.Bivariant {
					variances[i] = ir.Invariant
				}
			}
		}
		builder.set(item.ID, variances)
	}
	return builder.build()
}

// enforceConstInvariance makes every const parameter in scope for id Invariant
func enforceConstInvariance(crate *ir.Crate, id ir.ItemID, variances []ir.Variance) {
	for param := range crate.Params(id) {
		if param.Kind == ir.ParamConst && param.Index < len(variances) {
			variances[param.Index] = ir.Invariant
		}
	}
}
