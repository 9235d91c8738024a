// Package variance infers how the subtyping of the generic parameters of an item
// relates to the subtyping of the item itself.
//
// Variances are computed for a whole crate at once: each parameter gets an inferred term,
// every use of a parameter in the structure of an item yields a constraint on that term,
// and the constraints are solved by iterating to a fixpoint over the variance lattice.
// Opaque items are the exception, as their variances follow from their bounds directly.
package variance

import (
	"log/slog"
	"sync"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/internal/log"
	"github.com/google/uuid"
)

var logger = slog.New(ir.SlogHandler(log.DefaultLogger.Handler())).With("section", "variance")

// Session owns all the state of computing variances for one crate.
// It is safe for concurrent use
type Session struct {
	ID     uuid.UUID
	crate  *ir.Crate
	config Config
	logger *slog.Logger

	once      sync.Once
	variances *Map
	stats     Stats
	// opaque caches the variances of opaque items
	opaque sync.Map
}

func NewSession(crate *ir.Crate, config Config) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		crate:  crate,
		config: config,
		logger: logger.With("session", id.String(), "crate", crate.Name),
	}
}

func (s *Session) Crate() *ir.Crate {
	return s.crate
}

// CrateVariances computes the variances of every item of the crate whose variance is inferred.
// The computation only happens once per Session
func (s *Session) CrateVariances() *Map {
	s.once.Do(func() {
		s.logger.Info("computing crate variances", "items", s.crate.Len(), "parallelism", s.config.parallelism())
		terms := determineParametersToBeInferred(s.crate)
		constraints := addConstraintsFromCrate(terms, s.config)
		s.variances, s.stats = solveConstraints(constraints, s.config)
		s.logger.Info("computed crate variances", "terms", s.stats.Terms, "constraints", s.stats.Constraints, "passes", s.stats.Passes)
	})
	return s.variances
}

// Stats of the computation of CrateVariances, which is run if it was not already
func (s *Session) Stats() Stats {
	s.CrateVariances()
	return s.stats
}

// VariancesOf returns one variance per generic parameter in scope for the item id,
// parent parameters first.
//
// It panics if id does not name an item whose variance can be computed:
// a struct, enum, union, variant, constructor, function, associated function or opaque item
func (s *Session) VariancesOf(id ir.ItemID) []ir.Variance {
	item, ok := s.crate.Item(id)
	if !ok {
		panic(ilerr.New(ilerr.NewUnresolvedName{Name: string(id), In: ir.ItemID(s.crate.Name)}))
	}
	// skip items with no generics, there is nothing to infer in them
	if item.Generics.Count() == 0 {
		return []ir.Variance{}
	}

	switch {
	case inferable(item.Kind):
	case item.Kind == ir.KindOpaque:
		if item.External {
			return append([]ir.Variance{}, item.Declared...)
		}
		return s.varianceOfOpaque(item)
	default:
		panic(ilerr.New(ilerr.NewWrongItemKind{Pos: item.Pos, ID: item.ID, Kind: item.Kind}))
	}

	if item.External {
		return append([]ir.Variance{}, item.Declared...)
	}
	variances, ok := s.CrateVariances().Get(id)
	if !ok {
		return []ir.Variance{}
	}
	return variances
}

func (s *Session) varianceOfOpaque(item *ir.Item) []ir.Variance {
	if cached, ok := s.opaque.Load(item.ID); ok {
		return append([]ir.Variance{}, cached.([]ir.Variance)...)
	}
	variances := varianceOfOpaque(s.crate, item)
	actual, _ := s.opaque.LoadOrStore(item.ID, variances)
	return append([]ir.Variance{}, actual.([]ir.Variance)...)
}
