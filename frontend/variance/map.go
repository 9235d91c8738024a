package variance

import (
	"iter"
	"slices"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/variance/frontend/ir"
)

// Map holds the solved variances of every item of a crate whose variance is inferred.
// It never changes once built, so it is safe for concurrent use
type Map struct {
	variances *immutable.Map[ir.ItemID, []ir.Variance]
	// order is the order items were added in, which is the order of the crate
	order []ir.ItemID
}

type itemIDHasher struct{}

var stringHasher = immutable.NewHasher("")

func (itemIDHasher) Hash(id ir.ItemID) uint32  { return stringHasher.Hash(string(id)) }
func (itemIDHasher) Equal(a, b ir.ItemID) bool { return a == b }

type mapBuilder struct {
	builder *immutable.MapBuilder[ir.ItemID, []ir.Variance]
	order   []ir.ItemID
}

func newMapBuilder() *mapBuilder {
	return &mapBuilder{builder: immutable.NewMapBuilder[ir.ItemID, []ir.Variance](itemIDHasher{})}
}

func (b *mapBuilder) set(id ir.ItemID, variances []ir.Variance) {
	if _, ok := b.builder.Get(id); !ok {
		b.order = append(b.order, id)
	}
	b.builder.Set(id, variances)
}

func (b *mapBuilder) build() *Map {
	return &Map{variances: b.builder.Map(), order: b.order}
}

// Get returns a copy of the variances of id
func (m *Map) Get(id ir.ItemID) ([]ir.Variance, bool) {
	variances, ok := m.variances.Get(id)
	if !ok {
		return nil, false
	}
	return slices.Clone(variances), true
}

func (m *Map) Len() int {
	return m.variances.Len()
}

// All iterates over the items of the map in crate order
func (m *Map) All() iter.Seq2[ir.ItemID, []ir.Variance] {
	return func(yield func(ir.ItemID, []ir.Variance) bool) {
		for _, id := range m.order {
			variances, _ := m.variances.Get(id)
			if !yield(id, slices.Clone(variances)) {
				return
			}
		}
	}
}
