package variance

import (
	"fmt"

	"github.com/cottand/variance/frontend/ir"
	"github.com/hashicorp/go-set/v3"
)

type termKind uint8

const (
	constantTerm termKind = iota
	transformTerm
	inferredTerm
)

// varianceTerm is either a known variance, the not-yet-known variance
// of a parameter, or the Xform of two other terms
type varianceTerm struct {
	kind     termKind
	constant ir.Variance
	inferred int
	outer    *varianceTerm
	inner    *varianceTerm
}

func (t *varianceTerm) String() string {
	switch t.kind {
	case constantTerm:
		return t.constant.String()
	case transformTerm:
		return fmt.Sprintf("(%s × %s)", t.outer, t.inner)
	default:
		return fmt.Sprintf("[%d]", t.inferred)
	}
}

var constantTerms = [...]varianceTerm{
	ir.Covariant:     {kind: constantTerm, constant: ir.Covariant},
	ir.Invariant:     {kind: constantTerm, constant: ir.Invariant},
	ir.Contravariant: {kind: constantTerm, constant: ir.Contravariant},
	ir.Bivariant:     {kind: constantTerm, constant: ir.Bivariant},
}

// constant terms are shared and never allocated
func constant(v ir.Variance) *varianceTerm {
	return &constantTerms[v]
}

const arenaChunkSize = 256

// termArena allocates terms in chunks, so that pointers to terms stay valid
// and terms die together with the arena
type termArena struct {
	chunk     []varianceTerm
	allocated int
}

func (a *termArena) alloc(t varianceTerm) *varianceTerm {
	if len(a.chunk) == cap(a.chunk) {
		a.chunk = make([]varianceTerm, 0, arenaChunkSize)
	}
	a.chunk = append(a.chunk, t)
	a.allocated++
	return &a.chunk[len(a.chunk)-1]
}

// termsContext holds one inferred term per generic parameter of every item whose variance is inferred
type termsContext struct {
	crate *ir.Crate
	arena *termArena

	// inferredStarts maps an item to the index of the term of its first parameter.
	// The item has Generics.Count() consecutive terms
	inferredStarts map[ir.ItemID]int
	// inferredItems lists the items with terms, in the order their terms were allocated
	inferredItems []*ir.Item
	inferredTerms []*varianceTerm
	// empty holds the items that have no parameters and so need no inference
	empty *set.Set[ir.ItemID]
}

// inferable reports whether the variance of items of kind is computed by the fixpoint
func inferable(kind ir.ItemKind) bool {
	return kind.IsAdt() || kind.IsFnLike() || kind == ir.KindVariant
}

// HasVariances reports whether Session.VariancesOf accepts items of kind
func HasVariances(kind ir.ItemKind) bool {
	return inferable(kind) || kind == ir.KindOpaque
}

func determineParametersToBeInferred(crate *ir.Crate) *termsContext {
	cx := &termsContext{
		crate:          crate,
		arena:          &termArena{},
		inferredStarts: make(map[ir.ItemID]int),
		empty:          set.New[ir.ItemID](0),
	}
	for item := range crate.Items() {
		if !inferable(item.Kind) || item.External {
			continue
		}
		cx.addInferredsForItem(item)
	}
	logger.Debug("allocated terms", "terms", len(cx.inferredTerms), "items", len(cx.inferredItems), "empty", cx.empty.Size())
	return cx
}

func (cx *termsContext) addInferredsForItem(item *ir.Item) {
	count := item.Generics.Count()
	if count == 0 {
		cx.empty.Insert(item.ID)
		return
	}
	start := len(cx.inferredTerms)
	cx.inferredStarts[item.ID] = start
	cx.inferredItems = append(cx.inferredItems, item)
	for i := range count {
		cx.inferredTerms = append(cx.inferredTerms, cx.arena.alloc(varianceTerm{kind: inferredTerm, inferred: start + i}))
	}
}

func (cx *termsContext) termCount() int {
	return len(cx.inferredTerms)
}
