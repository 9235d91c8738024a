package ir

// Predicate is a bound an opaque type (or any other bounded item) satisfies
type Predicate interface {
	String() string
	isPredicate()
}

var (
	_ Predicate = (*TraitPredicate)(nil)
	_ Predicate = (*ProjectionPredicate)(nil)
	_ Predicate = (*TypeOutlives)(nil)
	_ Predicate = (*RegionOutlives)(nil)
)

// TraitPredicate is Args[0]: Trait<Args[1:]>
type TraitPredicate struct {
	Trait ItemID
	Args  []GenericArg
}

func (p *TraitPredicate) String() string {
	return p.Args[0].String() + ": " + showPath(p.Trait, p.Args[1:])
}

// ProjectionPredicate is <Args[0] as Trait<Args[1:]>>::Assoc == Term
type ProjectionPredicate struct {
	Trait ItemID
	Assoc string
	Args  []GenericArg
	Term  GenericArg
}

func (p *ProjectionPredicate) String() string {
	proj := &Projection{Trait: p.Trait, Assoc: p.Assoc, Args: p.Args}
	return proj.String() + " == " + p.Term.String()
}

// TypeOutlives is Type: Region
type TypeOutlives struct {
	Type   Type
	Region Region
}

func (p *TypeOutlives) String() string { return p.Type.String() + ": " + p.Region.String() }

// RegionOutlives is Long: Short
type RegionOutlives struct {
	Long, Short Region
}

func (p *RegionOutlives) String() string { return p.Long.String() + ": " + p.Short.String() }

func (*TraitPredicate) isPredicate()      {}
func (*ProjectionPredicate) isPredicate() {}
func (*TypeOutlives) isPredicate()        {}
func (*RegionOutlives) isPredicate()      {}
