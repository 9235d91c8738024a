package variance

import (
	"testing"

	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/parser"
	"github.com/stretchr/testify/require"
)

// fixture builds crates for tests. Items are declared first and their
// structure is filled in afterwards, so items may refer to each other
type fixture struct {
	t     *testing.T
	crate *ir.Crate
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, crate: ir.NewCrate("fixture")}
}

func (f *fixture) declare(id ir.ItemID, kind ir.ItemKind, parent ir.ItemID, params ...string) *ir.Item {
	item := &ir.Item{ID: id, Kind: kind, Parent: parent}
	if parent != "" {
		item.Generics.Parent = parent
		item.Generics.ParentCount = f.crate.GenericsOf(parent).Count()
	}
	for _, src := range params {
		name, kind, err := parser.ParseGenericParam(src, ir.Pos{})
		require.Nil(f.t, err)
		item.Generics.Params = append(item.Generics.Params, ir.GenericParam{
			Name:  name,
			Kind:  kind,
			Index: item.Generics.ParentCount + len(item.Generics.Params),
			Owner: id,
		})
	}
	require.True(f.t, f.crate.Add(item))
	return item
}

func (f *fixture) item(id ir.ItemID) *ir.Item {
	item, ok := f.crate.Item(id)
	require.True(f.t, ok, "no item %s", id)
	return item
}

func (f *fixture) ty(in ir.ItemID, src string) ir.Type {
	ty, err := parser.ParseType(src, parser.Scope{Crate: f.crate, Item: in}, ir.Pos{})
	require.Nil(f.t, err, "parsing %s", src)
	return ty
}

func (f *fixture) fields(id ir.ItemID, types ...string) {
	item := f.item(id)
	for _, src := range types {
		item.Fields = append(item.Fields, ir.Field{Type: f.ty(id, src)})
	}
}

func (f *fixture) sig(id ir.ItemID, output string, inputs ...string) {
	item := f.item(id)
	sig := &ir.FnSig{Output: &ir.Tuple{}}
	if output != "" {
		sig.Output = f.ty(id, output)
	}
	for _, src := range inputs {
		sig.Inputs = append(sig.Inputs, f.ty(id, src))
	}
	item.Sig = sig
}

func (f *fixture) bounds(id ir.ItemID, src string) {
	item := f.item(id)
	self := &ir.Opaque{Item: id, Args: ir.IdentityArgs(f.crate, id)}
	preds, err := parser.ParseBounds(src, self, parser.Scope{Crate: f.crate, Item: id}, ir.Pos{})
	require.Nil(f.t, err, "parsing %s", src)
	item.Bounds = append(item.Bounds, preds...)
}

func (f *fixture) external(id ir.ItemID, kind ir.ItemKind, declared []ir.Variance, params ...string) {
	item := f.declare(id, kind, "", params...)
	item.External = true
	item.Declared = declared
}

func (f *fixture) session() *Session {
	return NewSession(f.crate, DefaultConfig())
}

func variances(s string) []ir.Variance {
	var vs []ir.Variance
	for _, r := range s {
		v, err := ir.ParseVariance(string(r))
		if err != nil {
			panic(err)
		}
		vs = append(vs, v)
	}
	if vs == nil {
		return []ir.Variance{}
	}
	return vs
}
