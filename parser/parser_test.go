package parser_test

import (
	"testing"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCrate() *ir.Crate {
	c := ir.NewCrate("test")
	c.Add(&ir.Item{ID: "Vec", Kind: ir.KindStruct, Generics: ir.Generics{Params: []ir.GenericParam{
		{Name: "T", Kind: ir.ParamType, Index: 0, Owner: "Vec"},
	}}})
	c.Add(&ir.Item{ID: "Tr", Kind: ir.KindTrait, Generics: ir.Generics{Params: []ir.GenericParam{
		{Name: "A", Kind: ir.ParamType, Index: 0, Owner: "Tr"},
	}}})
	c.Add(&ir.Item{ID: "Iterator", Kind: ir.KindTrait})
	c.Add(&ir.Item{ID: "SIZE", Kind: ir.KindConst})
	c.Add(&ir.Item{ID: "Foo", Kind: ir.KindStruct, Generics: ir.Generics{Params: []ir.GenericParam{
		{Name: "'a", Kind: ir.ParamLifetime, Index: 0, Owner: "Foo"},
		{Name: "T", Kind: ir.ParamType, Index: 1, Owner: "Foo"},
		{Name: "N", Kind: ir.ParamConst, Index: 2, Owner: "Foo"},
	}}})
	return c
}

func scope() parser.Scope {
	return parser.Scope{Crate: testCrate(), Item: "Foo"}
}

func TestParseTypeRoundTrips(t *testing.T) {
	types := []string{
		"&'a mut Vec<T>",
		"&T",
		"*const T",
		"*mut [u8]",
		"[T; N]",
		"[T; 4]",
		"[T; {SIZE}]",
		"(T, &'static str)",
		"(T,)",
		"()",
		"!",
		"fn(T) -> Vec<T>",
		"for<'x> fn(&'x T) -> &'x T",
		"dyn Tr<T, X = u8> + 'a",
		"dyn Iterator<Item = T>",
		"<T as Tr<u8>>::X",
		"Vec<Vec<&'a T>>",
	}
	for _, src := range types {
		t.Run(src, func(t *testing.T) {
			ty, err := parser.ParseType(src, scope(), ir.Pos{})
			require.Nil(t, err)
			assert.Equal(t, src, ty.String())
		})
	}
}

func TestParseTypeResolvesParams(t *testing.T) {
	ty, err := parser.ParseType("&'a [T; N]", scope(), ir.Pos{})
	require.Nil(t, err)

	ref, ok := ty.(*ir.Ref)
	require.True(t, ok)
	assert.Equal(t, &ir.EarlyBound{Name: "'a", Index: 0}, ref.Region)
	array, ok := ref.Elem.(*ir.Array)
	require.True(t, ok)
	assert.Equal(t, &ir.Param{Name: "T", Index: 1}, array.Elem)
	assert.Equal(t, &ir.ConstParam{Name: "N", Index: 2}, array.Len)
}

func TestParseTypeLateBoundRegions(t *testing.T) {
	ty, err := parser.ParseType("for<'x> fn(&'x T, &'a T)", scope(), ir.Pos{})
	require.Nil(t, err)

	fn := ty.(*ir.FnPtr)
	assert.Equal(t, []string{"'x"}, fn.BoundRegions)
	assert.Equal(t, &ir.LateBound{Name: "'x"}, fn.Sig.Inputs[0].(*ir.Ref).Region)
	assert.Equal(t, &ir.EarlyBound{Name: "'a", Index: 0}, fn.Sig.Inputs[1].(*ir.Ref).Region)
	assert.Equal(t, &ir.Tuple{}, fn.Sig.Output)
}

func TestParseTypeErrors(t *testing.T) {
	tests := map[string]ilerr.ErrCode{
		"Vec<T, T>":     ilerr.GenericArgCount,
		"Vec":           ilerr.GenericArgCount,
		"Vec<'a>":       ilerr.GenericArgKind,
		"Nope":          ilerr.UnresolvedName,
		"&'b T":         ilerr.UnresolvedName,
		"&'a":           ilerr.Parse,
		"Vec<T>>":       ilerr.Parse,
		"*T":            ilerr.Parse,
		"N":             ilerr.Parse,
		"Tr<T>":         ilerr.Parse,
		"Vec<X = T>":    ilerr.Parse,
		"dyn Vec<T>":    ilerr.Parse,
		"[T; {Vec<T>}]": ilerr.Parse,
	}
	for src, code := range tests {
		t.Run(src, func(t *testing.T) {
			at := ir.Pos{Filename: "crate.yaml", Line: 3, Column: 5}
			_, err := parser.ParseType(src, scope(), at)
			require.NotNil(t, err)
			assert.Equal(t, code, err.Code(), ilerr.FormatWithCode(err))
			assert.Equal(t, 3, err.Position().Line)
		})
	}
}

func TestParseBounds(t *testing.T) {
	self := &ir.Opaque{Item: "Foo::{opaque}"}

	preds, err := parser.ParseBounds("Iterator<Item = &'a T> + 'a", self, scope(), ir.Pos{})
	require.Nil(t, err)
	require.Len(t, preds, 3)
	assert.IsType(t, &ir.TraitPredicate{}, preds[0])
	assert.IsType(t, &ir.ProjectionPredicate{}, preds[1])
	assert.Equal(t, "<Foo::{opaque} as Iterator>::Item == &'a T", preds[1].String())
	assert.Equal(t, &ir.TypeOutlives{Type: self, Region: &ir.EarlyBound{Name: "'a", Index: 0}}, preds[2])

	preds, err = parser.ParseBounds("T: 'a + Tr<u8>", self, scope(), ir.Pos{})
	require.Nil(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "T: 'a", preds[0].String())
	assert.Equal(t, "T: Tr<u8>", preds[1].String())

	preds, err = parser.ParseBounds("'a: 'static", self, scope(), ir.Pos{})
	require.Nil(t, err)
	assert.Equal(t, []ir.Predicate{&ir.RegionOutlives{Long: &ir.EarlyBound{Name: "'a", Index: 0}, Short: &ir.Static{}}}, preds)

	_, err = parser.ParseBounds("Vec<T>", self, scope(), ir.Pos{})
	require.NotNil(t, err)
	assert.Equal(t, ilerr.Parse, err.Code())
}

func TestParseGenericParam(t *testing.T) {
	tests := []struct {
		src  string
		name string
		kind ir.ParamKind
	}{
		{"'a", "'a", ir.ParamLifetime},
		{"T", "T", ir.ParamType},
		{"const N: usize", "N", ir.ParamConst},
	}
	for _, tt := range tests {
		name, kind, err := parser.ParseGenericParam(tt.src, ir.Pos{})
		require.Nil(t, err, tt.src)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.kind, kind)
	}

	for _, bad := range []string{"", "const N", "const N: Vec", "T U", "&T"} {
		_, _, err := parser.ParseGenericParam(bad, ir.Pos{})
		assert.NotNil(t, err, bad)
	}
}

func TestNoPanics(t *testing.T) {
	inputs := []string{"", "&", "<", "<T as", "fn(", "for<'x", "dyn", "[T;", "Vec<", "'", "-", "{", "::"}
	for _, src := range inputs {
		assert.NotPanics(t, func() {
			_, _ = parser.ParseType(src, scope(), ir.Pos{})
			_, _ = parser.ParseBounds(src, &ir.Param{Name: "T", Index: 1}, scope(), ir.Pos{})
		}, src)
	}
}
