package crate_test

import (
	"os"
	"slices"
	"testing"

	"github.com/cottand/variance/crate"
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/frontend/variance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoCrate = `crate: demo
items:
  - name: Vec
    kind: struct
    external: true
    generics: [T]
    variances: ["+"]
  - name: Foo
    kind: struct
    generics: ["'a", T]
    attrs: [variance]
    fields:
      - name: r
        type: "&'a T"
  - name: Opt
    kind: enum
    generics: [T]
    variants:
      - name: Some
        fields: [T]
      - name: None
  - name: f
    kind: fn
    generics: [T]
    inputs: [Vec<T>]
    output: ()
`

func loadYAML(t *testing.T, src string) (*ir.Crate, *ilerr.Errors) {
	c, errs, err := crate.NewCrateFromBytes([]byte(src), "test.yaml")
	require.NoError(t, err)
	require.NotNil(t, c)
	return c, errs
}

func ids(c *ir.Crate) []ir.ItemID {
	var ids []ir.ItemID
	for item := range c.Items() {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestLoadYAML(t *testing.T) {
	c, errs := loadYAML(t, demoCrate)
	assert.False(t, errs.HasError(), "%v", errs.Errors())
	assert.Equal(t, "demo", c.Name)

	assert.Equal(t, []ir.ItemID{
		"Vec", "Vec::{ctor}",
		"Foo",
		"Opt", "Opt::Some", "Opt::Some::{ctor}", "Opt::None", "Opt::None::{ctor}",
		"f",
	}, ids(c))

	foo, ok := c.Item("Foo")
	require.True(t, ok)
	assert.Equal(t, ir.KindStruct, foo.Kind)
	assert.Equal(t, "test.yaml", foo.Filename)
	assert.Equal(t, 8, foo.Line)
	assert.Equal(t, 5, foo.Column)
	require.Len(t, foo.Fields, 1)
	assert.Equal(t, "r", foo.Fields[0].Name)
	assert.True(t, foo.HasAttr("variance"))

	opt, _ := c.Item("Opt")
	assert.Equal(t, []ir.ItemID{"Opt::Some", "Opt::None"}, opt.Variants)

	some, _ := c.Item("Opt::Some")
	assert.Equal(t, ir.KindVariant, some.Kind)
	assert.Equal(t, 1, some.Generics.ParentCount)
	assert.Empty(t, some.Generics.Params)

	ctor, _ := c.Item("Opt::Some::{ctor}")
	require.NotNil(t, ctor.Sig)
	assert.Len(t, ctor.Sig.Inputs, 1)
	output, ok := ctor.Sig.Output.(*ir.Adt)
	require.True(t, ok)
	assert.Equal(t, ir.ItemID("Opt"), output.Item)
	assert.Len(t, output.Args, 1)

	vec, _ := c.Item("Vec")
	assert.Equal(t, []ir.Variance{ir.Covariant}, vec.Declared)
	vecCtor, _ := c.Item("Vec::{ctor}")
	assert.True(t, vecCtor.External)
	assert.Equal(t, []ir.Variance{ir.Covariant}, vecCtor.Declared)
}

func TestLoadedCrateVariances(t *testing.T) {
	c, errs := loadYAML(t, demoCrate)
	require.False(t, errs.HasError())

	s := variance.NewSession(c, variance.DefaultConfig())
	cases := map[ir.ItemID]string{
		"Foo":       "[-, +]",
		"Opt":       "[+]",
		"Opt::Some": "[+]",
		"f":         "[-]",
	}
	for id, expected := range cases {
		assert.Equal(t, expected, ir.ShowVariances(s.VariancesOf(id)), "variances of %s", id)
	}

	dump := variance.Dump(s)
	require.Equal(t, 1, dump.Len())
	assert.Equal(t, "test.yaml:8:5: (E012) variances of Foo: [-, +]", ilerr.FormatWithPos(dump.Errors()[0]))
}

func TestLoadCUE(t *testing.T) {
	c, errs, err := crate.LoadCrate(os.DirFS("testdata"), "shapes.cue")
	require.NoError(t, err)
	assert.False(t, errs.HasError(), "%v", errs.Errors())
	assert.Equal(t, "shapes", c.Name)

	assert.Equal(t, []ir.ItemID{
		"Vec", "Vec::{ctor}",
		"Cell", "Cell::{ctor}",
		"Pair", "Pair::{ctor}",
		"Left", "Right",
	}, ids(c))

	pair, _ := c.Item("Pair")
	assert.Equal(t, "shapes.cue", pair.Filename)
	assert.Positive(t, pair.Line)
	assert.True(t, pair.HasAttr("variance"))
	require.Len(t, pair.Fields, 2)
	assert.Equal(t, "shapes.cue", pair.Fields[1].Filename)

	s := variance.NewSession(c, variance.DefaultConfig())
	assert.Equal(t, "[-, o]", ir.ShowVariances(s.VariancesOf("Pair")))
	assert.Equal(t, "[o]", ir.ShowVariances(s.VariancesOf("Left")))
	assert.Equal(t, "[o]", ir.ShowVariances(s.VariancesOf("Right")))
}

func TestCrateNameDefaultsToFile(t *testing.T) {
	c, _, err := crate.NewCrateFromBytes([]byte("items: []\n"), "mycrate.yml")
	require.NoError(t, err)
	assert.Equal(t, "mycrate", c.Name)
	assert.Zero(t, c.Len())
}

func TestUnreadableDescriptions(t *testing.T) {
	_, _, err := crate.NewCrateFromBytes([]byte("items: []"), "crate.toml")
	assert.ErrorContains(t, err, "unsupported crate description format")

	_, _, err = crate.NewCrateFromBytes([]byte("items: [\n"), "crate.yaml")
	assert.ErrorContains(t, err, "decode crate crate.yaml")

	_, _, err = crate.NewCrateFromBytes([]byte("items: [\n"), "crate.cue")
	assert.ErrorContains(t, err, "decode crate crate.cue")

	_, _, err = crate.LoadCrate(os.DirFS("testdata"), "missing.yaml")
	assert.ErrorContains(t, err, "read crate missing.yaml")
}

func TestAbsoluteNamesAndNesting(t *testing.T) {
	c, errs := loadYAML(t, `items:
  - name: Impl
    kind: impl
    generics: ["'a", T]
  - name: get
    kind: assoc_fn
    parent: Impl
    generics: [U]
    inputs: ["&'a T"]
    output: U
  - name: Impl::other
    kind: assoc_fn
    parent: Impl
    output: ()
`)
	require.False(t, errs.HasError(), "%v", errs.Errors())
	get, ok := c.Item("Impl::get")
	require.True(t, ok)
	assert.Equal(t, 2, get.Generics.ParentCount)
	assert.Equal(t, 2, get.Generics.Params[0].Index)

	other, ok := c.Item("Impl::other")
	require.True(t, ok)
	assert.Equal(t, ir.ItemID("Impl"), other.Parent)
	assert.Equal(t, 2, other.Generics.Count())

	s := variance.NewSession(c, variance.DefaultConfig())
	assert.Equal(t, "[+, -, +]", ir.ShowVariances(s.VariancesOf("Impl::get")))
	assert.Equal(t, "[*, *]", ir.ShowVariances(s.VariancesOf("Impl::other")))
}

func TestLoaderErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code ilerr.ErrCode
	}{
		{"unknown kind", `items: [{name: A, kind: class}]`, ilerr.UnknownItemKind},
		{"variants are not declared directly", `items: [{name: A, kind: variant}]`, ilerr.UnknownItemKind},
		{"duplicate", `items: [{name: A, kind: struct, fields: [{name: x, type: u8}]}, {name: A, kind: enum}]`, ilerr.DuplicateItem},
		{"unknown parent", `items: [{name: f, kind: fn, parent: Nope, output: ()}]`, ilerr.UnknownParent},
		{"parent cycle", `items: [{name: a::A, kind: mod, parent: b::B}, {name: b::B, kind: mod, parent: a::A}]`, ilerr.ParentCycle},
		{"external without variances", `items: [{name: V, kind: struct, external: true, generics: [T]}]`, ilerr.BadVariance},
		{"unknown variance", `items: [{name: V, kind: struct, external: true, generics: [T], variances: [sideways]}]`, ilerr.BadVariance},
		{"missing output", `items: [{name: f, kind: fn}]`, ilerr.MissingSignature},
		{"unresolved type", `items: [{name: S, kind: struct, fields: [Missing]}]`, ilerr.UnresolvedName},
		{"arity", `items: [{name: S, kind: struct, generics: [T], fields: ["S<T, T>"]}]`, ilerr.GenericArgCount},
		{"arg kind", `items: [{name: S, kind: struct, generics: ["'a"], fields: ["S<u8>"]}]`, ilerr.GenericArgKind},
		{"bad type", `items: [{name: S, kind: struct, fields: ["&&"]}]`, ilerr.Parse},
		{"bad generic", `items: [{name: S, kind: struct, generics: ["const"]}]`, ilerr.Parse},
		{"bad attribute", `items: [{name: S, kind: struct, attrs: ["variance(a"]}]`, ilerr.Parse},
		{"unnamed item", `items: [{kind: struct}]`, ilerr.Parse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := loadYAML(t, tc.src)
			require.True(t, errs.HasError())
			codes := make([]ilerr.ErrCode, 0, errs.Len())
			for _, err := range errs.Errors() {
				codes = append(codes, err.Code())
			}
			assert.True(t, slices.Contains(codes, tc.code), "expected %d in %v", tc.code, codes)
		})
	}
}

func TestParentCycleIsBroken(t *testing.T) {
	c, errs := loadYAML(t, `items:
  - {name: a::A, kind: mod, parent: b::B}
  - {name: b::B, kind: mod, parent: a::A}
`)
	require.Equal(t, 1, errs.Len())
	assert.Equal(t, "items are their own parents: a::A -> b::B -> a::A", errs.Errors()[0].Error())

	a, _ := c.Item("a::A")
	b, _ := c.Item("b::B")
	assert.Empty(t, a.Parent)
	assert.Equal(t, ir.ItemID("a::A"), b.Parent)
	assert.Equal(t, 2, c.Len())
}

func TestExternalWithBadVariancesIsInvariant(t *testing.T) {
	c, errs := loadYAML(t, `items: [{name: V, kind: struct, external: true, generics: [T, U], variances: ["+"]}]`)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Errors()[0].Error(), "expected 2 variances, found 1")
	v, _ := c.Item("V")
	assert.Equal(t, []ir.Variance{ir.Invariant, ir.Invariant}, v.Declared)
}
