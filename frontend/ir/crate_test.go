package ir_test

import (
	"slices"
	"testing"

	"github.com/cottand/variance/frontend/ir"
	"github.com/stretchr/testify/assert"
)

// implCrate has an impl<'a, T> with an assoc fn<U>
func implCrate() *ir.Crate {
	c := ir.NewCrate("test")
	c.Add(&ir.Item{
		ID:   "Impl",
		Kind: ir.KindImpl,
		Generics: ir.Generics{Params: []ir.GenericParam{
			{Name: "'a", Kind: ir.ParamLifetime, Index: 0, Owner: "Impl"},
			{Name: "T", Kind: ir.ParamType, Index: 1, Owner: "Impl"},
		}},
	})
	c.Add(&ir.Item{
		ID:     "Impl::get",
		Kind:   ir.KindAssocFn,
		Parent: "Impl",
		Generics: ir.Generics{Parent: "Impl", ParentCount: 2, Params: []ir.GenericParam{
			{Name: "U", Kind: ir.ParamType, Index: 2, Owner: "Impl::get"},
		}},
		Sig: &ir.FnSig{},
	})
	return c
}

func TestCrateParamsParentsFirst(t *testing.T) {
	c := implCrate()
	var names []string
	for p := range c.Params("Impl::get") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"'a", "T", "U"}, names)

	p, ok := c.Param("Impl::get", 1)
	assert.True(t, ok)
	assert.Equal(t, ir.ItemID("Impl"), p.Owner)

	assert.Equal(t, 3, c.GenericsOf("Impl::get").Count())
	assert.Nil(t, c.GenericsOf("Nope"))
}

func TestCrateDuplicateAndChildren(t *testing.T) {
	c := implCrate()
	assert.False(t, c.Add(&ir.Item{ID: "Impl", Kind: ir.KindImpl}))
	assert.Equal(t, 2, c.Len())

	children := slices.Collect(c.Children("Impl"))
	assert.Len(t, children, 1)
	assert.Equal(t, ir.ItemID("Impl::get"), children[0].ID)

	top := slices.Collect(c.TopLevel())
	assert.Len(t, top, 1)
	assert.Equal(t, "get", children[0].Name())
}

func TestIdentitySubstIsNoOp(t *testing.T) {
	c := implCrate()
	args := ir.IdentityArgs(c, "Impl::get")
	ty := &ir.Ref{
		Region: &ir.EarlyBound{Name: "'a", Index: 0},
		Elem:   &ir.Adt{Item: "Vec", Args: []ir.GenericArg{&ir.Param{Name: "U", Index: 2}}},
	}
	assert.Equal(t, ty.String(), ir.SubstType(ty, args).String())
}

func TestSubstReplacesByIndex(t *testing.T) {
	ty := &ir.Tuple{Elems: []ir.Type{
		&ir.Param{Name: "T", Index: 0},
		&ir.Ref{Region: &ir.EarlyBound{Name: "'a", Index: 1}, Mutable: true, Elem: &ir.Param{Name: "T", Index: 0}},
	}}
	substituted := ir.SubstType(ty, []ir.GenericArg{&ir.Primitive{Name: "u8"}, &ir.Static{}})
	assert.Equal(t, "(u8, &'static mut u8)", substituted.String())
}

func TestWalkVisitsNestedArgs(t *testing.T) {
	ty := &ir.FnPtr{Sig: ir.FnSig{
		Inputs: []ir.Type{&ir.Slice{Elem: &ir.Param{Name: "T", Index: 0}}},
		Output: &ir.Array{Elem: &ir.Never{}, Len: &ir.ConstParam{Name: "N", Index: 1}},
	}}
	var params []string
	ir.Walk(ty, func(arg ir.GenericArg) bool {
		switch arg := arg.(type) {
		case *ir.Param:
			params = append(params, arg.Name)
		case *ir.ConstParam:
			params = append(params, arg.Name)
		}
		return true
	})
	assert.Equal(t, []string{"T", "N"}, params)
	assert.Equal(t, "fn([T]) -> [!; N]", ty.String())
}
