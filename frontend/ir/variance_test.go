package ir_test

import (
	"fmt"
	"testing"

	"github.com/cottand/variance/frontend/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	co    = ir.Covariant
	contr = ir.Contravariant
	inv   = ir.Invariant
	biv   = ir.Bivariant
)

func TestJoinLaws(t *testing.T) {
	for _, a := range ir.AllVariances {
		assert.Equal(t, a, a.Join(a), "join(%s, %s) should be idempotent", a, a)
		assert.Equal(t, a, a.Join(biv), "bivariant is the identity of join")
		assert.Equal(t, a, biv.Join(a), "bivariant is the identity of join")
		assert.Equal(t, inv, a.Join(inv), "invariant absorbs")
		for _, b := range ir.AllVariances {
			assert.Equal(t, a.Join(b), b.Join(a), "join(%s, %s) should commute", a, b)
			for _, c := range ir.AllVariances {
				assert.Equal(t, a.Join(b.Join(c)), a.Join(b).Join(c), "join(%s, %s, %s) should associate", a, b, c)
			}
		}
	}
}

func TestJoinOfDifferentMiddleElements(t *testing.T) {
	assert.Equal(t, inv, co.Join(contr))
	assert.Equal(t, inv, contr.Join(co))
}

func TestXformTable(t *testing.T) {
	table := map[ir.Variance]map[ir.Variance]ir.Variance{
		co:    {co: co, contr: contr, inv: inv, biv: biv},
		contr: {co: contr, contr: co, inv: inv, biv: biv},
		inv:   {co: inv, contr: inv, inv: inv, biv: inv},
		biv:   {co: biv, contr: biv, inv: biv, biv: biv},
	}
	count := 0
	for outer, row := range table {
		for inner, expected := range row {
			t.Run(fmt.Sprintf("%s.xform(%s)", outer.Name(), inner.Name()), func(t *testing.T) {
				assert.Equal(t, expected, outer.Xform(inner))
			})
			count++
		}
	}
	assert.Equal(t, 16, count)
}

func TestParseVariance(t *testing.T) {
	for _, v := range ir.AllVariances {
		parsed, err := ir.ParseVariance(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)

		parsed, err = ir.ParseVariance(v.Name())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	_, err := ir.ParseVariance("sideways")
	assert.Error(t, err)
}

func TestShowVariances(t *testing.T) {
	assert.Equal(t, "[+, -, o, *]", ir.ShowVariances([]ir.Variance{co, contr, inv, biv}))
	assert.Equal(t, "[]", ir.ShowVariances(nil))
}
