package walk_test

import (
	"fmt"
	"testing"

	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/frontend/walk"
	"github.com/stretchr/testify/assert"
)

type recordingPass struct {
	walk.BasePass
	events []string
}

func (r *recordingPass) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordingPass) CheckCrate(_ *walk.Context, c *ir.Crate) { r.record("crate %s", c.Name) }
func (r *recordingPass) CheckCrateEnd(_ *walk.Context, c *ir.Crate) {
	r.record("end %s", c.Name)
}
func (r *recordingPass) EnterAttrs(_ *walk.Context, attrs []ir.Attribute) {
	r.record("enter %d", len(attrs))
}
func (r *recordingPass) ExitAttrs(_ *walk.Context, attrs []ir.Attribute) {
	r.record("exit %d", len(attrs))
}
func (r *recordingPass) CheckItem(cx *walk.Context, item *ir.Item) {
	r.record("item %s dump=%v last=%s", item.ID, cx.HasAttr("dump"), cx.LastNodeWithAttrs)
}
func (r *recordingPass) CheckItemPost(_ *walk.Context, item *ir.Item) {
	r.record("post %s", item.ID)
}
func (r *recordingPass) CheckGenericParam(_ *walk.Context, param ir.GenericParam) {
	r.record("param %s", param.Name)
}
func (r *recordingPass) CheckField(cx *walk.Context, field *ir.Field) {
	r.record("field %s of %s", field.Name, cx.Item.ID)
}

func testCrate() *ir.Crate {
	c := ir.NewCrate("walked")
	c.Add(&ir.Item{ID: "m", Kind: ir.KindMod, Attrs: []ir.Attribute{{Name: "dump"}}})
	c.Add(&ir.Item{
		ID:     "m::S",
		Kind:   ir.KindStruct,
		Parent: "m",
		Generics: ir.Generics{Params: []ir.GenericParam{
			{Name: "T", Kind: ir.ParamType, Index: 0, Owner: "m::S"},
		}},
		Fields: []ir.Field{{Name: "x", Type: &ir.Param{Name: "T", Index: 0}}},
	})
	c.Add(&ir.Item{ID: "f", Kind: ir.KindFn, Sig: &ir.FnSig{Output: &ir.Tuple{}}})
	return c
}

func TestWalkOrder(t *testing.T) {
	pass := &recordingPass{}
	walk.Walk(testCrate(), pass)

	assert.Equal(t, []string{
		"crate walked",
		"enter 1",
		"item m dump=true last=m",
		"enter 0",
		"item m::S dump=true last=m",
		"param T",
		"field x of m::S",
		"post m::S",
		"exit 0",
		"post m",
		"exit 1",
		"enter 0",
		"item f dump=false last=",
		"post f",
		"exit 0",
		"end walked",
	}, pass.events)
}

type attrPass struct {
	walk.BasePass
	seen map[ir.ItemID]string
}

func (a *attrPass) CheckItem(cx *walk.Context, item *ir.Item) {
	if attr, ok := cx.Attr("tag"); ok {
		a.seen[item.ID] = attr.Args[0]
	}
}

func TestInnermostAttrWins(t *testing.T) {
	c := ir.NewCrate("attrs")
	c.Add(&ir.Item{ID: "outer", Kind: ir.KindMod, Attrs: []ir.Attribute{{Name: "tag", Args: []string{"outer"}}}})
	c.Add(&ir.Item{ID: "outer::inner", Kind: ir.KindMod, Parent: "outer", Attrs: []ir.Attribute{{Name: "tag", Args: []string{"inner"}}}})
	c.Add(&ir.Item{ID: "outer::inner::x", Kind: ir.KindConst, Parent: "outer::inner"})
	c.Add(&ir.Item{ID: "outer::y", Kind: ir.KindConst, Parent: "outer"})

	pass := &attrPass{seen: map[ir.ItemID]string{}}
	walk.Walk(c, pass)

	assert.Equal(t, map[ir.ItemID]string{
		"outer":           "outer",
		"outer::inner":    "inner",
		"outer::inner::x": "inner",
		"outer::y":        "outer",
	}, pass.seen)
}

func TestMultiplePassesRunInOrder(t *testing.T) {
	first, second := &recordingPass{}, &recordingPass{}
	walk.Walk(testCrate(), first, second)
	assert.Equal(t, first.events, second.events)
}
