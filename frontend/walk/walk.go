// Package walk traverses a crate in lexical order, invoking the callbacks of a set of passes
// on every item and field, while keeping track of the attributes in scope.
package walk

import (
	"log/slog"

	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/internal/log"
	"github.com/cottand/variance/util"
)

var logger = slog.New(ir.SlogHandler(log.DefaultLogger.Handler())).With("section", "walk")

// Pass receives callbacks during Walk. For a single item they are called in this order:
//
//	EnterAttrs, CheckItem, CheckGenericParam (own parameters), CheckField,
//	nested items, CheckItemPost, ExitAttrs
//
// CheckCrate is called before any item and CheckCrateEnd after all of them.
// Embed BasePass to only implement the callbacks you need
type Pass interface {
	Name() string
	CheckCrate(cx *Context, crate *ir.Crate)
	CheckCrateEnd(cx *Context, crate *ir.Crate)
	EnterAttrs(cx *Context, attrs []ir.Attribute)
	ExitAttrs(cx *Context, attrs []ir.Attribute)
	CheckItem(cx *Context, item *ir.Item)
	CheckItemPost(cx *Context, item *ir.Item)
	CheckGenericParam(cx *Context, param ir.GenericParam)
	CheckField(cx *Context, field *ir.Field)
}

type BasePass struct{}

func (BasePass) Name() string { return "base" }
func (BasePass) CheckCrate(*Context, *ir.Crate) {}
func (BasePass) CheckCrateEnd(*Context, *ir.Crate) {}
func (BasePass) EnterAttrs(*Context, []ir.Attribute) {}
func (BasePass) ExitAttrs(*Context, []ir.Attribute) {}
func (BasePass) CheckItem(*Context, *ir.Item) {}
func (BasePass) CheckItemPost(*Context, *ir.Item) {}
func (BasePass) CheckGenericParam(*Context, ir.GenericParam) {}
func (BasePass) CheckField(*Context, *ir.Field) {}

var _ Pass = BasePass{}

// Context is the state shared by all passes during a walk
type Context struct {
	Crate *ir.Crate
	// Item is the innermost item being walked, nil outside any item
	Item *ir.Item
	// Generics of Item, nil outside any item
	Generics *ir.Generics
	// LastNodeWithAttrs is the innermost item that carries attributes
	LastNodeWithAttrs ir.ItemID

	attrs util.Stack[[]ir.Attribute]
}

// HasAttr reports whether an attribute called name is in scope, either on the
// current item or on any item enclosing it
func (cx *Context) HasAttr(name string) bool {
	_, ok := cx.Attr(name)
	return ok
}

// Attr returns the innermost attribute in scope called name
func (cx *Context) Attr(name string) (ir.Attribute, bool) {
	for attrs := range cx.attrs.TopDown() {
		for _, attr := range attrs {
			if attr.Name == name {
				return attr, true
			}
		}
	}
	return ir.Attribute{}, false
}

// Depth is the number of items enclosing the current position, including the current item
func (cx *Context) Depth() int {
	return cx.attrs.Len()
}

// Walk visits every item of crate, parents before children, calling passes in the order they are given
func Walk(crate *ir.Crate, passes ...Pass) {
	cx := &Context{Crate: crate}
	for _, p := range passes {
		p.CheckCrate(cx, crate)
	}
	for item := range crate.TopLevel() {
		cx.visitItem(item, passes)
	}
	for _, p := range passes {
		p.CheckCrateEnd(cx, crate)
	}
}

func (cx *Context) visitItem(item *ir.Item, passes []Pass) {
	logger.Debug("visiting item", "item", item, "depth", cx.attrs.Len())

	cx.withAttrs(item, passes, func() {
		prevItem, prevGenerics := cx.Item, cx.Generics
		cx.Item, cx.Generics = item, &item.Generics
		defer func() { cx.Item, cx.Generics = prevItem, prevGenerics }()

		for _, p := range passes {
			p.CheckItem(cx, item)
		}
		for _, param := range item.Generics.Params {
			for _, p := range passes {
				p.CheckGenericParam(cx, param)
			}
		}
		for i := range item.Fields {
			for _, p := range passes {
				p.CheckField(cx, &item.Fields[i])
			}
		}
		for child := range cx.Crate.Children(item.ID) {
			cx.visitItem(child, passes)
		}
		for _, p := range passes {
			p.CheckItemPost(cx, item)
		}
	})
}

func (cx *Context) withAttrs(item *ir.Item, passes []Pass, f func()) {
	prev := cx.LastNodeWithAttrs
	if len(item.Attrs) > 0 {
		cx.LastNodeWithAttrs = item.ID
	}
	cx.attrs.Push(item.Attrs)
	for _, p := range passes {
		p.EnterAttrs(cx, item.Attrs)
	}

	f()

	for _, p := range passes {
		p.ExitAttrs(cx, item.Attrs)
	}
	cx.attrs.Pop()
	cx.LastNodeWithAttrs = prev
}
