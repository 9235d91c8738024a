package ir

import (
	"fmt"
	"go/token"
	"iter"
	"slices"
)

// Positioner allows finding the location in the crate description an IR node was declared at.
// The easiest way to be a Positioner is to embed a Pos
type Positioner interface {
	Position() token.Position
}

// Pos is a location inside a crate description file.
// The zero Pos is valid and means the location is unknown
type Pos token.Position

func (p Pos) Position() token.Position { return token.Position(p) }
func (p Pos) String() string {
	if !token.Position(p).IsValid() {
		return "-"
	}
	return token.Position(p).String()
}

var _ Positioner = Pos{}
var _ Positioner = (*Item)(nil)

// Crate is the unit variance is computed for.
// It holds every item of the program in declaration order
type Crate struct {
	Name string

	items    map[ItemID]*Item
	order    []ItemID
	children map[ItemID][]ItemID
}

func NewCrate(name string) *Crate {
	return &Crate{
		Name:     name,
		items:    make(map[ItemID]*Item),
		children: make(map[ItemID][]ItemID),
	}
}

// Add registers item in the crate. It returns false if an item
// with the same ID was already present, in which case the crate is unchanged
func (c *Crate) Add(item *Item) bool {
	if _, ok := c.items[item.ID]; ok {
		return false
	}
	c.items[item.ID] = item
	c.order = append(c.order, item.ID)
	if item.Parent != "" {
		c.children[item.Parent] = append(c.children[item.Parent], item.ID)
	}
	return true
}

func (c *Crate) Item(id ItemID) (*Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *Crate) Len() int {
	return len(c.order)
}

// Items iterates over all items in declaration order
func (c *Crate) Items() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, id := range c.order {
			if !yield(c.items[id]) {
				return
			}
		}
	}
}

// TopLevel iterates over the items that are not nested in any other item
func (c *Crate) TopLevel() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, id := range c.order {
			item := c.items[id]
			if item.Parent != "" {
				if _, ok := c.items[item.Parent]; ok {
					continue
				}
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Children iterates over the items that name id as their parent, in declaration order
func (c *Crate) Children(id ItemID) iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, child := range c.children[id] {
			if !yield(c.items[child]) {
				return
			}
		}
	}
}

// GenericsOf returns the generics of the item with the given id, or nil if there is no such item
func (c *Crate) GenericsOf(id ItemID) *Generics {
	item, ok := c.items[id]
	if !ok {
		return nil
	}
	return &item.Generics
}

// Params iterates over all the generic parameters in scope for id, parents first,
// which is also the order of their indices
func (c *Crate) Params(id ItemID) iter.Seq[GenericParam] {
	return func(yield func(GenericParam) bool) {
		var chain []*Generics
		seen := make(map[ItemID]struct{})
		for current := id; current != ""; {
			if _, ok := seen[current]; ok {
				break
			}
			seen[current] = struct{}{}
			g := c.GenericsOf(current)
			if g == nil {
				break
			}
			chain = append(chain, g)
			current = g.Parent
		}
		for _, g := range slices.Backward(chain) {
			for _, param := range g.Params {
				if !yield(param) {
					return
				}
			}
		}
	}
}

// Param returns the generic parameter at index for the item id, which may belong to one of its parents
func (c *Crate) Param(id ItemID, index int) (GenericParam, bool) {
	for param := range c.Params(id) {
		if param.Index == index {
			return param, true
		}
	}
	return GenericParam{}, false
}

func (c *Crate) String() string {
	return fmt.Sprintf("crate %s (%d items)", c.Name, len(c.order))
}
