package parser

import (
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
)

// ParseType parses a type expression like &'a mut Vec<T> in the scope of an item.
// at is the location the expression was written at, and is attached to any error
func ParseType(src string, scope Scope, at ir.Pos) (ir.Type, ilerr.IleError) {
	p := newParser(src, scope, at)
	return run(p, p.parseType)
}

// ParseBounds parses the bounds of an opaque type, where self is the opaque type itself.
//
// Bounds without a subject, like Iterator<Item = T> or 'a, apply to self.
// Explicit clauses like T: 'a or 'a: 'b are also accepted
func ParseBounds(src string, self ir.Type, scope Scope, at ir.Pos) ([]ir.Predicate, ilerr.IleError) {
	p := newParser(src, scope, at)
	return run(p, func() []ir.Predicate { return p.parseBounds(self) })
}

// ParseGenericParam parses a generic parameter declaration, like 'a, T or const N: usize
func ParseGenericParam(src string, at ir.Pos) (string, ir.ParamKind, ilerr.IleError) {
	p := newParser(src, Scope{}, at)
	type param struct {
		name string
		kind ir.ParamKind
	}
	res, err := run(p, func() param {
		name, kind := p.parseGenericParam()
		return param{name, kind}
	})
	return res.name, res.kind, err
}
