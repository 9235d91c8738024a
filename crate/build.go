package crate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/parser"
	"github.com/hashicorp/go-set/v3"
)

// CtorName is the last segment of the ID of constructor items
const CtorName = "{ctor}"

// pending is an item that was declared but whose types are not resolved yet
type pending struct {
	item *ir.Item

	fields    []fieldDesc
	inputs    []string
	output    *string
	bounds    []string
	variances []string

	// ctorOf is the struct or variant a constructor builds
	ctorOf ir.ItemID
	// resolved is set once the absolute indices of the generics are known
	resolved bool
}

type builder struct {
	crate  *ir.Crate
	errors *ilerr.Errors

	items map[ir.ItemID]*pending
	order []*pending
}

func build(desc crateDesc) (*ir.Crate, *ilerr.Errors) {
	b := &builder{
		crate: ir.NewCrate(desc.Crate),
		items: make(map[ir.ItemID]*pending, len(desc.Items)),
	}
	for i := range desc.Items {
		b.declare(&desc.Items[i])
	}
	b.resolveParents()
	for _, p := range b.order {
		b.resolveGenerics(p)
	}
	for _, p := range b.order {
		b.crate.Add(p.item)
	}
	for _, p := range b.order {
		b.resolveTypes(p)
		b.resolveVariances(p)
	}
	logger.Debug("built crate", "crate", b.crate.Name, "items", b.crate.Len(), "errors", b.errors.Len())
	return b.crate, b.errors
}

func (b *builder) report(err ilerr.IleError) {
	b.errors = b.errors.With(err)
}

func (b *builder) add(p *pending) bool {
	if existing, ok := b.items[p.item.ID]; ok {
		b.report(ilerr.New(ilerr.NewDuplicateItem{Pos: p.item.Pos, ID: p.item.ID, Other: existing.item.Pos}))
		return false
	}
	b.items[p.item.ID] = p
	b.order = append(b.order, p)
	return true
}

func childID(parent ir.ItemID, name string) ir.ItemID {
	if parent == "" {
		return ir.ItemID(name)
	}
	return parent + "::" + ir.ItemID(name)
}

// declare registers the item described by desc, together with the
// variants and constructors it implies
func (b *builder) declare(desc *itemDesc) {
	if desc.Name == "" {
		b.report(ilerr.New(ilerr.NewParse{Pos: desc.pos, ParserMessage: "item has no name"}))
		return
	}
	// names with a path are already the full ID
	id := ir.ItemID(desc.Name)
	if !strings.Contains(desc.Name, "::") {
		id = childID(ir.ItemID(desc.Parent), desc.Name)
	}
	kind, ok := ir.ParseItemKind(desc.Kind)
	// variants and constructors only exist through the items that define them
	if !ok || kind == ir.KindVariant || kind == ir.KindCtor {
		b.report(ilerr.New(ilerr.NewUnknownItemKind{Pos: desc.pos, ID: id, Kind: desc.Kind}))
		return
	}

	item := &ir.Item{
		ID:       id,
		Kind:     kind,
		Parent:   ir.ItemID(desc.Parent),
		External: desc.External,
		Attrs:    b.attrs(desc.Attrs, desc.pos),
		Pos:      desc.pos,
	}
	for _, src := range desc.Generics {
		name, paramKind, err := parser.ParseGenericParam(src, desc.pos)
		if err != nil {
			b.report(err)
			continue
		}
		item.Generics.Params = append(item.Generics.Params, ir.GenericParam{Name: name, Kind: paramKind, Owner: id})
	}
	p := &pending{
		item:      item,
		fields:    desc.Fields,
		inputs:    desc.Inputs,
		output:    desc.Output,
		bounds:    desc.Bounds,
		variances: desc.Variances,
	}
	if !b.add(p) {
		return
	}

	switch kind {
	case ir.KindStruct:
		b.declareCtor(item, desc.Fields)
	case ir.KindEnum:
		for _, variant := range desc.Variants {
			b.declareVariant(item, variant)
		}
	}
}

func (b *builder) declareVariant(enum *ir.Item, desc variantDesc) {
	variant := &ir.Item{
		ID:       childID(enum.ID, desc.Name),
		Kind:     ir.KindVariant,
		Parent:   enum.ID,
		External: enum.External,
		Attrs:    b.attrs(desc.Attrs, desc.pos),
		Pos:      desc.pos,
	}
	if !b.add(&pending{item: variant, fields: desc.Fields}) {
		return
	}
	enum.Variants = append(enum.Variants, variant.ID)
	b.declareCtor(variant, desc.Fields)
}

// declareCtor adds the constructor function of owner, which tuple-like and unit structs and variants have
func (b *builder) declareCtor(owner *ir.Item, fields []fieldDesc) {
	if slices.ContainsFunc(fields, func(f fieldDesc) bool { return f.Name != "" }) {
		return
	}
	ctor := &ir.Item{
		ID:       childID(owner.ID, CtorName),
		Kind:     ir.KindCtor,
		Parent:   owner.ID,
		External: owner.External,
		Pos:      owner.Pos,
	}
	b.add(&pending{item: ctor, ctorOf: owner.ID})
}

// resolveParents drops parents that do not exist or that make an item its own ancestor
func (b *builder) resolveParents() {
	for _, p := range b.order {
		parent := p.item.Parent
		if parent == "" {
			continue
		}
		if _, ok := b.items[parent]; !ok {
			b.report(ilerr.New(ilerr.NewUnknownParent{Pos: p.item.Pos, ID: p.item.ID, Parent: parent}))
			p.item.Parent = ""
		}
	}
	for _, p := range b.order {
		cycle := []ir.ItemID{p.item.ID}
		seen := set.From(cycle)
		for current := p.item.Parent; current != ""; current = b.items[current].item.Parent {
			cycle = append(cycle, current)
			if current == p.item.ID {
				b.report(ilerr.New(ilerr.NewParentCycle{Pos: p.item.Pos, Cycle: cycle}))
				p.item.Parent = ""
				break
			}
			// a cycle further up, which is reported for the items in it
			if !seen.Insert(current) {
				break
			}
		}
	}
}

// resolveGenerics computes the absolute indices of the generics of p, after the ones of its parents
func (b *builder) resolveGenerics(p *pending) {
	if p.resolved {
		return
	}
	p.resolved = true
	generics := &p.item.Generics
	if parent := p.item.Parent; parent != "" {
		b.resolveGenerics(b.items[parent])
		generics.Parent = parent
		generics.ParentCount = b.items[parent].item.Generics.Count()
	}
	for i := range generics.Params {
		generics.Params[i].Index = generics.ParentCount + i
	}
}

func (b *builder) parseType(src string, in ir.ItemID, at ir.Pos) (ir.Type, bool) {
	ty, err := parser.ParseType(src, parser.Scope{Crate: b.crate, Item: in}, at)
	if err != nil {
		b.report(err)
		return nil, false
	}
	return ty, true
}

func (b *builder) resolveTypes(p *pending) {
	item := p.item
	for _, field := range p.fields {
		pos := field.pos
		if !pos.Position().IsValid() {
			pos = item.Pos
		}
		if ty, ok := b.parseType(field.Type, item.ID, pos); ok {
			item.Fields = append(item.Fields, ir.Field{Name: field.Name, Type: ty, Pos: pos})
		}
	}

	switch item.Kind {
	case ir.KindFn, ir.KindAssocFn:
		sig := &ir.FnSig{Output: &ir.Tuple{}}
		for _, src := range p.inputs {
			if ty, ok := b.parseType(src, item.ID, item.Pos); ok {
				sig.Inputs = append(sig.Inputs, ty)
			}
		}
		switch {
		case p.output != nil:
			if ty, ok := b.parseType(*p.output, item.ID, item.Pos); ok {
				sig.Output = ty
			}
		case !item.External:
			b.report(ilerr.New(ilerr.NewMissingSignature{Pos: item.Pos, ID: item.ID}))
		}
		item.Sig = sig

	case ir.KindCtor:
		owner := b.items[p.ctorOf].item
		adt := owner.ID
		if owner.Kind == ir.KindVariant {
			adt = owner.Parent
		}
		sig := &ir.FnSig{Output: &ir.Adt{Item: adt, Args: ir.IdentityArgs(b.crate, adt)}}
		for _, field := range owner.Fields {
			sig.Inputs = append(sig.Inputs, field.Type)
		}
		item.Sig = sig

	case ir.KindOpaque:
		self := &ir.Opaque{Item: item.ID, Args: ir.IdentityArgs(b.crate, item.ID)}
		for _, src := range p.bounds {
			preds, err := parser.ParseBounds(src, self, parser.Scope{Crate: b.crate, Item: item.ID}, item.Pos)
			if err != nil {
				b.report(err)
				continue
			}
			item.Bounds = append(item.Bounds, preds...)
		}
	}
}

// resolveVariances parses the declared variances of p. External items must declare
// one per generic parameter, and get Invariant for all of them when they do not
func (b *builder) resolveVariances(p *pending) {
	item := p.item
	count := item.Generics.Count()
	if len(p.variances) == 0 && !item.External {
		return
	}
	bad := func(reason string) {
		b.report(ilerr.New(ilerr.NewBadVariance{Pos: item.Pos, ID: item.ID, Reason: reason}))
		if item.External {
			item.Declared = slices.Repeat([]ir.Variance{ir.Invariant}, count)
		}
	}
	if len(p.variances) != count {
		// variants and constructors of external items take the variances of what defines them
		if item.External && len(p.variances) == 0 && (item.Kind == ir.KindVariant || item.Kind == ir.KindCtor) {
			item.Declared = b.inheritedVariances(item)
			return
		}
		bad(fmt.Sprintf("expected %d variances, found %d", count, len(p.variances)))
		return
	}
	declared := make([]ir.Variance, 0, count)
	for _, src := range p.variances {
		v, err := ir.ParseVariance(src)
		if err != nil {
			bad(err.Error())
			return
		}
		declared = append(declared, v)
	}
	item.Declared = declared
}

func (b *builder) inheritedVariances(item *ir.Item) []ir.Variance {
	count := item.Generics.Count()
	if parent, ok := b.items[item.Parent]; ok && len(parent.item.Declared) == count {
		return slices.Clone(parent.item.Declared)
	}
	return slices.Repeat([]ir.Variance{ir.Invariant}, count)
}

// attrs parses attributes written like name or name(a, b)
func (b *builder) attrs(srcs []string, at ir.Pos) []ir.Attribute {
	var attrs []ir.Attribute
	for _, src := range srcs {
		attr, err := parseAttr(src, at)
		if err != nil {
			b.report(err)
			continue
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func parseAttr(src string, at ir.Pos) (ir.Attribute, ilerr.IleError) {
	fail := func(offset int, msg string) (ir.Attribute, ilerr.IleError) {
		return ir.Attribute{}, ilerr.New(ilerr.NewParse{Pos: at, Source: src, Offset: offset, ParserMessage: msg})
	}
	trimmed := strings.TrimSpace(src)
	name, rest, hasArgs := strings.Cut(trimmed, "(")
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t)") {
		return fail(0, "expected an attribute name")
	}
	attr := ir.Attribute{Name: name, Pos: at}
	if !hasArgs {
		return attr, nil
	}
	inner, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return fail(len(src), "expected ')'")
	}
	if strings.TrimSpace(inner) == "" {
		return attr, nil
	}
	for _, arg := range strings.Split(inner, ",") {
		attr.Args = append(attr.Args, strings.TrimSpace(arg))
	}
	return attr, nil
}
