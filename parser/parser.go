package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
)

// Scope resolves the names used in type expressions written inside Item
type Scope struct {
	Crate *ir.Crate
	Item  ir.ItemID
}

func (s Scope) lookupParam(name string) (found ir.GenericParam, ok bool) {
	// later parameters shadow earlier ones, so own parameters win over inherited ones
	for param := range s.Crate.Params(s.Item) {
		if param.Name == name {
			found, ok = param, true
		}
	}
	return found, ok
}

func (s Scope) lookupItem(name string) (*ir.Item, bool) {
	return s.Crate.Item(ir.ItemID(name))
}

// bailout is used to unwind the parser on the first error
type bailout struct{ err ilerr.IleError }

// rawArg is a generic argument as written, which may be an associated item binding
// like Item = T inside a trait path
type rawArg struct {
	arg     ir.GenericArg
	binding string
	offset  int
}

type parser struct {
	lex   *lexer
	src   string
	cur   token
	peek  token
	scope Scope
	at    ir.Pos
	// binders holds the late-bound regions of the for<..> binders we are inside of
	binders [][]string
}

func newParser(src string, scope Scope, at ir.Pos) *parser {
	p := &parser{lex: newLexer(src), src: src, scope: scope, at: at}
	p.cur = p.lex.next()
	p.peek = p.lex.next()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

func (p *parser) fail(offset int, format string, args ...any) {
	panic(bailout{ilerr.New(ilerr.NewParse{
		Pos:           p.at,
		Source:        p.src,
		Offset:        offset,
		ParserMessage: fmt.Sprintf(format, args...),
	})})
}

func (p *parser) failWith(err ilerr.IleError) {
	panic(bailout{err})
}

func (p *parser) expect(typ tokenType) token {
	tok := p.cur
	if tok.typ != typ {
		p.fail(tok.offset, "expected %s, found %s", typ, tok)
	}
	p.advance()
	return tok
}

func (p *parser) isKeyword(word string) bool {
	return p.cur.typ == tokIdent && p.cur.literal == word
}

func (p *parser) expectKeyword(word string) {
	if !p.isKeyword(word) {
		p.fail(p.cur.offset, "expected '%s', found %s", word, p.cur)
	}
	p.advance()
}

func (p *parser) expectEOF() {
	if p.cur.typ != tokEOF {
		p.fail(p.cur.offset, "unexpected %s", p.cur)
	}
}

// run calls f and turns a bailout into an error
func run[A any](p *parser, f func() A) (result A, err ilerr.IleError) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	result = f()
	p.expectEOF()
	return result, nil
}

func (p *parser) parseType() ir.Type {
	switch p.cur.typ {
	case tokAmp:
		p.advance()
		var region ir.Region = &ir.Anon{}
		if p.cur.typ == tokLifetime {
			region = p.resolveRegion(p.cur)
			p.advance()
		}
		mutable := false
		if p.isKeyword("mut") {
			mutable = true
			p.advance()
		}
		return &ir.Ref{Region: region, Mutable: mutable, Elem: p.parseType()}
	case tokStar:
		p.advance()
		var mutable bool
		switch {
		case p.isKeyword("mut"):
			mutable = true
		case p.isKeyword("const"):
		default:
			p.fail(p.cur.offset, "expected 'const' or 'mut' after '*', found %s", p.cur)
		}
		p.advance()
		return &ir.RawPtr{Mutable: mutable, Elem: p.parseType()}
	case tokLBracket:
		p.advance()
		elem := p.parseType()
		if p.cur.typ == tokSemicolon {
			p.advance()
			length := p.parseConst()
			p.expect(tokRBracket)
			return &ir.Array{Elem: elem, Len: length}
		}
		p.expect(tokRBracket)
		return &ir.Slice{Elem: elem}
	case tokLParen:
		return p.parseTuple()
	case tokBang:
		p.advance()
		return &ir.Never{}
	case tokLt:
		return p.parseQualifiedPath()
	case tokIdent:
		switch p.cur.literal {
		case "fn":
			return p.parseFnPtr(nil)
		case "for":
			return p.parseBinder()
		case "dyn":
			return p.parseDyn()
		case "mut", "const", "as":
			p.fail(p.cur.offset, "expected a type, found keyword '%s'", p.cur.literal)
		}
		offset := p.cur.offset
		name, args := p.parsePath()
		return p.pathToType(name, args, offset)
	default:
		p.fail(p.cur.offset, "expected a type, found %s", p.cur)
		return nil
	}
}

func (p *parser) parseTuple() ir.Type {
	p.expect(tokLParen)
	if p.cur.typ == tokRParen {
		p.advance()
		return &ir.Tuple{}
	}
	first := p.parseType()
	if p.cur.typ == tokRParen {
		// (T) is just T
		p.advance()
		return first
	}
	elems := []ir.Type{first}
	for p.cur.typ == tokComma {
		p.advance()
		if p.cur.typ == tokRParen {
			break
		}
		elems = append(elems, p.parseType())
	}
	p.expect(tokRParen)
	return &ir.Tuple{Elems: elems}
}

// parseQualifiedPath parses <T as Trait<A>>::Assoc
func (p *parser) parseQualifiedPath() ir.Type {
	p.expect(tokLt)
	self := p.parseType()
	p.expectKeyword("as")
	offset := p.cur.offset
	name, raw := p.parsePath()
	trait := p.resolveTrait(name, offset)
	args := p.argsWithoutBindings(raw)
	p.checkArgs(trait, args)
	p.expect(tokGt)
	p.expect(tokPath)
	assoc := p.expect(tokIdent)
	return &ir.Projection{
		Trait: trait.ID,
		Assoc: assoc.literal,
		Args:  append([]ir.GenericArg{self}, args...),
	}
}

func (p *parser) parseBinder() ir.Type {
	p.expectKeyword("for")
	p.expect(tokLt)
	var names []string
	for p.cur.typ != tokGt {
		names = append(names, p.expect(tokLifetime).literal)
		if p.cur.typ != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokGt)
	if !p.isKeyword("fn") {
		p.fail(p.cur.offset, "expected 'fn' after for<..>, found %s", p.cur)
	}
	return p.parseFnPtr(names)
}

func (p *parser) parseFnPtr(bound []string) ir.Type {
	p.binders = append(p.binders, bound)
	defer func() { p.binders = p.binders[:len(p.binders)-1] }()

	p.expectKeyword("fn")
	p.expect(tokLParen)
	var inputs []ir.Type
	for p.cur.typ != tokRParen {
		inputs = append(inputs, p.parseType())
		if p.cur.typ != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokRParen)
	var output ir.Type = &ir.Tuple{}
	if p.cur.typ == tokArrow {
		p.advance()
		output = p.parseType()
	}
	return &ir.FnPtr{BoundRegions: bound, Sig: ir.FnSig{Inputs: inputs, Output: output}}
}

func (p *parser) parseDyn() ir.Type {
	p.expectKeyword("dyn")
	offset := p.cur.offset
	name, raw := p.parsePath()
	trait := p.resolveTrait(name, offset)
	args, projections := p.splitBindings(raw)
	p.checkArgs(trait, args)

	dyn := &ir.Dynamic{
		Principal:   &ir.TraitRef{Trait: trait.ID, Args: args},
		Projections: projections,
		Region:      &ir.Anon{},
	}
	for p.cur.typ == tokPlus {
		p.advance()
		if p.cur.typ != tokLifetime {
			p.fail(p.cur.offset, "only a lifetime may follow the principal trait of a trait object, found %s", p.cur)
		}
		dyn.Region = p.resolveRegion(p.cur)
		p.advance()
	}
	return dyn
}

// parsePath parses a possibly qualified name and its generic arguments, like a::B<T, 'a>
func (p *parser) parsePath() (string, []rawArg) {
	segments := []string{p.expect(tokIdent).literal}
	for p.cur.typ == tokPath && p.peek.typ == tokIdent {
		p.advance()
		segments = append(segments, p.cur.literal)
		p.advance()
	}
	var args []rawArg
	if p.cur.typ == tokLt {
		args = p.parseGenericArgs()
	}
	return strings.Join(segments, "::"), args
}

func (p *parser) parseGenericArgs() []rawArg {
	p.expect(tokLt)
	var args []rawArg
	for p.cur.typ != tokGt {
		offset := p.cur.offset
		switch {
		case p.cur.typ == tokLifetime:
			args = append(args, rawArg{arg: p.resolveRegion(p.cur), offset: offset})
			p.advance()
		case p.cur.typ == tokInt || p.cur.typ == tokLBrace:
			args = append(args, rawArg{arg: p.parseConst(), offset: offset})
		case p.cur.typ == tokIdent && p.peek.typ == tokEq:
			name := p.cur.literal
			p.advance()
			p.advance()
			args = append(args, rawArg{arg: p.parseType(), binding: name, offset: offset})
		case p.cur.typ == tokIdent && p.isConstParam(p.cur.literal):
			args = append(args, rawArg{arg: p.parseConst(), offset: offset})
		default:
			args = append(args, rawArg{arg: p.parseType(), offset: offset})
		}
		if p.cur.typ != tokComma {
			break
		}
		p.advance()
	}
	p.expect(tokGt)
	return args
}

func (p *parser) isConstParam(name string) bool {
	param, ok := p.scope.lookupParam(name)
	return ok && param.Kind == ir.ParamConst
}

func (p *parser) parseConst() ir.Const {
	tok := p.cur
	switch tok.typ {
	case tokInt:
		p.advance()
		return &ir.ConstValue{Value: tok.literal}
	case tokIdent:
		param, ok := p.scope.lookupParam(tok.literal)
		if !ok {
			p.failWith(p.unresolved(tok.literal))
		}
		if param.Kind != ir.ParamConst {
			p.fail(tok.offset, "expected a const, found %s parameter '%s'", param.Kind, tok.literal)
		}
		p.advance()
		return &ir.ConstParam{Name: param.Name, Index: param.Index}
	case tokLBrace:
		p.advance()
		offset := p.cur.offset
		name, raw := p.parsePath()
		p.expect(tokRBrace)
		item, ok := p.scope.lookupItem(name)
		if !ok {
			p.failWith(p.unresolved(name))
		}
		if item.Kind != ir.KindConst {
			p.fail(offset, "expected a const item, found %s %s", item.Kind, name)
		}
		args := p.argsWithoutBindings(raw)
		p.checkArgs(item, args)
		return &ir.Unevaluated{Item: item.ID, Args: args}
	default:
		p.fail(tok.offset, "expected a const, found %s", tok)
		return nil
	}
}

func (p *parser) pathToType(name string, raw []rawArg, offset int) ir.Type {
	if len(raw) == 0 && !strings.Contains(name, "::") {
		if param, ok := p.scope.lookupParam(name); ok {
			if param.Kind != ir.ParamType {
				p.fail(offset, "expected a type, found %s parameter '%s'", param.Kind, name)
			}
			return &ir.Param{Name: param.Name, Index: param.Index}
		}
		if ir.IsPrimitiveName(name) {
			return &ir.Primitive{Name: name}
		}
	}
	item, ok := p.scope.lookupItem(name)
	if !ok {
		p.failWith(p.unresolved(name))
	}
	args := p.argsWithoutBindings(raw)
	p.checkArgs(item, args)
	switch {
	case item.Kind.IsAdt():
		return &ir.Adt{Item: item.ID, Args: args}
	case item.Kind == ir.KindOpaque:
		return &ir.Opaque{Item: item.ID, Args: args}
	default:
		p.fail(offset, "expected a type, found %s %s", item.Kind, name)
		return nil
	}
}

func (p *parser) resolveTrait(name string, offset int) *ir.Item {
	item, ok := p.scope.lookupItem(name)
	if !ok {
		p.failWith(p.unresolved(name))
	}
	if item.Kind != ir.KindTrait {
		p.fail(offset, "expected a trait, found %s %s", item.Kind, name)
	}
	return item
}

func (p *parser) resolveRegion(tok token) ir.Region {
	switch tok.literal {
	case "'static":
		return &ir.Static{}
	case "'_":
		return &ir.Anon{}
	}
	for _, binder := range slices.Backward(p.binders) {
		if slices.Contains(binder, tok.literal) {
			return &ir.LateBound{Name: tok.literal}
		}
	}
	param, ok := p.scope.lookupParam(tok.literal)
	if !ok || param.Kind != ir.ParamLifetime {
		p.failWith(p.unresolved(tok.literal))
	}
	return &ir.EarlyBound{Name: param.Name, Index: param.Index}
}

func (p *parser) unresolved(name string) ilerr.IleError {
	return ilerr.New(ilerr.NewUnresolvedName{Pos: p.at, Name: name, In: p.scope.Item})
}

func (p *parser) argsWithoutBindings(raw []rawArg) []ir.GenericArg {
	args, bindings := p.splitBindings(raw)
	if len(bindings) > 0 {
		for _, r := range raw {
			if r.binding != "" {
				p.fail(r.offset, "associated item binding '%s' is only allowed on traits", r.binding)
			}
		}
	}
	return args
}

func (p *parser) splitBindings(raw []rawArg) ([]ir.GenericArg, []ir.ProjectionBound) {
	var args []ir.GenericArg
	var bindings []ir.ProjectionBound
	for _, r := range raw {
		if r.binding != "" {
			bindings = append(bindings, ir.ProjectionBound{Assoc: r.binding, Term: r.arg})
			continue
		}
		if len(bindings) > 0 {
			p.fail(r.offset, "generic arguments must come before associated item bindings")
		}
		args = append(args, r.arg)
	}
	return args, bindings
}

// checkArgs ensures args match the generics of item in number and kind
func (p *parser) checkArgs(item *ir.Item, args []ir.GenericArg) {
	expected := item.Generics.Count()
	if len(args) != expected {
		p.failWith(ilerr.New(ilerr.NewGenericArgCount{Pos: p.at, Of: item.ID, Expected: expected, Found: len(args)}))
	}
	i := 0
	for param := range p.scope.Crate.Params(item.ID) {
		if kindOf(args[i]) != param.Kind {
			p.failWith(ilerr.New(ilerr.NewGenericArgKind{Pos: p.at, Of: item.ID, Index: i, Expected: param.Kind, Found: args[i].String()}))
		}
		i++
	}
}

func kindOf(arg ir.GenericArg) ir.ParamKind {
	switch arg.(type) {
	case ir.Region:
		return ir.ParamLifetime
	case ir.Const:
		return ir.ParamConst
	default:
		return ir.ParamType
	}
}

// parseBounds parses a list of bounds separated by '+', like Iterator<Item = &'a T> + 'b,
// or a single where-clause like T: 'a or 'a: 'b
func (p *parser) parseBounds(self ir.Type) []ir.Predicate {
	if p.cur.typ == tokLifetime && p.peek.typ == tokColon {
		long := p.resolveRegion(p.cur)
		p.advance()
		p.advance()
		var preds []ir.Predicate
		for {
			if p.cur.typ != tokLifetime {
				p.fail(p.cur.offset, "expected a lifetime, found %s", p.cur)
			}
			preds = append(preds, &ir.RegionOutlives{Long: long, Short: p.resolveRegion(p.cur)})
			p.advance()
			if p.cur.typ != tokPlus {
				return preds
			}
			p.advance()
		}
	}

	subject := self
	if p.cur.typ == tokIdent && !slices.Contains([]string{"fn", "for", "dyn"}, p.cur.literal) {
		offset := p.cur.offset
		name, raw := p.parsePath()
		if p.cur.typ != tokColon {
			preds := p.traitPredicates(subject, name, raw, offset)
			if p.cur.typ != tokPlus {
				return preds
			}
			p.advance()
			return append(preds, p.boundList(subject)...)
		}
		subject = p.pathToType(name, raw, offset)
		p.advance()
	} else if p.cur.typ != tokLifetime {
		subject = p.parseType()
		p.expect(tokColon)
	}
	return p.boundList(subject)
}

func (p *parser) boundList(subject ir.Type) []ir.Predicate {
	var preds []ir.Predicate
	for {
		if p.cur.typ == tokLifetime {
			preds = append(preds, &ir.TypeOutlives{Type: subject, Region: p.resolveRegion(p.cur)})
			p.advance()
		} else {
			offset := p.cur.offset
			name, raw := p.parsePath()
			preds = append(preds, p.traitPredicates(subject, name, raw, offset)...)
		}
		if p.cur.typ != tokPlus {
			return preds
		}
		p.advance()
	}
}

func (p *parser) traitPredicates(subject ir.Type, name string, raw []rawArg, offset int) []ir.Predicate {
	if subject == nil {
		p.fail(offset, "bound on %s needs an explicit subject, like T: %s", name, name)
	}
	trait := p.resolveTrait(name, offset)
	args, bindings := p.splitBindings(raw)
	p.checkArgs(trait, args)
	withSelf := append([]ir.GenericArg{subject}, args...)
	preds := []ir.Predicate{&ir.TraitPredicate{Trait: trait.ID, Args: withSelf}}
	for _, binding := range bindings {
		preds = append(preds, &ir.ProjectionPredicate{
			Trait: trait.ID,
			Assoc: binding.Assoc,
			Args:  withSelf,
			Term:  binding.Term,
		})
	}
	return preds
}

// parseGenericParam parses the declaration of a parameter: 'a, T or const N: usize
func (p *parser) parseGenericParam() (string, ir.ParamKind) {
	switch {
	case p.cur.typ == tokLifetime:
		name := p.cur.literal
		p.advance()
		return name, ir.ParamLifetime
	case p.isKeyword("const"):
		p.advance()
		name := p.expect(tokIdent).literal
		p.expect(tokColon)
		ty := p.expect(tokIdent)
		if !ir.IsPrimitiveName(ty.literal) {
			p.fail(ty.offset, "the type of const parameter %s must be a primitive, found '%s'", name, ty.literal)
		}
		return name, ir.ParamConst
	default:
		name := p.expect(tokIdent).literal
		return name, ir.ParamType
	}
}
