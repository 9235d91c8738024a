package ir

import (
	"strings"
)

// GenericArg is anything that can be substituted for a generic parameter:
// a Type, a Region or a Const
type GenericArg interface {
	String() string
	isGenericArg()
}

type Type interface {
	GenericArg
	isType()
}

// Region is a lifetime
type Region interface {
	GenericArg
	isRegion()
}

type Const interface {
	GenericArg
	isConst()
}

var (
	_ Type = (*Primitive)(nil)
	_ Type = (*Never)(nil)
	_ Type = (*Param)(nil)
	_ Type = (*Ref)(nil)
	_ Type = (*RawPtr)(nil)
	_ Type = (*Slice)(nil)
	_ Type = (*Array)(nil)
	_ Type = (*Tuple)(nil)
	_ Type = (*Adt)(nil)
	_ Type = (*FnPtr)(nil)
	_ Type = (*Dynamic)(nil)
	_ Type = (*Projection)(nil)
	_ Type = (*Opaque)(nil)

	_ Region = (*EarlyBound)(nil)
	_ Region = (*Static)(nil)
	_ Region = (*LateBound)(nil)
	_ Region = (*Anon)(nil)

	_ Const = (*ConstParam)(nil)
	_ Const = (*ConstValue)(nil)
	_ Const = (*Unevaluated)(nil)
)

// Primitive types never mention generic parameters
type Primitive struct {
	Name string
}

func (t *Primitive) String() string { return t.Name }

var primitiveNames = []string{
	"bool", "char", "str",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize",
	"f32", "f64",
}

func IsPrimitiveName(name string) bool {
	for _, p := range primitiveNames {
		if p == name {
			return true
		}
	}
	return false
}

type Never struct{}

func (*Never) String() string { return "!" }

// Param is a reference to a type parameter
type Param struct {
	Name  string
	Index int
}

func (t *Param) String() string { return t.Name }

// Ref is a reference &'r T or &'r mut T
type Ref struct {
	Region  Region
	Mutable bool
	Elem    Type
}

func (t *Ref) String() string {
	sb := strings.Builder{}
	sb.WriteString("&")
	if _, anon := t.Region.(*Anon); !anon && t.Region != nil {
		sb.WriteString(t.Region.String())
		sb.WriteString(" ")
	}
	if t.Mutable {
		sb.WriteString("mut ")
	}
	sb.WriteString(t.Elem.String())
	return sb.String()
}

type RawPtr struct {
	Mutable bool
	Elem    Type
}

func (t *RawPtr) String() string {
	if t.Mutable {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

type Slice struct {
	Elem Type
}

func (t *Slice) String() string { return "[" + t.Elem.String() + "]" }

type Array struct {
	Elem Type
	Len  Const
}

func (t *Array) String() string { return "[" + t.Elem.String() + "; " + t.Len.String() + "]" }

type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + joinArgs(t.Elems) + ")"
}

func isUnit(t Type) bool {
	tuple, ok := t.(*Tuple)
	return ok && len(tuple.Elems) == 0
}

// Adt is a struct, enum or union applied to generic arguments
type Adt struct {
	Item ItemID
	Args []GenericArg
}

func (t *Adt) String() string { return showPath(t.Item, t.Args) }

// FnPtr is a function pointer type. Regions in BoundRegions are late-bound (for<'x>)
type FnPtr struct {
	BoundRegions []string
	Sig          FnSig
}

func (t *FnPtr) String() string {
	if len(t.BoundRegions) == 0 {
		return t.Sig.String()
	}
	return "for<" + strings.Join(t.BoundRegions, ", ") + "> " + t.Sig.String()
}

// TraitRef is a trait applied to its arguments, not including the self type
type TraitRef struct {
	Trait ItemID
	Args  []GenericArg
}

func (t *TraitRef) String() string { return showPath(t.Trait, t.Args) }

type ProjectionBound struct {
	Assoc string
	Term  GenericArg
}

// Dynamic is a trait object: dyn Trait<A, Assoc = B> + 'r
type Dynamic struct {
	Principal   *TraitRef
	Projections []ProjectionBound
	Region      Region
}

func (t *Dynamic) String() string {
	sb := strings.Builder{}
	sb.WriteString("dyn ")
	if t.Principal != nil {
		sb.WriteString(string(t.Principal.Trait))
		args := make([]string, 0, len(t.Principal.Args)+len(t.Projections))
		for _, arg := range t.Principal.Args {
			args = append(args, arg.String())
		}
		for _, p := range t.Projections {
			args = append(args, p.Assoc+" = "+p.Term.String())
		}
		if len(args) > 0 {
			sb.WriteString("<" + strings.Join(args, ", ") + ">")
		}
	}
	if _, anon := t.Region.(*Anon); !anon && t.Region != nil {
		sb.WriteString(" + " + t.Region.String())
	}
	return sb.String()
}

// Projection is an associated type <Args[0] as Trait<Args[1:]>>::Assoc
type Projection struct {
	Trait ItemID
	Assoc string
	Args  []GenericArg
}

func (t *Projection) String() string {
	if len(t.Args) == 0 {
		return string(t.Trait) + "::" + t.Assoc
	}
	return "<" + t.Args[0].String() + " as " + showPath(t.Trait, t.Args[1:]) + ">::" + t.Assoc
}

// Opaque is a use of an opaque item
type Opaque struct {
	Item ItemID
	Args []GenericArg
}

func (t *Opaque) String() string { return showPath(t.Item, t.Args) }

// EarlyBound is a lifetime parameter declared in the generics of an item
type EarlyBound struct {
	Name  string
	Index int
}

func (r *EarlyBound) String() string { return r.Name }

type Static struct{}

func (*Static) String() string { return "'static" }

// LateBound is a lifetime bound by a for<'x> binder
type LateBound struct {
	Name string
}

func (r *LateBound) String() string { return r.Name }

// Anon is an elided lifetime
type Anon struct{}

func (*Anon) String() string { return "'_" }

type ConstParam struct {
	Name  string
	Index int
}

func (c *ConstParam) String() string { return c.Name }

type ConstValue struct {
	Value string
}

func (c *ConstValue) String() string { return c.Value }

// Unevaluated is a const expression naming a generic const item, like {LEN<T>}
type Unevaluated struct {
	Item ItemID
	Args []GenericArg
}

func (c *Unevaluated) String() string { return "{" + showPath(c.Item, c.Args) + "}" }

func showPath[A GenericArg](id ItemID, args []A) string {
	if len(args) == 0 {
		return string(id)
	}
	return string(id) + "<" + joinArgs(args) + ">"
}

func joinArgs[A GenericArg](args []A) string {
	shown := make([]string, 0, len(args))
	for _, arg := range args {
		shown = append(shown, arg.String())
	}
	return strings.Join(shown, ", ")
}

func (*Primitive) isGenericArg()  {}
func (*Never) isGenericArg()      {}
func (*Param) isGenericArg()      {}
func (*Ref) isGenericArg()        {}
func (*RawPtr) isGenericArg()     {}
func (*Slice) isGenericArg()      {}
func (*Array) isGenericArg()      {}
func (*Tuple) isGenericArg()      {}
func (*Adt) isGenericArg()        {}
func (*FnPtr) isGenericArg()      {}
func (*Dynamic) isGenericArg()    {}
func (*Projection) isGenericArg() {}
func (*Opaque) isGenericArg()     {}
func (*Primitive) isType()        {}
func (*Never) isType()            {}
func (*Param) isType()            {}
func (*Ref) isType()              {}
func (*RawPtr) isType()           {}
func (*Slice) isType()            {}
func (*Array) isType()            {}
func (*Tuple) isType()            {}
func (*Adt) isType()              {}
func (*FnPtr) isType()            {}
func (*Dynamic) isType()          {}
func (*Projection) isType()       {}
func (*Opaque) isType()           {}

func (*EarlyBound) isGenericArg() {}
func (*Static) isGenericArg()     {}
func (*LateBound) isGenericArg()  {}
func (*Anon) isGenericArg()       {}
func (*EarlyBound) isRegion()     {}
func (*Static) isRegion()         {}
func (*LateBound) isRegion()      {}
func (*Anon) isRegion()           {}

func (*ConstParam) isGenericArg()  {}
func (*ConstValue) isGenericArg()  {}
func (*Unevaluated) isGenericArg() {}
func (*ConstParam) isConst()       {}
func (*ConstValue) isConst()       {}
func (*Unevaluated) isConst()      {}
