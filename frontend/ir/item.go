package ir

import (
	"slices"
	"strings"
)

// ItemID uniquely names an item in a Crate, like `Vec`, `Option::Some` or `Vec::push`
type ItemID string

func (id ItemID) String() string { return string(id) }

type ItemKind uint8

const (
	_ ItemKind = iota
	KindStruct
	KindEnum
	KindUnion
	// KindVariant is a variant of an enum. Its generics are the ones of the enum
	KindVariant
	// KindCtor is the constructor function of a tuple-like or unit struct or variant
	KindCtor
	KindFn
	KindAssocFn
	// KindOpaque is an existential type only disclosed through its bounds
	KindOpaque
	KindTrait
	KindImpl
	KindTypeAlias
	KindMod
	KindConst
	KindStatic
)

var itemKindNames = map[ItemKind]string{
	KindStruct:    "struct",
	KindEnum:      "enum",
	KindUnion:     "union",
	KindVariant:   "variant",
	KindCtor:      "ctor",
	KindFn:        "fn",
	KindAssocFn:   "assoc_fn",
	KindOpaque:    "opaque",
	KindTrait:     "trait",
	KindImpl:      "impl",
	KindTypeAlias: "type",
	KindMod:       "mod",
	KindConst:     "const",
	KindStatic:    "static",
}

// ParseItemKind is the inverse of ItemKind.Keyword
func ParseItemKind(s string) (ItemKind, bool) {
	for kind, name := range itemKindNames {
		if name == s {
			return kind, true
		}
	}
	return 0, false
}

// Keyword is the short name of the kind, as used in crate descriptions
func (k ItemKind) Keyword() string {
	name, ok := itemKindNames[k]
	if !ok {
		return "invalid"
	}
	return name
}

func (k ItemKind) String() string {
	switch k {
	case KindCtor:
		return "constructor"
	case KindFn:
		return "function"
	case KindAssocFn:
		return "associated function"
	case KindOpaque:
		return "opaque type"
	case KindTypeAlias:
		return "type alias"
	case KindMod:
		return "module"
	case KindConst:
		return "constant"
	default:
		return k.Keyword()
	}
}

// IsAdt is true for the kinds that define a nominal algebraic data type
func (k ItemKind) IsAdt() bool {
	return k == KindStruct || k == KindEnum || k == KindUnion
}

// IsFnLike is true for the kinds that have a signature
func (k ItemKind) IsFnLike() bool {
	return k == KindFn || k == KindAssocFn || k == KindCtor
}

// Item is a single declaration of the crate.
//
// Which fields are populated depends on Kind:
//   - Fields for structs, unions and variants
//   - Variants for enums
//   - Sig for functions, associated functions and constructors
//   - Bounds for opaque types
type Item struct {
	ID   ItemID
	Kind ItemKind
	// Parent is the lexically enclosing item, which also provides inherited generics.
	// It is empty for top-level items
	Parent   ItemID
	Generics Generics

	Fields   []Field
	Variants []ItemID
	Sig      *FnSig
	Bounds   []Predicate

	// External items are defined outside the crate. Their variances are not inferred
	// but declared in Declared, one per generic parameter
	External bool
	Declared []Variance

	Attrs []Attribute
	Pos
}

// Name is the last segment of the ID
func (i *Item) Name() string {
	id := string(i.ID)
	if idx := strings.LastIndex(id, "::"); idx >= 0 {
		return id[idx+2:]
	}
	return id
}

func (i *Item) HasAttr(name string) bool {
	return slices.ContainsFunc(i.Attrs, func(a Attribute) bool { return a.Name == name })
}

type Field struct {
	// Name is empty for positional fields
	Name string
	Type Type
	Pos
}

type FnSig struct {
	Inputs []Type
	Output Type
}

func (s *FnSig) String() string {
	inputs := make([]string, 0, len(s.Inputs))
	for _, input := range s.Inputs {
		inputs = append(inputs, input.String())
	}
	out := "fn(" + strings.Join(inputs, ", ") + ")"
	if s.Output != nil && !isUnit(s.Output) {
		out += " -> " + s.Output.String()
	}
	return out
}

// Attribute is an annotation like #[variance] on an item or a field
type Attribute struct {
	Name string
	Args []string
	Pos
}

func (a Attribute) String() string {
	if len(a.Args) == 0 {
		return "#[" + a.Name + "]"
	}
	return "#[" + a.Name + "(" + strings.Join(a.Args, ", ") + ")]"
}
