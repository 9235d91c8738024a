package ir

type ParamKind uint8

const (
	ParamLifetime ParamKind = iota
	ParamType
	ParamConst
)

func (k ParamKind) String() string {
	switch k {
	case ParamLifetime:
		return "lifetime"
	case ParamType:
		return "type"
	case ParamConst:
		return "const"
	default:
		return "invalid"
	}
}

// GenericParam is identified by the item that declares it and its Index.
// Index is absolute: the parameters of all parents come first
type GenericParam struct {
	Name  string
	Kind  ParamKind
	Index int
	Owner ItemID
}

func (p GenericParam) String() string {
	if p.Kind == ParamConst {
		return "const " + p.Name
	}
	return p.Name
}

// Arg returns the generic argument referring to this parameter
func (p GenericParam) Arg() GenericArg {
	switch p.Kind {
	case ParamLifetime:
		return &EarlyBound{Name: p.Name, Index: p.Index}
	case ParamConst:
		return &ConstParam{Name: p.Name, Index: p.Index}
	default:
		return &Param{Name: p.Name, Index: p.Index}
	}
}

type Generics struct {
	// Parent is the item whose parameters are inherited, if any
	Parent      ItemID
	ParentCount int
	// Params are the parameters declared by the item itself
	Params []GenericParam
}

// Count is the number of parameters in scope, including inherited ones
func (g *Generics) Count() int {
	return g.ParentCount + len(g.Params)
}

// Own returns the own parameter with the absolute index, if it is one
func (g *Generics) Own(index int) (GenericParam, bool) {
	i := index - g.ParentCount
	if i < 0 || i >= len(g.Params) {
		return GenericParam{}, false
	}
	return g.Params[i], true
}

// IdentityArgs are the arguments that map every parameter in scope for id to itself
func IdentityArgs(c *Crate, id ItemID) []GenericArg {
	var args []GenericArg
	for param := range c.Params(id) {
		args = append(args, param.Arg())
	}
	return args
}
