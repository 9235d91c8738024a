package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/variance/frontend/ir"
)

// enableDebugErrorPrinting makes FormatWithCode include the frame that created the error
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	Parse
	UnresolvedName
	DuplicateItem
	UnknownParent
	ParentCycle
	GenericArgCount
	GenericArgKind
	BadVariance
	UnknownItemKind
	MissingSignature
	// WrongItemKind is a compiler bug rather than a problem in the input
	WrongItemKind
	VarianceDump
)

type IleError interface {
	Error() string
	Code() ErrCode
	ir.Positioner

	withStack([]byte) IleError
	getStack() []byte
}

func FormatWithCode(e IleError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithPos prefixes FormatWithCode with the position of the error, when known
func FormatWithPos(e IleError) string {
	pos := e.Position()
	if !pos.IsValid() {
		return FormatWithCode(e)
	}
	return pos.String() + ": " + FormatWithCode(e)
}

func New[E IleError](err E) IleError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ir.Pos
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewParse struct {
	ir.Pos
	// Source is the text that was being parsed
	Source        string
	Offset        int
	ParserMessage string
	stack         []byte
}

func (e NewParse) Error() string {
	return fmt.Sprintf("%s at offset %d of '%s'", e.ParserMessage, e.Offset, e.Source)
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnresolvedName struct {
	ir.Pos
	Name  string
	In    ir.ItemID
	stack []byte
}

func (e NewUnresolvedName) Error() string {
	return fmt.Sprintf("cannot find '%s' in the scope of %s", e.Name, e.In)
}
func (e NewUnresolvedName) Code() ErrCode    { return UnresolvedName }
func (e NewUnresolvedName) getStack() []byte { return e.stack }
func (e NewUnresolvedName) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewDuplicateItem struct {
	ir.Pos
	ID    ir.ItemID
	Other ir.Positioner
	stack []byte
}

func (e NewDuplicateItem) Error() string {
	return fmt.Sprintf("item %s is defined multiple times (previous definition at %s)", e.ID, e.Other.Position())
}
func (e NewDuplicateItem) Code() ErrCode    { return DuplicateItem }
func (e NewDuplicateItem) getStack() []byte { return e.stack }
func (e NewDuplicateItem) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnknownParent struct {
	ir.Pos
	ID     ir.ItemID
	Parent ir.ItemID
	stack  []byte
}

func (e NewUnknownParent) Error() string {
	return fmt.Sprintf("parent %s of item %s is not defined", e.Parent, e.ID)
}
func (e NewUnknownParent) Code() ErrCode    { return UnknownParent }
func (e NewUnknownParent) getStack() []byte { return e.stack }
func (e NewUnknownParent) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewParentCycle struct {
	ir.Pos
	Cycle []ir.ItemID
	stack []byte
}

func (e NewParentCycle) Error() string {
	names := make([]string, 0, len(e.Cycle))
	for _, id := range e.Cycle {
		names = append(names, string(id))
	}
	return fmt.Sprintf("items are their own parents: %s", strings.Join(names, " -> "))
}
func (e NewParentCycle) Code() ErrCode    { return ParentCycle }
func (e NewParentCycle) getStack() []byte { return e.stack }
func (e NewParentCycle) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewGenericArgCount struct {
	ir.Pos
	Of       ir.ItemID
	Expected int
	Found    int
	stack    []byte
}

func (e NewGenericArgCount) Error() string {
	return fmt.Sprintf("%s takes %d generic arguments but %d were supplied", e.Of, e.Expected, e.Found)
}
func (e NewGenericArgCount) Code() ErrCode    { return GenericArgCount }
func (e NewGenericArgCount) getStack() []byte { return e.stack }
func (e NewGenericArgCount) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewGenericArgKind struct {
	ir.Pos
	Of       ir.ItemID
	Index    int
	Expected ir.ParamKind
	Found    string
	stack    []byte
}

func (e NewGenericArgKind) Error() string {
	return fmt.Sprintf("generic argument %d of %s must be a %s, found '%s'", e.Index, e.Of, e.Expected, e.Found)
}
func (e NewGenericArgKind) Code() ErrCode    { return GenericArgKind }
func (e NewGenericArgKind) getStack() []byte { return e.stack }
func (e NewGenericArgKind) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewBadVariance struct {
	ir.Pos
	ID     ir.ItemID
	Reason string
	stack  []byte
}

func (e NewBadVariance) Error() string {
	return fmt.Sprintf("bad declared variances for %s: %s", e.ID, e.Reason)
}
func (e NewBadVariance) Code() ErrCode    { return BadVariance }
func (e NewBadVariance) getStack() []byte { return e.stack }
func (e NewBadVariance) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnknownItemKind struct {
	ir.Pos
	ID    ir.ItemID
	Kind  string
	stack []byte
}

func (e NewUnknownItemKind) Error() string {
	return fmt.Sprintf("item %s has unknown kind '%s'", e.ID, e.Kind)
}
func (e NewUnknownItemKind) Code() ErrCode    { return UnknownItemKind }
func (e NewUnknownItemKind) getStack() []byte { return e.stack }
func (e NewUnknownItemKind) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewMissingSignature struct {
	ir.Pos
	ID    ir.ItemID
	stack []byte
}

func (e NewMissingSignature) Error() string {
	return fmt.Sprintf("%s has no signature", e.ID)
}
func (e NewMissingSignature) Code() ErrCode    { return MissingSignature }
func (e NewMissingSignature) getStack() []byte { return e.stack }
func (e NewMissingSignature) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewWrongItemKind is raised when variance is requested for an item that cannot have any
type NewWrongItemKind struct {
	ir.Pos
	ID    ir.ItemID
	Kind  ir.ItemKind
	stack []byte
}

func (e NewWrongItemKind) Error() string {
	return fmt.Sprintf("internal compiler error: asked to compute variance for wrong kind of item: %s is a %s", e.ID, e.Kind)
}
func (e NewWrongItemKind) Code() ErrCode    { return WrongItemKind }
func (e NewWrongItemKind) getStack() []byte { return e.stack }
func (e NewWrongItemKind) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewVarianceDump struct {
	ir.Pos
	ID        ir.ItemID
	Variances []ir.Variance
	stack     []byte
}

func (e NewVarianceDump) Error() string {
	return fmt.Sprintf("variances of %s: %s", e.ID, ir.ShowVariances(e.Variances))
}
func (e NewVarianceDump) Code() ErrCode    { return VarianceDump }
func (e NewVarianceDump) getStack() []byte { return e.stack }
func (e NewVarianceDump) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}
