package variance

import (
	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/frontend/walk"
)

// DumpAttr is the attribute that makes DumpPass report the variances of the items in its scope
const DumpAttr = "variance"

// DumpPass reports the variances of every item that has them and is
// in the scope of a DumpAttr, as ilerr.NewVarianceDump diagnostics
type DumpPass struct {
	walk.BasePass
	Session *Session
	Errors  *ilerr.Errors
}

var _ walk.Pass = (*DumpPass)(nil)

func (d *DumpPass) Name() string { return "variance-dump" }

func (d *DumpPass) CheckItem(cx *walk.Context, item *ir.Item) {
	if !cx.HasAttr(DumpAttr) {
		return
	}
	if !HasVariances(item.Kind) {
		return
	}
	d.Errors = d.Errors.With(ilerr.New(ilerr.NewVarianceDump{
		Pos:       item.Pos,
		ID:        item.ID,
		Variances: d.Session.VariancesOf(item.ID),
	}))
}

// Dump walks the crate of s with a DumpPass and returns the diagnostics it reported
func Dump(s *Session) *ilerr.Errors {
	pass := &DumpPass{Session: s}
	walk.Walk(s.Crate(), pass)
	return pass.Errors
}
