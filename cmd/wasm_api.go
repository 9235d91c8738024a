//go:build js && wasm

package cmd

import (
	"bytes"
	"fmt"
	"syscall/js"

	"github.com/cottand/variance/crate"
	"github.com/cottand/variance/frontend/variance"
)

// loadFromJS builds a session for the YAML crate description in args[0]
func loadFromJS(args []js.Value) (*variance.Session, string) {
	if len(args) != 1 {
		return nil, fmt.Sprintf("expected 1 argument, got %d", len(args))
	}
	c, errs, err := crate.NewCrateFromBytes([]byte(args[0].String()), "crate.yaml")
	if err != nil {
		return nil, fmt.Sprintf("the crate could not be read:\n\n%s", err)
	}
	if errs.HasError() {
		buf := bytes.NewBufferString("the crate has the following errors:\n")
		_ = WriteDiagnostics(buf, errs, false)
		return nil, buf.String()
	}
	return variance.NewSession(c, variance.DefaultConfig()), ""
}

// InferVariances takes a YAML crate description and returns the variances of its items,
// or the errors of the description.
//
// output: { error: string } | { variances: string, dump: string }
func InferVariances(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{
			"error": err,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("inference panicked: " + fmt.Sprint(r))
		}
	}()

	s, failure := loadFromJS(args)
	if s == nil {
		return errorObj(failure)
	}
	variances := &bytes.Buffer{}
	if err := WriteVariances(variances, s, "text"); err != nil {
		return errorObj(err.Error())
	}
	dump := &bytes.Buffer{}
	if err := WriteDiagnostics(dump, variance.Dump(s), false); err != nil {
		return errorObj(err.Error())
	}
	return js.ValueOf(map[string]any{
		"variances": variances.String(),
		"dump":      dump.String(),
	})
}
