package ir_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/cottand/variance/frontend/ir"
	"github.com/stretchr/testify/assert"
)

func TestSlogHandlerRendersIR(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(ir.SlogHandler(slog.NewTextHandler(buf, nil)))

	ty := &ir.Ref{Region: &ir.EarlyBound{Name: "'a", Index: 0}, Elem: &ir.Param{Name: "T", Index: 1}}
	item := &ir.Item{ID: "S", Kind: ir.KindStruct}
	logger.With("item", item).Info("visiting", "type", ty)

	out := buf.String()
	assert.Contains(t, out, `type="&'a T"`)
	assert.Contains(t, out, "item.id=S")
	assert.Contains(t, out, "item.kind=struct")
}
