//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/variance/cmd"
)

func main() {
	js.Global().Set("InferVariances", js.FuncOf(cmd.InferVariances))

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
