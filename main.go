//go:build !(js || wasm)

package main

import (
	"os"

	"github.com/cottand/variance/cmd"
)

func main() {
	err := cmd.NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
