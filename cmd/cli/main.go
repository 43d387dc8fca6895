// Package main is the entry point for the qcanvas CLI binary.
package main

import (
	"os"

	cli "querycanvas/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
