// SPDX-License-Identifier: MIT

// basin2d estimates the relief of a 2D sedimentary basin from gravity data.
//
// Usage:
//
//	basin2d synth  -o profile.csv [--deepest-x 50000 --deepest-z 5000]
//	basin2d invert profile.csv [more.csv ...] [--solver levmarq|newton|steepest]
//
// Every flag can also be set through a BASIN2D_ environment variable
// (dashes become underscores) or a config file given with --config.
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
