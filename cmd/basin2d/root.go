// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. It is a constructor rather than a
// package variable so tests get fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "basin2d",
		Short: "Estimate the relief of a 2D sedimentary basin from gravity data",
		Long: `basin2d models a basin as a triangle with two known vertices on the
surface and one unknown vertex at its deepest point, and estimates that
vertex from a gravity anomaly profile (Talwani forward model, mGal).`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("log-level", defaultLogLevel, "log level: debug, info, warn, error")
	pf.Float64("density", defaultDensity, "density contrast of the basin fill (kg/m³)")
	pf.Float64("left-x", defaultLeft[0], "x of the left known vertex (m)")
	pf.Float64("left-z", defaultLeft[1], "depth of the left known vertex (m)")
	pf.Float64("right-x", defaultRight[0], "x of the right known vertex (m)")
	pf.Float64("right-z", defaultRight[1], "depth of the right known vertex (m)")

	root.AddCommand(newSynthCmd())
	root.AddCommand(newInvertCmd())
	root.Version = version

	return root
}
