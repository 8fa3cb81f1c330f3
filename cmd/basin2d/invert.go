// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/basin2d/basin2d"
	"github.com/katalvlaran/basin2d/inversion"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
)

func newInvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invert <profile.csv> [more.csv ...]",
		Short: "Estimate the deepest vertex of a triangular basin",
		Long: `Estimate the deepest vertex of a triangular basin from one or more
"x,z,gz" gravity profiles. Several profiles are inverted jointly.
Use "-" to read a profile from stdin.

Examples:
  basin2d invert profile.csv
  basin2d invert surface.csv airborne.csv --solver newton --parallel
  basin2d synth | basin2d invert - --iterate`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInvert,
	}

	f := cmd.Flags()
	f.String("solver", "levmarq", "solver: levmarq, newton or steepest")
	f.Float64("initial-x", defaultInitial[0], "initial x of the deepest vertex (m)")
	f.Float64("initial-z", defaultInitial[1], "initial depth of the deepest vertex (m)")
	f.Float64("delta", basin2d.DefaultDelta, "finite-difference step (m)")
	f.Int("maxit", 0, "maximum iterations (0: solver default)")
	f.Float64("damping", 0, "Tikhonov damping μ (0: none)")
	f.Bool("parallel", false, "accumulate profiles concurrently")
	f.Bool("depth-only", basin2d.DefaultDepthOnlyPerturbation, "legacy depth-only Jacobian (needs --damping with newton)")
	f.Bool("iterate", false, "print every iteration")

	return cmd
}

func runInvert(cmd *cobra.Command, args []string) error {
	v, err := loadViper(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	dms, err := dataModules(v, args, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	solver, err := newSolver(v, logger)
	if err != nil {
		return err
	}

	var opts []basin2d.Option
	opts = append(opts, basin2d.WithLogger(logger))
	if mu := v.GetFloat64("damping"); mu > 0 {
		opts = append(opts, basin2d.WithRegularizers(inversion.Damping{Mu: mu}))
	}

	out := cmd.OutOrStdout()
	if v.GetBool("iterate") {
		n := 0
		for sol, err := range basin2d.TriangularIter(dms, solver, opts...) {
			if err != nil {
				return hint(err)
			}
			printSolution(out, n, sol)
			n++
		}
		return nil
	}

	sol, err := basin2d.Triangular(dms, solver, opts...)
	if err != nil {
		return hint(err)
	}
	printSolution(out, -1, sol)

	return nil
}

func dataModules(v *viper.Viper, paths []string, stdin io.Reader, logger *log.Logger) ([]inversion.DataModule, error) {
	basin := basinFrom(v)
	delta := v.GetFloat64("delta")
	if !(delta > 0) || math.IsInf(delta, 0) {
		return nil, fmt.Errorf("delta must be finite and > 0, got %g", delta)
	}
	opts := []basin2d.Option{
		basin2d.WithDelta(delta),
		basin2d.WithLogger(logger),
	}
	if v.GetBool("depth-only") {
		opts = append(opts, basin2d.WithDepthOnlyPerturbation())
	}

	dms := make([]inversion.DataModule, 0, len(paths))
	for _, path := range paths {
		p, err := readProfileFile(path, stdin)
		if err != nil {
			return nil, err
		}
		dm, err := basin2d.NewTriangularGzDM(p.X, p.Z, p.Gz, []basin2d.Vertex{basin.Left, basin.Right}, basin.Density, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		dms = append(dms, dm)
	}

	return dms, nil
}

func newSolver(v *viper.Viper, logger *log.Logger) (inversion.Solver, error) {
	initial := []float64{v.GetFloat64("initial-x"), v.GetFloat64("initial-z")}
	opts := []inversion.Option{inversion.WithLogger(logger)}
	if n := v.GetInt("maxit"); n > 0 {
		opts = append(opts, inversion.WithMaxIter(n))
	}
	if v.GetBool("parallel") {
		opts = append(opts, inversion.WithParallel())
	}

	switch name := strings.ToLower(v.GetString("solver")); name {
	case "levmarq", "lm":
		return inversion.LevMarq(initial, opts...), nil
	case "newton":
		return inversion.Newton(initial, opts...), nil
	case "steepest":
		return inversion.Steepest(initial, opts...), nil
	default:
		return nil, fmt.Errorf("unknown solver %q (want levmarq, newton or steepest)", name)
	}
}

// printSolution writes one estimate; iteration < 0 marks the final result.
func printSolution(w io.Writer, iteration int, sol basin2d.Solution) {
	var misfit float64
	for _, r := range sol.Residuals {
		misfit += floats.Dot(r, r)
	}
	if iteration < 0 {
		fmt.Fprintf(w, "x=%.3f z=%.3f misfit=%.6g\n", sol.Vertex.X, sol.Vertex.Z, misfit)
		return
	}
	fmt.Fprintf(w, "%d x=%.3f z=%.3f misfit=%.6g\n", iteration, sol.Vertex.X, sol.Vertex.Z, misfit)
}

func hint(err error) error {
	if errors.Is(err, basin2d.ErrSingularHessian) {
		return fmt.Errorf("%w (try --damping 1e-8 or --solver levmarq)", err)
	}

	return err
}
