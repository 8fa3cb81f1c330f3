// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/katalvlaran/basin2d/talwani"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Compute the gravity profile of a triangular basin",
		Long: `Compute gz (mGal) of the triangle [left, right, deepest] at evenly spaced
observation points and write it as "x,z,gz" CSV.

Examples:
  basin2d synth -o profile.csv
  basin2d synth --deepest-x 42000 --deepest-z 3500 --noise 0.1 --seed 7`,
		Args: cobra.NoArgs,
		RunE: runSynth,
	}

	f := cmd.Flags()
	f.Float64("start", 0, "first observation x (m)")
	f.Float64("stop", 90000, "last observation x (m), inclusive")
	f.Float64("step", 10000, "observation spacing (m)")
	f.Float64("height", 0, "observation z (m, positive down; negative is airborne)")
	f.Float64("deepest-x", defaultDeepest[0], "x of the deepest vertex (m)")
	f.Float64("deepest-z", defaultDeepest[1], "depth of the deepest vertex (m)")
	f.Float64("noise", 0, "standard deviation of Gaussian noise added to gz (mGal)")
	f.Uint64("seed", 0, "noise seed")
	f.StringP("output", "o", "-", `output CSV path ("-" for stdout)`)

	return cmd
}

func runSynth(cmd *cobra.Command, _ []string) error {
	v, err := loadViper(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	basin := basinFrom(v)

	xs, err := spacing(v.GetFloat64("start"), v.GetFloat64("stop"), v.GetFloat64("step"))
	if err != nil {
		return err
	}
	zs := make([]float64, len(xs))
	for i := range zs {
		zs[i] = v.GetFloat64("height")
	}

	model := talwani.NewPolygon(
		[][2]float64{
			{basin.Left.X, basin.Left.Z},
			{basin.Right.X, basin.Right.Z},
			{v.GetFloat64("deepest-x"), v.GetFloat64("deepest-z")},
		},
		map[string]float64{talwani.Density: basin.Density},
	)
	gz, err := talwani.GzPolygons(xs, zs, []talwani.Polygon{model})
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}

	if sigma := v.GetFloat64("noise"); sigma > 0 {
		seed := v.GetUint64("seed")
		rng := rand.New(rand.NewPCG(seed, seed))
		for i := range gz {
			gz[i] += sigma * rng.NormFloat64()
		}
	}
	logger.Info("synthetic profile", "points", len(xs), "polygon", model.Vertices, "noise", v.GetFloat64("noise"))

	p := profile{X: xs, Z: zs, Gz: gz}
	path := v.GetString("output")
	if path == "-" {
		return writeProfile(cmd.OutOrStdout(), p)
	}

	return writeProfileFile(path, p)
}

// writeProfileFile writes p to path and reports close errors, so a failed
// flush never leaves a silently truncated file.
func writeProfileFile(path string, p profile) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return writeProfile(f, p)
}

// maxPoints caps the length of a synthetic profile.
const maxPoints = 1_000_000

// spacing returns start, start+step, … up to stop inclusive.
func spacing(start, stop, step float64) ([]float64, error) {
	for _, v := range []float64{start, stop, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("synth: start, stop and step must be finite")
		}
	}
	if step <= 0 || stop < start {
		return nil, errors.New("synth: need step > 0 and stop >= start")
	}
	count := math.Floor((stop-start)/step+1e-9) + 1
	if count > maxPoints {
		return nil, fmt.Errorf("synth: %.0f points exceed the limit of %d", count, maxPoints)
	}
	xs := make([]float64, int(count))
	for i := range xs {
		xs[i] = start + float64(i)*step
	}

	return xs, nil
}
