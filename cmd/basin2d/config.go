// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/basin2d/basin2d"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BASIN2D_DENSITY.
	EnvPrefix = "BASIN2D"

	defaultLogLevel = "warn"
	defaultDensity  = 500.0
)

var (
	defaultLeft    = [2]float64{10000, 100}
	defaultRight   = [2]float64{90000, 100}
	defaultDeepest = [2]float64{50000, 5000}
	defaultInitial = [2]float64{10000, 1000}
)

// basinConfig is the model geometry shared by synth and invert.
type basinConfig struct {
	Density float64
	Left    basin2d.Vertex
	Right   basin2d.Vertex
}

// loadViper layers, from lowest to highest precedence, flag defaults, the
// optional config file, BASIN2D_ environment variables and explicit flags.
func loadViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return v, nil
}

func basinFrom(v *viper.Viper) basinConfig {
	return basinConfig{
		Density: v.GetFloat64("density"),
		Left:    basin2d.Vertex{X: v.GetFloat64("left-x"), Z: v.GetFloat64("left-z")},
		Right:   basin2d.Vertex{X: v.GetFloat64("right-x"), Z: v.GetFloat64("right-z")},
	}
}

// newLogger writes to w at the configured level.
func newLogger(v *viper.Viper, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "basin2d",
		ReportTimestamp: true,
	}), nil
}
