// SPDX-License-Identifier: MIT

// Package inversion: functional configuration for the solver factories.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - per-solver default sets resolved by gatherOptions.
//
// Every option is accepted by every solver; options a solver does not use
// (e.g. WithDamping for Steepest) are ignored.
package inversion

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// ---------- Defaults (single source of truth) ----------

// Stopping policy.
const (
	// DefaultTolerance is the relative goal change below which a solver stops.
	DefaultTolerance = 1e-5

	// DefaultNewtonMaxIter bounds Newton iterations.
	DefaultNewtonMaxIter = 30

	// DefaultLevMarqMaxIter bounds Levenberg-Marquardt iterations.
	DefaultLevMarqMaxIter = 100

	// DefaultSteepestMaxIter bounds steepest-descent iterations.
	DefaultSteepestMaxIter = 1000
)

// Step policy.
const (
	// DefaultLevMarqMaxSteps bounds damping increases inside one LM iteration.
	DefaultLevMarqMaxSteps = 20

	// DefaultSteepestMaxSteps bounds step halvings inside one steepest iteration.
	DefaultSteepestMaxSteps = 30

	// DefaultDamping is the initial Marquardt damping λ.
	DefaultDamping = 1.0

	// DefaultFactor multiplies or divides λ after a rejected or accepted step.
	DefaultFactor = 10.0

	// DefaultStepSize is the initial steepest-descent step length.
	DefaultStepSize = 0.1

	// DefaultArmijo is the sufficient-decrease constant of the line search.
	DefaultArmijo = 1e-4

	// DefaultMaxCondition is the largest accepted Hessian condition number.
	DefaultMaxCondition = 1e12
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicMaxIterInvalid   = "inversion: WithMaxIter: n must be > 0"
	panicMaxStepsInvalid  = "inversion: WithMaxSteps: n must be > 0"
	panicToleranceInvalid = "inversion: WithTolerance: tol must be finite, non-negative"
	panicDampingInvalid   = "inversion: WithDamping: damp must be finite, > 0"
	panicFactorInvalid    = "inversion: WithFactor: factor must be finite, > 1"
	panicStepSizeInvalid  = "inversion: WithStepSize: size must be finite, > 0"
	panicMaxCondInvalid   = "inversion: WithMaxCondition: cond must be > 1"
)

// ---------- Public option type (functional) ----------

// Option mutates solver options. Constructors panic only on nonsensical
// values (programmer error).
type Option func(*Options)

// Options is the effective solver configuration after applying Option setters.
type Options struct {
	maxIter  int     // iteration limit
	maxSteps int     // inner step attempts per iteration
	tol      float64 // relative goal change to stop
	damp     float64 // initial Marquardt λ
	factor   float64 // λ update factor
	stepSize float64 // initial steepest step
	maxCond  float64 // Hessian condition limit
	parallel bool    // per-module accumulation in goroutines
	logger   *log.Logger
}

// WithMaxIter sets the iteration limit.
func WithMaxIter(n int) Option {
	if n <= 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithMaxSteps sets how many step attempts one iteration may make before
// the solver gives up (damping increases for LevMarq, halvings for Steepest).
func WithMaxSteps(n int) Option {
	if n <= 0 {
		panic(panicMaxStepsInvalid)
	}

	return func(o *Options) { o.maxSteps = n }
}

// WithTolerance sets the relative goal change |Δgoal|/goal below which the
// solver reports convergence. Zero disables the test.
func WithTolerance(tol float64) Option {
	if isNonFinite(tol) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithDamping sets the initial Marquardt damping parameter.
func WithDamping(damp float64) Option {
	if isNonFinite(damp) || damp <= 0 {
		panic(panicDampingInvalid)
	}

	return func(o *Options) { o.damp = damp }
}

// WithFactor sets the damping update factor.
func WithFactor(factor float64) Option {
	if isNonFinite(factor) || factor <= 1 {
		panic(panicFactorInvalid)
	}

	return func(o *Options) { o.factor = factor }
}

// WithStepSize sets the initial steepest-descent step length.
func WithStepSize(size float64) Option {
	if isNonFinite(size) || size <= 0 {
		panic(panicStepSizeInvalid)
	}

	return func(o *Options) { o.stepSize = size }
}

// WithMaxCondition sets the condition number above which the Hessian is
// treated as singular.
func WithMaxCondition(cond float64) Option {
	if math.IsNaN(cond) || cond <= 1 {
		panic(panicMaxCondInvalid)
	}

	return func(o *Options) { o.maxCond = cond }
}

// WithParallel evaluates the gradient and Hessian terms of each data module
// in its own goroutine. Contributions are reduced in module order.
//
// Modules keep per-iteration caches, so distinct modules must not share
// mutable state. The same module value listed twice is evaluated serially
// within one goroutine.
func WithParallel() Option {
	return func(o *Options) { o.parallel = true }
}

// WithLogger sets the logger for solver diagnostics. nil discards them.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// gatherOptions starts from the shared defaults, applies the solver's
// iteration/step limits, then the caller's options.
func gatherOptions(maxIter, maxSteps int, opts ...Option) Options {
	o := Options{
		maxIter:  maxIter,
		maxSteps: maxSteps,
		tol:      DefaultTolerance,
		damp:     DefaultDamping,
		factor:   DefaultFactor,
		stepSize: DefaultStepSize,
		maxCond:  DefaultMaxCondition,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	return o
}

func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
