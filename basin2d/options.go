// SPDX-License-Identifier: MIT

// Package basin2d: functional configuration shared by data modules and the
// driver. Data modules read the finite-difference step, the kernel, the
// perturbation mode and the logger; the driver reads the logger and the
// regularizers. Options not relevant to a call site are ignored.
package basin2d

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/basin2d/inversion"
	"github.com/katalvlaran/basin2d/talwani"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultDelta is the finite-difference step, in profile length units.
	DefaultDelta = 1.0

	// DefaultDepthOnlyPerturbation keeps independent x and z perturbations.
	DefaultDepthOnlyPerturbation = false
)

const panicDeltaInvalid = "basin2d: WithDelta: delta must be finite, > 0"

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options is the effective configuration after applying Option setters.
type Options struct {
	delta     float64
	kernel    Kernel
	depthOnly bool
	logger    *log.Logger
	regs      []inversion.Regularizer
}

// WithDelta sets the one-sided finite-difference step used for the Jacobian.
func WithDelta(delta float64) Option {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		panic(panicDeltaInvalid)
	}

	return func(o *Options) { o.delta = delta }
}

// WithKernel replaces the forward kernel (default talwani.Gz).
func WithKernel(k Kernel) Option {
	return func(o *Options) {
		if k != nil {
			o.kernel = k
		}
	}
}

// WithDepthOnlyPerturbation reproduces historical results that built both
// Jacobian rows from a single depth perturbation of the free vertex. The x
// row is then wrong and the Hessian is singular without regularization; use
// it only to compare against old runs.
func WithDepthOnlyPerturbation() Option {
	return func(o *Options) { o.depthOnly = true }
}

// WithLogger injects a logger. nil (or no option) discards all messages.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithRegularizers passes penalty terms to the solver (the driver passes
// none by default).
func WithRegularizers(regs ...inversion.Regularizer) Option {
	return func(o *Options) { o.regs = append(o.regs, regs...) }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		delta:     DefaultDelta,
		kernel:    talwani.Gz,
		depthOnly: DefaultDepthOnlyPerturbation,
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
