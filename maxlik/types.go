// SPDX-License-Identifier: MIT

// Package maxlik reconstructs a qubit density matrix from six polarization
// intensity measurements by iterative maximum-likelihood estimation.
//
// The estimator is the R·ρ·R fixed-point iteration. Starting from the
// maximally mixed state ρ₀ = I/2 it repeats
//
//	p_i = Re tr(ρ·P_i)
//	R   = Σ_i P_i · f_i / p_i
//	ρ'  = R·ρ·R / tr(R·ρ·R)
//
// until the Frobenius distance ‖ρ' − ρ‖ drops below the convergence threshold.
// Here f_i = raw_i / Σraw are the observed frequencies and P_i the measurement
// projectors, paired with raw_i by position (H, V, D, A, R, L for the
// canonical set from package basis). Every iterate is Hermitian with unit
// trace by construction, and stays positive semi-definite because R·ρ·R is a
// congruence of a PSD matrix.
//
// Complexity:
//
//	– Time:  O(k) for k iterations; each iteration is a constant number of
//	  2×2 products.
//	– Space: O(1) beyond the result.
//
// Options:
//
//	– Epsilon:       convergence threshold on ‖ρ' − ρ‖ (default 1e-10).
//	– MaxIterations: safety cap; reaching it yields ErrNotConverged.
//	– Tolerance:     Hermiticity tolerance for caller-supplied projectors.
//	– Logger:        *slog.Logger for debug progress (default discards).
//	– OnIteration:   hook called after every iteration with a Step.
//
// Errors (sentinel):
//
//	– ErrMeasurementCount   if len(raw) != 6.
//	– ErrProjectorCount     if len(projectors) != 6.
//	– ErrInvalidMeasurement if a raw value is negative, NaN or ±Inf.
//	– ErrZeroTotal          if the raw values sum to zero.
//	– ErrInvalidProjector   if a projector is nil, not 2×2, non-finite or not Hermitian.
//	– ErrZeroProbability    if a measured outcome gets predicted probability ≤ 0.
//	– ErrDegenerateUpdate   if tr(R·ρ·R) is not a finite positive number.
//	– ErrNotConverged       if MaxIterations is reached first.
//
// Example usage:
//
//	res, err := maxlik.Reconstruct(counts, basis.Projectors())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Stokes, res.Iterations)
package maxlik

import (
	"errors"
	"log/slog"
	"math"

	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/katalvlaran/polartomo/stokes"
)

// MeasurementCount is the number of raw intensities and projectors per call.
const MeasurementCount = 6

const (
	// DefaultEpsilon is the default convergence threshold.
	DefaultEpsilon = 1e-10

	// DefaultMaxIterations caps the loop; well-posed data converges in a few
	// hundred iterations at most.
	DefaultMaxIterations = 1_000_000

	// DefaultTolerance bounds the Hermiticity check on projectors.
	DefaultTolerance = 1e-9
)

// Sentinel errors returned by Reconstruct.
var (
	// ErrMeasurementCount indicates a raw vector whose length is not 6.
	ErrMeasurementCount = errors.New("maxlik: expected 6 measurements")

	// ErrProjectorCount indicates a projector slice whose length is not 6.
	ErrProjectorCount = errors.New("maxlik: expected 6 projectors")

	// ErrInvalidMeasurement indicates a negative or non-finite raw value.
	ErrInvalidMeasurement = errors.New("maxlik: measurement must be finite and non-negative")

	// ErrZeroTotal indicates that the raw values sum to zero, so no
	// frequencies can be formed.
	ErrZeroTotal = errors.New("maxlik: measurements sum to zero")

	// ErrInvalidProjector indicates a projector that is nil, not 2×2,
	// non-finite or not Hermitian.
	ErrInvalidProjector = errors.New("maxlik: invalid projector")

	// ErrZeroProbability indicates that the current estimate predicts a
	// probability ≤ 0 (or NaN) for an outcome that was observed.
	ErrZeroProbability = errors.New("maxlik: predicted probability is not positive")

	// ErrDegenerateUpdate indicates that tr(R·ρ·R) is zero, negative or non-finite.
	ErrDegenerateUpdate = errors.New("maxlik: degenerate update")

	// ErrNotConverged indicates that MaxIterations was reached before the
	// distance fell below Epsilon.
	ErrNotConverged = errors.New("maxlik: did not converge")
)

// Result is the outcome of Reconstruct.
//
// Rho        – estimated density matrix (Hermitian, unit trace).
// Stokes     – (S1, S2, S3) of Rho.
// Iterations – number of completed updates.
// Distance   – ‖ρ_k − ρ_{k−1}‖ of the final update.
type Result struct {
	Rho        *cmatrix.Dense
	Stokes     stokes.Vector
	Iterations int
	Distance   float64
}

// Step describes one completed iteration and is passed to the OnIteration hook.
// State is a private copy of the new estimate.
type Step struct {
	Iteration int
	Distance  float64
	State     *cmatrix.Dense
}

// Options configures Reconstruct.
type Options struct {
	Epsilon       float64      // convergence threshold, > 0
	MaxIterations int          // safety cap, > 0
	Tolerance     float64      // projector Hermiticity tolerance, ≥ 0
	Logger        *slog.Logger // never nil after DefaultOptions
	OnIteration   func(Step)   // optional
}

// Option represents a functional option for configuring Reconstruct.
type Option func(*Options)

// DefaultOptions returns the configuration used when no Option is given.
func DefaultOptions() Options {
	return Options{
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// WithEpsilon sets the convergence threshold.
// Panics if eps is NaN, ±Inf or not positive.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic("maxlik: WithEpsilon requires a finite eps > 0")
	}

	return func(o *Options) { o.Epsilon = eps }
}

// WithMaxIterations sets the iteration cap. Panics if n <= 0.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic("maxlik: WithMaxIterations requires n > 0")
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the Hermiticity tolerance applied to projectors.
// Panics if tol is NaN, ±Inf or negative.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic("maxlik: WithTolerance requires a finite tol >= 0")
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithLogger routes debug progress to l. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnIteration installs a hook called after every iteration.
func WithOnIteration(fn func(Step)) Option {
	return func(o *Options) { o.OnIteration = fn }
}
