// SPDX-License-Identifier: MIT

// Package cmatrix: functional configuration for Dense construction and the
// numeric defaults shared by validators and spectral routines.
//
// Design goals:
//   - Deterministic behavior: no global mutable state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: options carry no invalid states.
package cmatrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the structural tolerance used by Hermiticity and PSD
	// checks when callers have no better estimate of their round-off.
	DefaultEpsilon = 1e-9

	// DefaultEigenMaxIter caps the number of Jacobi rotations in EigenHermitian
	// for n>2. 2×2 inputs are solved in closed form and never iterate.
	DefaultEigenMaxIter = 10000

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public constructors accept ...Option.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithValidateNaNInf enables strict finite-value validation (the default).
// When enabled, Set and NewDenseFrom reject values whose real or imaginary
// part is NaN or ±Inf with ErrNaNInf.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables finite-value validation for scratch matrices
// where non-finite intermediates are inspected explicitly by the caller.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies user setters on top of the documented defaults.
// Last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, set := range user {
		set(&o)
	}

	return o
}

// isNonFinite reports whether either component of v is NaN or ±Inf.
func isNonFinite(v complex128) bool {
	re, im := real(v), imag(v)

	return math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0)
}

// validTolerance reports whether tol is a usable finite, non-negative tolerance.
func validTolerance(tol float64) bool {
	return !math.IsNaN(tol) && !math.IsInf(tol, 0) && tol >= 0
}
