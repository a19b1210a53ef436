// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/polartomo/cmatrix"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultTolerance bounds Hermiticity, trace and eigenvalue checks.
const DefaultTolerance = 1e-8

// ErrNotDensityMatrix wraps every density-matrix precondition failure.
var ErrNotDensityMatrix = errors.New("metrics: not a density matrix")

const (
	opPurity         = "Purity"
	opFidelity       = "Fidelity"
	opMatrixDistance = "MatrixDistance"
	opTraceDistance  = "TraceDistance"
)

func metricErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateDensity checks that rho is square, finite, Hermitian within tol,
// has trace 1 within tol and no eigenvalue below −tol.
//
// Errors:
//   - ErrNotDensityMatrix wrapping the underlying cmatrix error (nil, shape,
//     NaN/Inf, Hermiticity) or describing the trace/eigenvalue violation.
func ValidateDensity(rho cmatrix.Matrix, tol float64) error {
	if err := cmatrix.ValidateSquareNonNil(rho); err != nil {
		return fmt.Errorf("%w: %w", ErrNotDensityMatrix, err)
	}
	if err := cmatrix.ValidateFinite(rho); err != nil {
		return fmt.Errorf("%w: %w", ErrNotDensityMatrix, err)
	}
	if err := cmatrix.ValidateHermitian(rho, tol); err != nil {
		return fmt.Errorf("%w: %w", ErrNotDensityMatrix, err)
	}
	tr, err := cmatrix.Trace(rho)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotDensityMatrix, err)
	}
	if !scalar.EqualWithinAbs(real(tr), 1, tol) {
		return fmt.Errorf("%w: trace %g", ErrNotDensityMatrix, real(tr))
	}
	vals, _, err := cmatrix.EigenHermitian(rho, tol, cmatrix.DefaultEigenMaxIter)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotDensityMatrix, err)
	}
	// ascending, so the first one decides
	if vals[0] < -tol {
		return fmt.Errorf("%w: eigenvalue %g", ErrNotDensityMatrix, vals[0])
	}

	return nil
}

// Purity returns Re tr(ρ²).
// Errors: ErrNotDensityMatrix.
func Purity(rho cmatrix.Matrix) (float64, error) {
	if err := ValidateDensity(rho, DefaultTolerance); err != nil {
		return 0, metricErrorf(opPurity, err)
	}
	sq, err := cmatrix.Mul(rho, rho)
	if err != nil {
		return 0, metricErrorf(opPurity, err)
	}
	tr, err := cmatrix.Trace(sq)
	if err != nil {
		return 0, metricErrorf(opPurity, err)
	}

	return real(tr), nil
}

// Fidelity returns the Uhlmann fidelity F = (tr √(√ρ1·ρ2·√ρ1))².
//
// Implementation:
//   - Stage 1: validate both operands as density matrices of equal shape.
//   - Stage 2: s = SqrtPSD(ρ1); inner = SqrtPSD(s·ρ2·s).
//   - Stage 3: F = (Re tr inner)², clamped into [0, 1] against round-off.
//
// F(ρ, ρ) = 1, F is symmetric, and for a pure ρ2 = |ψ⟩⟨ψ| it reduces to ⟨ψ|ρ1|ψ⟩.
//
// Errors:
//   - ErrNotDensityMatrix, cmatrix.ErrDimensionMismatch.
func Fidelity(rho1, rho2 cmatrix.Matrix) (float64, error) {
	if err := ValidateDensity(rho1, DefaultTolerance); err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	if err := ValidateDensity(rho2, DefaultTolerance); err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	if err := cmatrix.ValidateSameShape(rho1, rho2); err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	s, err := cmatrix.SqrtPSD(rho1, DefaultTolerance)
	if err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	left, err := cmatrix.Mul(s, rho2)
	if err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	sandwich, err := cmatrix.Mul(left, s)
	if err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	inner, err := cmatrix.SqrtPSD(sandwich, DefaultTolerance)
	if err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	tr, err := cmatrix.Trace(inner)
	if err != nil {
		return 0, metricErrorf(opFidelity, err)
	}
	f := real(tr) * real(tr)

	return math.Min(math.Max(f, 0), 1), nil
}

// MatrixDistance returns sqrt(tr((m1−m2)(m1−m2)†)), the Frobenius norm of the
// difference. Unlike the other metrics it accepts any same-shaped matrices.
// Errors: cmatrix.ErrNilMatrix, cmatrix.ErrDimensionMismatch.
func MatrixDistance(m1, m2 cmatrix.Matrix) (float64, error) {
	diff, err := cmatrix.Sub(m1, m2)
	if err != nil {
		return 0, metricErrorf(opMatrixDistance, err)
	}
	d, err := cmatrix.FrobeniusNorm(diff)
	if err != nil {
		return 0, metricErrorf(opMatrixDistance, err)
	}

	return d, nil
}

// TraceDistance returns ½·Σ|λk| over the eigenvalues of ρ1−ρ2, a value in
// [0, 1] for density matrices. For qubits it equals half the Euclidean
// distance between the two Stokes vectors.
// Errors: ErrNotDensityMatrix, cmatrix.ErrDimensionMismatch.
func TraceDistance(rho1, rho2 cmatrix.Matrix) (float64, error) {
	if err := ValidateDensity(rho1, DefaultTolerance); err != nil {
		return 0, metricErrorf(opTraceDistance, err)
	}
	if err := ValidateDensity(rho2, DefaultTolerance); err != nil {
		return 0, metricErrorf(opTraceDistance, err)
	}
	diff, err := cmatrix.Sub(rho1, rho2)
	if err != nil {
		return 0, metricErrorf(opTraceDistance, err)
	}
	vals, _, err := cmatrix.EigenHermitian(diff, 2*DefaultTolerance, cmatrix.DefaultEigenMaxIter)
	if err != nil {
		return 0, metricErrorf(opTraceDistance, err)
	}
	var sum float64
	for _, v := range vals {
		sum += math.Abs(v)
	}

	return sum / 2, nil
}
