// SPDX-License-Identifier: MIT
// Package: cmatrix
//
// Purpose:
//   - Provide a single, canonical source of truth for common validation checks.
//   - Keep kernels minimal by delegating shape/nil/Hermiticity checks here.
//
// Determinism & Performance:
//   - All checks are pure, deterministic and allocate nothing.
//   - The Hermitian check runs O(n²) over the upper triangle and diagonal.
//
// Note:
//   - Composite validators follow a fixed sequence (NotNil → Shape → Values).

package cmatrix

import (
	"fmt"
	"math/cmplx"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil, including a typed
// nil *Dense stored in the interface.
// Returns ErrNilMatrix. Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures a and b have equal dimensions.
// Assumes a and b are not nil. Returns ErrDimensionMismatch.
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape – Composite: NotNil(a) → NotNil(b) → SameShape.
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
// Assumes m is not nil. Returns ErrNonSquare.
func ValidateSquare(m Matrix) error {
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSquareNonNil – Composite: NotNil → Square.
func ValidateSquareNonNil(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}

	return nil
}

// ValidateMulCompatible – Composite: NotNil(a) → NotNil(b) → a.Cols == b.Rows.
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector is non-nil and has exactly n entries.
func ValidateVecLen(x []complex128, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects any entry with a NaN or ±Inf component.
// Assumes m is not nil. Returns ErrNaNInf wrapped with the coordinates.
// Complexity: O(r*c).
func ValidateFinite(m Matrix) error {
	var (
		i, j int
		v    complex128
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateFinite", err)
			}
			if isNonFinite(v) {
				return validatorErrorf("ValidateFinite", denseErrorf(ctxAt, i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateHermitian – Composite: NotNil → Square → |m[i,j] − conj(m[j,i])| ≤ eps.
//
// The diagonal must therefore be real within eps as well.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNotHermitian, ErrInvalidArgument (bad eps).
//
// Complexity:
//   - Time O(n²), Space O(1).
func ValidateHermitian(m Matrix, eps float64) error {
	if !validTolerance(eps) {
		return validatorErrorf("ValidateHermitian", ErrInvalidArgument)
	}
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateHermitian", err)
	}
	var (
		n        = m.Rows()
		i, j     int
		aij, aji complex128
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateHermitian", err)
			}
			if aji, err = m.At(j, i); err != nil {
				return validatorErrorf("ValidateHermitian", err)
			}
			// NaN fails the comparison and is reported as non-Hermitian.
			if !(cmplx.Abs(aij-cmplx.Conj(aji)) <= eps) {
				return validatorErrorf("ValidateHermitian", fmt.Errorf("(%d,%d): %w", i, j, ErrNotHermitian))
			}
		}
	}

	return nil
}
