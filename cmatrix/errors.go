// SPDX-License-Identifier: MIT
// Package cmatrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation tag)
// and tests check them via errors.Is. No function panics on user input; panics
// are reserved for invalid option arguments.

package cmatrix

import "errors"

// Every message is prefixed with "cmatrix: ..." so it can be grepped in logs.
// Wrap with fmt.Errorf("ctx: %w", ErrX) when context is needed.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("cmatrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("cmatrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Add with different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("cmatrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("cmatrix: matrix is not square")

	// ErrNotHermitian signals that m[i,j] != conj(m[j,i]) beyond the tolerance.
	ErrNotHermitian = errors.New("cmatrix: matrix is not Hermitian within eps")

	// ErrNotPSD signals an eigenvalue below -eps where a positive semi-definite
	// matrix was required (e.g., SqrtPSD).
	ErrNotPSD = errors.New("cmatrix: matrix is not positive semi-definite")

	// ErrNaNInf signals a NaN or ±Inf component in a real or imaginary part.
	ErrNaNInf = errors.New("cmatrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("cmatrix: nil matrix")

	// ErrEigenFailed indicates that the Jacobi sweep did not converge
	// under the given tolerance/iterations.
	ErrEigenFailed = errors.New("cmatrix: eigen decomposition failed")
)

// ErrInvalidArgument signals a nonsensical scalar argument such as a negative
// tolerance or a non-positive iteration budget.
var ErrInvalidArgument = errors.New("cmatrix: invalid argument")
