// SPDX-License-Identifier: MIT
// Package cmatrix provides universal operations on any Matrix implementation:
// element-wise addition and subtraction, multiplication, conjugate transpose,
// scaling, trace, outer products and the Frobenius norm. All functions perform
// strict fail-fast validation and return a freshly allocated *Dense; operands
// are never mutated.

package cmatrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Operation name constants for unified error wrapping.
const (
	opAdd           = "Add"
	opSub           = "Sub"
	opMul           = "Mul"
	opScale         = "Scale"
	opConjTranspose = "ConjTranspose"
	opTrace         = "Trace"
	opOuter         = "Outer"
	opFrobenius     = "FrobeniusNorm"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result Dense(rows, cols).
//   - Stage 2: Fast-path if both are *Dense - single flat loop 0..n-1.
//     Otherwise, fallback At with fixed i→j order.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b Matrix, sign complex128, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = da.data[idx] + sign*db.data[idx]
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, 1, opAdd) }

// Sub computes the element-wise difference C = A - B.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j with row-major strides, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, k, j                            int
		av                                 complex128
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < da.r; i++ {
		rowOffsetA = i * da.c
		rowOffsetR = i * db.c
		for k = 0; k < da.c; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * db.c
			for j = 0; j < db.c; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Scale returns alpha·m.
// Errors: ErrNilMatrix. Complexity: O(r*c).
func Scale(m Matrix, alpha complex128) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(dm.r, dm.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range dm.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// ConjTranspose returns the Hermitian adjoint m† (rows and columns swapped,
// every entry conjugated).
// Errors: ErrNilMatrix. Complexity: O(r*c).
func ConjTranspose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opConjTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opConjTranspose, err)
	}
	res, err := NewDense(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opConjTranspose, err)
	}
	var i, j int
	for i = 0; i < dm.r; i++ {
		for j = 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = cmplx.Conj(dm.data[i*dm.c+j])
		}
	}

	return res, nil
}

// Trace returns Σ m[i,i] of a square matrix.
// Errors: ErrNilMatrix, ErrNonSquare. Complexity: O(n).
func Trace(m Matrix) (complex128, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	var (
		sum complex128
		v   complex128
		err error
	)
	for i := 0; i < m.Rows(); i++ {
		if v, err = m.At(i, i); err != nil {
			return 0, matrixErrorf(opTrace, err)
		}
		sum += v
	}

	return sum, nil
}

// Outer returns the outer product u·v†, i.e. out[i,j] = u[i]·conj(v[j]).
// Outer(s, s) of a unit vector s is the rank-1 projector |s⟩⟨s|.
//
// Errors: ErrInvalidDimensions when either vector is empty.
// Complexity: O(len(u)·len(v)).
func Outer(u, v []complex128) (*Dense, error) {
	res, err := NewDense(len(u), len(v))
	if err != nil {
		return nil, matrixErrorf(opOuter, err)
	}
	for i, ui := range u {
		for j, vj := range v {
			res.data[i*res.c+j] = ui * cmplx.Conj(vj)
		}
	}

	return res, nil
}

// FrobeniusNorm returns sqrt(Σ|m[i,j]|²), which equals sqrt(tr(m·m†)).
// Errors: ErrNilMatrix. Complexity: O(r*c).
func FrobeniusNorm(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	var sum float64
	for _, v := range dm.data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}

	return math.Sqrt(sum), nil
}
