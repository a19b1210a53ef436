// SPDX-License-Identifier: MIT
// Package cmatrix: spectral routines for Hermitian matrices.
//
// EigenHermitian computes all (real) eigenvalues and the unitary matrix of
// eigenvectors of a Hermitian matrix. 2×2 inputs use the closed form of the
// Bloch decomposition; larger inputs use the complex Jacobi method, where each
// rotation is the exact unitary diagonaliser of the pivot's 2×2 block.

package cmatrix

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

const (
	opEigen   = "EigenHermitian"
	opSqrtPSD = "SqrtPSD"
)

// EigenHermitian returns the eigenvalues of m in ascending order and a unitary
// matrix Q whose k-th column is the eigenvector of the k-th eigenvalue, so that
// m = Q·diag(values)·Q†.
//
// Implementation:
//   - Stage 1: Validate tol/maxIter, squareness, finiteness and Hermiticity (within tol).
//   - Stage 2: n==1 → trivial; n==2 → closed form; n>2 → Jacobi rotations
//     on the largest off-diagonal |A[p,q]| until it drops to tol or below.
//   - Stage 3: Sort eigenpairs ascending.
//
// Errors:
//   - ErrInvalidArgument (tol<0/non-finite, maxIter<=0), ErrNilMatrix,
//     ErrNonSquare, ErrNaNInf, ErrNotHermitian, ErrEigenFailed (no convergence).
//
// Complexity:
//   - 2×2: O(1). n×n: O(n²) per rotation search + O(n) per rotation.
func EigenHermitian(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if !validTolerance(tol) || maxIter <= 0 {
		return nil, nil, matrixErrorf(opEigen, ErrInvalidArgument)
	}
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if err := ValidateHermitian(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	switch n := dm.r; n {
	case 1:
		q, _ := NewIdentity(1)

		return []float64{real(dm.data[0])}, q, nil
	case 2:
		// Average the off-diagonal pair so round-off asymmetry cancels.
		b := (dm.data[1] + cmplx.Conj(dm.data[2])) / 2
		vals, vecs := eigen2(real(dm.data[0]), real(dm.data[3]), b)
		q, _ := NewDense(2, 2)
		q.data[0], q.data[2] = vecs[0][0], vecs[0][1] // column 0 = low eigenvector
		q.data[1], q.data[3] = vecs[1][0], vecs[1][1] // column 1 = high eigenvector

		return []float64{vals[0], vals[1]}, q, nil
	default:
		vals, q, err := jacobiHermitian(dm, tol, maxIter)
		if err != nil {
			return nil, nil, matrixErrorf(opEigen, err)
		}

		return vals, q, nil
	}
}

// eigen2 diagonalises [[a, b], [conj(b), d]] with a, d real.
// It returns the eigenvalues ascending and the matching unit eigenvectors.
//
// Writing the matrix as mean·I + r·(n·σ) with r = sqrt(((a−d)/2)² + |b|²),
// the eigenvalues are mean ∓ r and the eigenvectors follow from the polar
// angle θ = atan2(|b|, (a−d)/2) and the phase of b.
func eigen2(a, d float64, b complex128) ([2]float64, [2][2]complex128) {
	mean := (a + d) / 2
	half := (a - d) / 2
	absB := cmplx.Abs(b)
	if absB == 0 {
		if a <= d {
			return [2]float64{a, d}, [2][2]complex128{{1, 0}, {0, 1}}
		}

		return [2]float64{d, a}, [2][2]complex128{{0, 1}, {1, 0}}
	}
	r := math.Hypot(half, absB)
	theta := math.Atan2(absB, half) / 2
	c, s := complex(math.Cos(theta), 0), complex(math.Sin(theta), 0)
	phase := b / complex(absB, 0)

	lo := [2]complex128{-phase * s, c}
	hi := [2]complex128{c, cmplx.Conj(phase) * s}

	return [2]float64{mean - r, mean + r}, [2][2]complex128{lo, hi}
}

// jacobiHermitian runs complex Jacobi rotations on a private copy of m.
func jacobiHermitian(m *Dense, tol float64, maxIter int) ([]float64, *Dense, error) {
	var (
		n         = m.r
		a         = m.clone()
		q, _      = NewIdentity(n)
		i, j      int
		p, r      int
		maxOff    float64
		converged bool
	)
	for iter := 0; iter < maxIter; iter++ {
		// find largest off-diagonal |A[p][r]|
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if off := cmplx.Abs(a.data[i*n+j]); off > maxOff {
					maxOff = off
					p, r = i, j
				}
			}
		}
		if maxOff <= tol {
			converged = true

			break
		}

		vals, vecs := eigen2(real(a.data[p*n+p]), real(a.data[r*n+r]), a.data[p*n+r])
		// G is the identity except for the (p,r) block whose columns are vecs.
		gpp, grp := vecs[0][0], vecs[0][1]
		gpr, grr := vecs[1][0], vecs[1][1]

		// A ← A·G (columns p and r)
		for i = 0; i < n; i++ {
			aip, air := a.data[i*n+p], a.data[i*n+r]
			a.data[i*n+p] = aip*gpp + air*grp
			a.data[i*n+r] = aip*gpr + air*grr
		}
		// A ← G†·A (rows p and r)
		for j = 0; j < n; j++ {
			apj, arj := a.data[p*n+j], a.data[r*n+j]
			a.data[p*n+j] = cmplx.Conj(gpp)*apj + cmplx.Conj(grp)*arj
			a.data[r*n+j] = cmplx.Conj(gpr)*apj + cmplx.Conj(grr)*arj
		}
		a.data[p*n+p], a.data[r*n+r] = complex(vals[0], 0), complex(vals[1], 0)
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		// Q ← Q·G
		for i = 0; i < n; i++ {
			qip, qir := q.data[i*n+p], q.data[i*n+r]
			q.data[i*n+p] = qip*gpp + qir*grp
			q.data[i*n+r] = qip*gpr + qir*grr
		}
	}
	if !converged {
		return nil, nil, fmt.Errorf("after %d rotations: %w", maxIter, ErrEigenFailed)
	}

	// Sort eigenpairs ascending; permute Q's columns to match.
	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return real(a.data[order[x]*n+order[x]]) < real(a.data[order[y]*n+order[y]])
	})
	vals := make([]float64, n)
	sorted, _ := NewDense(n, n)
	for k, src := range order {
		vals[k] = real(a.data[src*n+src])
		for i = 0; i < n; i++ {
			sorted.data[i*n+k] = q.data[i*n+src]
		}
	}

	return vals, sorted, nil
}

// SqrtPSD returns the principal square root of a positive semi-definite
// Hermitian matrix: the unique PSD X with X·X = m.
//
// Eigenvalues in [-tol, 0) are treated as round-off and clamped to zero;
// anything below -tol is reported as ErrNotPSD.
//
// Errors:
//   - every EigenHermitian error, ErrNotPSD.
//
// Complexity:
//   - O(1) for 2×2, dominated by EigenHermitian otherwise.
func SqrtPSD(m Matrix, tol float64) (*Dense, error) {
	vals, q, err := EigenHermitian(m, tol, DefaultEigenMaxIter)
	if err != nil {
		return nil, matrixErrorf(opSqrtPSD, err)
	}
	n := len(vals)
	roots := make([]float64, n)
	for k, v := range vals {
		if v < -tol {
			return nil, matrixErrorf(opSqrtPSD, fmt.Errorf("eigenvalue %g: %w", v, ErrNotPSD))
		}
		roots[k] = math.Sqrt(math.Max(v, 0))
	}

	// X = Q·diag(roots)·Q†
	res, _ := NewDense(n, n)
	var i, j, k int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			var sum complex128
			for k = 0; k < n; k++ {
				sum += q.data[i*n+k] * complex(roots[k], 0) * cmplx.Conj(q.data[j*n+k])
			}
			res.data[i*n+j] = sum
		}
	}

	return res, nil
}
