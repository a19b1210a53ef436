// SPDX-License-Identifier: MIT

// Package cmatrix provides a small, dependable complex-valued dense matrix
// toolkit sized for quantum-state work on qubits and short registers.
//
// 🚀 What is inside?
//
//   - Dense   : row-major complex128 storage with safe At/Set accessors.
//   - Kernels : Add, Sub, Mul, Scale, ConjTranspose, Trace, Outer, FrobeniusNorm.
//   - Spectral: EigenHermitian (closed form for 2×2, complex Jacobi for n>2)
//     and SqrtPSD, the principal square root of a PSD Hermitian matrix.
//   - Validators: shape, Hermiticity and finiteness checks that return sentinels.
//   - Interop : ToCDense / FromCMatrix bridges to gonum's mat.CDense.
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/polartomo/cmatrix"
//
//	rho, _ := cmatrix.NewDenseFrom(2, 2, []complex128{0.5, 0, 0, 0.5})
//	root, err := cmatrix.SqrtPSD(rho, cmatrix.DefaultEpsilon)
//
// Errors:
//
//	Every public function returns package sentinels (ErrNilMatrix,
//	ErrDimensionMismatch, ErrNotHermitian, ErrNotPSD, ...) wrapped with an
//	operation tag; match them with errors.Is.
//
// Performance:
//
//   - At/Set: O(1); Mul: O(r·n·c); EigenHermitian: O(1) for 2×2,
//     O(sweeps·n³) otherwise.
package cmatrix
