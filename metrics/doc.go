// SPDX-License-Identifier: MIT

// Package metrics provides diagnostics over qubit density matrices.
//
// What:
//   - Purity:         Re tr(ρ²), 0.5 for the maximally mixed qubit, 1 for a pure state.
//   - Fidelity:       Uhlmann fidelity (tr √(√ρ1·ρ2·√ρ1))², 1 for identical states.
//   - MatrixDistance: Frobenius distance sqrt(tr((m1−m2)(m1−m2)†)).
//   - TraceDistance:  ½‖ρ1−ρ2‖₁ from the eigenvalues of the difference.
//   - ValidateDensity: square, finite, Hermitian, unit trace and PSD.
//
// Purity, Fidelity and TraceDistance validate their arguments with
// DefaultTolerance and report failures wrapped in ErrNotDensityMatrix.
// MatrixDistance accepts any pair of same-shaped matrices.
//
// All functions are pure and safe for concurrent use.
package metrics
