// SPDX-License-Identifier: MIT

// Package polartomo reconstructs the polarization state of a light beam, a
// qubit density matrix, from six intensity measurements by maximum-likelihood
// quantum state tomography.
//
// The measurement model projects the beam onto the horizontal, vertical,
// diagonal, anti-diagonal, right- and left-circular states (always in that
// order). The iterative R·ρ·R estimator turns the observed counts into the
// physical density matrix most likely to have produced them.
//
// Packages:
//
//	cmatrix/        complex Dense matrices, Hermitian eigen-decomposition, PSD square root, gonum interop
//	basis/          the six canonical states and their rank-1 projectors
//	stokes/         Pauli matrices and density matrix ↔ Stokes vector conversions
//	maxlik/         the maximum-likelihood reconstruction
//	metrics/        purity, fidelity, Frobenius and trace distances, density validation
//	batch/          concurrent reconstruction of YAML datasets with summary statistics
//	cmd/polartomo   command line front end
//
// Quick start:
//
//	counts := []float64{6.67, 0.0027, 3.30, 3.36, 3.61, 3.32}
//	res, err := maxlik.Reconstruct(counts, basis.Projectors())
//	if err != nil {
//		log.Fatal(err)
//	}
//	purity, _ := metrics.Purity(res.Rho)
//	fmt.Println(res.Stokes, purity)
//
// Every exported function validates its input and reports failures as
// sentinel errors wrapped with context; match them with errors.Is.
package polartomo
