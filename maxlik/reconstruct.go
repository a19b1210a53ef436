// SPDX-License-Identifier: MIT

package maxlik

import (
	"fmt"
	"math"

	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/katalvlaran/polartomo/metrics"
	"github.com/katalvlaran/polartomo/stokes"
)

// Reconstruct estimates the density matrix that maximizes the likelihood of
// raw under the given projectors.
//
// Implementation:
//   - Stage 1: Validate raw (count, sign, finiteness, non-zero sum) and
//     projectors (count, 2×2, finite, Hermitian within Tolerance).
//   - Stage 2: Normalize raw into frequencies; ρ ← I/2.
//   - Stage 3: Iterate ρ ← R·ρ·R / tr(R·ρ·R) until ‖ρ' − ρ‖ < Epsilon.
//     Outcomes with zero frequency contribute nothing to R.
//
// On ErrNotConverged the returned Result still holds the last iterate so that
// callers can inspect how far the estimate got.
//
// Reconstruct never mutates raw or projectors and is safe for concurrent use.
func Reconstruct(raw []float64, projectors []cmatrix.Matrix, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	freqs, err := frequencies(raw)
	if err != nil {
		return Result{}, err
	}
	if err = validateProjectors(projectors, o.Tolerance); err != nil {
		return Result{}, err
	}

	rho, _ := cmatrix.NewDenseFrom(2, 2, []complex128{0.5, 0, 0, 0.5})
	var (
		next *cmatrix.Dense
		dist = math.Inf(1)
		iter int
	)
	for iter = 1; iter <= o.MaxIterations; iter++ {
		if next, err = update(rho, freqs, projectors); err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", iter, err)
		}
		if dist, err = metrics.MatrixDistance(next, rho); err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", iter, err)
		}
		rho = next
		if o.OnIteration != nil {
			o.OnIteration(Step{Iteration: iter, Distance: dist, State: rho.Clone().(*cmatrix.Dense)})
		}
		if dist < o.Epsilon {
			break
		}
	}

	res := Result{Rho: rho, Iterations: min(iter, o.MaxIterations), Distance: dist}
	if res.Stokes, err = stokes.FromDensity(rho); err != nil {
		return Result{}, err
	}
	if iter > o.MaxIterations {
		o.Logger.Warn("reconstruction did not converge",
			"iterations", o.MaxIterations, "distance", dist, "epsilon", o.Epsilon)

		return res, fmt.Errorf("%w: %d iterations, last distance %g", ErrNotConverged, o.MaxIterations, dist)
	}
	o.Logger.Debug("reconstruction converged",
		"iterations", res.Iterations, "distance", dist, "stokes", res.Stokes.String())

	return res, nil
}

// frequencies validates raw and returns raw_i / Σraw.
func frequencies(raw []float64) ([]float64, error) {
	if len(raw) != MeasurementCount {
		return nil, fmt.Errorf("%w: got %d", ErrMeasurementCount, len(raw))
	}
	var total float64
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: raw[%d]=%g", ErrInvalidMeasurement, i, v)
		}
		total += v
	}
	if total <= 0 {
		return nil, ErrZeroTotal
	}
	if math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: sum overflows", ErrInvalidMeasurement)
	}
	freqs := make([]float64, len(raw))
	for i, v := range raw {
		freqs[i] = v / total
	}

	return freqs, nil
}

func validateProjectors(projectors []cmatrix.Matrix, tol float64) error {
	if len(projectors) != MeasurementCount {
		return fmt.Errorf("%w: got %d", ErrProjectorCount, len(projectors))
	}
	for i, p := range projectors {
		if err := cmatrix.ValidateNotNil(p); err != nil {
			return fmt.Errorf("%w: projector %d: %w", ErrInvalidProjector, i, err)
		}
		if p.Rows() != 2 || p.Cols() != 2 {
			return fmt.Errorf("%w: projector %d is %dx%d", ErrInvalidProjector, i, p.Rows(), p.Cols())
		}
		if err := cmatrix.ValidateFinite(p); err != nil {
			return fmt.Errorf("%w: projector %d: %w", ErrInvalidProjector, i, err)
		}
		if err := cmatrix.ValidateHermitian(p, tol); err != nil {
			return fmt.Errorf("%w: projector %d: %w", ErrInvalidProjector, i, err)
		}
	}

	return nil
}

// update performs one R·ρ·R step and renormalizes the trace.
func update(rho *cmatrix.Dense, freqs []float64, projectors []cmatrix.Matrix) (*cmatrix.Dense, error) {
	r, err := cmatrix.NewDense(2, 2)
	if err != nil {
		return nil, err
	}
	for i, p := range projectors {
		if freqs[i] == 0 {
			continue
		}
		prob, err := expectation(rho, p)
		if err != nil {
			return nil, err
		}
		// also rejects NaN
		if !(prob > 0) {
			return nil, fmt.Errorf("%w: outcome %d has p=%g", ErrZeroProbability, i, prob)
		}
		term, err := cmatrix.Scale(p, complex(freqs[i]/prob, 0))
		if err != nil {
			return nil, err
		}
		if r, err = cmatrix.Add(r, term); err != nil {
			return nil, err
		}
	}

	rRho, err := cmatrix.Mul(r, rho)
	if err != nil {
		return nil, err
	}
	sandwich, err := cmatrix.Mul(rRho, r)
	if err != nil {
		return nil, err
	}
	tr, err := cmatrix.Trace(sandwich)
	if err != nil {
		return nil, err
	}
	if norm := real(tr); !(norm > 0) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: tr(RρR)=%g", ErrDegenerateUpdate, norm)
	}

	return cmatrix.Scale(sandwich, complex(1/real(tr), 0))
}

// expectation returns the predicted probability Re tr(ρ·p).
func expectation(rho *cmatrix.Dense, p cmatrix.Matrix) (float64, error) {
	prod, err := cmatrix.Mul(rho, p)
	if err != nil {
		return 0, err
	}
	tr, err := cmatrix.Trace(prod)
	if err != nil {
		return 0, err
	}

	return real(tr), nil
}
