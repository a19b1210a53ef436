// SPDX-License-Identifier: MIT

// Package stokes converts between qubit density matrices and real Stokes
// vectors through the Pauli expansion
//
//	ρ = ½·(I + S1·σz + S2·σx + S3·σy)
//
// S1 measures H/V, S2 measures D/A and S3 measures R/L polarization; a pure
// state lies on the unit (Poincaré) sphere, the maximally mixed state at the
// origin. For Hermitian, trace-1 input the two conversions are exact inverses.
package stokes

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/polartomo/cmatrix"
)

// ErrNotQubit is returned when a density matrix is not 2×2.
var ErrNotQubit = errors.New("stokes: density matrix must be 2x2")

// ErrNonFinite is returned when a Stokes component is NaN or ±Inf.
var ErrNonFinite = errors.New("stokes: non-finite component")

// Vector holds (S1, S2, S3) = (tr ρσz, tr ρσx, tr ρσy).
type Vector [3]float64

var pauli [3]*cmatrix.Dense

func init() {
	pauli[0], _ = cmatrix.NewDenseFrom(2, 2, []complex128{1, 0, 0, -1})   // σz
	pauli[1], _ = cmatrix.NewDenseFrom(2, 2, []complex128{0, 1, 1, 0})    // σx
	pauli[2], _ = cmatrix.NewDenseFrom(2, 2, []complex128{0, -1i, 1i, 0}) // σy
}

// PauliZ returns a copy of σz = diag(1, −1).
func PauliZ() *cmatrix.Dense { return pauli[0].Clone().(*cmatrix.Dense) }

// PauliX returns a copy of σx.
func PauliX() *cmatrix.Dense { return pauli[1].Clone().(*cmatrix.Dense) }

// PauliY returns a copy of σy.
func PauliY() *cmatrix.Dense { return pauli[2].Clone().(*cmatrix.Dense) }

// FromDensity returns the Stokes vector Sk = Re tr(ρ·σk) of a 2×2 matrix.
// Errors: cmatrix.ErrNilMatrix, ErrNotQubit.
func FromDensity(rho cmatrix.Matrix) (Vector, error) {
	if err := cmatrix.ValidateNotNil(rho); err != nil {
		return Vector{}, fmt.Errorf("FromDensity: %w", err)
	}
	if rho.Rows() != 2 || rho.Cols() != 2 {
		return Vector{}, fmt.Errorf("FromDensity: %dx%d: %w", rho.Rows(), rho.Cols(), ErrNotQubit)
	}
	var v Vector
	for k, s := range pauli {
		prod, err := cmatrix.Mul(rho, s)
		if err != nil {
			return Vector{}, fmt.Errorf("FromDensity: %w", err)
		}
		tr, err := cmatrix.Trace(prod)
		if err != nil {
			return Vector{}, fmt.Errorf("FromDensity: %w", err)
		}
		v[k] = real(tr)
	}

	return v, nil
}

// ToDensity returns ½·[[1+S1, S2−iS3], [S2+iS3, 1−S1]].
// Errors: ErrNonFinite.
func ToDensity(v Vector) (*cmatrix.Dense, error) {
	for k, s := range v {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("ToDensity: S%d=%g: %w", k+1, s, ErrNonFinite)
		}
	}
	s1, s2, s3 := v[0], v[1], v[2]

	return cmatrix.NewDenseFrom(2, 2, []complex128{
		complex((1+s1)/2, 0), complex(s2/2, -s3/2),
		complex(s2/2, s3/2), complex((1-s1)/2, 0),
	})
}

// DegreeOfPolarization returns |S|: 1 for pure states, 0 for the maximally
// mixed state. For a qubit, purity = (1 + |S|²)/2.
func (v Vector) DegreeOfPolarization() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// String formats the vector as "[S1 S2 S3]" with six significant digits.
func (v Vector) String() string {
	return fmt.Sprintf("[%.6g %.6g %.6g]", v[0], v[1], v[2])
}
