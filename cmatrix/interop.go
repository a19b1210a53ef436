// SPDX-License-Identifier: MIT

package cmatrix

import "gonum.org/v1/gonum/mat"

const (
	opToCDense    = "ToCDense"
	opFromCMatrix = "FromCMatrix"
	opAllClose    = "AllClose"
)

// ToCDense copies m into a gonum *mat.CDense so results can be handed to
// gonum-based pipelines.
// Errors: ErrNilMatrix, ErrInvalidDimensions (empty foreign implementations).
func ToCDense(m Matrix) (*mat.CDense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToCDense, err)
	}
	if m.Rows() <= 0 || m.Cols() <= 0 {
		return nil, matrixErrorf(opToCDense, ErrInvalidDimensions)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opToCDense, err)
	}

	// NewCDense adopts the slice; hand it a private copy.
	return mat.NewCDense(dm.r, dm.c, dm.RawData()), nil
}

// FromCMatrix copies any gonum mat.CMatrix into a new Dense.
// Errors: ErrNilMatrix, ErrInvalidDimensions (empty source), ErrNaNInf.
func FromCMatrix(src mat.CMatrix, opts ...Option) (*Dense, error) {
	if src == nil {
		return nil, matrixErrorf(opFromCMatrix, ErrNilMatrix)
	}
	r, c := src.Dims()
	out, err := NewDense(r, c, opts...)
	if err != nil {
		return nil, matrixErrorf(opFromCMatrix, err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if err = out.Set(i, j, src.At(i, j)); err != nil {
				return nil, matrixErrorf(opFromCMatrix, err)
			}
		}
	}

	return out, nil
}

// AllClose reports whether a and b have the same shape and every pair of
// entries agrees within eps (absolute or relative), using gonum's
// mat.CEqualApprox.
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrInvalidArgument (bad eps).
func AllClose(a, b Matrix, eps float64) (bool, error) {
	if !validTolerance(eps) {
		return false, matrixErrorf(opAllClose, ErrInvalidArgument)
	}
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	ca, err := ToCDense(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	cb, err := ToCDense(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	return mat.CEqualApprox(ca, cb, eps), nil
}
