// SPDX-License-Identifier: MIT

package cmatrix_test

import (
	"testing"

	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestToCDense_FromCMatrix_RoundTrip(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 3, []complex128{1, 2i, 3, -4i, 5 + 5i, 6})

	cd, err := cmatrix.ToCDense(m)
	require.NoError(t, err)
	r, c := cd.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, complex(5, 5), cd.At(1, 1))

	// mutation of the gonum copy does not leak back
	cd.Set(0, 0, 42)
	assert.Equal(t, complex128(1), MustAt(t, m, 0, 0))

	back, err := cmatrix.FromCMatrix(cd.H())
	require.NoError(t, err)
	assert.Equal(t, 3, back.Rows())
	assert.Equal(t, complex(0, 4), MustAt(t, back, 0, 1))
	assert.Equal(t, complex(5, -5), MustAt(t, back, 1, 1))
}

func TestFromCMatrix_Errors(t *testing.T) {
	t.Parallel()
	_, err := cmatrix.FromCMatrix(nil)
	assert.ErrorIs(t, err, cmatrix.ErrNilMatrix)

	_, err = cmatrix.FromCMatrix(&mat.CDense{})
	assert.ErrorIs(t, err, cmatrix.ErrInvalidDimensions)

	_, err = cmatrix.ToCDense(nil)
	assert.ErrorIs(t, err, cmatrix.ErrNilMatrix)
}

func TestAllClose(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []complex128{1, 1i, -1i, 1})
	b := NewFilledDense(t, 2, 2, []complex128{1 + 1e-12, 1i, -1i, 1})

	ok, err := cmatrix.AllClose(a, b, 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cmatrix.AllClose(a, NewFilledDense(t, 2, 2, []complex128{1, 0, 0, 1}), 1e-9)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cmatrix.AllClose(a, NewFilledDense(t, 1, 1, []complex128{1}), 1e-9)
	assert.ErrorIs(t, err, cmatrix.ErrDimensionMismatch)
	_, err = cmatrix.AllClose(a, b, -1)
	assert.ErrorIs(t, err, cmatrix.ErrInvalidArgument)
}
