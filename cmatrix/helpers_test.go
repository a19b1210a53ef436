// SPDX-License-Identifier: MIT

package cmatrix_test

import (
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// hide wraps a Matrix so kernels cannot see the concrete *Dense and must use
// the generic At path.
type hide struct{ cmatrix.Matrix }

// NewFilledDense builds a rows×cols Dense from row-major data or fails the test.
func NewFilledDense(t testing.TB, rows, cols int, data []complex128) *cmatrix.Dense {
	t.Helper()
	m, err := cmatrix.NewDenseFrom(rows, cols, data)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t testing.TB, m cmatrix.Matrix, i, j int) complex128 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireClose asserts element-wise |a-b| <= eps.
func requireClose(t testing.TB, want, got cmatrix.Matrix, eps float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows(), "rows")
	require.Equal(t, want.Cols(), got.Cols(), "cols")
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, g := MustAt(t, want, i, j), MustAt(t, got, i, j)
			require.LessOrEqualf(t, cmplx.Abs(w-g), eps, "[%d,%d]: want %v got %v", i, j, w, g)
		}
	}
}
