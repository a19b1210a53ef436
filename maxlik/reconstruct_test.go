// SPDX-License-Identifier: MIT

package maxlik_test

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/polartomo/basis"
	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/katalvlaran/polartomo/maxlik"
	"github.com/katalvlaran/polartomo/metrics"
	"github.com/katalvlaran/polartomo/stokes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceCounts is a measured H-polarized beam; the small V reading and the
// slight R/L imbalance push the linear estimate just outside the Poincaré
// sphere, so the estimate lands on a near-pure state.
var referenceCounts = []float64{
	6.67265857458, 0.00272742509842, 3.30350962877,
	3.36134728193, 3.60658968687, 3.31671561003,
}

func requirePhysical(t *testing.T, rho *cmatrix.Dense) {
	t.Helper()
	require.NotNil(t, rho)
	tr, err := cmatrix.Trace(rho)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(tr), 1e-8, "trace")
	assert.InDelta(t, 0.0, imag(tr), 1e-8, "trace")
	assert.NoError(t, cmatrix.ValidateHermitian(rho, 1e-8))
	assert.NoError(t, metrics.ValidateDensity(rho, metrics.DefaultTolerance))
}

// noiseless returns the ideal intensities of l measured against the basis.
func noiseless(t *testing.T, l basis.Label, scale float64) []float64 {
	t.Helper()
	rho := basis.ProjectorOf(l)
	raw := make([]float64, basis.Size)
	for i, p := range basis.Projectors() {
		prod, err := cmatrix.Mul(rho, p)
		require.NoError(t, err)
		tr, err := cmatrix.Trace(prod)
		require.NoError(t, err)
		// clamp round-off below zero for orthogonal pairs
		raw[i] = scale * math.Max(real(tr), 0)
	}

	return raw
}

func TestReconstruct_ReferenceData(t *testing.T) {
	t.Parallel()
	res, err := maxlik.Reconstruct(referenceCounts, basis.Projectors())
	require.NoError(t, err)
	requirePhysical(t, res.Rho)

	assert.Less(t, res.Distance, maxlik.DefaultEpsilon)
	assert.Greater(t, res.Iterations, 1)

	p, err := metrics.Purity(res.Rho)
	require.NoError(t, err)
	assert.Greater(t, p, 0.999)

	f, err := metrics.Fidelity(res.Rho, basis.ProjectorOf(basis.H))
	require.NoError(t, err)
	assert.InDelta(t, 0.9996, f, 1e-3)

	assert.InDelta(t, 0.9991, res.Stokes[0], 1e-3)
	assert.InDelta(t, -0.0084, res.Stokes[1], 1e-3)
	assert.InDelta(t, 0.0408, res.Stokes[2], 1e-3)

	fromRho, err := stokes.FromDensity(res.Rho)
	require.NoError(t, err)
	assert.Equal(t, fromRho, res.Stokes)
}

func TestReconstruct_NoiselessPureStates(t *testing.T) {
	t.Parallel()
	for _, l := range basis.Labels() {
		t.Run(l.String(), func(t *testing.T) {
			res, err := maxlik.Reconstruct(noiseless(t, l, 1000), basis.Projectors())
			require.NoError(t, err)
			requirePhysical(t, res.Rho)

			p, err := metrics.Purity(res.Rho)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, p, 1e-3)

			f, err := metrics.Fidelity(res.Rho, basis.ProjectorOf(l))
			require.NoError(t, err)
			assert.Greater(t, f, 0.999)
		})
	}
}

// Inside the sphere the estimate coincides with linear inversion:
// S1 = (H−V)/(H+V), S2 = (D−A)/(D+A), S3 = (R−L)/(R+L).
func TestReconstruct_InteriorMatchesLinearInversion(t *testing.T) {
	t.Parallel()
	res, err := maxlik.Reconstruct([]float64{3, 1, 2, 2, 2.5, 1.5}, basis.Projectors())
	require.NoError(t, err)
	requirePhysical(t, res.Rho)

	want := stokes.Vector{0.5, 0, 0.25}
	for k := range want {
		assert.InDelta(t, want[k], res.Stokes[k], 1e-6, "S%d", k+1)
	}
}

func TestReconstruct_UniformCountsStayMaximallyMixed(t *testing.T) {
	t.Parallel()
	res, err := maxlik.Reconstruct([]float64{5, 5, 5, 5, 5, 5}, basis.Projectors())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	assert.Less(t, res.Distance, 1e-15)

	p, err := metrics.Purity(res.Rho)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-15)
	assert.InDelta(t, 0.0, res.Stokes.DegreeOfPolarization(), 1e-15)
}

func TestReconstruct_ScaleInvariant(t *testing.T) {
	t.Parallel()
	scaled := make([]float64, len(referenceCounts))
	for i, v := range referenceCounts {
		scaled[i] = 1e4 * v
	}
	a, err := maxlik.Reconstruct(referenceCounts, basis.Projectors())
	require.NoError(t, err)
	b, err := maxlik.Reconstruct(scaled, basis.Projectors())
	require.NoError(t, err)
	d, err := metrics.MatrixDistance(a.Rho, b.Rho)
	require.NoError(t, err)
	assert.Less(t, d, 1e-8)
}

func TestReconstruct_InputErrors(t *testing.T) {
	t.Parallel()
	good := basis.Projectors()

	nonHermitian, _ := cmatrix.NewDenseFrom(2, 2, []complex128{1, 1, 0, 0})
	zero, _ := cmatrix.NewDense(2, 2)
	big, _ := cmatrix.NewIdentity(3)
	nonFinite, _ := cmatrix.NewDenseFrom(2, 2, []complex128{complex(math.Inf(1), 0), 0, 0, 0}, cmatrix.WithNoValidateNaNInf())

	with := func(i int, m cmatrix.Matrix) []cmatrix.Matrix {
		ps := basis.Projectors()
		ps[i] = m

		return ps
	}

	tests := []struct {
		name string
		raw  []float64
		ps   []cmatrix.Matrix
		want error
	}{
		{"all zero", []float64{0, 0, 0, 0, 0, 0}, good, maxlik.ErrZeroTotal},
		{"too few", []float64{1, 2, 3, 4, 5}, good, maxlik.ErrMeasurementCount},
		{"too many", []float64{1, 2, 3, 4, 5, 6, 7}, good, maxlik.ErrMeasurementCount},
		{"nil raw", nil, good, maxlik.ErrMeasurementCount},
		{"negative", []float64{1, -1, 1, 1, 1, 1}, good, maxlik.ErrInvalidMeasurement},
		{"NaN", []float64{1, math.NaN(), 1, 1, 1, 1}, good, maxlik.ErrInvalidMeasurement},
		{"Inf", []float64{1, math.Inf(1), 1, 1, 1, 1}, good, maxlik.ErrInvalidMeasurement},
		{"overflowing sum", []float64{math.MaxFloat64, math.MaxFloat64, 1, 1, 1, 1}, good, maxlik.ErrInvalidMeasurement},
		{"five projectors", referenceCounts, good[:5], maxlik.ErrProjectorCount},
		{"nil projector", referenceCounts, with(2, nil), maxlik.ErrInvalidProjector},
		{"3x3 projector", referenceCounts, with(0, big), maxlik.ErrInvalidProjector},
		{"non-Hermitian projector", referenceCounts, with(4, nonHermitian), maxlik.ErrInvalidProjector},
		{"non-finite projector", referenceCounts, with(1, nonFinite), maxlik.ErrInvalidProjector},
		{"zero projector observed", referenceCounts, with(3, zero), maxlik.ErrZeroProbability},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := maxlik.Reconstruct(tc.raw, tc.ps)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, res.Rho)
		})
	}
}

// A zero projector is harmless when its outcome was never observed.
func TestReconstruct_UnobservedOutcomeIsSkipped(t *testing.T) {
	t.Parallel()
	zero, _ := cmatrix.NewDense(2, 2)
	ps := basis.Projectors()
	ps[1] = zero
	raw := noiseless(t, basis.H, 1) // V reads exactly zero
	res, err := maxlik.Reconstruct(raw, ps)
	require.NoError(t, err)
	assert.Greater(t, res.Stokes[0], 0.999)
}

func TestReconstruct_NotConverged(t *testing.T) {
	t.Parallel()
	res, err := maxlik.Reconstruct(referenceCounts, basis.Projectors(), maxlik.WithMaxIterations(3))
	require.ErrorIs(t, err, maxlik.ErrNotConverged)
	assert.Contains(t, err.Error(), "3 iterations")

	// the last iterate is still reported and still physical
	assert.Equal(t, 3, res.Iterations)
	assert.GreaterOrEqual(t, res.Distance, maxlik.DefaultEpsilon)
	requirePhysical(t, res.Rho)
}

func TestReconstruct_EpsilonControlsWork(t *testing.T) {
	t.Parallel()
	loose, err := maxlik.Reconstruct(referenceCounts, basis.Projectors(), maxlik.WithEpsilon(1e-4))
	require.NoError(t, err)
	tight, err := maxlik.Reconstruct(referenceCounts, basis.Projectors())
	require.NoError(t, err)
	assert.Less(t, loose.Iterations, tight.Iterations)
	assert.Less(t, loose.Distance, 1e-4)
}

func TestReconstruct_OnIteration(t *testing.T) {
	t.Parallel()
	var steps []maxlik.Step
	res, err := maxlik.Reconstruct(referenceCounts, basis.Projectors(),
		maxlik.WithOnIteration(func(s maxlik.Step) { steps = append(steps, s) }))
	require.NoError(t, err)
	require.Len(t, steps, res.Iterations)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Iteration)
		require.NotNil(t, s.State)
	}
	last := steps[len(steps)-1]
	assert.Equal(t, res.Distance, last.Distance)

	// steps carry copies
	require.NoError(t, last.State.Set(0, 0, 42))
	v, _ := res.Rho.At(0, 0)
	assert.NotEqual(t, complex128(42), v)
}

func TestReconstruct_Logger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := maxlik.Reconstruct(referenceCounts, basis.Projectors(), maxlik.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "reconstruction converged")

	buf.Reset()
	_, err = maxlik.Reconstruct(referenceCounts, basis.Projectors(),
		maxlik.WithLogger(logger), maxlik.WithMaxIterations(2))
	require.ErrorIs(t, err, maxlik.ErrNotConverged)
	assert.Contains(t, buf.String(), "did not converge")
}

func TestReconstruct_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	raw := append([]float64(nil), referenceCounts...)
	ps := basis.Projectors()
	_, err := maxlik.Reconstruct(raw, ps)
	require.NoError(t, err)
	assert.Equal(t, referenceCounts, raw)
	for i, p := range ps {
		ok, err := cmatrix.AllClose(basis.ProjectorOf(basis.Labels()[i]), p, 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestReconstruct_Concurrent(t *testing.T) {
	t.Parallel()
	want, err := maxlik.Reconstruct(referenceCounts, basis.Projectors())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]maxlik.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = maxlik.Reconstruct(referenceCounts, basis.Projectors())
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want.Stokes, r.Stokes)
		assert.Equal(t, want.Iterations, r.Iterations)
	}
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { maxlik.WithEpsilon(0) })
	assert.Panics(t, func() { maxlik.WithEpsilon(-1) })
	assert.Panics(t, func() { maxlik.WithEpsilon(math.NaN()) })
	assert.Panics(t, func() { maxlik.WithMaxIterations(0) })
	assert.Panics(t, func() { maxlik.WithTolerance(-1e-3) })
	assert.NotPanics(t, func() { maxlik.WithLogger(nil) })

	o := maxlik.DefaultOptions()
	assert.Equal(t, maxlik.DefaultEpsilon, o.Epsilon)
	assert.Equal(t, maxlik.DefaultMaxIterations, o.MaxIterations)
	assert.NotNil(t, o.Logger)
}
