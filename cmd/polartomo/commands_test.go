// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/katalvlaran/polartomo/basis"
	"github.com/katalvlaran/polartomo/batch"
	"github.com/katalvlaran/polartomo/maxlik"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var referenceArgs = []string{
	"6.67265857458", "0.00272742509842", "3.30350962877",
	"3.36134728193", "3.60658968687", "3.31671561003",
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestReconstructCmd_JSON(t *testing.T) {
	t.Parallel()
	args := append([]string{"reconstruct"}, referenceArgs...)
	args = append(args, "--reference", "h", "--output", "json")
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	var got reconstruction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "H", got.Reference)
	require.NotNil(t, got.Fidelity)
	assert.Greater(t, *got.Fidelity, 0.999)
	assert.Greater(t, got.Purity, 0.999)
	assert.Greater(t, got.Stokes[0], 0.99)
	require.Len(t, got.Rho, 2)
	assert.InDelta(t, 1.0, got.Rho[0][0].Re+got.Rho[1][1].Re, 1e-8)
}

func TestReconstructCmd_Text(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, append([]string{"reconstruct", "-r", "D"}, "1", "1", "2", "0", "1", "1")...)
	require.NoError(t, err)
	for _, want := range []string{"rho:", "stokes:", "purity:", "fidelity(D):", "iterations:"} {
		assert.Contains(t, out, want)
	}
}

func TestReconstructCmd_ConfigAndFlagPrecedence(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "cfg.yaml", "output: yaml\nmax_iterations: 2\n")

	// the file caps iterations at 2
	args := append([]string{"--config", cfg, "reconstruct"}, referenceArgs...)
	_, _, err := execute(t, args...)
	require.ErrorIs(t, err, maxlik.ErrNotConverged)

	// the flag wins over the file; output stays yaml
	out, _, err := execute(t, append(args, "--max-iterations", "100000")...)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "stokes")
	assert.Contains(t, got, "iterations")
}

func TestReconstructCmd_DebugLogging(t *testing.T) {
	t.Parallel()
	args := append([]string{"--log-level", "debug", "reconstruct"}, referenceArgs...)
	_, stderr, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "reconstruction converged")
}

func TestReconstructCmd_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want error
		msg  string
	}{
		{"too few counts", []string{"reconstruct", "1", "2"}, nil, "accepts 6 arg(s)"},
		{"not a number", []string{"reconstruct", "1", "x", "1", "1", "1", "1"}, nil, "count 2 (V)"},
		{"all zero", []string{"reconstruct", "0", "0", "0", "0", "0", "0"}, maxlik.ErrZeroTotal, ""},
		{"negative", []string{"reconstruct", "--", "1", "-1", "1", "1", "1", "1"}, maxlik.ErrInvalidMeasurement, ""},
		{"bad reference", []string{"reconstruct", "1", "1", "1", "1", "1", "1", "--reference", "Z"}, basis.ErrUnknownLabel, ""},
		{"bad output", []string{"reconstruct", "1", "1", "1", "1", "1", "1", "-o", "xml"}, ErrInvalidConfig, ""},
		{"bad epsilon", []string{"reconstruct", "1", "1", "1", "1", "1", "1", "--epsilon", "-1"}, ErrInvalidConfig, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

const cliDataset = `records:
  - name: beam-h
    counts: [6.67265857458, 0.00272742509842, 3.30350962877, 3.36134728193, 3.60658968687, 3.31671561003]
    reference: H
  - name: mixed
    counts: [3, 1, 2, 2, 2.5, 1.5]
  - name: dark
    counts: [0, 0, 0, 0, 0, 0]
`

func TestBatchCmd(t *testing.T) {
	t.Parallel()
	data := writeFile(t, "data.yaml", cliDataset)

	out, _, err := execute(t, "batch", "--file", data, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "beam-h")
	assert.Contains(t, out, "sum to zero")
	assert.Contains(t, out, "2 succeeded, 1 failed")

	out, _, err = execute(t, "batch", "-f", data, "-o", "yaml")
	require.NoError(t, err)
	var rep batch.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Fidelity.Count)
}

func TestBatchCmd_Errors(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")

	_, _, err = execute(t, "batch", "--file", writeFile(t, "bad.yaml", "records: []\n"))
	assert.ErrorIs(t, err, batch.ErrEmptyDataset)

	_, _, err = execute(t, "batch", "--file", writeFile(t, "d.yaml", cliDataset), "--workers", "-2")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProjectorsCmd(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, "projectors")
	require.NoError(t, err)
	for _, l := range basis.Labels() {
		assert.Contains(t, out, l.String()+":\n")
	}
	assert.Equal(t, 6*3, strings.Count(out, "\n"))
}
