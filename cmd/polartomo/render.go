// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/polartomo/batch"
	"github.com/katalvlaran/polartomo/cmatrix"
	"github.com/katalvlaran/polartomo/stokes"
	"gopkg.in/yaml.v3"
)

// entry is a complex matrix element in a form YAML and JSON can carry.
type entry struct {
	Re float64 `yaml:"re" json:"re"`
	Im float64 `yaml:"im" json:"im"`
}

func toEntries(m *cmatrix.Dense) [][]entry {
	rows := make([][]entry, m.Rows())
	for i := range rows {
		rows[i] = make([]entry, m.Cols())
		for j := range rows[i] {
			v, _ := m.At(i, j)
			rows[i][j] = entry{Re: real(v), Im: imag(v)}
		}
	}

	return rows
}

// reconstruction is the output of the reconstruct command.
type reconstruction struct {
	Counts     []float64     `yaml:"counts" json:"counts"`
	Rho        [][]entry     `yaml:"rho" json:"rho"`
	Stokes     stokes.Vector `yaml:"stokes" json:"stokes"`
	Purity     float64       `yaml:"purity" json:"purity"`
	Reference  string        `yaml:"reference,omitempty" json:"reference,omitempty"`
	Fidelity   *float64      `yaml:"fidelity,omitempty" json:"fidelity,omitempty"`
	Iterations int           `yaml:"iterations" json:"iterations"`
	Distance   float64       `yaml:"distance" json:"distance"`
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	default:
		return renderText(w, v)
	}
}

func renderText(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch x := v.(type) {
	case reconstruction:
		fmt.Fprintln(tw, "rho:")
		for _, row := range x.Rho {
			fmt.Fprint(tw, "\t")
			for _, e := range row {
				fmt.Fprintf(tw, "%+.6f%+.6fi\t", e.Re, e.Im)
			}
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "stokes:\t%s\n", x.Stokes)
		fmt.Fprintf(tw, "degree of polarization:\t%.6f\n", x.Stokes.DegreeOfPolarization())
		fmt.Fprintf(tw, "purity:\t%.6f\n", x.Purity)
		if x.Fidelity != nil {
			fmt.Fprintf(tw, "fidelity(%s):\t%.6f\n", x.Reference, *x.Fidelity)
		}
		fmt.Fprintf(tw, "iterations:\t%d\n", x.Iterations)
		fmt.Fprintf(tw, "distance:\t%.3g\n", x.Distance)
	case batch.Report:
		fmt.Fprintln(tw, "NAME\tS1\tS2\tS3\tPURITY\tFIDELITY\tITER\tERROR")
		for _, o := range x.Outcomes {
			if o.Failed() {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t%s\n", o.Name, o.Error)

				continue
			}
			fid := "-"
			if o.Fidelity != nil {
				fid = fmt.Sprintf("%.6f", *o.Fidelity)
			}
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.6f\t%s\t%d\t\n",
				o.Name, o.Stokes[0], o.Stokes[1], o.Stokes[2], o.Purity, fid, o.Iterations)
		}
		s := x.Summary
		fmt.Fprintf(tw, "\nrecords: %d succeeded, %d failed\n", s.Succeeded, s.Failed)
		fmt.Fprintf(tw, "purity:\tmean %.6f\tsd %.6f\tmin %.6f\tmax %.6f\n", s.Purity.Mean, s.Purity.StdDev, s.Purity.Min, s.Purity.Max)
		if s.Fidelity.Count > 0 {
			fmt.Fprintf(tw, "fidelity:\tmean %.6f\tsd %.6f\tmin %.6f\tmax %.6f\n", s.Fidelity.Mean, s.Fidelity.StdDev, s.Fidelity.Min, s.Fidelity.Max)
		}
		fmt.Fprintf(tw, "iterations:\tmean %.1f\tsd %.1f\tmin %.0f\tmax %.0f\n", s.Iterations.Mean, s.Iterations.StdDev, s.Iterations.Min, s.Iterations.Max)
	default:
		return fmt.Errorf("polartomo: cannot render %T as text", v)
	}

	return tw.Flush()
}
