// SPDX-License-Identifier: MIT

package batch

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Stat summarizes one metric over the successful records.
// StdDev is the population standard deviation.
type Stat struct {
	Count  int     `yaml:"count" json:"count"`
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"stddev" json:"stddev"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
}

// Summary aggregates a run. Fidelity covers only records with a reference.
type Summary struct {
	Total      int  `yaml:"total" json:"total"`
	Succeeded  int  `yaml:"succeeded" json:"succeeded"`
	Failed     int  `yaml:"failed" json:"failed"`
	Purity     Stat `yaml:"purity" json:"purity"`
	Fidelity   Stat `yaml:"fidelity" json:"fidelity"`
	Iterations Stat `yaml:"iterations" json:"iterations"`
}

// Summarize computes a Summary over outcomes, skipping failed ones.
func Summarize(outcomes []Outcome) (Summary, error) {
	s := Summary{Total: len(outcomes)}
	var purity, fidelity, iterations stats.Float64Data
	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++

			continue
		}
		s.Succeeded++
		purity = append(purity, o.Purity)
		iterations = append(iterations, float64(o.Iterations))
		if o.Fidelity != nil {
			fidelity = append(fidelity, *o.Fidelity)
		}
	}

	var err error
	if s.Purity, err = describe(purity); err != nil {
		return Summary{}, fmt.Errorf("batch: purity: %w", err)
	}
	if s.Fidelity, err = describe(fidelity); err != nil {
		return Summary{}, fmt.Errorf("batch: fidelity: %w", err)
	}
	if s.Iterations, err = describe(iterations); err != nil {
		return Summary{}, fmt.Errorf("batch: iterations: %w", err)
	}

	return s, nil
}

// describe returns the zero Stat for empty data.
func describe(data stats.Float64Data) (Stat, error) {
	if data.Len() == 0 {
		return Stat{}, nil
	}
	var (
		st  = Stat{Count: data.Len()}
		err error
	)
	if st.Mean, err = data.Mean(); err != nil {
		return Stat{}, err
	}
	if st.StdDev, err = data.StandardDeviation(); err != nil {
		return Stat{}, err
	}
	if st.Min, err = data.Min(); err != nil {
		return Stat{}, err
	}
	if st.Max, err = data.Max(); err != nil {
		return Stat{}, err
	}

	return st, nil
}
