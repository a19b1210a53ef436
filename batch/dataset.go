// SPDX-License-Identifier: MIT

package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/katalvlaran/polartomo/basis"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDataset indicates a dataset without records.
	ErrEmptyDataset = errors.New("batch: dataset has no records")

	// ErrInvalidRecord indicates a record with a missing or duplicate name or
	// an unknown reference label.
	ErrInvalidRecord = errors.New("batch: invalid record")
)

// Record is one six-count measurement.
//
// Counts are in basis order H, V, D, A, R, L. Reference optionally names the
// state the beam was prepared in; when set, the report carries the fidelity
// of the estimate with that state.
type Record struct {
	Name      string    `yaml:"name" json:"name"`
	Counts    []float64 `yaml:"counts" json:"counts"`
	Reference string    `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// Dataset is the YAML document
//
//	records:
//	  - name: run-01
//	    counts: [6.67, 0.003, 3.30, 3.36, 3.61, 3.32]
//	    reference: H
type Dataset struct {
	Records []Record `yaml:"records" json:"records"`
}

// DecodeDataset reads and validates a YAML dataset. Unknown keys are rejected.
// Count vectors are not checked here; a malformed vector fails only its own
// record during Run.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, ErrEmptyDataset
		}

		return Dataset{}, fmt.Errorf("batch: decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}

	return ds, nil
}

// LoadDataset opens path and decodes it with DecodeDataset.
func LoadDataset(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("batch: %w", err)
	}
	defer f.Close()

	ds, err := DecodeDataset(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

// Validate checks record names and reference labels.
func (ds Dataset) Validate() error {
	if len(ds.Records) == 0 {
		return ErrEmptyDataset
	}
	seen := make(map[string]struct{}, len(ds.Records))
	for i, rec := range ds.Records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalidRecord, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidRecord, name)
		}
		seen[name] = struct{}{}
		if rec.Reference != "" {
			if _, err := basis.ParseLabel(rec.Reference); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, name, err)
			}
		}
	}

	return nil
}
