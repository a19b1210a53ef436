// SPDX-License-Identifier: MIT

// Command polartomo reconstructs qubit polarization states from six-count
// tomography measurements.
//
//	polartomo reconstruct 6.67 0.0027 3.30 3.36 3.61 3.32 --reference H
//	polartomo batch --file runs.yaml --output yaml
//	polartomo projectors
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "polartomo:", err)
		os.Exit(1)
	}
}
