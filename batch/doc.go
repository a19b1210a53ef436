// SPDX-License-Identifier: MIT

// Package batch runs maximum-likelihood reconstructions over a YAML dataset of
// six-count measurements and summarizes purity, fidelity and iteration counts.
//
// Records are processed concurrently by a bounded errgroup. Each record's
// failure is captured in its Outcome; the run itself fails only on an invalid
// dataset or a cancelled context.
package batch
