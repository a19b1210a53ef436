// SPDX-License-Identifier: MIT

// Package basis defines the six canonical polarization states of a photonic
// qubit and the ordered set of rank-1 projectors used as the tomographic
// measurement basis.
//
// Order matters:
//
//	index: 0  1  2  3  4  5
//	label: H  V  D  A  R  L
//
// Measurement vectors are paired with projectors by position, so every raw
// reading i must correspond to Labels()[i].
//
// States:
//
//	H = (1, 0)          V = (0, 1)
//	D = (H + V)/√2      A = (H − V)/√2
//	R = (H + iV)/√2     L = (H − iV)/√2
//
// The states and projectors are computed once at package initialisation and
// are never mutated; accessors hand out copies.
package basis
