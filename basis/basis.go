// SPDX-License-Identifier: MIT

package basis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/polartomo/cmatrix"
)

// Size is the number of states (and projectors) in the measurement basis.
const Size = 6

// ErrUnknownLabel is returned by ParseLabel for anything outside H,V,D,A,R,L.
var ErrUnknownLabel = errors.New("basis: unknown polarization label")

// ErrInvalidProjector indicates a matrix that is not a 2×2 Hermitian
// idempotent projector within the requested tolerance.
var ErrInvalidProjector = errors.New("basis: not a valid projector")

// Label names one canonical polarization state. The zero value is H.
type Label int

const (
	H Label = iota // horizontal
	V              // vertical
	D              // diagonal (+45°)
	A              // anti-diagonal (−45°)
	R              // right circular
	L              // left circular
)

var labelNames = [Size]string{"H", "V", "D", "A", "R", "L"}

// String returns the one-letter name of the label.
func (l Label) String() string {
	if l < 0 || int(l) >= Size {
		return fmt.Sprintf("Label(%d)", int(l))
	}

	return labelNames[l]
}

// Valid reports whether l is one of the six canonical labels.
func (l Label) Valid() bool { return l >= H && l <= L }

// ParseLabel maps "H", "v", " d " ... to a Label (case- and space-insensitive).
func ParseLabel(s string) (Label, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}

	return 0, fmt.Errorf("%q: %w", s, ErrUnknownLabel)
}

// Labels returns the fixed basis order H, V, D, A, R, L.
func Labels() []Label {
	return []Label{H, V, D, A, R, L}
}

// State is a two-component complex amplitude vector (|H⟩, |V⟩ components).
type State [2]complex128

// Vector returns the amplitudes as a slice for cmatrix kernels.
func (s State) Vector() []complex128 { return []complex128{s[0], s[1]} }

var (
	states     [Size]State
	projectors [Size]*cmatrix.Dense
	invSqrt2   = complex(1/math.Sqrt2, 0)
)

// init fills the process-wide state and projector tables once.
func init() {
	h := State{1, 0}
	v := State{0, 1}
	states = [Size]State{
		H: h,
		V: v,
		D: {(h[0] + v[0]) * invSqrt2, (h[1] + v[1]) * invSqrt2},
		A: {(h[0] - v[0]) * invSqrt2, (h[1] - v[1]) * invSqrt2},
		R: {(h[0] + 1i*v[0]) * invSqrt2, (h[1] + 1i*v[1]) * invSqrt2},
		L: {(h[0] - 1i*v[0]) * invSqrt2, (h[1] - 1i*v[1]) * invSqrt2},
	}
	for i, s := range states {
		p, err := Projector(s)
		if err != nil {
			panic(fmt.Sprintf("basis: building projector %s: %v", Label(i), err))
		}
		projectors[i] = p
	}
}

// StateOf returns the canonical state for l.
// Panics on an invalid label (programmer error); use ParseLabel for input.
func StateOf(l Label) State {
	if !l.Valid() {
		panic(fmt.Sprintf("basis: StateOf(%s)", l))
	}

	return states[l]
}

// Projector returns |s⟩⟨s|, the outer product of s with its own conjugate.
// It never fails for a State; the error is the one reported by cmatrix.Outer.
func Projector(s State) (*cmatrix.Dense, error) {
	return cmatrix.Outer(s.Vector(), s.Vector())
}

// ProjectorOf returns a fresh copy of the canonical projector for l.
// Panics on an invalid label (programmer error).
func ProjectorOf(l Label) *cmatrix.Dense {
	if !l.Valid() {
		panic(fmt.Sprintf("basis: ProjectorOf(%s)", l))
	}

	return projectors[l].Clone().(*cmatrix.Dense)
}

// Projectors returns fresh copies of the six canonical projectors in the
// fixed order H, V, D, A, R, L. Callers may mutate the result freely.
func Projectors() []cmatrix.Matrix {
	out := make([]cmatrix.Matrix, Size)
	for i := range projectors {
		out[i] = projectors[i].Clone()
	}

	return out
}

// ValidateProjector checks that p is 2×2, Hermitian and idempotent (P·P = P)
// within eps. Use it on caller-supplied measurement operators.
func ValidateProjector(p cmatrix.Matrix, eps float64) error {
	if err := cmatrix.ValidateHermitian(p, eps); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProjector, err)
	}
	if p.Rows() != 2 {
		return fmt.Errorf("%w: shape %dx%d", ErrInvalidProjector, p.Rows(), p.Cols())
	}
	sq, err := cmatrix.Mul(p, p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProjector, err)
	}
	diff, err := cmatrix.Sub(sq, p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProjector, err)
	}
	norm, err := cmatrix.FrobeniusNorm(diff)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProjector, err)
	}
	if norm > eps {
		return fmt.Errorf("%w: ‖P·P−P‖=%g", ErrInvalidProjector, norm)
	}

	return nil
}
