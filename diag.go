package main

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

// unitTolerance is the allowed deviation of |entry| from 1.
const unitTolerance = 1e-10

// StructuralError reports a diagonal whose length is not a power of two >= 2.
type StructuralError struct {
	Length int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("diagonal length %d is not a power of two >= 2", e.Length)
}

// NonUnitaryEntryError reports a diagonal entry whose modulus is not 1.
type NonUnitaryEntryError struct {
	Index int
	Value complex128
}

func (e *NonUnitaryEntryError) Error() string {
	return fmt.Sprintf("diagonal entry %d = %v has modulus %g, want 1", e.Index, e.Value, cmplx.Abs(e.Value))
}

// QubitCountMismatchError reports a qubit list that does not match the
// diagonal size (a diagonal of length 2^k acts on exactly k qubits).
type QubitCountMismatchError struct {
	Qubits int
	Want   int
}

func (e *QubitCountMismatchError) Error() string {
	return fmt.Sprintf("got %d qubits, diagonal needs %d", e.Qubits, e.Want)
}

// EntryParseError reports a textual entry that cannot be read as a complex
// number or as a phase expression.
type EntryParseError struct {
	Index int
	Text  string
}

func (e *EntryParseError) Error() string {
	return fmt.Sprintf("entry %d: cannot parse %q as a complex number or phase", e.Index, e.Text)
}

// DiagonalSpec is a validated diagonal unitary: 2^k unit-modulus complex
// entries for k >= 1 qubits. Entry i is the eigenvalue of the computational
// basis state whose bit 0 (least significant) is the first qubit.
// The value is immutable once constructed.
type DiagonalSpec struct {
	entries []complex128
}

// NewDiagonalSpec validates entries and returns the spec.
// The entries slice is copied; the caller keeps ownership of its slice.
func NewDiagonalSpec(entries []complex128) (*DiagonalSpec, error) {
	n := len(entries)
	if n < 2 || n&(n-1) != 0 {
		return nil, &StructuralError{Length: n}
	}
	for i, z := range entries {
		// Two-sided bound: modulus 0.5 must fail just like modulus 1.5.
		if math.Abs(cmplx.Abs(z)-1) >= unitTolerance {
			return nil, &NonUnitaryEntryError{Index: i, Value: z}
		}
	}
	s := &DiagonalSpec{entries: make([]complex128, n)}
	copy(s.entries, entries)
	return s, nil
}

// NumQubits returns k for a diagonal of length 2^k.
func (s *DiagonalSpec) NumQubits() int {
	return bits.TrailingZeros(uint(len(s.entries)))
}

// Len returns the number of diagonal entries.
func (s *DiagonalSpec) Len() int {
	return len(s.entries)
}

// Entry returns diagonal entry i.
func (s *DiagonalSpec) Entry(i int) complex128 {
	return s.entries[i]
}

// Phases returns the principal argument of every entry, in (-pi, pi].
// A fresh slice is returned on every call.
func (s *DiagonalSpec) Phases() []float64 {
	phases := make([]float64, len(s.entries))
	for i, z := range s.entries {
		phases[i] = cmplx.Phase(z)
	}
	return phases
}

// RotationInstruction is one uniformly-controlled Z rotation: Angles[p] is
// applied to Target when the controls (ordered, Controls[0] = least
// significant pattern bit) are in basis state p.
type RotationInstruction struct {
	Angles   []float64
	Target   int
	Controls []int
}

// GateSequence is the decomposition of a diagonal: rotation instructions
// ordered from the no-control rotation up to the (k-1)-control rotation,
// plus one residual global phase. The instructions pairwise commute, so the
// realized diagonal does not depend on application order.
type GateSequence struct {
	Instructions []RotationInstruction
	GlobalPhase  float64
}

// NumGates returns the number of rotation instructions (always k).
func (g *GateSequence) NumGates() int {
	return len(g.Instructions)
}

// extractRZ splits a pair of phases into a shared phase and an Rz angle:
// diag(e^{i*ph1}, e^{i*ph2}) = e^{i*phase} * Rz(angle)
// with Rz(t) = diag(e^{-it/2}, e^{+it/2}).
func extractRZ(ph1, ph2 float64) (phase, angle float64) {
	return (ph1 + ph2) / 2, ph2 - ph1
}

// Decompose synthesizes the diagonal into uniformly-controlled Z rotations
// over the given qubits (qubits[0] carries bit 0 of the entry index).
//
// Each level halves the phase vector: pair (phase[2i], phase[2i+1]) becomes
// its mean, and the difference is the rotation angle for control pattern i.
// The level acting on the full vector yields the instruction with k-1
// controls and target qubits[0]; the last level yields a plain rotation on
// qubits[k-1]. Instructions are returned coarsest first (fewest controls
// first), the reverse of the reduction order.
func (s *DiagonalSpec) Decompose(qubits []int) (*GateSequence, error) {
	k := s.NumQubits()
	if len(qubits) != k {
		return nil, &QubitCountMismatchError{Qubits: len(qubits), Want: k}
	}

	// Two fixed buffers swapped each level; no recursion needed.
	cur := s.Phases()
	next := make([]float64, len(cur)/2)

	seq := &GateSequence{Instructions: make([]RotationInstruction, 0, k)}
	for level := 0; level < k; level++ {
		n := len(cur)
		angles := make([]float64, n/2)
		for i := 0; i < n/2; i++ {
			next[i], angles[i] = extractRZ(cur[2*i], cur[2*i+1])
		}
		seq.Instructions = append(seq.Instructions, RotationInstruction{
			Angles:   angles,
			Target:   qubits[level],
			Controls: append([]int(nil), qubits[level+1:]...),
		})
		cur, next = next, cur[:len(next)/2]
	}
	seq.GlobalPhase = cur[0]

	// Reduction emits most-controls first; callers get coarsest first.
	for i, j := 0, len(seq.Instructions)-1; i < j; i, j = i+1, j-1 {
		seq.Instructions[i], seq.Instructions[j] = seq.Instructions[j], seq.Instructions[i]
	}
	return seq, nil
}

// CircuitBuilder is the gate sink a decomposition is realized on. Circuit
// implements it; anything able to absorb a uniformly-controlled Z rotation
// can stand in.
type CircuitBuilder interface {
	AppendUniformRotation(angles []float64, controls []int, target int)
	AppendGlobalPhase(phase float64)
}

// AppendDiagonal validates entries, decomposes them over qubits and appends
// the resulting rotations to the builder. This is the one-call path for
// callers that do not need the intermediate GateSequence.
func AppendDiagonal(b CircuitBuilder, entries []complex128, qubits []int) error {
	spec, err := NewDiagonalSpec(entries)
	if err != nil {
		return err
	}
	seq, err := spec.Decompose(qubits)
	if err != nil {
		return err
	}
	for _, in := range seq.Instructions {
		b.AppendUniformRotation(in.Angles, in.Controls, in.Target)
	}
	b.AppendGlobalPhase(seq.GlobalPhase)
	return nil
}
