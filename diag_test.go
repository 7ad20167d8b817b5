package main

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

func onesDiagonal(n int) []complex128 {
	d := make([]complex128, n)
	for i := range d {
		d[i] = 1
	}
	return d
}

func TestValidateLengths(t *testing.T) {
	rejected := []int{0, 1, 3, 5, 6, 7}
	for _, n := range rejected {
		_, err := NewDiagonalSpec(onesDiagonal(n))
		var serr *StructuralError
		if !errors.As(err, &serr) {
			t.Errorf("length %d: got %v, want StructuralError", n, err)
			continue
		}
		if serr.Length != n {
			t.Errorf("length %d: error reports length %d", n, serr.Length)
		}
	}

	accepted := []int{2, 4, 8, 16}
	for _, n := range accepted {
		spec, err := NewDiagonalSpec(onesDiagonal(n))
		if err != nil {
			t.Errorf("length %d: unexpected error %v", n, err)
			continue
		}
		if want := int(math.Log2(float64(n))); spec.NumQubits() != want {
			t.Errorf("length %d: NumQubits = %d, want %d", n, spec.NumQubits(), want)
		}
	}
}

func TestValidateModulus(t *testing.T) {
	tests := []struct {
		name    string
		entries []complex128
		ok      bool
	}{
		{"all unit", []complex128{1, -1, 1i, -1i}, true},
		{"rotated unit", []complex128{1, cmplx.Exp(0.3i)}, true},
		{"within tolerance", []complex128{1, 1 + 1e-12}, true},
		{"modulus half", []complex128{1, 0.5, 1, 1}, false},
		{"modulus large", []complex128{1, 1.5}, false},
		{"zero entry", []complex128{0, 1}, false},
	}

	for _, tt := range tests {
		_, err := NewDiagonalSpec(tt.entries)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok {
			var nerr *NonUnitaryEntryError
			if !errors.As(err, &nerr) {
				t.Errorf("%s: got %v, want NonUnitaryEntryError", tt.name, err)
			}
		}
	}
}

func TestValidateModulusReportsOffender(t *testing.T) {
	_, err := NewDiagonalSpec([]complex128{1, 1, 0.5, 1})
	var nerr *NonUnitaryEntryError
	if !errors.As(err, &nerr) {
		t.Fatalf("got %v, want NonUnitaryEntryError", err)
	}
	if nerr.Index != 2 || nerr.Value != 0.5 {
		t.Errorf("offender = entry %d (%v), want entry 2 (0.5)", nerr.Index, nerr.Value)
	}
}

func TestQubitCountMismatch(t *testing.T) {
	spec, err := NewDiagonalSpec(onesDiagonal(8))
	if err != nil {
		t.Fatalf("NewDiagonalSpec: %v", err)
	}
	_, err = spec.Decompose([]int{0, 1})
	var qerr *QubitCountMismatchError
	if !errors.As(err, &qerr) {
		t.Fatalf("got %v, want QubitCountMismatchError", err)
	}
	if qerr.Qubits != 2 || qerr.Want != 3 {
		t.Errorf("mismatch reports %d/%d, want 2/3", qerr.Qubits, qerr.Want)
	}
}

func TestValidationIdempotent(t *testing.T) {
	entries := []complex128{1, 1i, -1, cmplx.Exp(0.7i)}

	specA, errA := NewDiagonalSpec(entries)
	specB, errB := NewDiagonalSpec(entries)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}

	phasesA := specA.Phases()
	phasesB := specB.Phases()
	for i := range phasesA {
		// Bit-identical, not merely close
		if phasesA[i] != phasesB[i] {
			t.Errorf("phase %d differs between validations: %v vs %v", i, phasesA[i], phasesB[i])
		}
	}
}

func TestPhasesPrincipalRange(t *testing.T) {
	spec, err := NewDiagonalSpec([]complex128{-1, 1i, -1i, cmplx.Exp(3i)})
	if err != nil {
		t.Fatalf("NewDiagonalSpec: %v", err)
	}
	want := []float64{math.Pi, math.Pi / 2, -math.Pi / 2, 3}
	for i, ph := range spec.Phases() {
		if ph <= -math.Pi || ph > math.Pi {
			t.Errorf("phase %d = %v outside (-pi, pi]", i, ph)
		}
		if math.Abs(ph-want[i]) > 1e-12 {
			t.Errorf("phase %d = %v, want %v", i, ph, want[i])
		}
	}
}

func TestIdentityDiagonal(t *testing.T) {
	spec, err := NewDiagonalSpec(onesDiagonal(4))
	if err != nil {
		t.Fatalf("NewDiagonalSpec: %v", err)
	}
	seq, err := spec.Decompose([]int{0, 1})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	if len(seq.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(seq.Instructions))
	}
	for i, in := range seq.Instructions {
		for p, a := range in.Angles {
			if a != 0 {
				t.Errorf("instruction %d angle %d = %v, want 0", i, p, a)
			}
		}
	}
	if seq.GlobalPhase != 0 {
		t.Errorf("global phase = %v, want 0", seq.GlobalPhase)
	}
}

func TestControlledZDecomposition(t *testing.T) {
	// diag(1,1,1,-1) has phases {0,0,0,pi}. Pairwise differencing gives the
	// one-control table [pi-0, 0-0] = [0, pi], merged phases {0, pi/2}, then
	// the single rotation pi/2 and leftover global phase pi/4.
	spec, err := NewDiagonalSpec([]complex128{1, 1, 1, -1})
	if err != nil {
		t.Fatalf("NewDiagonalSpec: %v", err)
	}
	seq, err := spec.Decompose([]int{0, 1})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	if len(seq.Instructions) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(seq.Instructions))
	}

	coarse := seq.Instructions[0]
	if coarse.Target != 1 || len(coarse.Controls) != 0 {
		t.Errorf("coarse level: target q[%d] with %d controls, want q[1] with 0", coarse.Target, len(coarse.Controls))
	}
	if len(coarse.Angles) != 1 || math.Abs(coarse.Angles[0]-math.Pi/2) > 1e-12 {
		t.Errorf("coarse angles = %v, want [pi/2]", coarse.Angles)
	}

	fine := seq.Instructions[1]
	if fine.Target != 0 || len(fine.Controls) != 1 || fine.Controls[0] != 1 {
		t.Errorf("fine level: target q[%d] controls %v, want q[0] controls [1]", fine.Target, fine.Controls)
	}
	if len(fine.Angles) != 2 || math.Abs(fine.Angles[0]) > 1e-12 || math.Abs(fine.Angles[1]-math.Pi) > 1e-12 {
		t.Errorf("fine angles = %v, want [0, pi]", fine.Angles)
	}

	if math.Abs(seq.GlobalPhase-math.Pi/4) > 1e-12 {
		t.Errorf("global phase = %v, want pi/4", seq.GlobalPhase)
	}
}

func TestEmissionOrderAndQubitMapping(t *testing.T) {
	spec, err := NewDiagonalSpec(onesDiagonal(8))
	if err != nil {
		t.Fatalf("NewDiagonalSpec: %v", err)
	}
	// Non-contiguous qubit identities must flow through unchanged.
	seq, err := spec.Decompose([]int{5, 7, 9})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	type level struct {
		target   int
		controls []int
		angles   int
	}
	want := []level{
		{9, []int{}, 1},
		{7, []int{9}, 2},
		{5, []int{7, 9}, 4},
	}

	if len(seq.Instructions) != len(want) {
		t.Fatalf("expected %d instructions, got %d", len(want), len(seq.Instructions))
	}
	for i, w := range want {
		in := seq.Instructions[i]
		if in.Target != w.target {
			t.Errorf("instruction %d: target %d, want %d", i, in.Target, w.target)
		}
		if len(in.Controls) != len(w.controls) {
			t.Errorf("instruction %d: %d controls, want %d", i, len(in.Controls), len(w.controls))
			continue
		}
		for j, c := range w.controls {
			if in.Controls[j] != c {
				t.Errorf("instruction %d control %d: q[%d], want q[%d]", i, j, in.Controls[j], c)
			}
		}
		if len(in.Angles) != w.angles {
			t.Errorf("instruction %d: %d angles, want %d", i, len(in.Angles), w.angles)
		}
	}
}

// buildCircuit realizes a decomposition on a fresh circuit.
func buildCircuit(spec *DiagonalSpec, seq *GateSequence) *Circuit {
	c := &Circuit{NumQubits: spec.NumQubits()}
	for _, in := range seq.Instructions {
		c.AppendUniformRotation(in.Angles, in.Controls, in.Target)
	}
	c.AppendGlobalPhase(seq.GlobalPhase)
	return c
}

func checkDiagonal(t *testing.T, name string, c *Circuit, want []complex128, tol float64) {
	t.Helper()
	got := DiagonalOf(c)
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s: entry %d = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestRoundTripFixedDiagonals(t *testing.T) {
	tests := []struct {
		name    string
		entries []complex128
	}{
		{"pauli Z", []complex128{1, -1}},
		{"controlled Z", []complex128{1, 1, 1, -1}},
		{"controlled S", []complex128{1, 1, 1, 1i}},
		{"ZxZ", []complex128{1, -1, -1, 1}},
		{"ccz", []complex128{1, 1, 1, 1, 1, 1, 1, -1}},
		{"fourier layer", []complex128{
			1, cmplx.Exp(1i * math.Pi / 4), 1i, cmplx.Exp(3i * math.Pi / 4),
			-1, cmplx.Exp(-3i * math.Pi / 4), -1i, cmplx.Exp(-1i * math.Pi / 4),
		}},
	}

	for _, tt := range tests {
		spec, err := NewDiagonalSpec(tt.entries)
		if err != nil {
			t.Fatalf("%s: NewDiagonalSpec: %v", tt.name, err)
		}
		qubits := make([]int, spec.NumQubits())
		for i := range qubits {
			qubits[i] = i
		}
		seq, err := spec.Decompose(qubits)
		if err != nil {
			t.Fatalf("%s: Decompose: %v", tt.name, err)
		}

		macro := buildCircuit(spec, seq)
		checkDiagonal(t, tt.name+" (macro)", macro, tt.entries, 1e-9)
		checkDiagonal(t, tt.name+" (lowered)", macro.Lowered(), tt.entries, 1e-9)
		checkDiagonal(t, tt.name+" (compacted)", Compacted(macro.Lowered()), tt.entries, 1e-9)
	}
}

func TestRoundTripRandomDiagonals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for k := 1; k <= 4; k++ {
		entries := make([]complex128, 1<<k)
		for i := range entries {
			entries[i] = cmplx.Exp(complex(0, (rng.Float64()*2-1)*math.Pi))
		}
		spec, err := NewDiagonalSpec(entries)
		if err != nil {
			t.Fatalf("k=%d: NewDiagonalSpec: %v", k, err)
		}
		qubits := make([]int, k)
		for i := range qubits {
			qubits[i] = i
		}
		seq, err := spec.Decompose(qubits)
		if err != nil {
			t.Fatalf("k=%d: Decompose: %v", k, err)
		}

		macro := buildCircuit(spec, seq)
		checkDiagonal(t, "macro", macro, entries, 1e-9)
		checkDiagonal(t, "lowered", Compacted(macro.Lowered()), entries, 1e-9)
	}
}

func TestAppendDiagonal(t *testing.T) {
	c := &Circuit{NumQubits: 2}
	if err := AppendDiagonal(c, []complex128{1, 1, 1, -1}, []int{0, 1}); err != nil {
		t.Fatalf("AppendDiagonal: %v", err)
	}

	ucrz, gphase := 0, 0
	for _, g := range c.Gates {
		switch g.Type {
		case "UCRZ":
			ucrz++
		case "GPHASE":
			gphase++
		}
	}
	if ucrz != 2 || gphase != 1 {
		t.Errorf("appended %d UCRZ and %d GPHASE gates, want 2 and 1", ucrz, gphase)
	}
	checkDiagonal(t, "appended", c, []complex128{1, 1, 1, -1}, 1e-9)

	if err := AppendDiagonal(&Circuit{}, []complex128{1, 1, 1}, []int{0, 1}); err == nil {
		t.Error("expected validation error for length 3")
	}
	if err := AppendDiagonal(&Circuit{}, []complex128{1, 1, 1, 1}, []int{0}); err == nil {
		t.Error("expected qubit count error")
	}
}
