package main

import (
	"math"
	"math/cmplx"
)

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) ApplyGate(g Gate) {
	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}
	switch g.Type {
	case "H":
		s.applyH(g.Target)
	case "X":
		s.applyX(g.Target)
	case "Y":
		s.applyY(g.Target)
	case "Z":
		s.applyZ(g.Target)
	case "S":
		s.applyS(g.Target, g.IsDagger)
	case "T":
		s.applyT(g.Target, g.IsDagger)
	case "RX":
		s.applyRX(g.Target, theta)
	case "RY":
		s.applyRY(g.Target, theta)
	case "RZ":
		s.applyRZ(g.Target, theta)
	case "P", "U1":
		s.applyPhase(g.Target, theta)
	case "CX":
		if g.Control >= 0 {
			s.applyCX(g.Control, g.Target)
		}
	case "CZ":
		if g.Control >= 0 {
			s.applyCZ(g.Control, g.Target)
		}
	case "CRZ":
		if g.Control >= 0 {
			s.applyCRZ(g.Control, g.Target, theta)
		}
	case "CP", "CU1":
		if g.Control >= 0 {
			s.applyCPhase(g.Control, g.Target, theta)
		}
	case "SWAP":
		if g.Control >= 0 {
			s.applySWAP(g.Control, g.Target)
		}
	case "UCRZ":
		s.applyUniformRZ(g.Target, g.Controls, g.Angles)
	case "GPHASE":
		s.applyGlobalPhase(theta)
	}
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = 1i*s.Amplitudes[j], -1i*s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyS(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	factor := 1i
	if dagger {
		factor = -1i
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyT(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	var factor Complex
	if dagger {
		factor = cmplx.Exp(complex(0, -math.Pi/4))
	} else {
		factor = cmplx.Exp(complex(0, math.Pi/4))
	}
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] + js*s.Amplitudes[j]
			newAmps[j] = js*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s_ := complex(math.Sin(theta/2), 0)
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] - s_*s.Amplitudes[j]
			newAmps[j] = s_*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

// applyRZ applies Rz(theta) = diag(e^{-i theta/2}, e^{+i theta/2}).
func (s *StateVector) applyRZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

// applyPhase applies P(theta) = diag(1, e^{i theta}).
func (s *StateVector) applyPhase(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyCRZ(control, target int, theta float64) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&cBit == 0 {
			continue
		}
		if i&tBit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyCPhase(control, target int, theta float64) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	phase := cmplx.Exp(complex(0, theta))
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= phase
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyUniformRZ applies a uniformly-controlled Z rotation directly: each
// basis state selects its angle by the pattern its control bits spell out.
func (s *StateVector) applyUniformRZ(target int, controls []int, angles []float64) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	for i := 0; i < n; i++ {
		pattern := 0
		for j, ctrl := range controls {
			if i&(1<<ctrl) != 0 {
				pattern |= 1 << j
			}
		}
		phase := cmplx.Exp(complex(0, angles[pattern]/2))
		if i&tBit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyGlobalPhase(theta float64) {
	phase := cmplx.Exp(complex(0, theta))
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= phase
	}
}

// SimulateCircuit runs the circuit on |0...0> up to and including upToStep
// (-1 for the whole circuit).
func SimulateCircuit(circuit *Circuit, upToStep int) *StateVector {
	if circuit.NumQubits == 0 {
		return NewStateVector(1)
	}
	state := NewStateVector(circuit.NumQubits)
	applyCircuit(state, circuit, upToStep)
	return state
}

// DiagonalOf reads back the diagonal a circuit realizes. It drives a probe
// vector with every amplitude 1 through the circuit, computing U*(1,...,1):
// when the overall operator U is diagonal, entry i of the result is the
// eigenvalue of basis state i. Intermediate gates need not be diagonal (the
// lowered form contains CX), only the composition must be.
func DiagonalOf(circuit *Circuit) []Complex {
	n := 1 << circuit.NumQubits
	amps := make([]Complex, n)
	for i := range amps {
		amps[i] = 1
	}
	state := &StateVector{Amplitudes: amps, NumQubits: circuit.NumQubits}
	applyCircuit(state, circuit, -1)
	return state.Amplitudes
}

// ExtractDiagonal reads back the operator of an arbitrary circuit by
// simulating every basis state: U e_i = d_i e_i when U is diagonal. Returns
// false if any basis state leaks amplitude off its own ray, i.e. the circuit
// does not realize a diagonal.
func ExtractDiagonal(circuit *Circuit) ([]Complex, bool) {
	n := 1 << circuit.NumQubits
	diag := make([]Complex, n)
	for i := 0; i < n; i++ {
		amps := make([]Complex, n)
		amps[i] = 1
		state := &StateVector{Amplitudes: amps, NumQubits: circuit.NumQubits}
		applyCircuit(state, circuit, -1)
		for j, a := range state.Amplitudes {
			if j != i && cmplx.Abs(a) > 1e-9 {
				return nil, false
			}
		}
		diag[i] = state.Amplitudes[i]
	}
	return diag, true
}

func applyCircuit(state *StateVector, circuit *Circuit, upToStep int) {
	gates := make([]Gate, len(circuit.Gates))
	copy(gates, circuit.Gates)

	for i := range gates {
		for j := i + 1; j < len(gates); j++ {
			if gates[j].Step < gates[i].Step {
				gates[i], gates[j] = gates[j], gates[i]
			}
		}
	}

	for _, gate := range gates {
		if upToStep >= 0 && gate.Step > upToStep {
			continue
		}
		if gate.Type == "BARRIER" {
			continue
		}
		state.ApplyGate(gate)
	}
}
