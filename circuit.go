package main

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	gphaseRegex          = regexp.MustCompile(`^//\s*gphase\s+(` + paramPattern + `)$`)
	barrierRegex         = regexp.MustCompile(`^barrier\b`)
)

// Gate represents a gate placed on the circuit.
type Gate struct {
	Type     string
	Target   int       // -1 for gates without a wire (GPHASE, BARRIER)
	Control  int       // -1 if not a controlled gate
	Controls []int     // control qubits of a uniformly-controlled gate
	Step     int       // position in circuit timeline
	Params   []float64 // parameters for parameterized gates
	Angles   []float64 // angle table of a UCRZ gate, one entry per control pattern
	IsDagger bool      // true if gate is dagger (adjoint)
}

// Circuit holds an ordered set of gate records.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	MaxSteps  int
}

// AddGate appends a gate to the circuit.
func (c *Circuit) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddParameterizedGate appends a parameterized gate to the circuit.
func (c *Circuit) AddParameterizedGate(gateType string, target, step int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
		Params:  params,
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddDaggerGate appends a dagger (adjoint) gate to the circuit.
func (c *Circuit) AddDaggerGate(gateType string, target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Step:     step,
		IsDagger: true,
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddUniformRotation appends a uniformly-controlled Z rotation: angles[p]
// rotates target when the controls are in basis state p (controls[0] is the
// least significant pattern bit). With no controls this is a plain RZ table
// of one angle.
func (c *Circuit) AddUniformRotation(angles []float64, controls []int, target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:     "UCRZ",
		Target:   target,
		Control:  -1,
		Controls: append([]int(nil), controls...),
		Step:     step,
		Angles:   append([]float64(nil), angles...),
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddGlobalPhase appends a global phase record. It sits on no wire.
func (c *Circuit) AddGlobalPhase(phase float64, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:    "GPHASE",
		Target:  -1,
		Control: -1,
		Step:    step,
		Params:  []float64{phase},
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddBarrier appends a barrier spanning all qubits at the given step.
func (c *Circuit) AddBarrier(step int) {
	// Remove any existing barrier at this step
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Step == step && g.Type == "BARRIER"
	})
	c.Gates = append(c.Gates, Gate{
		Type:    "BARRIER",
		Target:  -1, // spans all qubits
		Control: -1,
		Step:    step,
	})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AppendUniformRotation implements CircuitBuilder. Appended gates land on
// consecutive steps at the end of the circuit.
func (c *Circuit) AppendUniformRotation(angles []float64, controls []int, target int) {
	c.AddUniformRotation(angles, controls, target, c.MaxSteps)
}

// AppendGlobalPhase implements CircuitBuilder.
func (c *Circuit) AppendGlobalPhase(phase float64) {
	c.AddGlobalPhase(phase, c.MaxSteps)
}

// gateReferences reports whether the gate touches the given qubit.
func (g Gate) gateReferences(qubit int) bool {
	if g.Target == qubit || g.Control == qubit {
		return true
	}
	for _, ctrl := range g.Controls {
		if ctrl == qubit {
			return true
		}
	}
	return false
}

// GetGateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GetGateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.gateReferences(qubit) {
			return g
		}
	}
	return nil
}

// GlobalPhase returns the sum of all global phase records.
func (c *Circuit) GlobalPhase() float64 {
	total := 0.0
	for _, g := range c.Gates {
		if g.Type == "GPHASE" && len(g.Params) > 0 {
			total += g.Params[0]
		}
	}
	return total
}

// ToQASM generates QASM 2.0 output from the circuit. UCRZ gates are written
// in their elementary rz/cx expansion; global phases become gphase comment
// records, which ParseQASM understands.
func (c *Circuit) ToQASM() string {
	maxQubit := -1
	for _, gate := range c.Gates {
		maxQubit = max(maxQubit, gate.Target, gate.Control)
		for _, ctrl := range gate.Controls {
			maxQubit = max(maxQubit, ctrl)
		}
	}
	numQubits := max(maxQubit+1, c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", numQubits)

	for step := range c.MaxSteps {
		for _, gate := range c.Gates {
			if gate.Step != step {
				continue
			}
			switch gate.Type {
			case "BARRIER":
				qubits := make([]string, numQubits)
				for q := range numQubits {
					qubits[q] = fmt.Sprintf("q[%d]", q)
				}
				fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
			case "GPHASE":
				// Not expressible in QASM 2.0; kept as a comment record.
				fmt.Fprintf(&sb, "// gphase %s\n", formatParam(gate.Params[0]))
			case "UCRZ":
				for _, low := range lowerUniformRZ(gate.Angles, gate.Controls, gate.Target) {
					writeElementaryQASM(&sb, low)
				}
			default:
				writeElementaryQASM(&sb, gate)
			}
		}
	}

	return sb.String()
}

// writeElementaryQASM writes one non-macro gate as a QASM statement.
func writeElementaryQASM(sb *strings.Builder, gate Gate) {
	if gate.Control >= 0 {
		switch gate.Type {
		case "CZ":
			fmt.Fprintf(sb, "cz q[%d], q[%d];\n", gate.Control, gate.Target)
		case "SWAP":
			fmt.Fprintf(sb, "swap q[%d], q[%d];\n", gate.Control, gate.Target)
		case "CRZ":
			if len(gate.Params) > 0 {
				fmt.Fprintf(sb, "crz(%s) q[%d], q[%d];\n", formatParam(gate.Params[0]), gate.Control, gate.Target)
			}
		case "CP", "CU1":
			if len(gate.Params) > 0 {
				fmt.Fprintf(sb, "cu1(%s) q[%d], q[%d];\n", formatParam(gate.Params[0]), gate.Control, gate.Target)
			}
		default:
			fmt.Fprintf(sb, "cx q[%d], q[%d];\n", gate.Control, gate.Target)
		}
		return
	}

	gateType := strings.ToLower(gate.Type)
	switch gateType {
	case "rx", "ry", "rz", "p", "u1":
		if len(gate.Params) > 0 {
			fmt.Fprintf(sb, "%s(%s) q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Target)
		}
	case "s", "t":
		if gate.IsDagger {
			fmt.Fprintf(sb, "%sdg q[%d];\n", gateType, gate.Target)
		} else {
			fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
		}
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
	}
}

// ParseQASM parses QASM text and rebuilds the circuit from it.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Gates = nil
	c.MaxSteps = 0
	step := 0

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") {
			// Global phase records survive a round trip as comments.
			if matches := gphaseRegex.FindStringSubmatch(line); matches != nil {
				if phase, ok := parseParamExpr(matches[1]); ok {
					c.AddGlobalPhase(phase, step)
					step++
				}
			}
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if matches := qregRegex.FindStringSubmatch(line); len(matches) > 2 {
				n, _ := strconv.Atoi(matches[2])
				c.NumQubits = n
			}
			continue
		}
		if barrierRegex.MatchString(line) {
			c.AddBarrier(step)
			step++
			continue
		}

		// Two-qubit parameterized gates (CRZ, CU1)
		if matches := twoQubitParamRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			param, _ := parseParamExpr(matches[2])
			qubit1, _ := strconv.Atoi(matches[3])
			qubit2, _ := strconv.Atoi(matches[4])
			c.AddParameterizedGate(gateType, qubit2, step, []float64{param}, qubit1)
			step++
			continue
		}

		// Two-qubit gates: cx, cz, swap
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			qubit1, _ := strconv.Atoi(matches[2])
			qubit2, _ := strconv.Atoi(matches[3])
			c.AddGate(gateType, qubit2, step, qubit1)
			step++
			continue
		}

		// Single-qubit parameterized gates (RX, RY, RZ, P, U1)
		if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			param, _ := parseParamExpr(matches[2])
			target, _ := strconv.Atoi(matches[3])
			c.AddParameterizedGate(gateType, target, step, []float64{param})
			step++
			continue
		}

		// Single-qubit gate (including dagger gates)
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			target, _ := strconv.Atoi(matches[2])

			if strings.HasSuffix(gateType, "DG") {
				c.AddDaggerGate(strings.TrimSuffix(gateType, "DG"), target, step)
			} else {
				c.AddGate(gateType, target, step)
			}
			step++
			continue
		}
	}

	return nil
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *Gate
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
	isBarrier   bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func (c *Circuit) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo

	gate := c.GetGateAt(step, qubit)
	if gate != nil {
		info.gate = gate
		info.isControl = (gate.Control == qubit)
		info.isTarget = (gate.Target == qubit && gate.Control >= 0)
		if !info.isControl {
			for _, ctrl := range gate.Controls {
				if ctrl == qubit {
					info.isControl = true
					break
				}
			}
		}
		// UCRZ targets keep their gate box, so Controls does not force
		// target-symbol rendering here.
	}

	// Check for barrier at this step
	for i := range c.Gates {
		if c.Gates[i].Step == step && c.Gates[i].Type == "BARRIER" {
			info.isBarrier = true
			if info.gate == nil {
				info.gate = &c.Gates[i]
			}
			break
		}
	}

	// Vertical connections for controlled gates
	for _, g := range c.Gates {
		if g.Step != step {
			continue
		}

		var minQ, maxQ int
		switch {
		case len(g.Controls) > 0:
			minQ = g.Target
			maxQ = g.Target
			for _, ctrl := range g.Controls {
				if ctrl < minQ {
					minQ = ctrl
				}
				if ctrl > maxQ {
					maxQ = ctrl
				}
			}
		case g.Control >= 0:
			minQ, maxQ = min(g.Control, g.Target), max(g.Control, g.Target)
		default:
			continue
		}

		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if qubit > minQ && qubit < maxQ && info.gate == nil {
				info.passThrough = true
			}
		}
	}

	return info
}
