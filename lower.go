package main

// Lowering of uniformly-controlled Z rotations into elementary gates.
//
// A UCRZ over m controls splits on its most significant control c:
//
//	UCRZ(a) = UCRZ((lo+hi)/2) · CX(c,t) · UCRZ((lo-hi)/2) · CX(c,t)
//
// where lo/hi are the angle half-tables for c=0 and c=1. The identity holds
// because X·Rz(t)·X = Rz(-t): with c clear the two sub-rotations add, with c
// set they subtract. All factors are diagonal, so ordering within one UCRZ
// is immaterial. This costs 2^(m+1)-2 CX gates; the Gray-code walk would use
// 2^m, at the price of a much less checkable construction.

// lowerUniformRZ expands one uniformly-controlled Z rotation into RZ and CX
// gate records. Steps are left unassigned (zero); callers place them.
func lowerUniformRZ(angles []float64, controls []int, target int) []Gate {
	if len(controls) == 0 {
		return []Gate{{
			Type:    "RZ",
			Target:  target,
			Control: -1,
			Params:  []float64{angles[0]},
		}}
	}

	m := len(controls)
	msb := controls[m-1]
	half := 1 << (m - 1)
	sums := make([]float64, half)
	diffs := make([]float64, half)
	for i := 0; i < half; i++ {
		sums[i] = (angles[i] + angles[i+half]) / 2
		diffs[i] = (angles[i] - angles[i+half]) / 2
	}

	cx := Gate{Type: "CX", Target: target, Control: msb}
	var out []Gate
	out = append(out, lowerUniformRZ(sums, controls[:m-1], target)...)
	out = append(out, cx)
	out = append(out, lowerUniformRZ(diffs, controls[:m-1], target)...)
	out = append(out, cx)
	return out
}

// Lowered returns a copy of the circuit with every UCRZ replaced by its
// elementary expansion, one gate per step in emission order. Other gates are
// carried over; barriers are dropped since the lowered step layout no longer
// matches theirs.
func (c *Circuit) Lowered() *Circuit {
	low := &Circuit{NumQubits: c.NumQubits}
	for step := range c.MaxSteps {
		for _, g := range c.Gates {
			if g.Step != step || g.Type == "BARRIER" {
				continue
			}
			if g.Type == "UCRZ" {
				for _, e := range lowerUniformRZ(g.Angles, g.Controls, g.Target) {
					e.Step = low.MaxSteps
					low.Gates = append(low.Gates, e)
					low.MaxSteps++
				}
				continue
			}
			g.Step = low.MaxSteps
			low.Gates = append(low.Gates, g)
			low.MaxSteps++
		}
	}
	return low
}
