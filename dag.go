package main

import (
	"fmt"
)

// DAGNode represents a gate as a node in a dependency graph. Dependencies
// are ordering constraints: a gate cannot execute before the gates that
// touch the same qubits earlier in the circuit.
type DAGNode struct {
	ID           string
	Gate         Gate
	Step         int // assigned timeline position
	Dependencies []string
}

// CircuitDAG captures the qubit-order constraints of a circuit. The
// synthesizer emits gates one per step; scheduling through the DAG packs
// independent gates (rotations on different qubits from different reduction
// levels) into shared steps without reordering any single qubit's gates.
type CircuitDAG struct {
	Nodes     map[string]*DAGNode
	NumQubits int
	order     []string // insertion order, used for deterministic scheduling
}

// NewCircuitDAG creates a new empty CircuitDAG.
func NewCircuitDAG() *CircuitDAG {
	return &CircuitDAG{Nodes: make(map[string]*DAGNode)}
}

// gateQubits lists the wires a gate occupies.
func gateQubits(g Gate, numQubits int) []int {
	if g.Type == "BARRIER" {
		all := make([]int, numQubits)
		for q := range all {
			all[q] = q
		}
		return all
	}
	var qs []int
	if g.Target >= 0 {
		qs = append(qs, g.Target)
	}
	if g.Control >= 0 {
		qs = append(qs, g.Control)
	}
	qs = append(qs, g.Controls...)
	return qs
}

// FromCircuit builds the DAG of a circuit: each gate depends on the previous
// gate on every qubit it touches. Gates are visited in step order, so the
// circuit's per-qubit gate order is preserved exactly.
func FromCircuit(c *Circuit) *CircuitDAG {
	dag := NewCircuitDAG()
	dag.NumQubits = c.NumQubits

	gates := make([]Gate, len(c.Gates))
	copy(gates, c.Gates)
	for i := range gates {
		for j := i + 1; j < len(gates); j++ {
			if gates[j].Step < gates[i].Step {
				gates[i], gates[j] = gates[j], gates[i]
			}
		}
	}

	lastOnQubit := make(map[int]string)
	for idx, g := range gates {
		node := &DAGNode{
			ID:   fmt.Sprintf("%s_q%d_n%d", g.Type, g.Target, idx),
			Gate: g,
			Step: g.Step,
		}
		seen := make(map[string]bool)
		for _, q := range gateQubits(g, c.NumQubits) {
			if dep, ok := lastOnQubit[q]; ok && !seen[dep] {
				node.Dependencies = append(node.Dependencies, dep)
				seen[dep] = true
			}
			lastOnQubit[q] = node.ID
		}
		dag.Nodes[node.ID] = node
		dag.order = append(dag.order, node.ID)
	}
	return dag
}

// TopologicalSort returns the nodes in a dependency-respecting order.
// Insertion order is already topological, since FromCircuit visits gates in
// step order and dependencies only point backwards.
func (dag *CircuitDAG) TopologicalSort() []*DAGNode {
	nodes := make([]*DAGNode, 0, len(dag.order))
	for _, id := range dag.order {
		nodes = append(nodes, dag.Nodes[id])
	}
	return nodes
}

// Compact reassigns steps as-soon-as-possible: every node lands one step
// after the latest of its dependencies. Independent gates share a step.
func (dag *CircuitDAG) Compact() {
	for _, node := range dag.TopologicalSort() {
		step := 0
		for _, dep := range node.Dependencies {
			if d, ok := dag.Nodes[dep]; ok && d.Step+1 > step {
				step = d.Step + 1
			}
		}
		node.Step = step
	}
}

// MaxStep returns the highest assigned step, or -1 for an empty DAG.
func (dag *CircuitDAG) MaxStep() int {
	maxStep := -1
	for _, node := range dag.Nodes {
		if node.Step > maxStep {
			maxStep = node.Step
		}
	}
	return maxStep
}

// Depth returns the number of occupied steps.
func (dag *CircuitDAG) Depth() int {
	return dag.MaxStep() + 1
}

// ToCircuit materializes the DAG back into a gate list at the assigned steps.
func (dag *CircuitDAG) ToCircuit() *Circuit {
	c := &Circuit{NumQubits: dag.NumQubits}
	for _, node := range dag.TopologicalSort() {
		g := node.Gate
		g.Step = node.Step
		c.Gates = append(c.Gates, g)
		if g.Step >= c.MaxSteps {
			c.MaxSteps = g.Step + 1
		}
	}
	return c
}

// Compacted is the one-call form: schedule a circuit's gates as early as
// their qubit dependencies allow and return the packed circuit.
func Compacted(c *Circuit) *Circuit {
	dag := FromCircuit(c)
	dag.Compact()
	return dag.ToCircuit()
}
