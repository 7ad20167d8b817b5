package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) > 1 {
		var err error
		if len(os.Args) == 2 && strings.HasSuffix(os.Args[1], ".qasm") {
			err = runQASMFile(os.Args[1])
		} else {
			err = runOnce(strings.Join(os.Args[1:], " "))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "qtermdiag:", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "qtermdiag:", err)
		os.Exit(1)
	}
}

// runOnce synthesizes the diagonal given on the command line and prints the
// rotation instructions and the lowered QASM to stdout.
func runOnce(input string) error {
	entries, err := parseDiagonal(input)
	if err != nil {
		return err
	}
	return printSynthesis(entries)
}

// runQASMFile loads a QASM circuit, checks that it realizes a diagonal
// operator and prints the canonical synthesis of that diagonal. Gates of any
// supported kind are allowed as long as the composition stays diagonal.
func runQASMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	circuit := &Circuit{}
	if err := circuit.ParseQASM(string(data)); err != nil {
		return err
	}
	entries, ok := ExtractDiagonal(circuit)
	if !ok {
		return fmt.Errorf("%s: circuit does not realize a diagonal", path)
	}
	parts := make([]string, len(entries))
	for i, z := range entries {
		parts[i] = formatEntry(z)
	}
	fmt.Printf("diagonal: %s\n\n", strings.Join(parts, ", "))
	return printSynthesis(entries)
}

func printSynthesis(entries []complex128) error {
	spec, err := NewDiagonalSpec(entries)
	if err != nil {
		return err
	}
	qubits := make([]int, spec.NumQubits())
	for i := range qubits {
		qubits[i] = i
	}
	seq, err := spec.Decompose(qubits)
	if err != nil {
		return err
	}

	for _, in := range seq.Instructions {
		angles := make([]string, len(in.Angles))
		for i, a := range in.Angles {
			angles[i] = formatParam(a)
		}
		fmt.Printf("ucrz q[%d]", in.Target)
		for _, c := range in.Controls {
			fmt.Printf(" ctrl q[%d]", c)
		}
		fmt.Printf("  [%s]\n", strings.Join(angles, ", "))
	}
	fmt.Printf("gphase %s\n\n", formatParam(seq.GlobalPhase))

	circuit := &Circuit{NumQubits: spec.NumQubits()}
	for _, in := range seq.Instructions {
		circuit.AppendUniformRotation(in.Angles, in.Controls, in.Target)
	}
	circuit.AppendGlobalPhase(seq.GlobalPhase)
	fmt.Print(Compacted(circuit.Lowered()).ToQASM())
	return nil
}
