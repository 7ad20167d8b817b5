package main

import (
	"fmt"
	"math/cmplx"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusEntries focus = iota
	focusCircuit
	focusQASM
	focusMenu
)

// Model represents the TUI application state.
type Model struct {
	spec    *DiagonalSpec // last validated diagonal, nil before first synthesis
	seq     *GateSequence // its decomposition
	macro   *Circuit      // uniformly-controlled rotation view
	lowered *Circuit      // compacted elementary-gate view

	showLowered   bool
	residual      float64 // max |synthesized - requested| over the diagonal
	viewStartStep int     // first step currently visible in the circuit view
	width         int
	height        int
	entryInput    textinput.Model
	qasmView      textarea.Model
	focus         focus
	statusMsg     string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int
}

func initialModel() Model {
	ti := textinput.New()
	ti.Placeholder = "1, 1, 1, -1"
	ti.CharLimit = 512
	ti.Focus()

	ta := textarea.New()
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true

	return Model{
		entryInput: ti,
		qasmView:   ta,
		focus:      focusEntries,
	}
}

// viewCircuit returns the circuit the grid panel should draw.
func (m Model) viewCircuit() *Circuit {
	if m.showLowered {
		return m.lowered
	}
	return m.macro
}

// synthesize parses the input line and rebuilds every derived view.
func (m *Model) synthesize() {
	input := m.entryInput.Value()
	entries, err := parseDiagonal(input)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	spec, err := NewDiagonalSpec(entries)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	k := spec.NumQubits()
	qubits := make([]int, k)
	for i := range qubits {
		qubits[i] = i
	}
	seq, err := spec.Decompose(qubits)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}

	macro := &Circuit{NumQubits: k}
	for _, in := range seq.Instructions {
		macro.AppendUniformRotation(in.Angles, in.Controls, in.Target)
	}
	macro.AppendGlobalPhase(seq.GlobalPhase)
	lowered := Compacted(macro.Lowered())

	// Verify: the lowered circuit must reproduce the requested diagonal.
	residual := 0.0
	for i, d := range DiagonalOf(lowered) {
		if e := cmplx.Abs(d - spec.Entry(i)); e > residual {
			residual = e
		}
	}

	m.spec = spec
	m.seq = seq
	m.macro = macro
	m.lowered = lowered
	m.residual = residual
	m.viewStartStep = 0
	m.statusMsg = fmt.Sprintf("Synthesized %d-qubit diagonal", k)
	m.qasmView.SetValue(lowered.ToQASM())
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmView.SetWidth(qasmW)
		m.qasmView.SetHeight(max(msg.Height/2-6, 4))
		m.entryInput.Width = max(msg.Width-24, 20)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if key == "ctrl+p" && m.focus != focusMenu {
			m.focus = focusMenu
			m.menuCat = 0
			m.menuItem = 0
			return m, nil
		}
		if key == "ctrl+s" {
			if m.lowered == nil {
				m.statusMsg = "Nothing to save yet"
				return m, nil
			}
			qasm := m.lowered.ToQASM()
			if err := os.WriteFile("diagonal.qasm", []byte(qasm), 0644); err != nil {
				m.statusMsg = fmt.Sprintf("Save error: %v", err)
			} else {
				m.statusMsg = "Saved diagonal.qasm"
			}
			return m, nil
		}
		if key == "ctrl+o" {
			data, err := os.ReadFile("diagonal.qasm")
			if err != nil {
				m.statusMsg = fmt.Sprintf("Load error: %v", err)
				return m, nil
			}
			loaded := &Circuit{}
			if err := loaded.ParseQASM(string(data)); err != nil {
				m.statusMsg = fmt.Sprintf("Load error: %v", err)
				return m, nil
			}
			entries, ok := ExtractDiagonal(loaded)
			if !ok {
				m.statusMsg = "diagonal.qasm does not realize a diagonal"
				return m, nil
			}
			parts := make([]string, len(entries))
			for i, z := range entries {
				parts[i] = formatEntry(z)
			}
			m.entryInput.SetValue(strings.Join(parts, ", "))
			m.synthesize()
			return m, nil
		}

		switch m.focus {
		case focusEntries:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.entryInput.Blur()
			case "enter":
				m.synthesize()
			default:
				var cmd tea.Cmd
				m.entryInput, cmd = m.entryInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				cmds = append(cmds, m.qasmView.Focus())
			case "left", "h":
				if m.viewStartStep > 0 {
					m.viewStartStep--
				}
			case "right", "l":
				if c := m.viewCircuit(); c != nil && m.viewStartStep < c.MaxSteps-1 {
					m.viewStartStep++
				}
			case "v":
				m.showLowered = !m.showLowered
				m.viewStartStep = 0
			}

		case focusQASM:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEntries
				m.qasmView.Blur()
				m.entryInput.Focus()
			case "up", "down", "pgup", "pgdown":
				var cmd tea.Cmd
				m.qasmView, cmd = m.qasmView.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusEntries
				m.entryInput.Focus()
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := presetMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(presetMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := presetMenu[m.menuCat].items[m.menuItem]
				m.entryInput.SetValue(presetEntries(item))
				m.synthesize()
				m.focus = focusCircuit
				m.entryInput.Blur()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	circuitWidth := m.width - sideWidth - 4
	entryHeight := 4
	controlsHeight := 6
	mainHeight := max(m.height-entryHeight-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, mainHeight)
	instrPanel := m.renderInstructionPanel(sideWidth, mainHeight/2)
	qasmPanel := m.renderQASMPanel(sideWidth, mainHeight-mainHeight/2)
	sideCol := lipgloss.JoinVertical(lipgloss.Left, instrPanel, qasmPanel)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sideCol)
	entryPanel := m.renderEntryPanel(m.width - 4)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, entryPanel, controlsPanel)

	// Render preset picker overlay when in menu mode
	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	return frame
}
