package main

import (
	"fmt"
	"math/rand"
	"strings"
)

// presetItem is a ready-made diagonal in the picker.
type presetItem struct {
	name    string
	entries string // entry list fed into the input line
	random  int    // if > 0, generate this many qubits of random phases instead
}

// presetCategory groups related presets under a tab.
type presetCategory struct {
	name  string
	items []presetItem
}

// presetMenu defines the preset picker categories and items.
var presetMenu = []presetCategory{
	{
		name: "Two Qubit",
		items: []presetItem{
			{name: "Controlled-Z", entries: "1, 1, 1, -1"},
			{name: "Controlled-S", entries: "1, 1, 1, i"},
			{name: "Controlled-T", entries: "1, 1, 1, pi/4"},
			{name: "Z ⊗ Z", entries: "1, -1, -1, 1"},
			{name: "Identity", entries: "1, 1, 1, 1"},
		},
	},
	{
		name: "Three Qubit",
		items: []presetItem{
			{name: "CCZ (Toffoli phase)", entries: "1, 1, 1, 1, 1, 1, 1, -1"},
			{name: "CCS", entries: "1, 1, 1, 1, 1, 1, 1, i"},
			{name: "CZ on q1,q2", entries: "1, 1, 1, 1, 1, 1, -1, -1"},
			{name: "Z ⊗ Z ⊗ Z", entries: "1, -1, -1, 1, -1, 1, 1, -1"},
		},
	},
	{
		name: "Phase Ramps",
		items: []presetItem{
			{name: "Fourier layer (k=2)", entries: "1, i, -1, -i"},
			{name: "Fourier layer (k=3)", entries: "1, pi/4, i, 3*pi/4, -1, -3*pi/4, -i, -pi/4"},
			{name: "T ladder", entries: "1, pi/4, pi/2, 3*pi/4"},
		},
	},
	{
		name: "Random",
		items: []presetItem{
			{name: "Random phases (k=2)", random: 2},
			{name: "Random phases (k=3)", random: 3},
			{name: "Random phases (k=4)", random: 4},
		},
	},
}

// presetEntries returns the entry text for an item, generating random phases
// when asked.
func presetEntries(item presetItem) string {
	if item.random == 0 {
		return item.entries
	}
	n := 1 << item.random
	parts := make([]string, n)
	for i := range parts {
		// Phases as pi coefficients so the input line reads back exactly.
		parts[i] = fmt.Sprintf("%.4f*pi", rand.Float64()*2-1)
	}
	return strings.Join(parts, ", ")
}

// renderMenu renders the preset picker overlay.
func (m Model) renderMenu() string {
	var sb strings.Builder

	// Category tabs
	var tabs []string
	for i, cat := range presetMenu {
		if i == m.menuCat {
			tabs = append(tabs, menuSelectedStyle.Render("["+cat.name+"]"))
		} else {
			tabs = append(tabs, menuNormalStyle.Render(" "+cat.name+" "))
		}
	}
	sb.WriteString(strings.Join(tabs, " "))
	sb.WriteString("\n\n")

	// Items of the active category
	cat := presetMenu[m.menuCat]
	for i, item := range cat.items {
		line := item.name
		if item.random == 0 {
			line = fmt.Sprintf("%-22s %s", item.name, dimStyle.Render(item.entries))
		}
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			sb.WriteString(menuNormalStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("←→ Category  ↑↓ Select  ⏎ Synthesize  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
