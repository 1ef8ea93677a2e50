package ui

import "desire-paths/internal/core"

type hudLine struct {
	label string
	value string
	group bool
}

// snapshotLines flattens a parameter snapshot into panel rows: one header
// row per group followed by its parameters.
func snapshotLines(s core.ParameterSnapshot) []hudLine {
	var lines []hudLine
	for _, g := range s.Groups {
		if len(g.Params) == 0 {
			continue
		}
		lines = append(lines, hudLine{label: g.Name, group: true})
		for _, p := range g.Params {
			lines = append(lines, hudLine{label: p.Label, value: p.Value})
		}
	}
	return lines
}
