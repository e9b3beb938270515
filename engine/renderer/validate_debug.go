//go:build debug

package renderer

import "github.com/Carmen-Shannon/rampart/engine/renderer/shader"

// DebugChecks reports whether expensive validation is compiled in.
const DebugChecks = true

func validateProgram(desc ProgramDesc) error {
	entries := []string{desc.VertexEntry}
	if desc.FragmentEntry != "" {
		entries = append(entries, desc.FragmentEntry)
	}
	return shader.Validate(desc.Source, entries...)
}
