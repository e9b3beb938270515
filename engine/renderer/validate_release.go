//go:build !debug

package renderer

// DebugChecks reports whether expensive validation is compiled in.
const DebugChecks = false

func validateProgram(ProgramDesc) error {
	return nil
}
