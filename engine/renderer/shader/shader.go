package shader

import (
	_ "embed"
	"fmt"
)

// Entry point names shared by every engine program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Built-in fragment names accepted by //@rampart:include.
const (
	FragmentObjectUniforms = "object_uniforms"
	FragmentTriplanar      = "triplanar"
	FragmentLighting       = "lighting"
)

var (
	//go:embed assets/object_uniforms.wgsl
	objectUniformsSource string

	//go:embed assets/triplanar.wgsl
	triplanarSource string

	//go:embed assets/lighting.wgsl
	lightingSource string

	//go:embed assets/lit.wgsl
	litSource string

	//go:embed assets/shadow.wgsl
	shadowSource string
)

// Lit returns the expanded source of the triplanar lit program used by the main pass.
//
// Returns:
//   - string: the WGSL source
//   - error: an error if include expansion fails
func Lit() (string, error) {
	src, err := NewPreProcessor().Process(litSource)
	if err != nil {
		return "", fmt.Errorf("lit shader: %w", err)
	}
	return src, nil
}

// Shadow returns the expanded source of the depth-only shadow program. Its fragment stage
// writes no color and discards fragments whose albedo alpha is below one half.
//
// Returns:
//   - string: the WGSL source
//   - error: an error if include expansion fails
func Shadow() (string, error) {
	src, err := NewPreProcessor().Process(shadowSource)
	if err != nil {
		return "", fmt.Errorf("shadow shader: %w", err)
	}
	return src, nil
}
