package shader

import (
	"fmt"
	"strings"
)

// maxIncludeDepth bounds nested includes so a fragment that includes itself fails instead of recursing.
const maxIncludeDepth = 8

type preProcessor struct {
	fragments map[string]string
	included  []string
}

// PreProcessor expands @rampart:include directives in WGSL source using a registry of named
// fragments. Each fragment is injected at most once per Process call, so shared declarations
// pulled in by several fragments are emitted a single time.
type PreProcessor interface {
	// Register adds or replaces a named fragment.
	//
	// Parameters:
	//   - name: the include argument that selects the fragment
	//   - source: the WGSL text to inject
	Register(name, source string)

	// Process expands every include directive in the source.
	//
	// Parameters:
	//   - source: the raw WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error if an annotation is malformed, names an unknown fragment or nests too deeply
	Process(source string) (string, error)

	// Included returns the fragment names injected by the most recent Process call, in order.
	//
	// Returns:
	//   - []string: the injected fragment names
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor with the engine's built-in fragments registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		fragments: map[string]string{
			FragmentObjectUniforms: objectUniformsSource,
			FragmentTriplanar:      triplanarSource,
			FragmentLighting:       lightingSource,
		},
	}
}

func (p *preProcessor) Register(name, source string) {
	p.fragments[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]
	return p.expand(source, 0)
}

func (p *preProcessor) expand(source string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("includes nested deeper than %d", maxIncludeDepth)
	}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		fragment, ok := p.fragments[a.Arg]
		if !ok {
			return "", fmt.Errorf("line %d: unknown @rampart:include fragment %q", i+1, a.Arg)
		}
		if p.wasIncluded(a.Arg) {
			continue
		}
		p.included = append(p.included, a.Arg)

		expanded, err := p.expand(fragment, depth+1)
		if err != nil {
			return "", fmt.Errorf("fragment %q: %w", a.Arg, err)
		}
		out = append(out, expanded)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) wasIncluded(name string) bool {
	for _, n := range p.included {
		if n == name {
			return true
		}
	}
	return false
}

func (p *preProcessor) Included() []string {
	return p.included
}
