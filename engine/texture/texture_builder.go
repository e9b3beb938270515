package texture

// GeneratorBuilderOption is a functional option for configuring a Generator.
type GeneratorBuilderOption func(*generatorImpl)

// WithWorkers sets the number of goroutines sampling recipes. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithWorkers(n int) GeneratorBuilderOption {
	return func(g *generatorImpl) {
		g.workers = max(n, 1)
	}
}

// WithBandRows sets how many rows one worker task samples.
//
// Parameters:
//   - rows: rows per task
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithBandRows(rows int) GeneratorBuilderOption {
	return func(g *generatorImpl) {
		g.bandRows = rows
	}
}

// WithNormalStrength scales the height gradients before they are turned into normals.
func WithNormalStrength(strength float32) GeneratorBuilderOption {
	return func(g *generatorImpl) {
		g.normalStrength = strength
	}
}
