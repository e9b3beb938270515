package audio

// SpatializerBuilderOption is a functional option for configuring a Spatializer.
type SpatializerBuilderOption func(s *spatializerImpl)

// WithSampleRate sets the mixing rate. Defaults to DefaultSampleRate.
//
// Parameters:
//   - rate: samples per second
//
// Returns:
//   - SpatializerBuilderOption: option function to apply
func WithSampleRate(rate int) SpatializerBuilderOption {
	return func(s *spatializerImpl) {
		if rate > 0 {
			s.sampleRate = rate
		}
	}
}

// WithFalloff sets the distance model. Defaults to DefaultFalloff.
//
// Parameters:
//   - falloff: the distance model
//
// Returns:
//   - SpatializerBuilderOption: option function to apply
func WithFalloff(falloff Falloff) SpatializerBuilderOption {
	return func(s *spatializerImpl) {
		s.falloff = falloff
	}
}

// WithVolume sets the master volume applied to every player.
//
// Parameters:
//   - volume: 0..1
//
// Returns:
//   - SpatializerBuilderOption: option function to apply
func WithVolume(volume float64) SpatializerBuilderOption {
	return func(s *spatializerImpl) {
		s.volume = volume
	}
}
