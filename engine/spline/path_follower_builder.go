package spline

// PathFollowerBuilderOption is a functional option for configuring a PathFollower.
type PathFollowerBuilderOption func(*pathFollowerImpl)

// WithSpeed sets the walking speed. Defaults to 1.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - PathFollowerBuilderOption: option function to apply
func WithSpeed(speed float32) PathFollowerBuilderOption {
	return func(f *pathFollowerImpl) {
		f.speed = speed
	}
}

// WithLateralOffset keeps the node beside the path, positive to the left of travel. Units walking in
// formation use different offsets on the same path.
//
// Parameters:
//   - offset: distance from the path in world units
//
// Returns:
//   - PathFollowerBuilderOption: option function to apply
func WithLateralOffset(offset float32) PathFollowerBuilderOption {
	return func(f *pathFollowerImpl) {
		f.lateral = offset
	}
}

// WithHeight sets the y coordinate the node walks at.
func WithHeight(y float32) PathFollowerBuilderOption {
	return func(f *pathFollowerImpl) {
		f.height = y
	}
}

// WithOnArrive registers a function called once when the end of the path is reached.
func WithOnArrive(fn func()) PathFollowerBuilderOption {
	return func(f *pathFollowerImpl) {
		f.onArrive = fn
	}
}
