package renderer

// DeviceBuilderOption is a functional option applied to a WebGPU device during construction via
// NewWGPUDevice.
type DeviceBuilderOption func(*wgpuDevice)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the present mode option to a device
func WithPresentMode(mode PresentMode) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.pendingPresentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the main pass.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - DeviceBuilderOption: a function that applies the MSAA option to a device
func WithMSAA(count MSAASampleCount) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.sampleCount = count
	}
}

// WithAnisotropy sets the maximum anisotropic filtering level of the material sampler. Values below 2
// disable anisotropic filtering.
//
// Parameters:
//   - level: the maximum anisotropy (1 to 16)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the anisotropy option to a device
func WithAnisotropy(level uint16) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.anisotropy = max(1, min(level, 16))
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the force software renderer option to a device
func WithForceSoftwareRenderer(force bool) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.forceFallbackAdapter = force
	}
}

// WithShadowDepthBias sets the rasterizer depth bias applied by shadow pipelines.
//
// Parameters:
//   - constant: the constant bias in depth units
//   - slopeScale: the bias scaled by the triangle's depth slope
//
// Returns:
//   - DeviceBuilderOption: a function that applies the bias option to a device
func WithShadowDepthBias(constant int32, slopeScale float32) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.shadowDepthBias = constant
		d.shadowDepthBiasSlopeScale = slopeScale
	}
}
