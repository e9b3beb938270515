// Package renderer defines the GPU context the engine draws through. A Device owns buffers, textures,
// programs and render passes behind small integer handles, so scene code never touches a graphics API
// directly. NewWGPUDevice provides the WebGPU implementation; gputest provides a recording fake.
package renderer

import (
	"errors"
	"fmt"
)

const (
	// TextureSlotCount is the number of material texture slots: albedo, normal and roughness.
	TextureSlotCount = 3

	// VertexStride is the byte size of one interleaved vertex: float32x3 position then float32x3 normal.
	VertexStride = 24

	// UniformStride is the byte distance between per-draw uniform blocks. It is the minimum dynamic
	// uniform offset alignment WebGPU guarantees.
	UniformStride = 512

	// MaxShadowMapSize caps the shadow target resolution regardless of hardware limits.
	MaxShadowMapSize = 2048
)

// ErrNoPass is returned when a pass operation is issued outside BeginPass / EndPass.
var ErrNoPass = errors.New("renderer: no pass in progress")

// Device is the GPU context used by the scene renderer.
//
// Resource creation may happen at any time. Drawing happens between BeginPass and EndPass: draws are
// recorded and encoded when the pass ends, so one frame is a shadow pass (optional), a main pass and
// Present.
type Device interface {
	// Backend reports which implementation this is.
	//
	// Returns:
	//   - BackendType: the backend type
	Backend() BackendType

	// MaxTextureSize returns the largest 2D texture dimension the hardware supports.
	//
	// Returns:
	//   - int: maximum width or height in texels
	MaxTextureSize() int

	// SurfaceSize returns the current size of the presentation surface.
	//
	// Returns:
	//   - width, height: surface size in pixels
	SurfaceSize() (width, height int)

	// CreateBuffer uploads data into a new vertex or index buffer.
	//
	// Parameters:
	//   - kind: how the buffer is bound
	//   - data: the bytes to upload
	//
	// Returns:
	//   - BufferHandle: the new buffer
	//   - error: an error if the buffer could not be created
	CreateBuffer(kind BufferKind, data []byte) (BufferHandle, error)

	// ReleaseBuffer frees a buffer. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: the buffer to free
	ReleaseBuffer(h BufferHandle)

	// CreateTexture uploads a sampled texture with every level in desc.Levels.
	//
	// Parameters:
	//   - desc: the texture description and pixel data
	//
	// Returns:
	//   - TextureHandle: the new texture
	//   - error: an error if the texture could not be created
	CreateTexture(desc TextureDesc) (TextureHandle, error)

	// CreateDepthTarget creates a square depth texture that shadow passes render into and main passes
	// sample.
	//
	// Parameters:
	//   - size: width and height in texels
	//
	// Returns:
	//   - TextureHandle: the new depth target
	//   - error: an error if the texture could not be created
	CreateDepthTarget(size int) (TextureHandle, error)

	// ReleaseTexture frees a sampled texture or depth target. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: the texture to free
	ReleaseTexture(h TextureHandle)

	// CreateProgram compiles a WGSL module into a program. Prefer CompileProgram, which applies the
	// build's validation policy first.
	//
	// Parameters:
	//   - desc: the program description
	//
	// Returns:
	//   - ProgramHandle: the new program
	//   - error: an error if the backend rejected the module
	CreateProgram(desc ProgramDesc) (ProgramHandle, error)

	// ReleaseProgram frees a program and every pipeline built from it.
	//
	// Parameters:
	//   - h: the program to free
	ReleaseProgram(h ProgramHandle)

	// BeginPass starts recording a pass.
	//
	// Parameters:
	//   - pass: the pass description
	//
	// Returns:
	//   - error: an error if a pass is already open or the target could not be acquired
	BeginPass(pass PassDesc) error

	// Draw records one draw in the open pass. Draws with the invalid program are dropped.
	//
	// Parameters:
	//   - cmd: the draw to record
	Draw(cmd DrawCommand)

	// EndPass encodes and submits the recorded draws.
	//
	// Returns:
	//   - error: ErrNoPass without an open pass, or an encoding error
	EndPass() error

	// Present shows the surface image rendered by the last main pass.
	Present()

	// Resize reconfigures the surface and its attachments.
	//
	// Parameters:
	//   - width, height: new surface size in pixels
	Resize(width, height int)

	// Release frees every resource the device owns.
	Release()
}

// CompileProgram validates desc according to the build mode and creates the program on dev.
//
// Builds tagged debug check the WGSL source and return any validation or backend error. Release builds
// skip validation and return whatever handle the backend produced; a failed compile yields the invalid
// program, whose draws are silently dropped.
//
// Parameters:
//   - dev: the device to compile on
//   - desc: the program description
//
// Returns:
//   - ProgramHandle: the compiled program
//   - error: a validation or compile error (debug builds only)
func CompileProgram(dev Device, desc ProgramDesc) (ProgramHandle, error) {
	if dev == nil {
		panic("renderer: CompileProgram requires a device")
	}
	if err := validateProgram(desc); err != nil {
		return 0, fmt.Errorf("program %q failed validation: %w", desc.Label, err)
	}
	h, err := dev.CreateProgram(desc)
	if err != nil && DebugChecks {
		return 0, fmt.Errorf("program %q failed to compile: %w", desc.Label, err)
	}
	return h, nil
}

// ShadowMapSize returns the shadow target resolution for a device: the hardware limit capped at
// MaxShadowMapSize.
//
// Parameters:
//   - dev: the device the target will live on
//
// Returns:
//   - int: the side length in texels
func ShadowMapSize(dev Device) int {
	return min(dev.MaxTextureSize(), MaxShadowMapSize)
}
