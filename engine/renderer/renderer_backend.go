package renderer

import "fmt"

// BackendType identifies the GPU backend implementation behind a Device.
type BackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based device.
	BackendTypeWGPU BackendType = iota

	// BackendTypeFake is a recording device without a GPU.
	BackendTypeFake
)

func (b BackendType) String() string {
	switch b {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeFake:
		return "fake"
	}
	return fmt.Sprintf("BackendType(%d)", int(b))
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA) in the main
// pass. WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// BufferHandle names a GPU buffer owned by a Device. The zero value is never a live buffer.
type BufferHandle uint32

// TextureHandle names a GPU texture owned by a Device. The zero value means "no texture".
type TextureHandle uint32

// ProgramHandle names a compiled shader program. The zero value is the invalid program; draws using it
// are dropped.
type ProgramHandle uint32

// BufferKind selects how a buffer is bound.
type BufferKind int

const (
	// BufferKindVertex holds interleaved position and normal data.
	BufferKindVertex BufferKind = iota

	// BufferKindIndex holds uint32 triangle indices.
	BufferKindIndex
)

// TextureFormat selects the color encoding of a sampled texture.
type TextureFormat int

const (
	// TextureFormatRGBA8 stores linear 8-bit channels. Used for normal and roughness maps.
	TextureFormatRGBA8 TextureFormat = iota

	// TextureFormatRGBA8Srgb stores sRGB encoded color. Used for albedo maps.
	TextureFormatRGBA8Srgb
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	// CullBack discards back faces. This is the default for meshes.
	CullBack CullMode = iota

	// CullNone draws both faces, for flat or open geometry.
	CullNone
)

// ProgramKind selects the pipeline shape a program is compiled into.
type ProgramKind int

const (
	// ProgramKindMain renders color with depth testing into the surface, sampling the shadow map.
	ProgramKindMain ProgramKind = iota

	// ProgramKindShadow renders depth only into a shadow target.
	ProgramKindShadow
)

// PassKind selects the render target of a pass.
type PassKind int

const (
	// PassKindShadow clears and renders into a depth-only shadow target.
	PassKindShadow PassKind = iota

	// PassKindMain clears color and depth and renders into the window surface.
	PassKindMain
)

// TextureDesc describes a sampled RGBA8 texture and its full mip chain.
type TextureDesc struct {
	// Label names the texture in backend debug output.
	Label string

	// Width and Height are the dimensions of mip level 0 in pixels.
	Width, Height int

	// Format is the color encoding of every level.
	Format TextureFormat

	// Levels holds tightly packed RGBA pixels per mip level, level 0 first. Each level halves the previous
	// dimensions, rounding down and stopping at 1.
	Levels [][]byte
}

// ProgramDesc describes a shader program compiled from WGSL source.
type ProgramDesc struct {
	// Label names the program in backend debug output.
	Label string

	// Kind selects the pipeline shape.
	Kind ProgramKind

	// Source is the fully pre-processed WGSL module.
	Source string

	// VertexEntry and FragmentEntry name the entry points inside Source.
	VertexEntry, FragmentEntry string
}

// PassDesc describes one render pass.
type PassDesc struct {
	// Kind selects the pass target.
	Kind PassKind

	// Target is the depth target for shadow passes. Ignored by main passes.
	Target TextureHandle

	// ShadowMap is the depth target sampled by main pass programs. Zero binds a cleared map that leaves
	// every fragment lit.
	ShadowMap TextureHandle

	// ClearColor is the main pass background color as RGBA.
	ClearColor [4]float64
}

// DrawCommand is one indexed draw. The device copies Uniforms, so callers may reuse the slice.
type DrawCommand struct {
	Program     ProgramHandle
	Vertices    BufferHandle
	Indices     BufferHandle
	IndexCount  uint32
	Uniforms    []byte
	Textures    [TextureSlotCount]TextureHandle
	Cull        CullMode
	Transparent bool
}
