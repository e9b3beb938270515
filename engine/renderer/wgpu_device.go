package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

var vertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: VertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

type pipelineKey struct {
	cull        CullMode
	transparent bool
}

type wgpuBuffer struct {
	buf  *wgpu.Buffer
	kind BufferKind
}

type wgpuTexture struct {
	tex   *wgpu.Texture
	view  *wgpu.TextureView
	depth bool
}

type wgpuProgram struct {
	desc      ProgramDesc
	module    *wgpu.ShaderModule
	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

type wgpuDevice struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	width         int
	height        int

	// builder config
	pendingPresentMode        PresentMode
	sampleCount               MSAASampleCount
	anisotropy                uint16
	forceFallbackAdapter      bool
	shadowDepthBias           int32
	shadowDepthBiasSlopeScale float32

	maxTextureSize int

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	objectLayout   *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	shadowLayout   *wgpu.BindGroupLayout
	mainLayout     *wgpu.PipelineLayout
	depthLayout    *wgpu.PipelineLayout

	materialSampler   *wgpu.Sampler
	comparisonSampler *wgpu.Sampler

	uniformBuffer   *wgpu.Buffer
	uniformCapacity int
	uniformData     []byte
	objectGroup     *wgpu.BindGroup

	defaultTexture TextureHandle
	blankShadowMap TextureHandle

	materialGroups map[[TextureSlotCount]TextureHandle]*wgpu.BindGroup
	shadowGroups   map[TextureHandle]*wgpu.BindGroup

	nextHandle uint32
	buffers    map[BufferHandle]*wgpuBuffer
	textures   map[TextureHandle]*wgpuTexture
	programs   map[ProgramHandle]*wgpuProgram

	pass  *PassDesc
	draws []DrawCommand

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Device = &wgpuDevice{}

// NewWGPUDevice creates a WebGPU device rendering into the surface described by surfaceDescriptor, which
// the window package produces from its GLFW window. The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to present into
//   - width, height: the initial surface size in pixels
//   - options: functional options to configure the device
//
// Returns:
//   - Device: the ready device
//   - error: an error if no adapter or device could be obtained or the fixed resources failed to build
func NewWGPUDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...DeviceBuilderOption) (Device, error) {
	if surfaceDescriptor == nil {
		panic("renderer: NewWGPUDevice requires a surface descriptor")
	}
	runtime.LockOSThread()

	d := &wgpuDevice{
		mu:                        &sync.Mutex{},
		instance:                  wgpu.CreateInstance(nil),
		pendingPresentMode:        PresentModeVSync,
		sampleCount:               MSAA4x,
		anisotropy:                1,
		shadowDepthBias:           2,
		shadowDepthBiasSlopeScale: 2.0,
		materialGroups:            make(map[[TextureSlotCount]TextureHandle]*wgpu.BindGroup),
		shadowGroups:              make(map[TextureHandle]*wgpu.BindGroup),
		buffers:                   make(map[BufferHandle]*wgpuBuffer),
		textures:                  make(map[TextureHandle]*wgpuTexture),
		programs:                  make(map[ProgramHandle]*wgpuProgram),
	}
	for _, option := range options {
		option(d)
	}

	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = adapter

	supported := adapter.GetLimits()
	d.maxTextureSize = int(supported.Limits.MaxTextureDimension2D)

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = device
	d.queue = device.GetQueue()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.configureSurfaceLocked(width, height)
	if err := d.createFixedResourcesLocked(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *wgpuDevice) presentMode() wgpu.PresentMode {
	switch d.pendingPresentMode {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	default:
		return wgpu.PresentModeFifo
	}
}

func (d *wgpuDevice) configureSurfaceLocked(width, height int) {
	width, height = max(width, 1), max(height, 1)
	d.width, d.height = width, height

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode(),
		AlphaMode:   capabilities.AlphaModes[0],
	})

	d.releaseAttachmentsLocked()

	count := uint32(d.sampleCount)
	if count > 1 {
		tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		d.msaaTexture = tex
		if d.msaaView, err = tex.CreateView(nil); err != nil {
			panic(err)
		}
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	d.depthTexture = tex
	if d.depthView, err = tex.CreateView(nil); err != nil {
		panic(err)
	}
}

func (d *wgpuDevice) releaseAttachmentsLocked() {
	if d.msaaView != nil {
		d.msaaView.Release()
		d.msaaView = nil
	}
	if d.msaaTexture != nil {
		d.msaaTexture.Release()
		d.msaaTexture = nil
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
}

// createFixedResourcesLocked builds the bind group layouts, samplers and fallback textures shared by
// every program.
func (d *wgpuDevice) createFixedResourcesLocked() error {
	var err error

	d.objectLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Object Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   UniformStride,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create object layout: %w", err)
	}

	materialEntries := make([]wgpu.BindGroupLayoutEntry, 0, TextureSlotCount+1)
	for slot := range TextureSlotCount {
		materialEntries = append(materialEntries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(slot),
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		})
	}
	materialEntries = append(materialEntries, wgpu.BindGroupLayoutEntry{
		Binding:    TextureSlotCount,
		Visibility: wgpu.ShaderStageFragment,
		Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
	})
	d.materialLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Material Texture Layout",
		Entries: materialEntries,
	})
	if err != nil {
		return fmt.Errorf("failed to create material layout: %w", err)
	}

	d.shadowLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Shadow Map Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeComparison},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow layout: %w", err)
	}

	d.mainLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Main Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.objectLayout, d.materialLayout, d.shadowLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create main pipeline layout: %w", err)
	}
	d.depthLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shadow Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.objectLayout, d.materialLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow pipeline layout: %w", err)
	}

	d.materialSampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: d.anisotropy,
	})
	if err != nil {
		return fmt.Errorf("failed to create material sampler: %w", err)
	}

	d.comparisonSampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	if err := d.growUniformsLocked(64 * UniformStride); err != nil {
		return err
	}

	d.defaultTexture, err = d.createTextureLocked(TextureDesc{
		Label:  "Default Texture",
		Width:  1,
		Height: 1,
		Levels: [][]byte{{255, 255, 255, 255}},
	})
	if err != nil {
		return err
	}

	d.blankShadowMap, err = d.createDepthTargetLocked(1)
	if err != nil {
		return err
	}
	return d.clearDepthLocked(d.textures[d.blankShadowMap].view)
}

// clearDepthLocked runs an empty depth pass so a freshly created target reads as the far plane.
func (d *wgpuDevice) clearDepthLocked(view *wgpu.TextureView) error {
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.End()
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return err
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

func (d *wgpuDevice) growUniformsLocked(size int) error {
	if size <= d.uniformCapacity {
		return nil
	}
	capacity := max(size, d.uniformCapacity*2)

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Object Uniform Buffer",
		Size:  uint64(capacity),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Object Uniform Bind Group",
		Layout: d.objectLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    UniformStride,
		}},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("failed to create uniform bind group: %w", err)
	}

	if d.objectGroup != nil {
		d.objectGroup.Release()
	}
	if d.uniformBuffer != nil {
		d.uniformBuffer.Release()
	}
	d.uniformBuffer, d.objectGroup, d.uniformCapacity = buf, group, capacity
	return nil
}

func (d *wgpuDevice) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *wgpuDevice) Backend() BackendType {
	return BackendTypeWGPU
}

func (d *wgpuDevice) MaxTextureSize() int {
	return d.maxTextureSize
}

func (d *wgpuDevice) SurfaceSize() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *wgpuDevice) CreateBuffer(kind BufferKind, data []byte) (BufferHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	usage := wgpu.BufferUsageVertex
	label := "Vertex Buffer"
	if kind == BufferKindIndex {
		usage = wgpu.BufferUsageIndex
		label = "Index Buffer"
	}
	// WebGPU requires copy sizes in multiples of 4.
	size := (uint64(len(data)) + 3) &^ 3
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  max(size, 4),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", label, err)
	}
	if len(data) > 0 {
		padded := data
		if uint64(len(data)) != size {
			padded = make([]byte, size)
			copy(padded, data)
		}
		d.queue.WriteBuffer(buf, 0, padded)
	}

	h := BufferHandle(d.handle())
	d.buffers[h] = &wgpuBuffer{buf: buf, kind: kind}
	return h, nil
}

func (d *wgpuDevice) ReleaseBuffer(h BufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buffers[h]
	if !ok {
		return
	}
	b.buf.Release()
	delete(d.buffers, h)
}

func (d *wgpuDevice) CreateTexture(desc TextureDesc) (TextureHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.createTextureLocked(desc)
}

func (d *wgpuDevice) createTextureLocked(desc TextureDesc) (TextureHandle, error) {
	if desc.Width <= 0 || desc.Height <= 0 || len(desc.Levels) == 0 {
		return 0, fmt.Errorf("texture %q: empty texture", desc.Label)
	}
	if desc.Width > d.maxTextureSize || desc.Height > d.maxTextureSize {
		return 0, fmt.Errorf("texture %q: %dx%d exceeds device limit %d", desc.Label, desc.Width, desc.Height, d.maxTextureSize)
	}

	format := wgpu.TextureFormatRGBA8Unorm
	if desc.Format == TextureFormatRGBA8Srgb {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: uint32(len(desc.Levels)),
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create texture %q: %w", desc.Label, err)
	}

	w, h := desc.Width, desc.Height
	for level, pixels := range desc.Levels {
		if len(pixels) != w*h*4 {
			tex.Release()
			return 0, fmt.Errorf("texture %q: level %d has %d bytes, want %d", desc.Label, level, len(pixels), w*h*4)
		}
		d.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(level),
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(w * 4),
				RowsPerImage: uint32(h),
			},
			&wgpu.Extent3D{
				Width:              uint32(w),
				Height:             uint32(h),
				DepthOrArrayLayers: 1,
			},
		)
		w, h = max(w/2, 1), max(h/2, 1)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("failed to create view for texture %q: %w", desc.Label, err)
	}

	handle := TextureHandle(d.handle())
	d.textures[handle] = &wgpuTexture{tex: tex, view: view}
	return handle, nil
}

func (d *wgpuDevice) CreateDepthTarget(size int) (TextureHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.createDepthTargetLocked(size)
}

func (d *wgpuDevice) createDepthTargetLocked(size int) (TextureHandle, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(size),
			Height:             uint32(size),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create shadow depth texture: %w", err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("failed to create shadow depth texture view: %w", err)
	}

	handle := TextureHandle(d.handle())
	d.textures[handle] = &wgpuTexture{tex: tex, view: view, depth: true}
	return handle, nil
}

func (d *wgpuDevice) ReleaseTexture(h TextureHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.textures[h]
	if !ok || h == d.defaultTexture || h == d.blankShadowMap {
		return
	}
	for key, group := range d.materialGroups {
		if key[0] == h || key[1] == h || key[2] == h {
			group.Release()
			delete(d.materialGroups, key)
		}
	}
	if group, ok := d.shadowGroups[h]; ok {
		group.Release()
		delete(d.shadowGroups, h)
	}
	t.view.Release()
	t.tex.Release()
	delete(d.textures, h)
}

func (d *wgpuDevice) CreateProgram(desc ProgramDesc) (ProgramHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.Source,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create shader module %q: %w", desc.Label, err)
	}

	h := ProgramHandle(d.handle())
	d.programs[h] = &wgpuProgram{
		desc:      desc,
		module:    module,
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}
	return h, nil
}

func (d *wgpuDevice) ReleaseProgram(h ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.programs[h]
	if !ok {
		return
	}
	for _, pl := range p.pipelines {
		pl.Release()
	}
	p.module.Release()
	delete(d.programs, h)
}

// pipelineLocked returns the pipeline for a program and draw state, building it on first use.
func (d *wgpuDevice) pipelineLocked(p *wgpuProgram, key pipelineKey) (*wgpu.RenderPipeline, error) {
	if pl, ok := p.pipelines[key]; ok {
		return pl, nil
	}

	cullMode := wgpu.CullModeBack
	if key.cull == CullNone {
		cullMode = wgpu.CullModeNone
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label: p.desc.Label + " Render Pipeline",
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: p.desc.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cullMode,
		},
	}

	if p.desc.Kind == ProgramKindShadow {
		desc.Layout = d.depthLayout
		desc.Fragment = &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: p.desc.FragmentEntry,
		}
		desc.Multisample = wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled:   true,
			DepthCompare:        wgpu.CompareFunctionLess,
			DepthBias:           d.shadowDepthBias,
			DepthBiasSlopeScale: d.shadowDepthBiasSlopeScale,
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	} else {
		target := wgpu.ColorTargetState{
			Format:    d.surfaceFormat,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if key.transparent {
			target.Blend = &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					Operation: wgpu.BlendOperationAdd,
					SrcFactor: wgpu.BlendFactorSrcAlpha,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				},
				Alpha: wgpu.BlendComponent{
					Operation: wgpu.BlendOperationAdd,
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				},
			}
		}
		desc.Layout = d.mainLayout
		desc.Fragment = &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: p.desc.FragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		}
		desc.Multisample = wgpu.MultisampleState{Count: uint32(d.sampleCount), Mask: 0xFFFFFFFF}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: !key.transparent,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	pl, err := d.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline for %q: %w", p.desc.Label, err)
	}
	p.pipelines[key] = pl
	return pl, nil
}

func (d *wgpuDevice) materialGroupLocked(textures [TextureSlotCount]TextureHandle) (*wgpu.BindGroup, error) {
	for i, h := range textures {
		if t, ok := d.textures[h]; !ok || t.depth {
			textures[i] = d.defaultTexture
		}
	}
	if group, ok := d.materialGroups[textures]; ok {
		return group, nil
	}

	entries := make([]wgpu.BindGroupEntry, 0, TextureSlotCount+1)
	for slot, h := range textures {
		entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(slot), TextureView: d.textures[h].view})
	}
	entries = append(entries, wgpu.BindGroupEntry{Binding: TextureSlotCount, Sampler: d.materialSampler})

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Material Bind Group",
		Layout:  d.materialLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	d.materialGroups[textures] = group
	return group, nil
}

func (d *wgpuDevice) shadowGroupLocked(h TextureHandle) (*wgpu.BindGroup, error) {
	if t, ok := d.textures[h]; !ok || !t.depth {
		h = d.blankShadowMap
	}
	if group, ok := d.shadowGroups[h]; ok {
		return group, nil
	}
	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Map Bind Group",
		Layout: d.shadowLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: d.textures[h].view},
			{Binding: 1, Sampler: d.comparisonSampler},
		},
	})
	if err != nil {
		return nil, err
	}
	d.shadowGroups[h] = group
	return group, nil
}

func (d *wgpuDevice) BeginPass(pass PassDesc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass != nil {
		return errors.New("renderer: pass already in progress")
	}
	if pass.Kind == PassKindShadow {
		if t, ok := d.textures[pass.Target]; !ok || !t.depth {
			return fmt.Errorf("renderer: shadow pass target %d is not a depth target", pass.Target)
		}
	} else if d.frameSurface == nil {
		// At most one surface image is held between BeginPass and Present.
		surfaceTexture, err := d.surface.GetCurrentTexture()
		if err != nil {
			return fmt.Errorf("failed to acquire surface texture: %w", err)
		}
		view, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return fmt.Errorf("failed to create surface view: %w", err)
		}
		d.frameSurface, d.frameView = surfaceTexture, view
	}

	d.pass = &pass
	d.draws = d.draws[:0]
	return nil
}

func (d *wgpuDevice) Draw(cmd DrawCommand) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil || cmd.Program == 0 || cmd.IndexCount == 0 {
		return
	}
	cmd.Uniforms = append([]byte(nil), cmd.Uniforms...)
	d.draws = append(d.draws, cmd)
}

func (d *wgpuDevice) passDescriptorLocked(pass PassDesc) *wgpu.RenderPassDescriptor {
	if pass.Kind == PassKindShadow {
		return &wgpu.RenderPassDescriptor{
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:            d.textures[pass.Target].view,
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpStore,
				DepthClearValue: 1.0,
			},
		}
	}

	color := wgpu.RenderPassColorAttachment{
		View:    d.frameView,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: pass.ClearColor[0], G: pass.ClearColor[1], B: pass.ClearColor[2], A: pass.ClearColor[3],
		},
	}
	if d.sampleCount > 1 {
		color.View = d.msaaView
		color.ResolveTarget = d.frameView
		color.StoreOp = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (d *wgpuDevice) EndPass() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil {
		return ErrNoPass
	}
	pass := *d.pass
	d.pass = nil

	if err := d.growUniformsLocked(len(d.draws) * UniformStride); err != nil {
		return err
	}
	if need := len(d.draws) * UniformStride; need > 0 {
		if cap(d.uniformData) < need {
			d.uniformData = make([]byte, need)
		}
		d.uniformData = d.uniformData[:need]
		clear(d.uniformData)
		for i, cmd := range d.draws {
			copy(d.uniformData[i*UniformStride:(i+1)*UniformStride], cmd.Uniforms)
		}
		// Passes are submitted one at a time; the next pass's write lands after this submission.
		d.queue.WriteBuffer(d.uniformBuffer, 0, d.uniformData)
	}

	var shadowGroup *wgpu.BindGroup
	if pass.Kind == PassKindMain {
		var err error
		if shadowGroup, err = d.shadowGroupLocked(pass.ShadowMap); err != nil {
			return fmt.Errorf("failed to bind shadow map: %w", err)
		}
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	rp := encoder.BeginRenderPass(d.passDescriptorLocked(pass))

	for i, cmd := range d.draws {
		p, ok := d.programs[cmd.Program]
		vb, vok := d.buffers[cmd.Vertices]
		ib, iok := d.buffers[cmd.Indices]
		if !ok || !vok || !iok {
			continue
		}
		if (p.desc.Kind == ProgramKindShadow) != (pass.Kind == PassKindShadow) {
			continue
		}
		pl, err := d.pipelineLocked(p, pipelineKey{cull: cmd.Cull, transparent: cmd.Transparent && pass.Kind == PassKindMain})
		if err != nil {
			rp.End()
			encoder.Release()
			return err
		}
		materialGroup, err := d.materialGroupLocked(cmd.Textures)
		if err != nil {
			rp.End()
			encoder.Release()
			return fmt.Errorf("failed to bind material textures: %w", err)
		}

		rp.SetPipeline(pl)
		rp.SetBindGroup(0, d.objectGroup, []uint32{uint32(i * UniformStride)})
		rp.SetBindGroup(1, materialGroup, nil)
		if shadowGroup != nil {
			rp.SetBindGroup(2, shadowGroup, nil)
		}
		rp.SetVertexBuffer(0, vb.buf, 0, wgpu.WholeSize)
		rp.SetIndexBuffer(ib.buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		rp.DrawIndexed(cmd.IndexCount, 1, 0, 0, 0)
	}
	rp.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	d.draws = d.draws[:0]
	return nil
}

func (d *wgpuDevice) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface == nil {
		return
	}
	d.surface.Present()
	d.frameView.Release()
	d.frameSurface.Release()
	d.frameView, d.frameSurface = nil, nil
}

func (d *wgpuDevice) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	d.configureSurfaceLocked(width, height)
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, group := range d.materialGroups {
		group.Release()
	}
	for _, group := range d.shadowGroups {
		group.Release()
	}
	for _, p := range d.programs {
		for _, pl := range p.pipelines {
			pl.Release()
		}
		p.module.Release()
	}
	for _, t := range d.textures {
		t.view.Release()
		t.tex.Release()
	}
	for _, b := range d.buffers {
		b.buf.Release()
	}
	clear(d.materialGroups)
	clear(d.shadowGroups)
	clear(d.programs)
	clear(d.textures)
	clear(d.buffers)

	if d.objectGroup != nil {
		d.objectGroup.Release()
	}
	if d.uniformBuffer != nil {
		d.uniformBuffer.Release()
	}
	d.releaseAttachmentsLocked()
	d.materialSampler.Release()
	d.comparisonSampler.Release()
	d.mainLayout.Release()
	d.depthLayout.Release()
	d.objectLayout.Release()
	d.materialLayout.Release()
	d.shadowLayout.Release()
	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.surface.Release()
	d.instance.Release()
}
