// Package gputest provides a recording renderer.Device for tests that exercise rendering code without
// a GPU.
package gputest

import (
	"errors"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/rampart/engine/renderer"
)

// Buffer is a recorded buffer upload.
type Buffer struct {
	Kind renderer.BufferKind
	Data []byte
}

// Texture is a recorded texture or depth target.
type Texture struct {
	Desc  renderer.TextureDesc
	Depth bool
	Size  int
}

// Pass is a recorded pass with the draws issued inside it.
type Pass struct {
	Desc  renderer.PassDesc
	Draws []renderer.DrawCommand
}

// Device records every call made through the renderer.Device interface.
type Device struct {
	mu sync.Mutex

	// MaxTexture is returned by MaxTextureSize.
	MaxTexture int

	// ProgramErr, when set, makes CreateProgram fail with it.
	ProgramErr error

	// BufferErr, when set, makes CreateBuffer fail with it.
	BufferErr error

	Buffers  map[renderer.BufferHandle]Buffer
	Textures map[renderer.TextureHandle]Texture
	Programs map[renderer.ProgramHandle]renderer.ProgramDesc
	Passes   []Pass
	Presents int
	Released bool

	// BufferUploads counts every successful CreateBuffer call, including buffers since released.
	BufferUploads int

	width, height int
	next          uint32
	open          *Pass
}

var _ renderer.Device = &Device{}

// NewDevice returns an empty recording device with a 4096 texel texture limit and a 1280x720 surface.
func NewDevice() *Device {
	return &Device{
		MaxTexture: 4096,
		Buffers:    make(map[renderer.BufferHandle]Buffer),
		Textures:   make(map[renderer.TextureHandle]Texture),
		Programs:   make(map[renderer.ProgramHandle]renderer.ProgramDesc),
		width:      1280,
		height:     720,
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) Backend() renderer.BackendType {
	return renderer.BackendTypeFake
}

func (d *Device) MaxTextureSize() int {
	return d.MaxTexture
}

func (d *Device) SurfaceSize() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *Device) CreateBuffer(kind renderer.BufferKind, data []byte) (renderer.BufferHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.BufferErr != nil {
		return 0, d.BufferErr
	}
	h := renderer.BufferHandle(d.handle())
	d.Buffers[h] = Buffer{Kind: kind, Data: slices.Clone(data)}
	d.BufferUploads++
	return h, nil
}

func (d *Device) ReleaseBuffer(h renderer.BufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Buffers, h)
}

func (d *Device) CreateTexture(desc renderer.TextureDesc) (renderer.TextureHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if desc.Width <= 0 || desc.Height <= 0 || len(desc.Levels) == 0 {
		return 0, errors.New("gputest: empty texture")
	}
	if desc.Width > d.MaxTexture || desc.Height > d.MaxTexture {
		return 0, errors.New("gputest: texture exceeds device limit")
	}
	h := renderer.TextureHandle(d.handle())
	d.Textures[h] = Texture{Desc: desc}
	return h, nil
}

func (d *Device) CreateDepthTarget(size int) (renderer.TextureHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if size <= 0 || size > d.MaxTexture {
		return 0, errors.New("gputest: invalid depth target size")
	}
	h := renderer.TextureHandle(d.handle())
	d.Textures[h] = Texture{Depth: true, Size: size}
	return h, nil
}

func (d *Device) ReleaseTexture(h renderer.TextureHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Textures, h)
}

func (d *Device) CreateProgram(desc renderer.ProgramDesc) (renderer.ProgramHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ProgramErr != nil {
		return 0, d.ProgramErr
	}
	h := renderer.ProgramHandle(d.handle())
	d.Programs[h] = desc
	return h, nil
}

func (d *Device) ReleaseProgram(h renderer.ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Programs, h)
}

func (d *Device) BeginPass(pass renderer.PassDesc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open != nil {
		return errors.New("gputest: pass already in progress")
	}
	d.open = &Pass{Desc: pass}
	return nil
}

func (d *Device) Draw(cmd renderer.DrawCommand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open == nil || cmd.Program == 0 {
		return
	}
	cmd.Uniforms = slices.Clone(cmd.Uniforms)
	d.open.Draws = append(d.open.Draws, cmd)
}

func (d *Device) EndPass() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open == nil {
		return renderer.ErrNoPass
	}
	d.Passes = append(d.Passes, *d.open)
	d.open = nil
	return nil
}

func (d *Device) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Presents++
}

func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width > 0 && height > 0 {
		d.width, d.height = width, height
	}
}

func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Released = true
	clear(d.Buffers)
	clear(d.Textures)
	clear(d.Programs)
}

// PassesOf returns the recorded passes of one kind in submission order.
func (d *Device) PassesOf(kind renderer.PassKind) []Pass {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Pass
	for _, p := range d.Passes {
		if p.Desc.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Reset forgets recorded passes and presents while keeping live resources.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Passes = nil
	d.Presents = 0
}
