// Package texture generates procedural material textures on the CPU and uploads them as albedo, normal
// and roughness maps with full mip chains. Recipes are sampled per texel in parallel row bands; the
// normal map is derived from the recipe's height channel.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/transform"
)

// Collection is a set of GPU textures generated from one recipe, ready to assign to mesh texture slots.
type Collection struct {
	Albedo    renderer.TextureHandle
	Normal    renderer.TextureHandle
	Roughness renderer.TextureHandle
}

// Slots returns the handles in mesh slot order: albedo, normal, roughness.
func (c Collection) Slots() [renderer.TextureSlotCount]renderer.TextureHandle {
	return [renderer.TextureSlotCount]renderer.TextureHandle{c.Albedo, c.Normal, c.Roughness}
}

// Release frees every texture of the collection.
func (c Collection) Release(dev renderer.Device) {
	for _, h := range c.Slots() {
		if h != 0 {
			dev.ReleaseTexture(h)
		}
	}
}

// Maps holds the CPU side of a generated texture set.
type Maps struct {
	Width, Height int

	// Albedo is sRGB color with opaque alpha.
	Albedo *image.RGBA

	// Normal is a tangent-space normal map encoded as 0.5 + 0.5 * n.
	Normal *image.RGBA

	// Roughness stores roughness in every color channel.
	Roughness *image.RGBA

	// HeightField is the raw height channel the normal map was derived from.
	HeightField *image.Gray
}

// Generator evaluates recipes into texture maps.
type Generator interface {
	// Generate samples recipe over a w×h grid and derives the normal map.
	//
	// Parameters:
	//   - recipe: the material to evaluate
	//   - w, h: output size in pixels
	//
	// Returns:
	//   - Maps: the generated images
	//   - error: an error if the size is invalid
	Generate(recipe Recipe, w, h int) (Maps, error)

	// Upload creates the three GPU textures of maps, each with a full mip chain.
	//
	// Parameters:
	//   - dev: the device to upload to
	//   - label: prefix for the texture labels
	//   - maps: the images to upload
	//
	// Returns:
	//   - Collection: the uploaded textures
	//   - error: an error if any texture could not be created
	Upload(dev renderer.Device, label string, maps Maps) (Collection, error)

	// Collection generates and uploads in one step.
	//
	// Parameters:
	//   - dev: the device to upload to
	//   - recipe: the material to evaluate
	//   - w, h: output size in pixels
	//
	// Returns:
	//   - Collection: the uploaded textures
	//   - error: an error if generation or upload failed
	Collection(dev renderer.Device, recipe Recipe, w, h int) (Collection, error)
}

type generatorImpl struct {
	pool           worker.DynamicWorkerPool
	workers        int
	bandRows       int
	normalStrength float32
	nextTask       int
	mu             *sync.Mutex
}

var _ Generator = &generatorImpl{}

// NewGenerator creates a generator backed by a worker pool.
//
// Parameters:
//   - options: functional options to configure the generator
//
// Returns:
//   - Generator: the new generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generatorImpl{
		workers:        max(runtime.NumCPU()-1, 1),
		bandRows:       16,
		normalStrength: 2,
		mu:             &sync.Mutex{},
	}
	for _, option := range options {
		option(g)
	}
	g.bandRows = max(g.bandRows, 1)
	g.pool = worker.NewDynamicWorkerPool(g.workers, 256, 1*time.Second)
	return g
}

func (g *generatorImpl) taskID() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextTask++
	return g.nextTask
}

func (g *generatorImpl) Generate(recipe Recipe, w, h int) (Maps, error) {
	if w <= 0 || h <= 0 {
		return Maps{}, fmt.Errorf("invalid texture size %dx%d for %s", w, h, recipe.Name())
	}
	start := time.Now()

	maps := Maps{
		Width:       w,
		Height:      h,
		Albedo:      image.NewRGBA(image.Rect(0, 0, w, h)),
		Roughness:   image.NewRGBA(image.Rect(0, 0, w, h)),
		HeightField: image.NewGray(image.Rect(0, 0, w, h)),
	}

	// Each band writes a disjoint set of rows, so the images need no locking.
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += g.bandRows {
		y1 := min(y0+g.bandRows, h)
		wg.Add(1)
		g.pool.SubmitTask(worker.Task{
			ID: g.taskID(),
			Do: func() (any, error) {
				defer wg.Done()
				sampleRows(recipe, &maps, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()

	maps.Normal = normalMap(maps.HeightField, g.normalStrength)
	log.Printf("[Texture] generated %s %dx%d in %s", recipe.Name(), w, h, time.Since(start).Round(time.Microsecond))
	return maps, nil
}

func sampleRows(recipe Recipe, maps *Maps, y0, y1 int) {
	w, h := float32(maps.Width), float32(maps.Height)
	for y := y0; y < y1; y++ {
		v := (float32(y) + 0.5) / h
		for x := 0; x < maps.Width; x++ {
			s := recipe.Sample((float32(x)+0.5)/w, v)
			maps.Albedo.SetRGBA(x, y, color.RGBA{
				R: toByte(s.Albedo[0]),
				G: toByte(s.Albedo[1]),
				B: toByte(s.Albedo[2]),
				A: 255,
			})
			r := toByte(s.Roughness)
			maps.Roughness.SetRGBA(x, y, color.RGBA{R: r, G: r, B: r, A: 255})
			maps.HeightField.SetGray(x, y, color.Gray{Y: toByte(s.Height)})
		}
	}
}

func toByte(f float32) uint8 {
	return uint8(linalg.Clamp(f, 0, 1)*255 + 0.5)
}

var (
	sobelX = &convolution.Kernel{Matrix: []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}, Width: 3, Height: 3}
	sobelY = &convolution.Kernel{Matrix: []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}, Width: 3, Height: 3}
)

// normalMap derives a tangent-space normal map from a height field with Sobel gradients. Edges wrap so the
// result tiles whenever the height field does.
func normalMap(height *image.Gray, strength float32) *image.RGBA {
	// Gradients are scaled by 1/8 and biased to mid-grey so negative slopes survive the 8-bit output.
	opts := &convolution.Options{Bias: 128, Wrap: true}
	gx := convolution.Convolve(height, scaled(sobelX, 1.0/8), opts)
	gy := convolution.Convolve(height, scaled(sobelY, 1.0/8), opts)

	b := height.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float32(gx.RGBAAt(x, y).R) - 128) / 127.5
			dy := (float32(gy.RGBAAt(x, y).R) - 128) / 127.5
			n := linalg.Vector3{-dx * strength, -dy * strength, 1}
			n.Normalize()
			out.SetRGBA(x, y, color.RGBA{
				R: toByte(0.5 + 0.5*n[0]),
				G: toByte(0.5 + 0.5*n[1]),
				B: toByte(0.5 + 0.5*n[2]),
				A: 255,
			})
		}
	}
	return out
}

func scaled(k *convolution.Kernel, s float64) *convolution.Kernel {
	out := &convolution.Kernel{Matrix: make([]float64, len(k.Matrix)), Width: k.Width, Height: k.Height}
	for i, v := range k.Matrix {
		out.Matrix[i] = v * s
	}
	return out
}

// MipChain returns img followed by successively halved copies down to 1×1.
//
// Parameters:
//   - img: level 0
//
// Returns:
//   - []*image.RGBA: every level, largest first
func MipChain(img *image.RGBA) []*image.RGBA {
	levels := []*image.RGBA{img}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		levels = append(levels, transform.Resize(levels[len(levels)-1], w, h, transform.Linear))
	}
	return levels
}

func (g *generatorImpl) upload(dev renderer.Device, label string, format renderer.TextureFormat, img *image.RGBA) (renderer.TextureHandle, error) {
	chain := MipChain(img)
	desc := renderer.TextureDesc{
		Label:  label,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: format,
		Levels: make([][]byte, len(chain)),
	}
	for i, level := range chain {
		desc.Levels[i] = level.Pix
	}
	h, err := dev.CreateTexture(desc)
	if err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	return h, nil
}

func (g *generatorImpl) Upload(dev renderer.Device, label string, maps Maps) (Collection, error) {
	var c Collection
	var err error
	if c.Albedo, err = g.upload(dev, label+" albedo", renderer.TextureFormatRGBA8Srgb, maps.Albedo); err != nil {
		return Collection{}, err
	}
	if c.Normal, err = g.upload(dev, label+" normal", renderer.TextureFormatRGBA8, maps.Normal); err != nil {
		c.Release(dev)
		return Collection{}, err
	}
	if c.Roughness, err = g.upload(dev, label+" roughness", renderer.TextureFormatRGBA8, maps.Roughness); err != nil {
		c.Release(dev)
		return Collection{}, err
	}
	return c, nil
}

func (g *generatorImpl) Collection(dev renderer.Device, recipe Recipe, w, h int) (Collection, error) {
	if max(w, h) > dev.MaxTextureSize() {
		return Collection{}, fmt.Errorf("texture %s %dx%d exceeds device limit %d", recipe.Name(), w, h, dev.MaxTextureSize())
	}
	maps, err := g.Generate(recipe, w, h)
	if err != nil {
		return Collection{}, err
	}
	return g.Upload(dev, recipe.Name(), maps)
}

// Decode returns the normal stored at x, y of a normal map. Quantization leaves its length within about
// 1% of one.
func Decode(normal *image.RGBA, x, y int) linalg.Vector3 {
	c := normal.RGBAAt(x, y)
	return linalg.Vector3{
		float32(c.R)/127.5 - 1,
		float32(c.G)/127.5 - 1,
		float32(c.B)/127.5 - 1,
	}
}
