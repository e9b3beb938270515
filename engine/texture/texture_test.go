package texture

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatRecipe struct{}

func (flatRecipe) Name() string { return "flat" }

func (flatRecipe) Sample(u, v float32) Sample {
	return Sample{Albedo: Color{1, 0, 0}, Height: 0.5, Roughness: 0.25}
}

func allRecipes() []Recipe {
	return []Recipe{
		Brick(DefaultBrickParams()),
		Dirt(DirtParams{Seed: 9}),
		Metal(MetalParams{}),
		Plastic(PlasticParams{Color: Color{0.1, 0.3, 0.8}}),
		Wood(WoodParams{Planks: 3}),
	}
}

func TestGenerateSizes(t *testing.T) {
	g := NewGenerator(WithWorkers(2), WithBandRows(5))
	for _, r := range allRecipes() {
		maps, err := g.Generate(r, 32, 24)
		require.NoError(t, err, r.Name())
		for _, img := range []image.Image{maps.Albedo, maps.Normal, maps.Roughness, maps.HeightField} {
			assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds(), r.Name())
		}
		assert.Equal(t, uint8(255), maps.Albedo.RGBAAt(31, 23).A)
	}
}

func TestGenerateRejectsEmptySize(t *testing.T) {
	_, err := NewGenerator().Generate(flatRecipe{}, 0, 8)
	assert.Error(t, err)
}

func TestNormalMapsAreUnitLength(t *testing.T) {
	g := NewGenerator()
	for _, r := range allRecipes() {
		maps, err := g.Generate(r, 16, 16)
		require.NoError(t, err)
		for y := range 16 {
			for x := range 16 {
				n := Decode(maps.Normal, x, y)
				assert.InDelta(t, 1, n.Length(), 0.02, "%s at %d,%d", r.Name(), x, y)
				assert.Positive(t, n[2])
			}
		}
	}
}

func TestFlatHeightPointsStraightUp(t *testing.T) {
	maps, err := NewGenerator().Generate(flatRecipe{}, 8, 8)
	require.NoError(t, err)
	c := maps.Normal.RGBAAt(3, 4)
	assert.Equal(t, [3]uint8{128, 128, 255}, [3]uint8{c.R, c.G, c.B})
	r := maps.Roughness.RGBAAt(0, 0)
	assert.Equal(t, uint8(64), r.R)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := NewGenerator(WithWorkers(1)).Generate(Wood(DefaultWoodParams()), 20, 20)
	require.NoError(t, err)
	b, err := NewGenerator(WithWorkers(4), WithBandRows(3)).Generate(Wood(DefaultWoodParams()), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, a.Albedo.Pix, b.Albedo.Pix)
	assert.Equal(t, a.Normal.Pix, b.Normal.Pix)
}

func TestSeamlessMatchesAcrossEdges(t *testing.T) {
	f := FBMField(7, 42, 4)
	for _, v := range []float32{0, 0.3, 0.77} {
		assert.InDelta(t, f(0, v), f(1, v), 1e-4, "v=%v", v)
		assert.InDelta(t, f(v, 0), f(v, 1), 1e-4, "u=%v", v)
	}
}

func TestNoiseRanges(t *testing.T) {
	for i := range 200 {
		x, y := float32(i)*0.37, float32(i)*1.91
		n := ValueNoise(x, y, 3)
		assert.GreaterOrEqual(t, n, float32(0))
		assert.Less(t, n, float32(1))
		f := FBM(x, y, 3, 5, 2, 0.5)
		assert.GreaterOrEqual(t, f, float32(0))
		assert.Less(t, f, float32(1))
	}
}

func TestVoronoiTiles(t *testing.T) {
	for _, p := range [][2]float32{{0.2, 0.4}, {3.7, 1.1}, {5.9, 5.9}} {
		a := Voronoi(p[0], p[1], 8, 6)
		b := Voronoi(p[0]+6, p[1]-6, 8, 6)
		assert.InDelta(t, a.F1, b.F1, 1e-4)
		assert.Equal(t, a.ID(1), b.ID(1))
		assert.LessOrEqual(t, a.F1, a.F2)
		assert.GreaterOrEqual(t, a.Edge(), float32(0))
	}
}

func TestMipChain(t *testing.T) {
	levels := MipChain(image.NewRGBA(image.Rect(0, 0, 8, 2)))
	require.Len(t, levels, 4)
	sizes := make([]image.Point, len(levels))
	for i, l := range levels {
		sizes[i] = l.Bounds().Size()
		assert.Len(t, l.Pix, sizes[i].X*sizes[i].Y*4)
	}
	assert.Equal(t, []image.Point{{8, 2}, {4, 1}, {2, 1}, {1, 1}}, sizes)
}

func TestCollectionUpload(t *testing.T) {
	dev := gputest.NewDevice()
	c, err := NewGenerator().Collection(dev, Brick(BrickParams{}), 16, 16)
	require.NoError(t, err)
	require.Len(t, dev.Textures, 3)

	albedo := dev.Textures[c.Albedo]
	assert.Equal(t, renderer.TextureFormatRGBA8Srgb, albedo.Desc.Format)
	assert.Len(t, albedo.Desc.Levels, int(math32.Log2(16))+1)
	assert.Equal(t, "brick albedo", albedo.Desc.Label)
	assert.Equal(t, renderer.TextureFormatRGBA8, dev.Textures[c.Normal].Desc.Format)
	assert.Equal(t, [renderer.TextureSlotCount]renderer.TextureHandle{c.Albedo, c.Normal, c.Roughness}, c.Slots())

	c.Release(dev)
	assert.Empty(t, dev.Textures)
}

func TestCollectionTooLarge(t *testing.T) {
	dev := gputest.NewDevice()
	dev.MaxTexture = 8
	_, err := NewGenerator().Collection(dev, Plastic(PlasticParams{}), 16, 16)
	assert.Error(t, err)
	assert.Empty(t, dev.Textures)
}
