package texture

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// Color is an sRGB color with channels in [0, 1].
type Color [3]float32

// Sample is the value of every channel of a recipe at one texel.
type Sample struct {
	// Albedo is the sRGB surface color.
	Albedo Color

	// Height drives the normal map. Only differences between neighbouring texels matter.
	Height float32

	// Roughness is the perceptual roughness in [0, 1].
	Roughness float32
}

// Recipe describes a procedural material. Sample must be safe to call from several goroutines at once and
// should tile on the unit square.
type Recipe interface {
	// Name labels the generated textures.
	//
	// Returns:
	//   - string: the recipe name
	Name() string

	// Sample evaluates every channel at one point.
	//
	// Parameters:
	//   - u, v: texture coordinates in [0, 1)
	//
	// Returns:
	//   - Sample: the channel values
	Sample(u, v float32) Sample
}

// BrickParams configures the brick recipe. Zero fields take the defaults of DefaultBrickParams.
type BrickParams struct {
	Seed        uint32
	Rows        int
	Columns     int
	Mortar      float32
	Color       Color
	ColorAlt    Color
	MortarColor Color
	Roughness   float32
}

// DefaultBrickParams returns weathered red brick in eight courses of four.
func DefaultBrickParams() BrickParams {
	return BrickParams{
		Seed:        1,
		Rows:        8,
		Columns:     4,
		Mortar:      0.06,
		Color:       Color{0.55, 0.22, 0.16},
		ColorAlt:    Color{0.68, 0.36, 0.25},
		MortarColor: Color{0.62, 0.6, 0.55},
		Roughness:   0.85,
	}
}

type brick struct {
	p     BrickParams
	grime Field
}

// Brick returns a running-bond brick recipe. Odd courses are offset by half a brick.
func Brick(p BrickParams) Recipe {
	d := DefaultBrickParams()
	if p.Rows <= 0 {
		p.Rows = d.Rows
	}
	if p.Columns <= 0 {
		p.Columns = d.Columns
	}
	if p.Mortar <= 0 {
		p.Mortar = d.Mortar
	}
	if p.Color == (Color{}) {
		p.Color, p.ColorAlt = d.Color, d.ColorAlt
	}
	if p.ColorAlt == (Color{}) {
		p.ColorAlt = p.Color
	}
	if p.MortarColor == (Color{}) {
		p.MortarColor = d.MortarColor
	}
	if p.Roughness <= 0 {
		p.Roughness = d.Roughness
	}
	return &brick{p: p, grime: FBMField(16, p.Seed, 4)}
}

func (b *brick) Name() string { return "brick" }

func (b *brick) Sample(u, v float32) Sample {
	rows, cols := float32(b.p.Rows), float32(b.p.Columns)
	row := math32.Floor(v * rows)
	x := u * cols
	if int(row)%2 == 1 {
		x += 0.5
	}
	col := wrap(int32(math32.Floor(x)), int32(b.p.Columns))
	lx, ly := fract(x), fract(v*rows)

	// Distance to the nearest brick edge in course heights, so mortar joints are equally thick both ways.
	edge := math32.Min(math32.Min(lx, 1-lx)*rows/cols, math32.Min(ly, 1-ly))
	inBrick := smoothstep(b.p.Mortar*0.5, b.p.Mortar, edge)

	grime := b.grime(u, v)
	shade := hash2(col, int32(row), b.p.Seed)
	albedo := mixColor(b.p.Color, b.p.ColorAlt, shade)
	albedo = mixColor(albedo, Color{albedo[0] * 0.6, albedo[1] * 0.6, albedo[2] * 0.6}, grime*0.5)
	albedo = mixColor(b.p.MortarColor, albedo, inBrick)

	return Sample{
		Albedo:    albedo,
		Height:    inBrick*0.8 + grime*0.2,
		Roughness: linalg.Clamp(mix(0.95, b.p.Roughness, inBrick)+(grime-0.5)*0.1, 0, 1),
	}
}

// DirtParams configures the dirt recipe. Zero fields take the defaults of DefaultDirtParams.
type DirtParams struct {
	Seed        uint32
	Scale       float32
	Color       Color
	ColorDark   Color
	PebbleColor Color
	Pebbles     int
	PebbleSize  float32
}

// DefaultDirtParams returns brown soil scattered with small stones.
func DefaultDirtParams() DirtParams {
	return DirtParams{
		Seed:        2,
		Scale:       6,
		Color:       Color{0.42, 0.31, 0.2},
		ColorDark:   Color{0.25, 0.18, 0.11},
		PebbleColor: Color{0.5, 0.47, 0.43},
		Pebbles:     12,
		PebbleSize:  0.3,
	}
}

type dirt struct {
	p      DirtParams
	ground Field
	detail Field
}

// Dirt returns a soil recipe of layered noise with Voronoi pebbles.
func Dirt(p DirtParams) Recipe {
	d := DefaultDirtParams()
	if p.Scale <= 0 {
		p.Scale = d.Scale
	}
	if p.Color == (Color{}) {
		p.Color, p.ColorDark = d.Color, d.ColorDark
	}
	if p.PebbleColor == (Color{}) {
		p.PebbleColor = d.PebbleColor
	}
	if p.Pebbles <= 0 {
		p.Pebbles = d.Pebbles
	}
	if p.PebbleSize <= 0 {
		p.PebbleSize = d.PebbleSize
	}
	return &dirt{
		p:      p,
		ground: FBMField(p.Scale, p.Seed, 5),
		detail: FBMField(p.Scale*6, p.Seed+7, 3),
	}
}

func (d *dirt) Name() string { return "dirt" }

func (d *dirt) Sample(u, v float32) Sample {
	ground := d.ground(u, v)
	detail := d.detail(u, v)
	albedo := mixColor(d.p.ColorDark, d.p.Color, smoothstep(0.3, 0.7, ground))

	n := float32(d.p.Pebbles)
	cell := Voronoi(u*n, v*n, d.p.Seed+13, int32(d.p.Pebbles))
	pebble := 1 - smoothstep(d.p.PebbleSize*0.7, d.p.PebbleSize, cell.F1)
	if cell.ID(d.p.Seed) > 0.5 {
		pebble = 0
	}
	shade := 0.8 + 0.4*cell.ID(d.p.Seed+1)
	pebbleColor := Color{d.p.PebbleColor[0] * shade, d.p.PebbleColor[1] * shade, d.p.PebbleColor[2] * shade}
	albedo = mixColor(albedo, pebbleColor, pebble)

	return Sample{
		Albedo:    albedo,
		Height:    ground*0.5 + detail*0.2 + pebble*0.6,
		Roughness: linalg.Clamp(mix(0.95, 0.7, pebble)-detail*0.05, 0, 1),
	}
}

// MetalParams configures the brushed metal recipe. Zero fields take the defaults of DefaultMetalParams.
type MetalParams struct {
	Seed      uint32
	Color     Color
	Roughness float32
	Streaks   float32
	Rust      float32
	RustColor Color
}

// DefaultMetalParams returns lightly worn brushed steel.
func DefaultMetalParams() MetalParams {
	return MetalParams{
		Seed:      3,
		Color:     Color{0.62, 0.63, 0.65},
		Roughness: 0.35,
		Streaks:   64,
		Rust:      0.15,
		RustColor: Color{0.45, 0.22, 0.1},
	}
}

type metal struct {
	p    MetalParams
	wear Field
}

// Metal returns a brushed metal recipe with streaks along u and patchy rust.
func Metal(p MetalParams) Recipe {
	d := DefaultMetalParams()
	if p.Color == (Color{}) {
		p.Color = d.Color
	}
	if p.Roughness <= 0 {
		p.Roughness = d.Roughness
	}
	if p.Streaks <= 0 {
		p.Streaks = d.Streaks
	}
	if p.RustColor == (Color{}) {
		p.RustColor = d.RustColor
	}
	return &metal{p: p, wear: FBMField(5, p.Seed, 5)}
}

func (m *metal) Name() string { return "metal" }

func (m *metal) Sample(u, v float32) Sample {
	// One noise cell across u and many down v stretches the noise into horizontal streaks.
	streak := ValueNoise(fract(u)*4, v*m.p.Streaks, m.p.Seed+5)
	streak = mix(streak, ValueNoise(fract(u)*4-4, v*m.p.Streaks, m.p.Seed+5), smoothstep(0.75, 1, u))
	wear := m.wear(u, v)
	rust := smoothstep(1-m.p.Rust, 1-m.p.Rust+0.1, wear) * float32(boolToInt(m.p.Rust > 0))

	tint := 0.9 + 0.2*streak
	albedo := Color{m.p.Color[0] * tint, m.p.Color[1] * tint, m.p.Color[2] * tint}
	albedo = mixColor(albedo, m.p.RustColor, rust)

	return Sample{
		Albedo:    albedo,
		Height:    streak*0.1 + rust*0.3,
		Roughness: linalg.Clamp(m.p.Roughness+(streak-0.5)*0.1+rust*0.5, 0, 1),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// PlasticParams configures the plastic recipe. Zero fields take the defaults of DefaultPlasticParams.
type PlasticParams struct {
	Seed      uint32
	Color     Color
	Roughness float32
	Bumps     float32
}

// DefaultPlasticParams returns a slightly dimpled white plastic.
func DefaultPlasticParams() PlasticParams {
	return PlasticParams{
		Seed:      4,
		Color:     Color{0.8, 0.8, 0.78},
		Roughness: 0.45,
		Bumps:     24,
	}
}

type plastic struct {
	p     PlasticParams
	bumps Field
}

// Plastic returns an almost uniform plastic recipe with fine surface dimples.
func Plastic(p PlasticParams) Recipe {
	d := DefaultPlasticParams()
	if p.Color == (Color{}) {
		p.Color = d.Color
	}
	if p.Roughness <= 0 {
		p.Roughness = d.Roughness
	}
	if p.Bumps <= 0 {
		p.Bumps = d.Bumps
	}
	return &plastic{p: p, bumps: FBMField(p.Bumps, p.Seed, 2)}
}

func (p *plastic) Name() string { return "plastic" }

func (p *plastic) Sample(u, v float32) Sample {
	bump := p.bumps(u, v)
	shade := 0.97 + 0.06*bump
	return Sample{
		Albedo:    Color{p.p.Color[0] * shade, p.p.Color[1] * shade, p.p.Color[2] * shade},
		Height:    bump * 0.15,
		Roughness: linalg.Clamp(p.p.Roughness+(bump-0.5)*0.1, 0, 1),
	}
}

// WoodParams configures the wood recipe. Zero fields take the defaults of DefaultWoodParams.
type WoodParams struct {
	Seed      uint32
	Rings     int
	Planks    int
	Warp      float32
	Color     Color
	ColorDark Color
}

// DefaultWoodParams returns four planks of warm pine.
func DefaultWoodParams() WoodParams {
	return WoodParams{
		Seed:      5,
		Rings:     12,
		Planks:    4,
		Warp:      0.6,
		Color:     Color{0.66, 0.47, 0.28},
		ColorDark: Color{0.43, 0.28, 0.15},
	}
}

type wood struct {
	p     WoodParams
	warp  Field
	grain Field
}

// Wood returns a planked wood recipe with growth rings running along u.
func Wood(p WoodParams) Recipe {
	d := DefaultWoodParams()
	if p.Rings <= 0 {
		p.Rings = d.Rings
	}
	if p.Planks <= 0 {
		p.Planks = d.Planks
	}
	if p.Warp <= 0 {
		p.Warp = d.Warp
	}
	if p.Color == (Color{}) {
		p.Color, p.ColorDark = d.Color, d.ColorDark
	}
	return &wood{
		p:     p,
		warp:  FBMField(3, p.Seed, 4),
		grain: FBMField(48, p.Seed+3, 2),
	}
}

func (w *wood) Name() string { return "wood" }

func (w *wood) Sample(u, v float32) Sample {
	planks := float32(w.p.Planks)
	plank := math32.Floor(v * planks)
	py := fract(v * planks)
	seam := smoothstep(0, 0.04, py) * smoothstep(0, 0.04, 1-py)

	offset := hash2(int32(plank), 0, w.p.Seed)
	ring := fract((py+offset)*float32(w.p.Rings)/planks + w.warp(u, v)*w.p.Warp)
	ring = smoothstep(0.2, 0.5, ring) * (1 - smoothstep(0.6, 0.95, ring))
	grain := w.grain(u, v)

	albedo := mixColor(w.p.ColorDark, w.p.Color, ring*0.8+grain*0.2)
	albedo = mixColor(Color{albedo[0] * 0.5, albedo[1] * 0.5, albedo[2] * 0.5}, albedo, seam)
	return Sample{
		Albedo:    albedo,
		Height:    seam*0.7 + ring*0.1 + grain*0.1,
		Roughness: linalg.Clamp(0.75-ring*0.15+(1-seam)*0.2, 0, 1),
	}
}
