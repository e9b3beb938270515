package texture

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// Field is a scalar function over texture coordinates. Recipes evaluate fields on u, v in [0, 1).
type Field func(u, v float32) float32

// hash2 maps an integer lattice point to a pseudo-random value in [0, 1).
func hash2(x, y int32, seed uint32) float32 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841 ^ seed*0xcb1ab31f
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float32(h&0xffffff) / float32(0x1000000)
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := linalg.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func mixColor(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{mix(a[0], b[0], t), mix(a[1], b[1], t), mix(a[2], b[2], t)}
}

// ValueNoise returns smoothly interpolated lattice noise in [0, 1).
//
// Parameters:
//   - x, y: the sample position in lattice units
//   - seed: selects an independent noise pattern
//
// Returns:
//   - float32: the noise value
func ValueNoise(x, y float32, seed uint32) float32 {
	x0, y0 := math32.Floor(x), math32.Floor(y)
	ix, iy := int32(x0), int32(y0)
	tx, ty := smoothstep(0, 1, x-x0), smoothstep(0, 1, y-y0)

	a := hash2(ix, iy, seed)
	b := hash2(ix+1, iy, seed)
	c := hash2(ix, iy+1, seed)
	d := hash2(ix+1, iy+1, seed)
	return mix(mix(a, b, tx), mix(c, d, tx), ty)
}

// FBM sums octaves of value noise, each at lacunarity times the frequency and gain times the amplitude of
// the previous one. The result is normalized back into [0, 1).
//
// Parameters:
//   - x, y: the sample position in lattice units of the first octave
//   - seed: selects an independent noise pattern
//   - octaves: the number of layers, at least 1
//   - lacunarity: frequency multiplier per octave
//   - gain: amplitude multiplier per octave
//
// Returns:
//   - float32: the noise value
func FBM(x, y float32, seed uint32, octaves int, lacunarity, gain float32) float32 {
	var sum, norm float32
	amplitude := float32(1)
	for i := range max(octaves, 1) {
		sum += amplitude * ValueNoise(x, y, seed+uint32(i)*101)
		norm += amplitude
		amplitude *= gain
		x *= lacunarity
		y *= lacunarity
	}
	return sum / norm
}

// VoronoiCell is the result of a cellular noise lookup.
type VoronoiCell struct {
	// F1 and F2 are the distances to the nearest and second nearest feature points.
	F1, F2 float32

	// X and Y identify the lattice cell owning the nearest feature point.
	X, Y int32
}

// Edge returns F2 - F1, which is zero on the border between two cells.
func (c VoronoiCell) Edge() float32 {
	return c.F2 - c.F1
}

// ID returns a pseudo-random value in [0, 1) that is constant over the cell.
func (c VoronoiCell) ID(seed uint32) float32 {
	return hash2(c.X, c.Y, seed^0x9e3779b9)
}

// Voronoi returns cellular noise with one jittered feature point per lattice cell. When period is positive
// the cell pattern repeats every period units on both axes.
//
// Parameters:
//   - x, y: the sample position in lattice units
//   - seed: selects an independent pattern
//   - period: the tiling period in cells, or 0 for no tiling
//
// Returns:
//   - VoronoiCell: the nearest distances and owning cell
func Voronoi(x, y float32, seed uint32, period int32) VoronoiCell {
	x0, y0 := math32.Floor(x), math32.Floor(y)
	ix, iy := int32(x0), int32(y0)
	best := VoronoiCell{F1: math32.MaxFloat32, F2: math32.MaxFloat32}

	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			cx, cy := ix+dx, iy+dy
			hx, hy := cx, cy
			if period > 0 {
				hx, hy = wrap(cx, period), wrap(cy, period)
			}
			px := float32(cx) + hash2(hx, hy, seed)
			py := float32(cy) + hash2(hx, hy, seed+1)
			d := math32.Hypot(px-x, py-y)
			switch {
			case d < best.F1:
				best.F2 = best.F1
				best.F1, best.X, best.Y = d, hx, hy
			case d < best.F2:
				best.F2 = d
			}
		}
	}
	return best
}

func wrap(i, n int32) int32 {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Seamless makes any field tile on the unit square by cross-fading it with its copies shifted one unit left
// and down inside a band of width blend along the right and top edges.
//
// Parameters:
//   - f: the field to wrap
//   - blend: the width of the cross-fade band in texture units, in (0, 1]
//
// Returns:
//   - Field: a field whose value at u = 1 matches u = 0 and at v = 1 matches v = 0
func Seamless(f Field, blend float32) Field {
	blend = linalg.Clamp(blend, 1e-3, 1)
	return func(u, v float32) float32 {
		wx := smoothstep(1-blend, 1, u)
		wy := smoothstep(1-blend, 1, v)
		bottom := mix(f(u, v), f(u-1, v), wx)
		top := mix(f(u, v-1), f(u-1, v-1), wx)
		return mix(bottom, top, wy)
	}
}

// FBMField returns a seamless FBM field with the given number of noise cells across the texture.
func FBMField(scale float32, seed uint32, octaves int) Field {
	return Seamless(func(u, v float32) float32 {
		return FBM(u*scale, v*scale, seed, octaves, 2, 0.5)
	}, 0.25)
}
