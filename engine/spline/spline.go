// Package spline provides centripetal Catmull-Rom curves over ground-plane points, the road ribbons
// built along them and a follower that walks nodes along sampled paths.
//
// Points are linalg.Vector2 values holding world x and z.
package spline

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

const (
	// DefaultAlpha selects the centripetal parameterization, which never forms cusps or self-intersections
	// inside a segment.
	DefaultAlpha float32 = 0.5

	// endTolerance is how far the last regular sample may fall short of MaxTime before SamplePoints
	// appends the exact end point.
	endTolerance float32 = 1e-4

	knotEpsilon float32 = 1e-6
)

// CatmullRom is a Catmull-Rom spline through a list of control points. Segment i runs from Points[i+1]
// to Points[i+2], so the first and last points only shape the curve.
type CatmullRom struct {
	Points []linalg.Vector2
	Alpha  float32
}

// NewCatmullRom creates a centripetal spline.
//
// Parameters:
//   - points: at least four control points
//
// Returns:
//   - *CatmullRom: the spline
func NewCatmullRom(points []linalg.Vector2) *CatmullRom {
	if len(points) < 4 {
		panic("spline: NewCatmullRom requires at least four points")
	}
	return &CatmullRom{Points: points, Alpha: DefaultAlpha}
}

// MaxTime returns the parameter at the end of the last segment, len(Points) - 3.
func (c *CatmullRom) MaxTime() float32 {
	return float32(len(c.Points) - 3)
}

// knot advances the parameter by the distance between a and b raised to alpha.
func (c *CatmullRom) knot(t float32, a, b linalg.Vector2) float32 {
	d := math32.Pow(a.DistanceSqr(b), c.Alpha*0.5)
	if d < knotEpsilon {
		d = 1
	}
	return t + d
}

// Value evaluates the curve. The integer part of t selects the segment using points floor(t) through
// floor(t)+3, the fraction the position inside it. t is clamped to [0, MaxTime].
//
// Parameters:
//   - t: the curve parameter
//
// Returns:
//   - linalg.Vector2: the point on the curve
func (c *CatmullRom) Value(t float32) linalg.Vector2 {
	t = linalg.Clamp(t, 0, c.MaxTime())
	i := min(int(math32.Floor(t)), len(c.Points)-4)
	frac := t - float32(i)
	p0, p1, p2, p3 := c.Points[i], c.Points[i+1], c.Points[i+2], c.Points[i+3]

	t0 := float32(0)
	t1 := c.knot(t0, p0, p1)
	t2 := c.knot(t1, p1, p2)
	t3 := c.knot(t2, p2, p3)
	tt := t1 + (t2-t1)*frac

	lerp := func(a, b linalg.Vector2, ta, tb float32) linalg.Vector2 {
		out := a
		out.Lerp(b, (tt-ta)/(tb-ta))
		return out
	}
	a1 := lerp(p0, p1, t0, t1)
	a2 := lerp(p1, p2, t1, t2)
	a3 := lerp(p2, p3, t2, t3)
	b1 := lerp(a1, a2, t0, t2)
	b2 := lerp(a2, a3, t1, t3)
	return lerp(b1, b2, t1, t2)
}

// SamplePoints evaluates the curve at 0, step, 2*step and so on below MaxTime. When the last of those
// falls short of MaxTime by more than a small tolerance, the exact end point is appended too.
//
// Parameters:
//   - step: the parameter distance between samples, greater than zero
//
// Returns:
//   - []linalg.Vector2: the sampled points in curve order
func (c *CatmullRom) SamplePoints(step float32) []linalg.Vector2 {
	if step <= 0 {
		panic("spline: SamplePoints requires a positive step")
	}
	end := c.MaxTime()
	var out []linalg.Vector2
	var last float32
	for k := 0; ; k++ {
		t := float32(k) * step
		if t >= end {
			break
		}
		out = append(out, c.Value(t))
		last = t
	}
	if end-last > endTolerance || len(out) == 0 {
		out = append(out, c.Value(end))
	}
	return out
}

// GetOffsetDirection returns the unit vector perpendicular to the path at cur, pointing to the left of
// the direction of travel. The path direction at cur is the bisector of the incoming and outgoing
// segments, so offsets form miter joins at corners. At the ends of a path pass cur as prev or next.
//
// Parameters:
//   - prev: the previous path point
//   - cur: the point to compute the offset direction at
//   - next: the next path point
//
// Returns:
//   - linalg.Vector2: the unit left-hand perpendicular, or zero when all three points coincide
func GetOffsetDirection(prev, cur, next linalg.Vector2) linalg.Vector2 {
	in := cur
	in.Sub(prev).SafeNormalize()
	out := next
	out.Sub(cur).SafeNormalize()

	tangent := in
	tangent.Add(out).SafeNormalize()
	if tangent.LengthSqr() == 0 {
		tangent = in
		if tangent.LengthSqr() == 0 {
			tangent = out
		}
	}
	// Left of travel as seen from above.
	return linalg.Vector2{tangent[1], -tangent[0]}
}
