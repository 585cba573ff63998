// Package curve samples weighted piecewise-linear distributions.
//
// A Curve is a relative-weight distribution over x; it does not need to be
// normalized. Percentile evaluation walks the trapezoids between control points.
package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/rosterbias/internal/domain/model"
)

const (
	minPoints = 2
	// boundaryEpsilon is the inset used by SubRange when sampling near the new edges.
	boundaryEpsilon = 1e-3
)

// Point is a control point.
type Point struct {
	X float64
	Y float64
}

// Curve is an ordered set of control points, linear between points.
type Curve struct {
	points []Point
}

// New builds a curve from at least two points with non-negative y.
// Points are sorted by x.
func New(points ...Point) (*Curve, error) {
	if len(points) < minPoints {
		return nil, fmt.Errorf("%w: need at least %d points, got %d", ErrMalformedCurve, minPoints, len(points))
	}
	ps := make([]Point, len(points))
	copy(ps, points)
	for _, p := range ps {
		if p.Y < 0 || math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return nil, fmt.Errorf("%w: invalid point (%g,%g)", ErrMalformedCurve, p.X, p.Y)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].X < ps[j].X })
	return &Curve{points: ps}, nil
}

// MustNew is New for package-level constant curves.
func MustNew(points ...Point) *Curve {
	c, err := New(points...)
	if err != nil {
		panic(err)
	}
	return c
}

// Points returns a copy of the control points.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Domain returns the x span of the curve.
func (c *Curve) Domain() model.FloatRange {
	return model.FloatRange{Min: c.points[0].X, Max: c.points[len(c.points)-1].X}
}

// Evaluate returns the interpolated y at x, clamped to the end values outside the domain.
func (c *Curve) Evaluate(x float64) float64 {
	first, last := c.points[0], c.points[len(c.points)-1]
	if x <= first.X {
		return first.Y
	}
	if x >= last.X {
		return last.Y
	}
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].X >= x })
	a, b := c.points[i-1], c.points[i]
	if b.X == a.X {
		return b.Y
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + (b.Y-a.Y)*t
}

// segmentArea is the trapezoid area between points i-1 and i.
func (c *Curve) segmentArea(i int) float64 {
	a, b := c.points[i-1], c.points[i]
	return (b.X - a.X) * (a.Y + b.Y) / 2
}

// Integrate returns the total area under the curve.
func (c *Curve) Integrate() float64 {
	var area float64
	for i := 1; i < len(c.points); i++ {
		area += c.segmentArea(i)
	}
	return area
}

// ValueAtPercentile returns the x at which the cumulative area reaches p of the total.
// Inside the segment that crosses the target, x moves proportionally to the
// share of that segment's area, not linearly along x.
func (c *Curve) ValueAtPercentile(p float64) float64 {
	domain := c.Domain()
	if p <= 0 {
		return domain.Min
	}
	if p >= 1 {
		return domain.Max
	}
	total := c.Integrate()
	if total <= 0 {
		return domain.Percentile(p)
	}
	target := p * total
	var cum float64
	for i := 1; i < len(c.points); i++ {
		area := c.segmentArea(i)
		if cum+area > target {
			a, b := c.points[i-1], c.points[i]
			return a.X + (b.X-a.X)*(target-cum)/area
		}
		cum += area
	}
	return domain.Max
}

// SubRange restricts the curve to [lo,hi]. The result is zero at both edges,
// keeps the interior control points, and samples the original just inside the
// edges so the interior shape is preserved. Bounds are clamped to the domain.
func (c *Curve) SubRange(lo, hi float64) (*Curve, error) {
	if hi < lo {
		return nil, fmt.Errorf("%w: [%g,%g]", ErrEmptyRange, lo, hi)
	}
	domain := c.Domain()
	lo = math.Max(lo, domain.Min)
	hi = math.Min(hi, domain.Max)
	if hi < lo {
		return nil, fmt.Errorf("%w: outside domain [%g,%g]", ErrEmptyRange, domain.Min, domain.Max)
	}

	var interior []Point
	for _, p := range c.points {
		if p.X > lo && p.X < hi {
			interior = append(interior, p)
		}
	}

	out := []Point{{X: lo, Y: 0}}
	if hi-lo <= 2*boundaryEpsilon {
		if len(interior) == 0 && hi > lo {
			mid := (lo + hi) / 2
			out = append(out, Point{X: mid, Y: c.Evaluate(mid)})
		}
		out = append(out, interior...)
		out = append(out, Point{X: hi, Y: 0})
		return &Curve{points: out}, nil
	}

	left, right := lo+boundaryEpsilon, hi-boundaryEpsilon
	if len(interior) == 0 || interior[0].X > left {
		out = append(out, Point{X: left, Y: c.Evaluate(left)})
	}
	out = append(out, interior...)
	if len(interior) == 0 || interior[len(interior)-1].X < right {
		out = append(out, Point{X: right, Y: c.Evaluate(right)})
	}
	out = append(out, Point{X: hi, Y: 0})
	return &Curve{points: out}, nil
}
