// Package geo implements the 2D geometry kernel used by the nesting engine:
// points, rectangles, polygons, and the predicates the placement search and
// the genetic algorithm build on.
package geo

import "math"

// Eps is the default absolute tolerance for point/value equality.
const Eps = 1e-6

// GeoEps is the tighter tolerance used by rectangle and segment predicates.
const GeoEps = 1e-9

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// NearlyEqual reports whether p and q are within tol of each other.
func (p Point) NearlyEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Cross returns the 2D cross product p x q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Dot returns the dot product p . q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

func (p Point) LengthSq() float64 { return p.X*p.X + p.Y*p.Y }
func (p Point) Length() float64   { return math.Sqrt(p.LengthSq()) }

func (p Point) DistanceTo(q Point) float64 { return p.Sub(q).Length() }

// Rect is an axis-aligned rectangle with w,h >= 0.
type Rect struct {
	X, Y, W, H float64
}

// IsValid reports whether the rectangle has non-negative extent.
func (r Rect) IsValid() bool { return r.W >= 0 && r.H >= 0 }

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Expanded returns r grown by d on every side.
func (r Rect) Expanded(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Contains reports whether p lies within r (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X-GeoEps && p.X <= r.Right()+GeoEps &&
		p.Y >= r.Y-GeoEps && p.Y <= r.Bottom()+GeoEps
}

// Intersects reports whether r and o overlap (touching counts as overlap).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right()+GeoEps && r.Right() >= o.X-GeoEps &&
		r.Y <= o.Bottom()+GeoEps && r.Bottom() >= o.Y-GeoEps
}

// Polygon is an ordered, implicitly-closed sequence of vertices.
type Polygon struct {
	Verts []Point
}

// NewPolygon builds a Polygon from a vertex slice (no copy).
func NewPolygon(verts []Point) Polygon { return Polygon{Verts: verts} }

func (p Polygon) Empty() bool { return len(p.Verts) < 3 }

func (p Polygon) N() int { return len(p.Verts) }

// SignedArea returns the shoelace signed area; positive means CCW.
func (p Polygon) SignedArea() float64 {
	n := len(p.Verts)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += p.Verts[i].Cross(p.Verts[j])
	}
	return a * 0.5
}

// Area returns the unsigned area.
func (p Polygon) Area() float64 { return math.Abs(p.SignedArea()) }

// Centroid returns the polygon's area centroid, falling back to the vertex
// mean for degenerate (near-zero area) polygons.
func (p Polygon) Centroid() Point {
	if len(p.Verts) == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if math.Abs(a) < GeoEps {
		var c Point
		for _, v := range p.Verts {
			c.X += v.X
			c.Y += v.Y
		}
		n := float64(len(p.Verts))
		return Point{c.X / n, c.Y / n}
	}
	var cx, cy float64
	n := len(p.Verts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		f := p.Verts[i].Cross(p.Verts[j])
		cx += (p.Verts[i].X + p.Verts[j].X) * f
		cy += (p.Verts[i].Y + p.Verts[j].Y) * f
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// RefVertex returns the lex-min vertex under (y, x): lowest, then leftmost.
// It is the canonical NFP start point.
func (p Polygon) RefVertex() Point {
	if len(p.Verts) == 0 {
		return Point{}
	}
	idx := 0
	for i := 1; i < len(p.Verts); i++ {
		if p.Verts[i].Y < p.Verts[idx].Y ||
			(p.Verts[i].Y == p.Verts[idx].Y && p.Verts[i].X < p.Verts[idx].X) {
			idx = i
		}
	}
	return p.Verts[idx]
}

func (p Polygon) refVertexIndex() int {
	idx := 0
	for i := 1; i < len(p.Verts); i++ {
		if p.Verts[i].Y < p.Verts[idx].Y ||
			(p.Verts[i].Y == p.Verts[idx].Y && p.Verts[i].X < p.Verts[idx].X) {
			idx = i
		}
	}
	return idx
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
func (p Polygon) BoundingBox() Rect {
	if len(p.Verts) == 0 {
		return Rect{}
	}
	minX, minY := p.Verts[0].X, p.Verts[0].Y
	maxX, maxY := p.Verts[0].X, p.Verts[0].Y
	for _, v := range p.Verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translated returns a copy of p translated by (dx, dy).
func (p Polygon) Translated(dx, dy float64) Polygon {
	r := make([]Point, len(p.Verts))
	for i, v := range p.Verts {
		r[i] = Point{v.X + dx, v.Y + dy}
	}
	return Polygon{Verts: r}
}

// RotatedAround returns a copy of p rotated by angleDeg around pivot.
func (p Polygon) RotatedAround(angleDeg float64, pivot Point) Polygon {
	rad := angleDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	r := make([]Point, len(p.Verts))
	for i, v := range p.Verts {
		x, y := v.X-pivot.X, v.Y-pivot.Y
		r[i] = Point{x*c - y*s + pivot.X, x*s + y*c + pivot.Y}
	}
	return Polygon{Verts: r}
}

// MakeCCW reverses the vertex order in place if the polygon is CW.
func (p *Polygon) MakeCCW() {
	if p.SignedArea() < 0 {
		for i, j := 0, len(p.Verts)-1; i < j; i, j = i+1, j-1 {
			p.Verts[i], p.Verts[j] = p.Verts[j], p.Verts[i]
		}
	}
}

// RemoveDuplicates drops adjacent (and wrap-around) duplicate vertices within
// tol, matching the polygon normalization invariant.
func (p *Polygon) RemoveDuplicates(tol float64) {
	if len(p.Verts) < 2 {
		return
	}
	res := make([]Point, 0, len(p.Verts))
	res = append(res, p.Verts[0])
	for _, v := range p.Verts[1:] {
		if !v.NearlyEqual(res[len(res)-1], tol) {
			res = append(res, v)
		}
	}
	if len(res) > 1 && res[len(res)-1].NearlyEqual(res[0], tol) {
		res = res[:len(res)-1]
	}
	p.Verts = res
}

// Normalize enforces the Polygon invariant: duplicate removal, CCW
// orientation, and rejection (empty result) of degenerate polygons.
func (p Polygon) Normalize() Polygon {
	cp := Polygon{Verts: append([]Point(nil), p.Verts...)}
	cp.RemoveDuplicates(Eps)
	if len(cp.Verts) < 3 {
		return Polygon{}
	}
	cp.MakeCCW()
	if math.Abs(cp.SignedArea()) < GeoEps {
		return Polygon{}
	}
	return cp
}

// ContainsPoint reports point-in-polygon via the even-odd ray-casting rule.
func (p Polygon) ContainsPoint(pt Point) bool {
	inside := false
	n := len(p.Verts)
	for i, j := 0, n-1; i < n; i, j = i+1, i {
		vi, vj := p.Verts[i], p.Verts[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// SegmentsIntersect reports whether segments (a1,a2) and (b1,b2) cross at a
// proper interior point. Parallel or touching-only segments return false.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	da := a2.Sub(a1)
	db := b2.Sub(b1)
	denom := da.Cross(db)
	if math.Abs(denom) < GeoEps {
		return false
	}
	t := b1.Sub(a1).Cross(db) / denom
	u := b1.Sub(a1).Cross(da) / denom
	return t > GeoEps && t < 1-GeoEps && u > GeoEps && u < 1-GeoEps
}

// Intersects reports whether p and o overlap: an AABB pre-filter, a
// near-identical-bbox fallback (handles perfectly overlaid shapes whose
// parallel edges never register a proper crossing), proper edge crossings,
// then containment checks for one polygon fully inside the other.
func (p Polygon) Intersects(o Polygon) bool {
	if p.Empty() || o.Empty() {
		return false
	}
	bb1, bb2 := p.BoundingBox(), o.BoundingBox()
	if !bb1.Intersects(bb2) {
		return false
	}
	if math.Abs(bb1.X-bb2.X) < 0.5 && math.Abs(bb1.Y-bb2.Y) < 0.5 &&
		math.Abs(bb1.W-bb2.W) < 0.5 && math.Abs(bb1.H-bb2.H) < 0.5 {
		return true
	}

	n1, n2 := len(p.Verts), len(o.Verts)
	for i := 0; i < n1; i++ {
		a1, a2 := p.Verts[i], p.Verts[(i+1)%n1]
		for j := 0; j < n2; j++ {
			if SegmentsIntersect(a1, a2, o.Verts[j], o.Verts[(j+1)%n2]) {
				return true
			}
		}
	}

	if len(p.Verts) > 0 && o.ContainsPoint(p.Verts[0]) {
		return true
	}
	if len(o.Verts) > 0 && p.ContainsPoint(o.Verts[0]) {
		return true
	}
	for i := 1; i < n1 && i < 5; i++ {
		if o.ContainsPoint(p.Verts[i]) {
			return true
		}
	}
	for j := 1; j < n2 && j < 5; j++ {
		if p.ContainsPoint(o.Verts[j]) {
			return true
		}
	}
	return false
}

// PointSegDist returns the minimum distance from p to segment (a,b).
func PointSegDist(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.LengthSq()
	if l2 < GeoEps*GeoEps {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(a.Add(ab.Scale(t)))
}

// DistanceTo returns the minimum edge-to-edge distance between p and o, or 0
// if they intersect.
func (p Polygon) DistanceTo(o Polygon) float64 {
	if p.Intersects(o) {
		return 0
	}
	minDist := math.MaxFloat64
	n1, n2 := len(p.Verts), len(o.Verts)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			d1 := PointSegDist(p.Verts[i], o.Verts[j], o.Verts[(j+1)%n2])
			d2 := PointSegDist(o.Verts[j], p.Verts[i], p.Verts[(i+1)%n1])
			if d1 < minDist {
				minDist = d1
			}
			if d2 < minDist {
				minDist = d2
			}
		}
	}
	return minDist
}

// IsConvex reports whether the polygon's turn direction is consistent.
func (p Polygon) IsConvex() bool {
	n := len(p.Verts)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		e1 := p.Verts[(i+1)%n].Sub(p.Verts[i])
		e2 := p.Verts[(i+2)%n].Sub(p.Verts[(i+1)%n])
		c := e1.Cross(e2)
		if math.Abs(c) < GeoEps {
			continue
		}
		s := 1
		if c < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}
