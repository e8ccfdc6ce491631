package geo

import (
	"math"
	"sort"
)

// ConvexHull computes the convex hull of pts via a Graham scan: pivot on the
// lowest-then-leftmost point, sort the rest by polar angle around the pivot
// (ties broken by distance), then sweep keeping only left turns. The result
// is CCW-oriented.
func ConvexHull(pts []Point) Polygon {
	n := len(pts)
	if n < 3 {
		return Polygon{Verts: append([]Point(nil), pts...)}
	}

	work := append([]Point(nil), pts...)
	bot := 0
	for i := 1; i < n; i++ {
		if work[i].Y < work[bot].Y || (work[i].Y == work[bot].Y && work[i].X < work[bot].X) {
			bot = i
		}
	}
	work[0], work[bot] = work[bot], work[0]
	pivot := work[0]

	rest := work[1:]
	sort.Slice(rest, func(i, j int) bool {
		da := rest[i].Sub(pivot)
		db := rest[j].Sub(pivot)
		c := da.Cross(db)
		if math.Abs(c) > GeoEps {
			return c > 0
		}
		return da.LengthSq() < db.LengthSq()
	})

	hull := make([]Point, 0, n)
	for _, p := range append([]Point{pivot}, rest...) {
		for len(hull) >= 2 {
			a, b := hull[len(hull)-2], hull[len(hull)-1]
			if b.Sub(a).Cross(p.Sub(a)) <= GeoEps {
				hull = hull[:len(hull)-1]
			} else {
				break
			}
		}
		hull = append(hull, p)
	}
	return Polygon{Verts: hull}
}

// Simplify applies Douglas-Peucker simplification with tolerance eps,
// preserving the first and last vertex.
func (p Polygon) Simplify(eps float64) Polygon {
	n := len(p.Verts)
	if n <= 4 {
		return p
	}
	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	dpStep(p.Verts, 0, n-1, eps, keep)

	res := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		if keep[i] {
			res = append(res, p.Verts[i])
		}
	}
	return Polygon{Verts: res}
}

func dpStep(pts []Point, s, e int, eps float64, keep []bool) {
	if e <= s+1 {
		return
	}
	a, b := pts[s], pts[e]
	ab := b.Sub(a)
	length := ab.Length()
	maxD, idx := 0.0, s
	for i := s + 1; i < e; i++ {
		var d float64
		if length < GeoEps {
			d = pts[i].Sub(a).Length()
		} else {
			d = math.Abs(ab.Cross(pts[i].Sub(a))) / length
		}
		if d > maxD {
			maxD, idx = d, i
		}
	}
	if maxD > eps {
		keep[idx] = true
		dpStep(pts, s, idx, eps, keep)
		dpStep(pts, idx, e, eps, keep)
	}
}
