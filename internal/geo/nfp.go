package geo

import (
	"math"
	"sort"
)

func lowestIndex(p Polygon) int {
	idx := 0
	for i := 1; i < len(p.Verts); i++ {
		if p.Verts[i].Y < p.Verts[idx].Y ||
			(p.Verts[i].Y == p.Verts[idx].Y && p.Verts[i].X < p.Verts[idx].X) {
			idx = i
		}
	}
	return idx
}

// MinkowskiSumConvex computes A ⊕ B for two CCW convex polygons by an O(n+m)
// edge-angle merge starting from both polygons' lowest vertices. Commutative
// up to vertex-set translation.
func MinkowskiSumConvex(a, b Polygon) Polygon {
	a.MakeCCW()
	b.MakeCCW()

	ia, ib := lowestIndex(a), lowestIndex(b)
	na, nb := len(a.Verts), len(b.Verts)
	if na == 0 || nb == 0 {
		return Polygon{}
	}

	result := make([]Point, 0, na+nb)
	i, j := 0, 0
	for i < na || j < nb {
		ci, cj := i, j
		if ci > na-1 {
			ci = na - 1
		}
		if cj > nb-1 {
			cj = nb - 1
		}
		result = append(result, a.Verts[(ia+ci)%na].Add(b.Verts[(ib+cj)%nb]))

		ea := a.Verts[(ia+ci+1)%na].Sub(a.Verts[(ia+ci)%na])
		eb := b.Verts[(ib+cj+1)%nb].Sub(b.Verts[(ib+cj)%nb])
		c := ea.Cross(eb)

		switch {
		case i >= na:
			j++
		case j >= nb:
			i++
		case c > GeoEps:
			i++
		case c < -GeoEps:
			j++
		default:
			i++
			j++
		}
	}

	r := Polygon{Verts: result}
	r.RemoveDuplicates(Eps)
	return r
}

func edgeAngle2PI(v Point) float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// nfpConvexOrbital computes the exact orbital NFP of two CCW convex polygons:
// fixed A's edges plus moving B's negated edges, sorted by polar angle and
// walked from the lowest vertex of A ⊕ (−B): A's lowest vertex minus B's
// highest (then rightmost) vertex. O(n+m).
func nfpConvexOrbital(a, b Polygon) Polygon {
	na, nb := len(a.Verts), len(b.Verts)
	if na < 3 || nb < 3 {
		return Polygon{}
	}

	startA, startB := lowestIndex(a), lowestIndex(b)
	topB := 0
	for j := 1; j < nb; j++ {
		if b.Verts[j].Y > b.Verts[topB].Y ||
			(b.Verts[j].Y == b.Verts[topB].Y && b.Verts[j].X > b.Verts[topB].X) {
			topB = j
		}
	}
	startPos := a.Verts[startA].Sub(b.Verts[topB])

	type edgeVec struct {
		v     Point
		angle float64
		poly  int
	}
	edges := make([]edgeVec, 0, na+nb)

	for i := 0; i < na; i++ {
		v := a.Verts[(startA+i+1)%na].Sub(a.Verts[(startA+i)%na])
		if v.LengthSq() < GeoEps*GeoEps {
			continue
		}
		edges = append(edges, edgeVec{v, edgeAngle2PI(v), 0})
	}
	for j := 0; j < nb; j++ {
		v := b.Verts[(startB+j+1)%nb].Sub(b.Verts[(startB+j)%nb])
		v = Point{-v.X, -v.Y}
		if v.LengthSq() < GeoEps*GeoEps {
			continue
		}
		edges = append(edges, edgeVec{v, edgeAngle2PI(v), 1})
	}

	sort.Slice(edges, func(i, j int) bool {
		if math.Abs(edges[i].angle-edges[j].angle) > 1e-9 {
			return edges[i].angle < edges[j].angle
		}
		return edges[i].poly < edges[j].poly
	})

	verts := make([]Point, 0, len(edges)+1)
	verts = append(verts, startPos)
	cur := startPos
	for _, e := range edges {
		cur = cur.Add(e.v)
		verts = append(verts, cur)
	}

	nfp := Polygon{Verts: verts}
	nfp.RemoveDuplicates(Eps)
	return nfp
}

// fanDecompose splits a polygon into a fan of triangles from its centroid.
// Convex polygons are returned unsplit.
func fanDecompose(p Polygon) []Polygon {
	n := len(p.Verts)
	if n < 3 {
		return nil
	}
	if p.IsConvex() {
		return []Polygon{p}
	}
	c := p.Centroid()
	parts := make([]Polygon, 0, n)
	for i := 0; i < n; i++ {
		tri := Polygon{Verts: []Point{c, p.Verts[i], p.Verts[(i+1)%n]}}
		if tri.Area() > GeoEps {
			tri.MakeCCW()
			parts = append(parts, tri)
		}
	}
	return parts
}

// ComputeNFP computes the No-Fit Polygon of moving against fixed. For two
// convex polygons it is the exact orbital NFP. For non-convex inputs it is a
// conservative approximation: fan-triangulate both from their centroids,
// compute the convex-orbital NFP of every pair of triangle hulls, and return
// the convex hull of all partial NFP vertices. This can only over-forbid
// positions, never under-forbid — it never produces a false-positive
// placement.
func ComputeNFP(fixed, moving Polygon) Polygon {
	a := fixed
	a.MakeCCW()
	a.RemoveDuplicates(Eps)
	b := moving
	b.MakeCCW()
	b.RemoveDuplicates(Eps)

	if len(a.Verts) < 3 || len(b.Verts) < 3 {
		return Polygon{}
	}

	if a.IsConvex() && b.IsConvex() {
		nfp := nfpConvexOrbital(a, b)
		nfp.MakeCCW()
		return nfp
	}

	partsA := fanDecompose(a)
	partsB := fanDecompose(b)
	if len(partsA) == 0 {
		partsA = []Polygon{a}
	}
	if len(partsB) == 0 {
		partsB = []Polygon{b}
	}

	var allVerts []Point
	for _, pa := range partsA {
		paHull := ConvexHull(pa.Verts)
		paHull.MakeCCW()
		for _, pb := range partsB {
			pbHull := ConvexHull(pb.Verts)
			pbHull.MakeCCW()
			if len(paHull.Verts) < 3 || len(pbHull.Verts) < 3 {
				continue
			}
			partNFP := nfpConvexOrbital(paHull, pbHull)
			allVerts = append(allVerts, partNFP.Verts...)
		}
	}

	if len(allVerts) == 0 {
		// Last-resort fallback: NFP of the convex hulls of both whole shapes.
		ah := ConvexHull(a.Verts)
		bh := ConvexHull(b.Verts)
		ah.MakeCCW()
		bh.MakeCCW()
		nfp := nfpConvexOrbital(ah, bh)
		nfp.MakeCCW()
		return nfp
	}

	nfp := ConvexHull(allVerts)
	nfp.MakeCCW()
	return nfp
}

// InnerFitRect computes the locus of admissible bbox-lower-left positions
// for a part with rotated bounding box size (pw, ph) inside usable area s.
// Returns an invalid (negative W or H) rect if the part cannot fit at all.
func InnerFitRect(s Rect, pw, ph float64) Rect {
	w := s.W - pw
	h := s.H - ph
	if w < -GeoEps || h < -GeoEps {
		return Rect{W: -1, H: -1}
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: s.X, Y: s.Y, W: w, H: h}
}
