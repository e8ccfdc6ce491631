// Package nfpcache provides the key-value store of precomputed No-Fit
// Polygons keyed by (fixed part id, fixed angle, moving part id, moving
// angle), plus the gap-inflation step applied to fixed polygons before NFP
// computation.
package nfpcache

import (
	"fmt"

	"github.com/piwi3910/nestcore/internal/geo"
)

// Key builds the canonical cache key "idA_angA__idB_angB" with angles
// formatted to one decimal place.
func Key(idA int, angA float64, idB int, angB float64) string {
	return fmt.Sprintf("%d_%.1f__%d_%.1f", idA, angA, idB, angB)
}

// Cache is a plain, single-writer, read-mostly map of NFP polygons. It owns
// no synchronization: callers are expected to give each concurrent owner
// (e.g. a GA island) its own private Cache and merge into a shared one only
// after all concurrent writers have joined.
type Cache struct {
	entries map[string]geo.Polygon
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]geo.Polygon)}
}

// Get returns the cached NFP for key and whether it was present.
func (c *Cache) Get(key string) (geo.Polygon, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores nfp under key.
func (c *Cache) Put(key string, nfp geo.Polygon) {
	c.entries[key] = nfp
}

// Len reports the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// MergeInto copies every entry of c into dst. Existing entries in dst win on
// conflict: cache entries are value-equal for the same key by construction,
// so the choice is immaterial, but it keeps the merge itself commutative and
// free of redundant recomputation.
func (c *Cache) MergeInto(dst *Cache) {
	for k, v := range c.entries {
		if _, exists := dst.entries[k]; !exists {
			dst.entries[k] = v
		}
	}
}

// InflateForGap inflates p outward by gap using averaged adjacent-edge
// outward normals, preserving concavity (unlike a convex-hull expansion).
// The offset vertex at B given neighbours A, C is B + 0.5*(n_AB + n_BC)
// renormalized to length gap; degenerate edges fall back to a single
// normal. If the inflated polygon is no longer simple and CCW, the original
// polygon is returned unchanged.
func InflateForGap(p geo.Polygon, gap float64) geo.Polygon {
	if gap <= 0 || p.Empty() {
		return p
	}
	n := len(p.Verts)
	out := make([]geo.Point, n)

	for i := 0; i < n; i++ {
		prev := p.Verts[(i-1+n)%n]
		cur := p.Verts[i]
		next := p.Verts[(i+1)%n]

		nAB, okAB := outwardNormal(prev, cur)
		nBC, okBC := outwardNormal(cur, next)

		var normal geo.Point
		switch {
		case okAB && okBC:
			normal = geo.Point{X: nAB.X + nBC.X, Y: nAB.Y + nBC.Y}
		case okAB:
			normal = nAB
		case okBC:
			normal = nBC
		default:
			out[i] = cur
			continue
		}

		length := normal.Length()
		if length < geo.GeoEps {
			out[i] = cur
			continue
		}
		scale := gap / length
		out[i] = geo.Point{X: cur.X + normal.X*scale, Y: cur.Y + normal.Y*scale}
	}

	inflated := geo.Polygon{Verts: out}
	if inflated.Empty() || !isSimple(inflated) || inflated.SignedArea() <= 0 {
		return p
	}
	inflated.MakeCCW()
	return inflated
}

// outwardNormal returns the outward-facing unit normal of the directed edge
// a->b for a CCW polygon (rotate the edge direction -90 degrees).
func outwardNormal(a, b geo.Point) (geo.Point, bool) {
	e := b.Sub(a)
	l := e.Length()
	if l < geo.GeoEps {
		return geo.Point{}, false
	}
	return geo.Point{X: e.Y / l, Y: -e.X / l}, true
}

// isSimple reports whether p has no proper self-intersections among
// non-adjacent edges, a cheap guard against the inflation step folding the
// polygon over itself at sharp concave corners.
func isSimple(p geo.Polygon) bool {
	n := len(p.Verts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := p.Verts[i], p.Verts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1, b2 := p.Verts[j], p.Verts[(j+1)%n]
			if geo.SegmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}
