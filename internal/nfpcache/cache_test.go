package nfpcache

import (
	"testing"

	"github.com/piwi3910/nestcore/internal/geo"
)

func TestKeyFormat(t *testing.T) {
	// 180.25 is exact in binary, so %.1f rounds the tie to even: 180.2.
	k := Key(3, 90, 7, 180.25)
	if k != "3_90.0__7_180.2" {
		t.Fatalf("unexpected key format: %q", k)
	}
}

func TestCacheGetPutRoundTrip(t *testing.T) {
	c := New()
	key := Key(1, 0, 2, 0)
	nfp := geo.Polygon{Verts: []geo.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}
	c.Put(key, nfp)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit after Put")
	}
	if len(got.Verts) != len(nfp.Verts) {
		t.Fatalf("round-tripped NFP vertex count mismatch: %d vs %d", len(got.Verts), len(nfp.Verts))
	}
}

func TestCacheMissReturnsFalse(t *testing.T) {
	c := New()
	if _, ok := c.Get("nope"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestMergeIntoKeepsAllEntries(t *testing.T) {
	island := New()
	island.Put(Key(1, 0, 2, 0), geo.Polygon{Verts: []geo.Point{{X: 0, Y: 0}}})
	island.Put(Key(3, 90, 4, 180), geo.Polygon{Verts: []geo.Point{{X: 1, Y: 1}}})

	shared := New()
	shared.Put(Key(1, 0, 2, 0), geo.Polygon{Verts: []geo.Point{{X: 9, Y: 9}}})

	island.MergeInto(shared)
	if shared.Len() != 2 {
		t.Fatalf("expected 2 entries after merge, got %d", shared.Len())
	}
	existing, _ := shared.Get(Key(1, 0, 2, 0))
	if existing.Verts[0] != (geo.Point{X: 9, Y: 9}) {
		t.Fatal("merge must not overwrite an existing shared entry")
	}
}

func TestInflateForGapZeroIsNoop(t *testing.T) {
	p := geo.Polygon{Verts: []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	inflated := InflateForGap(p, 0)
	for i := range p.Verts {
		if inflated.Verts[i] != p.Verts[i] {
			t.Fatalf("expected no-op at gap=0, vertex %d changed: %v vs %v", i, inflated.Verts[i], p.Verts[i])
		}
	}
}

func TestInflateForGapGrowsSquare(t *testing.T) {
	p := geo.Polygon{Verts: []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	inflated := InflateForGap(p, 2)
	bb := inflated.BoundingBox()
	if bb.W < 10 || bb.H < 10 {
		t.Fatalf("inflated square should be larger than original, got bbox %v", bb)
	}
	if inflated.SignedArea() <= 0 {
		t.Fatal("inflated polygon should remain CCW")
	}
}

func TestInflateForGapPreservesLShapeConcavity(t *testing.T) {
	l := geo.Polygon{Verts: []geo.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 10},
	}}
	inflated := InflateForGap(l, 1)
	if inflated.IsConvex() {
		t.Fatal("gap inflation must preserve concavity, not convex-hull the shape")
	}
}
