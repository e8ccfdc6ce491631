package geo

import "testing"

func TestConvexHullOfSquareWithInteriorPoint(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}
	hull := ConvexHull(pts)
	if hull.N() != 4 {
		t.Fatalf("expected 4 hull vertices (interior point dropped), got %d", hull.N())
	}
}

func TestConvexHullIdempotentAsVertexSet(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {3, 7}, {8, 2}}
	h1 := ConvexHull(pts)
	h2 := ConvexHull(h1.Verts)
	if h1.N() != h2.N() {
		t.Fatalf("hull of a hull changed vertex count: %d vs %d", h1.N(), h2.N())
	}
}

func TestConvexHullFewerThanThreePoints(t *testing.T) {
	pts := []Point{{0, 0}, {1, 1}}
	h := ConvexHull(pts)
	if h.N() != 2 {
		t.Fatalf("expected passthrough for <3 points, got %d", h.N())
	}
}

func TestSimplifyPreservesEndpoints(t *testing.T) {
	p := Polygon{Verts: []Point{
		{0, 0}, {1, 0.01}, {2, -0.01}, {3, 0}, {4, 0.01}, {5, 0},
	}}
	s := p.Simplify(0.5)
	if s.Verts[0] != p.Verts[0] || s.Verts[len(s.Verts)-1] != p.Verts[len(p.Verts)-1] {
		t.Fatal("simplify must preserve first and last vertex")
	}
	if s.N() >= p.N() {
		t.Fatalf("expected simplification to reduce vertex count, got %d from %d", s.N(), p.N())
	}
}

func TestSimplifyNoopForSmallPolygon(t *testing.T) {
	p := square(0, 0, 10)
	s := p.Simplify(1.0)
	if s.N() != p.N() {
		t.Fatalf("expected no-op for n<=4, got %d from %d", s.N(), p.N())
	}
}
