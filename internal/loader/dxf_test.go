package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/nestcore/internal/geo"
)

// minimalLwPolylineDXF is a hand-built ASCII DXF containing a single closed
// LWPOLYLINE square; only the ENTITIES section is required by the DXF spec.
const minimalLwPolylineDXF = `0
SECTION
2
ENTITIES
0
LWPOLYLINE
90
4
70
1
10
0.0
20
0.0
10
100.0
20
0.0
10
100.0
20
100.0
10
0.0
20
100.0
0
ENDSEC
0
EOF
`

func writeDXF(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "part.dxf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write DXF fixture: %v", err)
	}
	return path
}

func TestLoadDXFParsesLwPolylineSquare(t *testing.T) {
	path := writeDXF(t, minimalLwPolylineDXF)

	res := LoadDXF(path)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(res.Templates))
	}
	bb := res.Templates[0].Shape.BoundingBox()
	if bb.W != 100 || bb.H != 100 {
		t.Errorf("expected a 100x100 square, got %v", bb)
	}
}

func TestLoadDXFMissingFileErrors(t *testing.T) {
	res := LoadDXF(filepath.Join(t.TempDir(), "nope.dxf"))
	if len(res.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadDXFEmptyDrawingErrors(t *testing.T) {
	path := writeDXF(t, "0\nSECTION\n2\nENTITIES\n0\nENDSEC\n0\nEOF\n")
	res := LoadDXF(path)
	if len(res.Errors) == 0 {
		t.Error("expected an error for a drawing with no entities")
	}
}

func TestChainSegmentsClosesASquare(t *testing.T) {
	segs := []segment{
		{start: geo.Point{X: 0, Y: 0}, end: geo.Point{X: 10, Y: 0}},
		{start: geo.Point{X: 10, Y: 0}, end: geo.Point{X: 10, Y: 10}},
		{start: geo.Point{X: 10, Y: 10}, end: geo.Point{X: 0, Y: 10}},
		{start: geo.Point{X: 0, Y: 10}, end: geo.Point{X: 0, Y: 0}},
	}
	chains := chainSegments(segs, 1e-6)
	if len(chains) != 1 {
		t.Fatalf("expected one closed chain, got %d", len(chains))
	}
	if len(chains[0]) != 4 {
		t.Fatalf("expected 4 vertices after closing the chain, got %d", len(chains[0]))
	}
}
