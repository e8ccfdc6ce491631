package techcard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/nestcore/internal/engine"
	"github.com/piwi3910/nestcore/internal/geo"
	"github.com/piwi3910/nestcore/internal/part"
)

func buildTestResult() engine.Result {
	square := func(id int, side, x, y float64) part.Placed {
		return part.Placed{
			PartID: id,
			Shape: geo.Polygon{Verts: []geo.Point{
				{X: x, Y: y}, {X: x + side, Y: y}, {X: x + side, Y: y + side}, {X: x, Y: y + side},
			}},
			Pos: geo.Point{X: x, Y: y},
		}
	}

	return engine.Result{
		Sheets: []engine.SheetResult{
			{Width: 1000, Height: 1000, Placed: []part.Placed{
				square(1, 400, 10, 10),
				square(2, 300, 420, 10),
			}},
			{Width: 500, Height: 500, Placed: []part.Placed{
				square(3, 200, 10, 10),
			}},
		},
		PlacedParts: 3,
		TotalParts:  3,
		ModeUsed:    engine.ModeFast,
	}
}

func TestRenderPDFCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workorder.pdf")

	if err := RenderPDF(path, buildTestResult(), 50); err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestRenderPDFEmptyResultErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	err := RenderPDF(path, engine.Result{}, 50)
	if err == nil {
		t.Fatal("expected an error for a result with no sheets")
	}
}

func TestRenderPDFWithDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.pdf")
	res := buildTestResult()
	res.Diagnostics = []string{"sheet 3: placed nothing, stopping"}

	if err := RenderPDF(path, res, 0); err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
