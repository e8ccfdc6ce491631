package loader

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func createTestWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "parts.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestLoadXLSXWithHeaders(t *testing.T) {
	path := createTestWorkbook(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity", "Grain"},
		{"Shelf", 600, 300, 2, "Horizontal"},
		{"Door", 400, 800, 1, "Vertical"},
	})

	res := LoadXLSX(path)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(res.Templates))
	}
	if res.Templates[0].Name != "Shelf" {
		t.Errorf("expected name 'Shelf', got %q", res.Templates[0].Name)
	}
	bb := res.Templates[0].Shape.BoundingBox()
	if bb.W != 600 || bb.H != 300 {
		t.Errorf("expected a 600x300 rectangle, got %v", bb)
	}
	if res.Templates[0].RequiredCount != 2 {
		t.Errorf("expected required count 2, got %d", res.Templates[0].RequiredCount)
	}
}

func TestLoadXLSXWithoutHeaderUsesPositionalMapping(t *testing.T) {
	path := createTestWorkbook(t, [][]interface{}{
		{"Shelf", 600, 300, 2},
		{"Door", 400, 800, 1},
	})

	res := LoadXLSX(path)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(res.Templates))
	}
}

func TestLoadXLSXRejectsNonPositiveDimensions(t *testing.T) {
	path := createTestWorkbook(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity"},
		{"Bad", 0, 300, 2},
	})

	res := LoadXLSX(path)
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error for a zero width, got %v", res.Errors)
	}
	if len(res.Templates) != 0 {
		t.Error("expected no templates when every row fails")
	}
}

func TestLoadXLSXUnrecognizedGrainWarns(t *testing.T) {
	path := createTestWorkbook(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity", "Grain"},
		{"Shelf", 600, 300, 2, "sideways"},
	})

	res := LoadXLSX(path)
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for an unrecognized grain direction")
	}
}

func TestLoadXLSXMissingRequiredColumnErrors(t *testing.T) {
	path := createTestWorkbook(t, [][]interface{}{
		{"Label", "Description"},
		{"Shelf", "a shelf"},
	})

	res := LoadXLSX(path)
	if len(res.Errors) == 0 {
		t.Error("expected an error when required columns are missing")
	}
}

func TestLoadXLSXMissingFileErrors(t *testing.T) {
	res := LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	if len(res.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}
