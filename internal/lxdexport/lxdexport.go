// Package lxdexport writes a nested sheet's placed parts as an XML
// sheet-layout document — a stand-in for the proprietary binary LXD
// format, carrying the same contour data (shape outline plus engraving
// marks) the original cutter-control format encodes.
package lxdexport

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/piwi3910/nestcore/internal/engine"
	"github.com/piwi3910/nestcore/internal/geo"
)

// contourKind distinguishes a cut outline from a non-cutting engrave mark.
type contourKind string

const (
	contourShape contourKind = "shape"
	contourMark  contourKind = "mark"
)

type xmlPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

type xmlContour struct {
	Kind   contourKind `xml:"kind,attr"`
	Points []xmlPoint  `xml:"point"`
}

type xmlPart struct {
	PartID   int          `xml:"partId,attr"`
	AngleDeg float64      `xml:"angleDeg,attr"`
	Contours []xmlContour `xml:"contour"`
}

type xmlSheet struct {
	XMLName xml.Name  `xml:"sheet"`
	Width   float64   `xml:"width,attr"`
	Height  float64   `xml:"height,attr"`
	MinX    float64   `xml:"minX,attr"`
	MinY    float64   `xml:"minY,attr"`
	MaxX    float64   `xml:"maxX,attr"`
	MaxY    float64   `xml:"maxY,attr"`
	Parts   []xmlPart `xml:"part"`
}

// WriteSheet writes a single sheet's layout to path as an XML document.
func WriteSheet(path string, sheet engine.SheetResult) error {
	doc := buildSheetDoc(sheet)

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sheet layout: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sheet layout: %w", err)
	}
	return nil
}

// WriteSheets writes every sheet in res to folder as sheet_001.xml,
// sheet_002.xml, and so on, creating folder if it does not exist.
func WriteSheets(folder string, res engine.Result) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create export folder: %w", err)
	}
	for i, sheet := range res.Sheets {
		path := filepath.Join(folder, fmt.Sprintf("sheet_%03d.xml", i+1))
		if err := WriteSheet(path, sheet); err != nil {
			return fmt.Errorf("sheet %d: %w", i+1, err)
		}
	}
	return nil
}

func buildSheetDoc(sheet engine.SheetResult) xmlSheet {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	parts := make([]xmlPart, 0, len(sheet.Placed))
	for _, p := range sheet.Placed {
		for _, v := range p.Shape.Verts {
			minX, minY = math.Min(minX, v.X), math.Min(minY, v.Y)
			maxX, maxY = math.Max(maxX, v.X), math.Max(maxY, v.Y)
		}

		contours := []xmlContour{contourOf(p.Shape, contourShape)}
		for _, m := range p.Marks {
			contours = append(contours, contourOf(m, contourMark))
		}
		parts = append(parts, xmlPart{PartID: p.PartID, AngleDeg: p.Angle, Contours: contours})
	}

	if len(sheet.Placed) == 0 {
		minX, minY, maxX, maxY = 0, 0, sheet.Width, sheet.Height
	}

	return xmlSheet{
		Width: sheet.Width, Height: sheet.Height,
		MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY,
		Parts: parts,
	}
}

func contourOf(poly geo.Polygon, kind contourKind) xmlContour {
	pts := make([]xmlPoint, len(poly.Verts))
	for i, v := range poly.Verts {
		pts[i] = xmlPoint{X: v.X, Y: v.Y}
	}
	return xmlContour{Kind: kind, Points: pts}
}
