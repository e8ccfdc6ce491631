// Package part implements the part template and placement model: a
// normalized shape with optional engraving marks, and the transform
// operations that turn a template into a placed instance on a sheet.
package part

import "github.com/piwi3910/nestcore/internal/geo"

// Grain represents the grain direction constraint for a part template.
type Grain int

const (
	GrainNone       Grain = iota // no grain constraint, may rotate freely
	GrainHorizontal              // grain runs along the template's width
	GrainVertical                // grain runs along the template's height
)

func (g Grain) String() string {
	switch g {
	case GrainHorizontal:
		return "Horizontal"
	case GrainVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// CanPlaceWithGrain reports whether angleDeg is a legal rotation for a part
// with the given grain constraint. Grain-constrained parts may only be
// placed at 0 or 180 degrees; free parts accept any angle.
func CanPlaceWithGrain(g Grain, angleDeg float64) bool {
	if g == GrainNone {
		return true
	}
	a := normalizeAngle(angleDeg)
	return a == 0 || a == 180
}

func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}

// Template is a normalized, reusable part definition: shape's bounding box
// lower-left sits at the origin, and marks share the same local frame.
type Template struct {
	ID            int
	Name          string
	Shape         geo.Polygon
	Marks         []geo.Polygon
	RequiredCount int
	PlacedCount   int
	Grain         Grain
}

// Normalize returns a copy of t whose shape is CCW-oriented with its
// bounding box lower-left translated to the origin; marks receive the same
// translation so the mark-to-shape relationship is preserved.
func (t Template) Normalize() Template {
	shape := t.Shape.Normalize()
	if shape.Empty() {
		return Template{ID: t.ID, Name: t.Name, RequiredCount: t.RequiredCount, Grain: t.Grain}
	}
	bb := shape.BoundingBox()
	dx, dy := -bb.X, -bb.Y
	shape = shape.Translated(dx, dy)

	marks := make([]geo.Polygon, len(t.Marks))
	for i, m := range t.Marks {
		marks[i] = m.Translated(dx, dy)
	}

	out := t
	out.Shape = shape
	out.Marks = marks
	return out
}

// TransformedShape rotates the template's shape around its centroid by
// angleDeg, then translates it so the rotated bounding box's lower-left
// sits at the origin again.
func (t Template) TransformedShape(angleDeg float64) geo.Polygon {
	if t.Shape.Empty() {
		return t.Shape
	}
	pivot := t.Shape.Centroid()
	rotated := t.Shape.RotatedAround(angleDeg, pivot)
	bb := rotated.BoundingBox()
	return rotated.Translated(-bb.X, -bb.Y)
}

// transformedMarks rotates marks around the same pivot used for the shape
// and applies the same bbox-offset translation, keeping marks coherent with
// the rotated shape.
func (t Template) transformedMarks(angleDeg float64) []geo.Polygon {
	if len(t.Marks) == 0 {
		return nil
	}
	pivot := t.Shape.Centroid()
	bb := t.Shape.RotatedAround(angleDeg, pivot).BoundingBox()
	out := make([]geo.Polygon, len(t.Marks))
	for i, m := range t.Marks {
		rotated := m.RotatedAround(angleDeg, pivot)
		out[i] = rotated.Translated(-bb.X, -bb.Y)
	}
	return out
}

// Placed is a transformed instance of a Template positioned on a sheet.
type Placed struct {
	PartID int
	Shape  geo.Polygon
	Marks  []geo.Polygon
	Pos    geo.Point
	Angle  float64
}

// Place produces a Placed instance: the template's shape and marks rotated
// by angleDeg and translated so the rotated bounding box's lower-left sits
// at pos.
func (t Template) Place(pos geo.Point, angleDeg float64) Placed {
	shape := t.TransformedShape(angleDeg).Translated(pos.X, pos.Y)
	marks := t.transformedMarks(angleDeg)
	for i, m := range marks {
		marks[i] = m.Translated(pos.X, pos.Y)
	}
	return Placed{
		PartID: t.ID,
		Shape:  shape,
		Marks:  marks,
		Pos:    pos,
		Angle:  angleDeg,
	}
}

// Expand duplicates t into RequiredCount independent unit instances
// (count=1 each), as the engine does when building its working set.
func (t Template) Expand() []Template {
	n := t.RequiredCount
	if n < 1 {
		n = 1
	}
	out := make([]Template, n)
	unit := t
	unit.RequiredCount = 1
	unit.PlacedCount = 0
	for i := range out {
		out[i] = unit
	}
	return out
}
