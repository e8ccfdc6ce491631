// Package sheet implements the single-sheet Bottom-Left placement search:
// inner-fit rectangle, candidate generation, the can-place predicate, and
// find-best-placement driven by cached No-Fit Polygons.
package sheet

import (
	"math"

	"github.com/piwi3910/nestcore/internal/geo"
	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
)

// MaxCandidatesPerAngle bounds candidate generation per rotation angle;
// beyond this an angle is abandoned rather than evaluated exhaustively.
const MaxCandidatesPerAngle = 10_000

// MaxGrid bounds the uniform-grid subdivision of the inner-fit rectangle.
const MaxGrid = 30

// Sheet holds the placed parts on one physical sheet of material.
type Sheet struct {
	Width  float64
	Height float64
	Margin float64
	Gap    float64
	Placed []part.Placed
}

// New returns an empty sheet of the given physical size.
func New(width, height, margin, gap float64) *Sheet {
	return &Sheet{Width: width, Height: height, Margin: margin, Gap: gap}
}

// UsableArea returns the sheet rectangle shrunk by Margin on every side.
func (s *Sheet) UsableArea() geo.Rect {
	return geo.Rect{
		X: s.Margin,
		Y: s.Margin,
		W: math.Max(0, s.Width-2*s.Margin),
		H: math.Max(0, s.Height-2*s.Margin),
	}
}

// PlacedArea returns the sum of placed shape areas.
func (s *Sheet) PlacedArea() float64 {
	var total float64
	for _, p := range s.Placed {
		total += p.Shape.Area()
	}
	return total
}

// Utilization returns PlacedArea over the usable area, or 0 if the usable
// area is degenerate.
func (s *Sheet) Utilization() float64 {
	u := s.UsableArea()
	denom := u.W * u.H
	if denom <= 0 {
		return 0
	}
	return s.PlacedArea() / denom
}

// CanPlace reports whether shape may be placed on the sheet: its bbox and
// every vertex lie inside the usable area, none of its edges properly cross
// the usable-area boundary, and it does not intersect any already-placed
// part's shape (gap is enforced upstream via NFP inflation, so this check
// is plain intersection).
func (s *Sheet) CanPlace(shape geo.Polygon) bool {
	usable := s.UsableArea()
	bb := shape.BoundingBox()
	if bb.X < usable.X-geo.GeoEps || bb.Y < usable.Y-geo.GeoEps ||
		bb.Right() > usable.Right()+geo.GeoEps || bb.Bottom() > usable.Bottom()+geo.GeoEps {
		return false
	}
	for _, v := range shape.Verts {
		if !usable.Contains(v) {
			return false
		}
	}

	corners := []geo.Point{
		{X: usable.X, Y: usable.Y}, {X: usable.Right(), Y: usable.Y},
		{X: usable.Right(), Y: usable.Bottom()}, {X: usable.X, Y: usable.Bottom()},
	}
	n := len(shape.Verts)
	for i := 0; i < n; i++ {
		a, b := shape.Verts[i], shape.Verts[(i+1)%n]
		for j := 0; j < 4; j++ {
			if geo.SegmentsIntersect(a, b, corners[j], corners[(j+1)%4]) {
				return false
			}
		}
	}

	expand := s.Gap + geo.GeoEps
	for _, p := range s.Placed {
		pbb := p.Shape.BoundingBox().Expanded(expand)
		if !pbb.Intersects(bb) {
			continue
		}
		if shape.Intersects(p.Shape) {
			return false
		}
	}
	return true
}

// blScore is the Bottom-Left placement score: y dominates x until y
// differences fall below about one unit. Do not change the coefficients —
// they fix observable tie-break behavior.
func blScore(p geo.Point) float64 {
	return 10*p.Y + 0.7*p.X
}

// FindBestPlacement searches for the (position, angle) achieving the
// lexicographic Bottom-Left minimum among feasible candidates for tpl over
// the given angles, using cache to retrieve/store NFPs against already
// placed parts. It returns ok=false if no angle admits a feasible position.
func (s *Sheet) FindBestPlacement(tpl part.Template, angles []float64, cache *nfpcache.Cache) (geo.Point, float64, bool) {
	usable := s.UsableArea()

	if len(s.Placed) == 0 {
		for _, angle := range angles {
			shape := tpl.TransformedShape(angle)
			bb := shape.BoundingBox()
			ifr := geo.InnerFitRect(usable, bb.W, bb.H)
			if !ifr.IsValid() {
				continue
			}
			pos := geo.Point{X: ifr.X, Y: ifr.Y}
			shapeAt := shape.Translated(pos.X, pos.Y)
			if s.CanPlace(shapeAt) {
				return pos, angle, true
			}
		}
		return geo.Point{}, 0, false
	}

	var (
		bestPos   geo.Point
		bestAngle float64
		bestScore = math.MaxFloat64
		found     bool
	)

	for _, angle := range angles {
		shape := tpl.TransformedShape(angle)
		bb := shape.BoundingBox()
		ifr := geo.InnerFitRect(usable, bb.W, bb.H)
		if !ifr.IsValid() {
			continue
		}

		nfps := s.nfpsAgainstPlaced(tpl, angle, cache)
		candidates := generateCandidates(ifr, nfps, s.Gap, bb)

		angleBestScore := math.MaxFloat64
		var angleBestPos geo.Point
		angleFound := false

		for _, pos := range candidates {
			if !ifrContains(ifr, pos) {
				continue
			}
			if inAnyNFP(pos, nfps) {
				continue
			}
			shapeAt := shape.Translated(pos.X, pos.Y)
			if !s.CanPlace(shapeAt) {
				continue
			}
			score := blScore(pos)
			if score < angleBestScore {
				angleBestScore, angleBestPos, angleFound = score, pos, true
				if pos.Y <= ifr.Y+1 {
					break
				}
			}
		}

		if angleFound && angleBestScore < bestScore {
			bestScore, bestPos, bestAngle, found = angleBestScore, angleBestPos, angle, true
		}
		if found && bestPos.Y <= ifr.Y+1 {
			break
		}
	}

	return bestPos, bestAngle, found
}

func ifrContains(ifr geo.Rect, p geo.Point) bool {
	return p.X >= ifr.X-geo.GeoEps && p.X <= ifr.Right()+geo.GeoEps &&
		p.Y >= ifr.Y-geo.GeoEps && p.Y <= ifr.Bottom()+geo.GeoEps
}

type positionedNFP struct {
	nfp geo.Polygon
	bb  geo.Rect
}

// nfpsAgainstPlaced computes (or retrieves from cache) the NFP of tpl at
// angle against every already-placed part, translated into sheet
// coordinates by each placed part's current position.
func (s *Sheet) nfpsAgainstPlaced(tpl part.Template, angle float64, cache *nfpcache.Cache) []positionedNFP {
	out := make([]positionedNFP, 0, len(s.Placed))
	moving := tpl.TransformedShape(angle)

	seenFixedAngle := make(map[int]float64)
	for _, p := range s.Placed {
		seenFixedAngle[p.PartID] = p.Angle
	}

	nfpByFixed := make(map[string]geo.Polygon)
	for _, p := range s.Placed {
		key := nfpcache.Key(p.PartID, p.Angle, tpl.ID, angle)
		nfp, ok := cache.Get(key)
		if !ok {
			fixedShape := shapeOfPlacedTemplate(p)
			fixedInflated := nfpcache.InflateForGap(fixedShape, s.Gap)
			nfp = geo.ComputeNFP(fixedInflated, moving)
			cache.Put(key, nfp)
		}
		nfpByFixed[key] = nfp

		translated := nfp.Translated(p.Pos.X, p.Pos.Y)
		out = append(out, positionedNFP{nfp: translated, bb: translated.BoundingBox()})
	}
	return out
}

// shapeOfPlacedTemplate reconstructs the un-translated (bbox-at-origin)
// shape of a placed part at its placement angle, the frame NFPs are
// computed and cached in.
func shapeOfPlacedTemplate(p part.Placed) geo.Polygon {
	return p.Shape.Translated(-p.Pos.X, -p.Pos.Y)
}

func inAnyNFP(pos geo.Point, nfps []positionedNFP) bool {
	for _, n := range nfps {
		if !n.bb.Contains(pos) {
			continue
		}
		if n.nfp.ContainsPoint(pos) {
			return true
		}
	}
	return false
}

// generateCandidates builds the bounded candidate-position set for one
// angle: the four IFR corners, every in-bounds NFP vertex, and a uniform
// grid sized by the part's own bounding box.
func generateCandidates(ifr geo.Rect, nfps []positionedNFP, gap float64, partBB geo.Rect) []geo.Point {
	candidates := make([]geo.Point, 0, 64)

	candidates = append(candidates,
		geo.Point{X: ifr.X, Y: ifr.Y},
		geo.Point{X: ifr.Right(), Y: ifr.Y},
		geo.Point{X: ifr.X, Y: ifr.Bottom()},
		geo.Point{X: ifr.Right(), Y: ifr.Bottom()},
	)

	expanded := ifr.Expanded(geo.GeoEps)
	for _, n := range nfps {
		for _, v := range n.nfp.Verts {
			if len(candidates) >= MaxCandidatesPerAngle {
				return candidates
			}
			if expanded.Contains(v) {
				candidates = append(candidates, v)
			}
		}
	}

	minPart := math.Min(partBB.W, partBB.H)
	gapFloor := gap
	if gapFloor <= geo.GeoEps {
		gapFloor = 1
	}
	stepMin := math.Max(gapFloor, minPart/8)
	stepX := math.Max(stepMin, ifr.W/MaxGrid)
	stepY := math.Max(stepMin, ifr.H/MaxGrid)
	if stepX <= 0 {
		stepX = 1
	}
	if stepY <= 0 {
		stepY = 1
	}

	for y := ifr.Y; y <= ifr.Bottom()+geo.GeoEps; y += stepY {
		for x := ifr.X; x <= ifr.Right()+geo.GeoEps; x += stepX {
			if len(candidates) >= MaxCandidatesPerAngle {
				return candidates
			}
			candidates = append(candidates, geo.Point{X: math.Min(x, ifr.Right()), Y: math.Min(y, ifr.Bottom())})
		}
		if ifr.H == 0 {
			break
		}
	}

	return candidates
}
