package loader

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/nestcore/internal/geo"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// segment is a line between two points, used to chain disconnected LINE and
// ARC entities into closed outlines.
type segment struct {
	start, end geo.Point
}

// LoadDXF reads every closed shape in a DXF drawing — LWPOLYLINE, CIRCLE, or
// a chain of connected LINE/ARC entities — into one normalized part
// Template each.
func LoadDXF(path string) Result {
	var res Result

	drawing, err := dxf.Open(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return res
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		res.Errors = append(res.Errors, "DXF file contains no entities")
		return res
	}

	var outlines [][]geo.Point
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				res.Warnings = append(res.Warnings, "skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))
		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}
		case *entity.Line:
			segments = append(segments, segment{
				start: geo.Point{X: e.Start[0], Y: e.Start[1]},
				end:   geo.Point{X: e.End[0], Y: e.End[1]},
			})
		default:
			// unsupported entity types are silently skipped
		}
	}

	for _, chain := range chainSegments(segments, 0.01) {
		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	if len(outlines) == 0 {
		res.Errors = append(res.Errors, "no closed shapes found in DXF file")
		return res
	}

	for i, outline := range outlines {
		shape := geo.Polygon{Verts: outline}.Normalize()
		bb := shape.BoundingBox()
		if bb.W < 0.01 || bb.H < 0.01 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipped degenerate shape (%.2f x %.2f)", bb.W, bb.H))
			continue
		}
		res.Templates = append(res.Templates, part.Template{
			ID:            i + 1,
			Name:          fmt.Sprintf("DXF Part %d", i+1),
			Shape:         shape,
			RequiredCount: 1,
		})
	}

	return res
}

// lwPolylineToOutline converts an LWPOLYLINE's vertices to an outline,
// expanding bulge values into interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) []geo.Point {
	var outline []geo.Point
	n := len(lw.Vertices)

	for i := 0; i < n; i++ {
		v := lw.Vertices[i]
		current := geo.Point{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			next := lw.Vertices[(i+1)%n]
			arcPts := bulgeArcPoints(current, geo.Point{X: next[0], Y: next[1]}, bulge, 32)
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}
	return outline
}

// bulgeArcPoints expands a DXF bulge (tangent of 1/4 the included angle)
// between two endpoints into numSegments+1 points along the arc.
func bulgeArcPoints(p1, p2 geo.Point, bulge float64, numSegments int) []geo.Point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []geo.Point{p1, p2}
	}

	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chordLen, dx/chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx, cy := mx+perpX*dist, my+perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]geo.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts[i] = geo.Point{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
	}
	return pts
}

func circleToOutline(c *entity.Circle, numSegments int) []geo.Point {
	pts := make([]geo.Point, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		pts[i] = geo.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func arcToPoints(a *entity.Arc, numSegments int) []geo.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]geo.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = geo.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []geo.Point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments links loose LINE/ARC segments into closed outlines within
// tolerance, largest-area first.
func chainSegments(segs []segment, tolerance float64) [][]geo.Point {
	if len(segs) == 0 {
		return nil
	}
	used := make([]bool, len(segs))
	var outlines [][]geo.Point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []geo.Point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if tail.DistanceTo(seg.start) <= tolerance {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if tail.DistanceTo(seg.end) <= tolerance {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && chain[0].DistanceTo(chain[len(chain)-1]) <= tolerance {
			chain = chain[:len(chain)-1]
		}
		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	sort.Slice(outlines, func(i, j int) bool {
		return geo.Polygon{Verts: outlines[i]}.Area() > geo.Polygon{Verts: outlines[j]}.Area()
	})
	return outlines
}
