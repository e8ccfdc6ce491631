package ga

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/piwi3910/nestcore/internal/sheet"
)

// SheetTemplate describes the empty sheet each chromosome is simulated
// against: physical size, margin, and the gap enforced between parts.
type SheetTemplate struct {
	Width  float64
	Height float64
	Margin float64
	Gap    float64
}

// simulate places units in chromosome order on a fresh sheet built from
// tmpl, trying each slot only at that slot's own angle. It returns how many
// units placed and the resulting sheet utilization.
func simulate(order []int, angles []float64, units []part.Template, tmpl SheetTemplate, cache *nfpcache.Cache) (placed int, util float64) {
	s := sheet.New(tmpl.Width, tmpl.Height, tmpl.Margin, tmpl.Gap)
	for i, idx := range order {
		tpl := units[idx]
		pos, angle, ok := s.FindBestPlacement(tpl, []float64{angles[i]}, cache)
		if !ok {
			continue
		}
		s.Placed = append(s.Placed, tpl.Place(pos, angle))
		placed++
	}
	return placed, s.Utilization()
}

// evaluate scores a chromosome: 0 for an empty chromosome, 1e-6 if nothing
// placed (keeps tournament selection from collapsing to pure chance), a
// blend of placement ratio and utilization for a partial result, and a
// utilization-only band in [0.5,1.0] once everything placed.
func evaluate(c Chromosome, units []part.Template, tmpl SheetTemplate, cache *nfpcache.Cache) float64 {
	total := len(c.Order)
	if total == 0 {
		return 0
	}
	placed, util := simulate(c.Order, c.Angles, units, tmpl, cache)
	if placed == 0 {
		return 1e-6
	}
	ratio := float64(placed) / float64(total)
	if placed < total {
		return ratio*0.8 + util*0.2
	}
	return 0.5 + util*0.5
}

// initPopulation seeds n chromosomes for one island: three heuristic
// orderings (descending area, descending bbox aspect ratio, descending bbox
// perimeter, all at angle 0), then uniformly-random permutations with
// per-slot angles drawn from allowedAngles.
func initPopulation(n int, units []part.Template, allowedAngles []float64, rng *rand.Rand) []Chromosome {
	np := len(units)
	base := make([]int, np)
	for i := range base {
		base[i] = i
	}

	pop := make([]Chromosome, 0, n)
	for i := 0; i < n; i++ {
		order := make([]int, np)
		copy(order, base)

		switch i {
		case 0:
			sort.SliceStable(order, func(x, y int) bool {
				return units[order[x]].Shape.Area() > units[order[y]].Shape.Area()
			})
		case 1:
			sort.SliceStable(order, func(x, y int) bool {
				return aspectRatio(units[order[x]]) > aspectRatio(units[order[y]])
			})
		case 2:
			sort.SliceStable(order, func(x, y int) bool {
				return bboxPerimeter(units[order[x]]) > bboxPerimeter(units[order[y]])
			})
		default:
			rng.Shuffle(np, func(x, y int) { order[x], order[y] = order[y], order[x] })
		}

		angles := make([]float64, np)
		for j := 0; j < np; j++ {
			if i < 3 || len(allowedAngles) == 0 {
				angles[j] = 0
			} else {
				angles[j] = allowedAngles[rng.Intn(len(allowedAngles))]
			}
		}

		pop = append(pop, Chromosome{Order: order, Angles: angles})
	}
	return pop
}

func aspectRatio(t part.Template) float64 {
	bb := t.Shape.BoundingBox()
	lo, hi := bb.W, bb.H
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 1e-9 {
		lo = 1e-9
	}
	return hi / lo
}

func bboxPerimeter(t part.Template) float64 {
	bb := t.Shape.BoundingBox()
	return bb.W + bb.H
}
