// Package greedy implements the largest-area-first multi-sheet packer: it
// fills one sheet at a time via sheet.FindBestPlacement until a full pass
// places nothing.
package greedy

import (
	"sort"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/piwi3910/nestcore/internal/sheet"
)

// Result is the outcome of packing a batch of unit parts onto as many
// sheets as needed.
type Result struct {
	Sheets     []*sheet.Sheet
	Unplaced   []part.Template
	Diagnostics []string
}

// Pack sorts units by descending shape area and fills sheets one at a time:
// for each sheet, iterate the remaining units in order, placing each that
// fits and carrying the rest to the next sheet; stop opening new sheets once
// a full pass places nothing.
func Pack(units []part.Template, width, height, margin, gap float64, angles []float64, cache *nfpcache.Cache) Result {
	remaining := append([]part.Template(nil), units...)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Shape.Area() > remaining[j].Shape.Area()
	})

	var result Result
	for len(remaining) > 0 {
		s := sheet.New(width, height, margin, gap)
		var carried []part.Template
		placedAny := false

		for _, tpl := range remaining {
			pos, angle, ok := s.FindBestPlacement(tpl, angles, cache)
			if !ok {
				carried = append(carried, tpl)
				continue
			}
			placed := tpl.Place(pos, angle)
			s.Placed = append(s.Placed, placed)
			placedAny = true
		}

		if !placedAny {
			result.Unplaced = append(result.Unplaced, remaining...)
			result.Diagnostics = append(result.Diagnostics, "greedy: a full pass placed nothing, stopping")
			break
		}

		result.Sheets = append(result.Sheets, s)
		remaining = carried
	}

	return result
}
