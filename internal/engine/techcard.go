package engine

import "github.com/piwi3910/nestcore/internal/geo"

// TechCard summarizes a finished Result for a work-order report: sheets
// consumed, parts placed against the batch total, material used versus
// wasted, and an estimated cut time from the total perimeter cut.
type TechCard struct {
	SheetsUsed          int
	PartsPlaced         int
	PartsTotal          int
	MaterialUsedArea    float64
	MaterialWasteArea   float64
	TotalCutLengthMm    float64
	EstimatedCutTimeSec float64
}

// BuildTechCard computes a TechCard from res. cuttingSpeedMmPerSec of 0 or
// less leaves EstimatedCutTimeSec at 0 rather than dividing by zero.
func BuildTechCard(res Result, cuttingSpeedMmPerSec float64) TechCard {
	tc := TechCard{
		SheetsUsed:  len(res.Sheets),
		PartsPlaced: res.PlacedParts,
		PartsTotal:  res.TotalParts,
	}

	for _, s := range res.Sheets {
		tc.MaterialUsedArea += s.PlacedArea()
		tc.MaterialWasteArea += s.Width*s.Height - s.PlacedArea()
		for _, p := range s.Placed {
			tc.TotalCutLengthMm += perimeter(p.Shape.Verts)
		}
	}

	if cuttingSpeedMmPerSec > 0 {
		tc.EstimatedCutTimeSec = tc.TotalCutLengthMm / cuttingSpeedMmPerSec
	}
	return tc
}

func perimeter(verts []geo.Point) float64 {
	n := len(verts)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += verts[i].DistanceTo(verts[(i+1)%n])
	}
	return total
}
