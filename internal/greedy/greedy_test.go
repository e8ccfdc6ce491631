package greedy

import (
	"testing"

	"github.com/piwi3910/nestcore/internal/geo"
	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectTemplate(id int, w, h float64) part.Template {
	return part.Template{
		ID: id, Name: "r", RequiredCount: 1,
		Shape: geo.Polygon{Verts: []geo.Point{
			{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
		}},
	}.Normalize()
}

func TestPackSingleSquareOneSheet(t *testing.T) {
	units := []part.Template{rectTemplate(1, 10, 10)}
	result := Pack(units, 100, 100, 0, 0, []float64{0}, nfpcache.New())

	require.Len(t, result.Sheets, 1)
	assert.Len(t, result.Sheets[0].Placed, 1)
	assert.Empty(t, result.Unplaced)
}

func TestPackSortsLargestFirst(t *testing.T) {
	units := []part.Template{
		rectTemplate(1, 5, 5),
		rectTemplate(2, 20, 20),
		rectTemplate(3, 10, 10),
	}
	result := Pack(units, 100, 100, 0, 0, []float64{0}, nfpcache.New())
	require.Len(t, result.Sheets, 1)
	require.Len(t, result.Sheets[0].Placed, 3)
	assert.Equal(t, 2, result.Sheets[0].Placed[0].PartID, "largest part should be placed first")
}

func TestPackOverflowsToSecondSheet(t *testing.T) {
	units := []part.Template{
		rectTemplate(1, 60, 60),
		rectTemplate(2, 60, 60),
		rectTemplate(3, 60, 60),
	}
	result := Pack(units, 100, 100, 0, 0, []float64{0}, nfpcache.New())
	require.Len(t, result.Sheets, 3)
	for _, s := range result.Sheets {
		assert.Len(t, s.Placed, 1)
	}
}

func TestPackUnplaceableReportsUnplaced(t *testing.T) {
	units := []part.Template{rectTemplate(1, 20, 5)}
	result := Pack(units, 10, 10, 0, 0, []float64{0, 90}, nfpcache.New())
	assert.Empty(t, result.Sheets)
	assert.Len(t, result.Unplaced, 1)
	assert.NotEmpty(t, result.Diagnostics)
}
