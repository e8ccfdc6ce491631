package ga

import (
	"math/rand"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
)

func TestRunEmptyUnitsReturnsZeroChromosome(t *testing.T) {
	best, cache := Run(nil, SheetTemplate{Width: 10, Height: 10}, DefaultConfig())
	if best.Fitness != 0 || len(best.Order) != 0 {
		t.Fatalf("expected the zero chromosome for no units, got %+v", best)
	}
	if cache == nil {
		t.Fatal("expected a non-nil cache even for an empty run")
	}
}

func TestRunPlacesAllSmallSquaresOnLargeSheet(t *testing.T) {
	units := []part.Template{squareUnit(1, 5), squareUnit(2, 5), squareUnit(3, 5)}
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.MaxGenerations = 15
	cfg.IslandCount = 2
	cfg.Seed = 1

	best, _ := Run(units, SheetTemplate{Width: 100, Height: 100}, cfg)
	if best.Fitness < 0.5 {
		t.Fatalf("expected every small square to place on a large sheet, fitness was %v", best.Fitness)
	}
}

func TestRunIsDeterministicForAFixedSeed(t *testing.T) {
	units := []part.Template{squareUnit(1, 10), squareUnit(2, 15), squareUnit(3, 7), squareUnit(4, 12)}
	cfg := DefaultConfig()
	cfg.PopulationSize = 16
	cfg.MaxGenerations = 10
	cfg.IslandCount = 2
	cfg.Seed = 42

	best1, _ := Run(units, SheetTemplate{Width: 60, Height: 60}, cfg)
	best2, _ := Run(units, SheetTemplate{Width: 60, Height: 60}, cfg)

	if !reflect.DeepEqual(best1.Order, best2.Order) || !reflect.DeepEqual(best1.Angles, best2.Angles) || best1.Fitness != best2.Fitness {
		t.Fatalf("identical config/seed must reproduce the same best chromosome, got %+v vs %+v", best1, best2)
	}
}

func TestRunRespectsCancellationFlag(t *testing.T) {
	units := []part.Template{squareUnit(1, 10)}
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.MaxGenerations = 1000
	cfg.IslandCount = 2
	var cancelled atomic.Bool
	cancelled.Store(true)
	cfg.Cancel = &cancelled

	best, _ := Run(units, SheetTemplate{Width: 100, Height: 100}, cfg)
	// A pre-cancelled run still evaluates the initial population before the
	// generation loop observes cancellation, so a best chromosome exists.
	if best.Order == nil {
		t.Fatal("expected the initial best chromosome even when cancelled before any generation runs")
	}
}

func TestLocalSearchImprovesOrLeavesFitnessUnchanged(t *testing.T) {
	units := []part.Template{squareUnit(1, 10), squareUnit(2, 10), squareUnit(3, 50)}
	tmpl := SheetTemplate{Width: 80, Height: 80}
	rng := rand.New(rand.NewSource(5))
	c := Chromosome{Order: []int{2, 0, 1}, Angles: []float64{0, 0, 0}}
	cache := nfpcache.New()
	c.Fitness = evaluate(c, units, tmpl, cache)
	before := c.Fitness

	localSearch(&c, 8, units, tmpl, cache, []float64{0, 90}, rng)
	if c.Fitness < before-1e-12 {
		t.Fatalf("local search must never leave fitness worse than it started: %v -> %v", before, c.Fitness)
	}
}
