package ga

import (
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
)

// Config controls one Run: population and island sizing, termination
// conditions, and the callbacks/cancellation the caller observes it with.
type Config struct {
	PopulationSize  int
	MaxGenerations  int
	TargetFitness   float64
	StagnationLimit int
	EliteCount      int
	TournamentK     int
	IslandCount     int // 0 = auto: clamp(GOMAXPROCS, 2, 4)
	MigrationEvery  int
	MigrationCount  int
	AllowedAngles   []float64

	// Seed drives every island's PRNG (island i uses Seed + i*104729 + 1); identical
	// Config, units, and Seed reproduce byte-identical results.
	Seed int64

	OnProgress       func(generation int, bestFitness float64) `json:"-"`
	OnIslandProgress func(islandID, generation int, fitness float64) `json:"-"`
	Cancel           *atomic.Bool `json:"-"`
}

// DefaultConfig returns the island-model defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize:  200,
		MaxGenerations:  500,
		TargetFitness:   0.97,
		StagnationLimit: 60,
		EliteCount:      4,
		TournamentK:     4,
		IslandCount:     0,
		MigrationEvery:  20,
		MigrationCount:  2,
		AllowedAngles:   []float64{0, 90, 180, 270},
	}
}

func resolveIslandCount(cfg Config) int {
	if cfg.IslandCount > 0 {
		return cfg.IslandCount
	}
	n := runtime.GOMAXPROCS(0)
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	return n
}

func cancelled(cfg Config) bool {
	return cfg.Cancel != nil && cfg.Cancel.Load()
}

// Run searches for the best order/angle assignment of units against an
// empty sheet built from tmpl: it evolves IslandCount (or auto-sized)
// islands in parallel, migrating on a ring topology every MigrationEvery
// generations, and returns the best chromosome found plus the merged NFP
// cache accumulated across every island.
func Run(units []part.Template, tmpl SheetTemplate, cfg Config) (Chromosome, *nfpcache.Cache) {
	shared := nfpcache.New()
	if len(units) == 0 {
		return Chromosome{}, shared
	}

	ni := resolveIslandCount(cfg)
	islandPop := cfg.PopulationSize / ni
	if islandPop < 10 {
		islandPop = 10
	}

	islands := make([]*Island, ni)
	for i := 0; i < ni; i++ {
		isl := &Island{
			ID:     i,
			Cache:  nfpcache.New(),
			Params: DefaultAdaptiveParams(),
			RNG:    rand.New(rand.NewSource(cfg.Seed + int64(i)*104729 + 1)),
		}
		isl.Pop = initPopulation(islandPop, units, cfg.AllowedAngles, isl.RNG)
		for j := range isl.Pop {
			isl.Pop[j].Fitness = evaluate(isl.Pop[j], units, tmpl, isl.Cache)
		}
		sortByFitnessDesc(isl.Pop)
		if len(isl.Pop) > 0 {
			isl.Best = isl.Pop[0]
		}
		islands[i] = isl
	}

	var globalBest Chromosome
	updateGlobal := func() {
		for _, isl := range islands {
			if isl.Best.Fitness > globalBest.Fitness {
				globalBest = isl.Best
			}
		}
	}
	updateGlobal()

	pool := newWorkerPool(ni)
	defer pool.close()

	globalStagnation := 0
	for gen := 0; gen < cfg.MaxGenerations; gen++ {
		if cancelled(cfg) {
			break
		}

		for _, isl := range islands {
			isl := isl
			pool.submit(func() { evolveIsland(isl, gen, units, tmpl, cfg) })
		}
		pool.wait()

		if (gen+1)%cfg.MigrationEvery == 0 {
			migrate(islands, cfg.MigrationCount)
		}

		prevBest := globalBest.Fitness
		updateGlobal()
		if globalBest.Fitness > prevBest+improvementEps {
			globalStagnation = 0
		} else {
			globalStagnation++
		}

		if cfg.OnProgress != nil {
			cfg.OnProgress(gen, globalBest.Fitness)
		}

		if globalBest.Fitness >= cfg.TargetFitness {
			break
		}
		if globalStagnation >= cfg.StagnationLimit {
			break
		}
	}

	for _, isl := range islands {
		isl.Cache.MergeInto(shared)
	}

	return globalBest, shared
}
