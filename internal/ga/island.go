package ga

import (
	"math/rand"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
)

// improvementEps is the minimum fitness gain that counts as an improvement
// rather than noise, for both island-local and global stagnation tracking.
const improvementEps = 1e-5

// localSearchTrials bounds the swap trials local search runs against an
// island's incumbent best after each generation that improves it.
const localSearchTrials = 8

// Island owns a private population, PRNG, adaptive parameters, and NFP
// cache; nothing about it is touched by any other island during evolution.
type Island struct {
	ID         int
	Pop        []Chromosome
	Cache      *nfpcache.Cache
	Params     AdaptiveParams
	RNG        *rand.Rand
	Stagnation int
	Best       Chromosome
}

// evolveIsland advances one island by a generation: elitism copies the top
// EliteCount chromosomes forward, the remainder is filled by tournament
// selection with crossover gated by the island's current crossover rate and
// always-applied mutation, the population is re-sorted, and local search
// polishes the incumbent best whenever it improves.
func evolveIsland(isl *Island, generation int, units []part.Template, tmpl SheetTemplate, cfg Config) {
	ps := len(isl.Pop)
	newPop := make([]Chromosome, 0, ps)

	eliteCount := cfg.EliteCount
	if eliteCount > ps {
		eliteCount = ps
	}
	for e := 0; e < eliteCount; e++ {
		newPop = append(newPop, isl.Pop[e])
	}

	for len(newPop) < ps {
		var child Chromosome
		if isl.RNG.Float64() < isl.Params.CrossoverRate {
			p1 := tournament(isl.Pop, isl.RNG, cfg.TournamentK)
			p2 := tournament(isl.Pop, isl.RNG, cfg.TournamentK)
			child = crossover(p1, p2, isl.RNG)
		} else {
			child = tournament(isl.Pop, isl.RNG, cfg.TournamentK).clone()
		}
		mutate(&child, isl.RNG, isl.Params, cfg.AllowedAngles)
		child.Fitness = evaluate(child, units, tmpl, isl.Cache)
		newPop = append(newPop, child)
	}

	isl.Pop = newPop
	sortByFitnessDesc(isl.Pop)

	if isl.Pop[0].Fitness > isl.Best.Fitness+improvementEps {
		isl.Best = isl.Pop[0]
		isl.Stagnation = 0
		localSearch(&isl.Best, localSearchTrials, units, tmpl, isl.Cache, cfg.AllowedAngles, isl.RNG)
		isl.Best.Fitness = evaluate(isl.Best, units, tmpl, isl.Cache)
		if isl.Best.Fitness > isl.Pop[0].Fitness {
			isl.Pop[0] = isl.Best
		}
	} else {
		isl.Stagnation++
	}

	isl.Params.Adapt(isl.Stagnation)

	if cfg.OnIslandProgress != nil && isl.ID == 0 && generation%10 == 0 {
		cfg.OnIslandProgress(isl.ID, generation, isl.Best.Fitness)
	}
}

// migrate sends each island's top MigrationCount chromosomes to the next
// island in ring order, replacing the recipient's worst-ranked entries
// whenever the migrant is fitter, then re-sorting the recipient.
func migrate(islands []*Island, migrationCount int) {
	ni := len(islands)
	if ni < 2 {
		return
	}

	migrants := make([][]Chromosome, ni)
	for i, isl := range islands {
		mc := migrationCount
		if mc > len(isl.Pop) {
			mc = len(isl.Pop)
		}
		migrants[i] = append([]Chromosome(nil), isl.Pop[:mc]...)
	}

	for i, isl := range islands {
		src := (i - 1 + ni) % ni
		for j, migrant := range migrants[src] {
			worst := len(isl.Pop) - 1 - j
			if worst >= 0 && migrant.Fitness > isl.Pop[worst].Fitness {
				isl.Pop[worst] = migrant
			}
		}
		sortByFitnessDesc(isl.Pop)
	}
}
