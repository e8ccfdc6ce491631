// Package ga implements the island-model genetic algorithm that searches
// over part orderings and per-slot rotation angles for a single sheet: each
// chromosome is simulated with sheet.FindBestPlacement to score it, islands
// evolve independently between generations, and a ring migration exchanges
// top performers on a fixed schedule.
package ga

import "sort"

// Chromosome is a candidate nesting order: order[i] indexes into the unit
// part slice supplied to Run, and angles[i] is the rotation applied to that
// slot when the chromosome is simulated.
type Chromosome struct {
	Order   []int
	Angles  []float64
	Fitness float64
}

// clone deep-copies a chromosome so mutation operators never alias a
// parent's backing slices.
func (c Chromosome) clone() Chromosome {
	out := Chromosome{
		Order:   make([]int, len(c.Order)),
		Angles:  make([]float64, len(c.Angles)),
		Fitness: c.Fitness,
	}
	copy(out.Order, c.Order)
	copy(out.Angles, c.Angles)
	return out
}

// sortByFitnessDesc sorts a population so the fittest chromosome is first.
func sortByFitnessDesc(pop []Chromosome) {
	sort.Slice(pop, func(i, j int) bool { return pop[i].Fitness > pop[j].Fitness })
}

// AdaptiveParams holds the mutation and crossover rates an island tunes
// after every generation based on how long it has gone without improving.
type AdaptiveParams struct {
	MutationRate  float64
	CrossoverRate float64
}

// DefaultAdaptiveParams returns the island starting point: a mutation rate
// of 0.14 and crossover rate of 0.88.
func DefaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{MutationRate: 0.14, CrossoverRate: 0.88}
}

// Adapt nudges the rates toward more exploration when an island has
// stagnated for more than 10 generations, and toward more exploitation once
// it has improved within the last 3.
func (p *AdaptiveParams) Adapt(stagnation int) {
	switch {
	case stagnation > 10:
		p.MutationRate = min64(0.40, p.MutationRate*1.15)
		p.CrossoverRate = max64(0.60, p.CrossoverRate*0.97)
	case stagnation < 3:
		p.MutationRate = max64(0.05, p.MutationRate*0.95)
		p.CrossoverRate = min64(0.95, p.CrossoverRate*1.01)
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
