package ga

import "testing"

func TestAdaptIncreasesMutationWhenStagnant(t *testing.T) {
	p := DefaultAdaptiveParams()
	before := p.MutationRate
	p.Adapt(11)
	if p.MutationRate <= before {
		t.Fatalf("expected mutation rate to increase under stagnation, got %v -> %v", before, p.MutationRate)
	}
	if p.CrossoverRate >= 0.88 {
		t.Fatalf("expected crossover rate to decrease under stagnation, got %v", p.CrossoverRate)
	}
}

func TestAdaptCapsMutationRate(t *testing.T) {
	p := AdaptiveParams{MutationRate: 0.39, CrossoverRate: 0.61}
	for i := 0; i < 20; i++ {
		p.Adapt(11)
	}
	if p.MutationRate > 0.40+1e-9 {
		t.Fatalf("mutation rate must cap at 0.40, got %v", p.MutationRate)
	}
	if p.CrossoverRate < 0.60-1e-9 {
		t.Fatalf("crossover rate must floor at 0.60, got %v", p.CrossoverRate)
	}
}

func TestAdaptDecreasesMutationWhenImproving(t *testing.T) {
	p := DefaultAdaptiveParams()
	before := p.MutationRate
	p.Adapt(1)
	if p.MutationRate >= before {
		t.Fatalf("expected mutation rate to decrease when not stagnant, got %v -> %v", before, p.MutationRate)
	}
}

func TestAdaptNoopInDeadZone(t *testing.T) {
	p := DefaultAdaptiveParams()
	before := p
	p.Adapt(5)
	if p != before {
		t.Fatalf("stagnation between 3 and 10 should leave params unchanged, got %+v -> %+v", before, p)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := Chromosome{Order: []int{0, 1, 2}, Angles: []float64{0, 90, 180}, Fitness: 0.5}
	clone := c.clone()
	clone.Order[0] = 99
	clone.Angles[0] = 270
	if c.Order[0] == 99 || c.Angles[0] == 270 {
		t.Fatal("clone must not alias the original's backing slices")
	}
}
