package ga

import (
	"math/rand"

	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
)

// tournament draws k candidates with replacement and returns the fittest.
func tournament(pop []Chromosome, rng *rand.Rand, k int) Chromosome {
	best := rng.Intn(len(pop))
	for i := 1; i < k; i++ {
		idx := rng.Intn(len(pop))
		if pop[idx].Fitness > pop[best].Fitness {
			best = idx
		}
	}
	return pop[best]
}

// pmxCrossover fills child[s..e] from p1, then for every other slot follows
// the p1->p2 substitution chain to find a value not already placed,
// backfilling any slot that chain can't resolve with the smallest-first
// missing values.
func pmxCrossover(p1, p2 []int, s, e int) []int {
	n := len(p1)
	child := make([]int, n)
	for i := range child {
		child[i] = -1
	}
	for i := s; i <= e; i++ {
		child[i] = p1[i]
	}

	contains := func(v int) bool {
		for _, c := range child {
			if c == v {
				return true
			}
		}
		return false
	}
	indexOf := func(s []int, v int) int {
		for i, x := range s {
			if x == v {
				return i
			}
		}
		return n
	}

	for i := 0; i < n; i++ {
		if i >= s && i <= e {
			continue
		}
		val := p2[i]
		tries := 0
		for contains(val) {
			pos := indexOf(p1, val)
			if pos >= n {
				break
			}
			val = p2[pos]
			tries++
			if tries > n {
				val = -1
				break
			}
		}
		if val != -1 {
			child[i] = val
		}
	}

	var missing []int
	for v := 0; v < n; v++ {
		if !contains(v) {
			missing = append(missing, v)
		}
	}
	mi := 0
	for i, cv := range child {
		if cv == -1 && mi < len(missing) {
			child[i] = missing[mi]
			mi++
		}
	}
	return child
}

// crossover produces a child's order via pmxCrossover over a uniformly
// random segment [s,e], then resolves angles by part identity: start from
// p2's full order-to-angle map, overwrite entries for part ids that came
// from p1's [s,e] segment, and look each child slot's angle up by the part
// id placed there rather than by slot index.
func crossover(p1, p2 Chromosome, rng *rand.Rand) Chromosome {
	n := len(p1.Order)
	if n == 0 {
		return p1.clone()
	}
	s, e := rng.Intn(n), rng.Intn(n)
	if s > e {
		s, e = e, s
	}

	child := Chromosome{Order: pmxCrossover(p1.Order, p2.Order, s, e), Angles: make([]float64, n)}

	angleOf := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		angleOf[p2.Order[i]] = p2.Angles[i]
	}
	for i := s; i <= e; i++ {
		angleOf[p1.Order[i]] = p1.Angles[i]
	}
	for i := 0; i < n; i++ {
		child.Angles[i] = angleOf[child.Order[i]]
	}
	return child
}

// mutate applies four independent operators — slot swap, sub-range reversal,
// cut-and-paste, and per-slot angle resample — each gated by its own
// probability derived from the island's current mutation rate.
func mutate(c *Chromosome, rng *rand.Rand, params AdaptiveParams, allowedAngles []float64) {
	n := len(c.Order)
	if n < 2 {
		return
	}
	mr := params.MutationRate

	if rng.Float64() < mr {
		a, b := rng.Intn(n), rng.Intn(n)
		c.Order[a], c.Order[b] = c.Order[b], c.Order[a]
		c.Angles[a], c.Angles[b] = c.Angles[b], c.Angles[a]
	}
	if rng.Float64() < mr*0.5 {
		a, b := rng.Intn(n), rng.Intn(n)
		if a > b {
			a, b = b, a
		}
		if b-a > 1 {
			reverseInts(c.Order[a : b+1])
			reverseFloats(c.Angles[a : b+1])
		}
	}
	if rng.Float64() < mr*0.3 {
		from, to := rng.Intn(n), rng.Intn(n)
		if from != to {
			valO := c.Order[from]
			valA := c.Angles[from]
			c.Order = append(c.Order[:from], c.Order[from+1:]...)
			c.Angles = append(c.Angles[:from], c.Angles[from+1:]...)
			if to >= len(c.Order) {
				to = len(c.Order) - 1
			}
			c.Order = append(c.Order[:to], append([]int{valO}, c.Order[to:]...)...)
			c.Angles = append(c.Angles[:to], append([]float64{valA}, c.Angles[to:]...)...)
		}
	}
	if len(allowedAngles) > 0 {
		for i := 0; i < n; i++ {
			if rng.Float64() < mr*0.25 {
				c.Angles[i] = allowedAngles[rng.Intn(len(allowedAngles))]
			}
		}
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseFloats(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// localSearch runs up to maxIter swap trials against an island's incumbent
// best, keeping each candidate only when it strictly improves fitness, so
// accepted improvements compound across trials.
func localSearch(c *Chromosome, maxIter int, units []part.Template, tmpl SheetTemplate, cache *nfpcache.Cache, allowedAngles []float64, rng *rand.Rand) {
	n := len(c.Order)
	if n < 2 {
		return
	}
	for k := 0; k < maxIter; k++ {
		a, b := rng.Intn(n), rng.Intn(n)
		if a == b {
			continue
		}
		cand := c.clone()
		cand.Order[a], cand.Order[b] = cand.Order[b], cand.Order[a]
		cand.Angles[a], cand.Angles[b] = cand.Angles[b], cand.Angles[a]

		if len(allowedAngles) > 0 && rng.Float64() < 0.3 {
			pick := a
			if rng.Float64() < 0.5 {
				pick = b
			}
			cand.Angles[pick] = allowedAngles[rng.Intn(len(allowedAngles))]
		}

		cand.Fitness = evaluate(cand, units, tmpl, cache)
		if cand.Fitness > c.Fitness {
			*c = cand
		}
	}
}
