package genetic

import (
	"fmt"
	"math/rand/v2"
)

// Evolver holds the parameters of one generation step. It carries no state,
// so callers may vary it per generation (see Schedule).
type Evolver struct {
	// EliteCount top individuals are copied unchanged.
	EliteCount int
	// MaxWeight bounds every weight after crossover and mutation.
	MaxWeight float32
	// TournamentSize distinct individuals compete for each parent slot.
	TournamentSize int
	MutationSigma  float32
	BLXAlpha       float32
	// MutationRate is the per-weight mutation probability.
	MutationRate float32
}

// Evolve builds the next generation from p, which must already be sorted
// best first. The returned individuals have zero fitness apart from the
// elites, which keep theirs.
func (e Evolver) Evolve(p *Population, rng *rand.Rand) *Population {
	if !p.IsSortedByFitness() {
		panic("genetic: Evolve called on a population not sorted by fitness")
	}
	if e.TournamentSize < 1 {
		panic(fmt.Sprintf("genetic: tournament size %d", e.TournamentSize))
	}

	size := len(p.Individuals)
	next := make([]Individual, 0, size)
	for _, ind := range p.Individuals[:min(e.EliteCount, size)] {
		next = append(next, ind.clone())
	}

	for len(next) < size {
		p1 := e.tournament(p.Individuals, rng)
		p2 := e.tournament(p.Individuals, rng)

		child := BlendCrossover(p1.Weights, p2.Weights, e.BLXAlpha, e.MaxWeight, rng)
		Mutate(child, e.MutationSigma, e.MaxWeight, e.MutationRate, rng)
		NormalizeL1(child)

		next = append(next, Individual{Weights: child})
	}

	return &Population{Features: p.Features, Individuals: next}
}

// tournament draws TournamentSize distinct individuals and returns the one
// with strictly highest fitness; the earliest draw wins ties.
func (e Evolver) tournament(pop []Individual, rng *rand.Rand) *Individual {
	k := min(e.TournamentSize, len(pop))

	// Partial Fisher-Yates over indices gives k distinct picks.
	idx := make([]int, len(pop))
	for i := range idx {
		idx[i] = i
	}
	var best *Individual
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		c := &pop[idx[i]]
		if best == nil || c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}
