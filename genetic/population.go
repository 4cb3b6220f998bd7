package genetic

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/game"
)

// Individual is one candidate weight vector and the fitness it last scored.
type Individual struct {
	Weights []float32
	Fitness float32
}

// RandomIndividual draws n weights in [0, maxWeight] and L1-normalizes them.
// Fitness starts at the lowest float32 so unevaluated individuals sort last.
func RandomIndividual(n int, rng *rand.Rand, maxWeight float32) Individual {
	w := RandomWeights(n, rng, maxWeight)
	NormalizeL1(w)
	return Individual{Weights: w, Fitness: -math.MaxFloat32}
}

func (ind Individual) clone() Individual {
	ind.Weights = slices.Clone(ind.Weights)
	return ind
}

// Population is one generation. Individuals[i].Weights is indexed like
// Features.
type Population struct {
	Features    evaluator.FeatureSet
	Individuals []Individual
}

func RandomPopulation(features evaluator.FeatureSet, count int, rng *rand.Rand, maxWeight float32) *Population {
	p := &Population{
		Features:    features,
		Individuals: make([]Individual, count),
	}
	for i := range p.Individuals {
		p.Individuals[i] = RandomIndividual(len(features), rng, maxWeight)
	}
	return p
}

// EvaluateFitness plays every individual against the same starting fields,
// one goroutine per individual, then sorts best first. The fields are only
// read; each session plays on its own clones.
func (p *Population) EvaluateFitness(fields []*game.Field, se evaluator.SessionEvaluator) {
	var g errgroup.Group
	for i := range p.Individuals {
		ind := &p.Individuals[i]
		g.Go(func() error {
			te := evaluator.NewTurnEvaluator(evaluator.NewPlacementEvaluator(p.Features, ind.Weights))
			ind.Fitness = se.Evaluate(fields, te)
			return nil
		})
	}
	// Units never fail; Wait is the barrier.
	_ = g.Wait()

	slices.SortStableFunc(p.Individuals, func(a, b Individual) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
}

// IsSortedByFitness reports whether individuals are in descending fitness order.
func (p *Population) IsSortedByFitness() bool {
	return slices.IsSortedFunc(p.Individuals, func(a, b Individual) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
}

// Best is the first individual. Only meaningful after EvaluateFitness.
func (p *Population) Best() Individual {
	return p.Individuals[0]
}

// WeightStats summarizes each feature's weight across the population.
func (p *Population) WeightStats() []Stats {
	out := make([]Stats, len(p.Features))
	col := make([]float32, len(p.Individuals))
	for f := range p.Features {
		for i, ind := range p.Individuals {
			col[i] = ind.Weights[f]
		}
		out[f] = NewStats(col)
	}
	return out
}

func (p *Population) FitnessStats() Stats {
	vals := make([]float32, len(p.Individuals))
	for i, ind := range p.Individuals {
		vals[i] = ind.Fitness
	}
	return NewStats(vals)
}
