// Package genetic evolves placement weight vectors. A generation is a
// Population; Evolver.Evolve turns a fitness-sorted population into the next,
// unevaluated generation.
package genetic

import "math/rand/v2"

// RandomWeights draws n weights uniformly from [0, maxWeight].
func RandomWeights(n int, rng *rand.Rand, maxWeight float32) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = rng.Float32() * maxWeight
	}
	return w
}

// NormalizeL1 scales w in place so it sums to 1. Vectors whose sum is not
// positive are left untouched.
func NormalizeL1(w []float32) {
	var sum float32
	for _, x := range w {
		sum += x
	}
	if sum <= 0 {
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

// BlendCrossover is BLX-alpha: each child component is sampled uniformly from
// the parents' interval widened by alpha times its length on both sides,
// then clamped to [0, maxWeight].
func BlendCrossover(p1, p2 []float32, alpha, maxWeight float32, rng *rand.Rand) []float32 {
	if len(p1) != len(p2) {
		panic("genetic: crossover of different length parents")
	}
	child := make([]float32, len(p1))
	for i := range p1 {
		lo, hi := min(p1[i], p2[i]), max(p1[i], p2[i])
		d := hi - lo
		lo -= alpha * d
		hi += alpha * d
		x := min(lo+rng.Float32()*(hi-lo), hi)
		child[i] = clampWeight(x, maxWeight)
	}
	return child
}

// Mutate adds N(0, sigma²) noise to each weight with probability rate.
func Mutate(w []float32, sigma, maxWeight, rate float32, rng *rand.Rand) {
	for i := range w {
		if rng.Float32() < rate {
			w[i] = clampWeight(w[i]+float32(rng.NormFloat64())*sigma, maxWeight)
		}
	}
}

func clampWeight(x, maxWeight float32) float32 {
	return min(max(x, 0), maxWeight)
}
