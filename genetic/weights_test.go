package genetic

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x5eed))
}

func sum(w []float32) float32 {
	var s float32
	for _, x := range w {
		s += x
	}
	return s
}

func TestNormalizeL1_Idempotent(t *testing.T) {
	rng := testRNG(1)
	for trial := 0; trial < 50; trial++ {
		w := RandomWeights(12, rng, 1)
		NormalizeL1(w)
		once := slices.Clone(w)
		NormalizeL1(w)
		for i := range w {
			if math.Abs(float64(w[i]-once[i])) > 1e-6 {
				t.Fatalf("trial %d: renormalizing changed %v to %v", trial, once, w)
			}
		}
		if math.Abs(float64(sum(w)-1)) > 1e-5 {
			t.Fatalf("sum = %v", sum(w))
		}
	}
}

func TestNormalizeL1_SkipsDegenerate(t *testing.T) {
	w := []float32{0, 0, 0}
	NormalizeL1(w)
	if !slices.Equal(w, []float32{0, 0, 0}) {
		t.Fatalf("zero vector changed: %v", w)
	}
}

func TestBlendCrossover_AlphaZeroStaysBetweenParents(t *testing.T) {
	rng := testRNG(2)
	p1 := []float32{0.1, 0.5, 0.3, 0.3}
	p2 := []float32{0.4, 0.2, 0.3, 0.0}
	for trial := 0; trial < 1000; trial++ {
		c := BlendCrossover(p1, p2, 0, 1, rng)
		for i := range c {
			lo, hi := min(p1[i], p2[i]), max(p1[i], p2[i])
			if c[i] < lo || c[i] > hi {
				t.Fatalf("component %d = %v outside [%v, %v]", i, c[i], lo, hi)
			}
		}
	}
}

func TestBlendCrossover_ClampsToMaxWeight(t *testing.T) {
	rng := testRNG(3)
	p1 := []float32{0, 0.5}
	p2 := []float32{0.5, 0.5}
	for trial := 0; trial < 1000; trial++ {
		c := BlendCrossover(p1, p2, 2, 0.5, rng)
		for _, x := range c {
			if x < 0 || x > 0.5 {
				t.Fatalf("child %v out of [0, 0.5]", c)
			}
		}
	}
}

func TestMutate_RateZeroIsNoOp(t *testing.T) {
	rng := testRNG(4)
	w := []float32{0.2, 0.3, 0.5}
	before := slices.Clone(w)
	Mutate(w, 1, 1, 0, rng)
	if !slices.Equal(w, before) {
		t.Fatalf("mutated with rate 0: %v", w)
	}
}

func TestMutate_Clamps(t *testing.T) {
	rng := testRNG(5)
	w := make([]float32, 500)
	Mutate(w, 10, 0.25, 1, rng)
	for _, x := range w {
		if x < 0 || x > 0.25 {
			t.Fatalf("weight %v escaped [0, 0.25]", x)
		}
	}
}
