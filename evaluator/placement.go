package evaluator

import "fmt"

// PlacementEvaluator is the linear scorer: Σ wᵢ · normalizedᵢ.
type PlacementEvaluator struct {
	features FeatureSet
	weights  []float32
}

// NewPlacementEvaluator pairs features with weights by position. It panics if
// the lengths differ.
func NewPlacementEvaluator(features FeatureSet, weights []float32) PlacementEvaluator {
	if len(features) != len(weights) {
		panic(fmt.Sprintf("evaluator: %d features but %d weights", len(features), len(weights)))
	}
	w := make([]float32, len(weights))
	copy(w, weights)
	return PlacementEvaluator{features: features, weights: w}
}

func (e PlacementEvaluator) Features() FeatureSet { return e.features }
func (e PlacementEvaluator) Weights() []float32   { return e.weights }

func (e PlacementEvaluator) Score(a *PlacementAnalysis) float32 {
	var score float32
	for i, f := range e.features {
		score += e.weights[i] * f.Normalized(a)
	}
	return score
}

// Contribution is one feature's share of a score.
type Contribution struct {
	FeatureID string
	Value
	Weight float32
	Score  float32
}

// Explain breaks Score down per feature.
func (e PlacementEvaluator) Explain(a *PlacementAnalysis) []Contribution {
	out := make([]Contribution, len(e.features))
	for i, f := range e.features {
		v := f.Compute(a)
		out[i] = Contribution{FeatureID: f.ID, Value: v, Weight: e.weights[i], Score: e.weights[i] * v.Normalized}
	}
	return out
}
