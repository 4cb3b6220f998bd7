// Package model stores trained weights keyed by feature id, so stored models
// survive reordering of the registered features.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/genetic"
)

type Model struct {
	Name             string             `json:"name"`
	TrainedAt        time.Time          `json:"trained_at"`
	FinalFitness     float32            `json:"final_fitness"`
	PlacementWeights map[string]float32 `json:"placement_weights"`
}

// UnknownFeatureError means a stored weight names a feature that is not
// registered.
type UnknownFeatureError struct {
	ID string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("model: unknown feature id %q", e.ID)
}

// MissingWeightError means a registered feature has no stored weight.
type MissingWeightError struct {
	ID string
}

func (e *MissingWeightError) Error() string {
	return fmt.Sprintf("model: no weight for feature %q", e.ID)
}

// FromIndividual captures ind's weights under the ids of features.
func FromIndividual(name string, features evaluator.FeatureSet, ind genetic.Individual) *Model {
	if len(features) != len(ind.Weights) {
		panic(fmt.Sprintf("model: %d features, %d weights", len(features), len(ind.Weights)))
	}
	m := &Model{
		Name:             name,
		TrainedAt:        time.Now().UTC(),
		FinalFitness:     ind.Fitness,
		PlacementWeights: make(map[string]float32, len(features)),
	}
	for i, f := range features {
		m.PlacementWeights[f.ID] = ind.Weights[i]
	}
	return m
}

// Weights orders the stored weights like features. Every stored id must be
// registered and every feature must have a weight.
func (m *Model) Weights(features evaluator.FeatureSet) ([]float32, error) {
	for id := range m.PlacementWeights {
		if _, ok := features.Index(id); !ok {
			return nil, &UnknownFeatureError{ID: id}
		}
	}
	out := make([]float32, len(features))
	for i, f := range features {
		w, ok := m.PlacementWeights[f.ID]
		if !ok {
			return nil, &MissingWeightError{ID: f.ID}
		}
		out[i] = w
	}
	return out, nil
}

// TurnEvaluator builds the evaluator that plays with this model.
func (m *Model) TurnEvaluator(features evaluator.FeatureSet) (evaluator.TurnEvaluator, error) {
	w, err := m.Weights(features)
	if err != nil {
		return evaluator.TurnEvaluator{}, err
	}
	return evaluator.NewTurnEvaluator(evaluator.NewPlacementEvaluator(features, w)), nil
}

// Save writes the model as indented JSON, replacing path atomically.
func (m *Model) Save(path string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, b, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename model: %w", err)
	}
	return nil
}

func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(m.PlacementWeights) == 0 {
		return nil, fmt.Errorf("model %s has no placement weights", path)
	}
	return &m, nil
}
