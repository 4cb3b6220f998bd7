package evaluator

import (
	"fmt"

	"github.com/brensch/tetrisga/game"
)

// SessionStats summarizes one played game.
type SessionStats struct {
	Pieces         int
	Lines          int
	LineClears     [5]int
	WorstMaxHeight int
	ToppedOut      bool
	Score          int
}

// Add accounts for one played turn.
func (s *SessionStats) Add(r TurnResult) {
	s.Pieces++
	s.Lines += r.Cleared
	s.LineClears[r.Cleared]++
	s.WorstMaxHeight = max(s.WorstMaxHeight, r.Field.Board().MaxHeight())
	if r.ToppedOut {
		s.ToppedOut = true
	}
}

// PlaySession plays f to the end or until turnLimit pieces have been placed.
// f is mutated.
func PlaySession(f *game.Field, te TurnEvaluator, turnLimit int) SessionStats {
	var s SessionStats
	for s.Pieces < turnLimit {
		res, ok := te.SelectBestTurn(f)
		if !ok {
			s.ToppedOut = true
			break
		}
		*f = *res.Field
		s.Add(res)
		if res.ToppedOut {
			break
		}
	}
	s.Score = f.Stats().Score
	return s
}

// Fitness reduces session stats to a scalar.
type Fitness uint8

const (
	// FitnessAggro favors multi-line clears, tolerating stacks up to ten high.
	FitnessAggro Fitness = iota
	// FitnessDefensive favors survival with a gentle height penalty.
	FitnessDefensive
)

var aggroLineWeights = [5]float32{0, 1, 3, 5, 8}

const aggroHeightThreshold = 10

func (ft Fitness) String() string {
	switch ft {
	case FitnessAggro:
		return "aggro"
	case FitnessDefensive:
		return "defensive"
	}
	return fmt.Sprintf("Fitness(%d)", uint8(ft))
}

// ParseFitness accepts the names String returns.
func ParseFitness(name string) (Fitness, error) {
	switch name {
	case "aggro":
		return FitnessAggro, nil
	case "defensive":
		return FitnessDefensive, nil
	}
	return 0, fmt.Errorf("unknown fitness %q (want aggro or defensive)", name)
}

func (ft Fitness) Score(s SessionStats, turnLimit int) float32 {
	survival := float32(s.Pieces) / float32(turnLimit)
	bonus := 2 * survival * survival
	pieces := float32(max(s.Pieces, 1))

	switch ft {
	case FitnessAggro:
		var weighted float32
		for n, count := range s.LineClears {
			weighted += aggroLineWeights[n] * float32(count)
		}
		efficiency := weighted / pieces
		penalty := float32(max(s.WorstMaxHeight-aggroHeightThreshold, 0)) / 5
		return bonus + efficiency*survival - penalty
	case FitnessDefensive:
		efficiency := float32(s.Lines) / pieces
		penalty := float32(s.WorstMaxHeight) / 20
		return bonus + efficiency*survival - penalty
	}
	panic(fmt.Sprintf("evaluator: unknown fitness %d", ft))
}

// SessionEvaluator plays a set of starting fields and averages their fitness.
type SessionEvaluator struct {
	TurnLimit int
	Fitness   Fitness
}

// Play runs one session per field. Fields are cloned, never mutated.
func (se SessionEvaluator) Play(fields []*game.Field, te TurnEvaluator) []SessionStats {
	out := make([]SessionStats, len(fields))
	for i, f := range fields {
		out[i] = PlaySession(f.Clone(), te, se.TurnLimit)
	}
	return out
}

// Evaluate returns the mean fitness over fields.
func (se SessionEvaluator) Evaluate(fields []*game.Field, te TurnEvaluator) float32 {
	if len(fields) == 0 {
		return 0
	}
	var sum float32
	for _, s := range se.Play(fields, te) {
		sum += se.Fitness.Score(s, se.TurnLimit)
	}
	return sum / float32(len(fields))
}
