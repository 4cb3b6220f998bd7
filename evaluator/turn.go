package evaluator

import (
	"errors"
	"math"

	"github.com/brensch/tetrisga/game"
	"github.com/brensch/tetrisga/rules"
)

// TurnEvaluator is a greedy one-ply search over every available turn.
type TurnEvaluator struct {
	Placement PlacementEvaluator
}

func NewTurnEvaluator(pe PlacementEvaluator) TurnEvaluator {
	return TurnEvaluator{Placement: pe}
}

// TurnResult is a scored turn together with the field it leads to.
type TurnResult struct {
	Turn    rules.Turn
	Field   *game.Field
	Cleared int
	Score   float32
	// ToppedOut is set when locking the turn ended the game.
	ToppedOut bool
}

// SelectBestTurn returns the highest scoring turn and the field after it has
// been played. The first candidate wins ties. A turn that ends the game scores
// exactly 0. It reports false only when f offers no turn at all.
func (te TurnEvaluator) SelectBestTurn(f *game.Field) (TurnResult, bool) {
	var (
		best  TurnResult
		found bool
	)
	best.Score = -math.MaxFloat32
	for turn := range rules.AvailableTurns(f) {
		res, ok := te.scoreTurn(f, turn)
		if !ok {
			continue
		}
		if !found || res.Score > best.Score {
			best, found = res, true
		}
	}
	return best, found
}

// ScoreTurn plays turn on a copy of f and scores the result.
func (te TurnEvaluator) ScoreTurn(f *game.Field, turn rules.Turn) (float32, bool) {
	res, ok := te.scoreTurn(f, turn)
	return res.Score, ok
}

func (te TurnEvaluator) scoreTurn(f *game.Field, turn rules.Turn) (TurnResult, bool) {
	next := f.Clone()
	cleared, err := rules.ApplyTurn(next, turn)
	res := TurnResult{Turn: turn, Field: next, Cleared: cleared}
	switch {
	case errors.Is(err, game.ErrTopOut):
		res.ToppedOut = true
		return res, true
	case err != nil:
		return TurnResult{}, false
	}
	res.Score = te.Placement.Score(NewPlacementAnalysis(f.Board(), turn.Placement))
	return res, true
}

// Analyze returns the per-feature breakdown for turn played on f.
func (te TurnEvaluator) Analyze(f *game.Field, turn rules.Turn) []Contribution {
	return te.Placement.Explain(NewPlacementAnalysis(f.Board(), turn.Placement))
}
