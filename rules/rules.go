// Package rules enumerates the placements reachable from a field and applies
// a chosen turn.
//
// Enumeration is rotate-then-slide: every super rotation of the falling piece
// is slid left and right as far as it goes and then hard dropped. Sequences
// that rotate again after sliding are not modeled.
package rules

import (
	"iter"

	"github.com/brensch/tetrisga/game"
)

// Turn is one decision: optionally hold, then drop Placement.
type Turn struct {
	UseHold   bool
	Placement game.Piece
}

// AvailablePlacements yields the distinct resting positions reachable from p.
// Order is rotation first, then the unshifted drop, the left chain and the
// right chain.
func AvailablePlacements(b *game.Board, p game.Piece) iter.Seq[game.Piece] {
	return func(yield func(game.Piece) bool) {
		seen := make(map[game.Footprint]struct{}, 48)
		emit := func(q game.Piece) bool {
			drop := q.SimulateDropPosition(b)
			fp := drop.Footprint()
			if _, dup := seen[fp]; dup {
				return true
			}
			seen[fp] = struct{}{}
			return yield(drop)
		}

		for _, rot := range p.SuperRotations(b) {
			if !emit(rot) {
				return
			}
			for q := rot.Left(); !b.IsColliding(q); q = q.Left() {
				if !emit(q) {
					return
				}
			}
			for q := rot.Right(); !b.IsColliding(q); q = q.Right() {
				if !emit(q) {
					return
				}
			}
		}
	}
}

// AvailableTurns yields every turn for f: the no-hold branch first, then the
// hold branch when hold is legal.
func AvailableTurns(f *game.Field) iter.Seq[Turn] {
	return func(yield func(Turn) bool) {
		for p := range AvailablePlacements(f.Board(), f.Falling()) {
			if !yield(Turn{Placement: p}) {
				return
			}
		}

		if !f.CanHold() {
			return
		}
		held := f.Clone()
		if err := held.Hold(); err != nil {
			return
		}
		for p := range AvailablePlacements(held.Board(), held.Falling()) {
			if !yield(Turn{UseHold: true, Placement: p}) {
				return
			}
		}
	}
}

// ApplyTurn plays t on f and locks the piece. It returns the cleared line
// count; game.ErrTopOut means the game ended with this lock.
func ApplyTurn(f *game.Field, t Turn) (int, error) {
	if t.UseHold {
		if err := f.Hold(); err != nil {
			return 0, err
		}
	}
	if err := f.SetFalling(t.Placement); err != nil {
		return 0, err
	}
	return f.CompletePieceDrop()
}
