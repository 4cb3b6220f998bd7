// Package selfplay runs a trained evaluator through whole games and records
// every placement for later analysis.
package selfplay

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/brensch/tetrisga/evaluator"
	"github.com/brensch/tetrisga/game"
	"github.com/brensch/tetrisga/store"
)

// seedStream is the second PCG word for every self-play game, so a single
// uint64 identifies a game.
const seedStream = 0x7e7215

// Record is one finished game.
type Record struct {
	Game  store.GameRow
	Turns []store.TurnRow
	Stats evaluator.SessionStats
}

// NewGameField is the starting field for seed.
func NewGameField(seed uint64) *game.Field {
	return game.NewField(rand.NewPCG(seed, seedStream))
}

// PlayGame plays seed's game with te until it tops out or turnLimit pieces
// are placed. onTurn, if non-nil, is called after every placement. A
// cancelled ctx aborts the game and returns ctx.Err().
func PlayGame(ctx context.Context, te evaluator.TurnEvaluator, seed uint64, turnLimit int, onTurn func()) (Record, error) {
	f := NewGameField(seed)
	gameID := uuid.NewString()
	turns := make([]store.TurnRow, 0, min(turnLimit, 1024))

	var s evaluator.SessionStats
	for s.Pieces < turnLimit {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		res, ok := te.SelectBestTurn(f)
		if !ok {
			s.ToppedOut = true
			break
		}
		f = res.Field
		s.Add(res)

		p := res.Turn.Placement
		turns = append(turns, store.TurnRow{
			GameID:    gameID,
			Turn:      int32(len(turns)),
			Kind:      p.Kind.String(),
			Rotation:  int32(p.Rotation),
			X:         int32(p.X),
			Y:         int32(p.Y),
			UseHold:   res.Turn.UseHold,
			Cleared:   int32(res.Cleared),
			MaxHeight: int32(f.Board().MaxHeight()),
			Score:     res.Score,
			Board:     store.EncodeBoardRows(playableRows(f.Board())),
		})
		if onTurn != nil {
			onTurn()
		}
		if res.ToppedOut {
			break
		}
	}
	s.Score = f.Stats().Score

	lineClears := make([]int32, len(s.LineClears))
	for i, c := range s.LineClears {
		lineClears[i] = int32(c)
	}
	return Record{
		Game: store.GameRow{
			GameID:         gameID,
			Seed:           int64(seed),
			Pieces:         int32(s.Pieces),
			Lines:          int32(s.Lines),
			LineClears:     lineClears,
			WorstMaxHeight: int32(s.WorstMaxHeight),
			ToppedOut:      s.ToppedOut,
			Score:          int32(s.Score),
		},
		Turns: turns,
		Stats: s,
	}, nil
}

// playableRows strips the walls: bit x of row y is playable cell (x, y).
func playableRows(b *game.Board) []uint16 {
	const mask = 1<<game.PlayableWidth - 1
	rows := make([]uint16, game.PlayableHeight)
	for y := range rows {
		rows[y] = (b.Row(game.PlayableTop+y) >> game.SentinelMargin) & mask
	}
	return rows
}
