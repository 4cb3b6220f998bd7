// Package evaluator scores placements and plays sessions.
//
// A placement is analyzed on a copy of the board, every registered feature
// turns the analysis into a normalized value in [0,1] (higher is better), and
// the score is a weighted sum of those values. TurnEvaluator picks the best
// turn greedily and SessionEvaluator reduces whole games to a fitness.
package evaluator

import (
	"math/bits"

	"github.com/brensch/tetrisga/game"
)

const (
	centerColumnFirst = 3
	centerColumnLast  = 6

	playableBits = 1<<game.PlayableWidth - 1
)

// BoardAnalysis holds per-column measurements of a settled board.
type BoardAnalysis struct {
	Board           game.Board
	ColumnHeights   [game.PlayableWidth]uint8
	ColumnOccupied  [game.PlayableWidth]uint8
	ColumnWellDepth [game.PlayableWidth]uint8
}

func NewBoardAnalysis(b *game.Board) BoardAnalysis {
	a := BoardAnalysis{Board: *b, ColumnHeights: b.ColumnHeights()}

	for x := 0; x < game.PlayableWidth; x++ {
		h := int(a.ColumnHeights[x])
		for y := game.PlayableHeight - h; y < game.PlayableHeight; y++ {
			if b.IsPlayableCellOccupied(x, y) {
				a.ColumnOccupied[x]++
			}
		}
	}

	const edge = ^uint8(0)
	for x, h := range a.ColumnHeights {
		left, right := edge, edge
		if x > 0 {
			left = a.ColumnHeights[x-1]
		}
		if x < game.PlayableWidth-1 {
			right = a.ColumnHeights[x+1]
		}
		if h < left && h < right {
			a.ColumnWellDepth[x] = min(left, right) - h
		}
	}
	return a
}

// playableRow returns playable row y (0 = top) with walls stripped.
func (a *BoardAnalysis) playableRow(y int) uint16 {
	return a.Board.Row(game.PlayableTop+y) >> game.SentinelMargin & playableBits
}

// NumHoles counts empty cells with a filled cell somewhere above them.
func (a *BoardAnalysis) NumHoles() uint32 {
	var n uint32
	for x := range a.ColumnHeights {
		n += uint32(a.ColumnHeights[x] - a.ColumnOccupied[x])
	}
	return n
}

// SumOfHoleDepth weights each hole by the number of cells above it.
func (a *BoardAnalysis) SumOfHoleDepth() uint32 {
	var sum uint32
	for x, h := range a.ColumnHeights {
		depth := uint32(0)
		for y := game.PlayableHeight - int(h); y < game.PlayableHeight; y++ {
			if a.Board.IsPlayableCellOccupied(x, y) {
				depth++
				continue
			}
			sum += depth
			depth++
		}
	}
	return sum
}

func (a *BoardAnalysis) MaxHeight() uint8 {
	var m uint8
	for _, h := range a.ColumnHeights {
		m = max(m, h)
	}
	return m
}

func (a *BoardAnalysis) CenterColumnMaxHeight() uint8 {
	var m uint8
	for _, h := range a.ColumnHeights[centerColumnFirst : centerColumnLast+1] {
		m = max(m, h)
	}
	return m
}

func (a *BoardAnalysis) TotalHeight() uint32 {
	var sum uint32
	for _, h := range a.ColumnHeights {
		sum += uint32(h)
	}
	return sum
}

// RowTransitions counts occupancy changes between horizontally adjacent
// playable cells. Walls are ignored to keep the measure left-right symmetric.
func (a *BoardAnalysis) RowTransitions() uint32 {
	var n int
	for y := 0; y < game.PlayableHeight; y++ {
		r := a.playableRow(y)
		n += bits.OnesCount16((r ^ r>>1) & (playableBits >> 1))
	}
	return uint32(n)
}

// ColumnTransitions counts occupancy changes between vertically adjacent
// playable cells.
func (a *BoardAnalysis) ColumnTransitions() uint32 {
	var n int
	for y := 0; y < game.PlayableHeight-1; y++ {
		n += bits.OnesCount16(a.playableRow(y) ^ a.playableRow(y+1))
	}
	return uint32(n)
}

func (a *BoardAnalysis) SurfaceBumpiness() uint32 {
	var sum int
	for x := 1; x < game.PlayableWidth; x++ {
		sum += absInt(int(a.ColumnHeights[x]) - int(a.ColumnHeights[x-1]))
	}
	return uint32(sum)
}

// SurfaceRoughness sums the absolute discrete Laplacian of the height profile.
func (a *BoardAnalysis) SurfaceRoughness() uint32 {
	var sum int
	for x := 1; x < game.PlayableWidth-1; x++ {
		l, m, r := int(a.ColumnHeights[x-1]), int(a.ColumnHeights[x]), int(a.ColumnHeights[x+1])
		sum += absInt((r - m) - (m - l))
	}
	return uint32(sum)
}

// SumOfDeepWellDepth is Σ(depth-1) over wells deeper than one cell.
func (a *BoardAnalysis) SumOfDeepWellDepth() uint32 {
	var sum uint32
	for _, d := range a.ColumnWellDepth {
		if d > 1 {
			sum += uint32(d - 1)
		}
	}
	return sum
}

// EdgeIWellDepth is the deeper of the wells in the outermost columns.
func (a *BoardAnalysis) EdgeIWellDepth() uint8 {
	return max(a.ColumnWellDepth[0], a.ColumnWellDepth[game.PlayableWidth-1])
}

// PlacementAnalysis is the board that results from locking a placement.
type PlacementAnalysis struct {
	Placement    game.Piece
	ClearedLines int
	BoardAnalysis
}

// NewPlacementAnalysis locks p on a copy of before and analyzes the result.
func NewPlacementAnalysis(before *game.Board, p game.Piece) *PlacementAnalysis {
	board := before.Clone()
	board.FillPiece(p)
	cleared := board.ClearLines()
	return &PlacementAnalysis{
		Placement:     p,
		ClearedLines:  cleared,
		BoardAnalysis: NewBoardAnalysis(&board),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
