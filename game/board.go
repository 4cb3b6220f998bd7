// Package game defines the core board, piece and field types for Tetris.
//
// The board is stored as one bit row per line so collision tests and line
// clears are a handful of integer operations. Boards are plain arrays and are
// copied by value, which keeps speculative simulation cheap.
package game

const (
	PlayableWidth  = 10
	PlayableHeight = 20

	// SentinelMargin is the number of wall columns on each side and the
	// number of spawn rows above / floor rows below the playable area.
	SentinelMargin = 2

	TotalWidth  = PlayableWidth + 2*SentinelMargin
	TotalHeight = PlayableHeight + 2*SentinelMargin

	// PlayableTop and PlayableBottom bound the playable rows (inclusive, exclusive).
	PlayableTop    = SentinelMargin
	PlayableBottom = SentinelMargin + PlayableHeight
)

const (
	fullRow      uint16 = 1<<TotalWidth - 1
	sentinelMask uint16 = 0b11 | 0b11<<(TotalWidth-SentinelMargin)
	playableMask        = fullRow &^ sentinelMask
	emptyRow            = sentinelMask
)

// Board is the collision board. Bit x of rows[y] is set when cell (x, y) is
// occupied or a wall. Coordinates include the sentinel margin; (0,0) is the
// top-left corner.
type Board struct {
	rows [TotalHeight]uint16
}

// NewBoard returns an empty board with walls and floor in place.
func NewBoard() Board {
	var b Board
	for y := range b.rows {
		switch {
		case y >= PlayableBottom:
			b.rows[y] = fullRow
		default:
			b.rows[y] = emptyRow
		}
	}
	return b
}

// Clone returns a copy of the board.
func (b *Board) Clone() Board {
	return *b
}

// Row returns the raw bit row at absolute y.
func (b *Board) Row(y int) uint16 {
	return b.rows[y]
}

// IsColliding reports whether any occupied cell of p lies outside the grid
// or overlaps a filled cell.
func (b *Board) IsColliding(p Piece) bool {
	mask := p.Mask()
	for r, m := range mask {
		if m == 0 {
			continue
		}
		y := p.Y + r
		if y < 0 || y >= TotalHeight {
			return true
		}
		shifted, ok := shiftRow(m, p.X)
		if !ok {
			return true
		}
		if shifted&b.rows[y] != 0 {
			return true
		}
	}
	return false
}

// FillPiece stamps p onto the board. p must not collide.
func (b *Board) FillPiece(p Piece) {
	mask := p.Mask()
	for r, m := range mask {
		if m == 0 {
			continue
		}
		shifted, _ := shiftRow(m, p.X)
		b.rows[p.Y+r] |= shifted
	}
}

// ClearLines removes every full playable row, compacts the rows above it
// downward and returns the number of rows removed.
func (b *Board) ClearLines() int {
	count := 0
	for y := PlayableBottom - 1; y >= PlayableTop; y-- {
		if b.rows[y] == fullRow {
			count++
			continue
		}
		if count > 0 {
			b.rows[y+count] = b.rows[y]
		}
	}
	for y := PlayableTop; y < PlayableTop+count; y++ {
		b.rows[y] = emptyRow
	}
	return count
}

// FillPlayableCell marks a single playable cell as occupied. Used to set up
// positions; play goes through FillPiece.
func (b *Board) FillPlayableCell(x, y int) {
	b.rows[PlayableTop+y] |= 1 << (SentinelMargin + x)
}

// FillCell marks the absolute cell (x, y) as occupied.
func (b *Board) FillCell(x, y int) {
	b.rows[y] |= 1 << x
}

// IsPlayableCellOccupied reports whether the playable cell (x, y) is filled.
// x is in [0, PlayableWidth) and y in [0, PlayableHeight), y=0 being the top row.
func (b *Board) IsPlayableCellOccupied(x, y int) bool {
	return b.rows[PlayableTop+y]&(1<<(SentinelMargin+x)) != 0
}

// IsPlayableRowEmpty reports whether playable row y has no filled cells.
func (b *Board) IsPlayableRowEmpty(y int) bool {
	return b.rows[PlayableTop+y]&playableMask == 0
}

// ColumnHeights returns the height of each playable column: the distance
// from the floor to the topmost filled cell, or 0 for an empty column.
func (b *Board) ColumnHeights() [PlayableWidth]uint8 {
	var heights [PlayableWidth]uint8
	for x := 0; x < PlayableWidth; x++ {
		for y := 0; y < PlayableHeight; y++ {
			if b.IsPlayableCellOccupied(x, y) {
				heights[x] = uint8(PlayableHeight - y)
				break
			}
		}
	}
	return heights
}

// MaxHeight returns the tallest column height.
func (b *Board) MaxHeight() int {
	for y := 0; y < PlayableHeight; y++ {
		if !b.IsPlayableRowEmpty(y) {
			return PlayableHeight - y
		}
	}
	return 0
}

// shiftRow moves a piece row mask to column x. It reports false when any bit
// would fall off either edge of the grid.
func shiftRow(m uint16, x int) (uint16, bool) {
	if x < 0 {
		if low := uint16(1)<<uint(-x) - 1; m&low != 0 {
			return 0, false
		}
		return m >> -x, true
	}
	if x >= TotalWidth {
		return 0, false
	}
	shifted := uint32(m) << x
	if shifted&^uint32(fullRow) != 0 {
		return 0, false
	}
	return uint16(shifted), true
}
