package game

import "strings"

// Block is the display state of a single cell.
type Block uint8

const (
	BlockEmpty Block = iota
	BlockWall
	BlockGhost
	// blockPieceBase + kind encodes a locked cell of that kind.
	blockPieceBase
)

// BlockPiece returns the block for a locked cell of kind k.
func BlockPiece(k PieceKind) Block {
	return blockPieceBase + Block(k)
}

// Kind reports the piece kind of a locked block.
func (b Block) Kind() (PieceKind, bool) {
	if b < blockPieceBase {
		return 0, false
	}
	return PieceKind(b - blockPieceBase), true
}

func (b Block) IsEmpty() bool { return b == BlockEmpty || b == BlockGhost }

// BlockBoard mirrors Board cell for cell, keeping which kind filled each cell.
type BlockBoard struct {
	cells [TotalHeight][TotalWidth]Block
}

func NewBlockBoard() BlockBoard {
	var bb BlockBoard
	for y := range bb.cells {
		for x := range bb.cells[y] {
			wall := x < SentinelMargin || x >= TotalWidth-SentinelMargin || y >= PlayableBottom
			if wall {
				bb.cells[y][x] = BlockWall
			}
		}
	}
	return bb
}

func (bb *BlockBoard) Cell(x, y int) Block {
	return bb.cells[y][x]
}

// PlayableCell returns the block at playable coordinates.
func (bb *BlockBoard) PlayableCell(x, y int) Block {
	return bb.cells[PlayableTop+y][SentinelMargin+x]
}

func (bb *BlockBoard) FillPiece(p Piece) {
	bb.fill(p, BlockPiece(p.Kind))
}

// FillGhost marks p's cells as ghost cells wherever they are empty.
func (bb *BlockBoard) FillGhost(p Piece) {
	p.Cells(func(x, y int) {
		if inGrid(x, y) && bb.cells[y][x] == BlockEmpty {
			bb.cells[y][x] = BlockGhost
		}
	})
}

func (bb *BlockBoard) fill(p Piece, b Block) {
	p.Cells(func(x, y int) {
		if inGrid(x, y) {
			bb.cells[y][x] = b
		}
	})
}

// ClearLines applies the same compaction as Board.ClearLines.
func (bb *BlockBoard) ClearLines() int {
	count := 0
	for y := PlayableBottom - 1; y >= PlayableTop; y-- {
		if bb.isRowFull(y) {
			count++
			continue
		}
		if count > 0 {
			bb.cells[y+count] = bb.cells[y]
		}
	}
	for y := PlayableTop; y < PlayableTop+count; y++ {
		bb.cells[y] = emptyBlockRow
	}
	return count
}

func (bb *BlockBoard) isRowFull(y int) bool {
	for x := SentinelMargin; x < TotalWidth-SentinelMargin; x++ {
		if bb.cells[y][x].IsEmpty() {
			return false
		}
	}
	return true
}

// String renders the playable area, one line per row, top first.
// Locked cells show their kind, ghosts show '+', empty cells show '.'.
func (bb *BlockBoard) String() string {
	var sb strings.Builder
	for y := 0; y < PlayableHeight; y++ {
		for x := 0; x < PlayableWidth; x++ {
			b := bb.PlayableCell(x, y)
			switch k, ok := b.Kind(); {
			case ok:
				sb.WriteString(k.String())
			case b == BlockGhost:
				sb.WriteByte('+')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var emptyBlockRow = func() [TotalWidth]Block {
	var row [TotalWidth]Block
	for x := range row {
		if x < SentinelMargin || x >= TotalWidth-SentinelMargin {
			row[x] = BlockWall
		}
	}
	return row
}()

func inGrid(x, y int) bool {
	return x >= 0 && x < TotalWidth && y >= 0 && y < TotalHeight
}
