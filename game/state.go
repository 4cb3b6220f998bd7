package game

import "math/rand/v2"

// Field is the complete state of one game: board, falling piece, hold slot
// and upcoming queue. All mutating actions live here.
type Field struct {
	board   Board
	blocks  BlockBoard
	falling Piece

	held     PieceKind
	hasHeld  bool
	holdUsed bool

	bag   *PieceBag
	stats Stats
}

// NewField starts a game whose piece sequence is drawn from src.
func NewField(src *rand.PCG) *Field {
	bag := NewPieceBag(src)
	return &Field{
		board:   NewBoard(),
		blocks:  NewBlockBoard(),
		falling: NewPiece(bag.Next()),
		bag:     bag,
	}
}

// Clone performs a deep copy of the field.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	out := *f
	out.bag = f.bag.Clone()
	return &out
}

func (f *Field) Board() *Board       { return &f.board }
func (f *Field) Blocks() *BlockBoard { return &f.blocks }
func (f *Field) Falling() Piece      { return f.falling }
func (f *Field) HoldUsed() bool      { return f.holdUsed }
func (f *Field) Stats() Stats        { return f.stats }

// Held returns the held kind, if any.
func (f *Field) Held() (PieceKind, bool) {
	return f.held, f.hasHeld
}

// NextPieces returns the next n queued kinds.
func (f *Field) NextPieces(n int) []PieceKind {
	return f.bag.Upcoming(n)
}

// SetFalling replaces the falling piece if p fits.
func (f *Field) SetFalling(p Piece) error {
	if f.board.IsColliding(p) {
		return ErrPieceCollision
	}
	f.falling = p
	return nil
}

func (f *Field) MoveLeft() error  { return f.SetFalling(f.falling.Left()) }
func (f *Field) MoveRight() error { return f.SetFalling(f.falling.Right()) }
func (f *Field) SoftDrop() error  { return f.SetFalling(f.falling.Down()) }

func (f *Field) RotateRight() error {
	p, ok := f.falling.SuperRotatedRight(&f.board)
	if !ok {
		return ErrPieceCollision
	}
	f.falling = p
	return nil
}

func (f *Field) RotateLeft() error {
	p, ok := f.falling.SuperRotatedLeft(&f.board)
	if !ok {
		return ErrPieceCollision
	}
	f.falling = p
	return nil
}

// HardDrop moves the falling piece to its resting position without locking it.
func (f *Field) HardDrop() {
	f.falling = f.falling.SimulateDropPosition(&f.board)
}

// PeekHoldResult returns the kind that would become the falling piece if
// hold were used now.
func (f *Field) PeekHoldResult() PieceKind {
	if f.hasHeld {
		return f.held
	}
	return f.bag.Peek(0)
}

func (f *Field) CanHold() bool {
	if f.holdUsed {
		return false
	}
	return !f.board.IsColliding(NewPiece(f.PeekHoldResult()))
}

// Hold swaps the falling piece with the held one, or with the next queued
// piece if the slot is empty. On error the field is unchanged.
func (f *Field) Hold() error {
	if f.holdUsed {
		return ErrHoldAlreadyUsed
	}
	next := NewPiece(f.PeekHoldResult())
	if f.board.IsColliding(next) {
		return ErrHoldCollision
	}
	if !f.hasHeld {
		f.bag.Next()
	}
	f.held, f.hasHeld = f.falling.Kind, true
	f.falling = next
	f.holdUsed = true
	return nil
}

// CompletePieceDrop locks the falling piece where it is, clears lines and
// spawns the next piece. It returns the number of cleared lines; ErrTopOut
// means the game is over and the field must not be played further.
func (f *Field) CompletePieceDrop() (int, error) {
	f.board.FillPiece(f.falling)
	f.blocks.FillPiece(f.falling)
	cleared := f.board.ClearLines()
	f.blocks.ClearLines()
	f.stats.complete(cleared)
	f.holdUsed = false

	next := NewPiece(f.bag.Next())
	f.falling = next
	if f.board.IsColliding(next) {
		return cleared, ErrTopOut
	}
	return cleared, nil
}
