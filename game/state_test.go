package game

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestField(seed uint64) *Field {
	return NewField(rand.NewPCG(seed, 0x5eed))
}

func logField(t *testing.T, label string, f *Field) {
	t.Helper()
	held, ok := f.Held()
	t.Logf("%s falling=%v held=%v(%v) holdUsed=%v next=%v\n%s",
		label, f.Falling(), held, ok, f.HoldUsed(), f.NextPieces(5), dumpBoard(f.Board()))
}

func TestField_SpawnsFirstPiece(t *testing.T) {
	f := newTestField(1)
	p := f.Falling()
	if p.X != SpawnX || p.Y != SpawnY || p.Rotation != Rotation0 {
		t.Fatalf("unexpected spawn %v", p)
	}
	if f.Board().IsColliding(p) {
		t.Fatalf("spawned piece collides")
	}
}

func TestField_HoldCycle(t *testing.T) {
	f := newTestField(2)
	first := f.Falling().Kind
	next := f.NextPieces(1)[0]

	if !f.CanHold() {
		t.Fatalf("hold should be available")
	}
	if got := f.PeekHoldResult(); got != next {
		t.Fatalf("PeekHoldResult = %s, want %s", got, next)
	}
	if err := f.Hold(); err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if held, ok := f.Held(); !ok || held != first {
		t.Fatalf("held = %s(%v), want %s", held, ok, first)
	}
	if f.Falling() != NewPiece(next) {
		t.Fatalf("falling = %v, want spawned %s", f.Falling(), next)
	}

	if err := f.Hold(); !errors.Is(err, ErrHoldAlreadyUsed) {
		t.Fatalf("second hold err = %v", err)
	}
	if f.CanHold() {
		t.Fatalf("CanHold after use")
	}

	f.HardDrop()
	if _, err := f.CompletePieceDrop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if f.HoldUsed() {
		t.Fatalf("hold flag not reset on lock")
	}

	current := f.Falling().Kind
	if err := f.Hold(); err != nil {
		t.Fatalf("hold after lock: %v", err)
	}
	if held, _ := f.Held(); held != current || f.Falling().Kind != first {
		logField(t, "after swap", f)
		t.Fatalf("swap did not exchange pieces")
	}
}

func TestField_HoldCollisionLeavesStateUnchanged(t *testing.T) {
	f := newTestField(3)
	// Block the spawn row for everything except the piece already falling.
	f.board.rows[1] |= 0b1111 << SpawnX
	before := f.Clone()

	err := f.Hold()
	if !errors.Is(err, ErrHoldCollision) {
		t.Fatalf("err = %v, want ErrHoldCollision", err)
	}
	if !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("hold collision should wrap ErrPieceCollision")
	}
	if errors.Is(err, ErrHoldAlreadyUsed) {
		t.Fatalf("hold errors must be distinct")
	}
	if f.Falling() != before.Falling() || f.HoldUsed() {
		t.Fatalf("field mutated by failed hold")
	}
	if _, ok := f.Held(); ok {
		t.Fatalf("held slot filled by failed hold")
	}
	if f.CanHold() {
		t.Fatalf("CanHold should be false")
	}
}

func TestField_MovesRejectCollision(t *testing.T) {
	f := newTestField(4)
	for i := 0; i < PlayableWidth; i++ {
		_ = f.MoveLeft()
	}
	p := f.Falling()
	if err := f.MoveLeft(); !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("MoveLeft at wall err = %v", err)
	}
	if f.Falling() != p {
		t.Fatalf("failed move changed the piece")
	}
}

func TestField_MoveRightStopsAtWall(t *testing.T) {
	f := newTestField(4)
	for i := 0; i < PlayableWidth; i++ {
		_ = f.MoveRight()
	}
	p := f.Falling()
	if err := f.MoveRight(); !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("MoveRight at wall err = %v", err)
	}
	if f.Falling() != p {
		t.Fatalf("failed move changed the piece")
	}
	if !f.Board().IsColliding(p.Right()) {
		t.Fatalf("piece %v is not against the right wall", p)
	}
}

func TestField_SoftDrop(t *testing.T) {
	f := newTestField(8)
	start := f.Falling()
	if err := f.SoftDrop(); err != nil {
		t.Fatalf("SoftDrop: %v", err)
	}
	if got := f.Falling(); got != start.Down() {
		t.Fatalf("falling = %v, want %v", got, start.Down())
	}

	f.HardDrop()
	rest := f.Falling()
	if err := f.SoftDrop(); !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("SoftDrop at rest err = %v", err)
	}
	if f.Falling() != rest {
		t.Fatalf("failed soft drop moved %v to %v", rest, f.Falling())
	}
}

func TestField_RotateWithoutKick(t *testing.T) {
	f := newTestField(9)
	if err := f.SetFalling(NewPiece(KindT)); err != nil {
		t.Fatalf("SetFalling: %v", err)
	}
	if err := f.RotateRight(); err != nil {
		t.Fatalf("RotateRight: %v", err)
	}
	want := Piece{Kind: KindT, Rotation: RotationR, X: SpawnX, Y: SpawnY}
	if got := f.Falling(); got != want {
		t.Fatalf("falling = %v, want %v", got, want)
	}
	if err := f.RotateLeft(); err != nil {
		t.Fatalf("RotateLeft: %v", err)
	}
	if got := f.Falling(); got != NewPiece(KindT) {
		t.Fatalf("left rotation did not undo right: %v", got)
	}
}

func TestField_FourRotationsReturnToStart(t *testing.T) {
	for _, k := range AllKinds {
		f := newTestField(10)
		if err := f.SetFalling(NewPiece(k)); err != nil {
			t.Fatalf("%s: SetFalling: %v", k, err)
		}
		for i := 0; i < 4; i++ {
			if err := f.RotateLeft(); err != nil {
				t.Fatalf("%s: RotateLeft %d: %v", k, i, err)
			}
		}
		if got := f.Falling(); got != NewPiece(k) {
			t.Fatalf("%s: four left rotations gave %v", k, got)
		}
		for i := 0; i < 4; i++ {
			if err := f.RotateRight(); err != nil {
				t.Fatalf("%s: RotateRight %d: %v", k, i, err)
			}
		}
		if got := f.Falling(); got != NewPiece(k) {
			t.Fatalf("%s: four right rotations gave %v", k, got)
		}
	}
}

func TestField_RotateKicksOffWall(t *testing.T) {
	f := newTestField(11)
	// T in state R leaves its leftmost column empty, so it can sit with that
	// column inside the left wall. Rotating to state 2 needs that column.
	p := Piece{Kind: KindT, Rotation: RotationR, X: SentinelMargin - 1, Y: 5}
	if err := f.SetFalling(p); err != nil {
		t.Fatalf("SetFalling: %v", err)
	}
	if !f.Board().IsColliding(p.RotatedRight()) {
		t.Fatalf("plain rotation should collide")
	}
	if err := f.RotateRight(); err != nil {
		t.Fatalf("RotateRight: %v", err)
	}
	want := Piece{Kind: KindT, Rotation: Rotation2, X: SentinelMargin, Y: 5}
	if got := f.Falling(); got != want {
		t.Fatalf("kicked to %v, want %v", got, want)
	}
}

func TestField_RotateBlockedLeavesStateUnchanged(t *testing.T) {
	f := newTestField(12)
	// Fill the whole grid except the four cells of a T in state 0 at (5, 10).
	for y := range f.board.rows {
		f.board.rows[y] = fullRow
	}
	f.board.rows[10] &^= 0b010 << 5
	f.board.rows[11] &^= 0b111 << 5
	p := Piece{Kind: KindT, Rotation: Rotation0, X: 5, Y: 10}
	if err := f.SetFalling(p); err != nil {
		t.Fatalf("SetFalling: %v", err)
	}
	board := *f.Board()

	if err := f.RotateRight(); !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("RotateRight err = %v", err)
	}
	if err := f.RotateLeft(); !errors.Is(err, ErrPieceCollision) {
		t.Fatalf("RotateLeft err = %v", err)
	}
	if f.Falling() != p || *f.Board() != board {
		t.Fatalf("failed rotation mutated the field: falling %v", f.Falling())
	}
}

func TestField_TetrisUpdatesStats(t *testing.T) {
	f := newTestField(5)
	for y := PlayableHeight - 4; y < PlayableHeight; y++ {
		fillPlayableRow(&f.board, y, 9)
	}
	if err := f.SetFalling(Piece{Kind: KindI, Rotation: RotationR, X: 9, Y: 0}); err != nil {
		t.Fatalf("SetFalling: %v", err)
	}
	f.HardDrop()

	cleared, err := f.CompletePieceDrop()
	if err != nil || cleared != 4 {
		t.Fatalf("cleared=%d err=%v", cleared, err)
	}
	s := f.Stats()
	if s.LineClears[4] != 1 || s.TotalClearedLines != 4 || s.CompletedPieces != 1 || s.Score != 800 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestField_TopOut(t *testing.T) {
	f := newTestField(6)
	f.HardDrop()
	f.board.rows[0] |= 0b1111 << SpawnX
	f.board.rows[1] |= 0b1111 << SpawnX

	if _, err := f.CompletePieceDrop(); !errors.Is(err, ErrTopOut) {
		t.Fatalf("err = %v, want ErrTopOut", err)
	}
}

func TestField_CloneIsIndependent(t *testing.T) {
	f := newTestField(7)
	c := f.Clone()
	c.HardDrop()
	if _, err := c.CompletePieceDrop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if f.Stats().CompletedPieces != 0 || f.Board().MaxHeight() != 0 {
		t.Fatalf("clone mutation leaked into source field")
	}
	if f.NextPieces(1)[0] != c.Falling().Kind {
		t.Fatalf("clone did not draw the same next piece")
	}
}
