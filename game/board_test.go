package game

import (
	"strings"
	"testing"
)

// dumpBoard is a test helper to visualize the playable area.
func dumpBoard(b *Board) string {
	var sb strings.Builder
	for y := 0; y < PlayableHeight; y++ {
		for x := 0; x < PlayableWidth; x++ {
			if b.IsPlayableCellOccupied(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// fillPlayableRow fills playable row y, leaving the listed columns empty.
func fillPlayableRow(b *Board, y int, holes ...int) {
	row := b.rows[PlayableTop+y] | playableMask
	for _, x := range holes {
		row &^= 1 << (SentinelMargin + x)
	}
	b.rows[PlayableTop+y] = row
}

func TestNewBoard_Layout(t *testing.T) {
	b := NewBoard()
	for y := 0; y < PlayableBottom; y++ {
		if b.Row(y) != sentinelMask {
			t.Fatalf("row %d = %014b, want walls only", y, b.Row(y))
		}
	}
	for y := PlayableBottom; y < TotalHeight; y++ {
		if b.Row(y) != fullRow {
			t.Fatalf("floor row %d = %014b, want full", y, b.Row(y))
		}
	}
	if h := b.MaxHeight(); h != 0 {
		t.Fatalf("MaxHeight = %d, want 0", h)
	}
}

func TestDropO_LandsOnFloor(t *testing.T) {
	b := NewBoard()
	p := NewPiece(KindO).SimulateDropPosition(&b)

	if p.Y != PlayableBottom-2 {
		t.Fatalf("O landed at y=%d, want %d", p.Y, PlayableBottom-2)
	}
	if b.IsColliding(p) {
		t.Fatalf("resting O collides: %v", p)
	}
	if !b.IsColliding(p.Down()) {
		t.Fatalf("O one row below rest should collide: %v", p.Down())
	}

	b.FillPiece(p)
	if !b.IsPlayableCellOccupied(3, PlayableHeight-1) || !b.IsPlayableCellOccupied(4, PlayableHeight-1) {
		t.Fatalf("O not on the bottom row:\n%s", dumpBoard(&b))
	}
	if h := b.MaxHeight(); h != 2 {
		t.Fatalf("MaxHeight = %d, want 2\n%s", h, dumpBoard(&b))
	}
}

func TestIsColliding_OutOfGrid(t *testing.T) {
	b := NewBoard()
	cases := []Piece{
		{Kind: KindI, X: -5, Y: 5},
		{Kind: KindI, X: TotalWidth, Y: 5},
		{Kind: KindO, X: 5, Y: -2},
		{Kind: KindO, X: 5, Y: TotalHeight},
		// inside the grid but overlapping the left wall
		{Kind: KindI, X: 0, Y: 5},
	}
	for _, p := range cases {
		if !b.IsColliding(p) {
			t.Errorf("%v should collide", p)
		}
	}
}

func TestClearLines_Tetris(t *testing.T) {
	b := NewBoard()
	for y := PlayableHeight - 4; y < PlayableHeight; y++ {
		fillPlayableRow(&b, y, 9)
	}
	// Vertical I occupies box column 2, so X=9 puts it in playable column 9.
	p := Piece{Kind: KindI, Rotation: RotationR, X: 9, Y: 0}.SimulateDropPosition(&b)
	if p.Y != PlayableBottom-4 {
		t.Fatalf("I landed at y=%d, want %d\n%s", p.Y, PlayableBottom-4, dumpBoard(&b))
	}
	b.FillPiece(p)
	before := dumpBoard(&b)

	if n := b.ClearLines(); n != 4 {
		t.Fatalf("cleared %d, want 4\nBEFORE:\n%s", n, before)
	}
	if b != NewBoard() {
		t.Fatalf("board not empty after tetris:\n%s", dumpBoard(&b))
	}
}

func TestClearLines_CompactsRowsAbove(t *testing.T) {
	b := NewBoard()
	fillPlayableRow(&b, PlayableHeight-1)
	fillPlayableRow(&b, PlayableHeight-3)
	b.FillPlayableCell(0, PlayableHeight-2)
	b.FillPlayableCell(4, PlayableHeight-4)

	if n := b.ClearLines(); n != 2 {
		t.Fatalf("cleared %d, want 2", n)
	}

	want := NewBoard()
	want.FillPlayableCell(0, PlayableHeight-1)
	want.FillPlayableCell(4, PlayableHeight-2)
	if b != want {
		t.Fatalf("got:\n%s\nwant:\n%s", dumpBoard(&b), dumpBoard(&want))
	}
}

func TestClearLines_NeverExceedsFullRows(t *testing.T) {
	for full := 0; full <= 4; full++ {
		b := NewBoard()
		for i := 0; i < full; i++ {
			fillPlayableRow(&b, PlayableHeight-1-2*i)
		}
		if n := b.ClearLines(); n != full {
			t.Fatalf("full=%d cleared=%d", full, n)
		}
	}
}

func TestClearLines_VerticalIIntoWell(t *testing.T) {
	tests := []struct {
		name string
		// holes[i] lists the extra empty columns of row PlayableHeight-1-i.
		holes [4][]int
		want  int
		rest  func(b *Board)
	}{
		{
			name: "tetris",
			want: 4,
			rest: func(b *Board) {},
		},
		{
			name:  "upper rows stay",
			holes: [4][]int{2: {0}, 3: {0}},
			want:  2,
			rest: func(b *Board) {
				fillPlayableRow(b, PlayableHeight-1, 0)
				fillPlayableRow(b, PlayableHeight-2, 0)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			for i, extra := range tt.holes {
				fillPlayableRow(&b, PlayableHeight-1-i, append([]int{9}, extra...)...)
			}
			p := Piece{Kind: KindI, Rotation: RotationR, X: 9, Y: 0}.SimulateDropPosition(&b)
			b.FillPiece(p)

			if n := b.ClearLines(); n != tt.want {
				t.Fatalf("cleared %d, want %d\n%s", n, tt.want, dumpBoard(&b))
			}
			want := NewBoard()
			tt.rest(&want)
			if b != want {
				t.Fatalf("got:\n%s\nwant:\n%s", dumpBoard(&b), dumpBoard(&want))
			}
		})
	}
}

func TestColumnHeights(t *testing.T) {
	b := NewBoard()
	b.FillPlayableCell(0, PlayableHeight-1)
	b.FillPlayableCell(3, PlayableHeight-5)
	b.FillPlayableCell(9, 0)

	h := b.ColumnHeights()
	if h[0] != 1 || h[3] != 5 || h[9] != PlayableHeight || h[1] != 0 {
		t.Fatalf("heights = %v\n%s", h, dumpBoard(&b))
	}
}

func BenchmarkIsColliding(b *testing.B) {
	board := NewBoard()
	for y := PlayableHeight - 6; y < PlayableHeight; y++ {
		fillPlayableRow(&board, y, y%PlayableWidth)
	}
	p := NewPiece(KindT)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.SimulateDropPosition(&board)
	}
}
