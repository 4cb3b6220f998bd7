package evaluator

import (
	"strings"
	"testing"

	"github.com/brensch/tetrisga/game"
	"github.com/google/go-cmp/cmp"
)

// boardFromRows builds a board from an ASCII picture of the bottom rows,
// '#' for filled and '.' for empty, top row first.
func boardFromRows(rows ...string) game.Board {
	b := game.NewBoard()
	top := game.PlayableHeight - len(rows)
	for i, row := range rows {
		for x, c := range row {
			if c == '#' {
				b.FillPlayableCell(x, top+i)
			}
		}
	}
	return b
}

func dumpBoard(b *game.Board) string {
	var sb strings.Builder
	for y := 0; y < game.PlayableHeight; y++ {
		if b.IsPlayableRowEmpty(y) {
			continue
		}
		for x := 0; x < game.PlayableWidth; x++ {
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

func TestBoardAnalysis_SquareInCorner(t *testing.T) {
	b := boardFromRows(
		"##........",
		"##........",
	)
	a := NewBoardAnalysis(&b)

	if diff := cmp.Diff([game.PlayableWidth]uint8{2, 2}, a.ColumnHeights); diff != "" {
		t.Fatalf("heights (-want +got):\n%s", diff)
	}
	got := map[string]uint32{
		"holes":      a.NumHoles(),
		"bumpiness":  a.SurfaceBumpiness(),
		"roughness":  a.SurfaceRoughness(),
		"row_trans":  a.RowTransitions(),
		"col_trans":  a.ColumnTransitions(),
		"deep_wells": a.SumOfDeepWellDepth(),
		"total":      a.TotalHeight(),
	}
	want := map[string]uint32{
		"holes":      0,
		"bumpiness":  2,
		"roughness":  4,
		"row_trans":  2,
		"col_trans":  2,
		"deep_wells": 0,
		"total":      4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("measures (-want +got):\n%s\n%s", diff, dumpBoard(&b))
	}
}

func TestBoardAnalysis_Holes(t *testing.T) {
	b := boardFromRows(
		"#.........",
		"#.#.......",
		"..#.......",
	)
	a := NewBoardAnalysis(&b)

	// Column 0 has one hole under two cells; column 2 has none.
	if n := a.NumHoles(); n != 1 {
		t.Fatalf("NumHoles = %d\n%s", n, dumpBoard(&b))
	}
	if d := a.SumOfHoleDepth(); d != 2 {
		t.Fatalf("SumOfHoleDepth = %d\n%s", d, dumpBoard(&b))
	}
	if h := a.MaxHeight(); h != 3 {
		t.Fatalf("MaxHeight = %d", h)
	}
}

func TestBoardAnalysis_EdgeWell(t *testing.T) {
	b := boardFromRows(
		".#........",
		".#........",
		".#........",
		".#........",
		".#........",
	)
	a := NewBoardAnalysis(&b)

	if d := a.ColumnWellDepth[0]; d != 5 {
		t.Fatalf("left well depth = %d", d)
	}
	if d := a.EdgeIWellDepth(); d != 5 {
		t.Fatalf("EdgeIWellDepth = %d", d)
	}
	if d := a.SumOfDeepWellDepth(); d != 4 {
		t.Fatalf("SumOfDeepWellDepth = %d", d)
	}
	if n := a.SurfaceBumpiness(); n != 10 {
		t.Fatalf("SurfaceBumpiness = %d", n)
	}
	if n := a.SurfaceRoughness(); n != 15 {
		t.Fatalf("SurfaceRoughness = %d", n)
	}
	if n := a.CenterColumnMaxHeight(); n != 0 {
		t.Fatalf("CenterColumnMaxHeight = %d", n)
	}
}

func TestPlacementAnalysis_ClearsOnCopy(t *testing.T) {
	b := boardFromRows(
		"#########.",
		"#########.",
		"#########.",
		"#########.",
	)
	before := b
	i := game.Piece{Kind: game.KindI, Rotation: game.RotationR, X: 9}.SimulateDropPosition(&b)

	a := NewPlacementAnalysis(&b, i)
	if a.ClearedLines != 4 {
		t.Fatalf("ClearedLines = %d", a.ClearedLines)
	}
	if a.MaxHeight() != 0 {
		t.Fatalf("analysis board not cleared:\n%s", dumpBoard(&a.Board))
	}
	if b != before {
		t.Fatalf("input board mutated")
	}
	if got := SourceNumClearedLines.Extract(a); got != 4 {
		t.Fatalf("num_cleared_lines = %d", got)
	}
}
