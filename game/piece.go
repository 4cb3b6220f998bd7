package game

import "fmt"

type PieceKind uint8

const (
	KindI PieceKind = iota
	KindO
	KindS
	KindZ
	KindJ
	KindL
	KindT

	NumKinds = 7
)

// AllKinds lists every piece kind in index order.
var AllKinds = [NumKinds]PieceKind{KindI, KindO, KindS, KindZ, KindJ, KindL, KindT}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("PieceKind(%d)", uint8(k))
}

var kindNames = [NumKinds]string{"I", "O", "S", "Z", "J", "L", "T"}

// Rotation is one of the four rotation states. R0 is the spawn state and
// each step to the right rotates clockwise.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	RotationR
	Rotation2
	RotationL
)

func (r Rotation) Right() Rotation { return (r + 1) % 4 }
func (r Rotation) Left() Rotation  { return (r + 3) % 4 }

func (r Rotation) String() string {
	switch r {
	case Rotation0:
		return "0"
	case RotationR:
		return "R"
	case Rotation2:
		return "2"
	case RotationL:
		return "L"
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

// Mask is the occupied-cell mask of a piece inside its bounding box.
// Bit x of row y is the cell at offset (x, y) from the piece anchor.
type Mask [4]uint16

type shapeDef struct {
	size int
	base Mask
}

// Spawn-state shapes, written LSB-first so bit 0 is the leftmost cell.
var shapes = [NumKinds]shapeDef{
	KindI: {size: 4, base: Mask{0b0000, 0b1111, 0b0000, 0b0000}},
	KindO: {size: 2, base: Mask{0b11, 0b11}},
	KindS: {size: 3, base: Mask{0b110, 0b011}},
	KindZ: {size: 3, base: Mask{0b011, 0b110}},
	KindJ: {size: 3, base: Mask{0b001, 0b111}},
	KindL: {size: 3, base: Mask{0b100, 0b111}},
	KindT: {size: 3, base: Mask{0b010, 0b111}},
}

var masks [NumKinds][4]Mask

func init() {
	for k, s := range shapes {
		masks[k][0] = s.base
		for r := 1; r < 4; r++ {
			masks[k][r] = rotateMaskRight(masks[k][r-1], s.size)
		}
	}
}

// rotateMaskRight rotates m clockwise inside a size×size box.
func rotateMaskRight(m Mask, size int) Mask {
	var out Mask
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if m[size-1-x]&(1<<y) != 0 {
				out[y] |= 1 << x
			}
		}
	}
	return out
}

const (
	SpawnX = 5
	SpawnY = 0
)

// Piece is a tetromino at a rotation state and anchor position. Positions are
// absolute board coordinates of the bounding box's top-left cell.
type Piece struct {
	Kind     PieceKind
	Rotation Rotation
	X        int
	Y        int
}

// NewPiece returns a piece of kind k in the spawn state and position.
func NewPiece(k PieceKind) Piece {
	return Piece{Kind: k, Rotation: Rotation0, X: SpawnX, Y: SpawnY}
}

func (p Piece) String() string {
	return fmt.Sprintf("%s/%s@(%d,%d)", p.Kind, p.Rotation, p.X, p.Y)
}

// Mask returns the occupied-cell mask for the piece's kind and rotation.
func (p Piece) Mask() Mask {
	return masks[p.Kind][p.Rotation]
}

// Translation never fails; callers gate validity with Board.IsColliding.
func (p Piece) Left() Piece  { p.X--; return p }
func (p Piece) Right() Piece { p.X++; return p }
func (p Piece) Up() Piece    { p.Y--; return p }
func (p Piece) Down() Piece  { p.Y++; return p }

func (p Piece) RotatedRight() Piece { p.Rotation = p.Rotation.Right(); return p }
func (p Piece) RotatedLeft() Piece  { p.Rotation = p.Rotation.Left(); return p }

// kicks is tried in order after the plain rotation collides.
var kicks = [...]func(Piece) Piece{Piece.Up, Piece.Right, Piece.Down, Piece.Left}

func superRotate(b *Board, rotated Piece) (Piece, bool) {
	if !b.IsColliding(rotated) {
		return rotated, true
	}
	for _, kick := range kicks {
		if k := kick(rotated); !b.IsColliding(k) {
			return k, true
		}
	}
	return Piece{}, false
}

// SuperRotatedRight rotates clockwise and applies the first kick that clears
// the board. It reports false if no candidate fits.
func (p Piece) SuperRotatedRight(b *Board) (Piece, bool) {
	return superRotate(b, p.RotatedRight())
}

func (p Piece) SuperRotatedLeft(b *Board) (Piece, bool) {
	return superRotate(b, p.RotatedLeft())
}

// SuperRotations returns p followed by every distinct placement reachable by
// chaining clockwise super rotations, deduplicated by footprint.
func (p Piece) SuperRotations(b *Board) []Piece {
	out := make([]Piece, 0, 4)
	out = append(out, p)
	if p.Kind == KindO {
		return out
	}
	seen := map[Footprint]struct{}{p.Footprint(): {}}
	cur := p
	for i := 0; i < 3; i++ {
		next, ok := cur.SuperRotatedRight(b)
		if !ok {
			break
		}
		cur = next
		fp := cur.Footprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, cur)
	}
	return out
}

// SimulateDropPosition returns the hard-drop resting position of p.
func (p Piece) SimulateDropPosition(b *Board) Piece {
	for {
		next := p.Down()
		if b.IsColliding(next) {
			return p
		}
		p = next
	}
}

// Footprint identifies the set of cells a piece occupies, independent of
// kind-local rotation and anchor.
type Footprint struct {
	Top  int
	Rows [4]uint16
}

// Footprint returns the absolute occupied-cell pattern of p. p must lie
// inside the grid horizontally.
func (p Piece) Footprint() Footprint {
	var fp Footprint
	mask := p.Mask()
	first := -1
	for r, m := range mask {
		if m == 0 {
			continue
		}
		if first < 0 {
			first = r
			fp.Top = p.Y + r
		}
		shifted, _ := shiftRow(m, p.X)
		fp.Rows[r-first] = shifted
	}
	return fp
}

// Cells calls fn with the absolute coordinates of each occupied cell.
func (p Piece) Cells(fn func(x, y int)) {
	mask := p.Mask()
	for r, m := range mask {
		for c := 0; m != 0; c++ {
			if m&1 != 0 {
				fn(p.X+c, p.Y+r)
			}
			m >>= 1
		}
	}
}
