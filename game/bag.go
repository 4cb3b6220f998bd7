// bag.go implements the 7-bag piece generator.

package game

import (
	"math/rand/v2"
)

// PieceBag queues upcoming pieces. Every consecutive window of seven draws
// aligned to a refill holds each kind exactly once.
//
// The bag owns its PCG source so that a cloned bag replays the same future
// sequence without disturbing the source bag.
type PieceBag struct {
	src   rand.PCG
	rng   *rand.Rand
	queue []PieceKind
}

// NewPieceBag creates a bag seeded from src. The source state is copied.
func NewPieceBag(src *rand.PCG) *PieceBag {
	b := &PieceBag{src: *src, queue: make([]PieceKind, 0, 2*NumKinds)}
	b.rng = rand.New(&b.src)
	b.refill()
	return b
}

// NewSeededPieceBag is a convenience wrapper around NewPieceBag.
func NewSeededPieceBag(seed1, seed2 uint64) *PieceBag {
	return NewPieceBag(rand.NewPCG(seed1, seed2))
}

func (b *PieceBag) refill() {
	for len(b.queue) <= NumKinds {
		set := AllKinds
		b.rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
		b.queue = append(b.queue, set[:]...)
	}
}

// Next pops the next piece kind.
func (b *PieceBag) Next() PieceKind {
	k := b.queue[0]
	b.queue = b.queue[1:]
	b.refill()
	return k
}

// Peek returns the kind that Next would return after i further draws.
// i must be less than NumKinds.
func (b *PieceBag) Peek(i int) PieceKind {
	return b.queue[i]
}

// Upcoming returns a copy of the next n kinds, n at most NumKinds.
func (b *PieceBag) Upcoming(n int) []PieceKind {
	if n > len(b.queue) {
		n = len(b.queue)
	}
	out := make([]PieceKind, n)
	copy(out, b.queue)
	return out
}

// Clone performs a deep copy of the bag, including its random source.
func (b *PieceBag) Clone() *PieceBag {
	if b == nil {
		return nil
	}
	out := &PieceBag{src: b.src, queue: make([]PieceKind, len(b.queue), cap(b.queue))}
	copy(out.queue, b.queue)
	out.rng = rand.New(&out.src)
	return out
}
