package game

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPieceBag_EachWindowHoldsEveryKind(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		bag := NewSeededPieceBag(seed, seed*7+1)
		for window := 0; window < 5; window++ {
			var seen [NumKinds]int
			for i := 0; i < NumKinds; i++ {
				seen[bag.Next()]++
			}
			for k, n := range seen {
				if n != 1 {
					t.Fatalf("seed=%d window=%d: kind %s drawn %d times", seed, window, PieceKind(k), n)
				}
			}
		}
	}
}

func TestPieceBag_CloneReplaysSequence(t *testing.T) {
	bag := NewSeededPieceBag(42, 1)
	bag.Next()
	bag.Next()

	clone := bag.Clone()
	var a, b []PieceKind
	for i := 0; i < 30; i++ {
		a = append(a, bag.Next())
	}
	for i := 0; i < 30; i++ {
		b = append(b, clone.Next())
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("clone diverged (-orig +clone):\n%s", diff)
	}
}

func TestPieceBag_SourceIsCopied(t *testing.T) {
	src := rand.NewPCG(3, 4)
	a := NewPieceBag(src)
	b := NewPieceBag(src)
	if diff := cmp.Diff(a.Upcoming(NumKinds), b.Upcoming(NumKinds)); diff != "" {
		t.Fatalf("same source produced different bags:\n%s", diff)
	}
}

func TestPieceBag_PeekMatchesNext(t *testing.T) {
	bag := NewSeededPieceBag(9, 9)
	up := bag.Upcoming(3)
	if bag.Peek(0) != up[0] || bag.Peek(2) != up[2] {
		t.Fatalf("peek mismatch")
	}
	for _, want := range up {
		if got := bag.Next(); got != want {
			t.Fatalf("Next = %s, want %s", got, want)
		}
	}
}
