package game

// scoreTable is the base score for clearing 0..4 lines at once.
var scoreTable = [5]int{0, 100, 300, 500, 800}

type Stats struct {
	CompletedPieces   int
	TotalClearedLines int
	// LineClears[n] counts locks that cleared exactly n lines.
	LineClears [5]int
	Score      int
}

func (s Stats) Level() int {
	return s.TotalClearedLines / 10
}

func (s *Stats) complete(cleared int) {
	s.CompletedPieces++
	s.TotalClearedLines += cleared
	s.LineClears[cleared]++
	s.Score += scoreTable[cleared]
}
