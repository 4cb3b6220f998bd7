package game

import (
	"errors"
	"fmt"
)

var (
	// ErrPieceCollision means the requested position overlaps the board.
	ErrPieceCollision = errors.New("piece collision")

	ErrHoldAlreadyUsed = errors.New("hold already used this turn")
	// ErrHoldCollision wraps ErrPieceCollision for a hold whose result
	// would not fit at the spawn position.
	ErrHoldCollision = fmt.Errorf("hold: %w", ErrPieceCollision)

	// ErrTopOut is returned when the next piece cannot spawn.
	ErrTopOut = errors.New("new piece collides at spawn")
)
