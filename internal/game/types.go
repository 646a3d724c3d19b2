package game

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid room configuration")
	ErrOutOfRange           = errors.New("cell out of range")
	ErrAlreadyRevealed      = errors.New("cell already revealed")
)

// Board holds the cells of one game. Cells are numbered 1..Total. A Board is
// not safe for concurrent use; the owning room serializes access.
type Board struct {
	Total int

	bombs    map[int]struct{}
	revealed []int
	seen     map[int]struct{}
	found    int
}

// Reveal is the outcome of exposing one hidden cell.
type Reveal struct {
	Cell   int
	IsBomb bool
	// Found is the number of bombs found including this one, or 0 when the
	// cell was not a bomb.
	Found int
}

// Snapshot is the state a newly attached participant starts from.
type Snapshot struct {
	Total    int
	Revealed []int
	Found    int
}
