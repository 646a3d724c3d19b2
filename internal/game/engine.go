package game

import "fmt"

// NewBoard validates the configuration and hides bombCount bombs among
// total cells. maxTotal <= 0 disables the upper bound.
func NewBoard(total, bombCount, maxTotal int, s Sampler) (*Board, error) {
	if total < 1 || bombCount < 1 || bombCount > total {
		return nil, fmt.Errorf("%w: need 1 <= bombs (%d) <= cells (%d)", ErrInvalidConfiguration, bombCount, total)
	}
	if maxTotal > 0 && total > maxTotal {
		return nil, fmt.Errorf("%w: %d cells exceeds limit %d", ErrInvalidConfiguration, total, maxTotal)
	}
	if s == nil {
		s = RandomSampler{}
	}

	picked := s.Sample(total, bombCount)
	bombs := make(map[int]struct{}, len(picked))
	for _, c := range picked {
		if c < 1 || c > total {
			return nil, fmt.Errorf("sampler returned cell %d outside 1..%d", c, total)
		}
		bombs[c] = struct{}{}
	}
	if len(bombs) != bombCount {
		return nil, fmt.Errorf("sampler returned %d distinct cells, want %d", len(bombs), bombCount)
	}

	return &Board{
		Total: total,
		bombs: bombs,
		seen:  map[int]struct{}{},
	}, nil
}

// Reveal exposes cell. Revealing a cell twice is not an error for the game,
// but the second call reports ErrAlreadyRevealed and changes nothing.
func (b *Board) Reveal(cell int) (Reveal, error) {
	if cell < 1 || cell > b.Total {
		return Reveal{}, ErrOutOfRange
	}
	if _, ok := b.seen[cell]; ok {
		return Reveal{}, ErrAlreadyRevealed
	}

	b.seen[cell] = struct{}{}
	b.revealed = append(b.revealed, cell)

	r := Reveal{Cell: cell}
	if _, ok := b.bombs[cell]; ok {
		b.found++
		r.IsBomb = true
		r.Found = b.found
	}
	return r, nil
}

// Snapshot copies the revealed cells so the caller may hold it after the
// board moves on.
func (b *Board) Snapshot() Snapshot {
	revealed := make([]int, len(b.revealed))
	copy(revealed, b.revealed)
	return Snapshot{Total: b.Total, Revealed: revealed, Found: b.found}
}

func (b *Board) Found() int { return b.found }

func (b *Board) BombCount() int { return len(b.bombs) }

// IsBomb reports bomb membership without revealing the cell.
func (b *Board) IsBomb(cell int) bool {
	_, ok := b.bombs[cell]
	return ok
}
