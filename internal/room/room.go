package room

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"bombreveal/internal/game"
	"bombreveal/internal/metrics"
	"bombreveal/internal/shared"
)

// Room is one game instance. Attach, Reveal and Detach are serialized by mu,
// and every outbound message is queued while mu is held, so all participants
// see updates in the same order and a joiner's init always precedes them.
type Room struct {
	Code      string
	CreatedAt time.Time

	log *zap.Logger

	mu           sync.Mutex
	board        *game.Board
	participants map[Participant]struct{}
}

// State is a read-only summary of a room. Bomb positions are never part of it.
type State struct {
	Code         string    `json:"room_id"`
	Total        int       `json:"total"`
	Clicked      []int     `json:"clicked"`
	Found        int       `json:"found"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

func newRoom(code string, board *game.Board, log *zap.Logger) *Room {
	return &Room{
		Code:         code,
		CreatedAt:    time.Now(),
		log:          log.With(zap.String("room", code)),
		board:        board,
		participants: map[Participant]struct{}{},
	}
}

// Attach puts p on the roster and queues the init snapshot to it before any
// later update can be queued. Attaching twice only resends the snapshot.
func (r *Room) Attach(p Participant) game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[p]; !ok {
		r.participants[p] = struct{}{}
		metrics.SessionsActive.Inc()
	}

	snap := r.board.Snapshot()
	if err := r.sendTo(p, shared.NewInit(snap)); err != nil {
		r.log.Warn("init not delivered", zap.String("session", p.ID()), zap.Error(err))
	}
	r.log.Info("participant attached",
		zap.String("session", p.ID()),
		zap.Int("participants", len(r.participants)),
		zap.Int("revealed", len(snap.Revealed)),
	)
	return snap
}

// Reveal exposes cell and broadcasts the update to the whole roster,
// revealer included. Out of range and repeated cells return
// game.ErrOutOfRange and game.ErrAlreadyRevealed and broadcast nothing.
func (r *Room) Reveal(cell int) (shared.Update, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, err := r.board.Reveal(cell)
	if err != nil {
		return shared.Update{}, err
	}

	u := shared.NewUpdate(rev)
	metrics.CellsRevealed.WithLabelValues(strconv.FormatBool(u.IsBomb)).Inc()
	n := r.fanout(u)
	r.log.Debug("cell revealed",
		zap.Int("cell", u.Num),
		zap.Bool("bomb", u.IsBomb),
		zap.Int("found", r.board.Found()),
		zap.Int("delivered", n),
	)
	return u, nil
}

// Detach removes p from the roster. It reports whether p was attached.
func (r *Room) Detach(p Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[p]; !ok {
		return false
	}
	delete(r.participants, p)
	metrics.SessionsActive.Dec()
	r.log.Info("participant detached",
		zap.String("session", p.ID()),
		zap.Int("participants", len(r.participants)),
	)
	return true
}

func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.board.Snapshot()
	return State{
		Code:         r.Code,
		Total:        snap.Total,
		Clicked:      shared.NewInit(snap).Clicked,
		Found:        snap.Found,
		Participants: len(r.participants),
		CreatedAt:    r.CreatedAt,
	}
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}
