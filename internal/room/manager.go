package room

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"bombreveal/internal/config"
	"bombreveal/internal/game"
	"bombreveal/internal/metrics"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("no free room code")
)

const maxCodeAttempts = 64

// Store keeps rooms by code. InsertRoom must refuse a code that is taken.
type Store interface {
	GetRoom(code string) (*Room, bool)
	InsertRoom(r *Room) bool
}

// Manager is the room registry: it creates rooms and looks them up. Rooms
// live as long as the process.
type Manager struct {
	store   Store
	cfg     config.Config
	sampler game.Sampler
	log     *zap.Logger
}

func NewManager(s Store, cfg config.Config, log *zap.Logger) *Manager {
	return &Manager{store: s, cfg: cfg, sampler: game.RandomSampler{}, log: log}
}

// SetSampler replaces how bombs are placed in rooms created from now on.
func (m *Manager) SetSampler(s game.Sampler) {
	m.sampler = s
}

// CreateRoom hides bombCount bombs among total cells and registers the room
// under a fresh code. Invalid sizes fail with game.ErrInvalidConfiguration
// and register nothing.
func (m *Manager) CreateRoom(total, bombCount int) (*Room, error) {
	board, err := game.NewBoard(total, bombCount, m.cfg.MaxTotalCells, m.sampler)
	if err != nil {
		return nil, err
	}

	for i := 0; i < maxCodeAttempts; i++ {
		r := newRoom(randCode(m.cfg.RoomCodeLength), board, m.log)
		if !m.store.InsertRoom(r) {
			continue
		}
		metrics.RoomsCreated.Inc()
		m.log.Info("room created",
			zap.String("room", r.Code),
			zap.Int("total", total),
			zap.Int("bombs", bombCount),
		)
		return r, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, maxCodeAttempts)
}

func (m *Manager) Get(code string) (*Room, bool) {
	return m.store.GetRoom(code)
}

const digits = "0123456789"

// randCode returns n decimal digits without a leading zero, so a 4 digit
// code falls in 1000..9999.
func randCode(n int) string {
	if n < 1 {
		n = 1
	}
	b := make([]byte, n)
	b[0] = digits[1+rand.IntN(9)]
	for i := 1; i < n; i++ {
		b[i] = digits[rand.IntN(len(digits))]
	}
	return string(b)
}
