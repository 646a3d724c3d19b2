package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bombreveal/internal/game"
	"bombreveal/internal/shared"
)

type recorder struct {
	id   string
	fail bool

	mu   sync.Mutex
	msgs [][]byte
}

var errGone = errors.New("peer gone")

func (r *recorder) ID() string { return r.id }

func (r *recorder) Send(b []byte) error {
	if r.fail {
		return errGone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, b)
	return nil
}

func (r *recorder) updates(t *testing.T) []shared.Update {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.Update
	for _, b := range r.msgs {
		var u shared.Update
		require.NoError(t, json.Unmarshal(b, &u))
		if u.Type == shared.TypeUpdate {
			out = append(out, u)
		}
	}
	return out
}

func (r *recorder) first(t *testing.T) shared.Init {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.msgs)
	var in shared.Init
	require.NoError(t, json.Unmarshal(r.msgs[0], &in))
	return in
}

func newTestRoom(t *testing.T, total int, bombs ...int) *Room {
	t.Helper()
	b, err := game.NewBoard(total, len(bombs), 0, game.FixedSampler(bombs))
	require.NoError(t, err)
	return newRoom("1234", b, zaptest.NewLogger(t))
}

func TestRevealScenarioBroadcastsToEveryone(t *testing.T) {
	r := newTestRoom(t, 10, 3, 7)
	a, b := &recorder{id: "a"}, &recorder{id: "b"}
	r.Attach(a)
	r.Attach(b)

	_, err := r.Reveal(3)
	require.NoError(t, err)
	_, err = r.Reveal(5)
	require.NoError(t, err)
	_, err = r.Reveal(3)
	assert.ErrorIs(t, err, game.ErrAlreadyRevealed)

	want := []shared.Update{
		{Type: "update", Num: 3, IsBomb: true, Punish: 1},
		{Type: "update", Num: 5, IsBomb: false, Punish: 0},
	}
	assert.Equal(t, want, a.updates(t))
	assert.Equal(t, want, b.updates(t))
}

func TestRevealOutOfRangeIsSilent(t *testing.T) {
	r := newTestRoom(t, 10, 3, 7)
	a := &recorder{id: "a"}
	r.Attach(a)

	for _, c := range []int{0, 11, -4} {
		_, err := r.Reveal(c)
		assert.ErrorIs(t, err, game.ErrOutOfRange)
	}
	assert.Empty(t, a.updates(t))
	assert.Empty(t, r.State().Clicked)
}

func TestConcurrentSameCellBroadcastsOnce(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		r := newTestRoom(t, 10, 3, 7)
		a, b := &recorder{id: "a"}, &recorder{id: "b"}
		r.Attach(a)
		r.Attach(b)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.Reveal(7); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, accepted)
		for _, p := range []*recorder{a, b} {
			require.Equal(t, []shared.Update{{Type: "update", Num: 7, IsBomb: true, Punish: 1}}, p.updates(t))
		}
		assert.Equal(t, []int{7}, r.State().Clicked)
	}
}

func TestConcurrentDistinctCellsCountEveryBomb(t *testing.T) {
	bombs := []int{2, 11, 17, 23, 40, 41, 57, 64, 88, 99}
	r := newTestRoom(t, 100, bombs...)
	a := &recorder{id: "a"}
	r.Attach(a)

	var wg sync.WaitGroup
	for c := 1; c <= 100; c++ {
		for dup := 0; dup < 2; dup++ {
			wg.Add(1)
			go func(cell int) {
				defer wg.Done()
				_, _ = r.Reveal(cell)
			}(c)
		}
	}
	wg.Wait()

	st := r.State()
	assert.Len(t, st.Clicked, 100)
	assert.Equal(t, len(bombs), st.Found)

	// Punish values on bomb hits count up without gaps or repeats.
	var punish []int
	for _, u := range a.updates(t) {
		if u.IsBomb {
			punish = append(punish, u.Punish)
		} else {
			assert.Zero(t, u.Punish)
		}
	}
	require.Len(t, punish, len(bombs))
	for i, p := range punish {
		assert.Equal(t, i+1, p)
	}
}

func TestFailedDeliveryDoesNotStopOthers(t *testing.T) {
	r := newTestRoom(t, 10, 3)
	ok1, bad, ok2 := &recorder{id: "ok1"}, &recorder{id: "bad", fail: true}, &recorder{id: "ok2"}
	r.Attach(ok1)
	r.Attach(bad)
	r.Attach(ok2)

	u, err := r.Reveal(3)
	require.NoError(t, err)

	assert.Equal(t, []shared.Update{u}, ok1.updates(t))
	assert.Equal(t, []shared.Update{u}, ok2.updates(t))
	assert.Equal(t, 3, r.ParticipantCount(), "failed recipient must stay on the roster")
}

func TestLateJoinerGetsSnapshotThenOnlyNewUpdates(t *testing.T) {
	r := newTestRoom(t, 10, 3, 7)
	early := &recorder{id: "early"}
	r.Attach(early)
	for _, c := range []int{9, 3, 1} {
		_, err := r.Reveal(c)
		require.NoError(t, err)
	}

	late := &recorder{id: "late"}
	snap := r.Attach(late)
	assert.Equal(t, []int{9, 3, 1}, snap.Revealed)

	in := late.first(t)
	assert.Equal(t, shared.Init{Type: "init", Total: 10, Clicked: []int{9, 3, 1}, Found: 1}, in)
	assert.Empty(t, late.updates(t))

	_, err := r.Reveal(7)
	require.NoError(t, err)
	assert.Equal(t, []shared.Update{{Type: "update", Num: 7, IsBomb: true, Punish: 2}}, late.updates(t))
	assert.Len(t, early.updates(t), 4)
}

func TestFirstJoinerGetsEmptyClickedList(t *testing.T) {
	r := newTestRoom(t, 5, 1)
	a := &recorder{id: "a"}
	r.Attach(a)

	a.mu.Lock()
	raw := string(a.msgs[0])
	a.mu.Unlock()
	assert.JSONEq(t, `{"type":"init","total":5,"clicked":[],"found":0}`, raw)
}

func TestDetachIsIdempotent(t *testing.T) {
	r := newTestRoom(t, 10, 3)
	a, b := &recorder{id: "a"}, &recorder{id: "b"}
	r.Attach(a)
	r.Attach(b)

	assert.True(t, r.Detach(a))
	assert.False(t, r.Detach(a))
	assert.False(t, r.Detach(&recorder{id: "stranger"}))
	assert.Equal(t, 1, r.ParticipantCount())

	_, err := r.Reveal(3)
	require.NoError(t, err)
	assert.Empty(t, a.updates(t))
	assert.Len(t, b.updates(t), 1)
}

func TestConcurrentAttachDetachReveal(t *testing.T) {
	r := newTestRoom(t, 200, 5, 50, 150)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := &recorder{id: fmt.Sprintf("p%d", i)}
			r.Attach(p)
			for c := i * 10; c < i*10+10; c++ {
				_, _ = r.Reveal(c + 1)
			}
			r.Detach(p)
		}(i)
	}
	wg.Wait()

	st := r.State()
	assert.Len(t, st.Clicked, 200)
	assert.Equal(t, 3, st.Found)
	assert.Zero(t, st.Participants)
}
