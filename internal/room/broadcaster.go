package room

import (
	"encoding/json"

	"go.uber.org/zap"

	"bombreveal/internal/metrics"
)

// Participant is one live link to a room. Send must not block on network
// I/O: it queues the payload or fails straight away.
type Participant interface {
	ID() string
	Send(payload []byte) error
}

// fanout delivers msg to every participant on the roster and returns how
// many accepted it. A failed Send is dropped for that recipient only; the
// recipient stays on the roster until it detaches itself. Caller holds r.mu.
func (r *Room) fanout(msg any) int {
	payload, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("encode broadcast", zap.Error(err))
		return 0
	}

	delivered := 0
	for p := range r.participants {
		if err := p.Send(payload); err != nil {
			metrics.DeliveryFailures.Inc()
			r.log.Debug("delivery skipped", zap.String("session", p.ID()), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// sendTo delivers msg to a single participant. Caller holds r.mu.
func (r *Room) sendTo(p Participant, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.Send(payload); err != nil {
		metrics.DeliveryFailures.Inc()
		return err
	}
	return nil
}
