package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bombreveal/internal/config"
	"bombreveal/internal/game"
	"bombreveal/internal/metrics"
	"bombreveal/internal/room"
	"bombreveal/internal/shared"
)

var (
	ErrSendBufferFull = errors.New("send buffer full")
	ErrSessionClosed  = errors.New("session closed")
)

// Session is one participant's connection to one room. The read pump runs
// on the handler goroutine; the write pump owns all writes to conn.
type Session struct {
	id   string
	conn *websocket.Conn
	rm   *room.Room
	cfg  config.WSConfig
	log  *zap.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newSession(conn *websocket.Conn, rm *room.Room, cfg config.WSConfig, log *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:   id,
		conn: conn,
		rm:   rm,
		cfg:  cfg,
		log:  log.With(zap.String("room", rm.Code), zap.String("session", id)),
		send: make(chan []byte, cfg.SendBuffer),
	}
}

func (s *Session) ID() string { return s.id }

// Send queues payload for the write pump without blocking.
func (s *Session) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// close stops the write pump. Safe to call more than once.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// run attaches to the room and serves the connection until it drops.
func (s *Session) run() {
	s.rm.Attach(s)
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer func() {
		s.rm.Detach(s)
		s.close()
	}()

	s.conn.SetReadLimit(s.cfg.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})
	// The write pump answers the close once queued messages are flushed.
	s.conn.SetCloseHandler(func(int, string) error { return nil })

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("connection dropped", zap.Error(err))
			}
			return
		}
		s.handle(data)
	}
}

func (s *Session) handle(data []byte) {
	click, err := shared.DecodeClick(data)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, shared.ErrUnknownType) {
			reason = "unknown_type"
		}
		metrics.InboundIgnored.WithLabelValues(reason).Inc()
		s.log.Debug("inbound ignored", zap.String("reason", reason), zap.Error(err))
		return
	}

	if _, err := s.rm.Reveal(click.Num); err != nil {
		reason := "already_revealed"
		if errors.Is(err, game.ErrOutOfRange) {
			reason = "out_of_range"
		}
		metrics.InboundIgnored.WithLabelValues(reason).Inc()
		s.log.Debug("click ignored", zap.Int("cell", click.Num), zap.String("reason", reason))
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(s.cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.log.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
