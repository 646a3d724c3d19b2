package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"bombreveal/internal/config"
	"bombreveal/internal/room"
)

type Hub struct {
	roomManager RoomManager
	cfg         config.WSConfig
	log         *zap.Logger
	upgrader    websocket.Upgrader
}

// NewHub builds the websocket endpoint. origins decides which browser
// origins may connect; requests without an Origin header are always let in.
func NewHub(roomManager RoomManager, cfg config.WSConfig, origins *cors.Cors, log *zap.Logger) *Hub {
	h := &Hub{
		roomManager: roomManager,
		cfg:         withDefaults(cfg),
		log:         log,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if r.Header.Get("Origin") == "" || origins == nil {
				return true
			}
			return origins.OriginAllowed(r)
		},
	}
	return h
}

func withDefaults(c config.WSConfig) config.WSConfig {
	if c.SendBuffer <= 0 {
		c.SendBuffer = 256
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 4096
	}
	return c
}

// HandleWS upgrades the request and serves one participant until it leaves.
// An unknown room code is answered with a policy violation close frame.
func (h *Hub) HandleWS(c *gin.Context) {
	roomCode := c.Param("roomID")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("room", roomCode), zap.Error(err))
		return
	}

	rm, ok := h.roomManager.Get(roomCode)
	if !ok {
		h.log.Info("join refused", zap.String("room", roomCode), zap.Error(room.ErrRoomNotFound))
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, room.ErrRoomNotFound.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.cfg.WriteWait))
		_ = conn.Close()
		return
	}

	newSession(conn, rm, h.cfg, h.log).run()
}
