package http

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bombreveal/internal/api/ws"
	"bombreveal/internal/config"
	"bombreveal/internal/metrics"
	"bombreveal/internal/room"
)

//go:embed web/index.html
var indexHTML []byte

func NewRouter(rm *room.Manager, cfg config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	origins := NewCORS(cfg.CORSAllow)
	r.Use(gin.Recovery(), RequestLogger(log), CORSMiddleware(origins))

	hub := ws.NewHub(rm, cfg.WS, origins, log)

	// Page + live channel
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/ws/:roomID", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	r.POST("/api/create", CreateRoomHandler(rm))
	r.GET("/api/rooms/:roomID", RoomStateHandler(rm))

	// --- OPS ---
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
