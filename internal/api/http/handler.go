package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bombreveal/internal/game"
	"bombreveal/internal/room"
)

// CreateRoomHandler handles POST /api/create.
func CreateRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "total and bomb_count must be positive integers"})
			return
		}

		r, err := rm.CreateRoom(req.Total, req.BombCount)
		switch {
		case errors.Is(err, game.ErrInvalidConfiguration):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		case errors.Is(err, room.ErrCodeSpaceExhausted):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, CreateRoomResponse{RoomID: r.Code})
	}
}

// RoomStateHandler handles GET /api/rooms/:roomID. It shows what any
// participant could already see, never the bomb layout.
func RoomStateHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := rm.Get(c.Param("roomID"))
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: room.ErrRoomNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, r.State())
	}
}
