package http

// CreateRoomRequest represents the payload for /api/create.
type CreateRoomRequest struct {
	Total     int `json:"total" binding:"required,gt=0"`
	BombCount int `json:"bomb_count" binding:"required,gt=0"`
}

// CreateRoomResponse carries the code participants join with.
type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
