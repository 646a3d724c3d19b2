package ws

import "bombreveal/internal/room"

type RoomManager interface {
	Get(roomCode string) (*room.Room, bool)
}
