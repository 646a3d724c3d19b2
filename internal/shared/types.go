package shared

import (
	"encoding/json"
	"errors"
	"fmt"

	"bombreveal/internal/game"
)

const (
	TypeInit   = "init"
	TypeClick  = "click"
	TypeUpdate = "update"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Init is sent once to a participant right after it joins a room.
type Init struct {
	Type    string `json:"type"`
	Total   int    `json:"total"`
	Clicked []int  `json:"clicked"`
	Found   int    `json:"found"`
}

// Click is the only message a participant sends.
type Click struct {
	Type string `json:"type"`
	Num  int    `json:"num"`
}

// Update is broadcast to the whole room for every accepted reveal.
type Update struct {
	Type   string `json:"type"`
	Num    int    `json:"num"`
	IsBomb bool   `json:"is_bomb"`
	Punish int    `json:"punish"`
}

func NewInit(s game.Snapshot) Init {
	clicked := s.Revealed
	if clicked == nil {
		clicked = []int{}
	}
	return Init{Type: TypeInit, Total: s.Total, Clicked: clicked, Found: s.Found}
}

func NewUpdate(r game.Reveal) Update {
	return Update{Type: TypeUpdate, Num: r.Cell, IsBomb: r.IsBomb, Punish: r.Found}
}

// DecodeClick parses an inbound frame. Anything that is not a well formed
// click with an integer cell number is rejected.
func DecodeClick(data []byte) (Click, error) {
	var raw struct {
		Type string          `json:"type"`
		Num  json.RawMessage `json:"num"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Click{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Type != TypeClick {
		return Click{}, fmt.Errorf("%w: %q", ErrUnknownType, raw.Type)
	}

	var num int
	if len(raw.Num) == 0 || string(raw.Num) == "null" || json.Unmarshal(raw.Num, &num) != nil {
		return Click{}, fmt.Errorf("%w: num must be an integer", ErrMalformed)
	}
	return Click{Type: TypeClick, Num: num}, nil
}
