package server

import (
	"encoding/json"
	"fmt"
)

// Event names shared with the client. Inbound actions and outbound
// notifications use the same envelope.
const (
	evGetPlayers = "getPlayers"
	evStartGame  = "startGame"
	evKickPlayer = "kickPlayer"
	evLeaveGame  = "leaveGame"
	evEndGame    = "endGame"
	evSubmitTurn = "submitTurn"

	evReload  = "reload"
	evMessage = "message"
)

// Envelope is the wire frame for every realtime event, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type KickPayload struct {
	PlayerID string `json:"playerId"`
}

type MessagePayload struct {
	Text string `json:"text"`
}

type PlacementPayload struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Letter string `json:"letter"`
}

type SubmitTurnPayload struct {
	Placements []PlacementPayload `json:"placements"`
}

type PlayerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Tiles    int    `json:"tiles"`
}

type RosterPayload struct {
	Players []PlayerInfo `json:"players"`
}

// encodeEvent frames an outbound event for the wire.
func encodeEvent(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", event, err)
		}
		env.Data = raw
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", event, err)
	}
	return msg, nil
}
