package server

import (
	"sync"

	"github.com/google/uuid"
)

// conn is one live websocket attached to a player. A player may hold several
// at once (multiple tabs); dropping one never touches game membership.
type conn struct {
	id       uuid.UUID
	playerID string
	room     int64 // current game room; 0 when not in any room. Guarded by Rooms.mu.
	send     chan []byte
}

func newConn(playerID string) *conn {
	return &conn{
		id:       uuid.New(),
		playerID: playerID,
		send:     make(chan []byte, 16),
	}
}

// Rooms is the connection directory and the room broadcaster in one. The
// player index lives for the connection's lifetime; the room index follows
// game membership and is updated in the same call that commits a membership
// change, so the two can never drift apart.
type Rooms struct {
	mu      sync.RWMutex
	players map[string]map[*conn]struct{} // player id -> live connections
	games   map[int64]map[*conn]struct{}  // game id -> subscribed connections
}

func NewRooms() *Rooms {
	return &Rooms{
		players: make(map[string]map[*conn]struct{}),
		games:   make(map[int64]map[*conn]struct{}),
	}
}

// Attach registers a connection and, when its player is already in a game,
// subscribes it to that game's room.
func (rm *Rooms) Attach(c *conn) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.players[c.playerID] == nil {
		rm.players[c.playerID] = make(map[*conn]struct{})
	}
	rm.players[c.playerID][c] = struct{}{}
	if c.room != 0 {
		rm.subscribeLocked(c, c.room)
	}
}

// Drop removes a single connection on disconnect. The player's game
// membership is untouched; they may reconnect with the same identity.
func (rm *Rooms) Drop(c *conn) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.unsubscribeLocked(c)
	if conns := rm.players[c.playerID]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(rm.players, c.playerID)
		}
	}
}

// Subscribe moves every connection the player holds into the game's room.
// Called right after a join or create commits.
func (rm *Rooms) Subscribe(playerID string, gameID int64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for c := range rm.players[playerID] {
		rm.unsubscribeLocked(c)
		rm.subscribeLocked(c, gameID)
	}
}

// DetachPlayer unsubscribes every connection the player holds from its room.
// Called on kick, leave, and end; the connections themselves stay alive and
// reachable via Notify.
func (rm *Rooms) DetachPlayer(playerID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for c := range rm.players[playerID] {
		rm.unsubscribeLocked(c)
	}
}

// Broadcast delivers an event to every connection in the game's room. Events
// are only published after the mutation they describe has committed. Slow
// consumers are dropped rather than blocking the sender.
func (rm *Rooms) Broadcast(gameID int64, event string, data any) {
	msg, err := encodeEvent(event, data)
	if err != nil {
		return
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for c := range rm.games[gameID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Notify delivers an event to the addressed player's connections only.
func (rm *Rooms) Notify(playerID string, event string, data any) {
	msg, err := encodeEvent(event, data)
	if err != nil {
		return
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for c := range rm.players[playerID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (rm *Rooms) subscribeLocked(c *conn, gameID int64) {
	if rm.games[gameID] == nil {
		rm.games[gameID] = make(map[*conn]struct{})
	}
	rm.games[gameID][c] = struct{}{}
	c.room = gameID
}

func (rm *Rooms) unsubscribeLocked(c *conn) {
	if c.room == 0 {
		return
	}
	if conns := rm.games[c.room]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(rm.games, c.room)
		}
	}
	c.room = 0
}
