package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// Join codes avoid 0/O/1/I/L lookalikes; they are typed by hand. Vars so
// tests can shrink the code space.
var (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

const maxCodeAttempts = 100

// Registry owns every live game. It allocates ids, keeps join codes unique,
// and enforces the one-game-per-player rule; everything inside a game is the
// Game's own business. Lock order is always registry first, game second.
type Registry struct {
	mu      sync.RWMutex
	nextID  int64
	games   map[int64]*Game
	codes   map[string]int64 // canonical (upper-case) code -> game id
	members map[string]int64 // player id -> game id
}

func NewRegistry() *Registry {
	return &Registry{
		games:   make(map[int64]*Game),
		codes:   make(map[string]int64),
		members: make(map[string]int64),
	}
}

// CreateGame allocates a fresh waiting game with the creator as owner and
// sole member.
func (r *Registry) CreateGame(id Identity, wordListID int64) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gid, ok := r.members[id.ID]; ok {
		return nil, fmt.Errorf("player %s is already in game %d: %w", id.ID, gid, ErrInvalidState)
	}

	code, err := r.newCode()
	if err != nil {
		return nil, err
	}

	r.nextID++
	g := &Game{
		id:         r.nextID,
		code:       code,
		owner:      id.ID,
		status:     StatusWaiting,
		players:    map[string]*Player{id.ID: {ID: id.ID, Username: id.Username}},
		order:      []string{id.ID},
		board:      NewBoard(),
		bag:        NewBag(),
		wordListID: wordListID,
	}
	r.games[g.id] = g
	r.codes[code] = g.id
	r.members[id.ID] = g.id
	return g, nil
}

// newCode samples codes until it finds a free one. The retry cap turns a
// pathologically full code space into ErrConflict instead of a livelock.
func (r *Registry) newCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := r.codes[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free join code after %d attempts: %w", maxCodeAttempts, ErrConflict)
}

// Get looks a game up by id.
func (r *Registry) Get(id int64) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return g, nil
}

// FindByCode matches a join code case-insensitively against waiting games.
func (r *Registry) FindByCode(code string) (*Game, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if gid, ok := r.codes[canonical]; ok {
		if g := r.games[gid]; g != nil && g.Status() == StatusWaiting {
			return g, nil
		}
	}
	return nil, fmt.Errorf("no waiting game with code %q: %w", code, ErrNotFound)
}

// GameOf resolves the game a player is currently a member of.
func (r *Registry) GameOf(playerID string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gid, ok := r.members[playerID]
	if !ok {
		return nil, false
	}
	g, ok := r.games[gid]
	return g, ok
}

// Join adds the identity to the waiting game with the given code.
func (r *Registry) Join(id Identity, code string) (*Game, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	r.mu.Lock()
	defer r.mu.Unlock()

	if gid, ok := r.members[id.ID]; ok {
		return nil, fmt.Errorf("player %s is already in game %d: %w", id.ID, gid, ErrInvalidState)
	}
	gid, ok := r.codes[canonical]
	if !ok {
		return nil, fmt.Errorf("no waiting game with code %q: %w", code, ErrNotFound)
	}
	g := r.games[gid]
	// A started game keeps its code reserved but is invisible to joiners.
	if g.Status() != StatusWaiting {
		return nil, fmt.Errorf("no waiting game with code %q: %w", code, ErrNotFound)
	}
	if err := g.add(id); err != nil {
		return nil, err
	}
	r.members[id.ID] = gid
	return g, nil
}

// Kick evicts target from the game. Owner only; the owner cannot kick
// themself.
func (r *Registry) Kick(gameID int64, actor, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if err := g.kick(actor, target); err != nil {
		return err
	}
	delete(r.members, target)
	return nil
}

// Leave removes a non-owner member from their game. The game is destroyed
// when its last member leaves.
func (r *Registry) Leave(gameID int64, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if err := g.leave(playerID); err != nil {
		return err
	}
	delete(r.members, playerID)
	if g.empty() {
		r.removeLocked(g)
	}
	return nil
}

// End tears the game down: every member is evicted and the game is removed
// from the registry. Owner only. Returns the evicted player ids so callers
// can detach their connections.
func (r *Registry) End(gameID int64, actor string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	evicted, err := g.end(actor)
	if err != nil {
		return nil, err
	}
	for _, pid := range evicted {
		delete(r.members, pid)
	}
	r.removeLocked(g)
	return evicted, nil
}

// Remove deletes a game outright. Collaborators (connections in the room)
// must already have been detached.
func (r *Registry) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok {
		return
	}
	for _, p := range g.Players() {
		delete(r.members, p.ID)
	}
	r.removeLocked(g)
}

func (r *Registry) removeLocked(g *Game) {
	delete(r.games, g.id)
	delete(r.codes, g.code)
}
