package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Status is the lifecycle state of a game. Transitions are monotone:
// waiting -> started -> ended, never backwards. Ended games are removed from
// the registry immediately, so clients only ever observe "ended" as a
// notification.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
	StatusEnded   Status = "ended"
)

// HandSize is the number of tiles dealt to each player at game start.
const HandSize = 7

// Placement is one tile put down within a turn.
type Placement struct {
	X      int
	Y      int
	Letter string
}

// Turn is one entry of the append-only history. Number is the game-global
// counter shared across players, not a per-player count.
type Turn struct {
	Player     string
	Number     int
	Placements []Placement
	Score      int
}

// Game is the aggregate root: lifecycle, membership, board, bag, and turn
// history. Every mutating method serializes on mu; the Registry is the only
// place games are created or destroyed.
type Game struct {
	mu sync.Mutex

	id         int64
	code       string
	owner      string
	status     Status
	players    map[string]*Player
	order      []string // join order; also the dealing order
	board      *Board
	bag        *Bag
	turnNumber int
	wordListID int64
	turns      []Turn
}

func (g *Game) ID() int64 { return g.id }

func (g *Game) Code() string { return g.code }

func (g *Game) Owner() string { return g.owner }

func (g *Game) WordListID() int64 { return g.wordListID }

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Start transitions waiting -> started: deals initial hands and opens play
// at turn 1. Owner only.
func (g *Game) Start(actor string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if actor != g.owner {
		return fmt.Errorf("only the owner can start the game: %w", ErrUnauthorized)
	}
	if g.status != StatusWaiting {
		return fmt.Errorf("game is already %s: %w", g.status, ErrInvalidState)
	}

	g.status = StatusStarted
	g.turnNumber = 1

	// One tile to every player per round, HandSize rounds. An abnormally
	// small bag then shorts everyone evenly instead of starving whoever
	// joined last.
	for round := 0; round < HandSize; round++ {
		for _, pid := range g.order {
			letter, err := g.bag.Draw()
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			p := g.players[pid]
			p.Hand = append(p.Hand, letter)
		}
	}
	return nil
}

// SubmitTurn appends a turn to the history: the placed letters leave the
// player's hand, land on the board with provenance, and replacements are
// drawn from the bag (short hands tolerated when the bag runs out). Word
// legality and scoring are left to the validation layer, so Score is 0.
func (g *Game) SubmitTurn(playerID string, placements []Placement) (Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusStarted {
		return Turn{}, fmt.Errorf("game is %s, not started: %w", g.status, ErrInvalidState)
	}
	p, ok := g.players[playerID]
	if !ok {
		return Turn{}, fmt.Errorf("player %s is not in this game: %w", playerID, ErrNotFound)
	}
	if len(placements) == 0 {
		return Turn{}, fmt.Errorf("a turn must place at least one letter: %w", ErrInvalidState)
	}

	// Validate everything before mutating anything.
	remaining := slices.Clone(p.Hand)
	for _, pl := range placements {
		if pl.X < 0 || pl.X >= BoardSize || pl.Y < 0 || pl.Y >= BoardSize {
			return Turn{}, fmt.Errorf("cell (%d,%d) is off the board: %w", pl.X, pl.Y, ErrInvalidState)
		}
		i := slices.Index(remaining, pl.Letter)
		if i < 0 {
			return Turn{}, fmt.Errorf("letter %q is not in your hand: %w", pl.Letter, ErrInvalidState)
		}
		remaining = slices.Delete(remaining, i, i+1)
	}

	turn := Turn{
		Player:     playerID,
		Number:     g.turnNumber,
		Placements: slices.Clone(placements),
	}
	for _, pl := range placements {
		g.board.Place(pl.X, pl.Y, PlacedTile{Letter: pl.Letter, Turn: g.turnNumber, PlacedBy: playerID})
	}
	g.turns = append(g.turns, turn)
	g.turnNumber++
	p.Score += turn.Score

	p.Hand = remaining
	for i := 0; i < len(placements); i++ {
		letter, err := g.bag.Draw()
		if errors.Is(err, ErrExhausted) {
			break
		}
		p.Hand = append(p.Hand, letter)
	}
	return turn, nil
}

// Players returns the roster in join order.
func (g *Game) Players() []PlayerSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster()
}

func (g *Game) roster() []PlayerSummary {
	out := make([]PlayerSummary, 0, len(g.order))
	for _, pid := range g.order {
		p := g.players[pid]
		out = append(out, PlayerSummary{
			ID:       p.ID,
			Username: p.Username,
			Score:    p.Score,
			Tiles:    len(p.Hand),
		})
	}
	return out
}

// Snapshot is a viewer-scoped copy of the game state: the viewer sees their
// own hand, everyone else only by hand size.
type Snapshot struct {
	ID         int64
	Code       string
	Owner      string
	Status     Status
	TurnNumber int
	TilesLeft  int
	WordListID int64
	Players    []PlayerSummary
	Board      [BoardSize][BoardSize][]PlacedTile
	Hand       []string
	Turns      []Turn
}

func (g *Game) Snapshot(viewer string) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:         g.id,
		Code:       g.code,
		Owner:      g.owner,
		Status:     g.status,
		TurnNumber: g.turnNumber,
		TilesLeft:  g.bag.Remaining(),
		WordListID: g.wordListID,
		Players:    g.roster(),
		Board:      g.board.Cells(),
		Turns:      slices.Clone(g.turns),
	}
	if p, ok := g.players[viewer]; ok {
		s.Hand = slices.Clone(p.Hand)
	}
	return s
}

// --- membership, registry-driven ---
//
// The methods below are called by the Registry with its own lock held (lock
// order is always registry, then game) because membership changes have to
// stay in step with the registry's player -> game index.

func (g *Game) add(id Identity) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusWaiting {
		return fmt.Errorf("game is no longer accepting players: %w", ErrInvalidState)
	}
	if _, ok := g.players[id.ID]; ok {
		return fmt.Errorf("player %s is already in this game: %w", id.ID, ErrInvalidState)
	}
	g.players[id.ID] = &Player{ID: id.ID, Username: id.Username}
	g.order = append(g.order, id.ID)
	return nil
}

func (g *Game) kick(actor, target string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if actor != g.owner {
		return fmt.Errorf("only the owner can kick players: %w", ErrUnauthorized)
	}
	if target == g.owner {
		return fmt.Errorf("the owner cannot kick themself: %w", ErrInvalidState)
	}
	if _, ok := g.players[target]; !ok {
		return fmt.Errorf("player %s is not in this game: %w", target, ErrNotFound)
	}
	g.removeLocked(target)
	return nil
}

func (g *Game) leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[playerID]; !ok {
		return fmt.Errorf("player %s is not in this game: %w", playerID, ErrNotFound)
	}
	if playerID == g.owner {
		return fmt.Errorf("the owner cannot leave; end the game instead: %w", ErrInvalidState)
	}
	g.removeLocked(playerID)
	return nil
}

// end marks the game ended and evicts everyone, returning the evicted ids.
func (g *Game) end(actor string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if actor != g.owner {
		return nil, fmt.Errorf("only the owner can end the game: %w", ErrUnauthorized)
	}
	if g.status == StatusEnded {
		return nil, fmt.Errorf("game has already ended: %w", ErrInvalidState)
	}
	g.status = StatusEnded

	evicted := slices.Clone(g.order)
	g.players = map[string]*Player{}
	g.order = nil
	return evicted, nil
}

func (g *Game) empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players) == 0
}

func (g *Game) removeLocked(playerID string) {
	delete(g.players, playerID)
	if i := slices.Index(g.order, playerID); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
}
