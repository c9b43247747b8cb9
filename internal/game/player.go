package game

// Identity is the authenticated {id, username} pair resolved by the external
// identity layer. The core consumes identities; it never mints them.
type Identity struct {
	ID       string
	Username string
}

// Player is the ephemeral per-game wrapper around an identity. Hand and
// score exist only while the player is a member of a game.
type Player struct {
	ID       string
	Username string
	Hand     []string
	Score    int
}

// PlayerSummary is the roster view of a player: hands are private, so only
// the hand size is exposed.
type PlayerSummary struct {
	ID       string
	Username string
	Score    int
	Tiles    int
}
