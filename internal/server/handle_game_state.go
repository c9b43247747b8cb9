package server

import (
	"net/http"

	"github.com/Ryan24313/formWords/internal/game"
)

type TileInfo struct {
	Letter   string `json:"letter"`
	Turn     int    `json:"turn"`
	PlacedBy string `json:"placedBy"`
}

type TurnInfo struct {
	Player     string             `json:"player"`
	Number     int                `json:"number"`
	Placements []PlacementPayload `json:"placements"`
	Score      int                `json:"score"`
}

type GameStateResponse struct {
	GameID     int64          `json:"gameId"`
	Code       string         `json:"code"`
	Owner      string         `json:"owner"`
	Status     string         `json:"status"`
	TurnNumber int            `json:"turnNumber"`
	TilesLeft  int            `json:"tilesLeft"`
	WordListID int64          `json:"wordListId"`
	Players    []PlayerInfo   `json:"players"`
	Board      [][][]TileInfo `json:"board"`
	Hand       []string       `json:"hand"`
	Turns      []TurnInfo     `json:"turns"`
}

// handleGameState returns the caller's view of their current game: their own
// hand in full, everyone else's by size only.
func handleGameState(reg *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r)

		g, ok := reg.GameOf(id.ID)
		if !ok {
			writeRedirect(w, http.StatusNotFound, "you are not in a game", "/")
			return
		}

		snap := g.Snapshot(id.ID)

		players := make([]PlayerInfo, 0, len(snap.Players))
		for _, p := range snap.Players {
			players = append(players, PlayerInfo{ID: p.ID, Username: p.Username, Score: p.Score, Tiles: p.Tiles})
		}

		board := make([][][]TileInfo, game.BoardSize)
		for x := 0; x < game.BoardSize; x++ {
			board[x] = make([][]TileInfo, game.BoardSize)
			for y := 0; y < game.BoardSize; y++ {
				cell := make([]TileInfo, 0, len(snap.Board[x][y]))
				for _, t := range snap.Board[x][y] {
					cell = append(cell, TileInfo{Letter: t.Letter, Turn: t.Turn, PlacedBy: t.PlacedBy})
				}
				board[x][y] = cell
			}
		}

		turns := make([]TurnInfo, 0, len(snap.Turns))
		for _, t := range snap.Turns {
			placements := make([]PlacementPayload, 0, len(t.Placements))
			for _, pl := range t.Placements {
				placements = append(placements, PlacementPayload{X: pl.X, Y: pl.Y, Letter: pl.Letter})
			}
			turns = append(turns, TurnInfo{Player: t.Player, Number: t.Number, Placements: placements, Score: t.Score})
		}

		hand := snap.Hand
		if hand == nil {
			hand = []string{}
		}

		writeJSON(w, http.StatusOK, GameStateResponse{
			GameID:     snap.ID,
			Code:       snap.Code,
			Owner:      snap.Owner,
			Status:     string(snap.Status),
			TurnNumber: snap.TurnNumber,
			TilesLeft:  snap.TilesLeft,
			WordListID: snap.WordListID,
			Players:    players,
			Board:      board,
			Hand:       hand,
			Turns:      turns,
		})
	}
}
