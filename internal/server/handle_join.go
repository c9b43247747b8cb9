package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ryan24313/formWords/internal/game"
)

type JoinGameRequest struct {
	Code string `json:"code"`
}

type JoinGameResponse struct {
	GameID int64 `json:"gameId"`
}

func handleJoinGame(reg *game.Registry, rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r)

		var req JoinGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Code = strings.TrimSpace(req.Code)
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		g, err := reg.Join(id, req.Code)
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no waiting game with that code")
			return
		}
		if errors.Is(err, game.ErrInvalidState) {
			writeRedirect(w, http.StatusConflict, "you are already in a game", "/game")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rooms.Subscribe(id.ID, g.ID())
		rooms.Broadcast(g.ID(), evGetPlayers, rosterPayload(g))

		writeJSON(w, http.StatusOK, JoinGameResponse{GameID: g.ID()})
	}
}
