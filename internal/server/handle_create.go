package server

import (
	"errors"
	"net/http"

	"github.com/Ryan24313/formWords/internal/game"
	"github.com/Ryan24313/formWords/internal/wordlist"
)

type CreateGameRequest struct {
	WordListID int64 `json:"wordListId"`
}

type CreateGameResponse struct {
	GameID int64  `json:"gameId"`
	Code   string `json:"code"`
}

func handleCreateGame(reg *game.Registry, rooms *Rooms, words *wordlist.WordList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r)

		var req CreateGameRequest
		if r.ContentLength > 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if req.WordListID == 0 {
			req.WordListID = words.ID
		}
		if req.WordListID != words.ID {
			writeError(w, http.StatusNotFound, "unknown word list")
			return
		}

		g, err := reg.CreateGame(id, req.WordListID)
		if errors.Is(err, game.ErrInvalidState) {
			writeRedirect(w, http.StatusConflict, "you are already in a game", "/game")
			return
		}
		if errors.Is(err, game.ErrConflict) {
			writeError(w, http.StatusConflict, "could not allocate a join code")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rooms.Subscribe(id.ID, g.ID())

		writeJSON(w, http.StatusCreated, CreateGameResponse{
			GameID: g.ID(),
			Code:   g.Code(),
		})
	}
}
