package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/Ryan24313/formWords/internal/game"
	"github.com/Ryan24313/formWords/internal/wordlist"
)

func addRoutes(r chi.Router, logger *slog.Logger, secret []byte, reg *game.Registry, rooms *Rooms, words *wordlist.WordList, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("formWords API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// The socket authenticates via query parameter; it cannot go through the
	// header-based identity middleware.
	r.Get("/api/game/events", handleWS(logger, secret, reg, rooms))

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware(secret))
		r.Post("/games", handleCreateGame(reg, rooms, words))
		r.Post("/games/join", handleJoinGame(reg, rooms))
		r.Get("/game/state", handleGameState(reg))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
