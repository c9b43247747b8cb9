package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Ryan24313/formWords/internal/config"
	"github.com/Ryan24313/formWords/internal/database"
	"github.com/Ryan24313/formWords/internal/game"
	"github.com/Ryan24313/formWords/internal/migrations"
	"github.com/Ryan24313/formWords/internal/server"
	"github.com/Ryan24313/formWords/internal/wordlist"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite (word-list store) ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// The default word list must load before any connection is accepted;
	// without it no game can be played.
	words, err := wordlist.Load(ctx, db, cfg.WordListID)
	if err != nil {
		return fmt.Errorf("loading word list %d: %w", cfg.WordListID, err)
	}
	logger.Info("word list loaded", "id", words.ID, "name", words.Name, "words", words.Len())

	// --- Game state (in-memory, ephemeral) ---
	reg := game.NewRegistry()
	rooms := server.NewRooms()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, []byte(cfg.AuthSecret), reg, rooms, words, db, cfg.SPADir)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
