package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ryan24313/formWords/internal/database"
)

func TestHandleHealth(t *testing.T) {
	// Real SQLite in-memory DB — lightweight, no mocks needed.
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()

	t.Run("sqlite ok", func(t *testing.T) {
		h := handleHealth(slog.Default(), db)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var body map[string]struct{ Status string }
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got := body["sqlite"].Status; got != "ok" {
			t.Errorf("sqlite = %q, want ok", got)
		}
	})

	t.Run("sqlite closed", func(t *testing.T) {
		closed, err := database.Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("opening db: %v", err)
		}
		closed.Close()

		h := handleHealth(slog.Default(), closed)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}

		var body map[string]struct{ Status string }
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got := body["sqlite"].Status; got != "error" {
			t.Errorf("sqlite = %q, want error", got)
		}
	})
}
