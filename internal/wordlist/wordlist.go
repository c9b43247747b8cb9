// Package wordlist loads the named lists of valid words from the persistent
// store. Lists are read once at startup and immutable afterwards; games only
// hold a list's id.
package wordlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("word list not found")

type WordList struct {
	ID   int64
	Name string

	words map[string]struct{}
}

// Load reads one word list row. The words column is a JSON-encoded array of
// words; entries are normalized to upper case to match letter tiles.
func Load(ctx context.Context, db *sql.DB, id int64) (*WordList, error) {
	var (
		name      string
		wordsJSON string
	)
	err := db.QueryRowContext(ctx, `
		SELECT name, words FROM word_lists WHERE id = ?
	`, id).Scan(&name, &wordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word list %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading word list %d: %w", id, err)
	}

	var words []string
	if err := json.Unmarshal([]byte(wordsJSON), &words); err != nil {
		return nil, fmt.Errorf("decoding word list %d: %w", id, err)
	}

	wl := &WordList{
		ID:    id,
		Name:  name,
		words: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		wl.words[strings.ToUpper(w)] = struct{}{}
	}
	return wl, nil
}

// Contains reports whether word is in the list, case-insensitively.
func (w *WordList) Contains(word string) bool {
	_, ok := w.words[strings.ToUpper(word)]
	return ok
}

func (w *WordList) Len() int { return len(w.words) }
