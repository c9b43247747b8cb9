package game

import (
	"errors"
	"testing"
)

func TestNewBagHas98Tiles(t *testing.T) {
	b := NewBag()
	if b.Remaining() != TotalTiles {
		t.Fatalf("fresh bag has %d tiles, want %d", b.Remaining(), TotalTiles)
	}
}

func TestDrawDepletesDistribution(t *testing.T) {
	b := NewBag()

	drawn := make(map[string]int)
	for i := 0; i < TotalTiles; i++ {
		letter, err := b.Draw()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		drawn[letter]++
	}

	if b.Remaining() != 0 {
		t.Errorf("bag reports %d remaining after draining", b.Remaining())
	}
	for letter, want := range letterCounts {
		if drawn[letter] != want {
			t.Errorf("drew %d %q tiles, want %d", drawn[letter], letter, want)
		}
	}
	if drawn["QU"] != 1 {
		t.Errorf("QU must be a single two-letter tile, drew %d", drawn["QU"])
	}
}

func TestDrawExhausted(t *testing.T) {
	b := NewBag()
	for i := 0; i < TotalTiles; i++ {
		if _, err := b.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}

	_, err := b.Draw()
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}
