package game

import "math/rand/v2"

// TotalTiles is the size of a fresh bag: the sum of the distribution below.
const TotalTiles = 98

// letterOrder fixes the iteration order for draws. QU is a single two-letter
// tile, not a Q followed by a U.
var letterOrder = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "QU", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

var letterCounts = map[string]int{
	"A": 7, "B": 3, "C": 4, "D": 5, "E": 8, "F": 3, "G": 3, "H": 3,
	"I": 7, "J": 1, "K": 2, "L": 5, "M": 5, "N": 5, "O": 7, "P": 3,
	"QU": 1, "R": 5, "S": 6, "T": 5, "U": 5, "V": 1, "W": 2, "X": 1,
	"Y": 2, "Z": 1,
}

// Bag is the remaining multiset of undrawn letter tiles for one game. It is
// not safe for concurrent use; the owning Game's lock covers it.
type Bag struct {
	counts map[string]int
	total  int
}

func NewBag() *Bag {
	counts := make(map[string]int, len(letterOrder))
	total := 0
	for letter, n := range letterCounts {
		counts[letter] = n
		total += n
	}
	return &Bag{counts: counts, total: total}
}

// Draw removes one tile chosen uniformly from the remaining multiset.
func (b *Bag) Draw() (string, error) {
	if b.total == 0 {
		return "", ErrExhausted
	}
	n := rand.IntN(b.total)
	for _, letter := range letterOrder {
		c := b.counts[letter]
		if n < c {
			b.counts[letter] = c - 1
			b.total--
			return letter, nil
		}
		n -= c
	}
	// Unreachable while counts and total agree.
	return "", ErrExhausted
}

// Remaining is the number of undrawn tiles.
func (b *Bag) Remaining() int { return b.total }
