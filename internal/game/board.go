package game

import "fmt"

// BoardSize is the fixed edge length of the square grid.
const BoardSize = 10

// PlacedTile is a tile on the board plus its provenance: the turn it was
// placed on and the player who placed it.
type PlacedTile struct {
	Letter   string
	Turn     int
	PlacedBy string
}

// Board is a fixed 10x10 grid. Cells stack: placing appends, and nothing
// removes a tile until the game itself is torn down. Adjacency and word
// legality are not checked here; that belongs to the validation layer.
type Board struct {
	cells [BoardSize][BoardSize][]PlacedTile
}

func NewBoard() *Board { return &Board{} }

// Place appends a tile to the stack at (x, y). Only bounds are checked.
func (b *Board) Place(x, y int, t PlacedTile) error {
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return fmt.Errorf("cell (%d,%d) is off the board: %w", x, y, ErrInvalidState)
	}
	b.cells[x][y] = append(b.cells[x][y], t)
	return nil
}

// TileCount is the number of tiles placed across all cells.
func (b *Board) TileCount() int {
	n := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			n += len(b.cells[x][y])
		}
	}
	return n
}

// Cells returns a deep copy of the grid, safe to read after the game lock is
// released.
func (b *Board) Cells() [BoardSize][BoardSize][]PlacedTile {
	var out [BoardSize][BoardSize][]PlacedTile
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if len(b.cells[x][y]) > 0 {
				out[x][y] = append([]PlacedTile(nil), b.cells[x][y]...)
			}
		}
	}
	return out
}
