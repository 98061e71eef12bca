// Package physics is the platformer character controller: a fixed-tick
// kinematic integrator, a three-state movement machine and a tile-grid
// collision resolver. It holds no presentation resources.
package physics

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCellSize   = errors.New("cell size must be positive")
	ErrInvalidDimensions = errors.New("grid must contain at least one cell")
	ErrOutOfRange        = errors.New("tile coordinates out of range")
)

// TileKind identifies what occupies a grid cell.
type TileKind uint8

const (
	TileEmpty    TileKind = iota // open air
	TileGround                   // solid block
	tileKindCount                // sentinel
)

func (k TileKind) String() string {
	switch k {
	case TileEmpty:
		return "empty"
	case TileGround:
		return "ground"
	default:
		return fmt.Sprintf("TileKind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known kind.
func (k TileKind) Valid() bool { return k < tileKindCount }

// kindPassable returns true if a body may occupy a tile of kind k.
func kindPassable(k TileKind) bool {
	return k != TileGround
}

// Tile is one cell of the grid.
type Tile struct {
	Row  int
	Col  int
	X, Y float64 // top-left corner in world units
	Size float64
	Kind TileKind
}

// Passable returns true if the tile does not block movement.
func (t Tile) Passable() bool { return kindPassable(t.Kind) }

// Top returns the world y of the tile's top edge.
func (t Tile) Top() float64 { return t.Y }

// Bottom returns the world y of the tile's bottom edge.
func (t Tile) Bottom() float64 { return t.Y + t.Size }

// Left returns the world x of the tile's left edge.
func (t Tile) Left() float64 { return t.X }

// Right returns the world x of the tile's right edge.
func (t Tile) Right() float64 { return t.X + t.Size }

// TileGrid is the fixed cell partition of the playable area.
// Kinds may change only between simulation sessions.
type TileGrid struct {
	cols     int
	rows     int
	cellSize float64
	kinds    []TileKind // row-major: index = row*cols + col
}

// NewTileGrid partitions a widthUnits x heightUnits area into square cells.
// Partial cells at the right and bottom edges are dropped.
func NewTileGrid(widthUnits, heightUnits, cellSize float64) (*TileGrid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("new tile grid: %w (got %v)", ErrInvalidCellSize, cellSize)
	}
	cols := int(widthUnits / cellSize)
	rows := int(heightUnits / cellSize)
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("new tile grid %vx%v with cell %v: %w", widthUnits, heightUnits, cellSize, ErrInvalidDimensions)
	}
	return &TileGrid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		kinds:    make([]TileKind, cols*rows),
	}, nil
}

// NewTileGridCells builds a grid from a cell count instead of world units.
func NewTileGridCells(cols, rows int, cellSize float64) (*TileGrid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("new tile grid %dx%d cells: %w", cols, rows, ErrInvalidDimensions)
	}
	return NewTileGrid(float64(cols)*cellSize, float64(rows)*cellSize, cellSize)
}

// Cols returns the grid width in cells.
func (g *TileGrid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *TileGrid) Rows() int { return g.rows }

// CellSize returns the side length of one cell.
func (g *TileGrid) CellSize() float64 { return g.cellSize }

// WidthUnits returns the map width in world units.
func (g *TileGrid) WidthUnits() float64 { return float64(g.cols) * g.cellSize }

// HeightUnits returns the map height in world units.
func (g *TileGrid) HeightUnits() float64 { return float64(g.rows) * g.cellSize }

func (g *TileGrid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *TileGrid) tile(row, col int) Tile {
	return Tile{
		Row:  row,
		Col:  col,
		X:    float64(col) * g.cellSize,
		Y:    float64(row) * g.cellSize,
		Size: g.cellSize,
		Kind: g.kinds[row*g.cols+col],
	}
}

// SetTile changes the kind of one cell. Out-of-range coordinates and unknown
// kinds are rejected rather than clamped.
func (g *TileGrid) SetTile(row, col int, kind TileKind) error {
	if !g.inBounds(row, col) {
		return fmt.Errorf("set tile (%d,%d) on %dx%d grid: %w", row, col, g.rows, g.cols, ErrOutOfRange)
	}
	if !kind.Valid() {
		return fmt.Errorf("set tile (%d,%d): unknown kind %d", row, col, uint8(kind))
	}
	g.kinds[row*g.cols+col] = kind
	return nil
}

// FillRow sets every cell of a row to kind.
func (g *TileGrid) FillRow(row int, kind TileKind) error {
	for col := 0; col < g.cols; col++ {
		if err := g.SetTile(row, col, kind); err != nil {
			return err
		}
	}
	return nil
}

// At returns the tile at (row, col), or false if out of range.
func (g *TileGrid) At(row, col int) (Tile, bool) {
	if !g.inBounds(row, col) {
		return Tile{}, false
	}
	return g.tile(row, col), true
}

// Kind returns the kind at (row, col). Out-of-range cells read as empty.
func (g *TileGrid) Kind(row, col int) TileKind {
	if !g.inBounds(row, col) {
		return TileEmpty
	}
	return g.kinds[row*g.cols+col]
}

// IsPassable returns true if (row, col) is inside the grid and passable.
func (g *TileGrid) IsPassable(row, col int) bool {
	if !g.inBounds(row, col) {
		return false
	}
	return kindPassable(g.kinds[row*g.cols+col])
}

// Sample returns the tile at (row, col) with both indices clamped into the
// grid. The collision resolver relies on this never failing.
func (g *TileGrid) Sample(row, col int) Tile {
	return g.tile(clampIndex(row, g.rows), clampIndex(col, g.cols))
}

// CellOf returns the unclamped (row, col) containing world point (x, y).
func (g *TileGrid) CellOf(x, y float64) (row, col int) {
	return int(math.Floor(y / g.cellSize)), int(math.Floor(x / g.cellSize))
}

// SolidUnder returns the first impassable cell (row-major) whose interior
// overlaps b's footprint. Touching an edge is not overlap.
func (g *TileGrid) SolidUnder(b KinematicBody) (Tile, bool) {
	r0, c0 := g.CellOf(b.Position.X, b.Position.Y)
	r1 := int(math.Ceil(b.Bottom()/g.cellSize)) - 1
	c1 := int(math.Ceil(b.Right()/g.cellSize)) - 1
	for row := max(r0, 0); row <= min(r1, g.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, g.cols-1); col++ {
			if !kindPassable(g.kinds[row*g.cols+col]) {
				return g.tile(row, col), true
			}
		}
	}
	return Tile{}, false
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
