package physics

import (
	"errors"
	"math"
	"testing"
)

func TestNewTileGrid_DefaultEmpty(t *testing.T) {
	g, err := NewTileGrid(250, 200, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cols() != 10 || g.Rows() != 8 {
		t.Fatalf("expected 10x8, got %dx%d", g.Cols(), g.Rows())
	}
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if k := g.Kind(row, col); k != TileEmpty {
				t.Fatalf("tile (%d,%d) kind=%s, want empty", row, col, k)
			}
			if !g.IsPassable(row, col) {
				t.Fatalf("tile (%d,%d) should be passable", row, col)
			}
		}
	}
}

func TestNewTileGrid_DropsPartialCells(t *testing.T) {
	g, err := NewTileGrid(260, 249, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Cols() != 10 || g.Rows() != 9 {
		t.Fatalf("expected 10x9, got %dx%d", g.Cols(), g.Rows())
	}
	if g.WidthUnits() != 250 || g.HeightUnits() != 225 {
		t.Fatalf("map size should be whole cells, got %vx%v", g.WidthUnits(), g.HeightUnits())
	}
}

func TestNewTileGrid_RejectsBadCellSize(t *testing.T) {
	for _, cs := range []float64{0, -25, math.NaN(), math.Inf(1)} {
		if _, err := NewTileGrid(250, 250, cs); !errors.Is(err, ErrInvalidCellSize) {
			t.Fatalf("cell size %v: expected ErrInvalidCellSize, got %v", cs, err)
		}
	}
}

func TestNewTileGrid_RejectsEmptyMap(t *testing.T) {
	if _, err := NewTileGrid(10, 250, 25); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("map narrower than a cell: expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := NewTileGridCells(0, 4, 25); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("zero columns: expected ErrInvalidDimensions, got %v", err)
	}
}

func TestTileGrid_SetTileGroundBlocks(t *testing.T) {
	g, _ := NewTileGridCells(5, 5, 25)
	if err := g.SetTile(2, 3, TileGround); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	if g.IsPassable(2, 3) {
		t.Fatal("ground tile should not be passable")
	}
	if !g.IsPassable(3, 2) {
		t.Fatal("row/col must not be swapped")
	}
	tile, ok := g.At(2, 3)
	if !ok {
		t.Fatal("At should find an in-range tile")
	}
	if tile.X != 75 || tile.Y != 50 || tile.Size != 25 {
		t.Fatalf("tile (2,3) geometry = (%v,%v,%v), want (75,50,25)", tile.X, tile.Y, tile.Size)
	}
	if tile.Right() != 100 || tile.Bottom() != 75 {
		t.Fatalf("tile (2,3) right/bottom = %v/%v, want 100/75", tile.Right(), tile.Bottom())
	}
}

func TestTileGrid_SetTileOutOfRange(t *testing.T) {
	g, _ := NewTileGridCells(5, 5, 25)
	cases := [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}}
	for _, rc := range cases {
		if err := g.SetTile(rc[0], rc[1], TileGround); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("SetTile(%d,%d): expected ErrOutOfRange, got %v", rc[0], rc[1], err)
		}
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if g.Kind(row, col) != TileEmpty {
				t.Fatalf("rejected write changed tile (%d,%d)", row, col)
			}
		}
	}
}

func TestTileGrid_SetTileUnknownKind(t *testing.T) {
	g, _ := NewTileGridCells(3, 3, 25)
	if err := g.SetTile(1, 1, tileKindCount); err == nil {
		t.Fatal("unknown kind should be rejected")
	}
}

func TestTileGrid_OutOfRangeReads(t *testing.T) {
	g, _ := NewTileGridCells(3, 3, 25)
	if _, ok := g.At(3, 0); ok {
		t.Fatal("At should report out-of-range cells")
	}
	if g.IsPassable(-1, 0) {
		t.Fatal("out-of-range cells are not passable")
	}
	if g.Kind(0, 9) != TileEmpty {
		t.Fatal("out-of-range kind should read as empty")
	}
}

func TestTileGrid_SampleClamps(t *testing.T) {
	g, _ := NewTileGridCells(10, 10, 25)
	_ = g.SetTile(0, 0, TileGround)
	_ = g.SetTile(9, 9, TileGround)

	if tile := g.Sample(-4, -1); tile.Row != 0 || tile.Col != 0 || tile.Passable() {
		t.Fatalf("Sample(-4,-1) = (%d,%d) passable=%v, want solid (0,0)", tile.Row, tile.Col, tile.Passable())
	}
	if tile := g.Sample(10, 42); tile.Row != 9 || tile.Col != 9 || tile.Passable() {
		t.Fatalf("Sample(10,42) = (%d,%d) passable=%v, want solid (9,9)", tile.Row, tile.Col, tile.Passable())
	}
	if tile := g.Sample(4, 10); tile.Row != 4 || tile.Col != 9 {
		t.Fatalf("Sample(4,10) = (%d,%d), want (4,9)", tile.Row, tile.Col)
	}
}

func TestTileGrid_CellOf(t *testing.T) {
	g, _ := NewTileGridCells(10, 10, 25)
	cases := []struct {
		x, y     float64
		row, col int
	}{
		{0, 0, 0, 0},
		{24.99, 25, 1, 0},
		{100, 124.5, 4, 4},
		{-0.5, 30, 1, -1},
		{260, -1, -1, 10},
	}
	for _, c := range cases {
		row, col := g.CellOf(c.x, c.y)
		if row != c.row || col != c.col {
			t.Fatalf("CellOf(%v,%v) = (%d,%d), want (%d,%d)", c.x, c.y, row, col, c.row, c.col)
		}
	}
}

func TestTileGrid_FillRow(t *testing.T) {
	g, _ := NewTileGridCells(6, 4, 25)
	if err := g.FillRow(3, TileGround); err != nil {
		t.Fatalf("fill row: %v", err)
	}
	for col := 0; col < 6; col++ {
		if g.IsPassable(3, col) {
			t.Fatalf("tile (3,%d) should be ground", col)
		}
		if !g.IsPassable(2, col) {
			t.Fatalf("tile (2,%d) should still be empty", col)
		}
	}
	if err := g.FillRow(4, TileGround); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("filling a missing row: expected ErrOutOfRange, got %v", err)
	}
}

func TestTileKind_String(t *testing.T) {
	if TileEmpty.String() != "empty" || TileGround.String() != "ground" {
		t.Fatalf("unexpected names %q %q", TileEmpty, TileGround)
	}
}

func TestTileGrid_SolidUnder(t *testing.T) {
	g, err := NewTileGridCells(4, 4, 25)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetTile(2, 1, TileGround); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		pos  Vec2
		ext  float64
		want bool
	}{
		{"inside the tile", Vec2{X: 25, Y: 50}, 25, true},
		{"corner overlap", Vec2{X: 10, Y: 40}, 20, true},
		{"resting on top", Vec2{X: 25, Y: 25}, 25, false},
		{"flush to the left", Vec2{X: 0, Y: 50}, 25, false},
		{"flush below", Vec2{X: 25, Y: 75}, 25, false},
		{"open sky", Vec2{X: 60, Y: 0}, 20, false},
	}
	for _, c := range cases {
		tile, got := g.SolidUnder(KinematicBody{Position: c.pos, Extent: c.ext})
		if got != c.want {
			t.Fatalf("%s: overlap = %v, want %v", c.name, got, c.want)
		}
		if got && (tile.Row != 2 || tile.Col != 1) {
			t.Fatalf("%s: reported tile (%d,%d), want (2,1)", c.name, tile.Row, tile.Col)
		}
	}
}
