package level

import (
	"fmt"
	"math"
	"strings"

	"github.com/ojrac/opensimplex-go"
)

const (
	terrainFreq = 0.18 // noise steps per column for the ground profile
	ledgeFreq   = 0.35 // noise steps per column for floating ledges
	ledgeCut    = 0.35 // ledge noise above this places a ledge cell
	ledgeGap    = 4    // rows between the ground surface and a ledge
	headroom    = 3    // empty rows kept at the top for the spawn
)

// Generate builds a procedural level from 1D simplex noise: a ground
// profile of varying height plus floating ledges. The same seed always
// yields the same level.
func Generate(seed int64, cols, rows int, cellSize float64) (*Level, error) {
	if cols < 2 || rows < headroom+2 {
		return nil, fmt.Errorf("generate %dx%d: %w: need at least 2x%d cells", cols, rows, ErrMalformed, headroom+2)
	}
	noise := opensimplex.New(seed)

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(string(emptyRune), cols))
	}

	maxHeight := rows - headroom
	base := float64(maxHeight) / 3
	for col := 0; col < cols; col++ {
		n := noise.Eval2(float64(col)*terrainFreq, 0)
		height := int(math.Round(base + n*base))
		height = max(1, min(height, maxHeight))
		surface := rows - height
		for r := surface; r < rows; r++ {
			grid[r][col] = groundRune
		}

		ledge := surface - ledgeGap
		if ledge >= headroom && noise.Eval2(float64(col)*ledgeFreq, 100) > ledgeCut {
			grid[ledge][col] = groundRune
		}
	}

	lines := make([]string, rows)
	for r, b := range grid {
		lines[r] = string(b)
	}
	spawnCol := cols / 2
	l := &Level{
		Name:     fmt.Sprintf("generated-%d", seed),
		CellSize: cellSize,
		Actor: Actor{
			X:      float64(spawnCol) * cellSize,
			Y:      0,
			Extent: cellSize * 0.8,
			State:  "falling",
		},
		Tiles: strings.Join(lines, "\n") + "\n",
	}
	l.source = l.Name
	if err := l.validate(0); err != nil {
		return nil, err
	}
	return l, nil
}

// Generated level size used by Select.
const (
	GeneratedCols = 40
	GeneratedRows = 16
)

// Select picks the level a command should run: a generated one when seed is
// non-negative, otherwise ref as for Open.
func Select(ref string, seed int64) (*Level, error) {
	if seed >= 0 {
		return Generate(seed, GeneratedCols, GeneratedRows, defaultCellSize)
	}
	return Open(ref)
}
