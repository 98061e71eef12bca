// Package level loads level descriptions (map, movement rules and actor
// spawn) from YAML and turns them into ready-to-run controllers.
package level

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// ErrMalformed is wrapped by every validation error Parse returns.
var ErrMalformed = errors.New("malformed level")

const (
	groundRune = '#'
	emptyRune  = '.'

	defaultCellSize = 25.0
)

//go:embed levels/*.yaml
var builtinFS embed.FS

// Rules overrides the default movement rules. Missing fields keep their
// default value.
type Rules struct {
	Friction    *float64     `yaml:"friction,omitempty"`
	Gravity     *float64     `yaml:"gravity,omitempty"`
	JumpImpulse *float64     `yaml:"jump_impulse,omitempty"`
	MaxVelocity *MaxVelocity `yaml:"max_velocity,omitempty"`
}

// MaxVelocity is the optional per-axis speed cap.
type MaxVelocity struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Actor is the spawn description of the controlled body.
type Actor struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx,omitempty"`
	VY     float64 `yaml:"vy,omitempty"`
	Extent float64 `yaml:"extent,omitempty"`
	State  string  `yaml:"state,omitempty"`
}

// Level is one parsed level file.
type Level struct {
	Name     string  `yaml:"name"`
	CellSize float64 `yaml:"cell_size,omitempty"`
	Rules    Rules   `yaml:"rules,omitempty"`
	Actor    Actor   `yaml:"actor"`
	Tiles    string  `yaml:"tiles"`

	source string
	rows   []string
	state  physics.MotionState
}

// Load reads and parses a level file.
func Load(file string) (*Level, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", file, err)
	}
	return Parse(data, file)
}

// Open resolves ref as a built-in level name first and a file path second.
func Open(ref string) (*Level, error) {
	if l, err := Builtin(ref); err == nil {
		return l, nil
	}
	return Load(ref)
}

// Builtin parses one of the embedded levels by name.
func Builtin(name string) (*Level, error) {
	data, err := builtinFS.ReadFile(path.Join("levels", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown built-in level %q", name)
	}
	return Parse(data, "builtin:"+name)
}

// BuiltinNames lists the embedded levels in name order.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("levels")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Parse decodes and validates a level. source names the input in errors.
func Parse(data []byte, source string) (*Level, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse level %s: %w", source, err)
	}
	l := &Level{source: source}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(l); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: %w", source, ErrMalformed, err)
	}
	if err := l.validate(tilesLine(&doc)); err != nil {
		return nil, err
	}
	return l, nil
}

// tilesLine returns the 1-based file line of the first tile row, or 0 when
// the document has no tiles key.
func tilesLine(doc *yaml.Node) int {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return 0
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return 0
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != "tiles" {
			continue
		}
		v := m.Content[i+1]
		if v.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return v.Line + 1
		}
		return v.Line
	}
	return 0
}

func (l *Level) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", l.source, ErrMalformed, fmt.Sprintf(format, args...))
}

func (l *Level) lineErrorf(line int, format string, args ...any) error {
	if line <= 0 {
		return l.errorf(format, args...)
	}
	return fmt.Errorf("%s:%d: %w: %s", l.source, line, ErrMalformed, fmt.Sprintf(format, args...))
}

func (l *Level) validate(firstLine int) error {
	if l.CellSize == 0 {
		l.CellSize = defaultCellSize
	}
	if !(l.CellSize > 0) {
		return l.errorf("cell_size must be positive, got %v", l.CellSize)
	}
	if l.Actor.Extent == 0 {
		l.Actor.Extent = l.CellSize
	}

	l.state = physics.StateFalling
	if l.Actor.State != "" {
		s, err := physics.ParseMotionState(l.Actor.State)
		if err != nil {
			return l.errorf("actor: %v", err)
		}
		l.state = s
	}

	if err := l.Rules.Resolve().Validate(); err != nil {
		return l.errorf("rules: %v", err)
	}

	l.rows = l.rows[:0]
	lines := strings.Split(strings.TrimRight(l.Tiles, "\n"), "\n")
	width := -1
	for i, raw := range lines {
		line := firstLine + i
		if firstLine <= 0 {
			line = 0
		}
		row := strings.TrimRight(raw, " \t\r")
		for col, r := range row {
			if r != groundRune && r != emptyRune {
				return l.lineErrorf(line, "tile row %d col %d: unexpected %q (want %q or %q)", i, col, r, groundRune, emptyRune)
			}
		}
		if width == -1 {
			width = len(row)
		}
		if len(row) != width {
			return l.lineErrorf(line, "tile row %d has width %d, want %d", i, len(row), width)
		}
		l.rows = append(l.rows, row)
	}
	if width <= 0 {
		return l.errorf("tiles: map must contain at least one cell")
	}
	return l.validateSpawn(firstLine)
}

// validateSpawn rejects actors that start off the map or inside ground.
func (l *Level) validateSpawn(firstLine int) error {
	g, err := l.Grid()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	b := l.Body()
	if err := physics.ValidateBody(b, g); err != nil {
		return fmt.Errorf("%s: %w: actor: %w", l.source, ErrMalformed, err)
	}
	if t, ok := g.SolidUnder(b); ok {
		line := 0
		if firstLine > 0 {
			line = firstLine + t.Row
		}
		return l.lineErrorf(line, "actor at (%v,%v) overlaps ground at tile row %d col %d", b.Position.X, b.Position.Y, t.Row, t.Col)
	}
	return nil
}

// Resolve merges the overrides onto physics.DefaultRules.
func (r Rules) Resolve() physics.MovementRules {
	out := physics.DefaultRules()
	if r.Friction != nil {
		out.Friction = *r.Friction
	}
	if r.Gravity != nil {
		out.Gravity = *r.Gravity
	}
	if r.JumpImpulse != nil {
		out.JumpImpulse = *r.JumpImpulse
	}
	if r.MaxVelocity != nil {
		out.MaxVelocity = physics.Vec2{X: r.MaxVelocity.X, Y: r.MaxVelocity.Y}
	}
	return out
}

// Source returns where the level was read from.
func (l *Level) Source() string { return l.source }

// Cols returns the map width in cells.
func (l *Level) Cols() int {
	if len(l.rows) == 0 {
		return 0
	}
	return len(l.rows[0])
}

// Rows returns the map height in cells.
func (l *Level) Rows() int { return len(l.rows) }

// Grid builds the tile grid described by the level.
func (l *Level) Grid() (*physics.TileGrid, error) {
	g, err := physics.NewTileGridCells(l.Cols(), l.Rows(), l.CellSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.source, err)
	}
	for row, line := range l.rows {
		for col := 0; col < len(line); col++ {
			if line[col] != groundRune {
				continue
			}
			if err := g.SetTile(row, col, physics.TileGround); err != nil {
				return nil, fmt.Errorf("%s: %w", l.source, err)
			}
		}
	}
	return g, nil
}

// Body returns the actor's spawn body.
func (l *Level) Body() physics.KinematicBody {
	return physics.KinematicBody{
		Position: physics.Vec2{X: l.Actor.X, Y: l.Actor.Y},
		Velocity: physics.Vec2{X: l.Actor.VX, Y: l.Actor.VY},
		Extent:   l.Actor.Extent,
	}
}

// State returns the actor's spawn state.
func (l *Level) State() physics.MotionState { return l.state }

// Build returns a fresh controller at the level's spawn point.
func (l *Level) Build() (*physics.Controller, error) {
	g, err := l.Grid()
	if err != nil {
		return nil, err
	}
	c, err := physics.NewController(g, l.Rules.Resolve(), l.Body(), l.state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.source, err)
	}
	return c, nil
}

// Encode writes the level back out as YAML.
func (l *Level) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
