package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Block-Hopper/internal/level"
	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// scenarios are run in this order by -scenario=all.
var scenarios = []string{"drop", "walk-into-wall", "jump-into-ceiling", "random"}

type runStats struct {
	scenario string
	level    string
	runIndex int
	seed     int64
	ticks    int

	firstLandTick   int
	firstBounceTick int
	firstStopTick   int

	jumps        int
	landings     int
	bounces      int
	stateChanges int
	surfaces     map[string]int

	maxSpeedX float64
	maxSpeedY float64

	inBounds    bool
	escapedTick int
	final       physics.Snapshot
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var ref string
	var verbose bool
	var window int

	flag.IntVar(&runs, "runs", 5, "runs of the random scenario")
	flag.IntVar(&ticks, "ticks", 1800, "ticks per random run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "all", "scenario name: all, "+strings.Join(scenarios, ", "))
	flag.StringVar(&ref, "level", "", "run the random scenario on this level instead of generated ones")
	flag.BoolVar(&verbose, "v", false, "dump the event log of each run")
	flag.IntVar(&window, "window", 0, "with -v, only dump the last N ticks of each run (0 dumps all)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}

	names := scenarios
	if scenario != "all" {
		names = []string{scenario}
	}

	fmt.Printf("=== Headless Movement Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	failed := false
	var random []runStats
	for _, name := range names {
		n := 1
		if name == "random" {
			n = runs
		}
		for i := 0; i < n; i++ {
			seed := seedBase + int64(i)*seedStep
			rs, sl, err := runScenario(name, ref, i+1, seed, ticks)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(2)
			}
			fmt.Print(formatRun(rs))
			if verbose {
				fmt.Print(logWindow(sl, rs.ticks, window))
			}
			fmt.Println()
			if !rs.inBounds {
				failed = true
			}
			if name == "random" {
				random = append(random, rs)
			}
		}
	}

	if len(random) > 0 {
		fmt.Print(formatAggregate(random))
	}
	if failed {
		os.Exit(1)
	}
}

// runScenario builds and runs one scenario. Scripted scenarios ignore seed
// and ticks; random runs use both.
func runScenario(name, ref string, runIndex int, seed int64, ticks int) (runStats, *physics.SimLog, error) {
	var opts []physics.SimOption
	levelName := "scripted"
	runTicks := 120

	switch name {
	case "drop":
		opts = []physics.SimOption{
			physics.WithGroundRow(5),
			physics.WithBody(100, 0, 25),
			physics.WithState(physics.StateFalling),
		}
	case "walk-into-wall":
		opts = []physics.SimOption{
			physics.WithGroundRow(5),
			physics.WithGroundColumn(6, 0, 9),
			physics.WithBody(100, 100, 25),
			physics.WithState(physics.StateStopped),
			physics.WithInput(1, physics.IntentMoveRight),
			physics.WithInput(2, physics.IntentMoveRight),
			physics.WithInput(3, physics.IntentMoveRight),
		}
	case "jump-into-ceiling":
		opts = []physics.SimOption{
			physics.WithGroundRow(5),
			physics.WithGroundTile(2, 1),
			physics.WithGroundTile(2, 2),
			physics.WithGroundTile(2, 3),
			physics.WithBody(50, 100, 25),
			physics.WithState(physics.StateStopped),
			physics.WithInput(1, physics.IntentJump),
		}
	case "random":
		lvl, err := randomLevel(ref, seed)
		if err != nil {
			return runStats{}, nil, err
		}
		levelName = lvl.Name
		runTicks = ticks
		opts, err = levelOptions(lvl)
		if err != nil {
			return runStats{}, nil, err
		}
		opts = append(opts, randomInputs(rand.New(rand.NewSource(seed)), ticks)...)
	default:
		return runStats{}, nil, fmt.Errorf("unsupported scenario %q (supported: %s)", name, strings.Join(scenarios, ", "))
	}

	ts, err := physics.NewTestSim(append(opts, physics.WithTrace(true))...)
	if err != nil {
		return runStats{}, nil, fmt.Errorf("%s: %w", name, err)
	}
	ts.RunTicks(runTicks)

	rs := summarize(ts)
	rs.scenario = name
	rs.level = levelName
	rs.runIndex = runIndex
	rs.seed = seed
	return rs, ts.SimLog, nil
}

// logWindow formats the entries of the last window ticks up to lastTick, or
// the whole log when window is not positive.
func logWindow(sl *physics.SimLog, lastTick, window int) string {
	if window <= 0 {
		return sl.Format()
	}
	return sl.FormatRange(max(0, lastTick-window+1), lastTick)
}

func randomLevel(ref string, seed int64) (*level.Level, error) {
	if ref != "" {
		return level.Open(ref)
	}
	return level.Generate(seed, level.GeneratedCols, level.GeneratedRows, 25)
}

func levelOptions(lvl *level.Level) ([]physics.SimOption, error) {
	g, err := lvl.Grid()
	if err != nil {
		return nil, err
	}
	b := lvl.Body()
	return []physics.SimOption{
		physics.WithGrid(g),
		physics.WithRules(lvl.Rules.Resolve()),
		physics.WithBody(b.Position.X, b.Position.Y, b.Extent),
		physics.WithVelocity(b.Velocity.X, b.Velocity.Y),
		physics.WithState(lvl.State()),
	}, nil
}

// randomInputs presses a random key on roughly one tick in four.
func randomInputs(rng *rand.Rand, ticks int) []physics.SimOption {
	intents := []physics.Intent{physics.IntentMoveLeft, physics.IntentMoveRight, physics.IntentJump}
	var out []physics.SimOption
	for tick := 1; tick <= ticks; tick++ {
		if rng.Intn(4) == 0 {
			out = append(out, physics.WithInput(tick, intents[rng.Intn(len(intents))]))
		}
	}
	return out
}

func summarize(ts *physics.TestSim) runStats {
	entries := ts.SimLog.Entries()
	rs := runStats{
		ticks:           ts.CurrentTick(),
		firstLandTick:   firstTick(entries, "collision", "land", ""),
		firstBounceTick: firstTick(entries, "collision", "bounce", ""),
		firstStopTick:   firstTick(entries, "state", "change", "→ stopped"),
		jumps:           ts.SimLog.CountCategory("motion", "jump"),
		landings:        ts.SimLog.CountCategory("collision", "land"),
		bounces:         ts.SimLog.CountCategory("collision", "bounce"),
		stateChanges:    ts.SimLog.CountCategory("state", "change"),
		surfaces:        map[string]int{},
		inBounds:        true,
		escapedTick:     -1,
		final:           ts.Snapshot(),
	}
	for _, e := range ts.SimLog.Filter("collision", "bounce") {
		surface, _, _ := strings.Cut(e.Value, " ")
		rs.surfaces[surface]++
	}
	for _, s := range ts.Trace {
		rs.maxSpeedX = math.Max(rs.maxSpeedX, math.Abs(s.Body.Velocity.X))
		rs.maxSpeedY = math.Max(rs.maxSpeedY, math.Abs(s.Body.Velocity.Y))
		if rs.inBounds && !physics.InBounds(ts.Grid, s) {
			rs.inBounds = false
			rs.escapedTick = s.Tick
		}
	}
	return rs
}

func firstTick(entries []physics.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func formatRun(rs runStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s run %d (seed=%d level=%s) ---\n", rs.scenario, rs.runIndex, rs.seed, rs.level)
	fmt.Fprintf(&b, "phase_markers: first_land=%d first_bounce=%d first_stop=%d\n", rs.firstLandTick, rs.firstBounceTick, rs.firstStopTick)
	fmt.Fprintf(&b, "event_totals: jump=%d land=%d bounce=%d state_change=%d\n", rs.jumps, rs.landings, rs.bounces, rs.stateChanges)
	fmt.Fprintf(&b, "bounce_surfaces: %s\n", joinCounts(rs.surfaces))
	fmt.Fprintf(&b, "max_speed: x=%.2f y=%.2f\n", rs.maxSpeedX, rs.maxSpeedY)
	fb := rs.final.Body
	fmt.Fprintf(&b, "final: tick=%d state=%s x=%.2f y=%.2f vx=%.2f vy=%.2f\n", rs.final.Tick, rs.final.State, fb.Position.X, fb.Position.Y, fb.Velocity.X, fb.Velocity.Y)
	fmt.Fprintf(&b, "bounds_check: in_bounds=%t escaped_tick=%d\n", rs.inBounds, rs.escapedTick)
	return b.String()
}

func formatAggregate(all []runStats) string {
	totalJumps, totalLand, totalBounce, escaped := 0, 0, 0, 0
	landTicks := make([]int, 0, len(all))
	surfaces := map[string]int{}
	maxX, maxY := 0.0, 0.0
	for _, rs := range all {
		totalJumps += rs.jumps
		totalLand += rs.landings
		totalBounce += rs.bounces
		if !rs.inBounds {
			escaped++
		}
		if rs.firstLandTick >= 0 {
			landTicks = append(landTicks, rs.firstLandTick)
		}
		for k, v := range rs.surfaces {
			surfaces[k] += v
		}
		maxX = math.Max(maxX, rs.maxSpeedX)
		maxY = math.Max(maxY, rs.maxSpeedY)
	}

	var b strings.Builder
	fmt.Fprintln(&b, "=== Aggregate ===")
	fmt.Fprintf(&b, "runs=%d escaped_runs=%d\n", len(all), escaped)
	fmt.Fprintf(&b, "avg_events_per_run: jump=%.1f land=%.1f bounce=%.1f\n",
		avg(totalJumps, len(all)), avg(totalLand, len(all)), avg(totalBounce, len(all)))
	fmt.Fprintf(&b, "avg_first_land_tick=%s\n", avgTickString(landTicks))
	fmt.Fprintf(&b, "bounce_surfaces: %s\n", joinCounts(surfaces))
	fmt.Fprintf(&b, "max_speed: x=%.2f y=%.2f\n", maxX, maxY)
	return b.String()
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ",")
}
