package physics

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation run.
type SimLogEntry struct {
	Tick     int
	Actor    string  // label e.g. "P1", or "--" for global events
	Category string  // state, motion, collision, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P1   state     change           falling → walking
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from a controller. It is unbounded and
// machine-readable; front ends keep their own short ring buffers.
type SimLog struct {
	actor   string
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog for one actor. If verbose is true, per-tick
// position and velocity entries are also recorded.
func NewSimLog(actor string, verbose bool) *SimLog {
	return &SimLog{actor: actor, verbose: verbose}
}

// Attach subscribes the log to c's events. Position traces are recorded
// separately through RecordSnapshot.
func (sl *SimLog) Attach(c *Controller) {
	c.Subscribe(sl.Record)
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Actor:    sl.actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, category, key, value, numVal)
}

// Record converts a controller event into a log entry.
func (sl *SimLog) Record(e Event) {
	switch e.Kind {
	case EventStateChange:
		sl.Add(e.Tick, "state", "change", fmt.Sprintf("%s → %s", e.From, e.To), 0)
	case EventJump:
		sl.Add(e.Tick, "motion", "jump", fmt.Sprintf("impulse %.2f", e.Value), e.Value)
	case EventLand:
		sl.Add(e.Tick, "collision", "land", fmt.Sprintf("impact %.2f", e.Value), e.Value)
	case EventBounce:
		sl.Add(e.Tick, "collision", "bounce", fmt.Sprintf("%s %.2f", e.Surface, e.Value), e.Value)
	}
}

// RecordSnapshot adds a verbose position trace entry.
func (sl *SimLog) RecordSnapshot(s Snapshot) {
	sl.AddVerbose(s.Tick, "move", "position", fmt.Sprintf("(%.2f,%.2f)", s.Body.Position.X, s.Body.Position.Y), 0)
	sl.AddVerbose(s.Tick, "move", "velocity", fmt.Sprintf("(%.2f,%.2f)", s.Body.Velocity.X, s.Body.Velocity.Y), 0)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the actor at snap.
func (sl *SimLog) Summary(snap Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", snap.Tick)
	b := snap.Body
	fmt.Fprintf(&sb, "%s state=%s pos=(%.2f,%.2f) vel=(%.2f,%.2f)\n",
		sl.actor, snap.State, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	fmt.Fprintf(&sb, "events: jumps=%d landings=%d bounces=%d state_changes=%d\n",
		sl.CountCategory("motion", "jump"),
		sl.CountCategory("collision", "land"),
		sl.CountCategory("collision", "bounce"),
		sl.CountCategory("state", "change"))
	return sb.String()
}
