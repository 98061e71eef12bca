// Package term is the terminal front end: one character cell per tile,
// driven through the session loop.
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Block-Hopper/internal/physics"
)

// Command is a non-movement key action.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdRestart
	CmdToggleMute
)

// IntentForKey maps a key press to a movement intent. Terminals report key
// repeat as repeated presses, so holding a key keeps pushing.
func IntentForKey(ev *tcell.EventKey) (physics.Intent, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return physics.IntentMoveLeft, true
	case tcell.KeyRight:
		return physics.IntentMoveRight, true
	case tcell.KeyUp:
		return physics.IntentJump, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A', 'h':
			return physics.IntentMoveLeft, true
		case 'd', 'D', 'l':
			return physics.IntentMoveRight, true
		case ' ', 'w', 'W', 'k':
			return physics.IntentJump, true
		}
	}
	return 0, false
}

// CommandForKey maps a key press to a front-end command.
func CommandForKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return CmdQuit
		case 'r', 'R':
			return CmdRestart
		case 'm', 'M':
			return CmdToggleMute
		}
	}
	return CmdNone
}
