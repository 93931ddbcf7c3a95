package core

// Action represents a semantic player command, abstracted from physical key
// presses or typed lines. Frontends translate their input into actions.
type Action int

const (
	ActionNone        Action = iota
	ActionForward            // W, Up arrow - step along the heading
	ActionBackward           // S, Down arrow - step against the heading
	ActionRotateLeft         // A, Left arrow - turn counter-clockwise
	ActionRotateRight        // D, Right arrow - turn clockwise
	ActionRestart            // R - start the map again after reaching the exit
	ActionQuit               // Q, Ctrl+C - leave the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseCommand translates one typed line into an action.
// Only the first character is significant and case is ignored;
// empty or unrecognized input yields ActionNone.
func ParseCommand(line string) Action {
	if line == "" {
		return ActionNone
	}

	switch line[0] {
	case 'w', 'W':
		return ActionForward
	case 's', 'S':
		return ActionBackward
	case 'a', 'A':
		return ActionRotateLeft
	case 'd', 'D':
		return ActionRotateRight
	case 'r', 'R':
		return ActionRestart
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}
