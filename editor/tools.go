package editor

// Tool represents the active tool mode.
type Tool int

const (
	ToolSelect     Tool = iota // Selection, drag, and marquee
	ToolPan                    // Viewport panning
	ToolShape                  // Shape placement
	ToolConnection             // Two-step connection creation
)

// String returns the tool name for display.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "SELECT"
	case ToolPan:
		return "PAN"
	case ToolShape:
		return "SHAPE"
	case ToolConnection:
		return "CONNECT"
	default:
		return "UNKNOWN"
	}
}

// ConnectPhase is the sub-state of the connection tool.
type ConnectPhase int

const (
	AwaitingFirstNode ConnectPhase = iota
	AwaitingSecondNode
)

// String returns the phase name for display.
func (p ConnectPhase) String() string {
	switch p {
	case AwaitingFirstNode:
		return "AWAITING_FIRST"
	case AwaitingSecondNode:
		return "AWAITING_SECOND"
	default:
		return "UNKNOWN"
	}
}
