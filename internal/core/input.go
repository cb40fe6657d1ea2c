package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move horizontal paddles left
	ActionRight          // D, Right arrow - move horizontal paddles right
	ActionUp             // W, Up arrow - move vertical paddles up
	ActionDown           // S, Down arrow - move vertical paddles down
	ActionPause          // P, Escape - pause/unpause game
	ActionRestart        // R key - restart the level
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// PointerEvent is an absolute pointer position in field pixels.
type PointerEvent struct {
	X, Y float64
}

// InputFrame is the input state for one simulation tick.
// Pressed is edge-triggered (true once per press), Held is level-triggered.
type InputFrame struct {
	Pressed map[Action]bool
	Held    map[Action]bool
	Pointer []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Pressed: make(map[Action]bool),
		Held:    make(map[Action]bool),
	}
}

// Set marks an action as pressed for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
	f.Pressed[a] = true
}

// Hold marks an action as held for this frame.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// Point queues an absolute pointer position.
func (f *InputFrame) Point(x, y float64) {
	f.Pointer = append(f.Pointer, PointerEvent{X: x, Y: y})
}

// Has returns true if the given action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Pressed[a]
}

// IsHeld returns true if the given action is held this frame.
func (f InputFrame) IsHeld(a Action) bool {
	return f.Held[a]
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Pressed)
	clear(f.Held)
	f.Pointer = f.Pointer[:0]
}
