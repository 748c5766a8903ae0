package engine

import (
	"errors"
	"fmt"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
	"github.com/roughboard/roughboard/internal/scene"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrUnknownEvent = errors.New("unknown event type")
)

// Tool is the interaction mode that decides what pointer-down does.
type Tool string

const (
	ToolSelection Tool = "selection"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
)

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case ToolSelection, ToolLine, ToolRectangle:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
}

// Kind returns the element kind a drawing tool creates.
func (t Tool) Kind() (element.Kind, bool) {
	switch t {
	case ToolLine:
		return element.KindLine, true
	case ToolRectangle:
		return element.KindRectangle, true
	default:
		return 0, false
	}
}

// Action is the gesture in progress.
type Action string

const (
	ActionIdle    Action = "idle"
	ActionDrawing Action = "drawing"
	ActionMoving  Action = "moving"
)

// State is the transient interaction context. It holds no scene data
// except Selected, a copy of the element taken when it was picked.
type State struct {
	Tool     Tool             `json:"tool"`
	Action   Action           `json:"action"`
	Selected *element.Element `json:"selected,omitempty"`
}

// InitialState is the state of a fresh canvas: idle, with the line tool.
func InitialState() State {
	return State{Tool: ToolLine, Action: ActionIdle}
}

// EventType names an input to the state machine.
type EventType string

const (
	EventPointerDown EventType = "pointer.down"
	EventPointerMove EventType = "pointer.move"
	EventPointerUp   EventType = "pointer.up"
	EventSetTool     EventType = "tool.set"
	EventClear       EventType = "scene.clear"
)

// Event is a single input. X and Y are canvas coordinates and only matter
// for pointer down and move; Tool only matters for tool.set.
type Event struct {
	Type EventType `json:"type"`
	X    float64   `json:"x,omitempty"`
	Y    float64   `json:"y,omitempty"`
	Tool Tool      `json:"tool,omitempty"`
}

func (ev Event) Point() geometry.Point {
	return geometry.Pt(ev.X, ev.Y)
}

// Validate checks the event type and, for tool.set, the tool name.
func (ev Event) Validate() error {
	switch ev.Type {
	case EventPointerDown, EventPointerMove, EventPointerUp, EventClear:
		return nil
	case EventSetTool:
		_, err := ParseTool(string(ev.Tool))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

func PointerDown(x, y float64) Event { return Event{Type: EventPointerDown, X: x, Y: y} }
func PointerMove(x, y float64) Event { return Event{Type: EventPointerMove, X: x, Y: y} }
func PointerUp() Event               { return Event{Type: EventPointerUp} }
func SetTool(t Tool) Event           { return Event{Type: EventSetTool, Tool: t} }
func Clear() Event                   { return Event{Type: EventClear} }

// Transition applies ev to st and sc and returns the next state, plus
// whether the scene was modified. Invalid events and inputs that do not
// apply in the current state are no-ops.
func Transition(st State, sc *scene.Store, ev Event) (State, bool) {
	switch ev.Type {
	case EventSetTool:
		if t, err := ParseTool(string(ev.Tool)); err == nil {
			st.Tool = t
		}
		return st, false

	case EventClear:
		sc.Clear()
		return st, true

	case EventPointerDown:
		if st.Action != ActionIdle {
			return st, false
		}
		return pointerDown(st, sc, ev.Point())

	case EventPointerMove:
		switch st.Action {
		case ActionDrawing:
			return st, drawTo(sc, ev.Point())
		case ActionMoving:
			return st, moveTo(st, sc, ev.Point())
		}
		return st, false

	case EventPointerUp:
		st.Action = ActionIdle
		st.Selected = nil
		return st, false
	}
	return st, false
}

func pointerDown(st State, sc *scene.Store, p geometry.Point) (State, bool) {
	if st.Tool == ToolSelection {
		hit, ok := sc.FindElementAt(p)
		if !ok {
			return st, false
		}
		st.Selected = &hit
		st.Action = ActionMoving
		return st, false
	}

	kind, ok := st.Tool.Kind()
	if !ok {
		return st, false
	}
	sc.Append(kind, p, p)
	st.Action = ActionDrawing
	return st, true
}

// drawTo stretches the element being drawn, always the last one appended.
func drawTo(sc *scene.Store, p geometry.Point) bool {
	last, ok := sc.Last()
	if !ok {
		return false
	}
	_, ok = sc.Update(last.ID, last.Start, p)
	return ok
}

// moveTo places the selection's start anchor at p, keeping the extent it
// had when it was picked.
func moveTo(st State, sc *scene.Store, p geometry.Point) bool {
	if st.Selected == nil {
		return false
	}
	_, ok := sc.Update(st.Selected.ID, p, p.Add(st.Selected.Size()))
	return ok
}
