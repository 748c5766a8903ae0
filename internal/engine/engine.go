package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
	"github.com/roughboard/roughboard/internal/scene"
)

// Surface receives the full scene after every change and redraws it,
// replacing the previous frame.
type Surface interface {
	Draw(elements []element.Element) error
}

// Engine is the drawing engine that owns the scene and the interaction
// state. Chrome code forwards tool changes and pointer events to it.
//
// An Engine is not safe for concurrent use; all calls must come from the
// goroutine that owns it.
type Engine struct {
	state   State
	scene   *scene.Store
	surface Surface
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSurface sets the surface redrawn after every scene change.
func WithSurface(s Surface) Option {
	return func(e *Engine) { e.surface = s }
}

// WithLogger sets the logger used for ignored input and draw failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine with an empty scene and the line tool active.
func NewEngine(factory *element.Factory, opts ...Option) *Engine {
	e := &Engine{
		state:  InitialState(),
		scene:  scene.NewStore(factory),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands (chrome → engine) ---

// Apply validates and processes a single event, redrawing the surface if
// the scene changed.
func (e *Engine) Apply(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	prev := e.state
	next, changed := Transition(e.state, e.scene, ev)
	e.state = next

	if ev.Type != EventSetTool && !changed && prev.Action == next.Action {
		e.logger.Debug("event ignored", "type", ev.Type, "action", prev.Action, "tool", prev.Tool)
	}
	if changed {
		e.redraw()
	}
	return nil
}

// SetTool sets the active tool.
func (e *Engine) SetTool(t Tool) error {
	return e.Apply(SetTool(t))
}

// ClearScene removes every element. The gesture in progress, if any, is
// left as it is.
func (e *Engine) ClearScene() error {
	return e.Apply(Clear())
}

// PointerDown starts a gesture at (x, y).
func (e *Engine) PointerDown(x, y float64) error {
	return e.Apply(PointerDown(x, y))
}

// PointerMove continues the current gesture at (x, y).
func (e *Engine) PointerMove(x, y float64) error {
	return e.Apply(PointerMove(x, y))
}

// PointerUp ends the current gesture.
func (e *Engine) PointerUp() error {
	return e.Apply(PointerUp())
}

func (e *Engine) redraw() {
	if e.surface == nil {
		return
	}
	if err := e.surface.Draw(e.scene.Snapshot()); err != nil {
		e.logger.Warn("draw scene", "error", err)
	}
}

// --- Queries (chrome ← engine) ---

// State returns a copy of the interaction state.
func (e *Engine) State() State {
	st := e.state
	if st.Selected != nil {
		sel := *st.Selected
		st.Selected = &sel
	}
	return st
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool {
	return e.state.Tool
}

// Action returns the gesture in progress.
func (e *Engine) Action() Action {
	return e.state.Action
}

// Elements returns a snapshot of the scene.
func (e *Engine) Elements() []element.Element {
	return e.scene.Snapshot()
}

// HitTest returns the id of the element under (x, y), or -1.
func (e *Engine) HitTest(x, y float64) int {
	hit, ok := e.scene.FindElementAt(geometry.Pt(x, y))
	if !ok {
		return -1
	}
	return hit.ID
}

// GetSelectionBounds returns the bounding box of the selected element as
// JSON, or an empty rect when nothing is selected.
func (e *Engine) GetSelectionBounds() string {
	var r geometry.Rect
	if e.state.Selected != nil {
		r, _ = scene.SelectionBounds(e.scene.Snapshot(), e.state.Selected.ID)
	}
	data, _ := json.Marshal(r)
	return string(data)
}

// GetState returns the interaction state as JSON.
func (e *Engine) GetState() string {
	data, _ := json.Marshal(map[string]interface{}{
		"tool":     e.state.Tool,
		"action":   e.state.Action,
		"selected": e.state.Selected,
		"elements": e.scene.Len(),
	})
	return string(data)
}
