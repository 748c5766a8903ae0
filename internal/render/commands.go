package render

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roughboard/roughboard/internal/element"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "clear" or "path"
	ObjectID    int           `json:"objectId"`              // For hit correlation
	Kind        string        `json:"kind,omitempty"`        // Element kind
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
}

// CompileDrawCommands generates a draw command buffer for the elements, in
// painter's order. The buffer always starts with a "clear" so each frame
// replaces the last one. Elements whose renderable is not a *Drawable are
// skipped.
func CompileDrawCommands(elements []element.Element) []DrawCommand {
	commands := make([]DrawCommand, 0, len(elements)+1)
	commands = append(commands, DrawCommand{Op: "clear", ObjectID: -1})
	for _, e := range elements {
		d, ok := e.Renderable.(*Drawable)
		if !ok || d == nil {
			continue
		}
		commands = append(commands, DrawCommand{
			Op:          "path",
			ObjectID:    e.ID,
			Kind:        e.Kind.String(),
			Path:        d.Path,
			Stroke:      d.Stroke,
			StrokeWidth: d.StrokeWidth,
			Dash:        d.Dash,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// CommandBuffer is a surface that keeps the most recently compiled frame.
// Draw is called by the single goroutine that owns the engine; Frame and
// JSON may be read from others.
type CommandBuffer struct {
	mu       sync.RWMutex
	commands []DrawCommand
	json     []byte
	frames   int
}

// NewCommandBuffer returns a buffer holding an empty frame.
func NewCommandBuffer() *CommandBuffer {
	b := &CommandBuffer{}
	b.Draw(nil)
	return b
}

// Draw implements engine.Surface.
func (b *CommandBuffer) Draw(elements []element.Element) error {
	commands := CompileDrawCommands(elements)
	data, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("marshal draw commands: %w", err)
	}

	b.mu.Lock()
	b.commands = commands
	b.json = data
	b.frames++
	b.mu.Unlock()
	return nil
}

// Frame returns the last compiled frame.
func (b *CommandBuffer) Frame() []DrawCommand {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.commands
}

// JSON returns the last compiled frame as JSON. The returned slice must
// not be modified.
func (b *CommandBuffer) JSON() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.json
}

// Frames returns how many frames have been drawn, including the initial
// empty one.
func (b *CommandBuffer) Frames() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frames
}
