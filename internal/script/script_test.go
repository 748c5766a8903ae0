package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/engine"
)

const rectangleScript = `# draw one rectangle, then move it
{"type":"tool.set","tool":"rectangle"}
{"type":"pointer.down","x":10,"y":10}
{"type":"pointer.move","x":50,"y":30}
{"type":"pointer.up"}

{"type":"tool.set","tool":"selection"}
{"type":"pointer.down","x":20,"y":20}
{"type":"pointer.move","x":100,"y":100}
{"type":"pointer.up"}
`

func TestParse(t *testing.T) {
	events, err := Parse(strings.NewReader(rectangleScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) != 8 {
		t.Fatalf("len = %d, want 8", len(events))
	}
	if events[0].Type != engine.EventSetTool || events[0].Tool != engine.ToolRectangle {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[2].X != 50 || events[2].Y != 30 {
		t.Errorf("events[2] = %+v", events[2])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		is      error
	}{
		{"bad json", "{\"type\":\"pointer.up\"}\n{", "line 2", nil},
		{"unknown event", `{"type":"pointer.hover"}`, "line 1", engine.ErrUnknownEvent},
		{"unknown tool", `{"type":"tool.set","tool":"ellipse"}`, "line 1", engine.ErrUnknownTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	events, err := Parse(strings.NewReader(rectangleScript))
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.NewEngine(element.NewFactory(nil))
	if err := Replay(eng, events); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	els := eng.Elements()
	if len(els) != 1 {
		t.Fatalf("elements = %d, want 1", len(els))
	}
	e := els[0]
	if e.Start.X != 100 || e.Start.Y != 100 || e.End.X != 140 || e.End.Y != 120 {
		t.Errorf("moved element = %+v, want (100,100)-(140,120)", e)
	}
	if eng.Tool() != engine.ToolSelection {
		t.Errorf("tool = %q, want selection", eng.Tool())
	}
}
