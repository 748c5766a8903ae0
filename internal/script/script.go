// Package script reads event scripts: one JSON engine event per line.
package script

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roughboard/roughboard/internal/engine"
)

// Parse reads events from r. Blank lines and lines starting with '#' are
// skipped.
func Parse(r io.Reader) ([]engine.Event, error) {
	var events []engine.Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		var ev engine.Event
		if err := json.Unmarshal(text, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return events, nil
}

// Replay applies events to eng in order.
func Replay(eng *engine.Engine, events []engine.Event) error {
	for i, ev := range events {
		if err := eng.Apply(ev); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}
