//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/engine"
	"github.com/roughboard/roughboard/internal/render"
)

var (
	eng    *engine.Engine
	buffer *render.CommandBuffer
	gen    *render.Generator
)

func main() {
	gen = render.NewGenerator()
	buffer = render.NewCommandBuffer()
	eng = engine.NewEngine(element.NewFactory(gen), engine.WithSurface(buffer))

	// Create the engine API object
	roughboardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	roughboardEngine.Set("setTool", js.FuncOf(setTool))
	roughboardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	roughboardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	roughboardEngine.Set("pointerUp", js.FuncOf(pointerUp))
	roughboardEngine.Set("clearScene", js.FuncOf(clearScene))
	roughboardEngine.Set("setRoughness", js.FuncOf(setRoughness))

	// --- Queries (frontend ← engine) ---
	roughboardEngine.Set("render", js.FuncOf(renderFrame))
	roughboardEngine.Set("hitTest", js.FuncOf(hitTest))
	roughboardEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	roughboardEngine.Set("getState", js.FuncOf(getState))

	// Register on global scope
	js.Global().Set("roughboardEngine", roughboardEngine)

	// Signal that WASM is ready
	js.Global().Set("roughboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tool"})
	}
	if err := eng.SetTool(engine.Tool(args[0].String())); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerDown(args[0].Float(), args[1].Float())
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	eng.PointerUp()
	return nil
}

func clearScene(this js.Value, args []js.Value) interface{} {
	eng.ClearScene()
	return nil
}

// setRoughness affects elements created or regenerated afterwards.
func setRoughness(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if r := args[0].Float(); r >= 0 {
		gen.Roughness = r
	}
	return nil
}

// --- Query Handlers ---

func renderFrame(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(buffer.JSON()))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(-1)
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetState())
}
