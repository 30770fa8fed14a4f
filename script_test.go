package tily

import (
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"bad json", `{"steps": [`, "parse script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "wait"}, {"action": "teleport"}]}`, `step 1: unknown action "teleport"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestScriptPlayback(t *testing.T) {
	script, err := LoadScript([]byte(`{"steps": [
		{"action": "move", "x": 2, "y": 1, "relative": true},
		{"action": "zoom", "scale": 5},
		{"action": "click", "x": 35, "y": 75},
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "end"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	b := gridBuffer()
	m := NewMain(MainOptions{})
	m.SetEventSink(sink)
	m.ActivateBuffer(b, TransitionOptions{})
	m.SetScript(script)
	s := NewRecordingSurface(100, 100)

	m.Draw(s, 0)
	if !b.Offset().Eq(V(6.5, 5.5)) {
		t.Errorf("offset after move = %v", b.Offset())
	}
	m.Draw(s, 0)
	if b.Scale() != 5 || b.TileSize() != 20 {
		t.Errorf("scale = %f tile size = %f", b.Scale(), b.TileSize())
	}

	// press, then release on the next frame while the script waits
	m.Draw(s, 0)
	m.Draw(s, 0)
	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want the scripted click", len(sink.events))
	}
	if !sink.events[0].Position.Eq(V(6, 7)) {
		t.Errorf("clicked %v, want 6,7", sink.events[0].Position)
	}

	for i := 0; i < 3; i++ {
		m.Draw(s, 0)
		if script.Done() {
			t.Fatalf("done during wait frame %d", i)
		}
	}
	m.Draw(s, 0)
	if !script.Done() {
		t.Error("script not done after the last step")
	}
	if got := m.PendingScreenshots(); len(got) != 1 || got[0] != "end" {
		t.Errorf("screenshots = %v", got)
	}
	if m.PendingScreenshots() != nil {
		t.Error("screenshot queue not cleared")
	}
}

func TestScriptWithoutBuffer(t *testing.T) {
	log := captureLog(t)
	script, err := LoadScript([]byte(`{"steps": [{"action": "move", "x": 1}, {"action": "zoom", "scale": 8}]}`))
	if err != nil {
		t.Fatal(err)
	}
	m := NewMain(MainOptions{})
	m.SetScript(script)
	s := NewRecordingSurface(10, 10)
	m.Draw(s, 0)
	m.Draw(s, 0)
	if !script.Done() {
		t.Error("script not done")
	}
	for _, want := range []string{"move with no active buffer", "zoom with no active buffer"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log missing %q: %q", want, log.String())
		}
	}
}
