package tily

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Time     float64 `json:"time,omitempty"`
	Relative bool    `json:"relative,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script plays a sequence of camera moves, clicks and screenshots across
// frames, one step per frame. Attach it to Main with SetScript.
//
// Actions: "move" (x, y, time, relative, unit), "zoom" (scale, time),
// "wait" (frames), "click" (x, y in viewport pixels), "drag" (fromX,
// fromY, toX, toY, frames) and "screenshot" (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "move", "zoom", "wait", "click", "drag", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches a script. Its steps run at the start of Main.Draw.
func (m *Main) SetScript(s *Script) { m.script = s }

// Done reports whether every step has run.
func (r *Script) Done() bool { return r.done }

func (r *Script) step(m *Main) {
	if r.done {
		return
	}
	if len(m.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move":
		if b := m.activeBuffer; b != nil {
			b.MoveOffset(st.X, st.Y, MoveOptions{
				TransitionOptions: TransitionOptions{Time: st.Time},
				Unit:              st.Unit,
				Relative:          st.Relative,
			})
		} else {
			logf("script: move with no active buffer")
		}
	case "zoom":
		if b := m.activeBuffer; b != nil {
			b.Zoom(st.Scale, TransitionOptions{Time: st.Time})
		} else {
			logf("script: zoom with no active buffer")
		}
	case "click":
		m.InjectClick(st.X, st.Y)
	case "drag":
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "screenshot":
		m.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(m.injectQueue) == 0 {
		r.done = true
	}
}
