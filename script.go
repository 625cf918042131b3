package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptStep represents a single action in an editing script.
type scriptStep struct {
	Action   string  `json:"action"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Angle    float64 `json:"angle,omitempty"`
	Factor   float64 `json:"factor,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Font     string  `json:"font,omitempty"`
}

// script is the top-level JSON structure for an editing script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// errNoTarget is returned by steps that need a selected or active entity.
var errNoTarget = errors.New("no target entity")

// ScriptRunner replays a recorded editing session against a Canvas, one
// step at a time or all at once.
//
// Supported actions: tap, screenTap, select, shape, measure, finish, text,
// move, rotate, scale, export, remove. Coordinates are canvas pixels except
// for screenTap, which takes screen points.
type ScriptRunner struct {
	steps  []scriptStep
	cursor int
}

// LoadScript parses a JSON editing script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("overlay: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("overlay: parse script: no steps")
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.cursor >= len(r.steps)
}

// Run executes the remaining steps, stopping at the first failing one.
func (r *ScriptRunner) Run(c *Canvas) error {
	for !r.Done() {
		if err := r.Step(c); err != nil {
			return err
		}
	}
	return nil
}

// Step executes the next step. It is a no-op once Done.
func (r *ScriptRunner) Step(c *Canvas) error {
	if r.Done() {
		return nil
	}
	i := r.cursor
	st := r.steps[i]
	r.cursor++
	if err := runStep(c, st); err != nil {
		return fmt.Errorf("script step %d (%s): %w", i, st.Action, err)
	}
	return nil
}

func runStep(c *Canvas, st scriptStep) error {
	p := Vec2{st.X, st.Y}
	switch st.Action {
	case "tap":
		c.Tap(p)
	case "screenTap":
		// Screen points, converted the same way real pointer input is.
		c.Tap(c.ctx.ScreenToCanvas(p))
	case "select":
		c.SelectAt(p)
	case "shape":
		kind, err := ParseKind(st.Kind)
		if err != nil {
			return err
		}
		s, err := c.NewShape(kind)
		if err != nil {
			return err
		}
		c.Select(s)
	case "measure":
		_, err := c.StartMeasurement()
		return err
	case "finish":
		c.FinishMeasurement()
	case "text":
		m := c.ActiveMeasurement()
		if m == nil {
			m, _ = c.Selected().(*Measurement)
		}
		if m == nil {
			return errNoTarget
		}
		return m.AddText(st.Text, st.FontSize, st.Font)
	case "move":
		e := c.Selected()
		if e == nil {
			return errNoTarget
		}
		return e.SetCenter(st.X, st.Y)
	case "rotate":
		e := c.Selected()
		if e == nil {
			return errNoTarget
		}
		return e.SetRotation(st.Angle)
	case "scale":
		e := c.Selected()
		if e == nil {
			return errNoTarget
		}
		return e.SetScale(st.Factor)
	case "export":
		c.QueueExport(st.Text)
	case "remove":
		if c.RemoveSelected() == nil {
			return errNoTarget
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}
