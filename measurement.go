package overlay

import (
	"fmt"
	"math"
	"strings"
)

// Mode is the authoring mode of a measurement entity. An entity leaves
// ModeEmpty on its first accepted point or text and never changes mode again.
type Mode uint8

const (
	ModeEmpty Mode = iota // no content yet
	ModePath              // holds a point path
	ModeText              // holds a text label
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModePath:
		return "path"
	case ModeText:
		return "text"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// measurementContent is the closed set of content a measurement can hold.
type measurementContent interface {
	mode() Mode
}

type pointPath struct {
	points []Vec2
}

func (*pointPath) mode() Mode { return ModePath }

type textContent struct {
	label TextLabel
}

func (*textContent) mode() Mode { return ModeText }

// PointCollector is implemented by entities that accept measurement input.
type PointCollector interface {
	AddPoint(p Vec2) bool
	AddText(s string, fontSize float64, fontFamily string) error
	IsTextStep() bool
}

// MeasurementOptions configures a new measurement entity.
type MeasurementOptions struct {
	EntityOptions
	Policy HitPolicy
	// PathTolerance is the minimum hit distance around the point path. The
	// effective tolerance is never below half the entity stroke width.
	PathTolerance float64
	Measurer      TextMeasurer
}

// Measurement is an entity that collects an ordered path of canvas points,
// or alternatively a text label, and hit-tests against its transformed
// rectangle, its path, or both.
type Measurement struct {
	Motion

	content   measurementContent // nil while empty
	policy    HitPolicy
	tolerance float64
	measurer  TextMeasurer

	background AssetRef
	endpoint   AssetRef
}

// NewMeasurement creates an empty measurement entity centered on the canvas.
func NewMeasurement(canvas CanvasContext, opts MeasurementOptions) (*Measurement, error) {
	if !finite(opts.PathTolerance) || opts.PathTolerance < 0 {
		return nil, fmt.Errorf("overlay: path tolerance %v: %w", opts.PathTolerance, ErrInvalidStyle)
	}
	m, err := newMotion(KindMeasurement, canvas, opts.EntityOptions)
	if err != nil {
		return nil, err
	}
	return &Measurement{
		Motion:    m,
		policy:    opts.Policy,
		tolerance: opts.PathTolerance,
		measurer:  opts.Measurer,
	}, nil
}

// Mode returns the current authoring mode.
func (m *Measurement) Mode() Mode {
	if m.content == nil {
		return ModeEmpty
	}
	return m.content.mode()
}

// IsTextStep reports whether the entity holds text entered through AddText.
func (m *Measurement) IsTextStep() bool {
	return m.Mode() == ModeText
}

// AddPoint appends p, in canvas coordinates, to the point path. It returns
// false without changing anything when the entity is in text mode or p is
// not finite.
func (m *Measurement) AddPoint(p Vec2) bool {
	if !finite(p.X, p.Y) {
		return false
	}
	switch c := m.content.(type) {
	case nil:
		m.content = &pointPath{points: []Vec2{p}}
		return true
	case *pointPath:
		c.points = append(c.points, p)
		return true
	default:
		return false
	}
}

// AddText stores a text label and switches the entity into text mode. An
// entity already holding a point path rejects text with ErrModeConflict.
// Calling AddText again in text mode replaces the label. When a TextMeasurer
// is configured, the label size is measured immediately; otherwise it stays
// zero until SetTextSize supplies it.
func (m *Measurement) AddText(s string, fontSize float64, fontFamily string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("overlay: add text: %w", ErrEmptyText)
	}
	if fontSize <= 0 || !finite(fontSize) {
		return fmt.Errorf("overlay: add text: font size %v: %w", fontSize, ErrInvalidFontSize)
	}
	if _, ok := m.content.(*pointPath); ok {
		return fmt.Errorf("overlay: add text to path entity: %w", ErrModeConflict)
	}

	label := TextLabel{Text: s, FontSize: fontSize, FontFamily: fontFamily}
	if tc, ok := m.content.(*textContent); ok {
		label.Align = tc.label.Align
		label.LineHeight = tc.label.LineHeight
	}
	if m.measurer != nil {
		w, h, err := m.measurer.MeasureText(s, fontSize, fontFamily)
		if err != nil {
			return fmt.Errorf("overlay: add text: %w", err)
		}
		label.Width, label.Height = w, h
	}
	m.content = &textContent{label: label}
	return nil
}

// SetTextSize stores the bounding size reported by the text-layout
// collaborator.
func (m *Measurement) SetTextSize(width, height float64) error {
	tc, ok := m.content.(*textContent)
	if !ok {
		return fmt.Errorf("overlay: set text size outside text mode: %w", ErrModeConflict)
	}
	if !finite(width, height) || width < 0 || height < 0 {
		return fmt.Errorf("overlay: text size %vx%v: %w", width, height, ErrInvalidSize)
	}
	tc.label.Width, tc.label.Height = width, height
	return nil
}

// SetTextAlign sets the paragraph alignment of the label.
func (m *Measurement) SetTextAlign(align TextAlign) error {
	tc, ok := m.content.(*textContent)
	if !ok {
		return fmt.Errorf("overlay: set text align outside text mode: %w", ErrModeConflict)
	}
	tc.label.Align = align
	return nil
}

// Label returns the text label, if the entity is in text mode.
func (m *Measurement) Label() (TextLabel, bool) {
	tc, ok := m.content.(*textContent)
	if !ok {
		return TextLabel{}, false
	}
	return tc.label, true
}

// Points returns a copy of the point path in insertion order.
func (m *Measurement) Points() []Vec2 {
	pp, ok := m.content.(*pointPath)
	if !ok {
		return nil
	}
	out := make([]Vec2, len(pp.points))
	copy(out, pp.points)
	return out
}

// NumPoints returns the length of the point path.
func (m *Measurement) NumPoints() int {
	if pp, ok := m.content.(*pointPath); ok {
		return len(pp.points)
	}
	return 0
}

// Length returns the total length of the point path in canvas pixels.
func (m *Measurement) Length() float64 {
	if pp, ok := m.content.(*pointPath); ok {
		return polylineLength(pp.points)
	}
	return 0
}

// AngleAt returns the angle in radians formed at interior path vertex i.
// The first and last points have no angle.
func (m *Measurement) AngleAt(i int) (float64, bool) {
	pp, ok := m.content.(*pointPath)
	if !ok || i <= 0 || i >= len(pp.points)-1 {
		return 0, false
	}
	return vertexAngle(pp.points[i-1], pp.points[i], pp.points[i+1]), true
}

// HitPolicy returns the active hit-test policy.
func (m *Measurement) HitPolicy() HitPolicy { return m.policy }

// SetHitPolicy changes how IsPointInEntity answers.
func (m *Measurement) SetHitPolicy(p HitPolicy) { m.policy = p }

// PathTolerance returns the effective hit distance around the point path.
func (m *Measurement) PathTolerance() float64 {
	return math.Max(m.tolerance, m.style.StrokeWidth*0.5)
}

// IsPointInEntity reports whether the canvas point p hits the entity under
// the active HitPolicy. HitPath only narrows the test for entities that hold
// content: a point path hits within PathTolerance of its segments, and a
// measured text label hits inside its box centered on the entity. Empty
// entities and unmeasured labels hit on the transformed rectangle.
func (m *Measurement) IsPointInEntity(p Vec2) bool {
	switch m.policy {
	case HitPath:
		switch c := m.content.(type) {
		case *pointPath:
			return m.nearPath(c, p)
		case *textContent:
			return m.inLabel(c.label, p)
		default:
			return m.containsTransformed(p)
		}
	case HitBoundsOrPath:
		if m.containsTransformed(p) {
			return true
		}
		pp, ok := m.content.(*pointPath)
		return ok && m.nearPath(pp, p)
	default:
		return m.containsTransformed(p)
	}
}

func (m *Measurement) nearPath(pp *pointPath, p Vec2) bool {
	return HitPolyline{Points: pp.points, Tolerance: m.PathTolerance()}.Contains(p.X, p.Y)
}

// inLabel tests p against the label box, clipped to the entity rectangle.
func (m *Measurement) inLabel(label TextLabel, p Vec2) bool {
	if !m.containsTransformed(p) {
		return false
	}
	if label.Width <= 0 || label.Height <= 0 {
		return true
	}
	l := m.CanvasToLocal(p)
	box := HitRect{X: -label.Width * 0.5, Y: -label.Height * 0.5, Width: label.Width, Height: label.Height}
	return box.Contains(l.X, l.Y)
}

// SetBackground stores a reference to the background image.
func (m *Measurement) SetBackground(ref AssetRef) { m.background = ref }

// Background returns the background image reference.
func (m *Measurement) Background() AssetRef { return m.background }

// SetEndpointImage stores a reference to the image drawn at path endpoints.
func (m *Measurement) SetEndpointImage(ref AssetRef) { m.endpoint = ref }

// EndpointImage returns the endpoint marker image reference.
func (m *Measurement) EndpointImage() AssetRef { return m.endpoint }
