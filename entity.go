package overlay

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityStyle carries the cosmetic state of an entity. It never affects
// geometry or hit testing.
type EntityStyle struct {
	BorderStyle       BorderStyle
	BorderStrokeWidth float64
	BorderColor       Color
	StrokeWidth       float64
	StrokeColor       Color
}

func (s EntityStyle) validate() error {
	if !finite(s.BorderStrokeWidth, s.StrokeWidth) || s.BorderStrokeWidth < 0 || s.StrokeWidth < 0 {
		return fmt.Errorf("overlay: style widths %v/%v: %w", s.BorderStrokeWidth, s.StrokeWidth, ErrInvalidStyle)
	}
	return nil
}

// EntityOptions configures a new entity. A zero Width or Height takes the
// corresponding canvas dimension.
type EntityOptions struct {
	Width, Height float64
	Style         EntityStyle
}

// Transformable is the placement capability shared by every entity kind.
type Transformable interface {
	Center() Vec2
	Rotation() float64
	Scale() float64
	Size() (width, height float64)
	SetCenter(x, y float64) error
	SetRotation(r float64) error
	SetScale(f float64) error
	Corners() [4]Vec2
	Bounds() Rect
}

// HitTester answers whether a canvas point falls on an entity.
type HitTester interface {
	IsPointInEntity(p Vec2) bool
}

// Entity is any overlay object a Canvas can hold.
type Entity interface {
	Transformable
	HitTester
	ID() string
	Kind() Kind
	Style() EntityStyle
	Selected() bool
	SetSelected(selected bool)
	motion() *Motion
}

// Motion is the transform model every entity embeds: a base rectangle of
// fixed size, placed on a canvas by center, rotation and uniform scale.
type Motion struct {
	id     string
	kind   Kind
	canvas CanvasContext
	style  EntityStyle

	// Base (untransformed) size, padding included.
	width, height float64
	padding       float64

	// Transform
	center   Vec2
	rotation float64
	scale    float64

	selected bool
}

// newMotion validates the canvas, size and style and returns a motion
// centered on the canvas with no rotation and unit scale.
func newMotion(kind Kind, canvas CanvasContext, opts EntityOptions) (Motion, error) {
	if err := canvas.Validate(); err != nil {
		return Motion{}, err
	}
	if err := opts.Style.validate(); err != nil {
		return Motion{}, err
	}
	w, h := opts.Width, opts.Height
	if !finite(w, h) {
		return Motion{}, fmt.Errorf("overlay: size %vx%v: %w", w, h, ErrNonFinite)
	}
	if w == 0 {
		w = float64(canvas.Width)
	}
	if h == 0 {
		h = float64(canvas.Height)
	}
	pad := canvas.BorderPadding
	if w-2*pad <= 0 || h-2*pad <= 0 {
		return Motion{}, fmt.Errorf("overlay: size %vx%v with padding %v: %w", w, h, pad, ErrInvalidSize)
	}
	return Motion{
		id:      uuid.NewString(),
		kind:    kind,
		canvas:  canvas,
		style:   opts.Style,
		width:   w,
		height:  h,
		padding: pad,
		center:  canvas.Center(),
		scale:   1,
	}, nil
}

func (m *Motion) motion() *Motion { return m }

// ID returns the entity's unique identifier.
func (m *Motion) ID() string { return m.id }

// Kind returns the entity kind.
func (m *Motion) Kind() Kind { return m.kind }

// Canvas returns the canvas context the entity was created on.
func (m *Motion) Canvas() CanvasContext { return m.canvas }

// Center returns the entity center in canvas coordinates.
func (m *Motion) Center() Vec2 { return m.center }

// Rotation returns the rotation in radians.
func (m *Motion) Rotation() float64 { return m.rotation }

// Scale returns the uniform scale factor.
func (m *Motion) Scale() float64 { return m.scale }

// Size returns the base (untransformed) size.
func (m *Motion) Size() (width, height float64) { return m.width, m.height }

// Padding returns the border padding applied inside the base rectangle.
func (m *Motion) Padding() float64 { return m.padding }

// ContentRect returns the base rectangle inset by the border padding, in the
// entity's local frame.
func (m *Motion) ContentRect() Rect {
	return Rect{
		X:      -m.width*0.5 + m.padding,
		Y:      -m.height*0.5 + m.padding,
		Width:  m.width - 2*m.padding,
		Height: m.height - 2*m.padding,
	}
}

// Style returns the entity's cosmetic style.
func (m *Motion) Style() EntityStyle { return m.style }

// SetStyle replaces the cosmetic style.
func (m *Motion) SetStyle(s EntityStyle) error {
	if err := s.validate(); err != nil {
		return err
	}
	m.style = s
	return nil
}

// Selected reports whether the entity is selected.
func (m *Motion) Selected() bool { return m.selected }

// SetSelected marks the entity as selected or not. Only selected entities
// draw their border.
func (m *Motion) SetSelected(selected bool) { m.selected = selected }
