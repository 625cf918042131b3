package overlay

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when strokes are submitted to an ebiten image.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// Vec2 is a 2D point or offset in canvas coordinates.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width*0.5, r.Y + r.Height*0.5}
}

// Kind identifies the kind of an entity placed on a canvas.
type Kind uint8

const (
	KindCircle      Kind = iota // circle inscribed in the entity box
	KindRect                    // rectangle filling the entity box
	KindSquare                  // rectangle with equal sides
	KindTriangle                // isosceles triangle pointing up
	KindArrow                   // arrow spanning the entity box
	KindText                    // free text
	KindImage                   // image stamp
	KindRuler                   // ruler line
	KindMeasurement             // multi-point measurement tool
)

var kindLabels = [...]string{
	KindCircle:      "Circle",
	KindRect:        "Rect",
	KindSquare:      "Square",
	KindTriangle:    "Triangle",
	KindArrow:       "Arrow",
	KindText:        "Text",
	KindImage:       "Image",
	KindRuler:       "Ruler",
	KindMeasurement: "MeasurementTool",
}

// String returns the shape-type label used by host applications.
func (k Kind) String() string {
	if int(k) < len(kindLabels) {
		return kindLabels[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a shape-type label back to its Kind. Matching ignores case.
func ParseKind(label string) (Kind, error) {
	for k, l := range kindLabels {
		if strings.EqualFold(l, label) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("overlay: unknown entity kind %q", label)
}

// BorderStyle selects how the selection border of an entity is stroked.
type BorderStyle uint8

const (
	BorderDashed BorderStyle = iota // dashed outline (default)
	BorderSolid                     // continuous outline
	BorderNone                      // no outline
)

// String returns the lower-case name of the style.
func (b BorderStyle) String() string {
	switch b {
	case BorderDashed:
		return "dashed"
	case BorderSolid:
		return "solid"
	case BorderNone:
		return "none"
	default:
		return fmt.Sprintf("BorderStyle(%d)", uint8(b))
	}
}

// UnmarshalYAML decodes a style from its name.
func (b *BorderStyle) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "dashed":
		*b = BorderDashed
	case "solid":
		*b = BorderSolid
	case "none":
		*b = BorderNone
	default:
		return fmt.Errorf("overlay: unknown border style %q", value.Value)
	}
	return nil
}

// MarshalYAML encodes the style by name.
func (b BorderStyle) MarshalYAML() (any, error) {
	return b.String(), nil
}

// HitPolicy selects how a measurement entity answers hit tests.
type HitPolicy uint8

const (
	HitBounds       HitPolicy = iota // inside the transformed entity rectangle
	HitPath                          // within tolerance of the drawn point path
	HitBoundsOrPath                  // either of the above
)

// String returns the lower-case name of the policy.
func (p HitPolicy) String() string {
	switch p {
	case HitBounds:
		return "bounds"
	case HitPath:
		return "path"
	case HitBoundsOrPath:
		return "bounds_or_path"
	default:
		return fmt.Sprintf("HitPolicy(%d)", uint8(p))
	}
}

// UnmarshalYAML decodes a policy from its name.
func (p *HitPolicy) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "bounds":
		*p = HitBounds
	case "path":
		*p = HitPath
	case "bounds_or_path":
		*p = HitBoundsOrPath
	default:
		return fmt.Errorf("overlay: unknown hit policy %q", value.Value)
	}
	return nil
}

// MarshalYAML encodes the policy by name.
func (p HitPolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// EventType identifies a kind of canvas event.
type EventType uint8

const (
	EventEntityAdded         EventType = iota // an entity joined the canvas
	EventEntityRemoved                        // an entity left the canvas
	EventSelectionChanged                     // the selected entity changed (possibly to none)
	EventPointAdded                           // the active measurement accepted a point
	EventMeasurementFinished                  // the active measurement stopped taking points
)

// TextAlign controls horizontal alignment of a text label.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

// toRGBA converts a Color to a premultiplied color.Color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
