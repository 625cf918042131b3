package overlay

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// View is the editor's pan and zoom over one canvas: the canvas point shown
// at the middle of the viewport, the zoom from canvas pixels to screen
// points, and a rotation. The view always stays over its canvas. Where the
// visible area is larger than the canvas along an axis, the canvas is
// centered on that axis. A View never changes entity geometry.
type View struct {
	canvas   CanvasContext
	viewport Rect
	center   Vec2
	zoom     float64
	rotation float64

	scroll *scrollAnim
}

// scrollAnim eases the view center from one canvas point to another.
type scrollAnim struct {
	from, to Vec2
	progress *gween.Tween
}

// NewView returns a view showing the whole canvas in a screen-sized
// viewport. Its matrix equals ViewTransform(ctx).
func NewView(ctx CanvasContext) *View {
	return &View{
		canvas:   ctx,
		viewport: Rect{Width: float64(ctx.Width) / ctx.ScreenScale, Height: float64(ctx.Height) / ctx.ScreenScale},
		center:   ctx.Center(),
		zoom:     1 / ctx.ScreenScale,
	}
}

// Center returns the canvas point at the middle of the viewport.
func (v *View) Center() Vec2 { return v.center }

// Zoom returns screen points per canvas pixel.
func (v *View) Zoom() float64 { return v.zoom }

// Rotation returns the view rotation in radians.
func (v *View) Rotation() float64 { return v.rotation }

// Viewport returns the screen rectangle the canvas is drawn into.
func (v *View) Viewport() Rect { return v.viewport }

// SetViewport changes the screen rectangle the canvas is drawn into, for
// example after a window resize. Empty or non-finite rects are ignored.
func (v *View) SetViewport(r Rect) {
	if !finite(r.X, r.Y, r.Width, r.Height) || r.Width <= 0 || r.Height <= 0 {
		return
	}
	v.viewport = r
	v.center = v.clamped(v.center)
}

// SetCenter puts canvas point p at the middle of the viewport, as far as the
// canvas edges allow. It cancels a running scroll.
func (v *View) SetCenter(p Vec2) {
	if !finite(p.X, p.Y) {
		return
	}
	v.scroll = nil
	v.center = v.clamped(p)
}

// PanBy drags the canvas by a screen-space delta, as a pointer drag would.
func (v *View) PanBy(dx, dy float64) {
	inv := invertAffine(v.Matrix())
	v.SetCenter(Vec2{
		X: v.center.X - (inv[0]*dx + inv[2]*dy),
		Y: v.center.Y - (inv[1]*dx + inv[3]*dy),
	})
}

// SetZoom sets the zoom factor and pulls the view back over the canvas.
// Non-positive or non-finite values are ignored.
func (v *View) SetZoom(z float64) {
	if z <= 0 || !finite(z) {
		return
	}
	v.zoom = z
	v.center = v.clamped(v.center)
}

// ZoomAt multiplies the zoom by factor while keeping the canvas point under
// the screen point anchor in place, the way a mouse wheel zooms.
func (v *View) ZoomAt(anchor Vec2, factor float64) {
	if factor <= 0 || !finite(factor, anchor.X, anchor.Y) {
		return
	}
	pinned := v.ScreenToCanvas(anchor)
	v.zoom *= factor
	moved := v.CanvasToScreen(pinned)
	v.PanBy(anchor.X-moved.X, anchor.Y-moved.Y)
}

// SetRotation sets the view rotation in radians, clockwise.
func (v *View) SetRotation(r float64) {
	if !finite(r) {
		return
	}
	v.rotation = r
}

// ScrollTo eases the view center to canvas point p over duration seconds.
// The target is clamped up front. Advance the animation with Update.
func (v *View) ScrollTo(p Vec2, duration float32, easeFn ease.TweenFunc) {
	if !finite(p.X, p.Y) {
		return
	}
	v.scroll = &scrollAnim{
		from:     v.center,
		to:       v.clamped(p),
		progress: gween.New(0, 1, duration, easeFn),
	}
}

// Focus scrolls to the center of e.
func (v *View) Focus(e Entity, duration float32, easeFn ease.TweenFunc) {
	v.ScrollTo(e.Center(), duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (v *View) Scrolling() bool { return v.scroll != nil }

// Update advances a running scroll by dt seconds.
func (v *View) Update(dt float32) {
	s := v.scroll
	if s == nil {
		return
	}
	t, done := s.progress.Update(dt)
	f := float64(t)
	p := Vec2{
		X: s.from.X + (s.to.X-s.from.X)*f,
		Y: s.from.Y + (s.to.Y-s.from.Y)*f,
	}
	if done {
		p = s.to
		v.scroll = nil
	}
	// A zoom change mid-scroll can move the allowed area.
	v.center = v.clamped(p)
}

// clamped returns p moved so the visible area stays over the canvas.
func (v *View) clamped(p Vec2) Vec2 {
	return Vec2{
		X: clampAxis(p.X, v.viewport.Width/(2*v.zoom), float64(v.canvas.Width)),
		Y: clampAxis(p.Y, v.viewport.Height/(2*v.zoom), float64(v.canvas.Height)),
	}
}

// clampAxis keeps the span [pos-half, pos+half] inside [0, size], or
// centers it when it is wider than size.
func clampAxis(pos, half, size float64) float64 {
	if 2*half >= size {
		return size * 0.5
	}
	return math.Max(half, math.Min(pos, size-half))
}

// Matrix returns the affine matrix mapping canvas pixels to screen points,
// suitable for DrawCommands. The view center lands on the viewport center,
// scaled by zoom and turned by -rotation.
func (v *View) Matrix() [6]float64 {
	m := computeEntityTransform(v.viewport.Center(), -v.rotation, v.zoom)
	m[4] -= m[0]*v.center.X + m[2]*v.center.Y
	m[5] -= m[1]*v.center.X + m[3]*v.center.Y
	return m
}

// CanvasToScreen converts a canvas point to screen points.
func (v *View) CanvasToScreen(p Vec2) Vec2 {
	x, y := transformPoint(v.Matrix(), p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToCanvas converts a screen point to canvas pixels.
func (v *View) ScreenToCanvas(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(v.Matrix()), p.X, p.Y)
	return Vec2{x, y}
}

// VisibleBounds returns the canvas-space bounding box of the viewport.
func (v *View) VisibleBounds() Rect {
	r := v.viewport
	corners := []Vec2{{r.X, r.Y}, {r.X + r.Width, r.Y}, {r.X + r.Width, r.Y + r.Height}, {r.X, r.Y + r.Height}}
	for i, c := range corners {
		corners[i] = v.ScreenToCanvas(c)
	}
	return boundingRect(corners)
}

// --- Culling ---

// renderBounds returns the canvas area e may draw into: its transformed
// rectangle, grown to cover measurement paths and their markers.
func renderBounds(e Entity, cfg RenderConfig) Rect {
	r := e.Bounds()
	m, ok := e.(*Measurement)
	if !ok {
		return r
	}
	pad := math.Max(cfg.MarkerRadius, cfg.MarkerRingRadius+cfg.MarkerRingWidth)
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.Width, r.Y+r.Height
	if pp, ok := m.content.(*pointPath); ok {
		for _, p := range pp.points {
			minX = math.Min(minX, p.X-pad)
			minY = math.Min(minY, p.Y-pad)
			maxX = math.Max(maxX, p.X+pad)
			maxY = math.Max(maxY, p.Y+pad)
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// BuildVisibleCommands is BuildCommands restricted to entities that can
// draw inside the visible area of v.
func (c *Canvas) BuildVisibleCommands(v *View) []RenderCommand {
	visible := v.VisibleBounds()
	var buf []RenderCommand
	for _, e := range c.entities {
		if !renderBounds(e, c.cfg.Render).Intersects(visible) {
			continue
		}
		buf = AppendCommands(buf, e, c.cfg.Render)
	}
	return buf
}
