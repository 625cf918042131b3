package overlay

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// newTestView returns a view of a cw x ch canvas through a vw x vh
// viewport at zoom 1.
func newTestView(t *testing.T, cw, ch int, vw, vh float64) *View {
	t.Helper()
	v := NewView(NewCanvasContext(cw, ch, 1, 0))
	v.SetViewport(Rect{Width: vw, Height: vh})
	if v.Viewport().Width != vw || v.Viewport().Height != vh {
		t.Fatalf("viewport = %+v", v.Viewport())
	}
	return v
}

func assertCenter(t *testing.T, v *View, want Vec2, eps float64) {
	t.Helper()
	c := v.Center()
	if !approxEqual(c.X, want.X, eps) || !approxEqual(c.Y, want.Y, eps) {
		t.Errorf("view center = (%f,%f), want (%f,%f)", c.X, c.Y, want.X, want.Y)
	}
}

func TestNewViewMatchesViewTransform(t *testing.T) {
	ctx := NewCanvasContext(1000, 800, 2, 0)
	v := NewView(ctx)
	assertMatrix(t, "matrix", v.Matrix(), ViewTransform(ctx))
	assertVec(t, "canvas center", v.CanvasToScreen(ctx.Center()), Vec2{250, 200})
	assertVec(t, "tap", v.ScreenToCanvas(Vec2{10, 20}), ctx.ScreenToCanvas(Vec2{10, 20}))
}

func TestViewZoomAndRotation(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetZoom(2)
	assertVec(t, "zoomed", v.CanvasToScreen(Vec2{510, 500}), Vec2{120, 100})

	v.SetZoom(-1)
	v.SetZoom(math.NaN())
	assertNear(t, "ignored zoom", v.Zoom(), 2)

	v.SetRotation(math.Pi / 2)
	// Clockwise view rotation turns +X toward -Y on screen.
	assertVec(t, "rotated", v.CanvasToScreen(Vec2{510, 500}), Vec2{100, 80})
}

func TestViewScreenToCanvasRoundtrip(t *testing.T) {
	v := newTestView(t, 1000, 1000, 300, 200)
	v.SetZoom(1.5)
	v.SetCenter(Vec2{400, 600})
	v.SetRotation(0.3)

	p := Vec2{33, 77}
	assertVec(t, "roundtrip", v.ScreenToCanvas(v.CanvasToScreen(p)), p)
	assertVec(t, "center", v.CanvasToScreen(v.Center()), v.Viewport().Center())
}

func TestViewVisibleBounds(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetZoom(2)
	v.SetCenter(Vec2{400, 300})
	vb := v.VisibleBounds()
	assertNear(t, "x", vb.X, 350)
	assertNear(t, "y", vb.Y, 250)
	assertNear(t, "w", vb.Width, 100)
	assertNear(t, "h", vb.Height, 100)
}

func TestViewStaysOverCanvas(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"inside", Vec2{300, 700}, Vec2{300, 700}},
		{"top left", Vec2{0, 0}, Vec2{100, 100}},
		{"bottom right", Vec2{999, 999}, Vec2{900, 900}},
		{"off canvas", Vec2{-5000, 420}, Vec2{100, 420}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.SetCenter(tt.p)
			assertCenter(t, v, tt.want, epsilon)
		})
	}
}

func TestViewSetZoomReclamps(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetCenter(Vec2{100, 100})

	// Zooming out widens the visible area to 400x400, which no longer fits
	// around (100, 100). No Update is needed to pull it back.
	v.SetZoom(0.5)
	assertCenter(t, v, Vec2{200, 200}, epsilon)
	if vb := v.VisibleBounds(); vb.X < -epsilon || vb.Y < -epsilon {
		t.Errorf("visible bounds %+v leave the canvas", vb)
	}

	// Zooming in leaves an in-bounds center alone.
	v.SetZoom(4)
	assertCenter(t, v, Vec2{200, 200}, epsilon)
}

func TestViewSetViewportReclamps(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetCenter(Vec2{100, 900})
	v.SetViewport(Rect{Width: 400, Height: 400})
	assertCenter(t, v, Vec2{200, 800}, epsilon)

	v.SetViewport(Rect{Width: 0, Height: 10})
	if v.Viewport().Width != 400 {
		t.Errorf("empty viewport accepted: %+v", v.Viewport())
	}
}

func TestViewSmallCanvasCentered(t *testing.T) {
	v := newTestView(t, 100, 100, 800, 600)
	assertCenter(t, v, Vec2{50, 50}, epsilon)
	v.SetCenter(Vec2{0, 0})
	assertCenter(t, v, Vec2{50, 50}, epsilon)
}

func TestViewPanBy(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetZoom(2)

	// Dragging right by 20 screen points shows 10 canvas pixels further left.
	v.PanBy(20, 0)
	assertCenter(t, v, Vec2{490, 500}, epsilon)

	// With the view turned a quarter, the same drag moves along canvas y.
	v.SetRotation(math.Pi / 2)
	v.PanBy(20, 0)
	assertCenter(t, v, Vec2{490, 490}, 1e-6)

	v.PanBy(-1e6, -1e6)
	assertCenter(t, v, Vec2{50, 950}, 1e-6)
}

func TestViewZoomAtKeepsAnchor(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	anchor := Vec2{150, 50}
	pinned := v.ScreenToCanvas(anchor)
	assertVec(t, "pinned", pinned, Vec2{550, 450})

	v.ZoomAt(anchor, 2)
	assertNear(t, "zoom", v.Zoom(), 2)
	assertVec(t, "anchor", v.CanvasToScreen(pinned), anchor)
	assertCenter(t, v, Vec2{525, 475}, 1e-6)

	v.ZoomAt(anchor, 0)
	assertNear(t, "ignored factor", v.Zoom(), 2)
}

func TestViewScrollTo(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.ScrollTo(Vec2{300, 700}, 1.0, ease.Linear)
	if !v.Scrolling() {
		t.Fatal("ScrollTo should start an animation")
	}

	v.Update(0.5)
	assertCenter(t, v, Vec2{400, 600}, 1e-3)

	v.Update(0.5)
	assertCenter(t, v, Vec2{300, 700}, 1e-3)
	if v.Scrolling() {
		t.Error("scroll still active after completion")
	}
}

func TestViewScrollToClampsTarget(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.ScrollTo(Vec2{0, 2000}, 0.2, ease.OutCubic)
	for i := 0; i < 10 && v.Scrolling(); i++ {
		v.Update(0.05)
		if vb := v.VisibleBounds(); vb.X < -1e-6 || vb.Y+vb.Height > 1000+1e-6 {
			t.Fatalf("visible bounds %+v leave the canvas mid-scroll", vb)
		}
	}
	assertCenter(t, v, Vec2{100, 900}, epsilon)
}

func TestViewSetCenterCancelsScroll(t *testing.T) {
	v := newTestView(t, 1000, 1000, 200, 200)
	v.ScrollTo(Vec2{300, 300}, 1, ease.Linear)
	v.SetCenter(Vec2{700, 700})
	if v.Scrolling() {
		t.Error("SetCenter should cancel the scroll")
	}
	v.Update(0.5)
	assertCenter(t, v, Vec2{700, 700}, epsilon)
}

func TestViewFocus(t *testing.T) {
	s := newTestShape(t, KindRect, 10, 10)
	_ = s.SetCenter(300, 400)
	v := newTestView(t, 1000, 1000, 200, 200)
	v.Focus(s, 0.0001, ease.Linear)
	v.Update(1)
	assertCenter(t, v, Vec2{300, 400}, 1e-6)
}

func TestBuildVisibleCommandsCulls(t *testing.T) {
	c := newTestCanvas(t)
	addRect(t, c, 100, 100, 20, 20)
	addRect(t, c, 900, 900, 20, 20)

	v := newTestView(t, 1000, 1000, 200, 200)
	v.SetCenter(Vec2{100, 100})

	if got := len(c.BuildCommands()); got != 8 {
		t.Fatalf("all commands = %d, want 8", got)
	}
	if got := len(c.BuildVisibleCommands(v)); got != 4 {
		t.Errorf("visible commands = %d, want 4", got)
	}
}

func TestRenderBoundsCoversPath(t *testing.T) {
	cfg := DefaultConfig().Render
	m := newTestMeasurement(t, MeasurementOptions{EntityOptions: EntityOptions{Width: 10, Height: 10}})
	m.AddPoint(Vec2{900, 900})
	r := renderBounds(m, cfg)
	if !r.Contains(900, 900) || !r.Contains(500, 500) {
		t.Errorf("renderBounds = %+v, want to cover box and path", r)
	}
	if !r.Contains(900+cfg.MarkerRingRadius, 900) {
		t.Errorf("renderBounds = %+v, want to cover the marker ring", r)
	}
}
