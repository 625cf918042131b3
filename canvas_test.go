package overlay

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	c, err := NewCanvas(NewCanvasContext(1000, 1000, 1, 0), DefaultConfig())
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	return c
}

// recordEvents installs a sink that appends every event to the returned slice.
func recordEvents(c *Canvas) *[]Event {
	var events []Event
	c.SetEventSink(EventSinkFunc(func(ev Event) { events = append(events, ev) }))
	return &events
}

func addRect(t *testing.T, c *Canvas, x, y, w, h float64) *Shape {
	t.Helper()
	s, err := NewShape(KindRect, c.Context(), EntityOptions{Width: w, Height: h})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SetCenter(x, y)
	c.Add(s)
	return s
}

func TestNewCanvasRejectsInvalidContext(t *testing.T) {
	_, err := NewCanvas(CanvasContext{}, DefaultConfig())
	if !errors.Is(err, ErrInvalidCanvas) {
		t.Errorf("NewCanvas(zero) = %v, want ErrInvalidCanvas", err)
	}
}

func TestCanvasAddRemove(t *testing.T) {
	c := newTestCanvas(t)
	events := recordEvents(c)

	a := addRect(t, c, 100, 100, 50, 50)
	b := addRect(t, c, 300, 300, 50, 50)
	c.Add(a)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (duplicate add is a no-op)", c.Len())
	}
	if c.Find(b.ID()) != b {
		t.Error("Find did not return b")
	}

	if !c.Remove(a) {
		t.Fatal("Remove(a) = false")
	}
	if c.Remove(a) {
		t.Error("second Remove(a) should report false")
	}
	if c.Len() != 1 || c.Entities()[0] != b {
		t.Errorf("Entities = %v", c.Entities())
	}

	want := []EventType{EventEntityAdded, EventEntityAdded, EventEntityRemoved}
	if len(*events) != len(want) {
		t.Fatalf("got %d events, want %d", len(*events), len(want))
	}
	for i, ev := range *events {
		if ev.Type != want[i] {
			t.Errorf("event %d type = %v, want %v", i, ev.Type, want[i])
		}
	}
	if (*events)[2].EntityID != a.ID() {
		t.Errorf("removed event id = %q, want %q", (*events)[2].EntityID, a.ID())
	}
}

func TestCanvasAddNilPanics(t *testing.T) {
	c := newTestCanvas(t)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Add(nil) should panic")
		}
	}()
	c.Add(nil)
}

func TestCanvasEntityAtTopmost(t *testing.T) {
	c := newTestCanvas(t)
	bottom := addRect(t, c, 500, 500, 200, 200)
	top := addRect(t, c, 550, 550, 100, 100)

	if got := c.EntityAt(Vec2{560, 560}); got != top {
		t.Errorf("overlap hit = %v, want top", got)
	}
	if got := c.EntityAt(Vec2{420, 420}); got != bottom {
		t.Errorf("bottom-only hit = %v, want bottom", got)
	}
	if got := c.EntityAt(Vec2{10, 10}); got != nil {
		t.Errorf("empty hit = %v, want nil", got)
	}
}

func TestCanvasHitTestAll(t *testing.T) {
	c := newTestCanvas(t)
	bottom := addRect(t, c, 500, 500, 200, 200)
	addRect(t, c, 100, 100, 10, 10)
	top := addRect(t, c, 550, 550, 100, 100)

	hits, err := c.HitTestAll(context.Background(), Vec2{560, 560})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0] != top || hits[1] != bottom {
		t.Errorf("hits = %v, want [top bottom]", hits)
	}
}

func TestCanvasHitTestAllCanceled(t *testing.T) {
	c := newTestCanvas(t)
	addRect(t, c, 500, 500, 200, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.HitTestAll(ctx, Vec2{500, 500}); !errors.Is(err, context.Canceled) {
		t.Errorf("HitTestAll on canceled context = %v, want context.Canceled", err)
	}
}

func TestCanvasSelection(t *testing.T) {
	c := newTestCanvas(t)
	a := addRect(t, c, 100, 100, 50, 50)
	b := addRect(t, c, 300, 300, 50, 50)
	events := recordEvents(c)

	if got := c.SelectAt(Vec2{100, 100}); got != a {
		t.Fatalf("SelectAt = %v, want a", got)
	}
	if !a.Selected() {
		t.Error("a should be selected")
	}
	c.Select(b)
	if a.Selected() || !b.Selected() {
		t.Error("selecting b should deselect a")
	}
	c.Select(b)
	if got := c.SelectAt(Vec2{900, 900}); got != nil {
		t.Errorf("SelectAt(empty) = %v, want nil", got)
	}
	if b.Selected() || c.Selected() != nil {
		t.Error("tapping empty space should clear the selection")
	}

	if len(*events) != 3 {
		t.Fatalf("got %d selection events, want 3", len(*events))
	}
	second := (*events)[1]
	if second.EntityID != b.ID() || second.PreviousID != a.ID() {
		t.Errorf("second event = %+v", second)
	}
	if last := (*events)[2]; last.EntityID != "" || last.PreviousID != b.ID() {
		t.Errorf("clearing event = %+v", last)
	}
}

func TestCanvasSelectIgnoresForeignEntity(t *testing.T) {
	c := newTestCanvas(t)
	s, _ := NewShape(KindRect, c.Context(), EntityOptions{Width: 10, Height: 10})
	c.Select(s)
	if c.Selected() != nil || s.Selected() {
		t.Error("an entity not on the canvas must not become selected")
	}
}

func TestCanvasRemoveSelected(t *testing.T) {
	c := newTestCanvas(t)
	a := addRect(t, c, 100, 100, 50, 50)
	c.Select(a)
	if got := c.RemoveSelected(); got != a {
		t.Fatalf("RemoveSelected = %v, want a", got)
	}
	if c.Selected() != nil || c.Len() != 0 {
		t.Error("selection and entity should be gone")
	}
	if c.RemoveSelected() != nil {
		t.Error("RemoveSelected with no selection should return nil")
	}
}

func TestCanvasTapMeasurementFlow(t *testing.T) {
	c := newTestCanvas(t)
	events := recordEvents(c)

	m, err := c.StartMeasurement()
	if err != nil {
		t.Fatal(err)
	}
	if c.ActiveMeasurement() != m {
		t.Fatal("StartMeasurement did not activate the entity")
	}

	taps := []Vec2{{100, 100}, {200, 200}, {300, 100}}
	for _, p := range taps {
		if got := c.Tap(p); got != m {
			t.Fatalf("Tap(%v) = %v, want the active measurement", p, got)
		}
	}
	if m.NumPoints() != 3 {
		t.Fatalf("NumPoints = %d, want 3", m.NumPoints())
	}

	// The fourth tap exceeds max_points and finishes the measurement.
	c.Tap(Vec2{400, 400})
	if m.NumPoints() != 3 {
		t.Errorf("NumPoints = %d after limit, want 3", m.NumPoints())
	}
	if c.ActiveMeasurement() != nil {
		t.Error("measurement should be finished")
	}

	// Later taps select again, and the measurement answers on its path only.
	if got := c.Tap(Vec2{150, 150}); got != m {
		t.Errorf("Tap on the path = %v, want selection of the measurement", got)
	}
	if !m.Selected() {
		t.Error("measurement should be selected")
	}
	if got := c.Tap(Vec2{500, 500}); got != nil {
		t.Errorf("Tap away from the path = %v, want nil", got)
	}

	var added, finished int
	for _, ev := range *events {
		switch ev.Type {
		case EventPointAdded:
			added++
		case EventMeasurementFinished:
			finished++
		}
	}
	if added != 3 || finished != 1 {
		t.Errorf("point events = %d, finish events = %d; want 3 and 1", added, finished)
	}
}

func TestCanvasShapeSelectableAfterMeasurement(t *testing.T) {
	c := newTestCanvas(t)
	s, err := c.NewShape(KindRect)
	if err != nil {
		t.Fatal(err)
	}
	m, err := c.StartMeasurement()
	if err != nil {
		t.Fatal(err)
	}
	c.Tap(Vec2{10, 10})
	c.Tap(Vec2{20, 20})
	c.FinishMeasurement()

	if c.Find(m.ID()) == nil {
		t.Fatal("finished measurement should stay on the canvas")
	}
	if got := c.Tap(s.Center()); got != s {
		t.Errorf("Tap(shape center) = %v, want the shape", got)
	}
	if got := c.Tap(Vec2{15, 15}); got != m {
		t.Errorf("Tap(on path) = %v, want the measurement", got)
	}
}

func TestCanvasFinishDropsEmptyMeasurement(t *testing.T) {
	c := newTestCanvas(t)
	s := addRect(t, c, 500, 500, 100, 100)
	m, _ := c.StartMeasurement()
	c.FinishMeasurement()

	if c.Find(m.ID()) != nil || c.Len() != 1 {
		t.Errorf("empty measurement kept, len = %d", c.Len())
	}
	if got := c.Tap(Vec2{500, 500}); got != s {
		t.Errorf("Tap = %v, want the shape", got)
	}
}

func TestCanvasLabelDoesNotCoverShapes(t *testing.T) {
	c := newTestCanvas(t)
	s := addRect(t, c, 150, 150, 100, 100)
	m, _ := c.StartMeasurement()
	if err := m.AddText("12cm", 14, ""); err != nil {
		t.Fatal(err)
	}
	if err := m.SetTextSize(60, 20); err != nil {
		t.Fatal(err)
	}
	c.FinishMeasurement()

	if got := c.Tap(Vec2{150, 150}); got != s {
		t.Errorf("Tap(shape) = %v, want the shape", got)
	}
	if got := c.Tap(Vec2{500, 500}); got != m {
		t.Errorf("Tap(label) = %v, want the measurement", got)
	}
}

func TestCanvasTapTextMeasurementFinishes(t *testing.T) {
	c := newTestCanvas(t)
	m, _ := c.StartMeasurement()
	if err := m.AddText("12cm", 14, ""); err != nil {
		t.Fatal(err)
	}
	c.Tap(Vec2{10, 10})
	if m.NumPoints() != 0 || c.ActiveMeasurement() != nil {
		t.Error("a tap on a text measurement should finish it without adding points")
	}
}

func TestCanvasStartMeasurementReplacesActive(t *testing.T) {
	c := newTestCanvas(t)
	first, _ := c.StartMeasurement()
	c.Tap(Vec2{1, 1})
	second, _ := c.StartMeasurement()

	if c.Find(first.ID()) != nil {
		t.Error("previous active measurement should be removed")
	}
	if c.ActiveMeasurement() != second || c.Len() != 1 {
		t.Errorf("active = %v, len = %d", c.ActiveMeasurement(), c.Len())
	}
}

func TestCanvasUnlimitedPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Measurement.MaxPoints = 0
	c, err := NewCanvas(NewCanvasContext(100, 100, 1, 0), cfg)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := c.StartMeasurement()
	for i := 0; i < 10; i++ {
		c.Tap(Vec2{float64(i), float64(i)})
	}
	if m.NumPoints() != 10 || c.ActiveMeasurement() != m {
		t.Errorf("NumPoints = %d, active = %v", m.NumPoints(), c.ActiveMeasurement())
	}
}

func TestCanvasNewShapeUsesConfig(t *testing.T) {
	c := newTestCanvas(t)
	s, err := c.NewShape(KindRect)
	if err != nil {
		t.Fatal(err)
	}
	w, h := s.Size()
	assertNear(t, "width", w, 600)
	assertNear(t, "height", h, 300)
	assertNear(t, "stroke", s.Style().StrokeWidth, 5)
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCanvasDebugLogging(t *testing.T) {
	c := newTestCanvas(t)
	var buf bytes.Buffer
	c.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	addRect(t, c, 10, 10, 5, 5)
	if buf.Len() != 0 {
		t.Errorf("logged without debug mode: %q", buf.String())
	}

	c.SetDebugMode(true)
	s := addRect(t, c, 20, 20, 5, 5)
	out := buf.String()
	if !strings.Contains(out, "entity added") || !strings.Contains(out, s.ID()) {
		t.Errorf("debug output missing entity: %q", out)
	}
}
