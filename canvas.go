package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Canvas is the ordered collection of entities placed on one image. Later
// entities sit on top of earlier ones. A Canvas is owned by a single editing
// session; only HitTestAll fans out across goroutines.
type Canvas struct {
	ctx      CanvasContext
	cfg      Config
	entities []Entity
	selected Entity
	active   *Measurement
	measurer TextMeasurer

	sink   EventSink
	debug  bool
	logger *slog.Logger

	exportDir   string
	exportQueue []string
}

// NewCanvas creates an empty canvas for the given context and defaults.
func NewCanvas(ctx CanvasContext, cfg Config) (*Canvas, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Canvas{ctx: ctx, cfg: cfg, logger: defaultLogger(), exportDir: DefaultExportDir}, nil
}

// Context returns the canvas context.
func (c *Canvas) Context() CanvasContext { return c.ctx }

// Config returns the canvas defaults.
func (c *Canvas) Config() Config { return c.cfg }

// SetEventSink sets the optional event receiver.
func (c *Canvas) SetEventSink(sink EventSink) { c.sink = sink }

// SetTextMeasurer sets the text-layout collaborator handed to new
// measurement entities.
func (c *Canvas) SetTextMeasurer(m TextMeasurer) { c.measurer = m }

func (c *Canvas) emit(ev Event) {
	if c.sink != nil {
		c.sink.EmitEvent(ev)
	}
}

// --- Collection ---

// Add appends e on top of the canvas. Adding an entity that is already
// present is a no-op. Panics if e is nil.
func (c *Canvas) Add(e Entity) {
	if e == nil {
		panic("overlay: cannot add nil entity")
	}
	if c.indexOf(e) >= 0 {
		return
	}
	c.entities = append(c.entities, e)
	c.debugLog("entity added", entityAttrs(e))
	c.emit(Event{Type: EventEntityAdded, EntityID: e.ID(), Kind: e.Kind()})
}

// Remove detaches e from the canvas, clearing selection and the active
// measurement if they refer to it. Returns false if e was not present.
func (c *Canvas) Remove(e Entity) bool {
	i := c.indexOf(e)
	if i < 0 {
		return false
	}
	if c.selected == e {
		c.Select(nil)
	}
	if m, ok := e.(*Measurement); ok && c.active == m {
		c.active = nil
	}
	copy(c.entities[i:], c.entities[i+1:])
	c.entities[len(c.entities)-1] = nil
	c.entities = c.entities[:len(c.entities)-1]
	c.debugLog("entity removed", entityAttrs(e))
	c.emit(Event{Type: EventEntityRemoved, EntityID: e.ID(), Kind: e.Kind()})
	return true
}

// RemoveSelected removes the selected entity, if any, and returns it.
func (c *Canvas) RemoveSelected() Entity {
	e := c.selected
	if e == nil {
		return nil
	}
	c.Remove(e)
	return e
}

// Entities returns the entities in bottom-to-top order. The returned slice
// MUST NOT be mutated by the caller.
func (c *Canvas) Entities() []Entity { return c.entities }

// Len returns the number of entities.
func (c *Canvas) Len() int { return len(c.entities) }

// Find returns the entity with the given id, or nil.
func (c *Canvas) Find(id string) Entity {
	for _, e := range c.entities {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

func (c *Canvas) indexOf(e Entity) int {
	for i, x := range c.entities {
		if x == e {
			return i
		}
	}
	return -1
}

// --- Construction helpers ---

func (c *Canvas) shapeOptions() EntityOptions {
	return EntityOptions{
		Width:  c.cfg.Entity.ShapeWidth,
		Height: c.cfg.Entity.ShapeHeight,
		Style:  c.cfg.Style(),
	}
}

// NewShape creates a shape of the given kind with the canvas defaults and
// adds it on top.
func (c *Canvas) NewShape(kind Kind) (*Shape, error) {
	s, err := NewShape(kind, c.ctx, c.shapeOptions())
	if err != nil {
		return nil, err
	}
	c.Add(s)
	return s, nil
}

// StartMeasurement creates a canvas-sized measurement entity and makes it
// the active one: subsequent taps add points to it. Any previous active
// measurement is removed first.
func (c *Canvas) StartMeasurement() (*Measurement, error) {
	m, err := NewMeasurement(c.ctx, MeasurementOptions{
		EntityOptions: EntityOptions{Style: c.cfg.Style()},
		Policy:        c.cfg.Measurement.HitPolicy,
		PathTolerance: c.cfg.Measurement.PathTolerance,
		Measurer:      c.measurer,
	})
	if err != nil {
		return nil, err
	}
	if c.active != nil {
		c.Remove(c.active)
	}
	c.Select(nil)
	c.Add(m)
	c.active = m
	return m, nil
}

// ActiveMeasurement returns the measurement currently taking points, or nil.
func (c *Canvas) ActiveMeasurement() *Measurement { return c.active }

// FinishMeasurement stops routing taps to the active measurement. The entity
// stays on the canvas unless it never received a point or a label.
func (c *Canvas) FinishMeasurement() {
	m := c.active
	if m == nil {
		return
	}
	c.active = nil
	c.debugLog("measurement finished", entityAttrs(m), slog.Int("points", m.NumPoints()))
	c.emit(Event{Type: EventMeasurementFinished, EntityID: m.ID(), Kind: m.Kind()})
	if m.Mode() == ModeEmpty {
		c.Remove(m)
	}
}

// --- Hit testing and selection ---

// EntityAt returns the topmost entity hit by p, or nil.
func (c *Canvas) EntityAt(p Vec2) Entity {
	for i := len(c.entities) - 1; i >= 0; i-- {
		if c.entities[i].IsPointInEntity(p) {
			return c.entities[i]
		}
	}
	return nil
}

// HitTestAll tests every entity against p concurrently and returns the hits
// topmost first. Entities must not be mutated while it runs.
func (c *Canvas) HitTestAll(ctx context.Context, p Vec2) ([]Entity, error) {
	hits := make([]bool, len(c.entities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range c.entities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hits[i] = e.IsPointInEntity(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overlay: hit test: %w", err)
	}
	var out []Entity
	for i := len(hits) - 1; i >= 0; i-- {
		if hits[i] {
			out = append(out, c.entities[i])
		}
	}
	return out, nil
}

// Selected returns the selected entity, or nil.
func (c *Canvas) Selected() Entity { return c.selected }

// Select makes e the only selected entity. Passing nil clears the
// selection. Entities not on the canvas are ignored.
func (c *Canvas) Select(e Entity) {
	if e != nil && c.indexOf(e) < 0 {
		return
	}
	if c.selected == e {
		return
	}
	prev := c.selected
	if prev != nil {
		prev.SetSelected(false)
	}
	if e != nil {
		e.SetSelected(true)
	}
	c.selected = e
	ev := Event{Type: EventSelectionChanged}
	if prev != nil {
		ev.PreviousID = prev.ID()
	}
	if e != nil {
		ev.EntityID = e.ID()
		ev.Kind = e.Kind()
	}
	c.debugLog("selection changed", entityAttrs(e), slog.String("previous", ev.PreviousID))
	c.emit(ev)
}

// SelectAt selects the topmost entity under p, clearing the selection when
// nothing is hit, and returns the new selection.
func (c *Canvas) SelectAt(p Vec2) Entity {
	e := c.EntityAt(p)
	c.Select(e)
	return e
}

// Tap routes a single tap at p. While a measurement is active the point is
// added to it; once the measurement refuses a point, either because it is in
// text mode or because it reached the configured maximum, it is finished and
// the tap is consumed. Without an active measurement the tap selects.
func (c *Canvas) Tap(p Vec2) Entity {
	if m := c.active; m != nil {
		limit := c.cfg.Measurement.MaxPoints
		if (limit == 0 || m.NumPoints() < limit) && m.AddPoint(p) {
			c.emit(Event{Type: EventPointAdded, EntityID: m.ID(), Kind: m.Kind(), Point: p})
			return m
		}
		c.debugLog("point rejected", entityAttrs(m), slog.Float64("x", p.X), slog.Float64("y", p.Y))
		c.FinishMeasurement()
		return m
	}
	return c.SelectAt(p)
}
