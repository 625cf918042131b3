// Package ecs provides ECS adapters for overlay canvases.
package ecs

import (
	"github.com/phanxgames/overlay"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// CanvasEventType is the Donburi event type for overlay canvas events.
// Subscribe to this in your ECS systems to receive add, remove, selection
// and measurement events.
var CanvasEventType = events.NewEventType[overlay.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Canvas events are published to CanvasEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) overlay.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event overlay.Event) {
	CanvasEventType.Publish(s.world, event)
}

// EntityData is the component a Mirror keeps for every overlay entity.
type EntityData struct {
	ID       string
	Kind     overlay.Kind
	Selected bool
	Points   int  // accepted measurement points
	Finished bool // measurement no longer takes points
}

// EntityComponent holds the mirrored EntityData.
var EntityComponent = donburi.NewComponentType[EntityData]()

// Mirror is an EventSink that keeps one Donburi entity per overlay entity,
// updated synchronously as canvas events arrive.
type Mirror struct {
	world donburi.World
	byID  map[string]donburi.Entity
}

// NewMirror creates a Mirror writing into world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{world: world, byID: make(map[string]donburi.Entity)}
}

// EmitEvent applies event to the mirrored entities.
func (m *Mirror) EmitEvent(event overlay.Event) {
	switch event.Type {
	case overlay.EventEntityAdded:
		if _, ok := m.byID[event.EntityID]; ok {
			return
		}
		e := m.world.Create(EntityComponent)
		EntityComponent.SetValue(m.world.Entry(e), EntityData{ID: event.EntityID, Kind: event.Kind})
		m.byID[event.EntityID] = e
	case overlay.EventEntityRemoved:
		if e, ok := m.byID[event.EntityID]; ok {
			m.world.Remove(e)
			delete(m.byID, event.EntityID)
		}
	case overlay.EventSelectionChanged:
		if d := m.data(event.PreviousID); d != nil {
			d.Selected = false
		}
		if d := m.data(event.EntityID); d != nil {
			d.Selected = true
		}
	case overlay.EventPointAdded:
		if d := m.data(event.EntityID); d != nil {
			d.Points++
		}
	case overlay.EventMeasurementFinished:
		if d := m.data(event.EntityID); d != nil {
			d.Finished = true
		}
	}
}

func (m *Mirror) data(id string) *EntityData {
	e, ok := m.byID[id]
	if !ok || !m.world.Valid(e) {
		return nil
	}
	return EntityComponent.Get(m.world.Entry(e))
}

// Lookup returns the mirrored data for the overlay entity id.
func (m *Mirror) Lookup(id string) (EntityData, bool) {
	d := m.data(id)
	if d == nil {
		return EntityData{}, false
	}
	return *d, true
}

// Each calls fn for every mirrored entity in the world.
func (m *Mirror) Each(fn func(EntityData)) {
	donburi.NewQuery(filter.Contains(EntityComponent)).Each(m.world, func(entry *donburi.Entry) {
		fn(*EntityComponent.Get(entry))
	})
}

// Fanout returns an EventSink that forwards every event to each sink in
// order, so a canvas can feed both a Mirror and the event bus.
func Fanout(sinks ...overlay.EventSink) overlay.EventSink {
	return overlay.EventSinkFunc(func(ev overlay.Event) {
		for _, s := range sinks {
			s.EmitEvent(ev)
		}
	})
}
