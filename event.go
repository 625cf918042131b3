package overlay

// EventSink receives canvas events. Set one with Canvas.SetEventSink to
// forward edits to an ECS world or a host bridge.
type EventSink interface {
	EmitEvent(event Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) { f(event) }

// Event describes a change on a canvas.
type Event struct {
	Type     EventType
	EntityID string // empty when a selection is cleared
	Kind     Kind
	// Point is the accepted point for EventPointAdded.
	Point Vec2
	// PreviousID is the previously selected entity for EventSelectionChanged.
	PreviousID string
}
