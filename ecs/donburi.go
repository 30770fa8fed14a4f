package ecs

import (
	"github.com/phanxgames/tily"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TileEventType receives every tile click and hover.
var TileEventType = events.NewEventType[tily.TileEvent]()

// EntityEvent is a tile event routed to the entity bound to one of the
// active tiles under the pointer.
type EntityEvent struct {
	Entity donburi.Entity
	TileID string
	Event  tily.TileEvent
}

// EntityEventType receives one EntityEvent per bound active tile at the
// event position.
var EntityEventType = events.NewEventType[EntityEvent]()

// Pointer is the tile the pointer last hovered and clicked, kept on a
// single entity so systems can read it without subscribing.
type Pointer struct {
	Hover    tily.Vec2
	Hovering bool
	Click    tily.Vec2
	Clicks   int
	// Cell is the cell of the last event, for cell buffers.
	Cell *tily.Vec2
}

// PointerComponent holds the Pointer of a Store's world.
var PointerComponent = donburi.NewComponentType[Pointer]()

// Store is a tily.EventSink backed by a Donburi world. Events are queued
// on TileEventType and EntityEventType until ProcessEvents is called; the
// Pointer component is updated immediately.
type Store struct {
	world    donburi.World
	pointer  donburi.Entity
	entities map[string]donburi.Entity
}

var _ tily.EventSink = (*Store)(nil)

// NewDonburiStore creates a Store and its Pointer entity in world.
func NewDonburiStore(world donburi.World) *Store {
	return &Store{
		world:    world,
		pointer:  world.Create(PointerComponent),
		entities: map[string]donburi.Entity{},
	}
}

// Bind routes events over the active tile with the given ID to e.
func (s *Store) Bind(tileID string, e donburi.Entity) { s.entities[tileID] = e }

// Unbind removes the route for tileID.
func (s *Store) Unbind(tileID string) { delete(s.entities, tileID) }

// Pointer returns the current pointer state.
func (s *Store) Pointer() Pointer {
	return *PointerComponent.Get(s.world.Entry(s.pointer))
}

func (s *Store) EmitEvent(event tily.TileEvent) {
	p := PointerComponent.Get(s.world.Entry(s.pointer))
	switch event.Kind {
	case tily.TileHovered:
		p.Hover, p.Hovering = event.Position, true
	case tily.TileClicked:
		p.Click = event.Position
		p.Clicks++
	}
	p.Cell = event.Cell

	TileEventType.Publish(s.world, event)
	for _, id := range event.TileIDs {
		e, ok := s.entities[id]
		if !ok {
			continue
		}
		if !s.world.Valid(e) {
			delete(s.entities, id)
			continue
		}
		EntityEventType.Publish(s.world, EntityEvent{Entity: e, TileID: id, Event: event})
	}
}
