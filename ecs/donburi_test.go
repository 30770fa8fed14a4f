package ecs

import (
	"testing"

	"github.com/phanxgames/tily"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiStore(world) == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []tily.TileEvent
	TileEventType.Subscribe(world, func(w donburi.World, e tily.TileEvent) {
		received = append(received, e)
	})

	store.EmitEvent(tily.TileEvent{
		Kind:     tily.TileClicked,
		Position: tily.V(3, 4),
		Layers:   []string{"c", "y"},
		TileIDs:  []string{"a"},
	})
	store.EmitEvent(tily.TileEvent{Kind: tily.TileHovered, Position: tily.V(5, 6)})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	TileEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Kind != tily.TileClicked || !e0.Position.Eq(tily.V(3, 4)) {
		t.Errorf("event 0: %+v", e0)
	}
	if len(e0.Layers) != 2 || e0.Layers[1] != "y" {
		t.Errorf("event 0 layers: %v", e0.Layers)
	}
	if received[1].Kind != tily.TileHovered {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_FromMainClick(t *testing.T) {
	world := donburi.NewWorld()
	m := tily.NewMain(tily.MainOptions{Width: 160, Height: 160})
	m.SetEventSink(NewDonburiStore(world))

	b := tily.NewBuffer(10, 10, tily.BufferOptions{InitialScale: 10, InitialOffsetX: 5, InitialOffsetY: 5})
	b.AddLayer(nil, tily.ZTop).Fill("x", 0, 0, 10, 10, "", "")
	m.ActivateBuffer(b, tily.TransitionOptions{})
	m.Draw(tily.NewRecordingSurface(160, 160), 0)

	var got []tily.TileEvent
	TileEventType.Subscribe(world, func(w donburi.World, e tily.TileEvent) {
		got = append(got, e)
	})
	if _, ok := m.Click(8, 8); !ok {
		t.Fatal("Click reported no active buffer")
	}
	events.ProcessAllEvents(world)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Kind != tily.TileClicked || len(got[0].Layers) != 1 || got[0].Layers[0] != "x" {
		t.Errorf("event: %+v", got[0])
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	TileEventType.Subscribe(world, func(w donburi.World, e tily.TileEvent) { count1++ })
	TileEventType.Subscribe(world, func(w donburi.World, e tily.TileEvent) { count2++ })

	store.EmitEvent(tily.TileEvent{Kind: tily.TileClicked})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestStoreRoutesToBoundEntities(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	player := world.Create()
	gone := world.Create()
	store.Bind("player", player)
	store.Bind("gone", gone)
	world.Remove(gone)

	var got []EntityEvent
	EntityEventType.Subscribe(world, func(w donburi.World, e EntityEvent) {
		got = append(got, e)
	})
	store.EmitEvent(tily.TileEvent{Kind: tily.TileClicked, TileIDs: []string{"npc", "player", "gone"}})
	store.Unbind("player")
	store.EmitEvent(tily.TileEvent{Kind: tily.TileClicked, TileIDs: []string{"player"}})
	events.ProcessAllEvents(world)

	if len(got) != 1 {
		t.Fatalf("entity events = %d, want 1", len(got))
	}
	if got[0].Entity != player || got[0].TileID != "player" {
		t.Errorf("routed to %v (%s)", got[0].Entity, got[0].TileID)
	}
	if _, ok := store.entities["gone"]; ok {
		t.Error("binding to a removed entity kept")
	}
}

func TestStorePointer(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if p := store.Pointer(); p.Hovering || p.Clicks != 0 {
		t.Fatalf("initial pointer = %+v", p)
	}
	cell := tily.V(1, -1)
	store.EmitEvent(tily.TileEvent{Kind: tily.TileHovered, Position: tily.V(2, 3)})
	store.EmitEvent(tily.TileEvent{Kind: tily.TileClicked, Position: tily.V(4, 5), Cell: &cell})

	p := store.Pointer()
	if !p.Hovering || !p.Hover.Eq(tily.V(2, 3)) {
		t.Errorf("hover = %v %v", p.Hover, p.Hovering)
	}
	if p.Clicks != 1 || !p.Click.Eq(tily.V(4, 5)) {
		t.Errorf("click = %v x%d", p.Click, p.Clicks)
	}
	if p.Cell == nil || !p.Cell.Eq(cell) {
		t.Errorf("cell = %v", p.Cell)
	}
	if PointerComponent.Get(world.Entry(store.pointer)).Clicks != 1 {
		t.Error("pointer component not updated in the world")
	}
}
