// Package ecs bridges tily tile events into a [Donburi] world.
//
// [NewDonburiStore] returns a [tily.EventSink]. Every [tily.TileEvent] is
// published on [TileEventType]. Active tiles bound to entities with
// [Store.Bind] also get an [EntityEvent], and the last hovered and clicked
// tile is kept in the [PointerComponent].
//
//	store := ecs.NewDonburiStore(world)
//	store.Bind(player.ID.String(), playerEntity)
//	main.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
