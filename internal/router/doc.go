// Package router turns decoded pointer events into proc invocations on
// world objects.
//
// A Router receives one event at a time for a connection, resolves the
// client supplied references through an ObjectSystem, filters hover events
// by the object's enabled mouse events, renders the click params once and
// hands the resulting Invocation values to an Invoker.
//
//	r := router.New(world, invoker)
//	r.Handle(conn, router.Click{Atom: ref, Params: params})
//
// # Routing
//
//   - Click and StatClick: Click on the connection's client, preceded by
//     DblClick when the click pairs with the previous one.
//   - Drag: a single MouseDrop on the client naming source, destination and
//     both turfs.
//   - Enter, Exit, Move: MouseEntered, MouseExited or MouseMove on the atom
//     itself, only when the atom has that event enabled.
//
// # Drops
//
// Stale or forged references, objects that are not atoms and masked hover
// events are expected under network latency. They are dropped without an
// error and counted in Stats.
package router
