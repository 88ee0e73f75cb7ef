// Package world is an in-memory object system for the pointer router.
//
// Objects are identified by a type path ("/obj/lamp", "/turf/floor") whose
// first segment decides the kind. Areas, turfs, objs and mobs are atoms and
// can receive mouse procs; clients and plain datums cannot.
//
// Clients never see object IDs. Each connection is issued its own
// reference tokens with See, and only that connection can resolve them.
// Stat panels use the global Ref of an object instead.
package world
