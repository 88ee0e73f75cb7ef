// Package config loads the replay harness configuration.
//
// Configuration is resolved in order of increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, if present
//  3. MOUSEPROC_* environment variables
//
// and then validated. A missing TOML file is not an error.
//
// # File format
//
//	[script]
//	path = "procs.lua"
//	queue_size = 1024
//	call_timeout_ms = 2000
//
//	[replay]
//	events = "events.jsonl"
//	trace = "-"
//
//	[logging]
//	level = "info"
//
//	[[object]]
//	id = "floor"
//	type = "/turf/floor"
//	x = 1
//	y = 1
//	z = 1
//
//	[[object]]
//	id = "lamp"
//	type = "/obj/lamp"
//	loc = "floor"
//	mouse_events = "enter|exit"
//
//	[[connection]]
//	id = "alice"
//	mob = "player"
//	sees = ["lamp", "floor"]
//
// Object ids are local to the file. They double as the client references
// in the event log and as stat panel refs.
package config
