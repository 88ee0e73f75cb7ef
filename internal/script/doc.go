// Package script runs world procs written in Lua.
//
// This package wraps the gopher-lua library to provide:
//   - A sandboxed Lua state with only the safe standard libraries
//   - A single-goroutine executor that owns the state
//   - Proc tables keyed by type path, with type inheritance
//   - An Invoker that feeds router invocations into Lua procs
//
// # Procs
//
// Scripts define procs on type paths. A proc receives src and usr first,
// followed by the invocation's positional arguments:
//
//	proc("/obj/lamp", "Click", function(src, usr, location, control, params)
//	    log("clicked " .. src.name .. " with " .. params)
//	end)
//
// Lookups walk up the type path, so a proc on "/obj" also answers for
// "/obj/lamp", and "/atom" answers for every map object. Missing procs are
// not an error: the call does nothing.
//
// The built-in prelude forwards Click, DblClick and MouseDrop from
// "/client" to the clicked object, as the default client procs do.
//
// # Objects
//
// World objects appear in Lua as userdata with read-only ref, type and
// name fields. The same object always maps to the same userdata, so == works.
// call(obj, name, usr, ...) runs a proc on an object from inside a script.
//
// # Threading
//
// gopher-lua's LState is not goroutine-safe. Every Lua operation, including
// script loading, goes through the Executor's goroutine in FIFO order, so
// invocations run in the order they were handed to Invoke.
package script
