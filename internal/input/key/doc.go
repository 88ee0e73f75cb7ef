// Package key provides the keyboard modifier state carried by pointer events.
//
// Only the modifiers that take part in click params are represented: Ctrl,
// Shift and Alt. Modifier is a bitmask, so the order in which a client set
// the flags never matters; consumers decide the rendering order.
//
// # Parsing
//
// Modifier specifications can be written in several formats:
//
//   - Joined with plus: "ctrl+shift", "Ctrl+Alt"
//   - Joined with minus: "C-S", "c-a"
//   - A single name: "alt", "option"
package key
