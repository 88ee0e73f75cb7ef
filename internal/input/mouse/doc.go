// Package mouse provides pointer interaction metadata, the click params
// encoder and double-click classification.
//
// # Params
//
// Params carries the metadata of one physical pointer event: the position
// inside the clicked icon, the button flags, the held modifiers and the
// screen location:
//
//	params := mouse.Params{
//	    IconX:     4,
//	    IconY:     9,
//	    Right:     true,
//	    Modifiers: key.ModShift,
//	    ScreenLoc: mouse.ScreenLoc{X: 1, PixelX: 32, Y: 9, PixelY: 16},
//	}
//
// # Encoding
//
// Encode renders Params into the click params string handed to scripted
// procs. The layout is fixed and must match existing script parsers byte
// for byte:
//
//	icon-x=4;icon-y=9;right=1;shift=1;button=right;screen-loc=1:32,9:16
//
// The button is chosen with priority right, middle, left. Modifiers are
// always written in ctrl, shift, alt order.
//
// # Click Classification
//
// Classifier decides whether a click is also a double-click by comparing
// the current time against the previous click recorded in a ClickState.
// Every click overwrites the stored time, so three clicks 100ms apart form
// two double-clicks:
//
//	state := &mouse.ClickState{}
//	classifier := mouse.NewClassifier(mouse.DoubleClickWindow)
//	if classifier.Click(state, now) {
//	    // fire DblClick, then Click
//	}
//
// # Thread Safety
//
// Encode is pure. ClickState guards itself with a mutex, so separate
// connections never contend on a shared lock.
package mouse
