package mouse

import (
	"strconv"
	"strings"
)

// paramsCapacity covers a params string with every modifier held and a
// multi-digit screen location.
const paramsCapacity = 96

// Encode renders p as a click params string.
//
// Field order is part of the wire contract with existing scripts:
//
//	icon-x=N;icon-y=N;<button>=1;[ctrl=1;][shift=1;][alt=1;]button=<name>;screen-loc=<loc>
//
// Encode is pure and always succeeds.
func Encode(p Params) string {
	var b strings.Builder
	b.Grow(paramsCapacity)

	b.WriteString("icon-x=")
	b.WriteString(strconv.Itoa(p.IconX))
	b.WriteString(";icon-y=")
	b.WriteString(strconv.Itoa(p.IconY))
	b.WriteByte(';')

	button := p.Button().String()
	b.WriteString(button)
	b.WriteString("=1;")

	if p.Modifiers.HasCtrl() {
		b.WriteString("ctrl=1;")
	}
	if p.Modifiers.HasShift() {
		b.WriteString("shift=1;")
	}
	if p.Modifiers.HasAlt() {
		b.WriteString("alt=1;")
	}

	b.WriteString("button=")
	b.WriteString(button)
	b.WriteString(";screen-loc=")
	b.WriteString(p.ScreenLoc.Coordinates())

	return b.String()
}
