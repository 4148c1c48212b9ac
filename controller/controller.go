// Package controller implements the standard NES controller's 8-bit shift
// register, polled through ebiten's keyboard state and exposed at $4016 and
// $4017.
//
// Grounded on the teacher's console/controller.go: strobe-gated poll/shift
// behavior and ebiten.IsKeyPressed sampling are unchanged. The teacher wires
// one hardcoded key set to a single controller; this generalizes that into a
// Controller type parameterized over its own [8]ebiten.Key binding so both
// $4016 and $4017 can be driven independently (the supplemented second port).
package controller

import "github.com/hajimehoshi/ebiten/v2"

// Button indexes the shift register bit order fixed by this controller's
// wire format: Up, Down, Left, Right, Start, Select, A, B from bit 0 to
// bit 7, which is the order Read shifts out least-significant-bit-first.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonStart
	ButtonSelect
	ButtonA
	ButtonB
)

// Controller is one shift-register controller bound to a fixed key layout.
type Controller struct {
	keys    [8]ebiten.Key
	strobe  bool
	buttons uint8
	idx     uint8
}

// New returns a Controller that samples keys in Button order.
func New(keys [8]ebiten.Key) *Controller {
	return &Controller{keys: keys}
}

// DefaultPort1Keys is the teacher's original single-controller binding,
// reordered into the Up/Down/Left/Right/Start/Select/A/B wire order.
func DefaultPort1Keys() [8]ebiten.Key {
	return [8]ebiten.Key{
		ebiten.KeyUp,    // Up
		ebiten.KeyDown,  // Down
		ebiten.KeyLeft,  // Left
		ebiten.KeyRight, // Right
		ebiten.KeyEnter, // Start
		ebiten.KeySpace, // Select
		ebiten.KeyA,     // A
		ebiten.KeyB,     // B
	}
}

// DefaultPort2Keys is a second binding for $4017 so both ports can be
// exercised on a single keyboard. It shares one key with port 1: KeyA is A
// on port 1 and Left on port 2.
func DefaultPort2Keys() [8]ebiten.Key {
	return [8]ebiten.Key{
		ebiten.KeyW,         // Up
		ebiten.KeyS,         // Down
		ebiten.KeyA,         // Left
		ebiten.KeyD,         // Right
		ebiten.KeyTab,       // Start
		ebiten.KeyShiftLeft, // Select
		ebiten.KeyJ,         // A
		ebiten.KeyK,         // B
	}
}

// Write handles a strobe write: bit 0 set raises the strobe and resets the
// shift index; bit 0 clear lowers the strobe and latches the current button
// state, so writing 1 then 0 loads a fresh snapshot for Read to shift out.
func (c *Controller) Write(val uint8) {
	switch val & 0x01 {
	case 1:
		c.strobe = true
		c.idx = 0
	case 0:
		c.strobe = false
		c.buttons = 0
		c.poll()
	}
}

// Read shifts out the next button bit, least-significant first. Past the
// 8th read it returns 1, matching open-bus/controller-exhausted behavior
// real games rely on to detect a standard controller.
func (c *Controller) Read() uint8 {
	if c.idx > 7 {
		return 1
	}
	ret := (c.buttons >> c.idx) & 1
	c.idx++
	return ret
}

func (c *Controller) poll() {
	for i, key := range c.keys {
		if ebiten.IsKeyPressed(key) {
			c.buttons |= 1 << uint(i)
		}
	}
}
