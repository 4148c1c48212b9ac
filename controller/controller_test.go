package controller

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// These tests poke the unexported buttons field directly rather than going
// through Write(0)'s poll(), since poll() samples real ebiten key state that
// isn't meaningfully exercised by a headless test binary (the teacher's own
// console/controller.go has no _test.go file for the same reason).

func TestReadShiftsOutLSBFirst(t *testing.T) {
	c := New([8]ebiten.Key{})
	c.Write(1) // strobe high: reset the shift index
	c.buttons = 0b1010_0101

	var got [8]uint8
	for i := range got {
		got[i] = c.Read()
	}
	want := [8]uint8{1, 0, 1, 0, 0, 1, 0, 1}
	if got != want {
		t.Errorf("Read() x8 = %v, wanted %v (LSB first)", got, want)
	}
}

func TestReadPastEighthBitReturnsOne(t *testing.T) {
	c := New([8]ebiten.Key{})
	c.Write(1)
	c.buttons = 0

	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("Read() past bit 8 (call %d) = %d, wanted 1", i, got)
		}
	}
}

func TestStrobeHighRelatchesIndex(t *testing.T) {
	c := New([8]ebiten.Key{})
	c.Write(1)
	c.buttons = 0b0000_0001

	c.Read() // idx now 1
	c.Read() // idx now 2

	c.Write(1) // strobe high again: idx resets to 0
	if got := c.Read(); got != 1 {
		t.Errorf("Read() after re-strobing = %d, wanted 1 (bit 0 again)", got)
	}
}

func TestButtonOrderMatchesConstants(t *testing.T) {
	if ButtonUp != 0 || ButtonB != 7 {
		t.Fatalf("Button constants reordered: ButtonUp=%d ButtonB=%d, wanted 0 and 7", ButtonUp, ButtonB)
	}
}
