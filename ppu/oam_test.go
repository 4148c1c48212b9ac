package ppu

import "testing"

func TestSpriteFromBytesRoundTrip(t *testing.T) {
	cases := []sprite{
		{y: 10, tileID: 0x42, palette: 3, prio: priorityFront, flipH: false, flipV: false, x: 20},
		{y: 200, tileID: 0xFF, palette: 0, prio: priorityBehind, flipH: true, flipV: false, x: 0},
		{y: 0, tileID: 1, palette: 2, prio: priorityFront, flipH: false, flipV: true, x: 255},
		{y: 5, tileID: 7, palette: 1, prio: priorityBehind, flipH: true, flipV: true, x: 8},
	}

	for i, s := range cases {
		bytes := []uint8{s.y, s.tileID, s.attributes(), s.x}
		got := spriteFromBytes(bytes)
		if got != s {
			t.Errorf("%d: spriteFromBytes(attributes()) round trip = %+v, wanted %+v", i, got, s)
		}
	}
}

func TestEvaluateScanlineCapsAtEightAndFlagsOverflow(t *testing.T) {
	p := New(nil, 0)
	p.ctrl.set(0) // 8x8 sprites

	for i := 0; i < 10; i++ {
		base := i * 4
		p.oam[base] = 50   // Y, matches scanline 50
		p.oam[base+1] = uint8(i)
		p.oam[base+2] = 0
		p.oam[base+3] = uint8(i * 8)
	}

	secondary, overflow, sprite0 := p.evaluateScanline(50)
	if len(secondary) != maxSpritesPerScanline {
		t.Errorf("evaluateScanline matched %d sprites, wanted %d (capped)", len(secondary), maxSpritesPerScanline)
	}
	if !overflow {
		t.Errorf("overflow = false with 10 matching sprites, wanted true")
	}
	if !sprite0 {
		t.Errorf("sprite0Present = false, wanted true (OAM index 0 was in range)")
	}
}

func TestEvaluateScanlineNoMatches(t *testing.T) {
	p := New(nil, 0)
	p.ctrl.set(0)
	for i := 0; i < 64; i++ {
		p.oam[i*4] = 100 // every entry's Y far outside scanline 0's range
	}

	secondary, overflow, sprite0 := p.evaluateScanline(0)
	if len(secondary) != 0 || overflow || sprite0 {
		t.Errorf("evaluateScanline(0) = (%v, %v, %v), wanted (empty, false, false)", secondary, overflow, sprite0)
	}
}
