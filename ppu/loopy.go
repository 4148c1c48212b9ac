package ppu

// loopy is the 15-bit "loopy" VRAM address register shared by v (current
// VRAM address) and t (temporary VRAM address), plus its bitfield layout:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
//
// Grounded on the teacher's ppu/loopy.go. The teacher's toggleNametableX/Y
// and setFineY have bit-math bugs (toggleNametableX clears bit 11 instead of
// bit 10, setFineY ORs into a mask read rather than assigning); this version
// keeps the same field layout and accessor names but corrects the algebra
// against the well-known NESDev "loopy" register description.
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) raw() uint16     { return l.data }
func (l *loopy) setRaw(v uint16) { l.data = v & 0x7FFF }

func (l *loopy) coarseX() uint16 { return l.data & 0x001F }

func (l *loopy) setCoarseX(n uint16) {
	l.data = (l.data &^ 0x001F) | (n & 0x001F)
}

func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.data ^= 0x0400 // flip nametable X
		return
	}
	l.setCoarseX(l.coarseX() + 1)
}

func (l *loopy) coarseY() uint16 { return (l.data & 0x03E0) >> 5 }

func (l *loopy) setCoarseY(n uint16) {
	l.data = (l.data &^ 0x03E0) | ((n & 0x001F) << 5)
}

func (l *loopy) incrementFineYAndCoarseY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch y := l.coarseY(); y {
	case 29:
		l.setCoarseY(0)
		l.data ^= 0x0800 // flip nametable Y
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(y + 1)
	}
}

func (l *loopy) nametableX() uint16 { return (l.data & 0x0400) >> 10 }

func (l *loopy) nametableY() uint16 { return (l.data & 0x0800) >> 11 }

func (l *loopy) setNametableX(n uint16) {
	l.data = (l.data &^ 0x0400) | ((n & 1) << 10)
}

func (l *loopy) setNametableY(n uint16) {
	l.data = (l.data &^ 0x0800) | ((n & 1) << 11)
}

func (l *loopy) fineY() uint16 { return (l.data & 0x7000) >> 12 }

func (l *loopy) setFineY(n uint16) {
	l.data = (l.data &^ 0x7000) | ((n & 0x0007) << 12)
}

// transferX copies the nametable-X and coarse-X fields from t into v, done
// at dot 257 of every visible and pre-render scanline.
func (v *loopy) transferX(t *loopy) {
	v.setNametableX(t.nametableX())
	v.setCoarseX(t.coarseX())
}

// transferY copies the nametable-Y, coarse-Y and fine-Y fields from t into
// v, done on dots 280-304 of the pre-render scanline.
func (v *loopy) transferY(t *loopy) {
	v.setNametableY(t.nametableY())
	v.setCoarseY(t.coarseY())
	v.setFineY(t.fineY())
}
