// Package joypad models the DMG joypad: eight button latches multiplexed
// into a 4-bit, active-low readback selected by the P14/P15 bits of the
// JOYP register (0xFF00).
package joypad

// Button identifies one of the eight physical inputs, matching the bit
// layout spec.md's external interface assigns: Up=0, Down=1, Left=2,
// Right=3, A=4, B=5, Start=6, Select=7.
type Button int

const (
	Up Button = iota
	Down
	Left
	Right
	A
	B
	Start
	Select
)

const numButtons = 8

// Pad tracks pressed state and the row-select bits of JOYP.
type Pad struct {
	pressed [numButtons]bool
	selDirs bool // P14 == 0: direction row selected
	selBtns bool // P15 == 0: button row selected

	lowNibble byte // last computed active-low lower nibble, for edge detection
}

// New returns a Pad with no buttons pressed and no row selected.
func New() *Pad { return &Pad{lowNibble: 0x0F} }

// Set records a single button's pressed state. It reports whether any
// currently-selected readback line fell from 1 to 0, so the caller can
// raise the joypad interrupt.
func (p *Pad) Set(b Button, pressed bool) bool {
	p.pressed[b] = pressed
	return p.recompute()
}

// SetMask sets all eight buttons from a bitmask using the Button bit
// positions above (bit set == pressed). It reports whether any
// currently-selected readback line fell from 1 to 0.
func (p *Pad) SetMask(mask byte) bool {
	for i := 0; i < numButtons; i++ {
		p.pressed[i] = mask&(1<<uint(i)) != 0
	}
	return p.recompute()
}

// WriteSelect stores the row-select bits from a JOYP write (bits 4 and 5;
// active-low, 0 selects the row). It reports whether the readback fell.
func (p *Pad) WriteSelect(v byte) bool {
	p.selDirs = v&0x10 == 0
	p.selBtns = v&0x20 == 0
	return p.recompute()
}

// Read returns the full JOYP byte: bits 7-6 fixed high, bits 5-4 the
// current selection, bits 3-0 the muxed, active-low button readback.
func (p *Pad) Read() byte {
	sel := byte(0x30)
	if p.selDirs {
		sel &^= 0x10
	}
	if p.selBtns {
		sel &^= 0x20
	}
	return 0xC0 | sel | p.lowNibble
}

// AnyPressed reports whether any of the eight buttons is currently held,
// independent of row selection — used to detect the wake condition for
// STOP, which real hardware ties to any joypad input transition rather
// than to the currently-selected row.
func (p *Pad) AnyPressed() bool {
	for _, v := range p.pressed {
		if v {
			return true
		}
	}
	return false
}

func (p *Pad) recompute() bool {
	n := byte(0x0F)
	if p.selDirs {
		if p.pressed[Right] {
			n &^= 0x01
		}
		if p.pressed[Left] {
			n &^= 0x02
		}
		if p.pressed[Up] {
			n &^= 0x04
		}
		if p.pressed[Down] {
			n &^= 0x08
		}
	}
	if p.selBtns {
		if p.pressed[A] {
			n &^= 0x01
		}
		if p.pressed[B] {
			n &^= 0x02
		}
		if p.pressed[Select] {
			n &^= 0x04
		}
		if p.pressed[Start] {
			n &^= 0x08
		}
	}
	falling := p.lowNibble&^n != 0
	p.lowNibble = n
	return falling
}
