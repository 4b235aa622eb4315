package bus

import (
	"testing"

	"gbcore/internal/joypad"
)

func TestBus_ROMAndRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x42
	b := New(rom)

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	// Echo RAM mirrors C000-DDFF
	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	// ROM-only cart returns 0xFF for external RAM
	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}

	// Prohibited region always reads 0xFF
	if got := b.Read(0xFEA5); got != 0xFF {
		t.Fatalf("prohibited region got %02x, want FF", got)
	}
}

func TestBus_VRAM_OAM_InterruptRegs(t *testing.T) {
	b := New(make([]byte, 0x8000))

	b.Write(0x8000, 0x11)
	if got := b.Read(0x8000); got != 0x11 {
		t.Fatalf("VRAM read got %02x, want 11", got)
	}

	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02x, want 22", got)
	}

	b.Write(0xFF0F, 0x3F)
	if got := b.Read(0xFF0F); got != 0xE0|0x1F {
		t.Fatalf("IF read got %02x, want E0|1F", got)
	}

	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B {
		t.Fatalf("IE read got %02x, want 1B", got)
	}
}

func TestBus_JOYP_Readback(t *testing.T) {
	b := New(make([]byte, 0x8000))

	// Neither row selected: lower nibble reads all 1s.
	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP default lower bits got %02x want 0x0F", got)
	}

	// Select D-Pad (P14=0), press Right+Up.
	b.Write(0xFF00, 0x20)
	b.SetButton(joypad.Right, true)
	b.SetButton(joypad.Up, true)
	if got := b.Read(0xFF00) & 0x0F; got != 0x0A {
		t.Fatalf("JOYP D-Pad got %02x want 0x0A", got)
	}

	// Select Buttons (P15=0), press A+Start.
	b.Write(0xFF00, 0x10)
	b.SetButtons(1<<uint(joypad.A) | 1<<uint(joypad.Start))
	if got := b.Read(0xFF00) & 0x0F; got != 0x06 {
		t.Fatalf("JOYP Buttons got %02x want 0x06", got)
	}
}

func TestBus_JoypadInterruptOnFallingEdge(t *testing.T) {
	b := New(make([]byte, 0x8000))
	b.Write(0xFF00, 0x20) // select D-Pad
	b.Write(0xFF0F, 0x00)
	b.SetButton(joypad.Down, true)
	if b.Read(0xFF0F)&(1<<IntJoypad) == 0 {
		t.Fatalf("expected joypad IF bit set on button press")
	}
}

func TestBus_Timers_RW(t *testing.T) {
	b := New(make([]byte, 0x8000))

	b.Write(0xFF04, 0x12) // any DIV write resets it to 0
	if got := b.Read(0xFF04); got != 0x00 {
		t.Fatalf("DIV got %02x want 00", got)
	}
	b.Write(0xFF05, 0x77)
	if got := b.Read(0xFF05); got != 0x77 {
		t.Fatalf("TIMA got %02x want 77", got)
	}
	b.Write(0xFF06, 0x88)
	if got := b.Read(0xFF06); got != 0x88 {
		t.Fatalf("TMA got %02x want 88", got)
	}
	b.Write(0xFF07, 0xFD)
	if got := b.Read(0xFF07); got != (0xF8 | (0xFD & 0x07)) {
		t.Fatalf("TAC got %02x want %02x", got, 0xF8|(0xFD&0x07))
	}
}

func TestBus_TIMAOverflow_RaisesTimerInterrupt(t *testing.T) {
	b := New(make([]byte, 0x8000))
	b.Write(0xFF06, 0xAB) // TMA
	b.Write(0xFF05, 0xFF) // TIMA about to overflow
	b.Write(0xFF07, 0x05) // enabled, select bit 3
	b.Write(0xFF0F, 0x00)

	// Bit 3 falls every 4 cycles: TIMA overflows on cycle 4, reloads TMA
	// one cycle later, then keeps counting on cycles 8, 12 and 16.
	for i := 0; i < 16; i++ {
		b.StepTimerAndPPU()
	}
	if got, want := b.Read(0xFF05), byte(0xAB+3); got != want {
		t.Fatalf("TIMA did not reload from TMA: got %02x want %02x", got, want)
	}
	if b.Read(0xFF0F)&(1<<IntTimer) == 0 {
		t.Fatalf("timer IF bit not set after overflow+reload")
	}
}

func TestBus_SerialImmediate(t *testing.T) {
	b := New(make([]byte, 0x8000))
	var out []byte
	b.SetSerialWriter(writerFunc(func(p []byte) (int, error) {
		out = append(out, p...)
		return len(p), nil
	}))

	b.Write(0xFF01, 0x41) // 'A'
	b.Write(0xFF02, 0x81) // start, external clock
	if len(out) != 1 || out[0] != 0x41 {
		t.Fatalf("serial out got %v want [0x41]", out)
	}
	if got := b.Read(0xFF02); got&0x80 != 0 {
		t.Fatalf("serial control bit7 not cleared: %02x", got)
	}
	if b.Read(0xFF0F)&(1<<IntSerial) == 0 {
		t.Fatalf("serial IF bit not set after transfer")
	}
	if b.SerialOutput() != "A" {
		t.Fatalf("SerialOutput got %q want %q", b.SerialOutput(), "A")
	}
}

func TestBus_OAMDMA_StepwiseAndBlocking(t *testing.T) {
	b := New(make([]byte, 0x8000))
	for i := 0; i < 0xA0; i++ {
		b.Write(0xC000+uint16(i), byte(i))
	}
	b.Write(0xFF46, 0xC0) // start DMA from 0xC000

	if got := b.Read(0xFE00); got != 0xFF {
		t.Fatalf("OAM read during DMA got %02x want FF", got)
	}
	// Unrelated regions are blocked too, HRAM is not.
	if got := b.Read(0xC000); got != 0xFF {
		t.Fatalf("WRAM read during DMA got %02x want FF", got)
	}
	b.Write(0xFF80, 0x42)
	if got := b.Read(0xFF80); got != 0x42 {
		t.Fatalf("HRAM access blocked during DMA: got %02x", got)
	}

	for i := 0; i < 0xA0; i++ {
		b.StepDMA()
	}

	for i := 0; i < 0xA0; i++ {
		if got := b.Read(0xFE00 + uint16(i)); got != byte(i) {
			t.Fatalf("OAM[%02x] got %02x want %02x", i, got, byte(i))
		}
	}
	b.Write(0xFE00, 0x99)
	if got := b.Read(0xFE00); got != 0x99 {
		t.Fatalf("OAM write post-DMA failed: got %02x", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
