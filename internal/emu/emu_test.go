package emu

import (
	"testing"

	"gbcore/internal/joypad"
)

func TestMachine_LoadROMResetsToPostBootState(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	st := m.CPUState()
	if st.PC != 0x0100 {
		t.Fatalf("PC got %04x want 0100", st.PC)
	}
	if st.SP != 0xFFFE {
		t.Fatalf("SP got %04x want FFFE", st.SP)
	}
}

func TestMachine_LoadROMRejectsEmptyImage(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(nil); err == nil {
		t.Fatalf("expected error loading an empty ROM image")
	}
}

func TestMachine_BootROMRunsBeforeCartridge(t *testing.T) {
	m := New(Config{})
	boot := make([]byte, 0x100)
	boot[0x00] = 0x00 // NOP, keeps PC at 0x0001 after one tick
	m.SetBootROM(boot)
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if st := m.CPUState(); st.PC != 0x0000 {
		t.Fatalf("PC with boot ROM installed got %04x want 0000", st.PC)
	}
	m.Tick()
	if st := m.CPUState(); st.PC != 0x0001 {
		t.Fatalf("PC after one NOP got %04x want 0001", st.PC)
	}
}

func TestMachine_FrameOfTicksLeavesFullSizeFramebuffer(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	for i := 0; i < cyclesPerFrame; i++ {
		m.Tick()
	}
	fb := m.Framebuffer()
	if len(fb) != 160*144*4 {
		t.Fatalf("framebuffer length got %d want %d", len(fb), 160*144*4)
	}
}

func TestMachine_MemorySnapshotAfterSetButtonCoversAddressSpace(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.SetButton(joypad.A, true)
	snap := m.MemorySnapshot()
	if len(snap) != 0x10000 {
		t.Fatalf("snapshot length got %d want 65536", len(snap))
	}
}

func TestMachine_SerialOutputStartsEmpty(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	// Write through the public CPU-facing bus path is exercised by
	// internal/bus; here we only confirm SerialOutput starts empty.
	if out := m.SerialOutput(); out != "" {
		t.Fatalf("expected empty serial output on a fresh Machine, got %q", out)
	}
}

func TestMachine_BatterySaveRoundTrip_NoBatteryCart(t *testing.T) {
	m := New(Config{})
	if err := m.LoadROM(make([]byte, 0x8000)); err != nil { // ROM-only: not battery-backed
		t.Fatalf("LoadROM: %v", err)
	}
	if _, ok := m.SaveBattery(); ok {
		t.Fatalf("ROM-only cartridge should not report battery support")
	}
	if ok := m.LoadBattery([]byte{1, 2, 3}); ok {
		t.Fatalf("ROM-only cartridge should not accept battery data")
	}
}
