package cart

import "testing"

func TestMBCStub_ServesUnbankedImageRegardlessOfBankSelect(t *testing.T) {
	rom := make([]byte, 128*1024)
	rom[0x4000] = 0xAA // what a real MBC1 bank 1 would expose at 0x4000
	m := newMBCStub(rom, 0, "MBC1")

	m.Write(0x2000, 0x03) // select bank 3 — the stub records it but does not switch
	if got := m.Read(0x4000); got != rom[0x4000] {
		t.Fatalf("stub must keep serving the image's own 0x4000 byte, got %02X want %02X", got, rom[0x4000])
	}
}

func TestMBCStub_RAMRequiresEnable(t *testing.T) {
	m := newMBCStub(make([]byte, 0x100), 0x2000, "MBC3")
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM write before enable must not stick, got %02X", got)
	}
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM read after enable got %02X want 42", got)
	}
}

func TestMBCStub_BatteryRoundTrip(t *testing.T) {
	m := newMBCStub(make([]byte, 0x100), 0x2000, "MBC5")
	m.Write(0x0000, 0x0A)
	m.Write(0xA010, 0x7E)
	saved := m.SaveRAM()

	other := newMBCStub(make([]byte, 0x100), 0x2000, "MBC5")
	other.LoadRAM(saved)
	other.Write(0x0000, 0x0A)
	if got := other.Read(0xA010); got != 0x7E {
		t.Fatalf("battery RAM did not round-trip: got %02X want 7E", got)
	}
}
