package cart

// Cartridge is the minimal interface the Bus needs for the ROM
// (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF) address windows.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// BatteryBacked is implemented by cartridges whose external RAM should
// survive across runs (a ".sav" sidecar file, at the host's discretion).
// This is cartridge-level persistence, distinct from the CPU/PPU/DMA
// save-state feature spec.md's Non-goals exclude.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// NewCartridge picks an implementation based on the ROM header's
// cartridge-type byte. Anything beyond the ROM-only baseline is a stub:
// bank-control writes are accepted (so probing guest code doesn't lock
// up) but no bank switching actually occurs.
func NewCartridge(rom []byte) Cartridge {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom)
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom)
	case 0x01, 0x02, 0x03:
		return newMBCStub(rom, h.RAMSizeBytes, "MBC1")
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return newMBCStub(rom, h.RAMSizeBytes, "MBC3")
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return newMBCStub(rom, h.RAMSizeBytes, "MBC5")
	default:
		return NewROMOnly(rom)
	}
}
