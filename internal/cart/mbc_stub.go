package cart

// mbcStub stands in for a memory-bank-controller chip. spec.md scopes
// full multi-bank emulation out ("multi-chip memory-bank controllers are
// stubs in the source"); this type exists so cartridges declaring MBC1,
// MBC3, or MBC5 in their header still boot and run rather than silently
// misbehaving: control-register writes are accepted and remembered (for
// header/debug introspection) but ROM reads at 0x0000-0x7FFF are served
// straight from the first 32KiB of the image (banks 0 and 1) whatever
// bank is selected. External RAM is a single unbanked block of the
// header's RAM size, readable and writable once enabled by a 0x0A write
// to 0x0000-0x1FFF. ROMs that rely on bank switching to reach code beyond
// the first 32KiB will not run correctly; ROMs that merely probe for an
// MBC's presence, or fit entirely in 32KiB, do.
type mbcStub struct {
	kind string
	rom  []byte
	ram  []byte

	ramEnable bool
	lastCtrl  [4]byte // last byte written to each of the four control windows
}

func newMBCStub(rom []byte, ramSize int, kind string) *mbcStub {
	return &mbcStub{kind: kind, rom: rom, ram: make([]byte, ramSize)}
}

func (m *mbcStub) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnable || len(m.ram) == 0 {
			return 0xFF
		}
		off := int(addr-0xA000) % len(m.ram)
		return m.ram[off]
	default:
		return 0xFF
	}
}

func (m *mbcStub) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.lastCtrl[0] = value
		m.ramEnable = value&0x0F == 0x0A
	case addr < 0x4000:
		m.lastCtrl[1] = value
	case addr < 0x6000:
		m.lastCtrl[2] = value
	case addr < 0x8000:
		m.lastCtrl[3] = value
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnable && len(m.ram) > 0 {
			m.ram[int(addr-0xA000)%len(m.ram)] = value
		}
	}
}

func (m *mbcStub) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbcStub) LoadRAM(data []byte) {
	n := copy(m.ram, data)
	for i := n; i < len(m.ram); i++ {
		m.ram[i] = 0
	}
}
