// Package ppu implements the DMG picture processing unit: the OAM
// search / pixel-transfer / HBlank / VBlank mode state machine, the
// background+window+sprite pixel pipeline, and the LCD status register's
// coincidence and mode-change interrupts.
package ppu

// InterruptRequester requests an IF bit (0:VBlank, 1:STAT) be set.
type InterruptRequester func(bit int)

// LineRegisters is a snapshot of per-line window state, captured the
// moment a line enters mode 3 (pixel transfer) — useful for tests and
// debugging the window's internal line counter.
type LineRegisters struct {
	WinLine int
}

// PPU models VRAM/OAM, LCDC/STAT/scroll/palette registers, mode timing,
// and renders each scanline into an RGBA framebuffer as HBlank begins.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence bit2, enables bits3-6)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot int // dots within current line [0..455]

	internalWindowLine int // -1 until the window first becomes visible this frame
	lineRegs            [154]LineRegisters

	framebuffer [160 * 144 * 4]byte

	req InterruptRequester
}

func New(req InterruptRequester) *PPU {
	p := &PPU{req: req, internalWindowLine: -1}
	for i := range p.framebuffer {
		if i%4 == 3 {
			p.framebuffer[i] = 0xFF
		}
	}
	return p
}

// Read services the fetcher/compositor's VRAM accesses, bypassing the
// mode-based restriction CPURead enforces — rendering happens on the
// PPU's own schedule, not the CPU's.
func (p *PPU) Read(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return p.vram[addr-0x8000]
	}
	return 0xFF
}

// CPURead returns bytes for VRAM, OAM, and PPU IO registers, honoring the
// mode-based access restrictions real hardware enforces.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.stat&0x03 == 3 {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.stat & 0x03; m == 2 || m == 3 {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// WriteOAMRaw stores a byte at the given 0-based OAM offset, bypassing
// the mode-based access restriction CPUWrite enforces. The OAM DMA
// controller uses this: its copy into OAM is not a CPU bus access and
// proceeds regardless of the PPU's current mode.
func (p *PPU) WriteOAMRaw(offset int, v byte) {
	if offset >= 0 && offset < len(p.oam) {
		p.oam[offset] = v
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO registers.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.stat&0x03 == 3 {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.stat & 0x03; m == 2 || m == 3 {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if p.lcdc&0x80 == 0 && prev&0x80 != 0 {
			p.ly, p.dot = 0, 0
			p.setMode(0)
			p.updateLYC()
		} else if p.lcdc&0x80 != 0 && prev&0x80 == 0 {
			p.ly, p.dot = 0, 0
			p.internalWindowLine = -1
			p.setMode(2)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = p.stat&0x07 | value&0x78
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.ly, p.dot = 0, 0
		p.updateLYC()
		if p.lcdc&0x80 != 0 {
			p.setMode(2)
		}
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// Tick advances PPU state by the given number of dots (T-cycles).
func (p *PPU) Tick(dots int) {
	for i := 0; i < dots; i++ {
		if p.lcdc&0x80 == 0 {
			continue
		}
		p.dot++

		var mode byte
		switch {
		case p.ly >= 144:
			mode = 1
		case p.dot < 80:
			mode = 2
		case p.dot < 80+172:
			mode = 3
		default:
			mode = 0
		}
		p.setMode(mode)

		if p.dot >= 456 {
			p.dot = 0
			p.ly++
			if p.ly == 144 {
				if p.req != nil {
					p.req(0)
				}
				if p.stat&(1<<4) != 0 && p.req != nil {
					p.req(1)
				}
			} else if p.ly > 153 {
				p.ly = 0
				p.internalWindowLine = -1
			}
			p.updateLYC()
			if p.ly >= 144 {
				p.setMode(1)
			} else {
				p.setMode(2)
			}
		}
	}
}

func (p *PPU) setMode(mode byte) {
	prev := p.stat & 0x03
	if prev == mode {
		return
	}
	p.stat = p.stat&^0x03 | mode&0x03
	switch mode {
	case 3:
		p.enterPixelTransfer()
	case 0:
		if prev == 3 {
			p.renderScanline(p.ly)
		}
		if p.stat&(1<<3) != 0 && p.req != nil {
			p.req(1)
		}
	case 2:
		if p.stat&(1<<5) != 0 && p.req != nil {
			p.req(1)
		}
	}
}

// enterPixelTransfer fires the moment a line enters mode 3. It is the
// single place the window's internal line counter advances, so
// LineRegs reflects hardware's per-line capture rather than a value
// computed after the fact at render time.
func (p *PPU) enterPixelTransfer() {
	ly := p.ly
	windowVisible := p.lcdc&0x01 != 0 && p.lcdc&0x20 != 0 &&
		int(ly) >= int(p.wy) && p.wx <= 166
	if windowVisible {
		p.internalWindowLine++
	}
	if int(ly) < len(p.lineRegs) {
		p.lineRegs[ly] = LineRegisters{WinLine: maxInt(p.internalWindowLine, 0)}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if p.stat&(1<<6) != 0 && p.req != nil {
			p.req(1)
		}
	} else {
		p.stat &^= 1 << 2
	}
}

// LineRegs returns the window-counter snapshot captured when line ly
// entered pixel transfer.
func (p *PPU) LineRegs(ly int) LineRegisters {
	if ly < 0 || ly >= len(p.lineRegs) {
		return LineRegisters{}
	}
	return p.lineRegs[ly]
}

// Framebuffer returns a copy of the current 160x144 RGBA pixel buffer.
func (p *PPU) Framebuffer() []byte {
	out := make([]byte, len(p.framebuffer))
	copy(out, p.framebuffer[:])
	return out
}

func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
