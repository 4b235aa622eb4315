// Package bus implements the DMG memory bus: the 64 KiB unified address
// space described in spec.md §3, routing CPU reads/writes to the
// cartridge, work/high RAM, and the memory-mapped I/O devices, and
// enforcing the OAM-DMA access restriction while a transfer is active.
//
// The bus owns no behavior of its own for timer, serial, joypad, PPU, or
// DMA — those live in their own packages (internal/timer,
// internal/serial, internal/joypad, internal/ppu, internal/dma) and the
// bus only wires their register windows into the address space and
// their interrupt requests into IF, mirroring how the teacher's wider
// packages are composed behind a thin routing layer.
package bus

import (
	"fmt"
	"io"
	"os"

	"gbcore/internal/apu"
	"gbcore/internal/cart"
	"gbcore/internal/dma"
	"gbcore/internal/joypad"
	"gbcore/internal/ppu"
	"gbcore/internal/serial"
	"gbcore/internal/timer"
)

// Interrupt bit positions within IF/IE, per spec.md §6.
const (
	IntVBlank = 0
	IntStat   = 1
	IntTimer  = 2
	IntSerial = 3
	IntJoypad = 4
)

// Bus wires CPU-visible address space to cartridge, WRAM, HRAM, and the
// I/O devices.
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF; echo mirrors the low 0x1E00 of it
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu *ppu.PPU
	apu *apu.APU
	tmr *timer.Timer
	ser *serial.Port
	pad *joypad.Pad
	dma *dma.Controller

	ie    byte // 0xFFFF
	ifReg byte // 0xFF0F, lower 5 bits used

	bootROM     []byte
	bootEnabled bool

	debugTimer bool
}

// New constructs a Bus around a ROM-only-or-better cartridge picked from
// the ROM's header.
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewCartridge(rom))
}

// NewWithCartridge wires a provided cartridge implementation, useful for
// tests that want a bare ROM-only or MBC-stub cartridge directly.
func NewWithCartridge(c cart.Cartridge) *Bus {
	b := &Bus{
		cart: c,
		apu:  apu.New(),
		tmr:  timer.New(),
		ser:  serial.New(),
		pad:  joypad.New(),
	}
	b.ppu = ppu.New(func(bit int) { b.ifReg |= 1 << uint(bit) })
	b.dma = dma.New(b.rawRead, b.ppu.WriteOAMRaw)
	if os.Getenv("GB_DEBUG_TIMER") != "" {
		b.debugTimer = true
	}
	return b
}

// PPU returns the internal PPU, for the Machine's framebuffer access.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// APU returns the internal APU, for register introspection.
func (b *Bus) APU() *apu.APU { return b.apu }

// Cart returns the underlying cartridge, for battery save/load.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetSerialWriter attaches an external sink that receives every byte
// transmitted via SC=0x81 writes, in addition to the internal buffer
// SerialOutput returns.
func (b *Bus) SetSerialWriter(w io.Writer) { b.ser.SetSink(w) }

// SerialOutput returns the ASCII bytes accumulated via SC=0x81 writes.
func (b *Bus) SerialOutput() string { return b.ser.Output() }

// SetBootROM loads a DMG boot ROM to be mapped at 0x0000-0x00FF until a
// non-zero write to 0xFF50 disables it.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// SetButton records one button's pressed state and raises the joypad
// interrupt on a falling readback edge.
func (b *Bus) SetButton(btn joypad.Button, pressed bool) {
	if b.pad.Set(btn, pressed) {
		b.ifReg |= 1 << IntJoypad
	}
}

// SetButtons sets all eight buttons from a joypad.Button-position
// bitmask in one call.
func (b *Bus) SetButtons(mask byte) {
	if b.pad.SetMask(mask) {
		b.ifReg |= 1 << IntJoypad
	}
}

// Read services a CPU-initiated read, honoring the OAM-DMA access
// restriction: while a transfer is active, only High RAM and the DMA
// register itself are visible; everything else reads 0xFF.
func (b *Bus) Read(addr uint16) byte {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) && addr != 0xFF46 {
		return 0xFF
	}
	return b.rawRead(addr)
}

// rawRead dispatches by address region without the DMA restriction. It
// backs both the CPU-facing Read and the DMA controller's own source
// reads, since the controller is exempt from the restriction it imposes
// on the CPU.
func (b *Bus) rawRead(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.pad.Read()
	case addr == 0xFF01:
		return b.ser.ReadSB()
	case addr == 0xFF02:
		return b.ser.ReadSC()
	case addr == 0xFF04:
		return b.tmr.ReadDIV()
	case addr == 0xFF05:
		return b.tmr.ReadTIMA()
	case addr == 0xFF06:
		return b.tmr.ReadTMA()
	case addr == 0xFF07:
		return b.tmr.ReadTAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.apu.Read(addr)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma.Register()
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	}
	return 0xFF
}

// Write services a CPU-initiated write, honoring the same OAM-DMA
// restriction as Read (the restriction applies equally to writes: they
// are silently dropped rather than reaching their target region).
func (b *Bus) Write(addr uint16, value byte) {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) && addr != 0xFF46 {
		return
	}
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// prohibited region, writes dropped
	case addr == 0xFF00:
		if b.pad.WriteSelect(value) {
			b.ifReg |= 1 << IntJoypad
		}
	case addr == 0xFF01:
		b.ser.WriteSB(value)
	case addr == 0xFF02:
		if b.ser.WriteSC(value) {
			b.ifReg |= 1 << IntSerial
		}
	case addr == 0xFF04:
		b.tmr.WriteDIV()
		if b.debugTimer {
			b.logTimer("DIV write -> reset")
		}
	case addr == 0xFF05:
		b.tmr.WriteTIMA(value)
		if b.debugTimer {
			b.logTimer("TIMA write")
		}
	case addr == 0xFF06:
		b.tmr.WriteTMA(value)
		if b.debugTimer {
			b.logTimer("TMA write")
		}
	case addr == 0xFF07:
		b.tmr.WriteTAC(value)
		if b.debugTimer {
			b.logTimer("TAC write")
		}
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.apu.Write(addr, value)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF46:
		b.dma.Start(value)
	case addr == 0xFF50:
		if value != 0x00 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	}
}

// PendingInterrupts implements cpu.Bus: IF&IE&0x1F, independent of IME.
func (b *Bus) PendingInterrupts() byte { return b.ifReg & b.ie & 0x1F }

// AckInterrupt implements cpu.Bus: clears the IF bit for a vector index
// (0=VBlank..4=Joypad) as part of the 5 M-cycle dispatch sequence.
func (b *Bus) AckInterrupt(bit uint) { b.ifReg &^= 1 << bit }

// StopWake implements cpu.Bus. Per spec.md §9's resolved open question,
// STOP resumes on the documented joypad wake condition: any button held.
func (b *Bus) StopWake() bool { return b.pad.AnyPressed() }

// ResetDivForStop implements cpu.Bus: STOP resets the internal divider.
func (b *Bus) ResetDivForStop() { b.tmr.WriteDIV() }

// StepDMA advances the OAM DMA controller by one machine cycle. The
// Machine calls this before the CPU's own tick, so a byte copied this
// cycle is visible to any CPU memory access later in the same cycle.
func (b *Bus) StepDMA() { b.dma.Tick() }

// StepTimerAndPPU advances the timer and PPU by one machine cycle (4
// dots), raising the timer interrupt on TIMA overflow.
func (b *Bus) StepTimerAndPPU() {
	if b.tmr.Tick() {
		b.ifReg |= 1 << IntTimer
	}
	b.ppu.Tick(4)
}

func (b *Bus) logTimer(msg string) {
	fmt.Printf("[TMR] %s tima=%02X tac=%02X\n", msg, b.tmr.ReadTIMA(), b.tmr.ReadTAC())
}
