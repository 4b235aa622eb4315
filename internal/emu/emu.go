// Package emu assembles the CPU, Bus (and everything the Bus composes:
// PPU, timer, serial, joypad, DMA, APU, cartridge) into the Machine the
// host embeds, per spec.md §6's external interface.
package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gbcore/internal/bus"
	"gbcore/internal/cart"
	"gbcore/internal/cpu"
	"gbcore/internal/joypad"
)

// cyclesPerFrame is the number of machine cycles in one 154-line frame:
// 154 lines * 456 dots / 4 dots-per-cycle, per spec.md §4.3.
const cyclesPerFrame = 154 * 456 / 4

// Machine is the outer tick loop spec.md §2 calls out as its own
// component: each Tick advances DMA, then the CPU one machine cycle,
// then the timer and PPU by the same cycle, in that order (spec.md §5).
type Machine struct {
	cfg Config

	cpu *cpu.CPU
	bus *bus.Bus

	romPath string
	frame   uint64
	bootROM []byte // retained so LoadROM can reapply it to a fresh Bus
}

// New returns a Machine with no cartridge loaded; call LoadROM or
// LoadROMFromFile before ticking.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg, cpu: cpu.New(), bus: bus.New(nil)}
}

// SetBootROM installs a DMG boot ROM image to run from 0x0000 until it
// disables itself via a 0xFF50 write. It survives a subsequent LoadROM,
// which otherwise replaces the Bus wholesale.
func (m *Machine) SetBootROM(data []byte) {
	m.bootROM = data
	m.bus.SetBootROM(data)
}

// LoadROM replaces the cartridge with the given ROM image and resets the
// machine. Any boot ROM previously installed via SetBootROM is reapplied
// to the fresh Bus, so the CPU starts executing it from 0x0000 instead
// of jumping straight to 0x0100.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) == 0 {
		return errors.New("emu: empty ROM image")
	}
	m.bus = bus.New(rom)
	if len(m.bootROM) >= 0x100 {
		m.bus.SetBootROM(m.bootROM)
	}
	m.romPath = ""
	m.Reset(false)
	return nil
}

// LoadROMFromFile reads a ROM image from disk and loads it, remembering
// the path for battery-save sidecar lookups.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadROM(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// LoadCartridge is LoadROM plus an optional boot ROM image, matching the
// host shell's historical two-argument loader shape.
func (m *Machine) LoadCartridge(rom, bootROM []byte) error {
	if len(bootROM) > 0 {
		m.SetBootROM(bootROM)
	}
	return m.LoadROM(rom)
}

// ROMPath returns the path LoadROMFromFile last loaded, or "".
func (m *Machine) ROMPath() string { return m.romPath }

// Reset repoints PC/SP/AF to the documented post-boot-ROM state. If a
// boot ROM is installed and postBoot is false, execution instead starts
// at 0x0000 with SP set as real hardware leaves it, so the boot ROM
// itself runs first and performs its own register/IO initialization,
// per spec.md §3's Lifecycles.
func (m *Machine) Reset(postBoot bool) {
	m.frame = 0
	if !postBoot && len(m.bootROM) >= 0x100 {
		m.cpu = cpu.New()
		m.cpu.SP = 0xFFFE
		return
	}
	m.cpu = cpu.New()
	m.cpu.ResetNoBoot()
}

// SetSerialWriter attaches an external sink for bytes transmitted via
// SC=0x81 writes, in addition to the accumulated SerialOutput buffer.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SerialOutput returns the ASCII bytes accumulated via SC=0x81 writes.
func (m *Machine) SerialOutput() string { return m.bus.SerialOutput() }

// Tick advances exactly one machine cycle: the DMA controller, then one
// CPU machine cycle, then the timer and PPU by the same cycle. This
// ordering (spec.md §5) guarantees a byte the DMA controller copies this
// cycle is visible to any CPU access the same cycle makes, and that CPU
// writes this cycle are visible to the PPU/timer tick that follows.
func (m *Machine) Tick() {
	m.bus.StepDMA()
	if m.cfg.Trace {
		m.traceCPU()
	}
	m.cpu.Tick(m.bus)
	m.bus.StepTimerAndPPU()
}

// traceCPU prints the CPU's register state at the start of each machine
// cycle, for the -trace flag shared by cmd/cpurunner and cmd/gbemu.
func (m *Machine) traceCPU() {
	st := m.CPUState()
	fmt.Printf("PC=%04X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t HALT=%t STOP=%t\n",
		st.PC, st.A, st.F, st.B, st.C, st.D, st.E, st.H, st.L, st.SP, st.IME, st.Halted, st.Stopped)
}

// RunToNextFrame ticks until a full frame's worth of machine cycles has
// elapsed, then returns the current PC. Frame boundaries are tracked by
// cycle count rather than by watching for a PPU "frame ready" edge, so a
// frame's worth of cycles still elapses while the LCD is off and LY is
// not advancing.
func (m *Machine) RunToNextFrame() uint16 {
	for i := 0; i < cyclesPerFrame; i++ {
		m.Tick()
	}
	m.frame++
	return m.cpu.PC
}

// StepFrame is RunToNextFrame without the return value, for hosts that
// only care about the resulting framebuffer.
func (m *Machine) StepFrame() { m.RunToNextFrame() }

// StepFrameNoRender is an alias for StepFrame: there is no separate
// rendering pass to skip, since the PPU rasterizes each scanline as it
// completes rather than as a distinct post-processing step. Kept as its
// own method because conformance-test callers (see blargg_test.go) ask
// for it by name.
func (m *Machine) StepFrameNoRender() { m.RunToNextFrame() }

// Framebuffer returns a copy of the current 160x144 RGBA pixel buffer.
func (m *Machine) Framebuffer() []byte { return m.bus.PPU().Framebuffer() }

// SetButton records one button's pressed state.
func (m *Machine) SetButton(btn joypad.Button, pressed bool) { m.bus.SetButton(btn, pressed) }

// SetButtons sets all eight buttons from a joypad.Button-position
// bitmask (bit set means pressed), per spec.md §6.
func (m *Machine) SetButtons(mask byte) { m.bus.SetButtons(mask) }

// CPUState is a debug snapshot of the programmer-visible CPU state.
type CPUState struct {
	A, F                 byte
	B, C, D, E, H, L     byte
	SP, PC               uint16
	IME, Halted, Stopped bool
}

// CPUState returns a snapshot of the CPU's registers for debugger/UI
// introspection, per spec.md §6.
func (m *Machine) CPUState() CPUState {
	c := m.cpu
	return CPUState{
		A: c.A, F: c.F,
		B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		IME: c.IME, Halted: c.Halted(), Stopped: c.Stopped(),
	}
}

// MemorySnapshot dumps the full 64 KiB address space by reading through
// the bus exactly as the CPU would (DMA's access restriction included),
// for debugger/UI introspection per spec.md §6.
func (m *Machine) MemorySnapshot() []byte {
	out := make([]byte, 0x10000)
	for addr := 0; addr < 0x10000; addr++ {
		out[addr] = m.bus.Read(uint16(addr))
	}
	return out
}

// LoadBattery restores battery-backed cartridge RAM from a ".sav"-style
// byte blob, if the current cartridge is battery-backed.
func (m *Machine) LoadBattery(data []byte) bool {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
		return true
	}
	return false
}

// SaveBattery returns the current battery-backed cartridge RAM, if the
// current cartridge is battery-backed.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		return bb.SaveRAM(), true
	}
	return nil, false
}
