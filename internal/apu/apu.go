// Package apu models the DMG audio unit as register storage only.
// spec.md §1 scopes sound synthesis out: "stubbed; only register storage
// is required for guest compatibility." This mirrors
// original_source/src/apu.rs, which itself stores channel registers and
// a wave table without ever synthesizing a waveform.
package apu

// APU holds the NR10-NR52 register file and wave RAM. While powered on,
// reads return exactly what was last written; only NR52 reads back with
// fixed bits (4-6 set, bit 7 the power state). Unmapped addresses in the
// range read 0xFF. No audio is produced.
type APU struct {
	ch1 [5]byte // NR10-NR14
	ch2 [4]byte // NR21-NR24
	ch3 [5]byte // NR30-NR34
	ch4 [4]byte // NR41-NR44

	nr50, nr51, nr52 byte
	wave             [16]byte // FF30-FF3F

	enabled bool
}

// New returns an APU with all registers zeroed and sound powered off.
func New() *APU { return &APU{} }

// Read returns a byte for any address in 0xFF10-0xFF3F.
func (a *APU) Read(addr uint16) byte {
	if addr >= 0xFF30 && addr <= 0xFF3F {
		return a.wave[addr-0xFF30]
	}
	if !a.enabled && addr != 0xFF26 {
		// Powered off: the register file reads back zero, matching
		// hardware's behavior of blocking writes while off.
		return 0x00
	}
	switch addr {
	case 0xFF10, 0xFF11, 0xFF12, 0xFF13, 0xFF14:
		return a.ch1[addr-0xFF10]
	case 0xFF16, 0xFF17, 0xFF18, 0xFF19:
		return a.ch2[addr-0xFF16]
	case 0xFF1A, 0xFF1B, 0xFF1C, 0xFF1D, 0xFF1E:
		return a.ch3[addr-0xFF1A]
	case 0xFF20, 0xFF21, 0xFF22, 0xFF23:
		return a.ch4[addr-0xFF20]
	case 0xFF24:
		return a.nr50
	case 0xFF25:
		return a.nr51
	case 0xFF26:
		v := byte(0x70)
		if a.enabled {
			v |= 0x80
		}
		return v
	default:
		return 0xFF
	}
}

// Write handles a CPU write to any address in 0xFF10-0xFF3F.
func (a *APU) Write(addr uint16, v byte) {
	if addr >= 0xFF30 && addr <= 0xFF3F {
		a.wave[addr-0xFF30] = v
		return
	}
	if addr == 0xFF26 {
		a.enabled = v&0x80 != 0
		if !a.enabled {
			a.ch1, a.ch2, a.ch3, a.ch4 = [5]byte{}, [4]byte{}, [5]byte{}, [4]byte{}
			a.nr50, a.nr51 = 0, 0
		}
		return
	}
	if !a.enabled {
		return
	}
	switch addr {
	case 0xFF10, 0xFF11, 0xFF12, 0xFF13, 0xFF14:
		a.ch1[addr-0xFF10] = v
	case 0xFF16, 0xFF17, 0xFF18, 0xFF19:
		a.ch2[addr-0xFF16] = v
	case 0xFF1A, 0xFF1B, 0xFF1C, 0xFF1D, 0xFF1E:
		a.ch3[addr-0xFF1A] = v
	case 0xFF20, 0xFF21, 0xFF22, 0xFF23:
		a.ch4[addr-0xFF20] = v
	case 0xFF24:
		a.nr50 = v
	case 0xFF25:
		a.nr51 = v
	}
}

// Reset zeroes every register and powers the unit off.
func (a *APU) Reset() {
	*a = APU{}
}
