package cpu

// buildMisc wires every opcode that doesn't fit one of the regular
// bit-field-decoded families in dispatch_base.go.
func buildMisc() {
	baseTable[0x00] = func(c *CPU, bus Bus) []step { return nil } // NOP

	// LD rr,d16 (0x01,0x11,0x21,0x31)
	for p := 0; p < 4; p++ {
		op := byte(0x01 + p*0x10)
		p := reg16(p)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
				func(c *CPU, bus Bus) {
					c.scratch[1] = bus.Read(c.PC)
					c.PC++
					c.set16(p, uint16(c.scratch[1])<<8|uint16(c.scratch[0]))
				},
			}
		}
	}

	// LD (BC),A / LD (DE),A / LD A,(BC) / LD A,(DE)
	baseTable[0x02] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { bus.Write(c.getBC(), c.A) }}
	}
	baseTable[0x12] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { bus.Write(c.getDE(), c.A) }}
	}
	baseTable[0x0A] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { c.A = bus.Read(c.getBC()) }}
	}
	baseTable[0x1A] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { c.A = bus.Read(c.getDE()) }}
	}

	// LD (HL+),A / LD (HL-),A / LD A,(HL+) / LD A,(HL-)
	baseTable[0x22] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) {
			hl := c.getHL()
			bus.Write(hl, c.A)
			c.setHL(hl + 1)
		}}
	}
	baseTable[0x32] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) {
			hl := c.getHL()
			bus.Write(hl, c.A)
			c.setHL(hl - 1)
		}}
	}
	baseTable[0x2A] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) {
			hl := c.getHL()
			c.A = bus.Read(hl)
			c.setHL(hl + 1)
		}}
	}
	baseTable[0x3A] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) {
			hl := c.getHL()
			c.A = bus.Read(hl)
			c.setHL(hl - 1)
		}}
	}

	// LD (a16),SP
	baseTable[0x08] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.scratch[1] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) {
				addr := uint16(c.scratch[1])<<8 | uint16(c.scratch[0])
				bus.Write(addr, byte(c.SP))
			},
			func(c *CPU, bus Bus) {
				addr := uint16(c.scratch[1])<<8 | uint16(c.scratch[0])
				bus.Write(addr+1, byte(c.SP>>8))
			},
		}
	}

	// LDH (a8),A / LDH A,(a8)
	baseTable[0xE0] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { bus.Write(0xFF00+uint16(c.scratch[0]), c.A) },
		}
	}
	baseTable[0xF0] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.A = bus.Read(0xFF00 + uint16(c.scratch[0])) },
		}
	}

	// LD (C),A / LD A,(C)
	baseTable[0xE2] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { bus.Write(0xFF00+uint16(c.C), c.A) }}
	}
	baseTable[0xF2] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { c.A = bus.Read(0xFF00 + uint16(c.C)) }}
	}

	// LD (a16),A / LD A,(a16)
	baseTable[0xEA] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.scratch[1] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { bus.Write(uint16(c.scratch[1])<<8|uint16(c.scratch[0]), c.A) },
		}
	}
	baseTable[0xFA] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.scratch[1] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.A = bus.Read(uint16(c.scratch[1])<<8 | uint16(c.scratch[0])) },
		}
	}

	// LD SP,HL
	baseTable[0xF9] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) { c.SP = c.getHL() }}
	}

	// LD HL,SP+e8
	baseTable[0xF8] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) {
				res, h, cy := addSPSigned(c.SP, int8(c.scratch[0]))
				c.setHL(res)
				c.setFlags(false, false, h, cy)
			},
		}
	}

	// ADD SP,e8
	baseTable[0xE8] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) {
				res, h, cy := addSPSigned(c.SP, int8(c.scratch[0]))
				c.scratch[1] = byte(res)
				c.scratch[2] = byte(res >> 8)
				c.setFlags(false, false, h, cy)
			},
			func(c *CPU, bus Bus) {
				c.SP = uint16(c.scratch[2])<<8 | uint16(c.scratch[1])
			},
		}
	}

	// JP (HL)
	baseTable[0xE9] = func(c *CPU, bus Bus) []step {
		c.PC = c.getHL()
		return nil
	}

	// Rotates on A (RLCA/RRCA/RLA/RRA) — unlike the CB-page versions,
	// these always clear Z.
	baseTable[0x07] = func(c *CPU, bus Bus) []step {
		res, cy := rlc(c.A)
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	}
	baseTable[0x0F] = func(c *CPU, bus Bus) []step {
		res, cy := rrc(c.A)
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	}
	baseTable[0x17] = func(c *CPU, bus Bus) []step {
		res, cy := rl(c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	}
	baseTable[0x1F] = func(c *CPU, bus Bus) []step {
		res, cy := rr(c.A, c.flag(flagC))
		c.A = res
		c.setFlags(false, false, false, cy)
		return nil
	}

	baseTable[0x27] = func(c *CPU, bus Bus) []step { // DAA
		res, z, h, cy := daa(c.A, c.flag(flagN), c.flag(flagH), c.flag(flagC))
		c.A = res
		c.setFlags(z, c.flag(flagN), h, cy)
		return nil
	}
	baseTable[0x2F] = func(c *CPU, bus Bus) []step { // CPL
		c.A = ^c.A
		c.F = c.F&(flagZ|flagC) | flagN | flagH
		return nil
	}
	baseTable[0x37] = func(c *CPU, bus Bus) []step { // SCF
		c.F = c.F&flagZ | flagC
		return nil
	}
	baseTable[0x3F] = func(c *CPU, bus Bus) []step { // CCF
		cy := !c.flag(flagC)
		c.setFlags(c.flag(flagZ), false, false, cy)
		return nil
	}

	baseTable[0xF3] = func(c *CPU, bus Bus) []step { // DI
		c.IME = false
		c.eiArm = 0
		return nil
	}
	baseTable[0xFB] = func(c *CPU, bus Bus) []step { // EI
		c.scheduleEI()
		return nil
	}

	baseTable[0x76] = func(c *CPU, bus Bus) []step { // HALT
		pending := bus.PendingInterrupts() != 0
		switch {
		case c.IME:
			c.halted = true
		case pending:
			c.haltBug = true
		default:
			c.halted = true
		}
		return nil
	}

	baseTable[0x10] = func(c *CPU, bus Bus) []step { // STOP
		bus.ResetDivForStop()
		c.stopped = true
		// STOP's second byte (always 0x00 in well-formed ROMs) is
		// still consumed, matching the documented 2-byte encoding.
		c.PC++
		return nil
	}

	baseTable[0xCB] = func(c *CPU, bus Bus) []step {
		return []step{func(c *CPU, bus Bus) {
			cb := bus.Read(c.PC)
			c.PC++
			extra := execCB(c, bus, cb)
			if len(extra) > 0 {
				c.pushSteps(extra...)
			}
		}}
	}
}
