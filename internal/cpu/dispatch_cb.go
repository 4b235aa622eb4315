package cpu

// execCB applies one CB-prefixed opcode. It is called from the step that
// just fetched the second opcode byte; for register operands that's the
// whole instruction, so it mutates state directly and returns nil. For an
// (HL) operand it instead returns the extra steps needed to read (and, for
// everything but BIT, write back) memory — that read/write has its own
// bus cycle on real hardware, distinct from the opcode fetch.
func execCB(c *CPU, bus Bus, cb byte) []step {
	r := reg8(cb & 7)
	group := (cb >> 6) & 3
	y := (cb >> 3) & 7

	switch group {
	case 0: // rotate/shift/swap
		op := rotateOp(y)
		if r == regHLInd {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.getHL()) },
				func(c *CPU, bus Bus) {
					res, cy := op(c.scratch[0], c.flag(flagC))
					bus.Write(c.getHL(), res)
					c.setFlags(res == 0, false, false, cy)
				},
			}
		}
		v := c.get8(bus, r)
		res, cy := op(v, c.flag(flagC))
		c.set8(bus, r, res)
		c.setFlags(res == 0, false, false, cy)
		return nil

	case 1: // BIT y,r
		if r == regHLInd {
			return []step{func(c *CPU, bus Bus) {
				v := bus.Read(c.getHL())
				c.F = c.F&flagC | flagH
				if v&(1<<y) == 0 {
					c.F |= flagZ
				}
			}}
		}
		v := c.get8(bus, r)
		c.F = c.F&flagC | flagH
		if v&(1<<y) == 0 {
			c.F |= flagZ
		}
		return nil

	case 2: // RES y,r
		if r == regHLInd {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.getHL()) },
				func(c *CPU, bus Bus) { bus.Write(c.getHL(), c.scratch[0]&^(1<<y)) },
			}
		}
		c.set8(bus, r, c.get8(bus, r)&^(1<<y))
		return nil

	default: // SET y,r
		if r == regHLInd {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.getHL()) },
				func(c *CPU, bus Bus) { bus.Write(c.getHL(), c.scratch[0]|1<<y) },
			}
		}
		c.set8(bus, r, c.get8(bus, r)|1<<y)
		return nil
	}
}

// rotateOp selects the shift/rotate implementation for CB group 0,
// wrapped to a uniform (value, carryIn) -> (result, carryOut) shape so
// both the register and (HL) paths can share one call site.
func rotateOp(y byte) func(v byte, carryIn bool) (byte, bool) {
	switch y {
	case 0:
		return func(v byte, _ bool) (byte, bool) { return rlc(v) }
	case 1:
		return func(v byte, _ bool) (byte, bool) { return rrc(v) }
	case 2:
		return rl
	case 3:
		return rr
	case 4:
		return func(v byte, _ bool) (byte, bool) { return sla(v) }
	case 5:
		return func(v byte, _ bool) (byte, bool) { return sra(v) }
	case 6:
		return func(v byte, _ bool) (byte, bool) { return swap(v), false }
	default:
		return func(v byte, _ bool) (byte, bool) { return srl(v) }
	}
}
