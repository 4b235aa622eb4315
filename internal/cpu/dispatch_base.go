package cpu

// opFunc decodes one base-page opcode: it performs whatever work belongs
// on the fetch's own M-cycle and returns the steps (if any) for the
// remaining M-cycles.
type opFunc func(c *CPU, bus Bus) []step

var baseTable [256]opFunc

func init() {
	for i := range baseTable {
		baseTable[i] = opIllegal
	}

	buildLoadRR()
	buildLoadRImm()
	buildALURegister()
	buildALUImmediate()
	buildIncDec8()
	buildIncDec16()
	buildAddHL()
	buildPushPop()
	buildJR()
	buildJPcc()
	buildCALLcc()
	buildRETcc()
	buildRST()
	buildMisc()
}

func opIllegal(c *CPU, bus Bus) []step { return nil } // NOP-equivalent, per spec.md's undefined-opcode handling

// --- LD r,r' (0x40-0x7F, with 0x76 = HALT) ---

func buildLoadRR() {
	for op := 0x40; op <= 0x7F; op++ {
		op := byte(op)
		if op == 0x76 {
			continue // HALT, set in buildMisc
		}
		dst := reg8((op >> 3) & 7)
		src := reg8(op & 7)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			if dst == regHLInd || src == regHLInd {
				return []step{func(c *CPU, bus Bus) {
					c.set8(bus, dst, c.get8(bus, src))
				}}
			}
			c.set8(bus, dst, c.get8(bus, src))
			return nil
		}
	}
}

// --- LD r,d8 (0x06,0x0E,...,0x3E) ---

func buildLoadRImm() {
	for _, r := range []reg8{regB, regC, regD, regE, regH, regL, regHLInd, regA} {
		op := byte(0x06 + int(r)*8)
		r := r
		baseTable[op] = func(c *CPU, bus Bus) []step {
			if r == regHLInd {
				return []step{
					func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
					func(c *CPU, bus Bus) { bus.Write(c.getHL(), c.scratch[0]) },
				}
			}
			return []step{func(c *CPU, bus Bus) {
				c.set8(bus, r, bus.Read(c.PC))
				c.PC++
			}}
		}
	}
}

// --- ALU A,r / A,(HL) (0x80-0xBF) ---

func buildALURegister() {
	for group := 0; group < 8; group++ {
		for r := 0; r < 8; r++ {
			op := byte(0x80 + group*8 + r)
			group, src := group, reg8(r)
			baseTable[op] = func(c *CPU, bus Bus) []step {
				apply := func(c *CPU, bus Bus) {
					v := c.get8(bus, src)
					c.applyALU(group, v)
				}
				if src == regHLInd {
					return []step{apply}
				}
				apply(c, bus)
				return nil
			}
		}
	}
}

// applyALU runs ALU group `group` (0=ADD..6=OR, 7=CP) against A and
// operand v, committing the result and flags.
func (c *CPU) applyALU(group int, v byte) {
	var res byte
	var z, n, h, cy bool
	switch group {
	case 0:
		res, z, n, h, cy = add8(c.A, v)
	case 1:
		res, z, n, h, cy = adc8(c.A, v, c.flag(flagC))
	case 2:
		res, z, n, h, cy = sub8(c.A, v)
	case 3:
		res, z, n, h, cy = sbc8(c.A, v, c.flag(flagC))
	case 4:
		res, z, n, h, cy = and8(c.A, v)
	case 5:
		res, z, n, h, cy = xor8(c.A, v)
	case 6:
		res, z, n, h, cy = or8(c.A, v)
	case 7:
		z, n, h, cy = cp8(c.A, v)
		c.setFlags(z, n, h, cy)
		return
	}
	c.A = res
	c.setFlags(z, n, h, cy)
}

// --- ALU A,d8 (0xC6,0xCE,...,0xFE) ---

func buildALUImmediate() {
	for group := 0; group < 8; group++ {
		op := byte(0xC6 + group*8)
		group := group
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{func(c *CPU, bus Bus) {
				v := bus.Read(c.PC)
				c.PC++
				c.applyALU(group, v)
			}}
		}
	}
}

// --- INC r / DEC r (0x04,0x05,0x0C,0x0D,...) ---

func buildIncDec8() {
	for r := 0; r < 8; r++ {
		r := reg8(r)
		incOp := byte(0x04 + r*8)
		decOp := byte(0x05 + r*8)
		baseTable[incOp] = func(c *CPU, bus Bus) []step {
			apply := func(c *CPU, bus Bus) {
				old := c.get8(bus, r)
				res, z, h := inc8(old)
				c.set8(bus, r, res)
				c.setFlags(z, false, h, c.flag(flagC))
			}
			if r == regHLInd {
				return []step{
					func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.getHL()) },
					func(c *CPU, bus Bus) {
						res, z, h := inc8(c.scratch[0])
						bus.Write(c.getHL(), res)
						c.setFlags(z, false, h, c.flag(flagC))
					},
				}
			}
			apply(c, bus)
			return nil
		}
		baseTable[decOp] = func(c *CPU, bus Bus) []step {
			apply := func(c *CPU, bus Bus) {
				old := c.get8(bus, r)
				res, z, h := dec8(old)
				c.set8(bus, r, res)
				c.setFlags(z, true, h, c.flag(flagC))
			}
			if r == regHLInd {
				return []step{
					func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.getHL()) },
					func(c *CPU, bus Bus) {
						res, z, h := dec8(c.scratch[0])
						bus.Write(c.getHL(), res)
						c.setFlags(z, true, h, c.flag(flagC))
					},
				}
			}
			apply(c, bus)
			return nil
		}
	}
}

// --- INC rr / DEC rr (0x03,0x0B,0x13,0x1B,0x23,0x2B,0x33,0x3B) ---

func buildIncDec16() {
	for p := 0; p < 4; p++ {
		p := reg16(p)
		incOp := byte(0x03 + p*0x10)
		decOp := byte(0x0B + p*0x10)
		baseTable[incOp] = func(c *CPU, bus Bus) []step {
			return []step{func(c *CPU, bus Bus) { c.set16(p, c.get16(p)+1) }}
		}
		baseTable[decOp] = func(c *CPU, bus Bus) []step {
			return []step{func(c *CPU, bus Bus) { c.set16(p, c.get16(p)-1) }}
		}
	}
}

// --- ADD HL,rr (0x09,0x19,0x29,0x39) ---

func buildAddHL() {
	for p := 0; p < 4; p++ {
		op := byte(0x09 + p*0x10)
		p := reg16(p)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{func(c *CPU, bus Bus) {
				res, h, cy := add16(c.getHL(), c.get16(p))
				c.setHL(res)
				c.setFlags(c.flag(flagZ), false, h, cy)
			}}
		}
	}
}

// --- PUSH/POP rr (0xC1,0xC5,0xD1,0xD5,0xE1,0xE5,0xF1,0xF5) ---

func buildPushPop() {
	for p := 0; p < 4; p++ {
		p := stackPair(p)
		popOp := byte(0xC1 + p*0x10)
		pushOp := byte(0xC5 + p*0x10)
		baseTable[popOp] = func(c *CPU, bus Bus) []step {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.SP); c.SP++ },
				func(c *CPU, bus Bus) {
					hi := bus.Read(c.SP)
					c.SP++
					c.setStackPair(p, uint16(hi)<<8|uint16(c.scratch[0]))
				},
			}
		}
		baseTable[pushOp] = func(c *CPU, bus Bus) []step {
			return []step{
				func(c *CPU, bus Bus) {}, // internal delay
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.getStackPair(p)>>8))
				},
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.getStackPair(p)))
				},
			}
		}
	}
}

// --- JR e8 / JR cc,e8 (0x18, 0x20/0x28/0x30/0x38) ---

func buildJR() {
	baseTable[0x18] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.PC = uint16(int32(c.PC) + int32(int8(c.scratch[0]))) },
		}
	}
	for cc := 0; cc < 4; cc++ {
		op := byte(0x20 + cc*8)
		cc := condition(cc)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{func(c *CPU, bus Bus) {
				e := int8(bus.Read(c.PC))
				c.PC++
				if !c.checkCond(cc) {
					return
				}
				c.pushSteps(func(c *CPU, bus Bus) {
					c.PC = uint16(int32(c.PC) + int32(e))
				})
			}}
		}
	}
}

// --- JP nn / JP cc,nn (0xC3, 0xC2/0xCA/0xD2/0xDA) ---

func buildJPcc() {
	baseTable[0xC3] = func(c *CPU, bus Bus) []step {
		return []step{
			func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.scratch[1] = bus.Read(c.PC); c.PC++ },
			func(c *CPU, bus Bus) { c.PC = uint16(c.scratch[1])<<8 | uint16(c.scratch[0]) },
		}
	}
	for cc := 0; cc < 4; cc++ {
		op := byte(0xC2 + cc*8)
		cc := condition(cc)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{
				func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
				func(c *CPU, bus Bus) {
					c.scratch[1] = bus.Read(c.PC)
					c.PC++
					if !c.checkCond(cc) {
						return
					}
					c.pushSteps(func(c *CPU, bus Bus) {
						c.PC = uint16(c.scratch[1])<<8 | uint16(c.scratch[0])
					})
				},
			}
		}
	}
}

// --- CALL nn / CALL cc,nn (0xCD, 0xC4/0xCC/0xD4/0xDC) ---

func buildCALLcc() {
	baseTable[0xCD] = func(c *CPU, bus Bus) []step {
		return callSteps(nil)
	}
	for cc := 0; cc < 4; cc++ {
		op := byte(0xC4 + cc*8)
		cc := condition(cc)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return callSteps(&cc)
		}
	}
}

func callSteps(cc *condition) []step {
	return []step{
		func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.PC); c.PC++ },
		func(c *CPU, bus Bus) {
			c.scratch[1] = bus.Read(c.PC)
			c.PC++
			if cc != nil && !c.checkCond(*cc) {
				return
			}
			c.pushSteps(
				func(c *CPU, bus Bus) {}, // internal delay
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.PC>>8))
				},
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.PC))
					c.PC = uint16(c.scratch[1])<<8 | uint16(c.scratch[0])
				},
			)
		},
	}
}

// --- RET / RETI / RET cc (0xC9, 0xD9, 0xC0/0xC8/0xD0/0xD8) ---

func buildRETcc() {
	baseTable[0xC9] = func(c *CPU, bus Bus) []step { return retSteps(nil, false) }
	baseTable[0xD9] = func(c *CPU, bus Bus) []step { return retSteps(nil, true) }
	for cc := 0; cc < 4; cc++ {
		op := byte(0xC0 + cc*8)
		cc := condition(cc)
		baseTable[op] = func(c *CPU, bus Bus) []step { return retSteps(&cc, false) }
	}
}

func retSteps(cc *condition, ei bool) []step {
	pop := []step{
		func(c *CPU, bus Bus) { c.scratch[0] = bus.Read(c.SP); c.SP++ },
		func(c *CPU, bus Bus) { c.scratch[1] = bus.Read(c.SP); c.SP++ },
		func(c *CPU, bus Bus) {
			c.PC = uint16(c.scratch[1])<<8 | uint16(c.scratch[0])
			if ei {
				c.IME = true
			}
		},
	}
	if cc == nil {
		return pop
	}
	return []step{func(c *CPU, bus Bus) {
		if !c.checkCond(*cc) {
			return
		}
		c.pushSteps(pop...)
	}}
}

// --- RST t (0xC7,0xCF,0xD7,0xDF,0xE7,0xEF,0xF7,0xFF) ---

func buildRST() {
	for y := 0; y < 8; y++ {
		op := byte(0xC7 + y*8)
		vector := uint16(y * 8)
		baseTable[op] = func(c *CPU, bus Bus) []step {
			return []step{
				func(c *CPU, bus Bus) {}, // internal delay
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.PC>>8))
				},
				func(c *CPU, bus Bus) {
					c.SP--
					bus.Write(c.SP, byte(c.PC))
					c.PC = vector
				},
			}
		}
	}
}
