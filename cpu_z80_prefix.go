// cpu_z80_prefix.go - Z80 CB, ED, DD and FD prefixed instruction sets

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

func (c *CPU_Z80) opCBPrefix() {
	c.dispatch(z80TableCB, c.fetchOpcode())
}

func (c *CPU_Z80) opEDPrefix() {
	c.index = nil
	c.dispatch(z80TableED, c.fetchOpcode())
}

// opIndexPrefix runs the next opcode with H, L and (HL) replaced by the
// index register. Opcodes that never touch HL behave as unprefixed.
func (c *CPU_Z80) opIndexPrefix(table int, reg *uint16) {
	c.index = reg
	c.dispatch(table, c.fetchOpcode())
}

// opIndexCB handles DD CB d op / FD CB d op. The displacement comes before
// the final opcode, which is read as data and does not bump R.
func (c *CPU_Z80) opIndexCB(table int) {
	d := int8(c.fetchByte())
	opcode := c.fetchByte()
	c.tick(2)
	c.WZ = *c.index + uint16(int16(d))
	c.dispatch(table, opcode)
}

func initZ80CBOps() {
	for opcode := range 256 {
		x := byte(opcode >> 6)
		y := byte(opcode>>3) & 7
		z := byte(opcode) & 7
		var op z80Op
		switch x {
		case 0:
			if z == 6 {
				op = func(c *CPU_Z80) {
					addr := c.HL()
					v := c.rot8(y, c.read(addr))
					c.tick(1)
					c.write(addr, v)
				}
			} else {
				op = func(c *CPU_Z80) { c.setReg8Plain(z, c.rot8(y, c.getReg8Plain(z))) }
			}
		case 1:
			if z == 6 {
				op = func(c *CPU_Z80) {
					v := c.read(c.HL())
					c.tick(1)
					c.bit8(y, v, byte(c.WZ>>8))
				}
			} else {
				op = func(c *CPU_Z80) {
					v := c.getReg8Plain(z)
					c.bit8(y, v, v)
				}
			}
		default:
			set := x == 3
			mask := byte(1) << y
			if z == 6 {
				op = func(c *CPU_Z80) {
					addr := c.HL()
					v := z80SetRes(c.read(addr), mask, set)
					c.tick(1)
					c.write(addr, v)
				}
			} else {
				op = func(c *CPU_Z80) { c.setReg8Plain(z, z80SetRes(c.getReg8Plain(z), mask, set)) }
			}
		}
		setZ80Op(z80TableCB, opcode, op)
	}
}

func z80SetRes(v, mask byte, set bool) byte {
	if set {
		return v | mask
	}
	return v &^ mask
}

// z80IndexCBOp builds one DD CB / FD CB entry. The target address is already
// in WZ. Apart from BIT, a register field other than 6 also receives the result.
func z80IndexCBOp(opcode int) z80Op {
	x := byte(opcode >> 6)
	y := byte(opcode>>3) & 7
	z := byte(opcode) & 7
	if x == 1 {
		return func(c *CPU_Z80) {
			v := c.read(c.WZ)
			c.tick(1)
			c.bit8(y, v, byte(c.WZ>>8))
		}
	}
	set := x == 3
	mask := byte(1) << y
	return func(c *CPU_Z80) {
		v := c.read(c.WZ)
		if x == 0 {
			v = c.rot8(y, v)
		} else {
			v = z80SetRes(v, mask, set)
		}
		c.tick(1)
		c.write(c.WZ, v)
		if z != 6 {
			c.setReg8Plain(z, v)
		}
	}
}

func initZ80IndexOps() {
	for _, t := range [...]struct{ table, cb int }{
		{z80TableDD, z80TableDDCB},
		{z80TableFD, z80TableFDCB},
	} {
		copy(z80Ops[t.table<<8:(t.table+1)<<8], z80Ops[z80TableBase<<8:(z80TableBase+1)<<8])
		cb := t.cb
		setZ80Op(t.table, 0xCB, func(c *CPU_Z80) { c.opIndexCB(cb) })
		for opcode := range 256 {
			setZ80Op(cb, opcode, z80IndexCBOp(opcode))
		}
	}
}

var z80InterruptModes = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}

func initZ80EDOps() {
	// Holes in the ED page execute as an eight-cycle NOP on real silicon.
	for opcode := range 256 {
		setZ80Op(z80TableED, opcode, (*CPU_Z80).opNOP)
	}

	for opcode := 0x40; opcode < 0x80; opcode++ {
		y := byte(opcode>>3) & 7
		z := byte(opcode) & 7
		p := y >> 1
		q := y & 1
		var op z80Op
		switch z {
		case 0:
			op = func(c *CPU_Z80) {
				v := c.in(c.BC())
				c.WZ = c.BC() + 1
				c.F = c.F&z80FlagC | z80Flags.sz53p[v]
				if y != 6 {
					c.setReg8Plain(y, v)
				}
			}
		case 1:
			op = func(c *CPU_Z80) {
				var v byte
				if y != 6 {
					v = c.getReg8Plain(y)
				}
				c.out(c.BC(), v)
				c.WZ = c.BC() + 1
			}
		case 2:
			if q == 0 {
				op = func(c *CPU_Z80) {
					c.tick(7)
					c.SetHL(c.sbc16(c.HL(), c.getRP(p)))
				}
			} else {
				op = func(c *CPU_Z80) {
					c.tick(7)
					c.SetHL(c.adc16(c.HL(), c.getRP(p)))
				}
			}
		case 3:
			if q == 0 {
				op = func(c *CPU_Z80) {
					addr := c.fetchWord()
					c.writeWord(addr, c.getRP(p))
					c.WZ = addr + 1
				}
			} else {
				op = func(c *CPU_Z80) {
					addr := c.fetchWord()
					c.setRP(p, c.readWord(addr))
					c.WZ = addr + 1
				}
			}
		case 4:
			op = (*CPU_Z80).neg
		case 5:
			// RETN and RETI both restore IFF1 from IFF2.
			op = func(c *CPU_Z80) {
				c.IFF1 = c.IFF2
				c.ret()
			}
		case 6:
			mode := z80InterruptModes[y]
			op = func(c *CPU_Z80) { c.IM = mode }
		default:
			op = z80EDMisc(y)
		}
		setZ80Op(z80TableED, opcode, op)
	}

	block := map[int]z80Op{
		0xA0: func(c *CPU_Z80) { c.ldBlock(1, false) },
		0xA8: func(c *CPU_Z80) { c.ldBlock(-1, false) },
		0xB0: func(c *CPU_Z80) { c.ldBlock(1, true) },
		0xB8: func(c *CPU_Z80) { c.ldBlock(-1, true) },
		0xA1: func(c *CPU_Z80) { c.cpBlock(1, false) },
		0xA9: func(c *CPU_Z80) { c.cpBlock(-1, false) },
		0xB1: func(c *CPU_Z80) { c.cpBlock(1, true) },
		0xB9: func(c *CPU_Z80) { c.cpBlock(-1, true) },
		0xA2: func(c *CPU_Z80) { c.inBlock(1, false) },
		0xAA: func(c *CPU_Z80) { c.inBlock(-1, false) },
		0xB2: func(c *CPU_Z80) { c.inBlock(1, true) },
		0xBA: func(c *CPU_Z80) { c.inBlock(-1, true) },
		0xA3: func(c *CPU_Z80) { c.outBlock(1, false) },
		0xAB: func(c *CPU_Z80) { c.outBlock(-1, false) },
		0xB3: func(c *CPU_Z80) { c.outBlock(1, true) },
		0xBB: func(c *CPU_Z80) { c.outBlock(-1, true) },
	}
	for opcode, op := range block {
		setZ80Op(z80TableED, opcode, op)
	}
}

func z80EDMisc(y byte) z80Op {
	switch y {
	case 0:
		return func(c *CPU_Z80) {
			c.tick(1)
			c.I = c.A
		}
	case 1:
		return func(c *CPU_Z80) {
			c.tick(1)
			c.SetRegR(c.A)
		}
	case 2:
		return func(c *CPU_Z80) {
			c.tick(1)
			c.A = c.I
			c.irFlags()
		}
	case 3:
		return func(c *CPU_Z80) {
			c.tick(1)
			c.A = c.RegR()
			c.irFlags()
		}
	case 4:
		return (*CPU_Z80).opRRD
	case 5:
		return (*CPU_Z80).opRLD
	default:
		return (*CPU_Z80).opNOP
	}
}

func (c *CPU_Z80) opRRD() {
	addr := c.HL()
	v := c.read(addr)
	c.tick(4)
	c.write(addr, c.A<<4|v>>4)
	c.A = c.A&0xF0 | v&0x0F
	c.F = c.F&z80FlagC | z80Flags.sz53p[c.A]
	c.WZ = addr + 1
}

func (c *CPU_Z80) opRLD() {
	addr := c.HL()
	v := c.read(addr)
	c.tick(4)
	c.write(addr, v<<4|c.A&0x0F)
	c.A = c.A&0xF0 | v>>4
	c.F = c.F&z80FlagC | z80Flags.sz53p[c.A]
	c.WZ = addr + 1
}

// repeatBlock rewinds PC onto the ED prefix so the instruction runs again.
func (c *CPU_Z80) repeatBlock() {
	c.tick(5)
	c.PC -= 2
	c.WZ = c.PC + 1
}

func (c *CPU_Z80) ldBlock(dir int16, repeat bool) {
	step := uint16(dir)
	v := c.read(c.HL())
	c.write(c.DE(), v)
	c.tick(2)
	c.SetBC(c.BC() - 1)
	c.blockLoadFlags(v)
	c.SetHL(c.HL() + step)
	c.SetDE(c.DE() + step)
	if repeat && c.BC() != 0 {
		c.repeatBlock()
	}
}

func (c *CPU_Z80) cpBlock(dir int16, repeat bool) {
	step := uint16(dir)
	v := c.read(c.HL())
	c.tick(5)
	more := c.blockCompare(v)
	c.SetHL(c.HL() + step)
	c.WZ += step
	if repeat && more {
		c.repeatBlock()
	}
}

func (c *CPU_Z80) inBlock(dir int16, repeat bool) {
	step := uint16(dir)
	c.tick(1)
	v := c.in(c.BC())
	c.WZ = c.BC() + step
	c.write(c.HL(), v)
	c.B--
	c.SetHL(c.HL() + step)
	c.blockIOFlags(v, uint16(v)+uint16(c.C+byte(dir)))
	if repeat && c.B != 0 {
		c.repeatBlock()
	}
}

func (c *CPU_Z80) outBlock(dir int16, repeat bool) {
	step := uint16(dir)
	c.tick(1)
	v := c.read(c.HL())
	c.B--
	c.WZ = c.BC() + step
	c.out(c.BC(), v)
	c.SetHL(c.HL() + step)
	c.blockIOFlags(v, uint16(v)+uint16(c.L))
	if repeat && c.B != 0 {
		c.repeatBlock()
	}
}
