// cpu_z80_ops.go - Z80 unprefixed instruction set

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

type z80Op func(*CPU_Z80)

const (
	z80TableBase = iota
	z80TableCB
	z80TableDD
	z80TableED
	z80TableFD
	z80TableDDCB
	z80TableFDCB
	z80TableCount
)

var z80TablePrefix = [z80TableCount]uint16{0, 0xCB, 0xDD, 0xED, 0xFD, 0xDDCB, 0xFDCB}

// z80Ops is the dense dispatch table, indexed by table<<8|opcode.
var z80Ops [z80TableCount << 8]z80Op

func init() {
	initZ80BaseOps()
	initZ80CBOps()
	initZ80EDOps()
	initZ80IndexOps()
}

func setZ80Op(table int, opcode int, op z80Op) {
	z80Ops[table<<8|opcode] = op
}

// initZ80BaseOps fills the unprefixed table by decoding the x/y/z/p/q fields
// of each opcode.
func initZ80BaseOps() {
	for opcode := range 256 {
		x := byte(opcode >> 6)
		y := byte(opcode>>3) & 7
		z := byte(opcode) & 7
		p := y >> 1
		q := y & 1

		var op z80Op
		switch x {
		case 0:
			op = z80BaseX0(y, z, p, q)
		case 1:
			if opcode == 0x76 {
				op = (*CPU_Z80).opHALT
			} else {
				op = z80OpLD(y, z)
			}
		case 2:
			op = z80OpALU(y, z)
		case 3:
			op = z80BaseX3(y, z, p, q)
		}
		setZ80Op(z80TableBase, opcode, op)
	}
}

func z80BaseX0(y, z, p, q byte) z80Op {
	switch z {
	case 0:
		switch y {
		case 0:
			return (*CPU_Z80).opNOP
		case 1:
			return func(c *CPU_Z80) { c.ExAF() }
		case 2:
			return (*CPU_Z80).opDJNZ
		case 3:
			return func(c *CPU_Z80) { c.jr(true) }
		default:
			cc := y - 4
			return func(c *CPU_Z80) { c.jr(c.condition(cc)) }
		}
	case 1:
		if q == 0 {
			return func(c *CPU_Z80) { c.setRP(p, c.fetchWord()) }
		}
		return func(c *CPU_Z80) {
			c.tick(7)
			c.setHLX(c.add16(c.hlx(), c.getRP(p)))
		}
	case 2:
		return z80IndirectLoad(p, q)
	case 3:
		if q == 0 {
			return func(c *CPU_Z80) {
				c.tick(2)
				c.setRP(p, c.getRP(p)+1)
			}
		}
		return func(c *CPU_Z80) {
			c.tick(2)
			c.setRP(p, c.getRP(p)-1)
		}
	case 4:
		if y == 6 {
			return func(c *CPU_Z80) {
				addr := c.operandAddr(5)
				v := c.inc8(c.read(addr))
				c.tick(1)
				c.write(addr, v)
			}
		}
		return func(c *CPU_Z80) { c.setReg8(y, c.inc8(c.getReg8(y))) }
	case 5:
		if y == 6 {
			return func(c *CPU_Z80) {
				addr := c.operandAddr(5)
				v := c.dec8(c.read(addr))
				c.tick(1)
				c.write(addr, v)
			}
		}
		return func(c *CPU_Z80) { c.setReg8(y, c.dec8(c.getReg8(y))) }
	case 6:
		if y == 6 {
			return func(c *CPU_Z80) {
				addr := c.operandAddr(2)
				c.write(addr, c.fetchByte())
			}
		}
		return func(c *CPU_Z80) { c.setReg8(y, c.fetchByte()) }
	default:
		return [8]z80Op{
			(*CPU_Z80).rlca, (*CPU_Z80).rrca, (*CPU_Z80).rla, (*CPU_Z80).rra,
			(*CPU_Z80).daa, (*CPU_Z80).cpl, (*CPU_Z80).scf, (*CPU_Z80).ccf,
		}[y]
	}
}

// z80IndirectLoad covers LD (BC)/(DE)/(nn) with A and HL.
func z80IndirectLoad(p, q byte) z80Op {
	switch {
	case q == 0 && p < 2:
		return func(c *CPU_Z80) {
			addr := c.getRP(p)
			c.write(addr, c.A)
			c.WZ = uint16(c.A)<<8 | (addr+1)&0xFF
		}
	case q == 1 && p < 2:
		return func(c *CPU_Z80) {
			addr := c.getRP(p)
			c.A = c.read(addr)
			c.WZ = addr + 1
		}
	case q == 0 && p == 2:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.writeWord(addr, c.hlx())
			c.WZ = addr + 1
		}
	case q == 1 && p == 2:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.setHLX(c.readWord(addr))
			c.WZ = addr + 1
		}
	case q == 0:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.write(addr, c.A)
			c.WZ = uint16(c.A)<<8 | (addr+1)&0xFF
		}
	default:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.A = c.read(addr)
			c.WZ = addr + 1
		}
	}
}

// z80OpLD is LD r,r'. A memory operand pairs with the plain H and L even
// under an index prefix.
func z80OpLD(dst, src byte) z80Op {
	switch {
	case src == 6:
		return func(c *CPU_Z80) {
			addr := c.operandAddr(5)
			c.setReg8Plain(dst, c.read(addr))
		}
	case dst == 6:
		return func(c *CPU_Z80) {
			addr := c.operandAddr(5)
			c.write(addr, c.getReg8Plain(src))
		}
	default:
		return func(c *CPU_Z80) { c.setReg8(dst, c.getReg8(src)) }
	}
}

func z80OpALU(op, src byte) z80Op {
	if src == 6 {
		return func(c *CPU_Z80) {
			addr := c.operandAddr(5)
			c.alu8(op, c.read(addr))
		}
	}
	return func(c *CPU_Z80) { c.alu8(op, c.getReg8(src)) }
}

func z80BaseX3(y, z, p, q byte) z80Op {
	switch z {
	case 0:
		return func(c *CPU_Z80) {
			c.tick(1)
			if c.condition(y) {
				c.ret()
			}
		}
	case 1:
		if q == 0 {
			return func(c *CPU_Z80) { c.setRP2(p, c.pop()) }
		}
		switch p {
		case 0:
			return (*CPU_Z80).ret
		case 1:
			return func(c *CPU_Z80) { c.Exx() }
		case 2:
			return func(c *CPU_Z80) { c.PC = c.hlx() }
		default:
			return func(c *CPU_Z80) {
				c.tick(2)
				c.SP = c.hlx()
			}
		}
	case 2:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.WZ = addr
			if c.condition(y) {
				c.PC = addr
			}
		}
	case 3:
		switch y {
		case 0:
			return func(c *CPU_Z80) {
				c.PC = c.fetchWord()
				c.WZ = c.PC
			}
		case 1:
			return (*CPU_Z80).opCBPrefix
		case 2:
			return (*CPU_Z80).opOUTNA
		case 3:
			return (*CPU_Z80).opINAN
		case 4:
			return (*CPU_Z80).opEXSPHL
		case 5:
			return func(c *CPU_Z80) {
				de := c.DE()
				c.SetDE(c.HL())
				c.SetHL(de)
			}
		case 6:
			return func(c *CPU_Z80) {
				c.IFF1 = false
				c.IFF2 = false
			}
		default:
			return func(c *CPU_Z80) {
				c.IFF1 = true
				c.IFF2 = true
				c.eiBlock = true
			}
		}
	case 4:
		return func(c *CPU_Z80) {
			addr := c.fetchWord()
			c.WZ = addr
			if c.condition(y) {
				c.call(addr)
			}
		}
	case 5:
		if q == 0 {
			return func(c *CPU_Z80) {
				c.tick(1)
				c.push(c.getRP2(p))
			}
		}
		switch p {
		case 0:
			return func(c *CPU_Z80) {
				addr := c.fetchWord()
				c.WZ = addr
				c.call(addr)
			}
		case 1:
			return func(c *CPU_Z80) { c.opIndexPrefix(z80TableDD, &c.IX) }
		case 2:
			return (*CPU_Z80).opEDPrefix
		default:
			return func(c *CPU_Z80) { c.opIndexPrefix(z80TableFD, &c.IY) }
		}
	case 6:
		return func(c *CPU_Z80) { c.alu8(y, c.fetchByte()) }
	default:
		vector := uint16(y) * 8
		return func(c *CPU_Z80) {
			c.tick(1)
			c.push(c.PC)
			c.PC = vector
			c.WZ = vector
		}
	}
}

func (c *CPU_Z80) opNOP() {}

// opHALT leaves PC on the HALT opcode; the core then idles in Step until an
// interrupt moves it on.
func (c *CPU_Z80) opHALT() {
	c.Halted = true
	c.PC--
}

func (c *CPU_Z80) jr(taken bool) {
	d := int8(c.fetchByte())
	if taken {
		c.tick(5)
		c.PC += uint16(int16(d))
		c.WZ = c.PC
	}
}

func (c *CPU_Z80) opDJNZ() {
	c.tick(1)
	c.B--
	c.jr(c.B != 0)
}

func (c *CPU_Z80) call(addr uint16) {
	c.tick(1)
	c.push(c.PC)
	c.PC = addr
}

func (c *CPU_Z80) ret() {
	c.PC = c.pop()
	c.WZ = c.PC
}

func (c *CPU_Z80) opOUTNA() {
	n := c.fetchByte()
	c.out(uint16(c.A)<<8|uint16(n), c.A)
	c.WZ = uint16(c.A)<<8 | uint16(n+1)
}

func (c *CPU_Z80) opINAN() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.A = c.in(port)
	c.WZ = port + 1
}

func (c *CPU_Z80) opEXSPHL() {
	lo := c.read(c.SP)
	hi := c.read(c.SP + 1)
	c.tick(1)
	v := c.hlx()
	c.write(c.SP+1, byte(v>>8))
	c.write(c.SP, byte(v))
	c.tick(2)
	c.WZ = uint16(hi)<<8 | uint16(lo)
	c.setHLX(c.WZ)
}
