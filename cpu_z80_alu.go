// cpu_z80_alu.go - Z80 arithmetic, logic and flag derivation

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

/*
cpu_z80_alu.go - Z80 Arithmetic Engine

Every flag-affecting operation is a method that takes the operand, writes F
and returns the result. Half-carry and overflow come from small lookup tables
indexed by the top bits of the two operands and the result; sign, zero, the
undocumented bits 5/3 and parity come from 256-entry tables built at start-up.
The undocumented X/Y behaviour of the block instructions and the WZ side
effect of 16-bit arithmetic are reproduced bit for bit, because ZX81 software
that probes them expects real silicon.
*/

package main

// z80FlagTables holds the per-byte flag lookups shared by every CPU.
type z80FlagTables struct {
	sz53   [256]byte
	parity [256]byte
	sz53p  [256]byte
}

func newZ80FlagTables() *z80FlagTables {
	t := &z80FlagTables{}
	for i := range 256 {
		v := byte(i)
		t.sz53[i] = v & (z80FlagS | z80FlagY | z80FlagX)
		bits := 0
		for b := v; b != 0; b >>= 1 {
			bits += int(b & 1)
		}
		if bits%2 == 0 {
			t.parity[i] = z80FlagPV
		}
		t.sz53p[i] = t.sz53[i] | t.parity[i]
	}
	t.sz53[0] |= z80FlagZ
	t.sz53p[0] |= z80FlagZ
	return t
}

var z80Flags = newZ80FlagTables()

// Indexed by ((a&0x88)>>3)|((b&0x88)>>2)|((result&0x88)>>1): bits 0-2 select
// the half-carry entry, bits 4-6 the overflow entry.
var (
	z80HalfcarryAdd = [8]byte{0, z80FlagH, z80FlagH, z80FlagH, 0, 0, 0, z80FlagH}
	z80HalfcarrySub = [8]byte{0, 0, z80FlagH, 0, z80FlagH, 0, z80FlagH, z80FlagH}
	z80OverflowAdd  = [8]byte{0, 0, 0, z80FlagPV, z80FlagPV, 0, 0, 0}
	z80OverflowSub  = [8]byte{0, z80FlagPV, 0, 0, 0, 0, z80FlagPV, 0}
)

func z80Lookup8(a, b byte, result uint16) byte {
	return (a&0x88)>>3 | (b&0x88)>>2 | byte(result&0x88)>>1
}

func (c *CPU_Z80) add8(v byte) {
	c.adc8carry(v, 0)
}

func (c *CPU_Z80) adc8(v byte) {
	c.adc8carry(v, c.F&z80FlagC)
}

func (c *CPU_Z80) adc8carry(v, carry byte) {
	sum := uint16(c.A) + uint16(v) + uint16(carry)
	lookup := z80Lookup8(c.A, v, sum)
	c.A = byte(sum)
	c.F = z80HalfcarryAdd[lookup&7] | z80OverflowAdd[lookup>>4] | z80Flags.sz53[c.A]
	if sum&0x100 != 0 {
		c.F |= z80FlagC
	}
}

func (c *CPU_Z80) sub8(v byte) {
	c.sbc8carry(v, 0)
}

func (c *CPU_Z80) sbc8(v byte) {
	c.sbc8carry(v, c.F&z80FlagC)
}

func (c *CPU_Z80) sbc8carry(v, carry byte) {
	diff := uint16(c.A) - uint16(v) - uint16(carry)
	lookup := z80Lookup8(c.A, v, diff)
	c.A = byte(diff)
	c.F = z80FlagN | z80HalfcarrySub[lookup&7] | z80OverflowSub[lookup>>4] | z80Flags.sz53[c.A]
	if diff&0x100 != 0 {
		c.F |= z80FlagC
	}
}

func (c *CPU_Z80) and8(v byte) {
	c.A &= v
	c.F = z80FlagH | z80Flags.sz53p[c.A]
}

func (c *CPU_Z80) xor8(v byte) {
	c.A ^= v
	c.F = z80Flags.sz53p[c.A]
}

func (c *CPU_Z80) or8(v byte) {
	c.A |= v
	c.F = z80Flags.sz53p[c.A]
}

// cp8 is SUB without the store; bits 5/3 come from the operand.
func (c *CPU_Z80) cp8(v byte) {
	diff := uint16(c.A) - uint16(v)
	lookup := z80Lookup8(c.A, v, diff)
	c.F = z80FlagN | z80HalfcarrySub[lookup&7] | z80OverflowSub[lookup>>4] |
		v&(z80FlagX|z80FlagY) | byte(diff)&z80FlagS
	if diff&0x100 != 0 {
		c.F |= z80FlagC
	} else if byte(diff) == 0 {
		c.F |= z80FlagZ
	}
}

// alu8 runs one of the eight accumulator operations selected by bits 5-3.
func (c *CPU_Z80) alu8(op byte, v byte) {
	switch op & 7 {
	case 0:
		c.add8(v)
	case 1:
		c.adc8(v)
	case 2:
		c.sub8(v)
	case 3:
		c.sbc8(v)
	case 4:
		c.and8(v)
	case 5:
		c.xor8(v)
	case 6:
		c.or8(v)
	default:
		c.cp8(v)
	}
}

func (c *CPU_Z80) inc8(v byte) byte {
	v++
	f := c.F&z80FlagC | z80Flags.sz53[v]
	if v == 0x80 {
		f |= z80FlagPV
	}
	if v&0x0F == 0 {
		f |= z80FlagH
	}
	c.F = f
	return v
}

func (c *CPU_Z80) dec8(v byte) byte {
	f := c.F&z80FlagC | z80FlagN
	if v&0x0F == 0 {
		f |= z80FlagH
	}
	v--
	if v == 0x7F {
		f |= z80FlagPV
	}
	c.F = f | z80Flags.sz53[v]
	return v
}

// add16 is ADD HL/IX/IY,rr: S, Z and P/V survive.
func (c *CPU_Z80) add16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	lookup := byte((a&0x0800)>>11 | (b&0x0800)>>10 | uint16(sum&0x0800)>>9)
	c.WZ = a + 1
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | z80HalfcarryAdd[lookup] |
		byte(sum>>8)&(z80FlagX|z80FlagY)
	if sum&0x10000 != 0 {
		c.F |= z80FlagC
	}
	return uint16(sum)
}

func z80Lookup16(a, b uint16, result uint32) byte {
	return byte((a&0x8800)>>11 | (b&0x8800)>>10 | uint16(result&0x8800)>>9)
}

func (c *CPU_Z80) adc16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b) + uint32(c.F&z80FlagC)
	lookup := z80Lookup16(a, b, sum)
	c.WZ = a + 1
	res := uint16(sum)
	c.F = z80OverflowAdd[lookup>>4] | z80HalfcarryAdd[lookup&7] |
		byte(res>>8)&(z80FlagX|z80FlagY|z80FlagS)
	if sum&0x10000 != 0 {
		c.F |= z80FlagC
	}
	if res == 0 {
		c.F |= z80FlagZ
	}
	return res
}

func (c *CPU_Z80) sbc16(a, b uint16) uint16 {
	diff := uint32(a) - uint32(b) - uint32(c.F&z80FlagC)
	lookup := z80Lookup16(a, b, diff)
	c.WZ = a + 1
	res := uint16(diff)
	c.F = z80FlagN | z80OverflowSub[lookup>>4] | z80HalfcarrySub[lookup&7] |
		byte(res>>8)&(z80FlagX|z80FlagY|z80FlagS)
	if diff&0x10000 != 0 {
		c.F |= z80FlagC
	}
	if res == 0 {
		c.F |= z80FlagZ
	}
	return res
}

// rot8 implements the CB rotate/shift group selected by bits 5-3.
func (c *CPU_Z80) rot8(op byte, v byte) byte {
	var carry byte
	switch op & 7 {
	case 0: // RLC
		carry = v >> 7
		v = v<<1 | carry
	case 1: // RRC
		carry = v & 1
		v = v>>1 | carry<<7
	case 2: // RL
		carry = v >> 7
		v = v<<1 | c.F&z80FlagC
	case 3: // RR
		carry = v & 1
		v = v>>1 | (c.F&z80FlagC)<<7
	case 4: // SLA
		carry = v >> 7
		v <<= 1
	case 5: // SRA
		carry = v & 1
		v = v&0x80 | v>>1
	case 6: // SLL
		carry = v >> 7
		v = v<<1 | 1
	default: // SRL
		carry = v & 1
		v >>= 1
	}
	c.F = carry | z80Flags.sz53p[v]
	return v
}

// bit8 tests bit n of v. xy supplies bits 5/3: the operand for registers,
// WZ high for memory forms.
func (c *CPU_Z80) bit8(n byte, v byte, xy byte) {
	f := c.F&z80FlagC | z80FlagH | xy&(z80FlagX|z80FlagY)
	if v&(1<<n) == 0 {
		f |= z80FlagPV | z80FlagZ
	} else if n == 7 {
		f |= z80FlagS
	}
	c.F = f
}

func (c *CPU_Z80) rlca() {
	c.A = c.A<<1 | c.A>>7
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagC|z80FlagX|z80FlagY)
}

func (c *CPU_Z80) rrca() {
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&z80FlagC
	c.A = c.A>>1 | c.A<<7
	c.F |= c.A & (z80FlagX | z80FlagY)
}

func (c *CPU_Z80) rla() {
	old := c.A
	c.A = c.A<<1 | c.F&z80FlagC
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagX|z80FlagY) | old>>7
}

func (c *CPU_Z80) rra() {
	old := c.A
	c.A = c.A>>1 | c.F<<7
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagX|z80FlagY) | old&z80FlagC
}

func (c *CPU_Z80) daa() {
	var adjust byte
	carry := c.F & z80FlagC
	if c.F&z80FlagH != 0 || c.A&0x0F > 9 {
		adjust = 0x06
	}
	if carry != 0 || c.A > 0x99 {
		adjust |= 0x60
	}
	if c.A > 0x99 {
		carry = z80FlagC
	}
	if c.F&z80FlagN != 0 {
		c.sub8(adjust)
	} else {
		c.add8(adjust)
	}
	c.F = c.F&^(z80FlagC|z80FlagPV) | carry | z80Flags.parity[c.A]
}

func (c *CPU_Z80) cpl() {
	c.A ^= 0xFF
	c.F = c.F&(z80FlagC|z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagX|z80FlagY) | z80FlagN | z80FlagH
}

func (c *CPU_Z80) neg() {
	v := c.A
	c.A = 0
	c.sub8(v)
}

func (c *CPU_Z80) scf() {
	c.F = c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagX|z80FlagY) | z80FlagC
}

func (c *CPU_Z80) ccf() {
	f := c.F&(z80FlagPV|z80FlagZ|z80FlagS) | c.A&(z80FlagX|z80FlagY)
	if c.F&z80FlagC != 0 {
		f |= z80FlagH
	} else {
		f |= z80FlagC
	}
	c.F = f
}

// irFlags sets F after LD A,I and LD A,R.
func (c *CPU_Z80) irFlags() {
	c.F = c.F&z80FlagC | z80Flags.sz53[c.A]
	if c.IFF2 {
		c.F |= z80FlagPV
	}
}

// blockLoadFlags finishes LDI/LDD once BC has been decremented.
func (c *CPU_Z80) blockLoadFlags(value byte) {
	n := value + c.A
	c.F = c.F&(z80FlagC|z80FlagZ|z80FlagS) | n&z80FlagX | (n&0x02)<<4
	if c.BC() != 0 {
		c.F |= z80FlagPV
	}
}

// blockCompare performs the CPI/CPD comparison against value, decrements BC
// and reports whether a repeating form should continue.
func (c *CPU_Z80) blockCompare(value byte) bool {
	diff := c.A - value
	lookup := (c.A&0x08)>>3 | (value&0x08)>>2 | (diff&0x08)>>1
	c.SetBC(c.BC() - 1)
	f := c.F&z80FlagC | z80FlagN | z80HalfcarrySub[lookup] | diff&z80FlagS
	if c.BC() != 0 {
		f |= z80FlagPV
	}
	if diff == 0 {
		f |= z80FlagZ
	}
	n := diff
	if f&z80FlagH != 0 {
		n--
	}
	c.F = f | n&z80FlagX | (n&0x02)<<4
	return c.BC() != 0 && diff != 0
}

// blockIOFlags finishes INI/IND/OUTI/OUTD. k is the transferred byte plus
// the adjusted C (input) or the updated L (output); B is already decremented.
func (c *CPU_Z80) blockIOFlags(value byte, k uint16) {
	f := z80Flags.sz53[c.B] | z80Flags.parity[byte(k&7)^c.B]
	if value&0x80 != 0 {
		f |= z80FlagN
	}
	if k > 0xFF {
		f |= z80FlagH | z80FlagC
	}
	c.F = f
}
