// debug_disasm_z80.go - Z80 disassembler for fault reports and tracing

package main

import (
	"fmt"
	"strings"
)

// Z80DisasmError reports an instruction that runs past the supplied bytes.
type Z80DisasmError struct {
	Addr uint16
	Need int
	Have int
}

func (e *Z80DisasmError) Error() string {
	return fmt.Sprintf("z80 disasm: instruction at %04X needs %d bytes, have %d", e.Addr, e.Need, e.Have)
}

// Z80DisasmLine is one decoded instruction.
type Z80DisasmLine struct {
	Addr     uint16
	Bytes    []byte
	Mnemonic string
}

func (l Z80DisasmLine) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-12s %s", l.Addr, strings.Join(hex, " "), l.Mnemonic)
}

var (
	z80DisR     = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	z80DisRP    = [4]string{"BC", "DE", "HL", "SP"}
	z80DisRP2   = [4]string{"BC", "DE", "HL", "AF"}
	z80DisCC    = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	z80DisALU   = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	z80DisRot   = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
	z80DisAccOp = [8]string{"RLCA", "RRCA", "RLA", "RRA", "DAA", "CPL", "SCF", "CCF"}
	z80DisIM    = [8]string{"0", "0", "1", "2", "0", "0", "1", "2"}
	z80DisBlock = [4][4]string{
		{"LDI", "CPI", "INI", "OUTI"},
		{"LDD", "CPD", "IND", "OUTD"},
		{"LDIR", "CPIR", "INIR", "OTIR"},
		{"LDDR", "CPDR", "INDR", "OTDR"},
	}
)

// z80Disasm walks one instruction. idx is "" outside DD/FD prefixes.
type z80Disasm struct {
	code []byte
	pos  int
	addr uint16
	idx  string
	err  error
}

func (d *z80Disasm) next() byte {
	if d.pos >= len(d.code) {
		if d.err == nil {
			d.err = &Z80DisasmError{Addr: d.addr, Need: d.pos + 1, Have: len(d.code)}
		}
		d.pos++
		return 0
	}
	b := d.code[d.pos]
	d.pos++
	return b
}

func (d *z80Disasm) word() uint16 {
	lo := d.next()
	return uint16(d.next())<<8 | uint16(lo)
}

func (d *z80Disasm) rel() string {
	e := int8(d.next())
	return fmt.Sprintf("$%04X", d.addr+uint16(d.pos)+uint16(e))
}

// reg names register r, substituting IXH/IXL or (IX+d) under a prefix.
// A displacement byte is consumed for (HL) forms.
func (d *z80Disasm) reg(r byte) string {
	if d.idx == "" {
		return z80DisR[r]
	}
	switch r {
	case 4:
		return d.idx + "H"
	case 5:
		return d.idx + "L"
	case 6:
		return d.indexed(int8(d.next()))
	}
	return z80DisR[r]
}

func (d *z80Disasm) indexed(disp int8) string {
	return fmt.Sprintf("(%s%+d)", d.idx, disp)
}

func (d *z80Disasm) pair(p byte) string {
	if p == 2 && d.idx != "" {
		return d.idx
	}
	return z80DisRP[p]
}

func (d *z80Disasm) pair2(p byte) string {
	if p == 2 && d.idx != "" {
		return d.idx
	}
	return z80DisRP2[p]
}

// DisassembleZ80 decodes the instruction at the start of code, which was
// read from origin.
func DisassembleZ80(code []byte, origin uint16) (Z80DisasmLine, error) {
	d := &z80Disasm{code: code, addr: origin}
	mnemonic := d.decode()
	n := min(d.pos, len(code))
	line := Z80DisasmLine{Addr: origin, Bytes: append([]byte(nil), code[:n]...), Mnemonic: mnemonic}
	return line, d.err
}

// disassembleZ80Window decodes count instructions starting at addr using
// read to fetch bytes. Reads wrap at 64K.
func disassembleZ80Window(read func(addr uint16) byte, addr uint16, count int) []Z80DisasmLine {
	lines := make([]Z80DisasmLine, 0, count)
	var buf [4]byte
	for range count {
		for i := range buf {
			buf[i] = read(addr + uint16(i))
		}
		line, _ := DisassembleZ80(buf[:], addr)
		lines = append(lines, line)
		addr += uint16(len(line.Bytes))
	}
	return lines
}

func (d *z80Disasm) decode() string {
	op := d.next()
	for op == 0xDD || op == 0xFD {
		if d.idx != "" {
			// A second prefix cancels the first; report the first alone.
			d.pos--
			return "NOP*"
		}
		d.idx = "IX"
		if op == 0xFD {
			d.idx = "IY"
		}
		op = d.next()
	}
	switch op {
	case 0xCB:
		if d.idx != "" {
			return d.indexCB()
		}
		return d.cb(d.next(), z80DisR[:])
	case 0xED:
		d.idx = ""
		return d.ed(d.next())
	}
	return d.base(op)
}

func (d *z80Disasm) base(op byte) string {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch x {
	case 1:
		if op == 0x76 {
			return "HALT"
		}
		// (IX+d) forms keep H and L as plain registers on the other side.
		if d.idx != "" && (y == 6 || z == 6) {
			if y == 6 {
				return fmt.Sprintf("LD %s, %s", d.reg(6), z80DisR[z])
			}
			return fmt.Sprintf("LD %s, %s", z80DisR[y], d.reg(6))
		}
		dst := d.reg(y)
		return fmt.Sprintf("LD %s, %s", dst, d.reg(z))
	case 2:
		return z80DisALU[y] + d.reg(z)
	}

	if x == 0 {
		switch z {
		case 0:
			switch y {
			case 0:
				return "NOP"
			case 1:
				return "EX AF, AF'"
			case 2:
				return "DJNZ " + d.rel()
			case 3:
				return "JR " + d.rel()
			default:
				return fmt.Sprintf("JR %s, %s", z80DisCC[y-4], d.rel())
			}
		case 1:
			if q == 0 {
				return fmt.Sprintf("LD %s, $%04X", d.pair(p), d.word())
			}
			return fmt.Sprintf("ADD %s, %s", d.pair(2), d.pair(p))
		case 2:
			switch y {
			case 0:
				return "LD (BC), A"
			case 1:
				return "LD A, (BC)"
			case 2:
				return "LD (DE), A"
			case 3:
				return "LD A, (DE)"
			case 4:
				return fmt.Sprintf("LD ($%04X), %s", d.word(), d.pair(2))
			case 5:
				return fmt.Sprintf("LD %s, ($%04X)", d.pair(2), d.word())
			case 6:
				return fmt.Sprintf("LD ($%04X), A", d.word())
			default:
				return fmt.Sprintf("LD A, ($%04X)", d.word())
			}
		case 3:
			if q == 0 {
				return "INC " + d.pair(p)
			}
			return "DEC " + d.pair(p)
		case 4:
			return "INC " + d.reg(y)
		case 5:
			return "DEC " + d.reg(y)
		case 6:
			dst := d.reg(y)
			return fmt.Sprintf("LD %s, $%02X", dst, d.next())
		default:
			return z80DisAccOp[y]
		}
	}

	// x == 3
	switch z {
	case 0:
		return "RET " + z80DisCC[y]
	case 1:
		if q == 0 {
			return "POP " + d.pair2(p)
		}
		switch p {
		case 0:
			return "RET"
		case 1:
			return "EXX"
		case 2:
			return fmt.Sprintf("JP (%s)", d.pair(2))
		default:
			return "LD SP, " + d.pair(2)
		}
	case 2:
		return fmt.Sprintf("JP %s, $%04X", z80DisCC[y], d.word())
	case 3:
		switch y {
		case 0:
			return fmt.Sprintf("JP $%04X", d.word())
		case 2:
			return fmt.Sprintf("OUT ($%02X), A", d.next())
		case 3:
			return fmt.Sprintf("IN A, ($%02X)", d.next())
		case 4:
			return fmt.Sprintf("EX (SP), %s", d.pair(2))
		case 5:
			return "EX DE, HL"
		case 6:
			return "DI"
		case 7:
			return "EI"
		}
	case 4:
		return fmt.Sprintf("CALL %s, $%04X", z80DisCC[y], d.word())
	case 5:
		if q == 0 {
			return "PUSH " + d.pair2(p)
		}
		return fmt.Sprintf("CALL $%04X", d.word())
	case 6:
		return fmt.Sprintf("%s$%02X", z80DisALU[y], d.next())
	case 7:
		return fmt.Sprintf("RST $%02X", y*8)
	}
	return fmt.Sprintf("DB $%02X", op)
}

func (d *z80Disasm) cb(op byte, regs []string) string {
	x, y, z := op>>6, (op>>3)&7, op&7
	switch x {
	case 0:
		return fmt.Sprintf("%s %s", z80DisRot[y], regs[z])
	case 1:
		return fmt.Sprintf("BIT %d, %s", y, regs[z])
	case 2:
		return fmt.Sprintf("RES %d, %s", y, regs[z])
	}
	return fmt.Sprintf("SET %d, %s", y, regs[z])
}

// indexCB decodes DD CB d op. Register forms also store the result in r.
func (d *z80Disasm) indexCB() string {
	mem := d.indexed(int8(d.next()))
	op := d.next()
	s := d.cb(op&^7|6, []string{6: mem})
	if z := op & 7; z != 6 && op>>6 != 1 {
		s += ", " + z80DisR[z]
	}
	return s
}

func (d *z80Disasm) ed(op byte) string {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	if x == 2 && z <= 3 && y >= 4 {
		return z80DisBlock[y-4][z]
	}
	if x != 1 {
		return fmt.Sprintf("NOP* (ED %02X)", op)
	}

	switch z {
	case 0:
		if y == 6 {
			return "IN (C)"
		}
		return fmt.Sprintf("IN %s, (C)", z80DisR[y])
	case 1:
		if y == 6 {
			return "OUT (C), 0"
		}
		return fmt.Sprintf("OUT (C), %s", z80DisR[y])
	case 2:
		if q == 0 {
			return "SBC HL, " + z80DisRP[p]
		}
		return "ADC HL, " + z80DisRP[p]
	case 3:
		if q == 0 {
			return fmt.Sprintf("LD ($%04X), %s", d.word(), z80DisRP[p])
		}
		return fmt.Sprintf("LD %s, ($%04X)", z80DisRP[p], d.word())
	case 4:
		return "NEG"
	case 5:
		if y == 1 {
			return "RETI"
		}
		return "RETN"
	case 6:
		return "IM " + z80DisIM[y]
	}
	return [8]string{"LD I, A", "LD R, A", "LD A, I", "LD A, R", "RRD", "RLD", "NOP* (ED 77)", "NOP* (ED 7F)"}[y]
}
