// cpu_z80_registers.go - Z80 register file for the ZX81 core

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

const (
	z80FlagS  = 0x80
	z80FlagZ  = 0x40
	z80FlagY  = 0x20
	z80FlagH  = 0x10
	z80FlagX  = 0x08
	z80FlagPV = 0x04
	z80FlagN  = 0x02
	z80FlagC  = 0x01
)

// Z80Registers is the architectural register set. Pairs are stored as
// their byte halves, so writing one half never disturbs the other.
// R holds the 7-bit refresh counter; R7 keeps bit 7 as last loaded by LD R,A.
type Z80Registers struct {
	A, F, B, C, D, E, H, L         byte
	A2, F2, B2, C2, D2, E2, H2, L2 byte

	IX uint16
	IY uint16
	SP uint16
	PC uint16
	WZ uint16

	I  byte
	R  byte
	R7 byte
	IM byte

	IFF1   bool
	IFF2   bool
	Halted bool
}

// Reset zeroes every register. SP comes up at 0xFFFF.
func (r *Z80Registers) Reset() {
	*r = Z80Registers{SP: 0xFFFF}
}

// Snapshot returns a copy of the register set.
func (r *Z80Registers) Snapshot() Z80Registers {
	return *r
}

// Restore installs a previously taken snapshot.
func (r *Z80Registers) Restore(s Z80Registers) {
	*r = s
	r.R &= 0x7F
	r.R7 &= 0x80
}

func (r *Z80Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *Z80Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Z80Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Z80Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Z80Registers) AF2() uint16 { return uint16(r.A2)<<8 | uint16(r.F2) }
func (r *Z80Registers) BC2() uint16 { return uint16(r.B2)<<8 | uint16(r.C2) }
func (r *Z80Registers) DE2() uint16 { return uint16(r.D2)<<8 | uint16(r.E2) }
func (r *Z80Registers) HL2() uint16 { return uint16(r.H2)<<8 | uint16(r.L2) }

func (r *Z80Registers) SetAF(v uint16) { r.A, r.F = byte(v>>8), byte(v) }
func (r *Z80Registers) SetBC(v uint16) { r.B, r.C = byte(v>>8), byte(v) }
func (r *Z80Registers) SetDE(v uint16) { r.D, r.E = byte(v>>8), byte(v) }
func (r *Z80Registers) SetHL(v uint16) { r.H, r.L = byte(v>>8), byte(v) }

func (r *Z80Registers) SetAF2(v uint16) { r.A2, r.F2 = byte(v>>8), byte(v) }
func (r *Z80Registers) SetBC2(v uint16) { r.B2, r.C2 = byte(v>>8), byte(v) }
func (r *Z80Registers) SetDE2(v uint16) { r.D2, r.E2 = byte(v>>8), byte(v) }
func (r *Z80Registers) SetHL2(v uint16) { r.H2, r.L2 = byte(v>>8), byte(v) }

func (r *Z80Registers) IXH() byte { return byte(r.IX >> 8) }
func (r *Z80Registers) IXL() byte { return byte(r.IX) }
func (r *Z80Registers) IYH() byte { return byte(r.IY >> 8) }
func (r *Z80Registers) IYL() byte { return byte(r.IY) }

func (r *Z80Registers) SetIXH(v byte) { r.IX = uint16(v)<<8 | r.IX&0x00FF }
func (r *Z80Registers) SetIXL(v byte) { r.IX = r.IX&0xFF00 | uint16(v) }
func (r *Z80Registers) SetIYH(v byte) { r.IY = uint16(v)<<8 | r.IY&0x00FF }
func (r *Z80Registers) SetIYL(v byte) { r.IY = r.IY&0xFF00 | uint16(v) }

// RegR returns the refresh register as software sees it through LD A,R.
func (r *Z80Registers) RegR() byte {
	return r.R7&0x80 | r.R&0x7F
}

// SetRegR loads R and its independently kept top bit.
func (r *Z80Registers) SetRegR(v byte) {
	r.R = v & 0x7F
	r.R7 = v & 0x80
}

// IR is the address driven onto the bus during a refresh cycle.
func (r *Z80Registers) IR() uint16 {
	return uint16(r.I)<<8 | uint16(r.RegR())
}

func (r *Z80Registers) Flag(mask byte) bool {
	return r.F&mask != 0
}

func (r *Z80Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

// Condition predicates read F live.
func (r *Z80Registers) Zero() bool       { return r.F&z80FlagZ != 0 }
func (r *Z80Registers) NonZero() bool    { return r.F&z80FlagZ == 0 }
func (r *Z80Registers) Carry() bool      { return r.F&z80FlagC != 0 }
func (r *Z80Registers) NoCarry() bool    { return r.F&z80FlagC == 0 }
func (r *Z80Registers) Sign() bool       { return r.F&z80FlagS != 0 }
func (r *Z80Registers) Positive() bool   { return r.F&z80FlagS == 0 }
func (r *Z80Registers) ParityEven() bool { return r.F&z80FlagPV != 0 }
func (r *Z80Registers) ParityOdd() bool  { return r.F&z80FlagPV == 0 }

// condition evaluates the cc field of JP/JR/CALL/RET (NZ Z NC C PO PE P M).
func (r *Z80Registers) condition(cc byte) bool {
	switch cc & 7 {
	case 0:
		return r.NonZero()
	case 1:
		return r.Zero()
	case 2:
		return r.NoCarry()
	case 3:
		return r.Carry()
	case 4:
		return r.ParityOdd()
	case 5:
		return r.ParityEven()
	case 6:
		return r.Positive()
	default:
		return r.Sign()
	}
}

func (r *Z80Registers) ExAF() {
	r.A, r.A2 = r.A2, r.A
	r.F, r.F2 = r.F2, r.F
}

func (r *Z80Registers) Exx() {
	r.B, r.B2 = r.B2, r.B
	r.C, r.C2 = r.C2, r.C
	r.D, r.D2 = r.D2, r.D
	r.E, r.E2 = r.E2, r.E
	r.H, r.H2 = r.H2, r.H
	r.L, r.L2 = r.L2, r.L
}
