// cpu_z80.go - Z80 processor core for the ZX81 machine

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
cpu_z80.go - Z80 Fetch/Decode/Execute Engine

The core executes one instruction per Step. Every bus access charges its own
T-states before it reaches the bus (opcode fetch 4, memory 3, port 4), and
instructions add their internal cycles explicitly, so the bus sees time pass
in the same order the real chip drives it. Each opcode fetch is followed by a
refresh cycle that puts I:R on the bus; the ZX81 glue watches that address to
build the picture and to raise INT.

Dispatch goes through one dense table keyed by table<<8|opcode covering the
unprefixed set, CB, DD, ED, FD and the DD CB / FD CB forms. A nil entry is an
unknown instruction: Step returns a *Z80DecodeError and the core refuses to
run until Reset.
*/

package main

import "fmt"

// Z80Bus is everything the core needs from the outside world.
type Z80Bus interface {
	Fetch(addr uint16) byte // M1 opcode read
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port uint16) byte
	Out(port uint16, value byte)
	Refresh(addr uint16) // I:R on the address bus after each M1
	Tick(cycles int)
}

type CPU_Z80 struct {
	Z80Registers

	Cycles uint64

	irqLine    bool
	irqVector  byte
	nmiLine    bool
	nmiPrev    bool
	nmiPending bool
	eiBlock    bool
	irqAck     bool

	// index is IX or IY while a DD/FD prefixed instruction runs, nil otherwise.
	index *uint16

	opPC  uint16
	fault error

	bus Z80Bus
}

// Z80DecodeError reports an opcode with no dispatch entry.
type Z80DecodeError struct {
	PC     uint16
	Prefix uint16
	Opcode byte
}

func (e *Z80DecodeError) Error() string {
	if e.Prefix == 0 {
		return fmt.Sprintf("z80: unknown opcode %02X at %04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("z80: unknown opcode %X %02X at %04X", e.Prefix, e.Opcode, e.PC)
}

func NewCPU_Z80(bus Z80Bus) *CPU_Z80 {
	cpu := &CPU_Z80{bus: bus}
	cpu.Reset()
	return cpu
}

func (c *CPU_Z80) Reset() {
	c.Z80Registers.Reset()
	c.Cycles = 0
	c.irqLine = false
	c.irqVector = 0xFF
	c.nmiLine = false
	c.nmiPrev = false
	c.nmiPending = false
	c.eiBlock = false
	c.irqAck = false
	c.index = nil
	c.fault = nil
}

// Fault returns the decode error that stopped the core, if any.
func (c *CPU_Z80) Fault() error {
	return c.fault
}

// SetIRQLine drives the level-sensitive INT input.
func (c *CPU_Z80) SetIRQLine(assert bool) {
	c.irqLine = assert
}

// SetNMILine drives the edge-triggered NMI input.
func (c *CPU_Z80) SetNMILine(assert bool) {
	c.nmiLine = assert
}

// TriggerNMI latches an NMI for the next instruction boundary.
func (c *CPU_Z80) TriggerNMI() {
	c.nmiPending = true
}

// TakeIRQAck reports whether a maskable interrupt has been accepted since
// the last call.
func (c *CPU_Z80) TakeIRQAck() bool {
	ack := c.irqAck
	c.irqAck = false
	return ack
}

// Latches reports the interrupt state held between instructions: a
// pending NMI and the one-instruction shadow after EI.
func (c *CPU_Z80) Latches() (nmiPending, eiShadow bool) {
	return c.nmiPending, c.eiBlock
}

// SetLatches restores what Latches reported.
func (c *CPU_Z80) SetLatches(nmiPending, eiShadow bool) {
	c.nmiPending = nmiPending
	c.eiBlock = eiShadow
}

// SetIRQVector sets the byte supplied by the interrupting device in IM 0/2.
func (c *CPU_Z80) SetIRQVector(vector byte) {
	c.irqVector = vector
}

// Step runs one instruction, or accepts one pending interrupt.
func (c *CPU_Z80) Step() error {
	if c.fault != nil {
		return c.fault
	}

	if c.nmiLine && !c.nmiPrev {
		c.nmiPending = true
	}
	c.nmiPrev = c.nmiLine

	// No maskable interrupt is taken straight after EI.
	blocked := c.eiBlock
	c.eiBlock = false

	if c.nmiPending {
		c.nmiPending = false
		c.acceptNMI()
		return nil
	}
	if c.irqLine && c.IFF1 && !blocked {
		c.acceptIRQ()
		return nil
	}
	if c.Halted {
		c.refresh()
		c.tick(4)
		return nil
	}

	c.index = nil
	c.opPC = c.PC
	c.dispatch(z80TableBase, c.fetchOpcode())
	c.index = nil
	return c.fault
}

func (c *CPU_Z80) dispatch(table int, opcode byte) {
	op := z80Ops[table<<8|int(opcode)]
	if op == nil {
		c.fault = &Z80DecodeError{PC: c.opPC, Prefix: z80TablePrefix[table], Opcode: opcode}
		return
	}
	op(c)
}

// leaveHalt moves PC past the HALT opcode when an interrupt wakes the core.
func (c *CPU_Z80) leaveHalt() {
	if c.Halted {
		c.Halted = false
		c.PC++
	}
}

func (c *CPU_Z80) acceptNMI() {
	c.leaveHalt()
	c.refresh()
	c.IFF1 = false
	c.tick(5)
	c.push(c.PC)
	c.PC = 0x0066
	c.WZ = c.PC
}

func (c *CPU_Z80) acceptIRQ() {
	c.leaveHalt()
	c.refresh()
	c.IFF1 = false
	c.IFF2 = false
	c.irqAck = true
	c.tick(7)
	c.push(c.PC)
	switch c.IM {
	case 2:
		c.PC = c.readWord(uint16(c.I)<<8 | uint16(c.irqVector))
	case 0:
		c.PC = c.im0Vector()
	default:
		c.PC = 0x0038
	}
	c.WZ = c.PC
}

// im0Vector executes the RST the device put on the bus; anything else
// behaves like RST 38h, which is what an undriven bus (0xFF) gives.
func (c *CPU_Z80) im0Vector() uint16 {
	if c.irqVector&0xC7 == 0xC7 {
		return uint16(c.irqVector & 0x38)
	}
	return 0x0038
}

func (c *CPU_Z80) tick(cycles int) {
	c.Cycles += uint64(cycles)
	c.bus.Tick(cycles)
}

func (c *CPU_Z80) refresh() {
	c.R = (c.R + 1) & 0x7F
	c.bus.Refresh(c.IR())
}

func (c *CPU_Z80) fetchOpcode() byte {
	op := c.bus.Fetch(c.PC)
	c.PC++
	c.tick(4)
	c.refresh()
	return op
}

func (c *CPU_Z80) read(addr uint16) byte {
	c.tick(3)
	return c.bus.Read(addr)
}

func (c *CPU_Z80) write(addr uint16, value byte) {
	c.tick(3)
	c.bus.Write(addr, value)
}

func (c *CPU_Z80) in(port uint16) byte {
	c.tick(4)
	return c.bus.In(port)
}

func (c *CPU_Z80) out(port uint16, value byte) {
	c.tick(4)
	c.bus.Out(port, value)
}

func (c *CPU_Z80) fetchByte() byte {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU_Z80) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU_Z80) readWord(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU_Z80) writeWord(addr uint16, value uint16) {
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
}

func (c *CPU_Z80) push(value uint16) {
	c.SP--
	c.write(c.SP, byte(value>>8))
	c.SP--
	c.write(c.SP, byte(value))
}

func (c *CPU_Z80) pop() uint16 {
	lo := c.read(c.SP)
	c.SP++
	hi := c.read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Register operand codes follow the opcode encoding: B C D E H L (HL) A.
// Under a DD/FD prefix codes 4 and 5 name the index register halves.

func (c *CPU_Z80) getReg8(code byte) byte {
	if c.index != nil && (code == 4 || code == 5) {
		if code == 4 {
			return byte(*c.index >> 8)
		}
		return byte(*c.index)
	}
	return c.getReg8Plain(code)
}

func (c *CPU_Z80) setReg8(code byte, value byte) {
	if c.index != nil && (code == 4 || code == 5) {
		if code == 4 {
			*c.index = uint16(value)<<8 | *c.index&0x00FF
		} else {
			*c.index = *c.index&0xFF00 | uint16(value)
		}
		return
	}
	c.setReg8Plain(code, value)
}

func (c *CPU_Z80) getReg8Plain(code byte) byte {
	switch code & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 7:
		return c.A
	}
	return 0
}

func (c *CPU_Z80) setReg8Plain(code byte, value byte) {
	switch code & 7 {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 7:
		c.A = value
	}
}

// hlx is HL, or the active index register under a prefix.
func (c *CPU_Z80) hlx() uint16 {
	if c.index != nil {
		return *c.index
	}
	return c.HL()
}

func (c *CPU_Z80) setHLX(value uint16) {
	if c.index != nil {
		*c.index = value
		return
	}
	c.SetHL(value)
}

// getRP reads BC, DE, HL (or IX/IY) or SP by the p field.
func (c *CPU_Z80) getRP(p byte) uint16 {
	switch p & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hlx()
	default:
		return c.SP
	}
}

func (c *CPU_Z80) setRP(p byte, value uint16) {
	switch p & 3 {
	case 0:
		c.SetBC(value)
	case 1:
		c.SetDE(value)
	case 2:
		c.setHLX(value)
	default:
		c.SP = value
	}
}

// getRP2 is getRP with AF in place of SP, as PUSH and POP encode it.
func (c *CPU_Z80) getRP2(p byte) uint16 {
	if p&3 == 3 {
		return c.AF()
	}
	return c.getRP(p)
}

func (c *CPU_Z80) setRP2(p byte, value uint16) {
	if p&3 == 3 {
		c.SetAF(value)
		return
	}
	c.setRP(p, value)
}

// operandAddr resolves the (HL) operand, or (IX+d)/(IY+d) under a prefix.
// internal is the number of extra cycles the indexed form spends after the
// displacement read.
func (c *CPU_Z80) operandAddr(internal int) uint16 {
	if c.index == nil {
		return c.HL()
	}
	d := int8(c.fetchByte())
	c.tick(internal)
	addr := *c.index + uint16(int16(d))
	c.WZ = addr
	return addr
}
