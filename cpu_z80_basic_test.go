package main

import "testing"

func TestZ80ResetState(t *testing.T) {
	rig := newCPUZ80TestRig()
	c := rig.cpu
	c.PC = 0x1234
	c.IFF1, c.IFF2 = true, true
	c.IM = 2
	c.Halted = true
	c.Cycles = 99

	c.Reset()

	requireZ80EqualU16(t, "PC", c.PC, 0x0000)
	requireZ80EqualU16(t, "SP", c.SP, 0xFFFF)
	if c.IFF1 || c.IFF2 || c.Halted || c.IM != 0 || c.Cycles != 0 {
		t.Fatalf("reset left state behind: IFF1=%v IFF2=%v halted=%v IM=%d cycles=%d",
			c.IFF1, c.IFF2, c.Halted, c.IM, c.Cycles)
	}
}

func TestZ80Loads(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "LD r,n and LD r,r", prog: []byte{0x06, 0x42, 0x48, 0x51, 0x7A}, steps: 4, cycles: 19,
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "B", c.B, 0x42)
				requireZ80EqualU8(t, "C", c.C, 0x42)
				requireZ80EqualU8(t, "D", c.D, 0x42)
				requireZ80EqualU8(t, "A", c.A, 0x42)
			},
		},
		{
			name: "LD (HL),n", prog: []byte{0x36, 0x99}, cycles: 10,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.SetHL(0x4000) },
			check: func(t *testing.T, _ *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(HL)", b.mem[0x4000], 0x99)
			},
		},
		{
			name: "LD rr,nn", prog: []byte{0x01, 0x34, 0x12, 0x31, 0x00, 0x80}, steps: 2, cycles: 20,
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "BC", c.BC(), 0x1234)
				requireZ80EqualU16(t, "SP", c.SP, 0x8000)
			},
		},
		{
			name: "LD (BC),A sets WZ from A", prog: []byte{0x02}, cycles: 7,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.A = 0x12
				c.SetBC(0x20FF)
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(BC)", b.mem[0x20FF], 0x12)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x1200)
			},
		},
		{
			name: "LD A,(DE)", prog: []byte{0x1A}, cycles: 7,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetDE(0x3000)
				b.mem[0x3000] = 0x5A
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "A", c.A, 0x5A)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x3001)
			},
		},
		{
			name: "LD HL,(nn)", prog: []byte{0x2A, 0x00, 0x30}, cycles: 16,
			setup: func(_ *CPU_Z80, b *z80TestBus) {
				b.mem[0x3000] = 0x34
				b.mem[0x3001] = 0x12
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "HL", c.HL(), 0x1234)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x3001)
			},
		},
		{
			name: "LD (nn),HL", prog: []byte{0x22, 0x00, 0x30}, cycles: 16,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.SetHL(0xBEEF) },
			check: func(t *testing.T, _ *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "lo", b.mem[0x3000], 0xEF)
				requireZ80EqualU8(t, "hi", b.mem[0x3001], 0xBE)
			},
		},
		{
			name: "LD A,(nn) and LD (nn),A", prog: []byte{0x3A, 0x00, 0x30, 0x32, 0x01, 0x30}, steps: 2, cycles: 26,
			setup: func(_ *CPU_Z80, b *z80TestBus) { b.mem[0x3000] = 0x77 },
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "copy", b.mem[0x3001], 0x77)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x7702)
			},
		},
		{
			name: "LD SP,HL", prog: []byte{0xF9}, cycles: 6,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.SetHL(0x7FFC) },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "SP", c.SP, 0x7FFC)
			},
		},
	})
}

func TestZ80StackAndExchange(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "PUSH BC POP DE", prog: []byte{0xC5, 0xD1}, steps: 2, cycles: 21,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SP = 0x8000
				c.SetBC(0xCAFE)
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU16(t, "DE", c.DE(), 0xCAFE)
				requireZ80EqualU16(t, "SP", c.SP, 0x8000)
				requireZ80EqualU8(t, "high byte", b.mem[0x7FFF], 0xCA)
				requireZ80EqualU8(t, "low byte", b.mem[0x7FFE], 0xFE)
			},
		},
		{
			name: "PUSH AF POP AF", prog: []byte{0xF5, 0xAF, 0xF1}, steps: 3,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SP = 0x8000
				c.SetAF(0x12D7)
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "AF", c.AF(), 0x12D7)
			},
		},
		{
			name: "EX AF,AF'", prog: []byte{0x08}, cycles: 4,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SetAF(0x1122)
				c.SetAF2(0x3344)
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "AF", c.AF(), 0x3344)
				requireZ80EqualU16(t, "AF'", c.AF2(), 0x1122)
			},
		},
		{
			name: "EXX", prog: []byte{0xD9}, cycles: 4,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SetBC(0x0001)
				c.SetDE(0x0002)
				c.SetHL(0x0003)
				c.SetBC2(0x1001)
				c.SetDE2(0x1002)
				c.SetHL2(0x1003)
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "BC", c.BC(), 0x1001)
				requireZ80EqualU16(t, "DE", c.DE(), 0x1002)
				requireZ80EqualU16(t, "HL", c.HL(), 0x1003)
				requireZ80EqualU16(t, "HL'", c.HL2(), 0x0003)
			},
		},
		{
			name: "EX DE,HL", prog: []byte{0xEB}, cycles: 4,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SetDE(0xAAAA)
				c.SetHL(0x5555)
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "DE", c.DE(), 0x5555)
				requireZ80EqualU16(t, "HL", c.HL(), 0xAAAA)
			},
		},
		{
			name: "EX (SP),HL", prog: []byte{0xE3}, cycles: 19,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SP = 0x8000
				c.SetHL(0x1234)
				b.mem[0x8000] = 0xAA
				b.mem[0x8001] = 0xBB
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU16(t, "HL", c.HL(), 0xBBAA)
				requireZ80EqualU16(t, "WZ", c.WZ, 0xBBAA)
				requireZ80EqualU8(t, "(SP)", b.mem[0x8000], 0x34)
				requireZ80EqualU8(t, "(SP+1)", b.mem[0x8001], 0x12)
			},
		},
	})
}

func TestZ80PortAccess(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "IN A,(n) puts A on the high address lines", prog: []byte{0xDB, 0x34}, cycles: 11,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.A = 0x12
				b.io[0x1234] = 0x9C
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "A", c.A, 0x9C)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x1235)
			},
		},
		{
			name: "OUT (n),A", prog: []byte{0xD3, 0x78}, cycles: 11,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.A = 0x56 },
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "port", b.io[0x5678], 0x56)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x5679)
			},
		},
		{
			name: "IN r,(C) flags", prog: []byte{0xED, 0x40}, cycles: 12,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetBC(0x00FE)
				c.F = z80FlagC
				b.io[0x00FE] = 0x00
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "B", c.B, 0x00)
				requireZ80EqualU8(t, "F", c.F, 0x45)
			},
		},
		{
			name: "OUT (C),0", prog: []byte{0xED, 0x71}, cycles: 12,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetBC(0x00FD)
				b.io[0x00FD] = 0xAA
			},
			check: func(t *testing.T, _ *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "port", b.io[0x00FD], 0x00)
			},
		},
	})
}
