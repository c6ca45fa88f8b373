package main

import "testing"

func TestZ80BlockTransfer(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "LDI last byte", prog: []byte{0xED, 0xA0}, cycles: 16,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.A = 0x10
				c.F = z80FlagC
				c.SetHL(0x3000)
				c.SetDE(0x4000)
				c.SetBC(1)
				b.mem[0x3000] = 0x22
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(DE)", b.mem[0x4000], 0x22)
				requireZ80EqualU16(t, "HL", c.HL(), 0x3001)
				requireZ80EqualU16(t, "DE", c.DE(), 0x4001)
				requireZ80EqualU16(t, "BC", c.BC(), 0)
				requireZ80EqualU8(t, "F", c.F, 0x21)
			},
		},
		{
			name: "LDIR two bytes", prog: []byte{0xED, 0xB0}, steps: 2, cycles: 37,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetHL(0x3000)
				c.SetDE(0x4000)
				c.SetBC(2)
				b.mem[0x3000] = 0xAA
				b.mem[0x3001] = 0xBB
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "first", b.mem[0x4000], 0xAA)
				requireZ80EqualU8(t, "second", b.mem[0x4001], 0xBB)
				requireZ80EqualU16(t, "PC", c.PC, 0x0002)
				if c.F&z80FlagPV != 0 {
					t.Fatalf("PV should be clear when LDIR finishes, F=0x%02X", c.F)
				}
			},
		},
		{
			name: "LDIR repeat rewinds PC", prog: []byte{0xED, 0xB0}, cycles: 21,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.SetHL(0x3000)
				c.SetDE(0x4000)
				c.SetBC(2)
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "PC", c.PC, 0x0000)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x0001)
				requireZ80EqualU16(t, "BC", c.BC(), 1)
			},
		},
		{
			name: "LDDR walks downwards", prog: []byte{0xED, 0xB8}, steps: 2, cycles: 37,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetHL(0x3001)
				c.SetDE(0x4001)
				c.SetBC(2)
				b.mem[0x3000] = 0x11
				b.mem[0x3001] = 0x22
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(4000)", b.mem[0x4000], 0x11)
				requireZ80EqualU8(t, "(4001)", b.mem[0x4001], 0x22)
				requireZ80EqualU16(t, "HL", c.HL(), 0x2FFF)
				requireZ80EqualU16(t, "DE", c.DE(), 0x3FFF)
			},
		},
	})
}

func TestZ80BlockCompare(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "CPI match on last byte", prog: []byte{0xED, 0xA1}, cycles: 16,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.A = 0x10
				c.SetHL(0x3000)
				c.SetBC(1)
				b.mem[0x3000] = 0x10
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "BC", c.BC(), 0)
				requireZ80EqualU16(t, "HL", c.HL(), 0x3001)
				requireZ80EqualU8(t, "F", c.F, 0x42)
			},
		},
		{
			name: "CPIR first miss repeats", prog: []byte{0xED, 0xB1}, cycles: 21,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.A = 0x22
				c.SetHL(0x3000)
				c.SetBC(3)
				b.mem[0x3000] = 0x11
				b.mem[0x3001] = 0x22
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "PC", c.PC, 0x0000)
				requireZ80EqualU8(t, "F", c.F, 0x06)
			},
		},
		{
			name: "CPIR stops on match", prog: []byte{0xED, 0xB1}, steps: 2, cycles: 37,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.A = 0x22
				c.SetHL(0x3000)
				c.SetBC(3)
				b.mem[0x3000] = 0x11
				b.mem[0x3001] = 0x22
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU16(t, "PC", c.PC, 0x0002)
				requireZ80EqualU16(t, "HL", c.HL(), 0x3002)
				requireZ80EqualU16(t, "BC", c.BC(), 1)
				requireZ80EqualU8(t, "F", c.F, 0x46)
			},
		},
	})
}

func TestZ80BlockIO(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "INI", prog: []byte{0xED, 0xA2}, cycles: 16,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetBC(0x0210)
				c.SetHL(0x3000)
				b.io[0x0210] = 0x7F
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(HL)", b.mem[0x3000], 0x7F)
				requireZ80EqualU8(t, "B", c.B, 0x01)
				requireZ80EqualU16(t, "HL", c.HL(), 0x3001)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x0211)
				requireZ80EqualU8(t, "F", c.F, 0x00)
			},
		},
		{
			name: "OUTI decrements B before the write", prog: []byte{0xED, 0xA3}, cycles: 16,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetBC(0x0120)
				c.SetHL(0x3000)
				b.mem[0x3000] = 0x80
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "port", b.io[0x0020], 0x80)
				requireZ80EqualU8(t, "F", c.F, 0x42)
				requireZ80EqualU16(t, "WZ", c.WZ, 0x0021)
			},
		},
		{
			name: "INIR fills a buffer", prog: []byte{0xED, 0xB2}, steps: 2, cycles: 37,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetBC(0x0210)
				c.SetHL(0x3000)
				b.io[0x0210] = 0xA1
				b.io[0x0110] = 0xB2
			},
			check: func(t *testing.T, c *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "first", b.mem[0x3000], 0xA1)
				requireZ80EqualU8(t, "second", b.mem[0x3001], 0xB2)
				requireZ80EqualU8(t, "B", c.B, 0)
				if c.F&z80FlagZ == 0 {
					t.Fatalf("Z should be set once B reaches zero, F=0x%02X", c.F)
				}
			},
		},
	})
}
