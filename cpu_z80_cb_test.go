package main

import "testing"

func TestZ80CBGroup(t *testing.T) {
	runZ80Cases(t, []z80Case{
		{
			name: "RLC B", prog: []byte{0xCB, 0x00}, cycles: 8,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.B = 0x80 },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "B", c.B, 0x01)
				requireZ80EqualU8(t, "F", c.F, 0x01)
			},
		},
		{
			name: "RR C through carry", prog: []byte{0xCB, 0x19},
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.C = 0x02
				c.F = z80FlagC
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "C", c.C, 0x81)
				requireZ80EqualU8(t, "F", c.F, 0x84)
			},
		},
		{
			name: "SRA keeps the sign", prog: []byte{0xCB, 0x2F},
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.A = 0x81 },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "A", c.A, 0xC0)
				requireZ80EqualU8(t, "F", c.F, 0x85)
			},
		},
		{
			name: "SLL shifts in a one", prog: []byte{0xCB, 0x37},
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.A = 0x00 },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "A", c.A, 0x01)
				requireZ80EqualU8(t, "F", c.F, 0x00)
			},
		},
		{
			name: "SRL", prog: []byte{0xCB, 0x3A},
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.D = 0x01 },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "D", c.D, 0x00)
				requireZ80EqualU8(t, "F", c.F, 0x45)
			},
		},
		{
			name: "BIT 0,B on zero", prog: []byte{0xCB, 0x40}, cycles: 8,
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.B = 0x00
				c.F = z80FlagC
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "F", c.F, 0x55)
			},
		},
		{
			name: "BIT 7,A sets S", prog: []byte{0xCB, 0x7F},
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.A = 0x80 },
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "F", c.F, 0x90)
			},
		},
		{
			name: "BIT n,(HL) takes 5/3 from WZ", prog: []byte{0xCB, 0x46}, cycles: 12,
			setup: func(c *CPU_Z80, b *z80TestBus) {
				c.SetHL(0x3000)
				c.WZ = 0x2800
				b.mem[0x3000] = 0x01
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "F", c.F, z80FlagH|z80FlagY|z80FlagX)
			},
		},
		{
			name: "SET 3,(HL)", prog: []byte{0xCB, 0xDE}, cycles: 15,
			setup: func(c *CPU_Z80, _ *z80TestBus) { c.SetHL(0x3000) },
			check: func(t *testing.T, _ *CPU_Z80, b *z80TestBus) {
				requireZ80EqualU8(t, "(HL)", b.mem[0x3000], 0x08)
			},
		},
		{
			name: "RES 7,H", prog: []byte{0xCB, 0xBC},
			setup: func(c *CPU_Z80, _ *z80TestBus) {
				c.H = 0xFF
				c.F = 0xA5
			},
			check: func(t *testing.T, c *CPU_Z80, _ *z80TestBus) {
				requireZ80EqualU8(t, "H", c.H, 0x7F)
				requireZ80EqualU8(t, "F", c.F, 0xA5)
			},
		},
	})
}
