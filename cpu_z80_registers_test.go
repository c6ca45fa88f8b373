package main

import "testing"

func TestZ80RegisterPairRoundTrip(t *testing.T) {
	var r Z80Registers
	pairs := []struct {
		name string
		set  func(uint16)
		hi   func() byte
		lo   func() byte
	}{
		{"AF", r.SetAF, func() byte { return r.A }, func() byte { return r.F }},
		{"BC", r.SetBC, func() byte { return r.B }, func() byte { return r.C }},
		{"DE", r.SetDE, func() byte { return r.D }, func() byte { return r.E }},
		{"HL", r.SetHL, func() byte { return r.H }, func() byte { return r.L }},
		{"AF'", r.SetAF2, func() byte { return r.A2 }, func() byte { return r.F2 }},
		{"BC'", r.SetBC2, func() byte { return r.B2 }, func() byte { return r.C2 }},
		{"DE'", r.SetDE2, func() byte { return r.D2 }, func() byte { return r.E2 }},
		{"HL'", r.SetHL2, func() byte { return r.H2 }, func() byte { return r.L2 }},
		{"IX", func(v uint16) { r.IX = v }, r.IXH, r.IXL},
		{"IY", func(v uint16) { r.IY = v }, r.IYH, r.IYL},
	}
	for _, p := range pairs {
		for v := range 0x10000 {
			p.set(uint16(v))
			got := uint16(p.hi())<<8 | uint16(p.lo())
			if got != uint16(v) {
				t.Fatalf("%s: wrote 0x%04X, halves give 0x%04X", p.name, v, got)
			}
		}
	}
}

func TestZ80RegisterByteWritesKeepOtherHalf(t *testing.T) {
	var r Z80Registers
	r.SetBC(0x1234)
	r.C = 0xFF
	requireZ80EqualU16(t, "BC", r.BC(), 0x12FF)
	r.B = 0x00
	requireZ80EqualU16(t, "BC", r.BC(), 0x00FF)

	r.IX = 0xABCD
	r.SetIXH(0x11)
	requireZ80EqualU16(t, "IX", r.IX, 0x11CD)
	r.SetIXL(0x22)
	requireZ80EqualU16(t, "IX", r.IX, 0x1122)

	r.IY = 0xABCD
	r.SetIYL(0x00)
	requireZ80EqualU16(t, "IY", r.IY, 0xAB00)
	r.SetIYH(0xFF)
	requireZ80EqualU16(t, "IY", r.IY, 0xFF00)
}

func TestZ80ConditionPredicates(t *testing.T) {
	var r Z80Registers
	checks := []struct {
		flag     byte
		set, clr func() bool
	}{
		{z80FlagZ, r.Zero, r.NonZero},
		{z80FlagC, r.Carry, r.NoCarry},
		{z80FlagS, r.Sign, r.Positive},
		{z80FlagPV, r.ParityEven, r.ParityOdd},
	}
	for _, c := range checks {
		r.F = c.flag
		if !c.set() || c.clr() {
			t.Fatalf("flag 0x%02X set: predicates disagree", c.flag)
		}
		r.F = ^c.flag
		if c.set() || !c.clr() {
			t.Fatalf("flag 0x%02X clear: predicates disagree", c.flag)
		}
	}
}

func TestZ80RefreshRegisterHighBit(t *testing.T) {
	var r Z80Registers
	r.SetRegR(0xFF)
	requireZ80EqualU8(t, "R", r.R, 0x7F)
	requireZ80EqualU8(t, "R7", r.R7, 0x80)
	r.R = (r.R + 1) & 0x7F
	requireZ80EqualU8(t, "RegR", r.RegR(), 0x80)

	r.I = 0x1E
	requireZ80EqualU16(t, "IR", r.IR(), 0x1E80)
}

func TestZ80RegisterSnapshotIsIndependent(t *testing.T) {
	var r Z80Registers
	r.Reset()
	r.SetHL(0x4000)
	r.PC = 0x0207
	r.IFF1 = true

	snap := r.Snapshot()
	r.SetHL(0)
	r.PC = 0
	r.IFF1 = false

	requireZ80EqualU16(t, "snapshot HL", snap.HL(), 0x4000)
	r.Restore(snap)
	requireZ80EqualU16(t, "HL", r.HL(), 0x4000)
	requireZ80EqualU16(t, "PC", r.PC, 0x0207)
	if !r.IFF1 {
		t.Fatalf("IFF1 not restored")
	}
}

func TestZ80FlagHelpers(t *testing.T) {
	var r Z80Registers
	for _, f := range []byte{z80FlagS, z80FlagZ, z80FlagY, z80FlagH, z80FlagX, z80FlagPV, z80FlagN, z80FlagC} {
		r.SetFlag(f, true)
	}
	requireZ80EqualU8(t, "F", r.F, 0xFF)

	r.SetFlag(z80FlagZ, false)
	r.SetFlag(z80FlagN, false)
	if r.Flag(z80FlagZ) || r.Flag(z80FlagN) {
		t.Fatalf("Z or N flag should be cleared")
	}
	requireZ80EqualU8(t, "F", r.F, 0xBD)
}
