package main

import "testing"

type z80TestBus struct {
	mem   [0x10000]byte
	io    [0x10000]byte
	ticks uint64

	fetches     int
	refreshes   int
	lastRefresh uint16
}

func (b *z80TestBus) Fetch(addr uint16) byte {
	b.fetches++
	return b.mem[addr]
}

func (b *z80TestBus) Read(addr uint16) byte {
	return b.mem[addr]
}

func (b *z80TestBus) Write(addr uint16, value byte) {
	b.mem[addr] = value
}

func (b *z80TestBus) In(port uint16) byte {
	return b.io[port]
}

func (b *z80TestBus) Out(port uint16, value byte) {
	b.io[port] = value
}

func (b *z80TestBus) Refresh(addr uint16) {
	b.refreshes++
	b.lastRefresh = addr
}

func (b *z80TestBus) Tick(cycles int) {
	b.ticks += uint64(cycles)
}

type cpuZ80TestRig struct {
	bus *z80TestBus
	cpu *CPU_Z80
}

func newCPUZ80TestRig() *cpuZ80TestRig {
	bus := &z80TestBus{}
	cpu := NewCPU_Z80(bus)
	return &cpuZ80TestRig{
		bus: bus,
		cpu: cpu,
	}
}

func (r *cpuZ80TestRig) resetAndLoad(start uint16, program []byte) {
	r.bus = &z80TestBus{}
	r.cpu = NewCPU_Z80(r.bus)
	for i, value := range program {
		r.bus.mem[start+uint16(i)] = value
	}
	r.cpu.PC = start
}

func (r *cpuZ80TestRig) step(t *testing.T) {
	t.Helper()
	if err := r.cpu.Step(); err != nil {
		t.Fatalf("Step at PC=0x%04X: %v", r.cpu.PC, err)
	}
}

func (r *cpuZ80TestRig) stepN(t *testing.T, n int) {
	t.Helper()
	for range n {
		r.step(t)
	}
}

// z80Case runs a short program from 0x0000 and checks the result.
type z80Case struct {
	name   string
	prog   []byte
	setup  func(c *CPU_Z80, b *z80TestBus)
	steps  int
	cycles uint64
	check  func(t *testing.T, c *CPU_Z80, b *z80TestBus)
}

func runZ80Cases(t *testing.T, cases []z80Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rig := newCPUZ80TestRig()
			rig.resetAndLoad(0x0000, tc.prog)
			if tc.setup != nil {
				tc.setup(rig.cpu, rig.bus)
			}
			steps := tc.steps
			if steps == 0 {
				steps = 1
			}
			rig.stepN(t, steps)
			if tc.cycles != 0 && rig.cpu.Cycles != tc.cycles {
				t.Fatalf("Cycles = %d, want %d", rig.cpu.Cycles, tc.cycles)
			}
			if rig.bus.ticks != rig.cpu.Cycles {
				t.Fatalf("bus ticks = %d, cpu cycles = %d", rig.bus.ticks, rig.cpu.Cycles)
			}
			if tc.check != nil {
				tc.check(t, rig.cpu, rig.bus)
			}
		})
	}
}

func requireZ80EqualU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%04X, want 0x%04X", name, got, want)
	}
}

func requireZ80EqualU8(t *testing.T, name string, got, want byte) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%02X, want 0x%02X", name, got, want)
	}
}
