// zx81_machine.go - ZX81 machine: CPU, ULA and glue on one timeline

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
zx81_machine.go - ZX81 Machine

The machine owns every component and is the only thing that moves signals
between them. Per instruction:

1. The INT line is driven from the request latched by the previous refresh
   cycle (dropped again if interrupts are disabled)
2. The CPU executes one instruction; the bus records every T-state and any
   display character it intercepted
3. The recorded T-states are replayed into the ULA, which plots the
   character loaded on the refresh cycle and counts its lines
4. An accepted interrupt restarts the ULA line counter, a falling refresh
   A6 latches the next INT request, and a ULA NMI request is handed to the
   CPU for the next boundary

Nothing here is concurrent. The runner owns a machine from one goroutine.
*/

package main

import (
	"errors"
	"fmt"
)

// Bootstrap state installed by LoadImage.
const (
	ZX81_IMAGE_BASE = 0x4009
	ZX81_STACK_TOP  = 0x7FFC
	ZX81_ERROR_RET  = 0x0676 // ROM error return left on the stack
	ZX81_ROM_RESUME = 0x0207 // ROM entry after a program has been loaded

	ZX81_SYSVAR_ERR_NR = 0x4000
	ZX81_SYSVAR_FLAGS  = 0x4001
	ZX81_SYSVAR_ERR_SP = 0x4002
	ZX81_SYSVAR_RAMTOP = 0x4004
	ZX81_SYSVAR_MODE   = 0x4006
	ZX81_SYSVAR_PPC    = 0x4007

	ZX81_BOOT_IX = 0x0281 // display routine
	ZX81_BOOT_IY = 0x4000
	ZX81_BOOT_I  = 0x1E // character set page
)

// ZX81ImageKind selects how LoadImage starts an image.
type ZX81ImageKind int

const (
	// ImageProgram is a .P file: system variables onwards, resumed via ROM.
	ImageProgram ZX81ImageKind = iota
	// ImageCode is raw machine code entered at ZX81_IMAGE_BASE.
	ImageCode
)

func (k ZX81ImageKind) String() string {
	switch k {
	case ImageProgram:
		return "program"
	case ImageCode:
		return "code"
	}
	return fmt.Sprintf("ZX81ImageKind(%d)", int(k))
}

var ErrImageTooLarge = errors.New("image does not fit in RAM")

// ZX81Error carries the operation that failed and why.
type ZX81Error struct {
	Operation string
	Details   string
	Err       error
}

func (e *ZX81Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zx81: %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("zx81: %s failed: %s", e.Operation, e.Details)
}

func (e *ZX81Error) Unwrap() error {
	return e.Err
}

type ZX81Machine struct {
	cpu  *CPU_Z80
	ula  *ULA81Engine
	mem  *zx81Memory
	keys *zx81Keyboard
	bus  *zx81Bus

	audio *ZX81Audio

	intPending  bool
	frameCycles uint64
}

func NewZX81Machine() *ZX81Machine {
	m := &ZX81Machine{
		ula:  NewULA81Engine(),
		mem:  newZX81Memory(),
		keys: newZX81Keyboard(),
	}
	m.bus = newZX81Bus(m.mem, m.ula, m.keys)
	m.cpu = NewCPU_Z80(m.bus)
	return m
}

// LoadROM installs the 8K system ROM and resets the machine.
func (m *ZX81Machine) LoadROM(rom []byte) error {
	if err := m.mem.LoadROM(rom); err != nil {
		return &ZX81Error{Operation: "load ROM", Details: fmt.Sprintf("%d bytes", len(rom)), Err: err}
	}
	m.Reset()
	return nil
}

// Reset is a power cycle: RAM, CPU, ULA and keyboard all start over.
func (m *ZX81Machine) Reset() {
	m.mem.ClearRAM()
	m.cpu.Reset()
	m.ula.Reset()
	m.keys.ReleaseAll()
	m.bus.reset()
	m.intPending = false
	m.frameCycles = 0
	if m.audio != nil {
		m.audio.Reset()
	}
}

// LoadImage copies data to ZX81_IMAGE_BASE and sets up the registers and
// system variables the ROM expects after a LOAD.
func (m *ZX81Machine) LoadImage(data []byte, kind ZX81ImageKind) error {
	if len(data) > ZX81_RAM_TOP-ZX81_IMAGE_BASE {
		return &ZX81Error{
			Operation: "load image",
			Details:   fmt.Sprintf("%d bytes at %04X", len(data), ZX81_IMAGE_BASE),
			Err:       ErrImageTooLarge,
		}
	}

	m.Reset()
	for i, b := range data {
		m.mem.Poke(uint16(ZX81_IMAGE_BASE+i), b)
	}

	m.mem.Poke(ZX81_SYSVAR_ERR_NR, 0xFF)
	m.mem.Poke(ZX81_SYSVAR_FLAGS, 0x80)
	m.mem.WriteWord(ZX81_SYSVAR_ERR_SP, ZX81_STACK_TOP)
	m.mem.WriteWord(ZX81_SYSVAR_RAMTOP, ZX81_RAM_TOP)
	m.mem.Poke(ZX81_SYSVAR_MODE, 0x00)
	m.mem.WriteWord(ZX81_SYSVAR_PPC, 0xFFFE)
	m.mem.WriteWord(ZX81_STACK_TOP, ZX81_ERROR_RET)

	c := m.cpu
	c.SP = ZX81_STACK_TOP
	switch kind {
	case ImageProgram:
		c.IX = ZX81_BOOT_IX
		c.IY = ZX81_BOOT_IY
		c.I = ZX81_BOOT_I
		c.IM = 1
		c.PC = ZX81_ROM_RESUME
	case ImageCode:
		c.PC = ZX81_IMAGE_BASE
	default:
		return &ZX81Error{Operation: "load image", Details: kind.String()}
	}
	zx81Debugf("zx81", "loaded %d byte %s image, PC=%04X", len(data), kind, c.PC)
	return nil
}

// Step runs one instruction and replays its T-states into the ULA.
func (m *ZX81Machine) Step() error {
	c := m.cpu
	if !c.IFF1 {
		m.intPending = false
	}
	c.SetIRQLine(m.intPending)

	err := c.Step()

	cycles := m.bus.takeCycles()
	m.advance(cycles)
	m.frameCycles += uint64(cycles)

	if c.TakeIRQAck() {
		m.intPending = false
		m.ula.SyncLine()
	}
	if m.bus.takeINT() && c.IFF1 {
		m.intPending = true
	}
	if m.ula.TakeNMI() {
		c.TriggerNMI()
	}
	return err
}

func (m *ZX81Machine) advance(cycles int) {
	if m.audio == nil {
		m.ula.Advance(cycles)
		return
	}
	for range cycles {
		m.ula.Advance(1)
		m.audio.Feed(m.ula.VSync(), 1)
	}
}

// RunFrame steps the machine until the ULA completes a frame.
func (m *ZX81Machine) RunFrame() error {
	m.frameCycles = 0
	for {
		if err := m.Step(); err != nil {
			return err
		}
		if m.ula.TakeFrameComplete() {
			return nil
		}
	}
}

// FrameCycles is the T-state count of the frame in progress, or of the
// last one once RunFrame has returned.
func (m *ZX81Machine) FrameCycles() uint64 {
	return m.frameCycles
}

func (m *ZX81Machine) KeyDown(name string) error {
	return m.keys.KeyDown(name)
}

func (m *ZX81Machine) KeyUp(name string) error {
	return m.keys.KeyUp(name)
}

func (m *ZX81Machine) ReleaseKeys() {
	m.keys.ReleaseAll()
}

// Frame returns the last completed frame as RGBA bytes. See GetFrame.
func (m *ZX81Machine) Frame() []byte {
	return m.ula.GetFrame()
}

func (m *ZX81Machine) Peek(addr uint16) byte {
	return m.mem.Read(addr)
}

// Poke writes through the CPU's view of memory, so ROM stays intact.
func (m *ZX81Machine) Poke(addr uint16, value byte) {
	m.mem.Write(addr, value)
}

// MemorySnapshot returns the 64K address space as the CPU sees it.
func (m *ZX81Machine) MemorySnapshot() []byte {
	return m.mem.Snapshot()
}

// SetAudio attaches a sync-level audio tap; nil detaches it.
func (m *ZX81Machine) SetAudio(a *ZX81Audio) {
	m.audio = a
}

// FlushAudio hands any partial sample chunk to the sinks.
func (m *ZX81Machine) FlushAudio() {
	if m.audio != nil {
		m.audio.Flush()
	}
}

func (m *ZX81Machine) CPU() *CPU_Z80 {
	return m.cpu
}

func (m *ZX81Machine) ULA() *ULA81Engine {
	return m.ula
}

// Fault returns the decode error that stopped the CPU, if any.
func (m *ZX81Machine) Fault() error {
	return m.cpu.Fault()
}
