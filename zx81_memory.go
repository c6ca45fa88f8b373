// zx81_memory.go - ZX81 address space: 8K ROM, mirrored, and RAM

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

import "fmt"

const (
	ZX81_ROM_SIZE   = 0x2000
	ZX81_ROM_MIRROR = 0x2000
	ZX81_RAM_BASE   = 0x4000
	ZX81_RAM_TOP    = 0x8000 // 16K RAM pack
	ZX81_MEM_SIZE   = 0x10000

	// Addresses with A15 set read the RAM below them; the display file is
	// executed from this echo.
	ZX81_ECHO_MASK = 0x7FFF
)

// zx81Memory is the flat 64K image the bus reads and writes. Everything
// below ZX81_RAM_BASE is ROM and ignores writes.
type zx81Memory struct {
	data [ZX81_MEM_SIZE]byte
}

func newZX81Memory() *zx81Memory {
	return &zx81Memory{}
}

// LoadROM installs an 8K ROM at 0x0000 and its mirror at 0x2000.
func (m *zx81Memory) LoadROM(rom []byte) error {
	if len(rom) == 0 || len(rom) > ZX81_ROM_SIZE {
		return fmt.Errorf("zx81: ROM must be 1..%d bytes, got %d", ZX81_ROM_SIZE, len(rom))
	}
	clear(m.data[:ZX81_RAM_BASE])
	copy(m.data[:ZX81_ROM_SIZE], rom)
	copy(m.data[ZX81_ROM_MIRROR:ZX81_ROM_MIRROR+ZX81_ROM_SIZE], m.data[:ZX81_ROM_SIZE])
	return nil
}

// ClearRAM zeroes everything from ZX81_RAM_BASE up.
func (m *zx81Memory) ClearRAM() {
	clear(m.data[ZX81_RAM_BASE:])
}

func (m *zx81Memory) Read(addr uint16) byte {
	return m.data[addr&ZX81_ECHO_MASK]
}

func (m *zx81Memory) Write(addr uint16, value byte) {
	addr &= ZX81_ECHO_MASK
	if addr < ZX81_RAM_BASE {
		return
	}
	m.data[addr] = value
}

// Poke writes RAM directly, used by image loading and scripts.
func (m *zx81Memory) Poke(addr uint16, value byte) {
	m.Write(addr, value)
}

func (m *zx81Memory) ReadWord(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}

func (m *zx81Memory) WriteWord(addr uint16, value uint16) {
	m.Write(addr, byte(value))
	m.Write(addr+1, byte(value>>8))
}

// Snapshot returns the 64K address space as the CPU sees it, echoes included.
func (m *zx81Memory) Snapshot() []byte {
	out := make([]byte, ZX81_MEM_SIZE)
	for addr := range out {
		out[addr] = m.Read(uint16(addr))
	}
	return out
}

// Restore replaces ROM and RAM from a 64K image taken by Snapshot.
func (m *zx81Memory) Restore(image []byte) error {
	if len(image) != ZX81_MEM_SIZE {
		return fmt.Errorf("zx81: memory image must be %d bytes, got %d", ZX81_MEM_SIZE, len(image))
	}
	copy(m.data[:ZX81_RAM_TOP], image[:ZX81_RAM_TOP])
	return nil
}
