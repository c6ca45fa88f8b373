// zx81_bus.go - ZX81 glue logic: display fetch, refresh, ports

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
	// Bits 5-7 of a keyboard read: bit 5 unused (1), bit 6 set for a
	// 50Hz machine, bit 7 the idle tape input.
	ZX81_PORT_FE_IDLE = 0x60

	// Refresh address bit that raises INT when it falls.
	ZX81_INT_BIT = 0x40
)

// zx81Bus implements Z80Bus for the ZX81. It sees every CPU bus cycle and
// translates them into ULA activity, but never drives the CPU itself: the
// machine collects pending cycles, INT and NMI requests between steps.
type zx81Bus struct {
	mem  *zx81Memory
	ula  *ULA81Engine
	keys *zx81Keyboard
	log  *zx81RateLog

	pending int

	charLatched bool
	charCode    byte

	prevIntBit bool
	intRequest bool
}

func newZX81Bus(mem *zx81Memory, ula *ULA81Engine, keys *zx81Keyboard) *zx81Bus {
	return &zx81Bus{
		mem:  mem,
		ula:  ula,
		keys: keys,
		log:  newZX81RateLog(),
	}
}

func (b *zx81Bus) reset() {
	b.pending = 0
	b.charLatched = false
	b.charCode = 0
	b.prevIntBit = false
	b.intRequest = false
}

// Fetch handles M1 cycles. Above 0x8000 a byte with bit 6 clear is a
// display character: the ULA keeps it and the CPU sees a NOP.
func (b *zx81Bus) Fetch(addr uint16) byte {
	v := b.mem.Read(addr)
	if addr&0x8000 != 0 && v&0x40 == 0 {
		b.charLatched = true
		b.charCode = v
		return 0x00
	}
	return v
}

func (b *zx81Bus) Read(addr uint16) byte {
	return b.mem.Read(addr)
}

func (b *zx81Bus) Write(addr uint16, value byte) {
	b.mem.Write(addr, value)
}

// Refresh sees I:R on the address bus. A6 falling raises INT, and a
// latched character has its pattern fetched from I*256 + code*8 + row.
func (b *zx81Bus) Refresh(addr uint16) {
	bit := addr&ZX81_INT_BIT != 0
	if b.prevIntBit && !bit {
		b.intRequest = true
	}
	b.prevIntBit = bit

	if b.charLatched {
		b.charLatched = false
		patternAddr := addr&0xFE00 | uint16(b.charCode&0x3F)<<3 | uint16(b.ula.RowCounter())
		b.ula.LoadPattern(b.mem.Read(patternAddr), b.charCode&0x80 != 0)
	}
}

// In decodes A0 low as the keyboard. With the NMI generator off the same
// read starts vertical sync.
func (b *zx81Bus) In(port uint16) byte {
	if port&0x0001 == 0 {
		if !b.ula.NMIGenerator() {
			b.ula.StartVSync()
		}
		return b.keys.Read(port) | ZX81_PORT_FE_IDLE
	}
	b.log.Logf("zx81", "in", "unmapped port read %04X", port)
	return 0xFF
}

// Out ends vertical sync on any port. A0 low turns the NMI generator on,
// A1 low turns it off.
func (b *zx81Bus) Out(port uint16, value byte) {
	b.ula.EndVSync()
	switch {
	case port&0x0001 == 0:
		b.ula.SetNMIGenerator(true)
	case port&0x0002 == 0:
		b.ula.SetNMIGenerator(false)
	case byte(port) == 0xFF:
	default:
		b.log.Logf("zx81", "out", "unmapped port write %04X <- %02X", port, value)
	}
}

func (b *zx81Bus) Tick(cycles int) {
	b.pending += cycles
}

// takeCycles returns the T-states accumulated since the last call.
func (b *zx81Bus) takeCycles() int {
	n := b.pending
	b.pending = 0
	return n
}

func (b *zx81Bus) takeINT() bool {
	req := b.intRequest
	b.intRequest = false
	return req
}
