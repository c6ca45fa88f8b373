package main

import (
	"errors"
	"testing"
)

func TestDisassembleZ80(t *testing.T) {
	cases := []struct {
		code     []byte
		origin   uint16
		mnemonic string
		length   int
	}{
		{[]byte{0x00}, 0, "NOP", 1},
		{[]byte{0x76}, 0, "HALT", 1},
		{[]byte{0x41}, 0, "LD B, C", 1},
		{[]byte{0x3E, 0x42}, 0, "LD A, $42", 2},
		{[]byte{0x21, 0x34, 0x12}, 0, "LD HL, $1234", 3},
		{[]byte{0x2A, 0x0C, 0x40}, 0, "LD HL, ($400C)", 3},
		{[]byte{0x18, 0xFE}, 0x4009, "JR $4009", 2},
		{[]byte{0x20, 0x05}, 0x1000, "JR NZ, $1007", 2},
		{[]byte{0x10, 0xFE}, 0x2000, "DJNZ $2000", 2},
		{[]byte{0xC3, 0x07, 0x02}, 0, "JP $0207", 3},
		{[]byte{0xCD, 0x00, 0x10}, 0, "CALL $1000", 3},
		{[]byte{0xD3, 0xFE}, 0, "OUT ($FE), A", 2},
		{[]byte{0xDB, 0xFE}, 0, "IN A, ($FE)", 2},
		{[]byte{0xFE, 0x76}, 0, "CP $76", 2},
		{[]byte{0xE9}, 0, "JP (HL)", 1},
		{[]byte{0xFF}, 0, "RST $38", 1},
		{[]byte{0xCB, 0x7E}, 0, "BIT 7, (HL)", 2},
		{[]byte{0xCB, 0x01}, 0, "RLC C", 2},
		{[]byte{0xED, 0xB0}, 0, "LDIR", 2},
		{[]byte{0xED, 0x56}, 0, "IM 1", 2},
		{[]byte{0xED, 0x45}, 0, "RETN", 2},
		{[]byte{0xED, 0x4F}, 0, "LD R, A", 2},
		{[]byte{0xED, 0x00}, 0, "NOP* (ED 00)", 2},
		{[]byte{0xDD, 0x21, 0x81, 0x02}, 0, "LD IX, $0281", 4},
		{[]byte{0xDD, 0x7E, 0xFE}, 0, "LD A, (IX-2)", 3},
		{[]byte{0xDD, 0x66, 0x01}, 0, "LD H, (IX+1)", 3},
		{[]byte{0xFD, 0x36, 0x05, 0x99}, 0, "LD (IY+5), $99", 4},
		{[]byte{0xFD, 0x65}, 0, "LD IYH, IYL", 2},
		{[]byte{0xDD, 0xE9}, 0, "JP (IX)", 2},
		{[]byte{0xFD, 0xCB, 0x01, 0x46}, 0, "BIT 0, (IY+1)", 4},
		{[]byte{0xDD, 0xCB, 0x02, 0xC0}, 0, "SET 0, (IX+2), B", 4},
		{[]byte{0xDD, 0xFD, 0x00}, 0, "NOP*", 1},
	}
	for _, tc := range cases {
		t.Run(tc.mnemonic, func(t *testing.T) {
			line, err := DisassembleZ80(tc.code, tc.origin)
			if err != nil {
				t.Fatalf("DisassembleZ80: %v", err)
			}
			if line.Mnemonic != tc.mnemonic {
				t.Fatalf("mnemonic = %q, want %q", line.Mnemonic, tc.mnemonic)
			}
			if len(line.Bytes) != tc.length {
				t.Fatalf("length = %d, want %d", len(line.Bytes), tc.length)
			}
		})
	}
}

func TestDisassembleZ80Truncated(t *testing.T) {
	line, err := DisassembleZ80([]byte{0xC3, 0x00}, 0x1234)
	var derr *Z80DisasmError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want Z80DisasmError", err)
	}
	if derr.Addr != 0x1234 || derr.Have != 2 || derr.Need != 3 {
		t.Fatalf("error = %+v", derr)
	}
	if len(line.Bytes) != 2 {
		t.Fatalf("partial line kept %d bytes", len(line.Bytes))
	}
}

func TestDisassembleZ80Window(t *testing.T) {
	mem := map[uint16]byte{
		0xFFFE: 0x3E, 0xFFFF: 0x01, // LD A,1 then wrap
		0x0000: 0x00,
		0x0001: 0xC9,
	}
	read := func(addr uint16) byte { return mem[addr] }

	lines := disassembleZ80Window(read, 0xFFFE, 3)
	want := []struct {
		addr     uint16
		mnemonic string
	}{
		{0xFFFE, "LD A, $01"},
		{0x0000, "NOP"},
		{0x0001, "RET"},
	}
	for i, w := range want {
		if lines[i].Addr != w.addr || lines[i].Mnemonic != w.mnemonic {
			t.Fatalf("line %d = %v, want %04X %s", i, lines[i], w.addr, w.mnemonic)
		}
	}
	if got := lines[0].String(); got != "FFFE  3E 01        LD A, $01" {
		t.Fatalf("String() = %q", got)
	}
}
