// zx81_snapshot.go - save and restore complete ZX81 machine state

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

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	zx81SnapshotMagic   = "ZX8S"
	zx81SnapshotVersion = 1
)

var ErrBadSnapshot = errors.New("not a ZX81 snapshot")

// ZX81Snapshot is everything needed to resume a machine mid-frame.
type ZX81Snapshot struct {
	Registers  Z80Registers
	Cycles     uint64
	IntPending bool
	NMIPending bool
	EIShadow   bool
	RefreshA6  bool // last refresh address bit 6, for INT edge detection
	ULA        ULA81State
	Memory     []byte // 64K as the CPU sees it
}

// zx81ULAWire is ULA81State with fixed-size fields for encoding/binary.
type zx81ULAWire struct {
	HCounter     int32
	HSyncPending bool
	HSync        bool
	VSync        bool
	SyncLen      int32
	RasterX      int32
	RasterY      int32
	RowCounter   byte
	NMIEnabled   bool
	Frames       uint64
}

func (m *ZX81Machine) TakeSnapshot() *ZX81Snapshot {
	nmi, ei := m.cpu.Latches()
	return &ZX81Snapshot{
		Registers:  m.cpu.Snapshot(),
		Cycles:     m.cpu.Cycles,
		IntPending: m.intPending,
		NMIPending: nmi,
		EIShadow:   ei,
		RefreshA6:  m.bus.prevIntBit,
		ULA:        m.ula.State(),
		Memory:     m.mem.Snapshot(),
	}
}

// RestoreSnapshot replaces machine state. The ROM image comes from the
// snapshot too, so a snapshot taken with one ROM resumes with it.
func (m *ZX81Machine) RestoreSnapshot(s *ZX81Snapshot) error {
	if err := m.mem.Restore(s.Memory); err != nil {
		return &ZX81Error{Operation: "restore snapshot", Details: "memory", Err: err}
	}
	m.cpu.Reset()
	m.cpu.Restore(s.Registers)
	m.cpu.Cycles = s.Cycles
	m.cpu.SetLatches(s.NMIPending, s.EIShadow)
	m.ula.Reset()
	m.ula.SetState(s.ULA)
	m.bus.reset()
	m.bus.prevIntBit = s.RefreshA6
	m.keys.ReleaseAll()
	m.intPending = s.IntPending
	m.frameCycles = 0
	return nil
}

// zx81SnapshotField is one fixed-size record in the snapshot header.
type zx81SnapshotField struct {
	name string
	ptr  any
}

// zx81SnapshotHeader lists the header records in wire order. Reads and
// writes go through the same pointers.
func zx81SnapshotHeader(s *ZX81Snapshot, latches *[4]bool, ula *zx81ULAWire, memLen *uint32) []zx81SnapshotField {
	return []zx81SnapshotField{
		{"registers", &s.Registers},
		{"cycles", &s.Cycles},
		{"interrupt state", latches},
		{"ULA state", ula},
		{"memory length", memLen},
	}
}

// WriteZX81Snapshot encodes s: magic, version, registers and ULA state,
// then the gzip-compressed memory image.
func WriteZX81Snapshot(w io.Writer, s *ZX81Snapshot) error {
	var buf bytes.Buffer
	buf.WriteString(zx81SnapshotMagic)
	if err := binary.Write(&buf, binary.LittleEndian, uint32(zx81SnapshotVersion)); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}

	latches := [4]bool{s.IntPending, s.NMIPending, s.EIShadow, s.RefreshA6}
	ula := zx81ULAWire{
		HCounter:     int32(s.ULA.HCounter),
		HSyncPending: s.ULA.HSyncPending,
		HSync:        s.ULA.HSync,
		VSync:        s.ULA.VSync,
		SyncLen:      int32(s.ULA.SyncLen),
		RasterX:      int32(s.ULA.RasterX),
		RasterY:      int32(s.ULA.RasterY),
		RowCounter:   s.ULA.RowCounter,
		NMIEnabled:   s.ULA.NMIEnabled,
		Frames:       s.ULA.Frames,
	}
	memLen := uint32(len(s.Memory))
	for _, field := range zx81SnapshotHeader(s, &latches, &ula, &memLen) {
		if err := binary.Write(&buf, binary.LittleEndian, field.ptr); err != nil {
			return fmt.Errorf("writing %s: %w", field.name, err)
		}
	}

	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(s.Memory); err != nil {
		return fmt.Errorf("compressing memory: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func ReadZX81Snapshot(r io.Reader) (*ZX81Snapshot, error) {
	magic := make([]byte, len(zx81SnapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != zx81SnapshotMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadSnapshot, magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != zx81SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadSnapshot, version)
	}

	s := &ZX81Snapshot{}
	var ula zx81ULAWire
	var memLen uint32
	var latches [4]bool
	for _, field := range zx81SnapshotHeader(s, &latches, &ula, &memLen) {
		if err := binary.Read(r, binary.LittleEndian, field.ptr); err != nil {
			return nil, fmt.Errorf("reading %s: %w", field.name, err)
		}
	}
	s.IntPending, s.NMIPending, s.EIShadow, s.RefreshA6 = latches[0], latches[1], latches[2], latches[3]
	if memLen != ZX81_MEM_SIZE {
		return nil, fmt.Errorf("%w: memory length %d", ErrBadSnapshot, memLen)
	}
	s.ULA = ULA81State{
		HCounter:     int(ula.HCounter),
		HSyncPending: ula.HSyncPending,
		HSync:        ula.HSync,
		VSync:        ula.VSync,
		SyncLen:      int(ula.SyncLen),
		RasterX:      int(ula.RasterX),
		RasterY:      int(ula.RasterY),
		RowCounter:   ula.RowCounter,
		NMIEnabled:   ula.NMIEnabled,
		Frames:       ula.Frames,
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip reader: %w", err)
	}
	defer gz.Close()
	s.Memory = make([]byte, memLen)
	if _, err := io.ReadFull(gz, s.Memory); err != nil {
		return nil, fmt.Errorf("decompressing memory: %w", err)
	}
	return s, nil
}

func SaveZX81Snapshot(path string, s *ZX81Snapshot) error {
	var buf bytes.Buffer
	if err := WriteZX81Snapshot(&buf, s); err != nil {
		return &ZX81Error{Operation: "save snapshot", Details: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &ZX81Error{Operation: "save snapshot", Details: path, Err: err}
	}
	return nil
}

func LoadZX81Snapshot(path string) (*ZX81Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ZX81Error{Operation: "load snapshot", Details: path, Err: err}
	}
	defer f.Close()
	s, err := ReadZX81Snapshot(f)
	if err != nil {
		return nil, &ZX81Error{Operation: "load snapshot", Details: path, Err: err}
	}
	return s, nil
}
