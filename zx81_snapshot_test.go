package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"
)

// newZX81CountingMachine runs a program that keeps a 16-bit counter at
// 0x5000 and toggles the NMI generator, so state changes every frame.
func newZX81CountingMachine(t *testing.T) *ZX81Machine {
	t.Helper()
	m := newZX81TestMachine(t, map[uint16][]byte{0x0066: {0xED, 0x45}})
	prog := []byte{
		0x2A, 0x00, 0x50, // LD HL,(5000)
		0x23,             // INC HL
		0x22, 0x00, 0x50, // LD (5000),HL
		0xD3, 0xFE, // OUT (FE),A
		0xD3, 0xFD, // OUT (FD),A
		0x18, 0xF3, // JR back to the start
	}
	if err := m.LoadImage(prog, ImageCode); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	return m
}

func runFrames(t *testing.T, m *ZX81Machine, n int) {
	t.Helper()
	for range n {
		if err := m.RunFrame(); err != nil {
			t.Fatalf("RunFrame: %v", err)
		}
	}
}

func TestZX81SnapshotResumesIdentically(t *testing.T) {
	m := newZX81CountingMachine(t)
	runFrames(t, m, 3)
	// Leave the machine mid-frame.
	for range 123 {
		if err := m.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := WriteZX81Snapshot(&buf, m.TakeSnapshot()); err != nil {
		t.Fatalf("WriteZX81Snapshot: %v", err)
	}
	snap, err := ReadZX81Snapshot(&buf)
	if err != nil {
		t.Fatalf("ReadZX81Snapshot: %v", err)
	}

	n := NewZX81Machine()
	if err := n.RestoreSnapshot(snap); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}

	runFrames(t, m, 2)
	runFrames(t, n, 2)

	if m.CPU().Snapshot() != n.CPU().Snapshot() {
		t.Fatalf("registers diverged:\n%+v\n%+v", m.CPU().Snapshot(), n.CPU().Snapshot())
	}
	if m.CPU().Cycles != n.CPU().Cycles {
		t.Fatalf("cycles diverged: %d vs %d", m.CPU().Cycles, n.CPU().Cycles)
	}
	if m.ULA().State() != n.ULA().State() {
		t.Fatalf("ULA diverged:\n%+v\n%+v", m.ULA().State(), n.ULA().State())
	}
	if !bytes.Equal(m.MemorySnapshot(), n.MemorySnapshot()) {
		t.Fatalf("memory diverged")
	}
	if m.mem.ReadWord(0x5000) == 0 {
		t.Fatalf("counter program never ran")
	}
}

func TestZX81SnapshotRejectsBadInput(t *testing.T) {
	m := newZX81CountingMachine(t)
	var good bytes.Buffer
	if err := WriteZX81Snapshot(&good, m.TakeSnapshot()); err != nil {
		t.Fatalf("WriteZX81Snapshot: %v", err)
	}

	badMagic := bytes.Clone(good.Bytes())
	copy(badMagic, "P81!")
	badVersion := bytes.Clone(good.Bytes())
	badVersion[4] = 99

	cases := []struct {
		name string
		data []byte
		bad  bool
	}{
		{"magic", badMagic, true},
		{"version", badVersion, true},
		{"truncated header", good.Bytes()[:10], false},
		{"truncated memory", good.Bytes()[:good.Len()-20], false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadZX81Snapshot(bytes.NewReader(tc.data))
			if err == nil {
				t.Fatalf("bad snapshot accepted")
			}
			if errors.Is(err, ErrBadSnapshot) != tc.bad {
				t.Fatalf("errors.Is(ErrBadSnapshot) = %v for %v", !tc.bad, err)
			}
		})
	}
}

func TestZX81SnapshotFile(t *testing.T) {
	m := newZX81CountingMachine(t)
	runFrames(t, m, 1)
	path := filepath.Join(t.TempDir(), "state.zx8s")

	if err := SaveZX81Snapshot(path, m.TakeSnapshot()); err != nil {
		t.Fatalf("SaveZX81Snapshot: %v", err)
	}
	snap, err := LoadZX81Snapshot(path)
	if err != nil {
		t.Fatalf("LoadZX81Snapshot: %v", err)
	}
	if snap.Registers != m.CPU().Snapshot() {
		t.Fatalf("registers differ after the file round trip")
	}

	_, err = LoadZX81Snapshot(filepath.Join(t.TempDir(), "missing"))
	var zerr *ZX81Error
	if !errors.As(err, &zerr) || zerr.Operation != "load snapshot" {
		t.Fatalf("err = %v, want a load snapshot ZX81Error", err)
	}
}

func TestZX81RestoreSnapshotRejectsShortMemory(t *testing.T) {
	m := NewZX81Machine()
	err := m.RestoreSnapshot(&ZX81Snapshot{Memory: make([]byte, 10)})
	if err == nil {
		t.Fatalf("short memory image accepted")
	}
}

func TestZX81SnapshotHeaderIsFixedSize(t *testing.T) {
	s := &ZX81Snapshot{}
	var latches [4]bool
	var ula zx81ULAWire
	var memLen uint32
	total := len(zx81SnapshotMagic) + 4
	for _, field := range zx81SnapshotHeader(s, &latches, &ula, &memLen) {
		n := binary.Size(field.ptr)
		if n <= 0 {
			t.Fatalf("%s has no fixed wire size", field.name)
		}
		total += n
	}

	m := newZX81CountingMachine(t)
	var buf bytes.Buffer
	if err := WriteZX81Snapshot(&buf, m.TakeSnapshot()); err != nil {
		t.Fatalf("WriteZX81Snapshot: %v", err)
	}
	// The gzip stream starts right after the header.
	if buf.Len() < total+2 || buf.Bytes()[total] != 0x1F || buf.Bytes()[total+1] != 0x8B {
		t.Fatalf("gzip magic not found at header end %d", total)
	}
}

type zx81FailingWriter struct{}

var errZX81WriteFailed = errors.New("disk full")

func (zx81FailingWriter) Write([]byte) (int, error) {
	return 0, errZX81WriteFailed
}

func TestZX81SnapshotWriteReportsErrors(t *testing.T) {
	m := newZX81CountingMachine(t)
	if err := WriteZX81Snapshot(zx81FailingWriter{}, m.TakeSnapshot()); !errors.Is(err, errZX81WriteFailed) {
		t.Fatalf("WriteZX81Snapshot = %v, want %v", err, errZX81WriteFailed)
	}
}
