package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newZX81TestScript(t *testing.T) (*ZX81Script, *ZX81Runner) {
	t.Helper()
	r := NewZX81Runner(newZX81LoopMachine(t), RunnerConfig{})
	r.Start()
	s := NewZX81Script(r)
	t.Cleanup(func() {
		s.Close()
		r.Stop()
	})
	return s, r
}

func TestZX81ScriptMemoryAndFrames(t *testing.T) {
	s, r := newZX81TestScript(t)
	err := s.RunString(`
		poke(0x5000, 7)
		assert(peek(0x5000) == 7, "poke did not stick")
		poke(0x0000, 0xAA)
		assert(peek(0x0000) == 0x18 or peek(0x0000) == 0, "ROM was written")
		frames(3)
		assert(pc() == 0x4009, "loop left its address")
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	var frames uint64
	if err := r.Call(func(m *ZX81Machine) error { frames = m.ULA().Frames(); return nil }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if frames != 3 {
		t.Fatalf("script ran %d frames, want 3", frames)
	}
}

func TestZX81ScriptInputWaitsForTypist(t *testing.T) {
	s, r := newZX81TestScript(t)
	if err := s.RunString(`input("AB")`); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	var busy bool
	var frames uint64
	if err := r.Call(func(m *ZX81Machine) error {
		busy = r.typist.Busy()
		frames = m.ULA().Frames()
		return nil
	}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if busy {
		t.Fatalf("input returned with keys still queued")
	}
	if want := uint64(2 * (ZX81_TYPIST_HOLD + ZX81_TYPIST_GAP)); frames < want {
		t.Fatalf("input took %d frames, want at least %d", frames, want)
	}
}

func TestZX81ScriptErrors(t *testing.T) {
	s, _ := newZX81TestScript(t)
	err := s.RunString(`key("hyper")`)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("err = %v, want an unknown key error", err)
	}
	var zerr *ZX81Error
	if !errors.As(err, &zerr) || zerr.Operation != "script" {
		t.Fatalf("err = %#v, want a script ZX81Error", err)
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err does not wrap the Lua error")
	}

	if err := s.RunString(`frames(-1)`); err == nil {
		t.Fatalf("negative frame count accepted")
	}
}

func TestZX81ScriptScreenAndSnapshot(t *testing.T) {
	s, _ := newZX81TestScript(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "state.zx8s")
	script := filepath.Join(dir, "run.lua")
	src := `
		poke(0x400C, 0x00)
		poke(0x400D, 0x41)
		poke(0x4100, 0x76)
		poke(0x4101, 0x2D)
		poke(0x4102, 0x2E)
		poke(0x4103, 0x76)
		local text = screen()
		assert(string.sub(text, 1, 2) == "HI", "screen starts with " .. string.sub(text, 1, 8))
		snapshot("` + filepath.ToSlash(path) + `")
	`
	if err := os.WriteFile(script, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := s.RunFile(script); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	snap, err := LoadZX81Snapshot(path)
	if err != nil {
		t.Fatalf("LoadZX81Snapshot: %v", err)
	}
	if snap.Memory[0x4101] != 0x2D {
		t.Fatalf("snapshot missing the display file")
	}
}
