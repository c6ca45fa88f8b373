// zx81_script.go - Lua automation of a running ZX81

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
zx81_script.go - Lua Scripting

Scripts drive the machine through the runner, so everything they do is
ordered with frames and host input. Blocking calls (frames, input, screen)
return once the worker has processed them.

Globals:
  frames(n)          run n frames
  key(name, down)    press or release a key
  tap(name [, n])    hold a key for n frames (default 3), then release
  input(text)        type text and wait until the last key is up
  peek(addr)         read a byte as the CPU sees it
  poke(addr, value)  write a byte (ROM ignores writes)
  pc()               current program counter
  screen()           display file as text, one line per row
  snapshot(path)     save machine state
*/

package main

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

type ZX81Script struct {
	runner *ZX81Runner
	state  *lua.LState
}

func NewZX81Script(runner *ZX81Runner) *ZX81Script {
	s := &ZX81Script{runner: runner, state: lua.NewState()}
	for name, fn := range map[string]lua.LGFunction{
		"frames":   s.luaFrames,
		"key":      s.luaKey,
		"tap":      s.luaTap,
		"input":    s.luaInput,
		"peek":     s.luaPeek,
		"poke":     s.luaPoke,
		"pc":       s.luaPC,
		"screen":   s.luaScreen,
		"snapshot": s.luaSnapshot,
	} {
		s.state.SetGlobal(name, s.state.NewFunction(fn))
	}
	return s
}

func (s *ZX81Script) Close() {
	s.state.Close()
}

func (s *ZX81Script) RunFile(path string) error {
	if err := s.state.DoFile(path); err != nil {
		return &ZX81Error{Operation: "script", Details: path, Err: err}
	}
	return nil
}

func (s *ZX81Script) RunString(src string) error {
	if err := s.state.DoString(src); err != nil {
		return &ZX81Error{Operation: "script", Details: "inline", Err: err}
	}
	return nil
}

// frames queues n frames and waits for the last of them.
func (s *ZX81Script) frames(n int) error {
	for range n {
		if err := s.runner.RequestFrame(); err != nil {
			return err
		}
	}
	return s.runner.Call(func(*ZX81Machine) error { return nil })
}

func (s *ZX81Script) raise(L *lua.LState, err error) int {
	L.RaiseError("%v", err)
	return 0
}

func (s *ZX81Script) luaFrames(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 0 {
		L.ArgError(1, "frame count must not be negative")
	}
	if err := s.frames(n); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *ZX81Script) luaKey(L *lua.LState) int {
	name := L.CheckString(1)
	down := L.OptBool(2, true)
	var err error
	if down {
		err = s.runner.KeyDown(name)
	} else {
		err = s.runner.KeyUp(name)
	}
	if err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *ZX81Script) luaTap(L *lua.LState) int {
	name := L.CheckString(1)
	hold := L.OptInt(2, ZX81_TYPIST_HOLD)
	if err := s.runner.KeyDown(name); err != nil {
		return s.raise(L, err)
	}
	if err := s.frames(hold); err != nil {
		return s.raise(L, err)
	}
	if err := s.runner.KeyUp(name); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *ZX81Script) luaInput(L *lua.LState) int {
	if err := s.runner.Type(L.CheckString(1)); err != nil {
		return s.raise(L, err)
	}
	for {
		var busy bool
		if err := s.runner.Call(func(*ZX81Machine) error {
			busy = s.runner.typist.Busy()
			return nil
		}); err != nil {
			return s.raise(L, err)
		}
		if !busy {
			return 0
		}
		if err := s.frames(1); err != nil {
			return s.raise(L, err)
		}
	}
}

func (s *ZX81Script) luaPeek(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	var v byte
	if err := s.runner.Call(func(m *ZX81Machine) error {
		v = m.Peek(addr)
		return nil
	}); err != nil {
		return s.raise(L, err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *ZX81Script) luaPoke(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	v := byte(L.CheckInt(2))
	if err := s.runner.Call(func(m *ZX81Machine) error {
		m.Poke(addr, v)
		return nil
	}); err != nil {
		return s.raise(L, err)
	}
	return 0
}

func (s *ZX81Script) luaPC(L *lua.LState) int {
	var pc uint16
	if err := s.runner.Call(func(m *ZX81Machine) error {
		pc = m.CPU().PC
		return nil
	}); err != nil {
		return s.raise(L, err)
	}
	L.Push(lua.LNumber(pc))
	return 1
}

func (s *ZX81Script) luaScreen(L *lua.LState) int {
	var screen zx81TextScreen
	if err := s.runner.Call(func(m *ZX81Machine) error {
		screen = zx81DecodeDisplay(m.Peek)
		return nil
	}); err != nil {
		return s.raise(L, err)
	}
	L.Push(lua.LString(strings.Join(screen.Lines(), "\n")))
	return 1
}

func (s *ZX81Script) luaSnapshot(L *lua.LState) int {
	path := L.CheckString(1)
	if err := s.runner.Call(func(m *ZX81Machine) error {
		return SaveZX81Snapshot(path, m.TakeSnapshot())
	}); err != nil {
		return s.raise(L, err)
	}
	return 0
}
