// zx81_keyboard.go - ZX81 keyboard matrix

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
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownKey = errors.New("unknown key")

// zx81KeyRows lists the matrix by half-row. Row i is selected by pulling
// address line A(8+i) low; column j is data bit j, active low.
var zx81KeyRows = [8][5]string{
	{"shift", "z", "x", "c", "v"},
	{"a", "s", "d", "f", "g"},
	{"q", "w", "e", "r", "t"},
	{"1", "2", "3", "4", "5"},
	{"0", "9", "8", "7", "6"},
	{"p", "o", "i", "u", "y"},
	{"enter", "l", "k", "j", "h"},
	{"space", ".", "m", "n", "b"},
}

// Keys that need SHIFT held with a matrix key.
var zx81KeyComposites = map[string]string{
	"delete":   "0",
	"edit":     "1",
	"left":     "5",
	"down":     "6",
	"up":       "7",
	"right":    "8",
	"graphics": "9",
	"function": "enter",
}

type zx81KeyPos struct {
	row byte
	bit byte
}

var zx81KeyMap = func() map[string]zx81KeyPos {
	m := make(map[string]zx81KeyPos)
	for row, keys := range zx81KeyRows {
		for bit, name := range keys {
			m[name] = zx81KeyPos{row: byte(row), bit: byte(bit)}
		}
	}
	return m
}()

func zx81KeyKnown(name string) bool {
	if _, ok := zx81KeyMap[name]; ok {
		return true
	}
	_, ok := zx81KeyComposites[name]
	return ok
}

// zx81Keyboard tracks held keys. Each matrix position keeps a press count
// so a composite and a plain key sharing SHIFT release independently.
type zx81Keyboard struct {
	mu      sync.Mutex
	presses [8][5]int
}

func newZX81Keyboard() *zx81Keyboard {
	return &zx81Keyboard{}
}

func (k *zx81Keyboard) positions(name string) ([]zx81KeyPos, error) {
	if pos, ok := zx81KeyMap[name]; ok {
		return []zx81KeyPos{pos}, nil
	}
	if base, ok := zx81KeyComposites[name]; ok {
		return []zx81KeyPos{zx81KeyMap["shift"], zx81KeyMap[base]}, nil
	}
	return nil, fmt.Errorf("zx81: %w %q", ErrUnknownKey, name)
}

// KeyDown presses a named key.
func (k *zx81Keyboard) KeyDown(name string) error {
	pos, err := k.positions(name)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, p := range pos {
		k.presses[p.row][p.bit]++
	}
	return nil
}

// KeyUp releases a named key. Releasing a key that is not down is a no-op.
func (k *zx81Keyboard) KeyUp(name string) error {
	pos, err := k.positions(name)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, p := range pos {
		if k.presses[p.row][p.bit] > 0 {
			k.presses[p.row][p.bit]--
		}
	}
	return nil
}

// ReleaseAll lifts every key.
func (k *zx81Keyboard) ReleaseAll() {
	k.mu.Lock()
	k.presses = [8][5]int{}
	k.mu.Unlock()
}

// Read returns the five key bits for the half-rows selected by the high
// byte of port. Several rows may be selected at once; their bits are ANDed.
func (k *zx81Keyboard) Read(port uint16) byte {
	sel := byte(port >> 8)
	result := byte(0x1F)
	k.mu.Lock()
	defer k.mu.Unlock()
	for row := range k.presses {
		if sel&(1<<row) != 0 {
			continue
		}
		for bit, n := range k.presses[row] {
			if n > 0 {
				result &^= 1 << bit
			}
		}
	}
	return result
}

// ZX81KeyNames lists every accepted key name, sorted.
func ZX81KeyNames() []string {
	names := make([]string, 0, len(zx81KeyMap)+len(zx81KeyComposites))
	for name := range zx81KeyMap {
		names = append(names, name)
	}
	for name := range zx81KeyComposites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
