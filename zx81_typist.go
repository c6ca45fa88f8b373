// zx81_typist.go - type host text into the ZX81 keyboard over frames

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

// The ROM scans the keyboard once per frame and needs a key to be seen
// down and then up to register a second press of the same key.
const (
	ZX81_TYPIST_HOLD = 3 // frames a chord is held
	ZX81_TYPIST_GAP  = 3 // frames between chords
)

type zx81KeyPresser interface {
	KeyDown(name string) error
	KeyUp(name string) error
}

// zx81Typist turns text into timed key chords. It is driven once per frame
// from the runner's worker.
type zx81Typist struct {
	pending [][]string
	held    []string
	wait    int
}

func newZX81Typist() *zx81Typist {
	return &zx81Typist{}
}

// Enqueue appends text. Characters with no key are skipped and reported.
func (t *zx81Typist) Enqueue(text string) error {
	var skipped []rune
	for _, r := range text {
		keys := zx81KeysFor(r)
		if keys == nil {
			skipped = append(skipped, r)
			continue
		}
		t.pending = append(t.pending, keys)
	}
	if len(skipped) > 0 {
		return fmt.Errorf("zx81: cannot type %q", string(skipped))
	}
	return nil
}

// Busy reports whether keys are still queued or held.
func (t *zx81Typist) Busy() bool {
	return len(t.pending) > 0 || t.held != nil || t.wait > 0
}

// Tick advances the typist by one frame.
func (t *zx81Typist) Tick(kb zx81KeyPresser) error {
	if t.wait > 0 {
		t.wait--
		return nil
	}
	if t.held != nil {
		for i := len(t.held) - 1; i >= 0; i-- {
			if err := kb.KeyUp(t.held[i]); err != nil {
				return err
			}
		}
		t.held = nil
		t.wait = ZX81_TYPIST_GAP - 1
		return nil
	}
	if len(t.pending) == 0 {
		return nil
	}
	chord := t.pending[0]
	t.pending = t.pending[1:]
	for _, key := range chord {
		if err := kb.KeyDown(key); err != nil {
			return err
		}
	}
	t.held = chord
	t.wait = ZX81_TYPIST_HOLD - 1
	return nil
}

// Cancel drops queued text and releases anything held.
func (t *zx81Typist) Cancel(kb zx81KeyPresser) {
	for i := len(t.held) - 1; i >= 0; i-- {
		_ = kb.KeyUp(t.held[i])
	}
	t.pending = nil
	t.held = nil
	t.wait = 0
}
