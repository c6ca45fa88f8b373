//go:build windows

// terminal_host_windows.go - raw console input for the ZX81 text frontend

package main

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalHost reads the raw console and hands each byte to a callback.
// Console reads block, so Stop returns only after the next key arrives.
type TerminalHost struct {
	onByte func(b byte)

	fd    int
	saved *term.State

	quit     chan struct{}
	finished chan struct{}
	once     sync.Once
}

func NewTerminalHost(onByte func(b byte)) *TerminalHost {
	return &TerminalHost{
		onByte:   onByte,
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.finished)
		return &ZX81Error{Operation: "terminal", Details: "set raw mode", Err: err}
	}
	h.saved = saved
	go h.read()
	return nil
}

func (h *TerminalHost) read() {
	defer close(h.finished)
	var one [1]byte
	for {
		n, err := os.Stdin.Read(one[:])
		select {
		case <-h.quit:
			return
		default:
		}
		if n > 0 {
			h.onByte(translateHostByte(one[0]))
		}
		if err != nil {
			return
		}
	}
}

func (h *TerminalHost) Stop() {
	h.once.Do(func() { close(h.quit) })
	<-h.finished
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
