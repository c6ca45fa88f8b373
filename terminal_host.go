//go:build !windows

// terminal_host.go - raw stdin for the ZX81 text frontend

package main

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TERMINAL_POLL_INTERVAL is how long the reader sleeps when stdin has
// nothing buffered.
const TERMINAL_POLL_INTERVAL = 5 * time.Millisecond

// TerminalHost reads raw stdin and hands each byte to a callback.
// Only instantiated in main.go for interactive use, never in tests.
type TerminalHost struct {
	onByte func(b byte)

	fd       int
	saved    *term.State
	nonblock bool

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

// Start puts stdin in raw non-blocking mode and polls it from a goroutine.
// Call Stop to restore the terminal.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.finished)
		return &ZX81Error{Operation: "terminal", Details: "set raw mode", Err: err}
	}
	h.saved = saved

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		h.restore()
		close(h.finished)
		return &ZX81Error{Operation: "terminal", Details: "set nonblocking stdin", Err: err}
	}
	h.nonblock = true

	go h.poll()
	return nil
}

func (h *TerminalHost) poll() {
	defer close(h.finished)
	var one [1]byte
	for {
		select {
		case <-h.quit:
			return
		default:
		}
		n, err := syscall.Read(h.fd, one[:])
		switch {
		case n > 0:
			h.onByte(translateHostByte(one[0]))
		case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || (err == nil && n == 0):
			time.Sleep(TERMINAL_POLL_INTERVAL)
		case err != nil:
			return
		}
	}
}

// Stop ends the reader and restores stdin.
func (h *TerminalHost) Stop() {
	h.once.Do(func() { close(h.quit) })
	<-h.finished
	h.restore()
}

func (h *TerminalHost) restore() {
	if h.nonblock {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblock = false
	}
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
