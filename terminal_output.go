// terminal_output.go - render the ZX81 display file as ANSI text

package main

import (
	"bytes"
	"io"
	"sync"
)

const (
	ansiHome    = "\x1b[H"
	ansiClear   = "\x1b[2J"
	ansiReverse = "\x1b[7m"
	ansiNormal  = "\x1b[0m"
)

// translateHostByte maps raw terminal bytes to what the typist expects:
// raw mode sends CR for Enter and DEL for Backspace.
func translateHostByte(b byte) byte {
	switch b {
	case '\r':
		return '\n'
	case 0x7F:
		return '\b'
	}
	return b
}

// TerminalOutput repaints the screen only when the display file changed.
// Lines end in CRLF because the terminal is in raw mode.
type TerminalOutput struct {
	mutex   sync.Mutex
	out     io.Writer
	last    zx81TextScreen
	painted bool
	buf     bytes.Buffer
}

func NewTerminalOutput(out io.Writer) *TerminalOutput {
	return &TerminalOutput{out: out}
}

// Render writes screen if it differs from the last one shown.
func (t *TerminalOutput) Render(screen zx81TextScreen) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.painted && screen == t.last {
		return nil
	}

	t.buf.Reset()
	if !t.painted {
		t.buf.WriteString(ansiClear)
	}
	t.buf.WriteString(ansiHome)
	for row := range screen {
		reversed := false
		for _, code := range screen[row] {
			r, inverse := zx81Glyph(code)
			if inverse != reversed {
				if inverse {
					t.buf.WriteString(ansiReverse)
				} else {
					t.buf.WriteString(ansiNormal)
				}
				reversed = inverse
			}
			t.buf.WriteRune(r)
		}
		if reversed {
			t.buf.WriteString(ansiNormal)
		}
		t.buf.WriteString("\r\n")
	}

	if _, err := t.out.Write(t.buf.Bytes()); err != nil {
		return err
	}
	t.last = screen
	t.painted = true
	return nil
}
