package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestTranslateHostByte(t *testing.T) {
	cases := map[byte]byte{'\r': '\n', 0x7F: '\b', 'a': 'a', '\n': '\n'}
	for in, want := range cases {
		if got := translateHostByte(in); got != want {
			t.Fatalf("translateHostByte(%02X) = %02X, want %02X", in, got, want)
		}
	}
}

func TestTerminalOutputRender(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminalOutput(&out)

	var screen zx81TextScreen
	screen[0][0] = 0x2D // H
	screen[0][1] = 0xAE // inverse I
	if err := term.Render(screen); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, ansiClear+ansiHome) {
		t.Fatalf("first paint does not clear the screen: %q", got[:8])
	}
	if !strings.Contains(got, "H"+ansiReverse+"I"+ansiNormal) {
		t.Fatalf("reverse video not applied: %q", got)
	}
	if strings.Count(got, "\r\n") != ZX81_TEXT_ROWS {
		t.Fatalf("got %d CRLF line ends", strings.Count(got, "\r\n"))
	}

	out.Reset()
	if err := term.Render(screen); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unchanged screen repainted")
	}

	screen[1][0] = 0x26
	if err := term.Render(screen); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out.String(), ansiHome) || strings.Contains(out.String(), ansiClear) {
		t.Fatalf("repaint should home without clearing: %q", out.String()[:8])
	}
}
