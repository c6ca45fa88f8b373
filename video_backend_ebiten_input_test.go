//go:build !headless

package main

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestClipboardPaste_Normalize(t *testing.T) {
	in := []byte("a\r\nb\rc\n")
	got := normalizePasteText(in)
	want := "a\nb\nc\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestClipboardPaste_Cap(t *testing.T) {
	in := []byte(strings.Repeat("x", ZX81_PASTE_LIMIT+100))
	got := normalizePasteText(in)
	if len(got) != ZX81_PASTE_LIMIT {
		t.Fatalf("expected capped length %d, got %d", ZX81_PASTE_LIMIT, len(got))
	}
}

func TestKeyTranslation_AllKnown(t *testing.T) {
	for key, name := range ebitenZX81Keys {
		if !zx81KeyKnown(name) {
			t.Fatalf("%v maps to unknown ZX81 key %q", key, name)
		}
	}
}

func TestKeyTranslation_Special(t *testing.T) {
	cases := map[ebiten.Key]string{
		ebiten.KeyEnter:      "enter",
		ebiten.KeyBackspace:  "delete",
		ebiten.KeyArrowLeft:  "left",
		ebiten.KeyShiftRight: "shift",
		ebiten.KeyPeriod:     ".",
	}
	for key, want := range cases {
		if got := ebitenZX81Keys[key]; got != want {
			t.Fatalf("%v -> %q, want %q", key, got, want)
		}
	}
	if _, ok := ebitenZX81Keys[ebiten.KeyF10]; ok {
		t.Fatalf("F10 is reserved for reset")
	}
}

func TestEbitenOutput_DisplayConfig(t *testing.T) {
	out, err := NewEbitenOutput()
	if err != nil {
		t.Fatalf("NewEbitenOutput: %v", err)
	}
	if err := out.SetDisplayConfig(DisplayConfig{Width: 320, Height: 256, Scale: 9, Title: "t"}); err != nil {
		t.Fatalf("SetDisplayConfig: %v", err)
	}
	got := out.GetDisplayConfig()
	if got.Scale != DISPLAY_MAX_SCALE || got.Title != "t" {
		t.Fatalf("config = %+v", got)
	}
	if err := out.UpdateFrame(make([]byte, 10)); err == nil {
		t.Fatalf("short frame accepted")
	}
	if err := out.UpdateFrame(make([]byte, 320*256*4)); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
}
