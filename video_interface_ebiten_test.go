//go:build !headless

package main

import "testing"

func TestVideoOutput_EbitenImplements(t *testing.T) {
	eo := &EbitenOutput{}
	if _, ok := any(eo).(VideoOutput); !ok {
		t.Fatal("expected EbitenOutput to implement VideoOutput")
	}
}

func TestClampScale(t *testing.T) {
	cases := map[int]int{-1: 1, 0: 1, 1: 1, 3: 3, 6: 6, 7: 6}
	for in, want := range cases {
		if got := ClampScale(in); got != want {
			t.Fatalf("ClampScale(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNewVideoOutputUnknownBackend(t *testing.T) {
	if _, err := NewVideoOutput(42); err == nil {
		t.Fatal("unknown backend accepted")
	}
}
