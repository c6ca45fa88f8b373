package main

import "testing"

func TestParseFlags_Defaults(t *testing.T) {
	opts, file, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if file != "" {
		t.Fatalf("expected no image, got %q", file)
	}
	if opts.romPath != "zx81.rom" || opts.frameEvery != 1 || opts.statsEvery != 50 || opts.scale != 2 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestParseFlags_Image(t *testing.T) {
	opts, file, err := parseFlags([]string{"-rom", "x.rom", "-frames", "10", "-terminal", "game.p"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if file != "game.p" || opts.romPath != "x.rom" || opts.frames != 10 || !opts.terminal {
		t.Fatalf("got %+v, %q", opts, file)
	}
}

func TestParseFlags_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"a.p", "b.p"},
		{"-frames", "-1"},
		{"-frame-every", "-2"},
		{"-nosuchflag"},
	} {
		if _, _, err := parseFlags(args); err == nil {
			t.Fatalf("parseFlags(%v) accepted", args)
		}
	}
}

func TestImageKind(t *testing.T) {
	cases := []struct {
		file  string
		force bool
		want  ZX81ImageKind
	}{
		{"game.p", false, ImageProgram},
		{"GAME.P", false, ImageProgram},
		{"game.81", false, ImageProgram},
		{"demo.bin", false, ImageCode},
		{"game.p", true, ImageCode},
	}
	for _, tc := range cases {
		if got := imageKind(tc.file, tc.force); got != tc.want {
			t.Fatalf("imageKind(%q, %v) = %v, want %v", tc.file, tc.force, got, tc.want)
		}
	}
}
