package main

import (
	"strings"
	"testing"
)

// recordingKeys logs key transitions as +name and -name.
type recordingKeys struct {
	events []string
}

func (k *recordingKeys) KeyDown(name string) error {
	k.events = append(k.events, "+"+name)
	return nil
}

func (k *recordingKeys) KeyUp(name string) error {
	k.events = append(k.events, "-"+name)
	return nil
}

func TestZX81TypistTiming(t *testing.T) {
	typist := newZX81Typist()
	if err := typist.Enqueue("A\""); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	keys := &recordingKeys{}

	var perFrame []string
	for typist.Busy() {
		before := len(keys.events)
		if err := typist.Tick(keys); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		perFrame = append(perFrame, strings.Join(keys.events[before:], " "))
	}

	want := []string{
		"+a", "", "",
		"-a", "", "",
		"+shift +p", "", "",
		"-p -shift", "", "",
	}
	if strings.Join(perFrame, "|") != strings.Join(want, "|") {
		t.Fatalf("frames = %q\nwant     %q", perFrame, want)
	}
	if len(want) != 2*(ZX81_TYPIST_HOLD+ZX81_TYPIST_GAP) {
		t.Fatalf("timing constants changed; update the expected frames")
	}
}

func TestZX81TypistSkipsUntypable(t *testing.T) {
	typist := newZX81Typist()
	err := typist.Enqueue("a!b")
	if err == nil || !strings.Contains(err.Error(), "!") {
		t.Fatalf("Enqueue error = %v, want one naming '!'", err)
	}
	if len(typist.pending) != 2 {
		t.Fatalf("queued %d chords, want 2", len(typist.pending))
	}
}

func TestZX81TypistCancelReleasesHeldKeys(t *testing.T) {
	typist := newZX81Typist()
	if err := typist.Enqueue(";x"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	keys := &recordingKeys{}
	if err := typist.Tick(keys); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	typist.Cancel(keys)

	if got := strings.Join(keys.events, " "); got != "+shift +x -x -shift" {
		t.Fatalf("events = %q", got)
	}
	if typist.Busy() {
		t.Fatalf("typist busy after Cancel")
	}
}
