// zx81_audio.go - ZX81 tape/sync output as an audio stream

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

/*
zx81_audio.go - Sync Level Audio

The ZX81 has no sound hardware. Its MIC socket carries the vertical sync
level, so SAVE routines and sound programs make noise by toggling sync with
IN and OUT on port FE. ZX81Audio integrates that level over T-states into
float32 samples and hands them to its sinks: the oto player's ring and the
WAV recorder.
*/

package main

import "sync"

const (
	ZX81_AUDIO_SAMPLE_RATE = 44100
	ZX81_AUDIO_VOLUME      = 0.25
	ZX81_AUDIO_CHUNK       = 512
	ZX81_AUDIO_RING_SIZE   = 8192
)

// ZX81SampleSink receives finished sample chunks. The slice is reused after
// the call returns.
type ZX81SampleSink interface {
	PushSamples(samples []float32)
}

type ZX81Audio struct {
	sampleRate int

	phase   int // CPU clock ticks accumulated towards the next sample
	high    int
	counted int

	chunk []float32
	sinks []ZX81SampleSink
}

func NewZX81Audio(sampleRate int, sinks ...ZX81SampleSink) *ZX81Audio {
	return &ZX81Audio{
		sampleRate: sampleRate,
		chunk:      make([]float32, 0, ZX81_AUDIO_CHUNK),
		sinks:      sinks,
	}
}

func (a *ZX81Audio) AddSink(s ZX81SampleSink) {
	a.sinks = append(a.sinks, s)
}

func (a *ZX81Audio) SinkCount() int {
	return len(a.sinks)
}

func (a *ZX81Audio) Reset() {
	a.phase = 0
	a.high = 0
	a.counted = 0
	a.chunk = a.chunk[:0]
}

// Feed integrates level over the given number of T-states.
func (a *ZX81Audio) Feed(level bool, cycles int) {
	for range cycles {
		a.counted++
		if level {
			a.high++
		}
		a.phase += a.sampleRate
		if a.phase < ULA81_CPU_CLOCK_HZ {
			continue
		}
		a.phase -= ULA81_CPU_CLOCK_HZ

		duty := float32(a.high) / float32(a.counted)
		a.chunk = append(a.chunk, (2*duty-1)*ZX81_AUDIO_VOLUME)
		a.high = 0
		a.counted = 0
		if len(a.chunk) == cap(a.chunk) {
			a.Flush()
		}
	}
}

// Flush pushes any partial chunk to the sinks.
func (a *ZX81Audio) Flush() {
	if len(a.chunk) == 0 {
		return
	}
	for _, s := range a.sinks {
		s.PushSamples(a.chunk)
	}
	a.chunk = a.chunk[:0]
}

// zx81SampleRing hands samples from the emulation goroutine to the audio
// callback. When full the oldest samples are overwritten; when empty the
// reader gets silence.
type zx81SampleRing struct {
	mu         sync.Mutex
	buf        []float32
	head, size int
}

func newZX81SampleRing(capacity int) *zx81SampleRing {
	return &zx81SampleRing{buf: make([]float32, capacity)}
}

func (r *zx81SampleRing) PushSamples(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		tail := (r.head + r.size) % len(r.buf)
		r.buf[tail] = s
		if r.size < len(r.buf) {
			r.size++
		} else {
			r.head = (r.head + 1) % len(r.buf)
		}
	}
}

func (r *zx81SampleRing) ReadSample() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size == 0 {
		return 0
	}
	s := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return s
}

func (r *zx81SampleRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
