// zx81_wav.go - record the sync audio to a WAV file

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

import (
	"fmt"
	"os"
	"sync"

	"github.com/youpy/go-wav"
)

const ZX81_WAV_BITS = 16

// ZX81WavRecorder collects samples in memory and writes them out on Close,
// since the WAV header needs the final sample count.
type ZX81WavRecorder struct {
	mu         sync.Mutex
	filename   string
	sampleRate int
	buffer     []wav.Sample
}

func NewZX81WavRecorder(filename string, sampleRate int) *ZX81WavRecorder {
	return &ZX81WavRecorder{filename: filename, sampleRate: sampleRate}
}

func (r *ZX81WavRecorder) PushSamples(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		s = max(-1, min(1, s))
		var w wav.Sample
		w.Values[0] = int(s * 32767)
		r.buffer = append(r.buffer, w)
	}
}

// Samples reports how many samples have been recorded.
func (r *ZX81WavRecorder) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

func (r *ZX81WavRecorder) Close() (rerr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Create(r.filename)
	if err != nil {
		return &ZX81Error{Operation: "write wav", Details: r.filename, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = &ZX81Error{Operation: "write wav", Details: r.filename, Err: err}
		}
	}()

	enc := wav.NewWriter(f, uint32(len(r.buffer)), 1, uint32(r.sampleRate), ZX81_WAV_BITS)
	if enc == nil {
		return &ZX81Error{Operation: "write wav", Details: "bad parameters for wav encoding"}
	}
	if err := enc.WriteSamples(r.buffer); err != nil {
		return &ZX81Error{Operation: "write wav", Details: r.filename, Err: err}
	}
	zx81Logf("wav", "wrote %d samples to %s", len(r.buffer), r.filename)
	return nil
}

func (r *ZX81WavRecorder) String() string {
	return fmt.Sprintf("wav recorder %s (%d Hz)", r.filename, r.sampleRate)
}
