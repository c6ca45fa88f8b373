package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/youpy/go-wav"
)

// zx81CaptureSink copies every chunk it is handed.
type zx81CaptureSink struct {
	samples []float32
	pushes  int
}

func (s *zx81CaptureSink) PushSamples(samples []float32) {
	s.pushes++
	s.samples = append(s.samples, samples...)
}

func TestZX81AudioSampleRate(t *testing.T) {
	var sink zx81CaptureSink
	a := NewZX81Audio(ZX81_AUDIO_SAMPLE_RATE, &sink)

	a.Feed(false, ULA81_CPU_CLOCK_HZ)
	a.Flush()

	if len(sink.samples) != ZX81_AUDIO_SAMPLE_RATE {
		t.Fatalf("one second produced %d samples, want %d", len(sink.samples), ZX81_AUDIO_SAMPLE_RATE)
	}
	if sink.pushes < ZX81_AUDIO_SAMPLE_RATE/ZX81_AUDIO_CHUNK {
		t.Fatalf("samples were not delivered in chunks: %d pushes", sink.pushes)
	}
}

func TestZX81AudioLevels(t *testing.T) {
	cyclesPerSample := ULA81_CPU_CLOCK_HZ / ZX81_AUDIO_SAMPLE_RATE
	cases := []struct {
		name  string
		feed  func(a *ZX81Audio)
		level float32
	}{
		{"low", func(a *ZX81Audio) { a.Feed(false, cyclesPerSample*10) }, -ZX81_AUDIO_VOLUME},
		{"high", func(a *ZX81Audio) { a.Feed(true, cyclesPerSample*10) }, ZX81_AUDIO_VOLUME},
		{"square", func(a *ZX81Audio) {
			for range cyclesPerSample * 10 {
				a.Feed(true, 1)
				a.Feed(false, 1)
			}
		}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sink zx81CaptureSink
			a := NewZX81Audio(ZX81_AUDIO_SAMPLE_RATE, &sink)
			tc.feed(a)
			a.Flush()
			if len(sink.samples) < 2 {
				t.Fatalf("too few samples: %d", len(sink.samples))
			}
			got := sink.samples[1]
			if math.Abs(float64(got-tc.level)) > 0.02 {
				t.Fatalf("level = %v, want %v", got, tc.level)
			}
		})
	}
}

func TestZX81AudioResetDropsPartialChunk(t *testing.T) {
	var sink zx81CaptureSink
	a := NewZX81Audio(ZX81_AUDIO_SAMPLE_RATE, &sink)
	a.Feed(true, 10000)
	a.Reset()
	a.Flush()
	if len(sink.samples) != 0 {
		t.Fatalf("Reset kept %d samples", len(sink.samples))
	}
}

func TestZX81SampleRing(t *testing.T) {
	r := newZX81SampleRing(4)
	if got := r.ReadSample(); got != 0 {
		t.Fatalf("empty ring read %v, want silence", got)
	}

	r.PushSamples([]float32{1, 2, 3})
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	r.PushSamples([]float32{4, 5, 6})
	if r.Len() != 4 {
		t.Fatalf("Len = %d, want 4", r.Len())
	}
	// 1 and 2 were overwritten.
	for _, want := range []float32{3, 4, 5, 6} {
		if got := r.ReadSample(); got != want {
			t.Fatalf("ReadSample = %v, want %v", got, want)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("ring not drained")
	}
}

func TestZX81WavRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.wav")
	rec := NewZX81WavRecorder(path, ZX81_AUDIO_SAMPLE_RATE)
	rec.PushSamples([]float32{-1, 0, 0.5, 2})
	if rec.Samples() != 4 {
		t.Fatalf("Samples = %d, want 4", rec.Samples())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if format.NumChannels != 1 || format.SampleRate != ZX81_AUDIO_SAMPLE_RATE || format.BitsPerSample != ZX81_WAV_BITS {
		t.Fatalf("format = %+v", format)
	}
	samples, err := r.ReadSamples(4)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	want := []int{-32767, 0, 16383, 32767}
	if len(samples) != len(want) {
		t.Fatalf("read %d samples, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if got := r.IntValue(samples[i], 0); got != w {
			t.Fatalf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestZX81WavRecorderBadPath(t *testing.T) {
	rec := NewZX81WavRecorder(filepath.Join(t.TempDir(), "missing", "x.wav"), ZX81_AUDIO_SAMPLE_RATE)
	err := rec.Close()
	if err == nil {
		t.Fatalf("Close succeeded on an unwritable path")
	}
	var zerr *ZX81Error
	if !errors.As(err, &zerr) {
		t.Fatalf("err = %T, want *ZX81Error", err)
	}
}

func TestZX81AudioAddSink(t *testing.T) {
	a := NewZX81Audio(ZX81_AUDIO_SAMPLE_RATE)
	if a.SinkCount() != 0 {
		t.Fatalf("SinkCount = %d, want 0", a.SinkCount())
	}
	var first, second zx81CaptureSink
	a.AddSink(&first)
	a.AddSink(&second)
	if a.SinkCount() != 2 {
		t.Fatalf("SinkCount = %d, want 2", a.SinkCount())
	}

	a.Feed(true, ULA81_CPU_CLOCK_HZ/ZX81_AUDIO_SAMPLE_RATE*4)
	a.Flush()
	if len(first.samples) == 0 || len(first.samples) != len(second.samples) {
		t.Fatalf("sinks got %d and %d samples", len(first.samples), len(second.samples))
	}
}
