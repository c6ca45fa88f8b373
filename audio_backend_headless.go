//go:build headless

package main

// AudioSource is pulled from the audio callback goroutine.
type AudioSource interface {
	ReadSample() float32
}

// OtoPlayer without a sound device: samples are drained and discarded so
// the ring never backs up.
type OtoPlayer struct {
	started bool
	source  AudioSource
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(src AudioSource) {
	op.source = src
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	if op.source != nil {
		for range len(p) / 4 {
			op.source.ReadSample()
		}
	}
	clear(p)
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.started = true
}

func (op *OtoPlayer) Stop() {
	op.started = false
}

func (op *OtoPlayer) Close() {
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
