//go:build headless

package main

import (
	"sync"
	"sync/atomic"
	"time"
)

// HeadlessVideoOutput keeps the last frame in memory. It never closes its
// done channel on its own, so a headless run ends when the frame budget
// or a signal says so.
type HeadlessVideoOutput struct {
	mu         sync.Mutex
	started    bool
	config     DisplayConfig
	frame      []byte
	frameCount atomic.Uint64
	done       chan struct{}
	closeOnce  sync.Once
}

func NewEbitenOutput() (VideoOutput, error) {
	return &HeadlessVideoOutput{done: make(chan struct{})}, nil
}

func (h *HeadlessVideoOutput) Start() error {
	h.mu.Lock()
	h.started = true
	h.mu.Unlock()
	return nil
}

func (h *HeadlessVideoOutput) Stop() error {
	h.mu.Lock()
	h.started = false
	h.mu.Unlock()
	return nil
}

func (h *HeadlessVideoOutput) Close() error {
	h.Stop()
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

func (h *HeadlessVideoOutput) IsStarted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

func (h *HeadlessVideoOutput) Done() <-chan struct{} {
	return h.done
}

func (h *HeadlessVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	h.mu.Lock()
	h.config = config
	h.mu.Unlock()
	return nil
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.config
}

func (h *HeadlessVideoOutput) UpdateFrame(buffer []byte) error {
	h.mu.Lock()
	if len(h.frame) != len(buffer) {
		h.frame = make([]byte, len(buffer))
	}
	copy(h.frame, buffer)
	h.mu.Unlock()
	h.frameCount.Add(1)
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return h.frameCount.Load()
}

func (h *HeadlessVideoOutput) GetSnapshot() (FrameSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap := FrameSnapshot{
		Buffer:    append([]byte(nil), h.frame...),
		Width:     h.config.Width,
		Height:    h.config.Height,
		Timestamp: time.Now(),
	}
	return snap, nil
}

func (h *HeadlessVideoOutput) SetKeyHandler(fn KeyEventHandler)     {}
func (h *HeadlessVideoOutput) SetPasteHandler(fn func(text string)) {}
func (h *HeadlessVideoOutput) SetResetHandler(fn func())            {}
