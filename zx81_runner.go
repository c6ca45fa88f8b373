// zx81_runner.go - worker goroutine that owns a ZX81 machine

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
zx81_runner.go - ZX81 Runner

The runner serialises all access to a machine through one worker goroutine.
Callers post commands (frame requests, key changes, pause, arbitrary machine
functions) into a FIFO; the worker executes them in order, one at a time.
Nothing is ever dropped or reordered.

Pause is posted like any other command, so frames queued before it still
run. From the moment Pause is called new frame requests are refused with
ErrRunnerPaused; when the worker reaches the pause it delivers a memory
snapshot through OnSnapshot.

Results are delivered from the worker goroutine through the callbacks in
RunnerConfig. Callbacks must not call back into the runner synchronously.
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrRunnerPaused  = errors.New("runner is paused")
	ErrRunnerStopped = errors.New("runner is stopped")
)

const ZX81_FAULT_WINDOW = 8

type RunnerStats struct {
	Frames     uint64
	AvgFrame   time.Duration
	FPS        float64
	QueueDepth int
}

type RunnerConfig struct {
	FrameEvery int // deliver every Nth frame through OnFrame; 0 disables
	StatsEvery int // deliver stats every N frames; 0 disables

	OnFrame    func(frame []byte, number uint64)
	OnStats    func(RunnerStats)
	OnSnapshot func(memory []byte)
	OnFault    func(err error, window []Z80DisasmLine)
}

type runnerCommandKind int

const (
	runnerCmdFrame runnerCommandKind = iota
	runnerCmdPause
	runnerCmdDo
)

type runnerCommand struct {
	kind runnerCommandKind
	fn   func(m *ZX81Machine) error
	done chan error
}

type ZX81Runner struct {
	machine *ZX81Machine
	config  RunnerConfig

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []runnerCommand
	paused  bool
	stopped bool
	fault   error

	execMu     sync.Mutex
	execActive bool
	execDone   chan struct{}

	// Worker-owned statistics.
	typist     *zx81Typist
	frames     uint64
	statFrames int
	statTime   time.Duration
	frameCopy  []byte
}

func NewZX81Runner(machine *ZX81Machine, config RunnerConfig) *ZX81Runner {
	r := &ZX81Runner{machine: machine, config: config, typist: newZX81Typist()}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Start launches the worker. Calling it on a running runner does nothing.
func (r *ZX81Runner) Start() {
	r.execMu.Lock()
	defer r.execMu.Unlock()
	if r.execActive {
		return
	}
	r.mu.Lock()
	r.stopped = false
	r.mu.Unlock()

	r.execActive = true
	r.execDone = make(chan struct{})
	go func() {
		defer func() {
			r.execMu.Lock()
			r.execActive = false
			close(r.execDone)
			r.execMu.Unlock()
		}()
		r.work()
		r.machine.FlushAudio()
	}()
}

// Stop lets the worker finish everything already queued, then waits for it
// to exit. Samples still in the audio tap are flushed on the way out.
func (r *ZX81Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.cond.Broadcast()
	r.mu.Unlock()

	r.execMu.Lock()
	if !r.execActive {
		r.execMu.Unlock()
		return
	}
	done := r.execDone
	r.execMu.Unlock()
	<-done
}

func (r *ZX81Runner) post(cmd runnerCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.postLocked(cmd)
}

func (r *ZX81Runner) postLocked(cmd runnerCommand) error {
	switch {
	case r.fault != nil:
		return r.fault
	case r.stopped:
		return ErrRunnerStopped
	case r.paused && cmd.kind == runnerCmdFrame:
		return ErrRunnerPaused
	}
	r.queue = append(r.queue, cmd)
	r.cond.Signal()
	return nil
}

// RequestFrame queues one frame of emulation.
func (r *ZX81Runner) RequestFrame() error {
	return r.post(runnerCommand{kind: runnerCmdFrame})
}

// Pause refuses further frames and, once the queue ahead of it has
// drained, emits a memory snapshot.
func (r *ZX81Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.postLocked(runnerCommand{kind: runnerCmdPause}); err != nil {
		return err
	}
	r.paused = true
	return nil
}

func (r *ZX81Runner) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
}

func (r *ZX81Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Do queues fn to run on the worker and returns without waiting.
func (r *ZX81Runner) Do(fn func(m *ZX81Machine) error) error {
	return r.post(runnerCommand{kind: runnerCmdDo, fn: fn})
}

// Call runs fn on the worker and waits for its result.
func (r *ZX81Runner) Call(fn func(m *ZX81Machine) error) error {
	done := make(chan error, 1)
	if err := r.post(runnerCommand{kind: runnerCmdDo, fn: fn, done: done}); err != nil {
		return err
	}
	return <-done
}

func (r *ZX81Runner) KeyDown(name string) error {
	if !zx81KeyKnown(name) {
		return fmt.Errorf("zx81: %w %q", ErrUnknownKey, name)
	}
	return r.Do(func(m *ZX81Machine) error { return m.KeyDown(name) })
}

func (r *ZX81Runner) KeyUp(name string) error {
	if !zx81KeyKnown(name) {
		return fmt.Errorf("zx81: %w %q", ErrUnknownKey, name)
	}
	return r.Do(func(m *ZX81Machine) error { return m.KeyUp(name) })
}

// Type queues text to be typed one key chord at a time as frames run.
func (r *ZX81Runner) Type(text string) error {
	return r.Do(func(m *ZX81Machine) error { return r.typist.Enqueue(text) })
}

// Reset power-cycles the machine after any frames already queued, dropping
// text still waiting to be typed.
func (r *ZX81Runner) Reset() error {
	return r.Do(func(m *ZX81Machine) error {
		r.typist.Cancel(m)
		m.Reset()
		return nil
	})
}

// QueueDepth reports the number of commands waiting.
func (r *ZX81Runner) QueueDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Fault returns the error that stopped the worker, if any.
func (r *ZX81Runner) Fault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fault
}

func (r *ZX81Runner) work() {
	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.stopped {
			r.cond.Wait()
		}
		if len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}
		cmd := r.queue[0]
		r.queue[0] = runnerCommand{}
		r.queue = r.queue[1:]
		depth := len(r.queue)
		r.mu.Unlock()

		if err := r.execute(cmd, depth); err != nil {
			r.failed(err)
			return
		}
	}
}

func (r *ZX81Runner) execute(cmd runnerCommand, depth int) error {
	switch cmd.kind {
	case runnerCmdFrame:
		return r.runFrame(depth)
	case runnerCmdPause:
		r.machine.FlushAudio()
		if r.config.OnSnapshot != nil {
			r.config.OnSnapshot(r.machine.MemorySnapshot())
		}
		zx81Debugf("runner", "paused after %d frames", r.frames)
	case runnerCmdDo:
		err := cmd.fn(r.machine)
		if cmd.done != nil {
			cmd.done <- err
		} else if err != nil {
			zx81Logf("runner", "%v", err)
		}
	}
	return nil
}

func (r *ZX81Runner) runFrame(depth int) error {
	start := time.Now()
	if err := r.typist.Tick(r.machine); err != nil {
		return err
	}
	if err := r.machine.RunFrame(); err != nil {
		return err
	}
	r.frames++
	r.statFrames++
	r.statTime += time.Since(start)

	if n := r.config.FrameEvery; n > 0 && r.frames%uint64(n) == 0 && r.config.OnFrame != nil {
		frame := r.machine.Frame()
		if len(r.frameCopy) != len(frame) {
			r.frameCopy = make([]byte, len(frame))
		}
		copy(r.frameCopy, frame)
		r.config.OnFrame(r.frameCopy, r.frames)
	}

	if n := r.config.StatsEvery; n > 0 && r.statFrames >= n {
		avg := r.statTime / time.Duration(r.statFrames)
		stats := RunnerStats{Frames: r.frames, AvgFrame: avg, QueueDepth: depth}
		if avg > 0 {
			stats.FPS = float64(time.Second) / float64(avg)
		}
		runtimeStatus.setStats(stats)
		if r.config.OnStats != nil {
			r.config.OnStats(stats)
		}
		r.statFrames = 0
		r.statTime = 0
	}
	return nil
}

// failed records a fatal machine error, reports it with the code around
// the faulting PC and releases anyone waiting on queued calls.
func (r *ZX81Runner) failed(err error) {
	pc := r.machine.CPU().PC
	var decodeErr *Z80DecodeError
	if errors.As(err, &decodeErr) {
		pc = decodeErr.PC
	}
	window := disassembleZ80Window(r.machine.Peek, pc, ZX81_FAULT_WINDOW)

	var b strings.Builder
	for _, line := range window {
		b.WriteString("\n    ")
		b.WriteString(line.String())
	}
	zx81Logf("runner", "stopped after %d frames: %v%s", r.frames, err, b.String())

	r.mu.Lock()
	r.fault = err
	pending := r.queue
	r.queue = nil
	r.mu.Unlock()
	for _, cmd := range pending {
		if cmd.done != nil {
			cmd.done <- err
		}
	}

	if r.config.OnFault != nil {
		r.config.OnFault(err, window)
	}
}
