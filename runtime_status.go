package main

import "sync"

// runtimeStatusSnapshot is what frontends and scripts may look at without
// going through the runner: the latest stats and the objects in play.
type runtimeStatusSnapshot struct {
	machine *ZX81Machine
	runner  *ZX81Runner

	stats RunnerStats
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setMachine(machine *ZX81Machine, runner *ZX81Runner) {
	s.mu.Lock()
	s.machine = machine
	s.runner = runner
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setStats(stats RunnerStats) {
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

var runtimeStatus = &runtimeStatusStore{}
