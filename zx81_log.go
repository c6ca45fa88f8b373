// zx81_log.go - diagnostic output for the ZX81 machine

package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// debugZX81 enables verbose machine diagnostics (-v).
var debugZX81 = false

var zx81LogOutput io.Writer = os.Stderr

func zx81Logf(component, format string, args ...any) {
	fmt.Fprintf(zx81LogOutput, component+": "+format+"\n", args...)
}

func zx81Debugf(component, format string, args ...any) {
	if debugZX81 {
		zx81Logf(component, format, args...)
	}
}

// ZX81_LOG_EVERY is how often a repeating warning is reported after the
// first occurrence.
const ZX81_LOG_EVERY = 1024

// zx81RateLog reports the first occurrence of each key and then every
// ZX81_LOG_EVERY-th, so port-probing software cannot flood stderr.
type zx81RateLog struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newZX81RateLog() *zx81RateLog {
	return &zx81RateLog{counts: make(map[string]uint64)}
}

// Logf returns true when the message was printed.
func (r *zx81RateLog) Logf(component, key, format string, args ...any) bool {
	r.mu.Lock()
	n := r.counts[key]
	r.counts[key] = n + 1
	r.mu.Unlock()
	if n%ZX81_LOG_EVERY != 0 {
		return false
	}
	if n > 0 {
		format += fmt.Sprintf(" (%d times)", n+1)
	}
	zx81Logf(component, format, args...)
	return true
}

// Count reports how often key has been seen.
func (r *zx81RateLog) Count(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}
