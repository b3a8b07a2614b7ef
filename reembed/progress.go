package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Summary is a snapshot of a re-embedding run.
type Summary struct {
	Done    int
	Total   int
	Batches int
	Elapsed time.Duration
}

// Rate returns chunks per second, or 0 before any time has passed.
func (s Summary) Rate() float64 {
	if secs := s.Elapsed.Seconds(); secs > 0 {
		return float64(s.Done) / secs
	}
	return 0
}

// Percent returns the completed share of the run.
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// ETA estimates the remaining time from the current rate.
func (s Summary) ETA() (time.Duration, bool) {
	rate := s.Rate()
	if rate <= 0 || s.Done >= s.Total {
		return 0, false
	}
	return time.Duration(float64(s.Total-s.Done) / rate * float64(time.Second)), true
}

// ProgressTracker prints a single self-overwriting progress line as batches
// complete. Safe for concurrent use.
type ProgressTracker struct {
	mu             sync.Mutex
	writer         io.Writer
	reportInterval int
	lastReported   int
	started        time.Time
	summary        Summary
}

// NewProgressTracker reports to writer (io.Discard when nil) every
// reportInterval chunks out of total.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressTracker{
		writer:         writer,
		reportInterval: max(reportInterval, 1),
		summary:        Summary{Total: total},
	}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.lastReported = 0
	p.summary = Summary{Total: p.summary.Total}
}

// Add records one finished batch of size chunks. Ignored before Start.
func (p *ProgressTracker) Add(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.IsZero() {
		return
	}
	p.summary.Batches++
	p.summary.Done = min(p.summary.Done+size, p.summary.Total)
	if p.summary.Done-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.summary.Done
	}
}

// Current returns the number of chunks processed so far.
func (p *ProgressTracker) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary.Done
}

// Finish marks every chunk done, prints the last line and returns the summary.
func (p *ProgressTracker) Finish() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.IsZero() {
		return p.summary
	}
	p.summary.Done = p.summary.Total
	p.report()
	fmt.Fprintln(p.writer)
	return p.snapshot()
}

// Elapsed returns the time since Start, or 0 before it.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.IsZero() {
		return 0
	}
	return time.Since(p.started)
}

func (p *ProgressTracker) snapshot() Summary {
	s := p.summary
	s.Elapsed = time.Since(p.started)
	return s
}

// report must be called with mu held.
func (p *ProgressTracker) report() {
	s := p.snapshot()
	eta := "-"
	if d, ok := s.ETA(); ok {
		eta = d.Round(time.Second).String()
	}
	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f chunks/s - eta %s",
		s.Done, s.Total, s.Percent(), s.Rate(), eta)
}
