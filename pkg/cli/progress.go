package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress for long-running operations.
type ProgressReporter interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)
}

// syncProgress renders a one-line character sync bar on a terminal.
type syncProgress struct {
	mu      sync.Mutex
	total   int64
	current int64
	started time.Time
	writer  io.Writer
}

const syncBarWidth = 30

// NewProgressReporter creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stdout.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &syncProgress{writer: w}
}

func (p *syncProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.started = time.Now()

	p.render()
}

func (p *syncProgress) Update(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.render()
}

// Finish completes the bar and moves off the rewrite line.
func (p *syncProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	p.render()
	fmt.Fprintf(p.writer, " done in %s\n", time.Since(p.started).Round(time.Millisecond))
}

func (p *syncProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ sync failed: %v\n", err)
}

func (p *syncProgress) render() {
	if p.total == 0 {
		return
	}

	filled := int(syncBarWidth * p.current / p.total)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", syncBarWidth-filled)

	// The first render happens before any character lands, so the rate
	// divisor needs a floor.
	elapsed := time.Since(p.started).Seconds()
	if elapsed < 0.001 {
		elapsed = 0.001
	}
	rate := float64(p.current) / elapsed

	fmt.Fprintf(p.writer, "\rSyncing characters [%s] %d/%d (%.1f characters/s)",
		bar, p.current, p.total, rate)
}
