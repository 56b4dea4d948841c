// Package progress renders a single-line progress bar for batch lookups.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	barWidth = 30
	// minRedraw throttles redraws so fast batches do not flicker.
	minRedraw = 100 * time.Millisecond
)

// Indicator draws progress of a batch of known or unknown size to w.
// A disabled indicator writes nothing. Safe for concurrent Update calls.
type Indicator struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	label   string
	total   int
	done    int
	started time.Time
	drawn   time.Time
	now     func() time.Time
}

// New creates an indicator for total items. A total of zero or less shows a
// spinner instead of a bar.
func New(w io.Writer, label string, total int, enabled bool) *Indicator {
	return &Indicator{
		w:       w,
		enabled: enabled && w != nil,
		label:   label,
		total:   total,
		now:     time.Now,
	}
}

// Start prints the label and resets the clock.
func (p *Indicator) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = p.now()
	p.drawn = p.started
	if p.enabled {
		fmt.Fprintf(p.w, "%s...\n", p.label)
	}
}

// Update records that done items are finished and redraws when due. The
// final item always redraws.
func (p *Indicator) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = done
	if !p.enabled {
		return
	}

	now := p.now()
	if now.Sub(p.drawn) < minRedraw && (p.total <= 0 || done < p.total) {
		return
	}
	p.drawn = now
	elapsed := now.Sub(p.started)

	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s (%d done)", p.label, spinner(elapsed), done)
		return
	}

	pct := float64(done) / float64(p.total) * 100
	line := fmt.Sprintf("\r%s [%s] %d/%d (%.1f%%)", p.label, Bar(pct), done, p.total, pct)
	if done > 0 && done < p.total && elapsed > 0 {
		left := time.Duration(float64(elapsed) / float64(done) * float64(p.total-done))
		line += " ETA: " + FormatDuration(left)
	}
	fmt.Fprint(p.w, line)
}

// Func adapts the indicator to a per-item callback.
func (p *Indicator) Func() func(done int) {
	return p.Update
}

// Finish prints the completion line.
func (p *Indicator) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	n := p.done
	if p.total > 0 {
		n = p.total
	}
	fmt.Fprintf(p.w, "\r%s done: %d items in %s\n", p.label, n, FormatDuration(p.now().Sub(p.started)))
}

// Fail prints err in place of the completion line.
func (p *Indicator) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	fmt.Fprintf(p.w, "\r%s failed after %s: %v\n", p.label, FormatDuration(p.now().Sub(p.started)), err)
}

// Bar renders pct as a fixed-width bar. The cell after the filled part is
// half-shaded while incomplete.
func Bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)

	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			b.WriteString("█")
		case i == filled && pct < 100:
			b.WriteString("▓")
		default:
			b.WriteString("░")
		}
	}
	return b.String()
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinner(elapsed time.Duration) string {
	return spinnerFrames[int(elapsed/minRedraw)%len(spinnerFrames)]
}

// FormatDuration renders d with a unit suited to its size.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
