package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

// clock advances by step on every read.
func clock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct      float64
		expected string
	}{
		{0, "▓" + strings.Repeat("░", 29)},
		{50, strings.Repeat("█", 15) + "▓" + strings.Repeat("░", 14)},
		{100, strings.Repeat("█", 30)},
		{150, strings.Repeat("█", 30)},
		{-10, "▓" + strings.Repeat("░", 29)},
	}

	for _, tt := range tests {
		if got := Bar(tt.pct); got != tt.expected {
			t.Errorf("Bar(%v) = %q, want %q", tt.pct, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
		{3 * time.Hour, "3.0h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}

func TestIndicator_Bar(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Prices", 4, true)
	p.now = clock(time.Second)

	p.Start()
	update := p.Func()
	for i := 1; i <= 4; i++ {
		update(i)
	}
	p.Finish()

	out := buf.String()
	for _, want := range []string{"Prices...\n", "1/4 (25.0%)", "ETA:", "4/4 (100.0%)", "done: 4 items"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIndicator_Throttle(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Prices", 3, true)
	p.now = clock(time.Millisecond)

	p.Start()
	p.Update(1)
	p.Update(2)
	if strings.Contains(buf.String(), "1/3") || strings.Contains(buf.String(), "2/3") {
		t.Errorf("redraw should be throttled, got %q", buf.String())
	}
	p.Update(3)
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("final item should always redraw, got %q", buf.String())
	}
}

func TestIndicator_Spinner(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Scanning", 0, true)
	p.now = clock(time.Second)

	p.Start()
	p.Update(7)
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, "(7 done)") || !strings.Contains(out, "done: 7 items") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestIndicator_Disabled(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Quiet", 2, false)

	p.Start()
	p.Update(1)
	p.Finish()
	p.Fail(errors.New("boom"))

	if buf.Len() != 0 {
		t.Errorf("disabled indicator wrote %q", buf.String())
	}
}

func TestIndicator_Fail(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Prices", 2, true)
	p.now = clock(2 * time.Second)

	p.Start()
	p.Fail(errors.New("marketplace down"))

	if !strings.Contains(buf.String(), "failed after 2.0s: marketplace down") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
