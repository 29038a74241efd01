package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDurationUS(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{time.Microsecond, 1},
		{time.Millisecond, 1000},
		{1500 * time.Nanosecond, 1.5},
		{0, 0},
	}
	for _, tt := range tests {
		if got := DurationUS(tt.d); got != tt.want {
			t.Errorf("DurationUS(%v) = %f, want %f", tt.d, got, tt.want)
		}
	}
}

func TestPrintTimingStats(t *testing.T) {
	oldOutput := Output
	oldVerbose := Verbose
	defer func() {
		Output = oldOutput
		Verbose = oldVerbose
	}()

	var buf bytes.Buffer
	Output = &buf
	Verbose = true

	stats := &TimingStats{
		TotalTime:       time.Second,
		ForwardPassTime: 400 * time.Millisecond,
	}
	PrintTimingStats(stats, 10)

	out := buf.String()
	if !strings.Contains(out, "TIMING STATISTICS") {
		t.Errorf("output missing header:\n%s", out)
	}
	if !strings.Contains(out, "Forward pass: 400ms (40.0%)") {
		t.Errorf("output missing forward pass breakdown:\n%s", out)
	}

	buf.Reset()
	Verbose = false
	PrintTimingStats(stats, 10)
	if buf.Len() != 0 {
		t.Error("Expected no output when Verbose is false")
	}

	buf.Reset()
	Verbose = true
	PrintTimingStats(stats, 0)
	if buf.Len() != 0 {
		t.Error("Expected no output for zero steps")
	}
}
