package core

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestClock_Elapsed(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewClockWithSource(func() time.Time { return now })

	c.Update()
	if c.Elapsed() != 0 {
		t.Fatalf("Elapsed before Start = %v, want 0", c.Elapsed())
	}

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	if c.Elapsed() != 1.5 {
		t.Errorf("Elapsed = %v, want 1.5", c.Elapsed())
	}

	c.Start()
	c.Update()
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed after restart = %v, want 0", c.Elapsed())
	}
}

func TestMetrics_FPS(t *testing.T) {
	m := NewMetrics()
	refreshed := false
	for i := 0; i < 100; i++ {
		if m.Update(0.01) {
			refreshed = true
			break
		}
	}
	if !refreshed {
		t.Fatalf("FPS never refreshed after one second of frames")
	}
	fps, avg := m.Frame()
	if fps < 99 || fps > 101 {
		t.Errorf("FPS = %v, want ~100", fps)
	}
	if avg < 9.99 || avg > 10.01 {
		t.Errorf("average frame time = %v, want ~10ms", avg)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"", InfoLevel, false},
		{"debug", DebugLevel, false},
		{"WARN", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(WarnLevel)
	t.Cleanup(func() {
		SetLogLevel(InfoLevel)
		SetLogOutput(os.Stderr)
	})

	LogInfo("hidden %d", 1)
	LogWarn("surface %s", "outdated")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "surface outdated") {
		t.Errorf("warn line missing from output: %q", out)
	}
}

func TestWindowID(t *testing.T) {
	a, b := NewWindowID(), NewWindowID()
	if a == b {
		t.Fatalf("two window ids are equal: %s", a)
	}
	if a == NilWindowID {
		t.Fatalf("fresh window id equals NilWindowID")
	}
	if len(a.String()) != 36 {
		t.Errorf("String() = %q, want canonical uuid form", a.String())
	}
}

func TestScrollDelta_Vertical(t *testing.T) {
	var d ScrollDelta = LineDelta{X: 0, Y: -1}
	if d.Vertical() != -1 {
		t.Errorf("LineDelta.Vertical = %v, want -1", d.Vertical())
	}
	d = PixelDelta{X: 3, Y: 12.5}
	if d.Vertical() != 12.5 {
		t.Errorf("PixelDelta.Vertical = %v, want 12.5", d.Vertical())
	}
}
