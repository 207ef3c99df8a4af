package trace

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"error", LevelError, true},
		{"warn", LevelWarn, true},
		{"detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"verbose", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseLevel(%q) err = %v", tc.in, err)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var sb strings.Builder
	tr := NewStreamTracer(&sb, LevelWarn)

	tr.Logf(LevelError, "bad input: %s", "x")
	tr.Logf(LevelDebug, "never shown")

	out := sb.String()
	if !strings.Contains(out, "[error] bad input: x") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "never shown") {
		t.Fatalf("debug event leaked through: %q", out)
	}
	if tr.Enabled(LevelDebug) || !tr.Enabled(LevelWarn) {
		t.Fatalf("Enabled filter broken")
	}
}

func TestNopTracerIsSilentlyOff(t *testing.T) {
	if Nop.Enabled(LevelError) {
		t.Fatalf("nop tracer reports events enabled")
	}
	Nop.Logf(LevelError, "dropped")
}
