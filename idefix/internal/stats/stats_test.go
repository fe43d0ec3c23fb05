package stats

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestMessageStats_IncrementCategory(t *testing.T) {
	s := NewMessageStats()
	s.IncrementCategory(48)
	s.IncrementCategory(48)
	s.IncrementCategory(21)

	if s.TotalMessages != 3 {
		t.Fatalf("expected 3 total messages, got %d", s.TotalMessages)
	}
	if s.ByCategory[48] != 2 {
		t.Errorf("expected 2 for category 48, got %d", s.ByCategory[48])
	}
	if s.ByCategory[21] != 1 {
		t.Errorf("expected 1 for category 21, got %d", s.ByCategory[21])
	}
}

func TestMessageStats_LogStats_EmptyIsNoop(t *testing.T) {
	s := NewMessageStats()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s.LogStats(logger, true)

	if buf.Len() != 0 {
		t.Errorf("expected no log output for zero messages, got %q", buf.String())
	}
}

func TestMessageStats_LogStats_FinalIncludesPercentages(t *testing.T) {
	s := NewMessageStats()
	s.IncrementCategory(48)
	s.IncrementCategory(48)
	s.IncrementCategory(21)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s.LogStats(logger, true)

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("cat048")) {
		t.Errorf("expected category 48 label in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("cat048_pct")) {
		t.Errorf("expected final-pass percentage field, got %q", out)
	}
}
