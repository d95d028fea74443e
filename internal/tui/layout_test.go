package tui

import (
	"strings"
	"testing"
)

func TestNormalizePanePadsAndTruncates(t *testing.T) {
	out := normalizePane("ab\nthis line is too long", 10, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if lines[0] != "ab        " {
		t.Fatalf("short line not padded: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("long line not truncated with ellipsis: %q", lines[1])
	}
	if lines[3] != strings.Repeat(" ", 10) {
		t.Fatalf("missing line not padded: %q", lines[3])
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("hello", 10); got != "hello" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := truncateLine("hello world", 6); got != "hello…" {
		t.Fatalf("got %q", got)
	}
	if got := truncateLine("anything", 0); got != "" {
		t.Fatalf("zero width: %q", got)
	}
}
