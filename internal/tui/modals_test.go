package tui

import (
	"strings"
	"testing"
)

func TestRenderModalBoxContainsTitleAndBody(t *testing.T) {
	out := renderModalBox(80, "Share", "pick a recipient")
	if !strings.Contains(out, "Share") {
		t.Fatalf("title missing: %q", out)
	}
	if !strings.Contains(out, "pick a recipient") {
		t.Fatalf("body missing: %q", out)
	}
}

func TestModalBodyWidthClamps(t *testing.T) {
	if w := modalBodyWidth(300); w != modalMaxBodyWidth {
		t.Fatalf("wide terminal: got %d, want %d", w, modalMaxBodyWidth)
	}
	if w := modalBodyWidth(10); w != 24 {
		t.Fatalf("narrow terminal: got %d, want 24", w)
	}
}

func TestRenderConfirmModalShowsBothButtons(t *testing.T) {
	out := renderConfirmModal(80, "Delete task", "Delete \"demo\"?", "Delete", "Cancel", confirmFocusCancel)
	for _, want := range []string{"Delete task", "Delete", "Cancel", "esc: cancel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestRenderInputLineStripsNewlines(t *testing.T) {
	out := renderInputLine(40, "abc\ndef\rghi")
	if strings.ContainsAny(out, "\n\r") {
		t.Fatalf("newlines leaked into input line: %q", out)
	}
}
