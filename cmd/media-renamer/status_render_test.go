package main

import (
	"bytes"
	"strings"
	"testing"

	"mediarenamer/internal/renamer"
)

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Input", statusError, "missing", false)
	if !strings.Contains(plain, "Input:") || !strings.Contains(plain, "[ERROR] missing") {
		t.Fatalf("unexpected status line: %q", plain)
	}
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("plain line should not contain escape codes: %q", plain)
	}
	colored := renderStatusLine("Input", statusOK, "", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green line, got %q", colored)
	}
}

func TestColorizeOutcome(t *testing.T) {
	tests := []struct {
		outcome renamer.Outcome
		color   string
	}{
		{renamer.OutcomeDone, ansiGreen},
		{renamer.OutcomePlanned, ansiGreen},
		{renamer.OutcomeFailed, ansiRed},
		{renamer.OutcomeLookupFailed, ansiRed},
		{renamer.OutcomeExists, ansiYellow},
		{renamer.OutcomeUnparsed, ansiYellow},
	}
	for _, tt := range tests {
		got := colorizeOutcome(tt.outcome, true)
		if !strings.HasPrefix(got, tt.color) {
			t.Errorf("%s: got %q, want prefix %q", tt.outcome, got, tt.color)
		}
		if plain := colorizeOutcome(tt.outcome, false); plain != string(tt.outcome) {
			t.Errorf("%s: plain = %q", tt.outcome, plain)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRelativeTo(t *testing.T) {
	if got := relativeTo("/lib", "/lib/TV/x.mkv"); got != "TV/x.mkv" {
		t.Fatalf("got %q", got)
	}
	if got := relativeTo("/lib", "/other/x.mkv"); got != "/other/x.mkv" {
		t.Fatalf("got %q", got)
	}
	if got := relativeTo("/lib", ""); got != "" {
		t.Fatalf("got %q", got)
	}
}
