package util

import "testing"

func TestPreview(t *testing.T) {
	if got := Preview("short text", 50); got != "short text" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("one\n\ttwo   three", 50); got != "one two three" {
		t.Fatalf("got %q", got)
	}
	if got := Preview("abcdefgh", 4); got != "abcd…" {
		t.Fatalf("got %q", got)
	}
}
