package common

import "testing"

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hell…" {
		t.Fatalf("unexpected truncate result: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("short text should be unchanged: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("zero width should be empty: %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("  a\nb\t\tc  "); got != "a b c" {
		t.Fatalf("unexpected single line: %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Fatalf("unexpected pad: %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("longer text should be unchanged: %q", got)
	}
}
