package logger

import (
	"strings"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "zero limit", input: "hello", limit: 0, expected: ""},
		{name: "under limit", input: "hello", limit: 10, expected: "hello"},
		{name: "exact limit", input: "hello", limit: 5, expected: "hello"},
		{name: "over limit", input: "hello world", limit: 5, expected: "hello..."},
		{name: "trims whitespace", input: "  hello  ", limit: 10, expected: "hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateForLog(tc.input, tc.limit); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestTruncateForLogMultibyte(t *testing.T) {
	input := strings.Repeat("п", 20)
	got := TruncateForLog(input, 10)
	if got != strings.Repeat("п", 10)+"..." {
		t.Fatalf("unexpected truncation of multibyte input: %q", got)
	}
}

func TestWithProviderNilLogger(t *testing.T) {
	logger := WithProvider(nil, "groq", "llama-3.3-70b-versatile")
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
	// Must not panic.
	logger.Debug("provider attached")
}
