package core

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line     string
		expected Action
	}{
		{"w", ActionForward},
		{"walk", ActionForward},
		{"W", ActionForward},
		{"s", ActionBackward},
		{"a", ActionRotateLeft},
		{"d", ActionRotateRight},
		{"r", ActionRestart},
		{"q", ActionQuit},
		{"", ActionNone},
		{"x", ActionNone},
		{" w", ActionNone}, // only the first character counts
		{"\n", ActionNone},
	}

	for _, tc := range tests {
		if got := ParseCommand(tc.line); got != tc.expected {
			t.Errorf("ParseCommand(%q) = %v, expected %v", tc.line, got, tc.expected)
		}
	}
}
