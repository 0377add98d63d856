package utils

import "testing"

func TestMaskPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{
			name:     "standard phone number",
			phone:    "+1234567890",
			expected: "+12****7890",
		},
		{
			name:     "short phone number",
			phone:    "+12345",
			expected: "****",
		},
		{
			name:     "exactly 6 characters",
			phone:    "123456",
			expected: "****",
		},
		{
			name:     "empty string",
			phone:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskPhoneNumber(tt.phone); got != tt.expected {
				t.Errorf("MaskPhoneNumber(%q) = %q, want %q", tt.phone, got, tt.expected)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		max      int
		expected string
	}{
		{
			name:     "short text untouched",
			text:     "hello",
			max:      10,
			expected: "hello",
		},
		{
			name:     "long text truncated",
			text:     "hello world",
			max:      5,
			expected: "hello...",
		},
		{
			name:     "newlines collapsed",
			text:     "line1\nline2",
			max:      20,
			expected: "line1 line2",
		},
		{
			name:     "multibyte safe",
			text:     "سلام دنیا",
			max:      4,
			expected: "سلام...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateText(tt.text, tt.max); got != tt.expected {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.expected)
			}
		})
	}
}
