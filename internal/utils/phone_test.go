package utils

import (
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{
			name:        "Mexican mobile with country code",
			input:       "+525512345678",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "Mexican mobile without country code",
			input:       "5512345678",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "Mexican mobile with spaces",
			input:       "55 1234 5678",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "Mexican mobile with dashes",
			input:       "55-1234-5678",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "Leading and trailing spaces",
			input:       "  5512345678  ",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "International format with country code",
			input:       "+52 55 1234 5678",
			expected:    "+525512345678",
			shouldError: false,
		},
		{
			name:        "US number keeps its own country code",
			input:       "+1 415 555 2671",
			expected:    "+14155552671",
			shouldError: false,
		},
		{
			name:        "Invalid phone number - too short",
			input:       "123",
			expected:    "",
			shouldError: true,
		},
		{
			name:        "Empty string",
			input:       "",
			expected:    "",
			shouldError: true,
		},
		{
			name:        "Letters only",
			input:       "not-a-phone",
			expected:    "",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizePhoneNumber(tt.input)

			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for input %q, got result %q", tt.input, result)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
				return
			}

			if result != tt.expected {
				t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
