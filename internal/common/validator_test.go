package common

import (
	"testing"
)

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},          // Channel number
		{"0", true},          // Lock index
		{"12345", true},      // Multi digit
		{"", false},          // Empty string
		{"12345a", false},    // Contains letter
		{"12345 ", false},    // Contains space
		{"-1", false},        // Negative
		{"D12345678", false}, // Device serial
	}

	for _, test := range tests {
		result := IsAllDigits(test.input)
		if result != test.expected {
			t.Errorf("IsAllDigits(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestIsValidEndpoint(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://api.hik-connect.com", true},
		{"https://apiius.hik-connect.com/", true},
		{"http://127.0.0.1:8080", true},
		{"api.hik-connect.com", false},
		{"ftp://api.hik-connect.com", false},
		{"https://", false},
		{"", false},
		{"://bad", false},
	}

	for _, test := range tests {
		result := IsValidEndpoint(test.input)
		if result != test.expected {
			t.Errorf("IsValidEndpoint(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestIsValidFeatureCode(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{DefaultFeatureCode, true},
		{"0123456789ABCDEF", true},
		{"", false},
		{"not-hex", false},
	}

	for _, test := range tests {
		result := IsValidFeatureCode(test.input)
		if result != test.expected {
			t.Errorf("IsValidFeatureCode(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestNewFeatureCode(t *testing.T) {
	code := NewFeatureCode()
	if len(code) != 32 {
		t.Errorf("NewFeatureCode() length = %d, want 32", len(code))
	}
	if !IsValidFeatureCode(code) {
		t.Errorf("NewFeatureCode() = %q is not hex", code)
	}
	if code == NewFeatureCode() {
		t.Error("NewFeatureCode() returned the same code twice")
	}
}
