package util

import "testing"

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "parentheses and spaces", input: "iPad Pro (11-inch)", want: "ipad-pro-11-inch"},
		{name: "simulator udid", input: "8C1A2B3C-4D5E-6F70-8899-AABBCCDDEEFF", want: "8c1a2b3c-4d5e-6f70-8899-aabbccddeeff"},
		{name: "device name", input: "iPhone 15 Pro", want: "iphone-15-pro"},
		{name: "leading trailing spaces", input: "  spaces  ", want: "spaces"},
		{name: "uppercase", input: "UPPERCASE", want: "uppercase"},
		{name: "already valid", input: "already-valid", want: "already-valid"},
		{name: "collapse hyphens", input: "a--b", want: "a-b"},
		{name: "empty string", input: "", want: ""},
		{name: "underscores preserved", input: "my_test_name", want: "my_test_name"},
		{name: "mixed special chars", input: "test!@#$%^&*name", want: "testname"},
		{name: "trailing hyphen after strip", input: "test-", want: "test"},
		{name: "leading hyphen after strip", input: "-test", want: "test"},
		{name: "only special chars", input: "()", want: ""},
		{name: "numbers", input: "test-123", want: "test-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeForFilename(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeForFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
