package validator

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	v := NewPromptValidator()

	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{"ordinary prompt", "What's the weather in Seattle?", false},
		{"single word", "hi", false},
		{"empty", "", true},
		{"whitespace only", "   \t\n", true},
		{"too long", strings.Repeat("a", 4001), true},
		{"invalid utf-8", "hello\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.prompt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.prompt, err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	v := NewPromptValidator()

	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"what's\n\nthe   weather", "what's the weather"},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := v.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
