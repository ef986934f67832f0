package validate

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "test@example.com", want: true},
		{input: "first.last+tag@farm.co.ke", want: true},
		{input: "invalid-email", want: false},
		{input: "", want: false},
		{input: "no-domain@", want: false},
		{input: "@example.com", want: false},
		{input: "user@localhost", want: false},
		{input: "two@@example.com", want: false},
		{input: "space in@example.com", want: false},
		{input: "user@example.", want: false},
		{input: "a\u00a0b@example.com", want: false},
		{input: "a\vb@example.com", want: false},
		{input: "ab@exa\u2003mple.com", want: false},
		{input: "ab@example.c\ufeffom", want: false},
	}

	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "+1234567890", want: true},
		{input: "123", want: false},
		{input: "(254) 712-345-678", want: true},
		{input: "+254 712 345 678", want: true},
		{input: "123456789", want: false},
		{input: "", want: false},
		{input: "12345abcde67890", want: false},
		{input: "++1234567890", want: false},
		{input: "1234567890+", want: false},
		{input: "--- --- ----", want: false},
		{input: "123 456\u00a07890", want: true},
		{input: "+254\u2003712\v345\u00a0678", want: true},
	}

	for _, tt := range tests {
		if got := Phone(tt.input); got != tt.want {
			t.Errorf("Phone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
