package errors

import (
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "sum", false},
		{"underscore", "_tmp", false},
		{"digits", "in2", false},

		{"empty", "", true},
		{"leading digit", "2in", true},
		{"dash", "my-pin", true},
		{"space", "my pin", true},
		{"too long", "a" + string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/adder.json", false},
		{"absolute", "/tmp/mcl", false},
		{"dotted name", "a..b/c", false},

		{"empty", "", true},
		{"traversal", "out/../../etc", true},
		{"null byte", "out\x00", true},
		{"newline", "out\nx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRedisURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"rediss://cache.internal:6380", false},
		{"", true},
		{"http://localhost:6379", true},
	}

	for _, tt := range tests {
		err := ValidateRedisURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRedisURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateRedisURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfig)
		}
	}
}
