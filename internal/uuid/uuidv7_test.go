package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew_Version7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New returned unparsable id %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestNew_StrictlyIncreasing(t *testing.T) {
	prev := New()
	for i := 0; i < 5000; i++ {
		next := New()
		if next <= prev {
			t.Fatalf("id %d not increasing: %s <= %s", i, next, prev)
		}
		prev = next
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "v7", input: New(), valid: true},
		{name: "upper_case", input: "0192F3A4-5B6C-7D8E-9F00-112233445566", valid: true},
		{name: "empty", input: "", valid: false},
		{name: "garbage", input: "not-a-uuid", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}
