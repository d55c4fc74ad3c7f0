package searchlog

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"dune", true},
		{"1984", true},
		{"в", false},
		{"", false},
		{"aaaa", false},
		{"!!!!", false},
		{"ok", true},
		{"  ", false},
		{"матриця", true},
	}

	for _, tt := range tests {
		if got := Valid(tt.query); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
