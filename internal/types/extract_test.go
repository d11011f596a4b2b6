package types

import (
	"testing"
)

func TestExtractString(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want string
	}{
		{"string", "hello", "hello"},
		{"int64", int64(42), "42"},
		{"int", 7, "7"},
		{"float64", 3.0, "3"},
		{"bool true", true, "true"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractString(tt.arg)
			if got != tt.want {
				t.Errorf("ExtractString(%v) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestExtractStrings(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
		want int
	}{
		{"json array", []any{"a", "b", ""}, 2},
		{"string slice", []string{"x"}, 1},
		{"comma string", "red, blue ,", 2},
		{"number", 4.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStrings(tt.arg); len(got) != tt.want {
				t.Errorf("ExtractStrings(%v) = %v, want %d items", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParams_Aliases(t *testing.T) {
	p := Params{"source": "a.txt", "destination": "  ", "to": "Docs/a.txt"}

	if got := p.String("from", "source"); got != "a.txt" {
		t.Errorf("from alias = %q, want a.txt", got)
	}
	if got := p.String("destination", "to"); got != "Docs/a.txt" {
		t.Errorf("blank alias should be skipped, got %q", got)
	}
	if got := p.String("missing"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
}

func TestParams_Bool(t *testing.T) {
	p := Params{"a": true, "b": "yes", "c": "nope"}
	if !p.Bool("a") || !p.Bool("b") {
		t.Error("expected a and b to be true")
	}
	if p.Bool("c") || p.Bool("d") {
		t.Error("expected c and d to be false")
	}
}
