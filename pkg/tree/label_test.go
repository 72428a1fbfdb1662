package tree

import (
	"testing"

	"github.com/matzehuels/graphize/pkg/value"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		max  int
		want string
	}{
		{"null", value.Null(), 0, "null"},
		{"true", value.Bool(true), 0, "true"},
		{"false", value.Bool(false), 0, "false"},
		{"number literal", value.Number("1.50"), 0, "1.50"},
		{"string", value.String("Alice"), 0, "Alice"},
		{"empty string", value.String(""), 0, `""`},
		{"newline", value.String("a\nb"), 0, `a\nb`},
		{"tab and cr", value.String("a\tb\r"), 0, `a\tb\r`},
		{"other control", value.String("a\x01b"), 0, `a\u0001b`},
		{"truncated", value.String("abcdef"), 3, "abc…"},
		{"exact length", value.String("abc"), 3, "abc"},
		{"runes not bytes", value.String("héllo wörld"), 5, "héllo…"},
		{"no limit", value.String("abcdef"), 0, "abcdef"},
		{"empty sequence", value.Sequence(), 0, "[]"},
		{"empty mapping", value.Mapping(), 0, "{}"},
		{"sequence", value.Sequence(value.Int(1)), 0, "[…]"},
		{"mapping", value.Mapping(value.Member{Key: "a", Value: value.Null()}), 0, "{…}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.v, tt.max); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChildLabel(t *testing.T) {
	tests := []struct {
		name string
		key  string
		v    value.Value
		want string
	}{
		{"leaf", "name", value.String("Alice"), "name: Alice"},
		{"index leaf", "0", value.Int(7), "0: 7"},
		{"null leaf", "x", value.Null(), "x: null"},
		{"container", "pets", value.Sequence(value.String("Rex")), "pets"},
		{"empty container", "tags", value.Sequence(), "tags: []"},
		{"empty key", "", value.Bool(true), `"": true`},
		{"key with newline", "a\nb", value.Int(1), `a\nb: 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChildLabel(tt.key, tt.v, DefaultMaxLabel); got != tt.want {
				t.Errorf("ChildLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeKey(t *testing.T) {
	tests := map[string]string{
		"plain": "plain",
		"a/b":   "a~1b",
		"a~b":   "a~0b",
		"~/":    "~0~1",
		"~1":    "~01",
	}
	for in, want := range tests {
		if got := EscapeKey(in); got != want {
			t.Errorf("EscapeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
