package message

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		command string
		args    []string
	}{
		{"!ping", "ping", nil},
		{"!PING", "ping", nil},
		{"  !echo   hello   world ", "echo", []string{"hello", "world"}},
		{"!hangman guess ab", "hangman", []string{"guess", "ab"}},
		{"hello there", "", nil},
		{"", "", nil},
		{"!", "", nil},
		{"say !ping", "", nil},
	}

	for _, tt := range tests {
		m := Parse(tt.text, "alice", "#c", DefaultMarker)
		if m.Command != tt.command {
			t.Errorf("Parse(%q).Command = %q, want %q", tt.text, m.Command, tt.command)
		}
		if tt.command != "" && !slices.Equal(m.Args, tt.args) {
			t.Errorf("Parse(%q).Args = %q, want %q", tt.text, m.Args, tt.args)
		}
		if m.Caller != "alice" || m.Channel != "#c" {
			t.Errorf("Parse(%q) lost origin: %+v", tt.text, m)
		}
	}
}

func TestParseCustomMarker(t *testing.T) {
	t.Parallel()

	m := Parse(".ping", "", "#c", ".")
	if !m.IsCommand() || m.Command != "ping" {
		t.Fatalf("command = %q", m.Command)
	}
	if m.Caller != "" {
		t.Fatal("anonymous message reported a caller")
	}
	if Parse("!ping", "", "#c", ".").IsCommand() {
		t.Fatal("default marker accepted under custom marker")
	}
}
