// Package message holds the parsed form of an inbound chat line.
package message

import "strings"

// DefaultMarker prefixes every command line.
const DefaultMarker = "!"

// Message is one inbound command. It is built once by Parse and must not be
// modified afterwards.
type Message struct {
	Command string   // lowercased, marker stripped
	Args    []string // whitespace-delimited
	Caller  string   // stable identity; empty when the transport cannot attribute an author
	Nick    string   // display name, may be empty
	Channel string
}

// Parse tokenizes text. A line that does not start with marker yields a
// Message with an empty Command.
func Parse(text, caller, channel, marker string) *Message {
	if marker == "" {
		marker = DefaultMarker
	}
	m := &Message{Caller: caller, Channel: channel}

	parts := strings.Fields(text)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], marker) {
		return m
	}
	m.Command = strings.ToLower(strings.TrimPrefix(parts[0], marker))
	m.Args = parts[1:]
	return m
}

// IsCommand reports whether the line carried a command.
func (m *Message) IsCommand() bool {
	return m.Command != ""
}
