// Package session keeps at most one hangman round per channel.
//
// The registry map is guarded by an RWMutex that is only held for lookups,
// inserts and deletes. Each channel entry carries its own mutex, so work on
// one channel never waits for another while operations on the same channel
// are applied one at a time. Lock order is entry, then map.
package session

import (
	"errors"
	"sync"

	"github.com/keshon/parlor/internal/hangman"
)

var (
	ErrAlreadyActive   = errors.New("a game is already running in this channel")
	ErrNoActiveSession = errors.New("no game is running in this channel")
)

// Result is what a guess produced, with the round as it stood right after
// the guess. For Won and Lost the session is already gone.
type Result struct {
	Outcome hangman.Outcome
	State   hangman.State
}

type entry struct {
	mu     sync.Mutex
	game   *hangman.Game
	closed bool
}

// Registry maps channels to live rounds. The zero value is not usable; use New.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	pick     hangman.Picker
}

// Option configures a Registry.
type Option func(*Registry)

// WithPicker sets the secret picker used for new rounds.
func WithPicker(p hangman.Picker) Option {
	return func(r *Registry) { r.pick = p }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		pick:     hangman.RandomPicker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens a round in channel. It fails with ErrAlreadyActive if one is
// already running there.
func (r *Registry) Start(channel string) (hangman.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[channel]; ok {
		return hangman.State{}, ErrAlreadyActive
	}
	g := hangman.New(r.pick)
	r.sessions[channel] = &entry{game: g}
	return g.State(), nil
}

// Guess applies letter to the round in channel. A Won or Lost outcome
// removes the round before Guess returns.
func (r *Registry) Guess(channel string, letter rune) (Result, error) {
	e := r.lookup(channel)
	if e == nil {
		return Result{}, ErrNoActiveSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Result{}, ErrNoActiveSession
	}

	out := e.game.Guess(letter)
	res := Result{Outcome: out, State: e.game.State()}
	if out.Terminal() {
		r.removeLocked(channel, e)
	}
	return res, nil
}

// Snapshot returns a copy of the round in channel, if any.
func (r *Registry) Snapshot(channel string) (hangman.State, bool) {
	e := r.lookup(channel)
	if e == nil {
		return hangman.State{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return hangman.State{}, false
	}
	return e.game.State(), true
}

// Quit ends the round in channel and reports whether there was one.
func (r *Registry) Quit(channel string) bool {
	e := r.lookup(channel)
	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	r.removeLocked(channel, e)
	return true
}

// Active returns the number of live rounds.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) lookup(channel string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[channel]
}

// removeLocked must be called with e.mu held.
func (r *Registry) removeLocked(channel string, e *entry) {
	e.closed = true
	r.mu.Lock()
	if r.sessions[channel] == e {
		delete(r.sessions, channel)
	}
	r.mu.Unlock()
}
