// Package hangman implements a single word-guessing round as a pure state
// machine. A Game holds no shared state and performs no I/O; callers that
// share a Game across goroutines must serialize access themselves.
package hangman

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// MaxWrong is the number of missed letters that ends a round.
const MaxWrong = 6

// Placeholder is shown for letters that have not been guessed yet.
const Placeholder = "_"

// Outcome is the result of a single guess.
type Outcome int

const (
	AlreadyGuessed Outcome = iota
	Correct
	Wrong
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case AlreadyGuessed:
		return "already_guessed"
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ends the round.
func (o Outcome) Terminal() bool {
	return o == Won || o == Lost
}

// Picker selects the secret from the word list. The list is never empty.
type Picker func(words []string) string

// RandomPicker chooses uniformly at random.
func RandomPicker(words []string) string {
	return words[rand.IntN(len(words))]
}

// Fixed returns a picker that always yields word. Used by tests and replays.
func Fixed(word string) Picker {
	return func([]string) string { return word }
}

// Game is one guessing round.
type Game struct {
	secret  string
	guessed map[rune]struct{}
	wrong   int
}

// New starts a round with a secret chosen by pick from Words.
// A nil pick falls back to RandomPicker.
func New(pick Picker) *Game {
	if pick == nil {
		pick = RandomPicker
	}
	return &Game{
		secret:  strings.ToLower(pick(Words)),
		guessed: make(map[rune]struct{}),
	}
}

// Guess applies one letter. The letter is folded to lowercase first.
// Repeating a letter changes nothing and yields AlreadyGuessed.
func (g *Game) Guess(letter rune) Outcome {
	letter = unicode.ToLower(letter)

	if _, seen := g.guessed[letter]; seen {
		return AlreadyGuessed
	}
	g.guessed[letter] = struct{}{}

	if strings.ContainsRune(g.secret, letter) {
		if g.solved() {
			return Won
		}
		return Correct
	}

	g.wrong++
	if g.wrong >= MaxWrong {
		return Lost
	}
	return Wrong
}

func (g *Game) solved() bool {
	return lo.EveryBy([]rune(g.secret), func(r rune) bool {
		_, ok := g.guessed[r]
		return ok
	})
}

// Masked renders the secret with unguessed letters hidden, e.g. "r _ s t".
func (g *Game) Masked() string {
	return mask(g.secret, g.guessed)
}

// Remaining is the number of misses still allowed.
func (g *Game) Remaining() int {
	return MaxWrong - g.wrong
}

// Secret returns the word being guessed.
func (g *Game) Secret() string { return g.secret }

// WrongCount returns the number of distinct missed letters.
func (g *Game) WrongCount() int { return g.wrong }

// State returns a deep copy of the round suitable for display.
func (g *Game) State() State {
	letters := lo.Keys(g.guessed)
	slices.Sort(letters)
	return State{
		Secret:  g.secret,
		Guessed: string(letters),
		Wrong:   g.wrong,
		Masked:  g.Masked(),
	}
}

func mask(secret string, guessed map[rune]struct{}) string {
	slots := lo.Map([]rune(secret), func(r rune, _ int) string {
		if _, ok := guessed[r]; ok {
			return string(r)
		}
		return Placeholder
	})
	return strings.Join(slots, " ")
}

// State is a point-in-time copy of a Game. It shares nothing with the Game
// it was taken from.
type State struct {
	Secret  string
	Guessed string // sorted, one rune per letter
	Wrong   int
	Masked  string
}

// Remaining is the number of misses still allowed.
func (s State) Remaining() int {
	return MaxWrong - s.Wrong
}
