package hangman

import (
	"slices"
	"strings"
	"testing"
)

func TestNewGameInitialState(t *testing.T) {
	t.Parallel()

	g := New(Fixed("Rust"))
	if g.Secret() != "rust" {
		t.Fatalf("secret = %q, want %q", g.Secret(), "rust")
	}
	if g.WrongCount() != 0 {
		t.Fatalf("wrong = %d, want 0", g.WrongCount())
	}
	if g.Remaining() != MaxWrong {
		t.Fatalf("remaining = %d, want %d", g.Remaining(), MaxWrong)
	}
	if got := g.Masked(); got != "_ _ _ _" {
		t.Fatalf("masked = %q, want %q", got, "_ _ _ _")
	}
}

func TestRandomPickerDrawsFromWordList(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		g := New(nil)
		if !slices.Contains(Words, g.Secret()) {
			t.Fatalf("secret %q not in word list", g.Secret())
		}
	}
}

func TestGuessOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		guesses string
		want    []Outcome
	}{
		{"correct then won", "bot", "bot", []Outcome{Correct, Correct, Won}},
		{"wrong", "bot", "z", []Outcome{Wrong}},
		{"uppercase folds", "bot", "BOt", []Outcome{Correct, Correct, Won}},
		{"repeat hit", "bot", "bb", []Outcome{Correct, AlreadyGuessed}},
		{"repeat miss", "bot", "zz", []Outcome{Wrong, AlreadyGuessed}},
		{"repeat across case", "bot", "zZ", []Outcome{Wrong, AlreadyGuessed}},
		{"lost on sixth miss", "bot", "acdefg", []Outcome{Wrong, Wrong, Wrong, Wrong, Wrong, Lost}},
		{"symbols always miss", "bot", "@", []Outcome{Wrong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New(Fixed(tt.secret))
			var got []Outcome
			for _, r := range tt.guesses {
				got = append(got, g.Guess(r))
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("outcomes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrongCountMatchesDistinctMisses(t *testing.T) {
	t.Parallel()

	g := New(Fixed("network"))
	misses := map[rune]bool{}
	for _, r := range "aazbbnxq" {
		out := g.Guess(r)
		if out == AlreadyGuessed {
			continue
		}
		if !strings.ContainsRune("network", r) {
			misses[r] = true
		}
		if g.WrongCount() != len(misses) {
			t.Fatalf("after %q wrong = %d, want %d", r, g.WrongCount(), len(misses))
		}
		if g.WrongCount() > MaxWrong {
			t.Fatalf("wrong = %d exceeds %d", g.WrongCount(), MaxWrong)
		}
	}
}

func TestAlreadyGuessedDoesNotMutate(t *testing.T) {
	t.Parallel()

	g := New(Fixed("server"))
	g.Guess('s')
	g.Guess('x')
	before := g.State()

	for _, r := range "sSxX" {
		if out := g.Guess(r); out != AlreadyGuessed {
			t.Fatalf("guess %q = %v, want AlreadyGuessed", r, out)
		}
	}

	after := g.State()
	if before != after {
		t.Fatalf("state changed: before %+v, after %+v", before, after)
	}
}

func TestMaskedRevealsGuessedLetters(t *testing.T) {
	t.Parallel()

	g := New(Fixed("server"))
	g.Guess('r')
	g.Guess('e')
	if got, want := g.Masked(), "_ e r _ e r"; got != want {
		t.Fatalf("masked = %q, want %q", got, want)
	}
}

func TestWinRevealsWholeWord(t *testing.T) {
	t.Parallel()

	g := New(Fixed("client"))
	var last Outcome
	for _, r := range "client" {
		last = g.Guess(r)
	}
	if last != Won {
		t.Fatalf("last outcome = %v, want Won", last)
	}
	if got := g.Masked(); got != "c l i e n t" {
		t.Fatalf("masked = %q", got)
	}
}

func TestStateIsIndependentCopy(t *testing.T) {
	t.Parallel()

	g := New(Fixed("library"))
	g.Guess('b')
	g.Guess('a')
	s := g.State()

	g.Guess('z')
	g.Guess('l')

	if s.Guessed != "ab" {
		t.Fatalf("snapshot guessed = %q, want %q", s.Guessed, "ab")
	}
	if s.Wrong != 0 {
		t.Fatalf("snapshot wrong = %d, want 0", s.Wrong)
	}
	if s.Remaining() != MaxWrong {
		t.Fatalf("snapshot remaining = %d", s.Remaining())
	}
}

func TestGamesAreIndependent(t *testing.T) {
	t.Parallel()

	a := New(Fixed("bot"))
	b := New(Fixed("bot"))
	a.Guess('b')
	if strings.Contains(b.State().Guessed, "b") {
		t.Fatal("guess leaked between games")
	}
}

func TestOutcomeTerminal(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{AlreadyGuessed, Correct, Wrong} {
		if o.Terminal() {
			t.Fatalf("%v reported terminal", o)
		}
	}
	for _, o := range []Outcome{Won, Lost} {
		if !o.Terminal() {
			t.Fatalf("%v not terminal", o)
		}
	}
}
