// Package games wires chat commands to the per-channel game sessions.
package games

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/keshon/parlor/internal/hangman"
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/internal/session"
	"github.com/keshon/parlor/pkg/cmd"
)

const (
	replyUsage      = "Usage: !hangman <start|guess|status|quit>"
	replyUnknownSub = "Unknown hangman subcommand. Use: start, guess, status, quit"
	replyNoGame     = "No game is running in this channel. Use !hangman start"
	anonymousAuthor = "someone"
)

// HangmanCommand runs one shared hangman round per channel.
type HangmanCommand struct {
	Sessions *session.Registry
}

func (c *HangmanCommand) Name() string            { return "hangman" }
func (c *HangmanCommand) Description() string     { return "Play hangman with everyone in the channel" }
func (c *HangmanCommand) Group() string           { return "games" }
func (c *HangmanCommand) Class() permission.Class { return permission.Open }
func (c *HangmanCommand) Usage() string           { return "hangman <start|guess|status|quit>" }

func (c *HangmanCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply(replyUsage)
		return nil
	}

	switch strings.ToLower(inv.Arg(0)) {
	case "start":
		c.start(inv)
	case "guess":
		c.guess(inv)
	case "status":
		c.status(inv)
	case "quit":
		c.quit(inv)
	default:
		inv.Reply(replyUnknownSub)
	}
	return nil
}

func (c *HangmanCommand) start(inv *cmd.Invocation) {
	st, err := c.Sessions.Start(inv.Channel)
	if errors.Is(err, session.ErrAlreadyActive) {
		inv.Reply("A hangman game is already running in this channel! Use !hangman quit to end it.")
		return
	}
	inv.Reply("🎮 Hangman game started! Everyone can play along!")
	inv.Replyf("Word: %s", st.Masked)
	inv.Replyf("Remaining guesses: %d", st.Remaining())
	inv.Reply("Use !hangman guess <letter> to guess a letter")
}

func (c *HangmanCommand) guess(inv *cmd.Invocation) {
	if len(inv.Args) < 2 {
		inv.Reply("Usage: !hangman guess <letter>")
		return
	}
	arg := inv.Arg(1)
	if utf8.RuneCountInString(arg) != 1 {
		inv.Reply("Please guess a single letter")
		return
	}
	letter, _ := utf8.DecodeRuneInString(arg)

	author := inv.Caller
	if author == "" {
		author = anonymousAuthor
	}

	res, err := c.Sessions.Guess(inv.Channel, letter)
	if errors.Is(err, session.ErrNoActiveSession) {
		inv.Reply(replyNoGame)
		return
	}

	switch res.Outcome {
	case hangman.AlreadyGuessed:
		inv.Replyf("%s already guessed '%c' 🤔", author, letter)
	case hangman.Correct:
		inv.Replyf("%s guessed '%c' - ✓ Correct! Word: %s", author, letter, res.State.Masked)
		inv.Replyf("Remaining guesses: %d", res.State.Remaining())
	case hangman.Wrong:
		inv.Replyf("%s guessed '%c' - ✗ Wrong! Word: %s", author, letter, res.State.Masked)
		inv.Replyf("Remaining guesses: %d", res.State.Remaining())
	case hangman.Won:
		inv.Replyf("🎉 %s solved it! The word was: %s", author, res.State.Secret)
	case hangman.Lost:
		inv.Replyf("☠️ Game Over! The word was: %s 😢", res.State.Secret)
	}
}

func (c *HangmanCommand) status(inv *cmd.Invocation) {
	st, ok := c.Sessions.Snapshot(inv.Channel)
	if !ok {
		inv.Reply(replyNoGame)
		return
	}
	inv.Replyf("Word: %s", st.Masked)
	inv.Replyf("Guessed: %s", st.Guessed)
	inv.Replyf("Wrong: %d/%d", st.Wrong, hangman.MaxWrong)
}

func (c *HangmanCommand) quit(inv *cmd.Invocation) {
	if c.Sessions.Quit(inv.Channel) {
		inv.Reply("Hangman game ended.")
		return
	}
	inv.Reply("No game is running in this channel")
}
