// Package composer holds the user's draft and decides when it may be
// submitted to the conversation.
package composer

import (
	"strings"
	"sync"
)

// Sender accepts submitted text. Submit returns false when the text was
// rejected, e.g. because an exchange is already pending.
type Sender interface {
	Pending() bool
	Submit(text string) bool
}

// State is the composer's submission state.
type State int

const (
	// Editing is the resting state.
	Editing State = iota

	// Submitting lasts only while the draft is handed to the Sender.
	Submitting
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Trigger is what a key press asks the composer to do.
type Trigger int

const (
	// None means the key is ordinary input.
	None Trigger = iota

	// Submit sends the draft.
	Submit

	// Newline inserts a line break into the draft.
	Newline
)

// quitWords end an interactive conversation client-side.
var quitWords = map[string]struct{}{
	"quit": {},
	"exit": {},
	"bye":  {},
}

// Composer is the draft being written and its submission gate.
type Composer struct {
	sender Sender

	mu    sync.Mutex
	draft string
	state State
}

// New creates a Composer submitting to sender.
func New(sender Sender) *Composer {
	return &Composer{sender: sender}
}

// SetDraft replaces the draft.
func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the current draft.
func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// State returns the submission state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit reports whether the trimmed draft is non-empty and the sender
// is not pending.
func (c *Composer) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Composer) canSubmitLocked() bool {
	return strings.TrimSpace(c.draft) != "" && !c.sender.Pending()
}

// Submit hands the trimmed draft to the sender. The draft is cleared only
// when the sender accepted it and it was not edited during the hand-off. It
// returns whether the draft was accepted.
//
// The sender runs without the composer lock held; a Submit issued while
// another is handing off returns false.
func (c *Composer) Submit() bool {
	c.mu.Lock()
	if c.state == Submitting || !c.canSubmitLocked() {
		c.mu.Unlock()
		return false
	}
	c.state = Submitting
	draft := c.draft
	c.mu.Unlock()

	accepted := c.sender.Submit(strings.TrimSpace(draft))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Editing
	if accepted && c.draft == draft {
		c.draft = ""
	}
	return accepted
}

// Classify maps a key, in bubbletea's key string form, to a trigger.
// Plain enter submits; enter with a multi-line modifier, or ctrl+j, inserts
// a line break.
func Classify(key string) Trigger {
	switch key {
	case "enter":
		return Submit
	case "alt+enter", "shift+enter", "ctrl+j":
		return Newline
	default:
		return None
	}
}

// IsQuitWord reports whether text asks to leave the conversation.
func IsQuitWord(text string) bool {
	_, ok := quitWords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
