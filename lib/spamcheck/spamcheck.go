// Package spamcheck defines the types passed between moderation pipeline stages:
// incoming messages, classification results, verdicts, effects and moderation records.
package spamcheck

import (
	"fmt"
	"strings"
	"time"
)

// Key identifies a message within a chat, the unit of deduplication.
type Key struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"msg_id"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.ChatID, k.MessageID)
}

// User is a message sender.
type User struct {
	ID          int64  `json:"id"`
	UserName    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

func (u User) String() string {
	if u.UserName != "" {
		return fmt.Sprintf("%q (%d)", u.UserName, u.ID)
	}
	if u.DisplayName != "" {
		return fmt.Sprintf("%q (%d)", u.DisplayName, u.ID)
	}
	return fmt.Sprintf("%d", u.ID)
}

// Message is an incoming chat message, immutable once received.
type Message struct {
	ChatID   int64     `json:"chat_id"`
	ID       int       `json:"msg_id"`
	From     User      `json:"from"`
	Text     string    `json:"text"`
	Sent     time.Time `json:"sent"`     // platform send time
	Received time.Time `json:"received"` // arrival time
}

// Key returns dedup key of the message
func (m Message) Key() Key { return Key{ChatID: m.ChatID, MessageID: m.ID} }

func (m Message) String() string {
	return fmt.Sprintf("msg %s from %s: %q", m.Key(), m.From, strings.ReplaceAll(m.Text, "\n", " "))
}

// Sender is a lightweight context about the message sender, used by the decision policy.
type Sender struct {
	NewMember bool `json:"new_member"` // joined the chat recently
	Approved  bool `json:"approved"`   // passed the first messages check before
}

// Result is a spam probability computed for a message.
type Result struct {
	Key         Key     `json:"key"`
	Probability float64 `json:"probability"` // 0.0 - 1.0
	Model       string  `json:"model"`
	Truncated   bool    `json:"truncated"` // text was cut to the model's max input length
}

// Action is a moderation decision, ordered by severity.
type Action int

// enum of all actions, Allow < Flag < Remove
const (
	ActionAllow Action = iota
	ActionFlag
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionFlag:
		return "flag"
	case ActionRemove:
		return "remove"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction converts string representation back to Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "allow":
		return ActionAllow, nil
	case "flag":
		return ActionFlag, nil
	case "remove":
		return ActionRemove, nil
	}
	return ActionAllow, fmt.Errorf("unknown action %q", s)
}

// Restriction defines how the sender is restricted on Remove.
type Restriction struct {
	Permanent bool          `json:"permanent"`
	Duration  time.Duration `json:"duration,omitempty"` // ignored if Permanent
}

func (r Restriction) String() string {
	if r.Permanent {
		return "permanent"
	}
	return r.Duration.String()
}

// Verdict is the decision policy output for a message.
type Verdict struct {
	Action      Action      `json:"action"`
	Message     Message     `json:"message"`
	Probability float64     `json:"probability"`
	Restriction Restriction `json:"restriction"`
}

func (v Verdict) String() string {
	if v.Action == ActionRemove {
		return fmt.Sprintf("%s (%.2f, %s)", v.Action, v.Probability, v.Restriction)
	}
	return fmt.Sprintf("%s (%.2f)", v.Action, v.Probability)
}
