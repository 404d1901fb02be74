// Package events connects the moderation pipeline to telegram. TelegramListener receives updates,
// converts messages and feeds them to the intake, and tracks newcomers. TelegramPlatform performs
// moderation side effects (message deletion and sender restriction) via the bot API.
package events

import (
	"context"
	"log"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/tb_api.go --pkg mocks --with-resets --skip-ensure . TbAPI
//go:generate moq --out mocks/submitter.go --pkg mocks --with-resets --skip-ensure . Submitter
//go:generate moq --out mocks/newcomers.go --pkg mocks --with-resets --skip-ensure . Newcomers

// TbAPI is an interface for telegram bot API, only subset of methods used
type TbAPI interface {
	GetUpdatesChan(config tbapi.UpdateConfig) tbapi.UpdatesChannel
	StopReceivingUpdates()
	Request(c tbapi.Chattable) (*tbapi.APIResponse, error)
	GetChat(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error)
}

// Submitter accepts messages for moderation
type Submitter interface {
	Submit(ctx context.Context, msg spamcheck.Message) error
}

// Newcomers tracks users joined the chat
type Newcomers interface {
	Joined(chatID, userID int64, at time.Time)
}

// transform converts telegram message to moderated message, caption is a part of the text
func transform(msg *tbapi.Message) spamcheck.Message {
	message := spamcheck.Message{
		ChatID:   msg.Chat.ID,
		ID:       msg.MessageID,
		Text:     msg.Text,
		Sent:     msg.Time(),
		Received: time.Now(),
	}

	if msg.From != nil {
		message.From = spamcheck.User{ID: msg.From.ID, UserName: msg.From.UserName, DisplayName: displayName(msg.From)}
	}

	if msg.Caption != "" {
		if message.Text == "" {
			log.Printf("[DEBUG] caption only message: %q", msg.Caption)
			message.Text = msg.Caption
		} else {
			log.Printf("[DEBUG] caption appended to message: %q", msg.Caption)
			message.Text += "\n" + msg.Caption
		}
	}
	return message
}

func displayName(u *tbapi.User) string {
	var res string
	if strings.TrimSpace(u.FirstName) != "" {
		res = u.FirstName
	}
	if strings.TrimSpace(u.LastName) != "" {
		res += " " + u.LastName
	}
	return strings.TrimSpace(res)
}
