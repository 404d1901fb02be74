package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/tg-moderator/lib/intake"
)

// TelegramListener listens to tg updates and forwards messages of the moderated group to the intake.
// Not thread safe
type TelegramListener struct {
	TbAPI      TbAPI
	Submitter  Submitter
	Newcomers  Newcomers // optional
	Group      string    // can be int64 or public group username (without "@" prefix)
	TestingIDs []int64   // extra chats to moderate, used for testing

	chatID int64
}

// Do process all events, blocked call. Returns on context cancellation or when the intake is closed.
func (l *TelegramListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start telegram listener for %q", l.Group)

	var err error
	if l.chatID, err = l.getChatID(l.Group); err != nil {
		return fmt.Errorf("failed to get chat ID for group %q: %w", l.Group, err)
	}
	log.Printf("[INFO] moderated chat ID: %d", l.chatID)

	u := tbapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "chat_member"}
	updates := l.TbAPI.GetUpdatesChan(u)
	defer l.TbAPI.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram update chan closed")
			}
			if err := l.procUpdate(ctx, update); err != nil {
				if errors.Is(err, intake.ErrClosed) {
					return err
				}
				log.Printf("[WARN] failed to process update %d: %v", update.UpdateID, err)
			}
		}
	}
}

func (l *TelegramListener) procUpdate(ctx context.Context, update tbapi.Update) error {
	if update.ChatMember != nil {
		l.procMemberUpdate(update.ChatMember)
		return nil
	}

	msg := update.Message
	if msg == nil {
		return nil
	}
	if !l.isChatAllowed(msg.Chat.ID) {
		return nil
	}

	for _, u := range msg.NewChatMembers {
		l.joined(msg.Chat.ID, u, msg.Time())
	}
	if msg.From == nil || msg.From.IsBot {
		return nil
	}

	m := transform(msg)
	if strings.TrimSpace(m.Text) == "" {
		return nil
	}
	log.Printf("[DEBUG] incoming %s", m)
	if err := l.Submitter.Submit(ctx, m); err != nil {
		return fmt.Errorf("failed to submit %s: %w", m.Key(), err)
	}
	return nil
}

// procMemberUpdate tracks users joined the chat, either by themselves or added by somebody
func (l *TelegramListener) procMemberUpdate(upd *tbapi.ChatMemberUpdated) {
	if !l.isChatAllowed(upd.Chat.ID) || upd.NewChatMember.User == nil {
		return
	}
	wasMember := upd.OldChatMember.Status == "member" || upd.OldChatMember.Status == "administrator" ||
		upd.OldChatMember.Status == "creator" || upd.OldChatMember.Status == "restricted"
	if upd.NewChatMember.Status == "member" && !wasMember {
		l.joined(upd.Chat.ID, *upd.NewChatMember.User, time.Unix(int64(upd.Date), 0))
	}
}

func (l *TelegramListener) joined(chatID int64, u tbapi.User, at time.Time) {
	if l.Newcomers == nil || u.IsBot {
		return
	}
	log.Printf("[DEBUG] user %q (%d) joined chat %d", u.UserName, u.ID, chatID)
	l.Newcomers.Joined(chatID, u.ID, at)
}

func (l *TelegramListener) isChatAllowed(fromChat int64) bool {
	if fromChat == l.chatID {
		return true
	}
	for _, id := range l.TestingIDs {
		if id == fromChat {
			return true
		}
	}
	return false
}

func (l *TelegramListener) getChatID(group string) (int64, error) {
	chatID, err := strconv.ParseInt(group, 10, 64)
	if err == nil {
		return chatID, nil
	}

	chat, err := l.TbAPI.GetChat(tbapi.ChatInfoConfig{ChatConfig: tbapi.ChatConfig{SuperGroupUsername: "@" + group}})
	if err != nil {
		return 0, fmt.Errorf("can't get chat for %s: %w", group, err)
	}
	return chat.ID, nil
}
