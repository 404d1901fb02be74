package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/tg-moderator/lib/executor"
	"github.com/umputun/tg-moderator/lib/spamcheck"
)

// TelegramPlatform performs moderation actions with telegram bot API.
// The bot must be an administrator of the chat with delete and ban rights.
type TelegramPlatform struct {
	TbAPI TbAPI
}

// DeleteMessage deletes the message from the chat
func (p *TelegramPlatform) DeleteMessage(ctx context.Context, chatID int64, msgID int) error {
	req := tbapi.DeleteMessageConfig{BaseChatMessage: tbapi.BaseChatMessage{
		MessageID:  msgID,
		ChatConfig: tbapi.ChatConfig{ChatID: chatID},
	}}
	if err := p.request(ctx, req); err != nil {
		return fmt.Errorf("can't delete message %d: %w", msgID, err)
	}
	log.Printf("[INFO] message %d deleted from chat %d", msgID, chatID)
	return nil
}

// RestrictSender bans the user permanently or restricts sending messages for the duration
func (p *TelegramPlatform) RestrictSender(ctx context.Context, chatID, userID int64, r spamcheck.Restriction) error {
	member := tbapi.ChatMemberConfig{ChatConfig: tbapi.ChatConfig{ChatID: chatID}, UserID: userID}

	if r.Permanent {
		if err := p.request(ctx, tbapi.BanChatMemberConfig{ChatMemberConfig: member}); err != nil {
			return fmt.Errorf("can't ban user %d: %w", userID, err)
		}
		log.Printf("[INFO] user %d banned in chat %d", userID, chatID)
		return nil
	}

	// restriction for less than 30 seconds is considered permanent by telegram
	duration := r.Duration
	if duration < 30*time.Second {
		duration = 1 * time.Minute
	}
	req := tbapi.RestrictChatMemberConfig{
		ChatMemberConfig: member,
		UntilDate:        time.Now().Add(duration).Unix(),
		Permissions: &tbapi.ChatPermissions{
			CanSendMessages:      false,
			CanSendAudios:        false,
			CanSendDocuments:     false,
			CanSendPhotos:        false,
			CanSendVideos:        false,
			CanSendVideoNotes:    false,
			CanSendVoiceNotes:    false,
			CanSendOtherMessages: false,
			CanChangeInfo:        false,
			CanInviteUsers:       false,
			CanPinMessages:       false,
		},
	}
	if err := p.request(ctx, req); err != nil {
		return fmt.Errorf("can't restrict user %d: %w", userID, err)
	}
	log.Printf("[INFO] user %d restricted in chat %d for %v", userID, chatID, duration)
	return nil
}

// request makes the api call, returns when it's done or ctx is canceled.
// Errors converted to executor.PlatformError.
func (p *TelegramPlatform) request(ctx context.Context, c tbapi.Chattable) error {
	type result struct {
		resp *tbapi.APIResponse
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := p.TbAPI.Request(c)
		ch <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return &executor.PlatformError{Kind: executor.KindTransient, Err: ctx.Err()}
	case res := <-ch:
		if res.err != nil {
			return platformError(res.err)
		}
		if res.resp != nil && !res.resp.Ok {
			return platformError(&tbapi.Error{Code: res.resp.ErrorCode, Message: res.resp.Description})
		}
		return nil
	}
}

// platformError classifies telegram errors. Rate limits and server errors are transient,
// missing message or user means the end state is in place, other client errors are rejections.
func platformError(err error) error {
	var tbErr *tbapi.Error
	if !errors.As(err, &tbErr) {
		return &executor.PlatformError{Kind: executor.KindTransient, Err: err} // network and other non-api errors
	}

	switch {
	case tbErr.Code == 429:
		retryAfter := time.Duration(tbErr.RetryAfter) * time.Second
		return &executor.PlatformError{Kind: executor.KindTransient, Err: err, RetryAfter: retryAfter}
	case tbErr.Code >= 500:
		return &executor.PlatformError{Kind: executor.KindTransient, Err: err}
	case tbErr.Code == 400 && isGone(tbErr.Message):
		return &executor.PlatformError{Kind: executor.KindAlreadyDone, Err: err}
	}
	return &executor.PlatformError{Kind: executor.KindRejected, Err: err}
}

func isGone(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "message to delete not found") || strings.Contains(msg, "message_id_invalid") ||
		strings.Contains(msg, "user_not_participant")
}
