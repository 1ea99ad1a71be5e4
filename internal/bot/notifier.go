package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
)

// apiNotifier implements ports.Notifier over the Bot API. All outbound
// calls go through one rate limiter to stay under Telegram's flood limits.
type apiNotifier struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

func newAPINotifier(api *tgbotapi.BotAPI, limiter *rate.Limiter) *apiNotifier {
	return &apiNotifier{api: api, limiter: limiter}
}

func (n *apiNotifier) Send(ctx context.Context, chatID int64, text string, replyTo int64) (ports.NotificationHandle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return ports.NotificationHandle{}, fmt.Errorf("rate limit wait: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = int(replyTo)
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := n.api.Send(msg)
	if err != nil {
		return ports.NotificationHandle{}, fmt.Errorf("send notification: %w", err)
	}

	return ports.NotificationHandle{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (n *apiNotifier) Edit(ctx context.Context, handle ports.NotificationHandle, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	edit := tgbotapi.NewEditMessageText(handle.ChatID, handle.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(edit); err != nil {
		return fmt.Errorf("edit notification: %w", err)
	}

	return nil
}

func (n *apiNotifier) Delete(ctx context.Context, handle ports.NotificationHandle) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if _, err := n.api.Request(tgbotapi.NewDeleteMessage(handle.ChatID, handle.MessageID)); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	return nil
}

var _ ports.Notifier = (*apiNotifier)(nil)
