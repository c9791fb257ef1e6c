package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// AdminNotifier is a minimal sender for processes that only need to push
// reports to the operator's chat, without the full storefront bot.
type AdminNotifier struct {
	api    *bot.Bot
	chatID int64
}

func NewAdminNotifier(token string, chatID int64) (*AdminNotifier, error) {
	api, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &AdminNotifier{api: api, chatID: chatID}, nil
}

func (n *AdminNotifier) Notify(ctx context.Context, text string) error {
	_, err := n.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	return err
}
