package bot

import (
	"context"
	"errors"
	"fmt"

	"invite_contest_bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends plain text messages through the Telegram API. It implements
// service.Notifier and translates "bot was blocked" responses into
// service.ErrRecipientBlocked so the broadcast cleanup can act on them.
type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.api.Send(tgbotapi.NewMessage(telegramID, text))
	if err != nil {
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && tgErr.Code == 403 {
			return fmt.Errorf("%w: %s", service.ErrRecipientBlocked, tgErr.Message)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
