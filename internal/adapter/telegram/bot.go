package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/infrastructure/retry"
)

// Connect authenticates against the Bot API, retrying transport failures.
// An error answered by Telegram itself (such as a revoked token) is final.
func Connect(ctx context.Context, logger zerolog.Logger, token string, debug bool, p retry.Policy) (*tgbotapi.BotAPI, error) {
	return retry.Connect(ctx, logger, "telegram", p, func(context.Context) (*tgbotapi.BotAPI, error) {
		bot, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			var apiErr *tgbotapi.Error
			if errors.As(err, &apiErr) {
				return nil, retry.Permanent(err)
			}
			return nil, err
		}
		bot.Debug = debug
		return bot, nil
	})
}

// Updates starts long polling and returns the update channel. Polling stops
// when ctx is done.
func Updates(ctx context.Context, bot *tgbotapi.BotAPI, timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout

	updates := bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()
	return updates
}
