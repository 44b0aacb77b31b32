package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/handlers"
	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/logger"
)

// Bot is the Telegram front end over the diaflow API services.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

func NewBot(token string, deps handlers.Dependencies) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, state.NewManager()),
	}, nil
}

// Start consumes updates until the context is cancelled. A failed update
// is logged and never takes the bot down.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update := <-updates:
			if err := b.handler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "error", err)
			}
		}
	}
}
