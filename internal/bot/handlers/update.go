package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/logger"
	"github.com/daniilabradorr/diaflow/internal/session"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             *tgbotapi.BotAPI
	deps            Dependencies
	stateManager    *state.Manager
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		stateManager:    stateManager,
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update. The chat id is attached to the
// context so every API call made below carries that chat's bearer token.
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	var chatID int64
	if update.Message != nil {
		chatID = update.Message.Chat.ID
	} else {
		chatID = update.CallbackQuery.Message.Chat.ID
	}

	ctx = session.WithChat(ctx, chatID)
	user := h.deps.Session.Current(ctx, chatID)

	if update.CallbackQuery != nil {
		// Answer the callback query to remove the loading state.
		callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
		if _, err := h.api.Request(callback); err != nil {
			logger.Warn("Failed to answer callback query", "error", err)
		}
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	}

	if update.Message.IsCommand() {
		return h.commandHandler.Handle(ctx, update.Message, user)
	}

	if update.Message.Text != "" {
		return h.textHandler.Handle(ctx, update.Message, user)
	}

	return nil
}
