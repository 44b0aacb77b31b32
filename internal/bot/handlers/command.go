package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/menus"
	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/domain"
	apperrors "github.com/daniilabradorr/diaflow/internal/errors"
	"github.com/daniilabradorr/diaflow/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *CommandHandler {
	return &CommandHandler{api: api, deps: deps, stateManager: stateManager}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID
	h.stateManager.ClearState(chatID)

	switch message.Command() {
	case "start":
		if user == nil {
			return menus.SendLoginPrompt(h.api, chatID)
		}
		return menus.SendMainMenu(h.api, chatID)

	case "help":
		return h.sendText(chatID, `Comandos disponibles:
/start — menú principal
/login usuario contraseña — iniciar sesión
/registro usuario contraseña — crear cuenta
/logout — cerrar sesión
/verificar <token> — verificar un kit público (sin sesión)
/help — esta ayuda`)

	case "login":
		return h.handleLogin(ctx, chatID, message.CommandArguments())

	case "registro":
		return h.handleRegister(ctx, chatID, message.CommandArguments())

	case "logout":
		if err := h.deps.Session.Logout(ctx, chatID); err != nil {
			logger.Error("Logout failed", "chat_id", chatID, "error", err)
			return h.sendText(chatID, "No se pudo cerrar la sesión. Inténtalo de nuevo.")
		}
		return h.sendText(chatID, "👋 Sesión cerrada. Usa /login para volver a entrar.")

	case "verificar":
		token := strings.TrimSpace(message.CommandArguments())
		if token == "" {
			return h.sendText(chatID, "Uso: /verificar <token del kit>")
		}
		return startPublicVerification(ctx, h.api, h.deps, h.stateManager, chatID, token)

	default:
		return h.sendText(chatID, "Comando desconocido. Usa /help para ver los comandos disponibles.")
	}
}

func (h *CommandHandler) handleLogin(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		h.stateManager.SetState(chatID, state.WaitingForLogin)
		return h.sendText(chatID, "Envía tu usuario y contraseña separados por un espacio:")
	}
	return doLogin(ctx, h.api, h.deps, chatID, fields[0], fields[1])
}

func (h *CommandHandler) handleRegister(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		h.stateManager.SetState(chatID, state.WaitingForRegister)
		return h.sendText(chatID, "Envía el usuario y la contraseña de la nueva cuenta separados por un espacio:")
	}
	return doRegister(ctx, h.api, h.deps, chatID, fields[0], fields[1])
}

func (h *CommandHandler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// doLogin is shared by the /login command and the waiting_for_login text
// state. A rejected login always shows the same generic message.
func doLogin(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, username, password string) error {
	user, err := deps.Session.Login(ctx, chatID, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			msg := tgbotapi.NewMessage(chatID, "❌ Usuario o contraseña incorrectos.")
			_, sendErr := api.Send(msg)
			return sendErr
		}
		logger.Error("Login failed", "chat_id", chatID, "error", err)
		msg := tgbotapi.NewMessage(chatID, "No se pudo iniciar sesión. Inténtalo más tarde.")
		_, sendErr := api.Send(msg)
		return sendErr
	}

	name := user.Nombre
	if name == "" {
		name = user.Username
	}
	msg := tgbotapi.NewMessage(chatID, "✅ Hola, "+name+".")
	if _, err := api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(api, chatID)
}

func doRegister(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, username, password string) error {
	if err := deps.Session.Register(ctx, username, password); err != nil {
		logger.Error("Registration failed", "chat_id", chatID, "error", err)
		msg := tgbotapi.NewMessage(chatID, "No se pudo crear la cuenta. Prueba con otro nombre de usuario.")
		_, sendErr := api.Send(msg)
		return sendErr
	}
	msg := tgbotapi.NewMessage(chatID, "✅ Cuenta creada. Ahora entra con /login "+username+" <contraseña>.")
	_, err := api.Send(msg)
	return err
}
