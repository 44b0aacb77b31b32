package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/keyboards"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🤖 *DiaFlow* — tu diario de diabetes

🩸 Registra glucemias, dosis de insulina y comidas
📦 Controla el stock de tus insumos
🧰 Comparte kits de emergencia con código QR
📊 Consulta tus métricas y reportes

⚠️ *Importante:* esto es información de apoyo, consulta siempre con tu equipo médico.

Elige una opción:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendLoginPrompt tells an anonymous chat how to authenticate.
func SendLoginPrompt(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🔐 Necesitas iniciar sesión para usar DiaFlow.

Envía: /login usuario contraseña
¿Sin cuenta? /registro usuario contraseña

También puedes verificar un kit público sin sesión:
/verificar <token>`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := api.Send(msg)
	return err
}
