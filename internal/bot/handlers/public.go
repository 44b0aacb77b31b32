package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/keyboards"
	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/domain"
	"github.com/daniilabradorr/diaflow/internal/logger"
	"github.com/daniilabradorr/diaflow/internal/services"
)

// Temp-data keys of the verification in progress.
const (
	chkTokenKey    = "chk_token"
	chkElementsKey = "chk_elements"
	chkPresentKey  = "chk_present"
)

// startPublicVerification fetches the kit behind a public token and shows
// the checklist with every element marked present, the optimistic
// default. Works without a session.
func startPublicVerification(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, sm *state.Manager, chatID int64, token string) error {
	kit, err := deps.Public.FetchKit(ctx, token)
	if err != nil {
		logger.Error("Failed to fetch public kit", "error", err)
		msg := tgbotapi.NewMessage(chatID, "⚠️ No se ha podido cargar el kit. Comprueba el código QR o el token.")
		_, sendErr := api.Send(msg)
		return sendErr
	}
	if len(kit.Elementos) == 0 {
		msg := tgbotapi.NewMessage(chatID, "Este kit no tiene elementos que verificar.")
		_, sendErr := api.Send(msg)
		return sendErr
	}

	present := make(map[string]bool, len(kit.Elementos))
	for _, e := range kit.Elementos {
		present[e.Etiqueta] = true
	}

	sm.SetTempData(chatID, chkTokenKey, token)
	sm.SetTempData(chatID, chkElementsKey, kit.Elementos)
	sm.SetTempData(chatID, chkPresentKey, present)

	text := fmt.Sprintf("🧰 *%s*\n", kit.Kit.Nombre)
	if kit.Kit.Descripcion != "" {
		text += kit.Kit.Descripcion + "\n"
	}
	text += "\nMarca lo que falte y envía la verificación:"

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.Checklist(kit.Elementos, present)
	_, err = api.Send(msg)
	return err
}

// togglePublicChecklist flips one element between present and missing.
// Toggles are purely local until submit.
func togglePublicChecklist(api *tgbotapi.BotAPI, sm *state.Manager, chatID int64, index int) error {
	elementos, present, ok := checklistData(sm, chatID)
	if !ok || index < 0 || index >= len(elementos) {
		return nil
	}

	etiqueta := elementos[index].Etiqueta
	present[etiqueta] = !present[etiqueta]
	sm.SetTempData(chatID, chkPresentKey, present)

	msg := tgbotapi.NewMessage(chatID, "Checklist actualizada:")
	msg.ReplyMarkup = keyboards.Checklist(elementos, present)
	_, err := api.Send(msg)
	return err
}

// submitPublicVerification sends the full checklist and renders the
// verdict exactly as the backend returned it. A failed verification can
// be re-submitted.
func submitPublicVerification(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, sm *state.Manager, chatID int64) error {
	raw, hasToken := sm.TempData(chatID, chkTokenKey)
	token, _ := raw.(string)
	elementos, present, ok := checklistData(sm, chatID)
	if !hasToken || !ok || token == "" {
		msg := tgbotapi.NewMessage(chatID, "No hay ninguna verificación en curso. Usa /verificar <token>.")
		_, err := api.Send(msg)
		return err
	}

	items := services.Checklist(elementos, present)
	result, err := deps.Public.Verify(ctx, token, items)
	if err != nil {
		logger.Error("Public verification failed", "error", err)
		msg := tgbotapi.NewMessage(chatID, "⚠️ No se pudo enviar la verificación. Inténtalo de nuevo.")
		_, sendErr := api.Send(msg)
		return sendErr
	}

	var b strings.Builder
	if result.ResultadoOK {
		b.WriteString("✅ Kit completo. ¡Todo en orden!")
		sm.ClearTempData(chatID)
	} else {
		b.WriteString("❌ Kit incompleto. Falta:\n")
		for etiqueta, n := range result.Faltantes {
			fmt.Fprintf(&b, "  • %s ×%d\n", etiqueta, n)
		}
		b.WriteString("\nCorrige la checklist y vuelve a enviarla si lo deseas.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	_, err = api.Send(msg)
	return err
}

func checklistData(sm *state.Manager, chatID int64) ([]domain.ElementoKit, map[string]bool, bool) {
	rawElems, okElems := sm.TempData(chatID, chkElementsKey)
	rawPresent, okPresent := sm.TempData(chatID, chkPresentKey)
	if !okElems || !okPresent {
		return nil, nil, false
	}
	elementos, okElems := rawElems.([]domain.ElementoKit)
	present, okPresent := rawPresent.(map[string]bool)
	if !okElems || !okPresent {
		return nil, nil, false
	}
	return elementos, present, true
}
