package handlers

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/keyboards"
	"github.com/daniilabradorr/diaflow/internal/bot/menus"
	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/domain"
	"github.com/daniilabradorr/diaflow/internal/logger"
)

// CallbackHandler handles callback queries (button clicks)
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *CallbackHandler {
	return &CallbackHandler{api: api, deps: deps, stateManager: stateManager}
}

// Handle routes a button click. The public verification checklist is the
// only surface an anonymous chat may use.
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	chatID := query.Message.Chat.ID
	data := query.Data

	if strings.HasPrefix(data, "chk_") {
		return h.handleChecklist(ctx, chatID, data)
	}

	if user == nil {
		return menus.SendLoginPrompt(h.api, chatID)
	}

	switch data {
	case "main_menu":
		h.stateManager.ClearState(chatID)
		return menus.SendMainMenu(h.api, chatID)

	case "menu_glucosa":
		return h.sendKeyboard(chatID, "🩸 Glucosa:", keyboards.RecordListMenu("glucosa"))
	case "menu_dosis":
		return h.sendKeyboard(chatID, "💉 Dosis de insulina:", keyboards.RecordListMenu("dosis"))
	case "menu_comidas":
		return h.sendKeyboard(chatID, "🍽️ Comidas:", keyboards.RecordListMenu("comidas"))
	case "menu_inventario":
		return h.sendKeyboard(chatID, "📦 Inventario:", keyboards.InventoryMenu())

	case "menu_kits":
		return h.showKits(ctx, chatID)
	case "menu_alertas":
		return h.showAlerts(ctx, chatID)
	case "menu_resumen":
		return h.showReports(ctx, chatID)

	case "glucosa_registrar":
		h.stateManager.SetState(chatID, state.WaitingForGlucose)
		return h.sendText(chatID, "Envía el valor en mg/dL, opcionalmente seguido de una nota.\nEjemplo: 110 antes de cenar")
	case "glucosa_listar":
		return h.showGlucose(ctx, chatID)

	case "dosis_registrar":
		h.stateManager.SetState(chatID, state.WaitingForDose)
		return h.sendText(chatID, "Envía: tipo unidades [nota]\nTipos: bolo, basal, corr.\nEjemplo: bolo 4.5 desayuno")
	case "dosis_listar":
		return h.showDoses(ctx, chatID)

	case "comidas_registrar":
		h.stateManager.SetState(chatID, state.WaitingForMeal)
		return h.sendText(chatID, "Envía: carbohidratos descripción\nEjemplo: 45 lentejas con arroz")
	case "comidas_listar":
		return h.showMeals(ctx, chatID)

	case "inventario_listar":
		return h.showSupplies(ctx, chatID)
	case "inventario_movimiento":
		h.stateManager.SetState(chatID, state.WaitingForMovement)
		return h.sendText(chatID, "Envía: id cantidad [motivo]\nCantidad positiva repone, negativa consume.\nEjemplo: 3 -2 uso")

	case "kit_nuevo":
		h.stateManager.SetState(chatID, state.WaitingForKitName)
		return h.sendText(chatID, "Envía: nombre | descripción\nEjemplo: Kit mochila | Kit para el instituto")
	}

	if id, ok := cutID(data, "kit_"); ok {
		return h.showKitDetail(ctx, chatID, id)
	}
	if id, ok := cutID(data, "kitqr_"); ok {
		return h.sendKitQR(ctx, chatID, id)
	}
	if id, ok := cutID(data, "kitrotar_"); ok {
		return h.rotateKitToken(ctx, chatID, id)
	}
	if id, ok := cutID(data, "kitverif_"); ok {
		return h.showKitVerifications(ctx, chatID, id)
	}
	if id, ok := cutID(data, "kitborrar_"); ok {
		return h.deleteKit(ctx, chatID, id)
	}
	if id, ok := cutID(data, "alertaack_"); ok {
		return h.acknowledgeAlert(ctx, chatID, id)
	}

	return nil
}

func (h *CallbackHandler) showGlucose(ctx context.Context, chatID int64) error {
	hasta := time.Now()
	desde := hasta.AddDate(0, 0, -7)
	readings, err := h.deps.Glucose.List(ctx, domain.Rango{Desde: &desde, Hasta: &hasta})
	if err != nil {
		return h.loadError(chatID, "glucemias", err)
	}
	return h.sendKeyboard(chatID, renderGlucoseSummary(readings), backOnly())
}

func (h *CallbackHandler) showDoses(ctx context.Context, chatID int64) error {
	dosis, err := h.deps.Doses.List(ctx, domain.DosisFiltro{Rango: domain.RangoDia(time.Now())})
	if err != nil {
		return h.loadError(chatID, "dosis", err)
	}
	return h.sendKeyboard(chatID, renderDoses(dosis), backOnly())
}

func (h *CallbackHandler) showMeals(ctx context.Context, chatID int64) error {
	comidas, err := h.deps.Meals.List(ctx, domain.RangoDia(time.Now()))
	if err != nil {
		return h.loadError(chatID, "comidas", err)
	}
	return h.sendKeyboard(chatID, renderMeals(comidas), backOnly())
}

func (h *CallbackHandler) showSupplies(ctx context.Context, chatID int64) error {
	insumos, err := h.deps.Supplies.List(ctx)
	if err != nil {
		return h.loadError(chatID, "insumos", err)
	}
	return h.sendKeyboard(chatID, renderSupplies(insumos), backOnly())
}

func (h *CallbackHandler) showAlerts(ctx context.Context, chatID int64) error {
	alertas, err := h.deps.Alerts.List(ctx, true)
	if err != nil {
		return h.loadError(chatID, "alertas", err)
	}
	return h.sendKeyboard(chatID, renderAlerts(alertas), keyboards.AlertRows(alertas))
}

func (h *CallbackHandler) acknowledgeAlert(ctx context.Context, chatID int64, id int) error {
	if _, err := h.deps.Alerts.Acknowledge(ctx, id); err != nil {
		logger.Error("Failed to acknowledge alert", "alert_id", id, "error", err)
		return h.sendText(chatID, "⚠️ No se pudo atender la alerta.")
	}
	return h.showAlerts(ctx, chatID)
}

func (h *CallbackHandler) showReports(ctx context.Context, chatID int64) error {
	glucosa, err := h.deps.Reports.GlucoseSummary(ctx, domain.Rango{})
	if err != nil {
		return h.loadError(chatID, "resumen de glucosa", err)
	}
	inventario, err := h.deps.Reports.InventorySummary(ctx)
	if err != nil {
		return h.loadError(chatID, "resumen de inventario", err)
	}
	text := renderGlucoseReport(glucosa) + "\n" + renderInventoryReport(inventario)
	return h.sendKeyboard(chatID, text, backOnly())
}

func (h *CallbackHandler) showKits(ctx context.Context, chatID int64) error {
	kits, err := h.deps.Kits.List(ctx)
	if err != nil {
		return h.loadError(chatID, "kits", err)
	}
	text := "🧰 Tus kits de emergencia:"
	if len(kits) == 0 {
		text = "No tienes kits todavía. Crea el primero:"
	}
	return h.sendKeyboard(chatID, text, keyboards.KitsList(kits))
}

func (h *CallbackHandler) showKitDetail(ctx context.Context, chatID int64, id int) error {
	kit, err := h.deps.Kits.Get(ctx, id)
	if err != nil {
		return h.loadError(chatID, "kit", err)
	}
	msg := tgbotapi.NewMessage(chatID, renderKitDetail(kit))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.KitActions(kit.ID)
	_, err = h.api.Send(msg)
	return err
}

// sendKitQR fetches the QR payload and sends the PNG so the user can
// print it or share it directly.
func (h *CallbackHandler) sendKitQR(ctx context.Context, chatID int64, id int) error {
	qr, err := h.deps.Kits.QR(ctx, id)
	if err != nil {
		return h.loadError(chatID, "QR del kit", err)
	}

	png, err := base64.StdEncoding.DecodeString(qr.PNG)
	if err != nil {
		logger.Error("QR payload is not valid base64", "kit_id", id, "error", err)
		return h.sendText(chatID, "⚠️ El QR recibido no es válido.")
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "kit-qr.png", Bytes: png})
	photo.Caption = "🔗 " + qr.URL + "\n\nToken: " + qr.Token
	if _, err := h.api.Send(photo); err != nil {
		return err
	}
	return nil
}

func (h *CallbackHandler) rotateKitToken(ctx context.Context, chatID int64, id int) error {
	token, err := h.deps.Kits.RotateToken(ctx, id)
	if err != nil {
		logger.Error("Failed to rotate kit token", "kit_id", id, "error", err)
		return h.sendText(chatID, "⚠️ No se pudo rotar el token del kit.")
	}
	return h.sendText(chatID, "♻️ Token rotado. Los enlaces y QR anteriores dejan de funcionar.\nNuevo token: "+token)
}

func (h *CallbackHandler) showKitVerifications(ctx context.Context, chatID int64, id int) error {
	verifs, err := h.deps.Kits.Verifications(ctx, id)
	if err != nil {
		return h.loadError(chatID, "verificaciones", err)
	}
	return h.sendKeyboard(chatID, renderVerifications(verifs), backOnly())
}

func (h *CallbackHandler) deleteKit(ctx context.Context, chatID int64, id int) error {
	if err := h.deps.Kits.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete kit", "kit_id", id, "error", err)
		return h.sendText(chatID, "⚠️ No se pudo borrar el kit.")
	}
	if err := h.sendText(chatID, "🗑️ Kit borrado."); err != nil {
		return err
	}
	return h.showKits(ctx, chatID)
}

func (h *CallbackHandler) handleChecklist(ctx context.Context, chatID int64, data string) error {
	if data == "chk_enviar" {
		return submitPublicVerification(ctx, h.api, h.deps, h.stateManager, chatID)
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(data, "chk_"))
	if err != nil {
		return nil
	}
	return togglePublicChecklist(h.api, h.stateManager, chatID, idx)
}

func (h *CallbackHandler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) sendKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := h.api.Send(msg)
	return err
}

// loadError reports a failed read without detail; the view degrades on
// its own, nothing is fatal to the bot.
func (h *CallbackHandler) loadError(chatID int64, what string, err error) error {
	logger.Error("Failed to load "+what, "chat_id", chatID, "error", err)
	return h.sendKeyboard(chatID, "⚠️ No se pudieron cargar los datos de "+what+". Inténtalo de nuevo.", backOnly())
}

func backOnly() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(keyboards.BackToMainRow())
}

func cutID(data, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}
