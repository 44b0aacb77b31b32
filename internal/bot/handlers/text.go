package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/bot/menus"
	"github.com/daniilabradorr/diaflow/internal/bot/state"
	"github.com/daniilabradorr/diaflow/internal/domain"
	"github.com/daniilabradorr/diaflow/internal/logger"
)

// TextHandler handles free-text messages according to the chat state
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *TextHandler {
	return &TextHandler{api: api, deps: deps, stateManager: stateManager}
}

// Handle interprets the message according to the conversation state.
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	chatState := h.stateManager.State(chatID)

	// Credential states are the only text input an anonymous chat has.
	switch chatState {
	case state.WaitingForLogin:
		return h.handleCredentials(ctx, chatID, text, doLogin)
	case state.WaitingForRegister:
		return h.handleCredentials(ctx, chatID, text, doRegister)
	}

	if user == nil {
		return menus.SendLoginPrompt(h.api, chatID)
	}

	switch chatState {
	case state.WaitingForGlucose:
		return h.handleGlucose(ctx, chatID, text)
	case state.WaitingForDose:
		return h.handleDose(ctx, chatID, text)
	case state.WaitingForMeal:
		return h.handleMeal(ctx, chatID, text)
	case state.WaitingForMovement:
		return h.handleMovement(ctx, chatID, text)
	case state.WaitingForKitName:
		return h.handleKitName(ctx, chatID, text)
	case state.WaitingForElements:
		return h.handleKitElements(ctx, chatID, text)
	default:
		return h.sendText(chatID, "Usa el menú para elegir una acción, o /help para ver los comandos.")
	}
}

type credentialsFunc func(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID int64, username, password string) error

func (h *TextHandler) handleCredentials(ctx context.Context, chatID int64, text string, fn credentialsFunc) error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return h.sendText(chatID, "Formato: usuario contraseña (separados por un espacio).")
	}
	h.stateManager.ClearState(chatID)
	return fn(ctx, h.api, h.deps, chatID, fields[0], fields[1])
}

// handleGlucose parses "valor [nota]" and records the reading as of now.
func (h *TextHandler) handleGlucose(ctx context.Context, chatID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return h.sendText(chatID, "Envía un número en mg/dL. Ejemplo: 110")
	}
	valor, err := strconv.Atoi(fields[0])
	if err != nil || valor < 20 || valor > 600 {
		return h.sendText(chatID, "Valor no válido. Debe ser un número entre 20 y 600 mg/dL.")
	}

	in := domain.GlucemiaInput{
		ValorMgDl: valor,
		MedidoEn:  time.Now(),
		Fuente:    "manual",
		Notas:     strings.Join(fields[1:], " "),
	}
	saved, err := h.deps.Glucose.Save(ctx, 0, in)
	if err != nil {
		return h.saveError(chatID, "la glucemia", err)
	}

	h.stateManager.ClearState(chatID)
	return h.sendText(chatID, fmt.Sprintf("✅ Glucemia de %d mg/dL guardada (#%d).", saved.ValorMgDl, saved.ID))
}

// handleDose parses "tipo unidades [nota]".
func (h *TextHandler) handleDose(ctx context.Context, chatID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return h.sendText(chatID, "Formato: tipo unidades [nota]. Ejemplo: bolo 4.5 desayuno")
	}

	tipo := strings.ToLower(fields[0])
	switch tipo {
	case domain.DoseBolus, domain.DoseBasal, domain.DoseCorrection:
	default:
		return h.sendText(chatID, "Tipo no válido. Usa: bolo, basal o corr.")
	}

	unidades, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || unidades < 0 || unidades > 100 {
		return h.sendText(chatID, "Unidades no válidas. Deben estar entre 0 y 100.")
	}

	in := domain.DosisInput{
		Fecha:    time.Now(),
		Tipo:     tipo,
		Unidades: domain.Units(unidades),
		Notas:    strings.Join(fields[2:], " "),
	}
	saved, err := h.deps.Doses.Save(ctx, 0, in)
	if err != nil {
		return h.saveError(chatID, "la dosis", err)
	}

	h.stateManager.ClearState(chatID)
	return h.sendText(chatID, fmt.Sprintf("✅ Dosis de %.1f U (%s) guardada (#%d).", float64(saved.Unidades), tipo, saved.ID))
}

// handleMeal parses "carbohidratos descripción".
func (h *TextHandler) handleMeal(ctx context.Context, chatID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return h.sendText(chatID, "Formato: carbohidratos descripción. Ejemplo: 45 lentejas con arroz")
	}
	carbs, err := strconv.Atoi(fields[0])
	if err != nil || carbs < 0 {
		return h.sendText(chatID, "Los carbohidratos deben ser un número mayor o igual que 0.")
	}

	in := domain.ComidaInput{
		Fecha:          time.Now(),
		CarbohidratosG: carbs,
		Descripcion:    strings.Join(fields[1:], " "),
	}
	saved, err := h.deps.Meals.Save(ctx, 0, in)
	if err != nil {
		return h.saveError(chatID, "la comida", err)
	}

	h.stateManager.ClearState(chatID)
	return h.sendText(chatID, fmt.Sprintf("✅ Comida de %d g de HC guardada (#%d).", saved.CarbohidratosG, saved.ID))
}

// handleMovement parses "id cantidad [motivo]"; positive restocks,
// negative consumes.
func (h *TextHandler) handleMovement(ctx context.Context, chatID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return h.sendText(chatID, "Formato: id cantidad [motivo]. Ejemplo: 3 -2 uso")
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return h.sendText(chatID, "El id del insumo no es válido.")
	}
	cantidad, err := strconv.Atoi(fields[1])
	if err != nil || cantidad == 0 {
		return h.sendText(chatID, "La cantidad debe ser un número distinto de 0.")
	}

	motivo := "uso"
	if cantidad > 0 {
		motivo = "compra"
	}
	if len(fields) > 2 {
		motivo = fields[2]
	}

	_, err = h.deps.Supplies.RegisterMovement(ctx, id, domain.MovimientoInput{
		Cantidad: cantidad,
		Motivo:   motivo,
	})
	if err != nil {
		return h.saveError(chatID, "el movimiento", err)
	}

	h.stateManager.ClearState(chatID)
	return h.sendText(chatID, fmt.Sprintf("✅ Movimiento de %+d registrado en el insumo #%d.", cantidad, id))
}

// handleKitName parses "nombre | descripción", creates the kit and asks
// for its elements.
func (h *TextHandler) handleKitName(ctx context.Context, chatID int64, text string) error {
	nombre, descripcion := text, ""
	if before, after, found := strings.Cut(text, "|"); found {
		nombre = strings.TrimSpace(before)
		descripcion = strings.TrimSpace(after)
	}
	if nombre == "" {
		return h.sendText(chatID, "El kit necesita un nombre. Formato: nombre | descripción")
	}

	kit, err := h.deps.Kits.Save(ctx, 0, domain.KitInput{Nombre: nombre, Descripcion: descripcion})
	if err != nil {
		return h.saveError(chatID, "el kit", err)
	}

	h.stateManager.SetState(chatID, state.WaitingForElements)
	h.stateManager.SetTempData(chatID, "kit_id", kit.ID)
	return h.sendText(chatID, `Kit creado. Ahora envía sus elementos, uno por línea:
etiqueta: cantidad [unidad]

Ejemplo:
Tiras: 2 u
Lancetas: 5 u`)
}

// handleKitElements parses one "etiqueta: cantidad [unidad]" per line and
// replaces the kit checklist in one bulk call.
func (h *TextHandler) handleKitElements(ctx context.Context, chatID int64, text string) error {
	raw, ok := h.stateManager.TempData(chatID, "kit_id")
	kitID, _ := raw.(int)
	if !ok || kitID <= 0 {
		h.stateManager.ClearState(chatID)
		return h.sendText(chatID, "Se perdió el kit en edición. Vuelve a abrirlo desde el menú de kits.")
	}

	items, err := parseElements(text)
	if err != nil {
		return h.sendText(chatID, err.Error())
	}

	if _, err := h.deps.Kits.SaveElements(ctx, kitID, items); err != nil {
		return h.saveError(chatID, "los elementos del kit", err)
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.ClearTempData(chatID)
	return h.sendText(chatID, fmt.Sprintf("✅ %d elemento(s) guardados en el kit #%d.", len(items), kitID))
}

func parseElements(text string) ([]domain.ElementoKit, error) {
	var items []domain.ElementoKit
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		etiqueta, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("línea no válida: %q. Formato: etiqueta: cantidad [unidad]", line)
		}
		etiqueta = strings.TrimSpace(etiqueta)

		fields := strings.Fields(rest)
		if etiqueta == "" || len(fields) == 0 {
			return nil, fmt.Errorf("línea no válida: %q. Formato: etiqueta: cantidad [unidad]", line)
		}
		cantidad, err := strconv.Atoi(fields[0])
		if err != nil || cantidad <= 0 {
			return nil, fmt.Errorf("cantidad no válida en %q", line)
		}
		unidad := "u"
		if len(fields) > 1 {
			unidad = fields[1]
		}
		items = append(items, domain.ElementoKit{
			Etiqueta:          etiqueta,
			CantidadRequerida: cantidad,
			Unidad:            unidad,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no se encontró ningún elemento. Formato: etiqueta: cantidad [unidad]")
	}
	return items, nil
}

func (h *TextHandler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) saveError(chatID int64, what string, err error) error {
	logger.Error("Failed to save "+what, "chat_id", chatID, "error", err)
	return h.sendText(chatID, "⚠️ No se pudo guardar "+what+". Inténtalo de nuevo.")
}
