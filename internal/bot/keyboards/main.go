package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/daniilabradorr/diaflow/internal/domain"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Glucosa", "menu_glucosa"),
			tgbotapi.NewInlineKeyboardButtonData("💉 Dosis", "menu_dosis"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Comidas", "menu_comidas"),
			tgbotapi.NewInlineKeyboardButtonData("📦 Inventario", "menu_inventario"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧰 Kits", "menu_kits"),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Alertas", "menu_alertas"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Resumen", "menu_resumen"),
		),
	)
}

// BackToMainRow is the row most screens end with.
func BackToMainRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Menú principal", "main_menu"),
	)
}

// RecordListMenu offers record/list for one resource.
func RecordListMenu(resource string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Registrar", resource+"_registrar"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Ver", resource+"_listar"),
		),
		BackToMainRow(),
	)
}

// InventoryMenu lists supplies plus the movement action.
func InventoryMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Ver stock", "inventario_listar"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Movimiento", "inventario_movimiento"),
		),
		BackToMainRow(),
	)
}

// KitsList builds one button per kit plus the create action.
func KitsList(kits []domain.Kit) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, k := range kits {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🧰 "+k.Nombre, fmt.Sprintf("kit_%d", k.ID)),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Nuevo kit", "kit_nuevo"),
		),
		BackToMainRow(),
	)
	return keyboard
}

// KitActions are the operations on one kit.
func KitActions(kitID int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔳 QR", fmt.Sprintf("kitqr_%d", kitID)),
			tgbotapi.NewInlineKeyboardButtonData("♻️ Rotar token", fmt.Sprintf("kitrotar_%d", kitID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 Verificaciones", fmt.Sprintf("kitverif_%d", kitID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Borrar", fmt.Sprintf("kitborrar_%d", kitID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Kits", "menu_kits"),
		),
	)
}

// AlertRows builds one acknowledge button per active alert.
func AlertRows(alertas []domain.Alerta) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, a := range alertas {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("✅ Atender #%d", a.ID),
					fmt.Sprintf("alertaack_%d", a.ID),
				),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, BackToMainRow())
	return keyboard
}

// Checklist renders the public verification checklist with one toggle per
// element. Every element starts as present.
func Checklist(elementos []domain.ElementoKit, present map[string]bool) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for i, e := range elementos {
		mark := "✅"
		if !present[e.Etiqueta] {
			mark = "❌"
		}
		label := fmt.Sprintf("%s %s (%d%s)", mark, e.Etiqueta, e.CantidadRequerida, e.Unidad)
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("chk_%d", i)),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Enviar verificación", "chk_enviar"),
		),
	)
	return keyboard
}
