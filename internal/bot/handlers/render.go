package handlers

import (
	"fmt"
	"strings"

	"github.com/daniilabradorr/diaflow/internal/domain"
	"github.com/daniilabradorr/diaflow/internal/stats"
)

// Spanish short timestamps, matching the rest of the UI strings.
const (
	hourLayout = "15:04"
	dayLayout  = "02/01 15:04"
)

var doseNames = map[string]string{
	domain.DoseBolus:      "bolo",
	domain.DoseBasal:      "basal",
	domain.DoseCorrection: "corrección",
}

func renderGlucoseSummary(readings []domain.Glucemia) string {
	summary := stats.Summarize(readings, stats.DefaultRange)
	if summary.Last == nil {
		return "No hay glucemias registradas en este periodo."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🩸 Última: %d mg/dL (%s)\n", summary.Last.ValorMgDl, summary.Last.MedidoEn.Format(dayLayout))
	fmt.Fprintf(&b, "📈 Media: %.1f · Mín: %d · Máx: %d\n", *summary.Mean, *summary.Min, *summary.Max)
	fmt.Fprintf(&b, "🎯 En rango (%d-%d): %d%%\n", stats.DefaultRange.Min, stats.DefaultRange.Max, *summary.PercentInRange)

	if len(summary.PerDay) > 1 {
		b.WriteString("\nMedia por día:\n")
		for _, d := range summary.PerDay {
			fmt.Fprintf(&b, "  %s → %d mg/dL\n", d.Fecha, d.Valor)
		}
	}

	b.WriteString("\nÚltimas lecturas:\n")
	for _, g := range summary.LastN {
		fmt.Fprintf(&b, "  %s — %d mg/dL", g.MedidoEn.Format(dayLayout), g.ValorMgDl)
		if g.Notas != "" {
			fmt.Fprintf(&b, " (%s)", g.Notas)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderDoses(dosis []domain.Dosis) string {
	if len(dosis) == 0 {
		return "No hay dosis registradas hoy."
	}
	var b strings.Builder
	b.WriteString("💉 Dosis de hoy:\n")
	for _, d := range dosis {
		name := doseNames[d.Tipo]
		if name == "" {
			name = d.Tipo
		}
		fmt.Fprintf(&b, "  %s — %.1f U (%s)", d.Fecha.Format(hourLayout), float64(d.Unidades), name)
		if d.Notas != "" {
			fmt.Fprintf(&b, " · %s", d.Notas)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderMeals(comidas []domain.Comida) string {
	if len(comidas) == 0 {
		return "No hay comidas registradas hoy."
	}
	var b strings.Builder
	b.WriteString("🍽️ Comidas de hoy:\n")
	for _, c := range comidas {
		fmt.Fprintf(&b, "  %s — %d g HC", c.Fecha.Format(hourLayout), c.CarbohidratosG)
		if c.Descripcion != "" {
			fmt.Fprintf(&b, " · %s", c.Descripcion)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderSupplies(insumos []domain.Insumo) string {
	if len(insumos) == 0 {
		return "El inventario está vacío."
	}
	var b strings.Builder
	b.WriteString("📦 Inventario:\n")
	for _, i := range insumos {
		fmt.Fprintf(&b, "  #%d %s: ", i.ID, i.Nombre)
		if i.StockActual != nil {
			fmt.Fprintf(&b, "%d%s", *i.StockActual, i.Unidad)
		} else {
			b.WriteString("—")
		}
		if i.Critico() {
			fmt.Fprintf(&b, " ⚠️ (mínimo %d)", *i.StockMinimo)
		}
		b.WriteString("\n")
	}

	if critical := stats.CriticalSupplies(insumos); len(critical) > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d insumo(s) por debajo del mínimo.\n", len(critical))
	}
	return b.String()
}

func renderAlerts(alertas []domain.Alerta) string {
	if len(alertas) == 0 {
		return "🔔 No tienes alertas activas."
	}
	var b strings.Builder
	b.WriteString("🔔 Alertas activas:\n")
	for _, a := range alertas {
		fmt.Fprintf(&b, "  #%d [%s] %s\n", a.ID, a.Tipo, a.Mensaje)
	}
	return b.String()
}

func renderKitDetail(kit *domain.Kit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧰 *%s*\n", kit.Nombre)
	if kit.Descripcion != "" {
		b.WriteString(kit.Descripcion + "\n")
	}
	if len(kit.Elementos) == 0 {
		b.WriteString("\nEste kit aún no tiene elementos.\n")
	} else {
		b.WriteString("\nElementos:\n")
		for _, e := range kit.Elementos {
			fmt.Fprintf(&b, "  • %s: %d%s\n", e.Etiqueta, e.CantidadRequerida, e.Unidad)
		}
	}
	return b.String()
}

func renderVerifications(verifs []domain.VerificacionKit) string {
	if len(verifs) == 0 {
		return "Este kit no tiene verificaciones todavía."
	}
	var b strings.Builder
	b.WriteString("📜 Verificaciones:\n")
	for _, v := range verifs {
		result := "✅ completa"
		if !v.ResultadoOK {
			result = "❌ incompleta"
		}
		fmt.Fprintf(&b, "  %s — %s (%s)", v.CreadoEn.Format(dayLayout), result, v.Origen)
		if len(v.Faltantes) > 0 {
			b.WriteString(" · falta:")
			for etiqueta, n := range v.Faltantes {
				fmt.Fprintf(&b, " %s×%d", etiqueta, n)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderGlucoseReport(r *domain.ResumenGlucosa) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Resumen de glucosa (%s a %s):\n", r.Desde, r.Hasta)
	if r.Total == 0 {
		b.WriteString("  Sin lecturas en este periodo.\n")
		return b.String()
	}
	if r.Promedio != nil {
		fmt.Fprintf(&b, "  Media: %.1f mg/dL\n", *r.Promedio)
	}
	if r.Min != nil && r.Max != nil {
		fmt.Fprintf(&b, "  Mín/Máx: %d / %d mg/dL\n", *r.Min, *r.Max)
	}
	if r.EnRangoPct != nil {
		fmt.Fprintf(&b, "  En rango (%.0f-%.0f): %.1f%%\n", r.ObjetivoMin, r.ObjetivoMax, *r.EnRangoPct)
	}
	fmt.Fprintf(&b, "  Lecturas: %d\n", r.Total)
	return b.String()
}

func renderInventoryReport(r *domain.ResumenInventario) string {
	var b strings.Builder
	b.WriteString("📦 Resumen de inventario:\n")
	if len(r.BajoMinimo) == 0 {
		b.WriteString("  Ningún insumo por debajo del mínimo. 👌\n")
	} else {
		b.WriteString("  Bajo mínimo:\n")
		for _, i := range r.BajoMinimo {
			actual, minimo := 0, 0
			if i.StockActual != nil {
				actual = *i.StockActual
			}
			if i.StockMinimo != nil {
				minimo = *i.StockMinimo
			}
			fmt.Fprintf(&b, "    ⚠️ %s: %d/%d%s\n", i.Nombre, actual, minimo, i.Unidad)
		}
	}
	if len(r.TotalesPorTipo) > 0 {
		b.WriteString("  Totales por tipo:\n")
		for _, t := range r.TotalesPorTipo {
			fmt.Fprintf(&b, "    %s: %d\n", t.Tipo, t.Count)
		}
	}
	return b.String()
}
