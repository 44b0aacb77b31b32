package domain

import "time"

// Inputs are the create/update payloads sent to the backend. Identifiers
// never travel in the body: presence of an id selects PATCH over POST.

type GlucemiaInput struct {
	ValorMgDl int       `json:"valor_mg_dl"`
	MedidoEn  time.Time `json:"medido_en"`
	Fuente    string    `json:"fuente,omitempty"`
	Notas     string    `json:"notas,omitempty"`
}

type DosisInput struct {
	Fecha    time.Time `json:"fecha"`
	Tipo     string    `json:"tipo"`
	Unidades Units     `json:"unidades"`
	Comida   *int      `json:"comida,omitempty"`
	Notas    string    `json:"notas,omitempty"`
}

type ComidaInput struct {
	Fecha          time.Time `json:"fecha"`
	CarbohidratosG int       `json:"carbohidratos_g"`
	Descripcion    string    `json:"descripcion,omitempty"`
}

type InsumoInput struct {
	Nombre      string    `json:"nombre"`
	Tipo        string    `json:"tipo"`
	StockActual *int      `json:"stock_actual,omitempty"`
	StockMinimo *int      `json:"stock_minimo,omitempty"`
	Unidad      string    `json:"unidad,omitempty"`
	CaducaEn    *DateOnly `json:"caduca_en,omitempty"`
}

type MovimientoInput struct {
	Cantidad int    `json:"cantidad"`
	Motivo   string `json:"motivo,omitempty"`
	Nota     string `json:"nota,omitempty"`
}

type KitInput struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

// Rango filters a collection by an inclusive date range. Nil bounds are
// omitted from the request entirely.
type Rango struct {
	Desde *time.Time
	Hasta *time.Time
}

// RangoDia covers one calendar day in local time.
func RangoDia(day time.Time) Rango {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Second)
	return Rango{Desde: &start, Hasta: &end}
}

// DosisFiltro narrows doses by range and kind. Tipo "todas" or empty
// means all kinds.
type DosisFiltro struct {
	Rango
	Tipo string
}
