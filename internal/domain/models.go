package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dose kinds accepted by the backend.
const (
	DoseBolus      = "bolo"
	DoseBasal      = "basal"
	DoseCorrection = "corr"
)

// Units is an insulin amount. The backend stores it as a decimal and may
// serialize it either as a JSON number or as a quoted string.
type Units float64

func (u *Units) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid units %q: %w", s, err)
	}
	*u = Units(v)
	return nil
}

func (u Units) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(u))
}

// DateOnly is a calendar date without time, serialized as "2006-01-02".
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Glucemia is a single blood glucose reading in mg/dL.
type Glucemia struct {
	ID        int       `json:"id"`
	ValorMgDl int       `json:"valor_mg_dl"`
	MedidoEn  time.Time `json:"medido_en"`
	Fuente    string    `json:"fuente,omitempty"`
	Notas     string    `json:"notas,omitempty"`
}

// Dosis is an insulin dose, optionally linked to a meal.
type Dosis struct {
	ID       int       `json:"id"`
	Fecha    time.Time `json:"fecha"`
	Tipo     string    `json:"tipo"`
	Unidades Units     `json:"unidades"`
	Comida   *int      `json:"comida,omitempty"`
	Notas    string    `json:"notas,omitempty"`
}

// Comida is a recorded meal with its carbohydrate load.
type Comida struct {
	ID             int       `json:"id"`
	Fecha          time.Time `json:"fecha"`
	CarbohidratosG int       `json:"carbohidratos_g"`
	Descripcion    string    `json:"descripcion,omitempty"`
}

// Insumo is a medical supply with its stock levels. Stock fields are
// pointers: a missing threshold means the supply is never flagged critical.
type Insumo struct {
	ID          int       `json:"id"`
	Nombre      string    `json:"nombre"`
	Tipo        string    `json:"tipo"`
	StockActual *int      `json:"stock_actual"`
	StockMinimo *int      `json:"stock_minimo"`
	Unidad      string    `json:"unidad,omitempty"`
	CaducaEn    *DateOnly `json:"caduca_en,omitempty"`
}

// Critico reports whether current stock has fallen below the minimum.
// Derived, never stored.
func (i Insumo) Critico() bool {
	return i.StockActual != nil && i.StockMinimo != nil && *i.StockActual < *i.StockMinimo
}

// MovimientoInsumo is a signed stock movement: positive restocks,
// negative consumes.
type MovimientoInsumo struct {
	ID       int        `json:"id,omitempty"`
	Cantidad int        `json:"cantidad"`
	Motivo   string     `json:"motivo,omitempty"`
	Nota     string     `json:"nota,omitempty"`
	Fecha    *time.Time `json:"fecha,omitempty"`
}

// Alerta is a server-raised alert; acknowledging it sets Activa false.
type Alerta struct {
	ID         int        `json:"id"`
	Tipo       string     `json:"tipo"`
	Mensaje    string     `json:"mensaje"`
	Activa     bool       `json:"activa"`
	CreadaEn   time.Time  `json:"creada_en"`
	AtendidaEn *time.Time `json:"atendida_en,omitempty"`
}

// ElementoKit is one required item of a kit checklist. ID is zero for
// rows not yet created server-side.
type ElementoKit struct {
	ID                int    `json:"id,omitempty"`
	Etiqueta          string `json:"etiqueta"`
	CantidadRequerida int    `json:"cantidad_requerida"`
	Unidad            string `json:"unidad,omitempty"`
}

// Kit is an emergency kit with a rotatable public access token.
type Kit struct {
	ID           int           `json:"id"`
	Nombre       string        `json:"nombre"`
	Descripcion  string        `json:"descripcion,omitempty"`
	Activo       bool          `json:"activo"`
	TokenPublico string        `json:"token_publico,omitempty"`
	Elementos    []ElementoKit `json:"elementos,omitempty"`
}

// VerificacionKit is one entry of a kit's verification history.
type VerificacionKit struct {
	ID          int            `json:"id"`
	Origen      string         `json:"origen"`
	ResultadoOK bool           `json:"resultado_ok"`
	Faltantes   map[string]int `json:"faltantes_json"`
	CreadoEn    time.Time      `json:"creado_en"`
}

// KitQR carries everything needed to share a kit publicly: the token, the
// public URL and the QR image both as raw base64 and as a data URL.
type KitQR struct {
	Token   string `json:"token"`
	URL     string `json:"url"`
	PNG     string `json:"png"`
	DataURL string `json:"data_url"`
}

// Paciente is the profile behind a session.
type Paciente struct {
	ID                 int       `json:"id"`
	Nombre             string    `json:"nombre"`
	FechaNacimiento    *DateOnly `json:"fecha_nacimiento,omitempty"`
	TipoDiabetes       string    `json:"tipo_diabetes,omitempty"`
	ObjetivoGlucosaMin *int      `json:"objetivo_glucosa_min,omitempty"`
	ObjetivoGlucosaMax *int      `json:"objetivo_glucosa_max,omitempty"`
}

// ResumenGlucosa is the server-computed glucose report.
type ResumenGlucosa struct {
	Promedio    *float64 `json:"promedio"`
	Min         *int     `json:"min"`
	Max         *int     `json:"max"`
	EnRangoPct  *float64 `json:"en_rango_pct"`
	Total       int      `json:"total"`
	Desde       string   `json:"desde"`
	Hasta       string   `json:"hasta"`
	ObjetivoMin float64  `json:"objetivo_min"`
	ObjetivoMax float64  `json:"objetivo_max"`
}

// TotalPorTipo counts supplies per type in the inventory report.
type TotalPorTipo struct {
	Tipo  string `json:"tipo"`
	Count int    `json:"c"`
}

// ResumenInventario is the server-computed inventory report.
type ResumenInventario struct {
	BajoMinimo     []Insumo       `json:"bajo_minimo"`
	TotalesPorTipo []TotalPorTipo `json:"totales_por_tipo"`
}

// PublicKitInfo is the reduced kit view exposed on the public QR endpoint.
type PublicKitInfo struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

// PublicKit is the payload of GET qr/{token}.
type PublicKit struct {
	Kit       PublicKitInfo `json:"kit"`
	Elementos []ElementoKit `json:"elementos"`
}

// ItemVerificacion is one submitted checklist line.
type ItemVerificacion struct {
	Etiqueta string `json:"etiqueta"`
	Cantidad int    `json:"cantidad"`
}

// ResultadoVerificacion is the verdict of a public verification:
// Faltantes maps the label of each missing element to the missing amount.
type ResultadoVerificacion struct {
	ResultadoOK bool           `json:"resultado_ok"`
	Faltantes   map[string]int `json:"faltantes"`
}

// User is the identity derived from the session token, possibly enriched
// by a profile fetch.
type User struct {
	Username string
	Nombre   string
	Perfil   *Paciente
}
