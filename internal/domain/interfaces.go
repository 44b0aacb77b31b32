package domain

import "context"

// GlucoseService handles blood glucose readings
type GlucoseService interface {
	List(ctx context.Context, rango Rango) ([]Glucemia, error)
	Save(ctx context.Context, id int, in GlucemiaInput) (*Glucemia, error)
	Delete(ctx context.Context, id int) error
}

// DoseService handles insulin doses
type DoseService interface {
	List(ctx context.Context, filtro DosisFiltro) ([]Dosis, error)
	Save(ctx context.Context, id int, in DosisInput) (*Dosis, error)
	Delete(ctx context.Context, id int) error
}

// MealService handles meals
type MealService interface {
	List(ctx context.Context, rango Rango) ([]Comida, error)
	Save(ctx context.Context, id int, in ComidaInput) (*Comida, error)
	Delete(ctx context.Context, id int) error
}

// SupplyService handles the medical supply inventory
type SupplyService interface {
	List(ctx context.Context) ([]Insumo, error)
	Save(ctx context.Context, id int, in InsumoInput) (*Insumo, error)
	RegisterMovement(ctx context.Context, insumoID int, in MovimientoInput) (*MovimientoInsumo, error)
}

// AlertService handles server-raised alerts
type AlertService interface {
	List(ctx context.Context, activas bool) ([]Alerta, error)
	Acknowledge(ctx context.Context, id int) (*Alerta, error)
}

// KitService handles emergency kits and their public tokens
type KitService interface {
	List(ctx context.Context) ([]Kit, error)
	Get(ctx context.Context, id int) (*Kit, error)
	Save(ctx context.Context, id int, in KitInput) (*Kit, error)
	Delete(ctx context.Context, id int) error
	SaveElements(ctx context.Context, kitID int, items []ElementoKit) ([]ElementoKit, error)
	QR(ctx context.Context, kitID int) (*KitQR, error)
	RotateToken(ctx context.Context, kitID int) (string, error)
	Verifications(ctx context.Context, kitID int) ([]VerificacionKit, error)
}

// ReportService reads server-computed summaries
type ReportService interface {
	GlucoseSummary(ctx context.Context, rango Rango) (*ResumenGlucosa, error)
	InventorySummary(ctx context.Context) (*ResumenInventario, error)
}

// PublicKitService is the unauthenticated QR verification flow
type PublicKitService interface {
	FetchKit(ctx context.Context, token string) (*PublicKit, error)
	Verify(ctx context.Context, token string, items []ItemVerificacion) (*ResultadoVerificacion, error)
}
