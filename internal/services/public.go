package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

// PublicKitService talks to the anonymous QR endpoints. These live at the
// server root, outside /api/, and carry no bearer token. Results are not
// cached: each scan of a link should see the kit as it currently is.
type PublicKitService struct {
	api *api.Client
}

// NewPublicKitService takes the backend root URL, not the /api/ base.
func NewPublicKitService(baseURL string) *PublicKitService {
	return &PublicKitService{api: api.NewClient(baseURL, nil)}
}

func (s *PublicKitService) FetchKit(ctx context.Context, token string) (*domain.PublicKit, error) {
	if token == "" {
		return nil, fmt.Errorf("kit token is required")
	}
	var kit domain.PublicKit
	if err := s.api.Get(ctx, "qr/"+token, nil, &kit); err != nil {
		return nil, err
	}
	return &kit, nil
}

// Verify submits the full checklist and returns the verdict untouched.
// Re-submitting after a failed verification is allowed.
func (s *PublicKitService) Verify(ctx context.Context, token string, items []domain.ItemVerificacion) (*domain.ResultadoVerificacion, error) {
	var result domain.ResultadoVerificacion
	err := s.api.Post(ctx, "qr/"+token+"/verify", map[string]any{"items": items}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Checklist builds the submission for a kit: present elements contribute
// their required quantity, missing ones contribute zero. The public
// payload has no element ids, so lines are keyed by label.
func Checklist(elementos []domain.ElementoKit, present map[string]bool) []domain.ItemVerificacion {
	items := make([]domain.ItemVerificacion, 0, len(elementos))
	for _, e := range elementos {
		cantidad := e.CantidadRequerida
		if !present[e.Etiqueta] {
			cantidad = 0
		}
		items = append(items, domain.ItemVerificacion{Etiqueta: e.Etiqueta, Cantidad: cantidad})
	}
	return items
}
