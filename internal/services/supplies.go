package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type SupplyService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewSupplyService(apiClient *api.Client, c *cache.Cache) *SupplyService {
	return &SupplyService{api: apiClient, cache: c}
}

func (s *SupplyService) List(ctx context.Context) ([]domain.Insumo, error) {
	return cache.Fetch(ctx, s.cache, "insumos", func(ctx context.Context) ([]domain.Insumo, error) {
		return api.GetList[domain.Insumo](ctx, s.api, "insumos/", nil)
	})
}

func (s *SupplyService) Save(ctx context.Context, id int, in domain.InsumoInput) (*domain.Insumo, error) {
	var out domain.Insumo
	var err error
	if id > 0 {
		err = s.api.Patch(ctx, fmt.Sprintf("insumos/%d/", id), in, &out)
	} else {
		err = s.api.Post(ctx, "insumos/", in, &out)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("insumos")
	return &out, nil
}

// RegisterMovement posts a signed stock delta: positive restocks,
// negative consumes. The stock the server answers with is authoritative,
// so the cached supply list goes stale.
func (s *SupplyService) RegisterMovement(ctx context.Context, insumoID int, in domain.MovimientoInput) (*domain.MovimientoInsumo, error) {
	var out domain.MovimientoInsumo
	err := s.api.Post(ctx, fmt.Sprintf("insumos/%d/movimientos/", insumoID), in, &out)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("insumos")
	return &out, nil
}
