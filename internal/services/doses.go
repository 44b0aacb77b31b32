package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type DoseService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewDoseService(apiClient *api.Client, c *cache.Cache) *DoseService {
	return &DoseService{api: apiClient, cache: c}
}

func (s *DoseService) List(ctx context.Context, filtro domain.DosisFiltro) ([]domain.Dosis, error) {
	params := rangoParams(filtro.Rango)
	// "todas" is the UI's catch-all and means no tipo filter at all.
	if filtro.Tipo != "" && filtro.Tipo != "todas" {
		params.Set("tipo", filtro.Tipo)
	}
	key := cache.Key("dosis", params)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]domain.Dosis, error) {
		return api.GetList[domain.Dosis](ctx, s.api, "dosis/", params)
	})
}

func (s *DoseService) Save(ctx context.Context, id int, in domain.DosisInput) (*domain.Dosis, error) {
	var out domain.Dosis
	var err error
	if id > 0 {
		err = s.api.Patch(ctx, fmt.Sprintf("dosis/%d/", id), in, &out)
	} else {
		err = s.api.Post(ctx, "dosis/", in, &out)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("dosis")
	return &out, nil
}

func (s *DoseService) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("dosis/%d/", id)); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("dosis")
	return nil
}
