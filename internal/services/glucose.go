package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type GlucoseService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewGlucoseService(apiClient *api.Client, c *cache.Cache) *GlucoseService {
	return &GlucoseService{api: apiClient, cache: c}
}

func (s *GlucoseService) List(ctx context.Context, rango domain.Rango) ([]domain.Glucemia, error) {
	params := rangoParams(rango)
	key := cache.Key("glucemias", params)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]domain.Glucemia, error) {
		return api.GetList[domain.Glucemia](ctx, s.api, "glucemias/", params)
	})
}

// Save creates the reading when id is zero and patches it otherwise. A
// successful write stales every cached glucose list.
func (s *GlucoseService) Save(ctx context.Context, id int, in domain.GlucemiaInput) (*domain.Glucemia, error) {
	var out domain.Glucemia
	var err error
	if id > 0 {
		err = s.api.Patch(ctx, fmt.Sprintf("glucemias/%d/", id), in, &out)
	} else {
		err = s.api.Post(ctx, "glucemias/", in, &out)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("glucemias")
	return &out, nil
}

func (s *GlucoseService) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("glucemias/%d/", id)); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("glucemias")
	return nil
}
