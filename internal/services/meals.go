package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type MealService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewMealService(apiClient *api.Client, c *cache.Cache) *MealService {
	return &MealService{api: apiClient, cache: c}
}

func (s *MealService) List(ctx context.Context, rango domain.Rango) ([]domain.Comida, error) {
	params := rangoParams(rango)
	key := cache.Key("comidas", params)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]domain.Comida, error) {
		return api.GetList[domain.Comida](ctx, s.api, "comidas/", params)
	})
}

func (s *MealService) Save(ctx context.Context, id int, in domain.ComidaInput) (*domain.Comida, error) {
	var out domain.Comida
	var err error
	if id > 0 {
		err = s.api.Patch(ctx, fmt.Sprintf("comidas/%d/", id), in, &out)
	} else {
		err = s.api.Post(ctx, "comidas/", in, &out)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("comidas")
	return &out, nil
}

func (s *MealService) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("comidas/%d/", id)); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("comidas")
	return nil
}
