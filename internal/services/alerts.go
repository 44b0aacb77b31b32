package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type AlertService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewAlertService(apiClient *api.Client, c *cache.Cache) *AlertService {
	return &AlertService{api: apiClient, cache: c}
}

func (s *AlertService) List(ctx context.Context, activas bool) ([]domain.Alerta, error) {
	params := url.Values{}
	params.Set("activas", strconv.FormatBool(activas))
	key := cache.Key("alertas", params)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]domain.Alerta, error) {
		return api.GetList[domain.Alerta](ctx, s.api, "alertas/", params)
	})
}

// Acknowledge marks the alert as attended; it disappears from the active
// list on the next read.
func (s *AlertService) Acknowledge(ctx context.Context, id int) (*domain.Alerta, error) {
	var out domain.Alerta
	err := s.api.Patch(ctx, fmt.Sprintf("alertas/%d/", id), map[string]bool{"activa": false}, &out)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("alertas")
	return &out, nil
}
