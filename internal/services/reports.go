package services

import (
	"context"
	"net/url"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

// reportDateLayout differs from the list filters: the report endpoints
// take plain dates, not datetimes.
const reportDateLayout = "2006-01-02"

type ReportService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewReportService(apiClient *api.Client, c *cache.Cache) *ReportService {
	return &ReportService{api: apiClient, cache: c}
}

// GlucoseSummary reads the server-computed glucose KPIs. The server
// defaults to the last 30 days when the range is open.
func (s *ReportService) GlucoseSummary(ctx context.Context, rango domain.Rango) (*domain.ResumenGlucosa, error) {
	params := url.Values{}
	if rango.Desde != nil {
		params.Set("desde", rango.Desde.Format(reportDateLayout))
	}
	if rango.Hasta != nil {
		params.Set("hasta", rango.Hasta.Format(reportDateLayout))
	}
	key := cache.Key("reporte-glucosa", params)
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*domain.ResumenGlucosa, error) {
		var resumen domain.ResumenGlucosa
		if err := s.api.Get(ctx, "reportes/glucosa_resumen/", params, &resumen); err != nil {
			return nil, err
		}
		return &resumen, nil
	})
}

func (s *ReportService) InventorySummary(ctx context.Context) (*domain.ResumenInventario, error) {
	return cache.Fetch(ctx, s.cache, "reporte-inventario", func(ctx context.Context) (*domain.ResumenInventario, error) {
		var resumen domain.ResumenInventario
		if err := s.api.Get(ctx, "reportes/inventario_resumen/", nil, &resumen); err != nil {
			return nil, err
		}
		return &resumen, nil
	})
}
