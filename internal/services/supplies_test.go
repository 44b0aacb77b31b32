package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

func TestSupplyService_MovementInvalidatesInventory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/insumos/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `[{"id":1,"nombre":"Tiras","tipo":"tiras","stock_actual":5,"stock_minimo":10}]`)
		case r.URL.Path == "/insumos/1/movimientos/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":30,"cantidad":25,"motivo":"compra"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := cache.New()
	s := NewSupplyService(api.NewClient(srv.URL, nil), c)
	ctx := context.Background()

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Critico())
	require.True(t, c.Contains("insumos"))

	mov, err := s.RegisterMovement(ctx, 1, domain.MovimientoInput{Cantidad: 25, Motivo: "compra"})
	require.NoError(t, err)
	require.Equal(t, 25, mov.Cantidad)
	require.False(t, c.Contains("insumos"), "stock changed, the list must go stale")
}

func TestAlertService_Acknowledge(t *testing.T) {
	t.Parallel()

	var patched string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/alertas/" && r.Method == http.MethodGet:
			require.Equal(t, "true", r.URL.Query().Get("activas"))
			fmt.Fprint(w, `[{"id":2,"mensaje":"Stock bajo: Tiras","activa":true}]`)
		case r.URL.Path == "/alertas/2/" && r.Method == http.MethodPatch:
			patched = r.URL.Path
			fmt.Fprint(w, `{"id":2,"mensaje":"Stock bajo: Tiras","activa":false}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := cache.New()
	s := NewAlertService(api.NewClient(srv.URL, nil), c)
	ctx := context.Background()

	alerts, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	updated, err := s.Acknowledge(ctx, 2)
	require.NoError(t, err)
	require.False(t, updated.Activa)
	require.Equal(t, "/alertas/2/", patched)

	// The active list is stale now.
	params := url.Values{}
	params.Set("activas", "true")
	require.False(t, c.Contains(cache.Key("alertas", params)))
}

func TestReportService_DateOnlyParams(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"promedio":123.4,"min":80,"max":190,"en_rango_pct":71.4,"total":14,"objetivo_min":70,"objetivo_max":180}`)
	}))
	defer srv.Close()

	s := NewReportService(api.NewClient(srv.URL, nil), cache.New())
	desde := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	hasta := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)

	rep, err := s.GlucoseSummary(context.Background(), domain.Rango{Desde: &desde, Hasta: &hasta})
	require.NoError(t, err)
	require.NotNil(t, rep.Promedio)
	require.Equal(t, 14, rep.Total)

	// Reports filter by calendar day, not by timestamp.
	require.Equal(t, "desde=2026-08-01&hasta=2026-08-30", gotQuery)
}
