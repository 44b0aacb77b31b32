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

func TestRangoParams_OmitsAbsentBounds(t *testing.T) {
	t.Parallel()

	if got := rangoParams(domain.Rango{}); len(got) != 0 {
		t.Fatalf("empty range must encode no parameters, got %v", got)
	}

	desde := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	p := rangoParams(domain.Rango{Desde: &desde})
	if p.Get("desde") != "2026-08-23T00:00:00" {
		t.Fatalf("desde: got %q", p.Get("desde"))
	}
	if _, ok := p["hasta"]; ok {
		t.Fatalf("absent hasta must not be sent at all")
	}
}

func TestDoseService_TipoFilter(t *testing.T) {
	t.Parallel()

	var queries []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query())
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	s := NewDoseService(api.NewClient(srv.URL, nil), cache.New())
	ctx := context.Background()

	_, err := s.List(ctx, domain.DosisFiltro{Tipo: "todas"})
	require.NoError(t, err)
	_, err = s.List(ctx, domain.DosisFiltro{Tipo: ""})
	require.NoError(t, err)
	_, err = s.List(ctx, domain.DosisFiltro{Tipo: domain.DoseBolus})
	require.NoError(t, err)

	// "todas" and "" mean the same unfiltered request, which the cache
	// collapses into one fetch.
	require.Len(t, queries, 2)
	if _, ok := queries[0]["tipo"]; ok {
		t.Fatalf("catch-all tipo must not reach the wire: %v", queries[0])
	}
	require.Equal(t, "bolo", queries[1].Get("tipo"))
}

func TestDoseService_SaveInvalidatesEveryFilterVariant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":10,"tipo":"bolo","unidades":"4.50"}`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := cache.New()
	s := NewDoseService(api.NewClient(srv.URL, nil), c)
	ctx := context.Background()

	_, err := s.List(ctx, domain.DosisFiltro{})
	require.NoError(t, err)
	_, err = s.List(ctx, domain.DosisFiltro{Tipo: domain.DoseBasal})
	require.NoError(t, err)
	require.True(t, c.Contains("dosis"))
	require.True(t, c.Contains("dosis?tipo=basal"))

	saved, err := s.Save(ctx, 0, domain.DosisInput{Tipo: domain.DoseBolus, Unidades: 4.5})
	require.NoError(t, err)
	require.InDelta(t, 4.5, float64(saved.Unidades), 1e-9)

	require.False(t, c.Contains("dosis"))
	require.False(t, c.Contains("dosis?tipo=basal"))
}
