package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daniilabradorr/diaflow/internal/domain"
)

func kitElements() []domain.ElementoKit {
	return []domain.ElementoKit{
		{Etiqueta: "Glucagón", CantidadRequerida: 1},
		{Etiqueta: "Tiras reactivas", CantidadRequerida: 10},
		{Etiqueta: "Zumo", CantidadRequerida: 2},
	}
}

func TestChecklist(t *testing.T) {
	t.Parallel()

	items := Checklist(kitElements(), map[string]bool{
		"Glucagón": true,
		"Zumo":     false,
	})

	require.Len(t, items, 3)
	require.Equal(t, domain.ItemVerificacion{Etiqueta: "Glucagón", Cantidad: 1}, items[0])
	// Unmentioned elements count as missing, same as unchecked ones.
	require.Equal(t, 0, items[1].Cantidad)
	require.Equal(t, 0, items[2].Cantidad)
}

func TestPublicKitService_FetchAndVerify(t *testing.T) {
	t.Parallel()

	var gotBody map[string][]domain.ItemVerificacion
	mux := http.NewServeMux()
	mux.HandleFunc("/qr/tok-abc", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("public endpoint must be anonymous, got %q", auth)
		}
		fmt.Fprint(w, `{"kit":{"nombre":"Mochila"},"elementos":[{"etiqueta":"Glucagón","cantidad_requerida":1}]}`)
	})
	mux.HandleFunc("/qr/tok-abc/verify", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"resultado_ok":false,"faltantes":{"Glucagón":1}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewPublicKitService(srv.URL)
	ctx := context.Background()

	kit, err := s.FetchKit(ctx, "tok-abc")
	require.NoError(t, err)
	require.Equal(t, "Mochila", kit.Kit.Nombre)
	require.Len(t, kit.Elementos, 1)

	items := Checklist(kit.Elementos, map[string]bool{"Glucagón": false})
	result, err := s.Verify(ctx, "tok-abc", items)
	require.NoError(t, err)

	// The verdict is the backend's, passed through untouched.
	require.False(t, result.ResultadoOK)
	require.Equal(t, map[string]int{"Glucagón": 1}, result.Faltantes)
	require.Equal(t, items, gotBody["items"])
}

func TestPublicKitService_EmptyToken(t *testing.T) {
	t.Parallel()

	s := NewPublicKitService("http://127.0.0.1:0")
	_, err := s.FetchKit(context.Background(), "")
	require.Error(t, err)
}
