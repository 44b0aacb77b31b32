package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

// kitBackend serves the kit endpoints against a fixed kit with id 3.
func kitBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/kits/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/kits/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `[{"id":3,"nombre":"Mochila","activo":true}]`)
		case r.URL.Path == "/kits/" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":4,"nombre":"Coche","activo":true}`)
		case r.URL.Path == "/kits/3/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"id":3,"nombre":"Mochila","activo":true,"elementos":[{"id":1,"etiqueta":"Glucagón","cantidad_requerida":1}]}`)
		case r.URL.Path == "/kits/3/" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/kits/3/qr/":
			fmt.Fprint(w, `{"token":"tok-abc","url":"https://dia.flow/qr/tok-abc","png":"aGk=","data_url":"data:image/png;base64,aGk="}`)
		case r.URL.Path == "/kits/3/verificaciones/":
			fmt.Fprint(w, `{"results":[{"id":9,"origen":"qr","resultado_ok":true}]}`)
		case r.URL.Path == "/kits/3/rotate_token/":
			fmt.Fprint(w, `{"token_publico":"tok-new"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return httptest.NewServer(mux)
}

func newKitService(t *testing.T) (*KitService, *cache.Cache, *httptest.Server) {
	t.Helper()
	srv := kitBackend(t)
	c := cache.New()
	return NewKitService(api.NewClient(srv.URL, nil), c), c, srv
}

func TestKitService_DeleteCascadesInvalidation(t *testing.T) {
	t.Parallel()

	s, c, srv := newKitService(t)
	defer srv.Close()
	ctx := context.Background()

	// Warm every derived cache of kit 3.
	_, err := s.List(ctx)
	require.NoError(t, err)
	_, err = s.Get(ctx, 3)
	require.NoError(t, err)
	_, err = s.QR(ctx, 3)
	require.NoError(t, err)
	_, err = s.Verifications(ctx, 3)
	require.NoError(t, err)

	require.True(t, c.Contains("kits"))
	require.True(t, c.Contains(kitDetailKey(3)))
	require.True(t, c.Contains(kitQRKey(3)))
	require.True(t, c.Contains(kitVerificationsKey(3)))

	require.NoError(t, s.Delete(ctx, 3))

	require.False(t, c.Contains("kits"))
	require.False(t, c.Contains(kitDetailKey(3)))
	require.False(t, c.Contains(kitQRKey(3)))
	require.False(t, c.Contains(kitVerificationsKey(3)))
}

func TestKitService_SaveInvalidatesListAndDetail(t *testing.T) {
	t.Parallel()

	s, c, srv := newKitService(t)
	defer srv.Close()
	ctx := context.Background()

	_, err := s.List(ctx)
	require.NoError(t, err)
	require.True(t, c.Contains("kits"))

	created, err := s.Save(ctx, 0, domain.KitInput{Nombre: "Coche"})
	require.NoError(t, err)
	require.Equal(t, 4, created.ID)
	require.False(t, c.Contains("kits"), "list must go stale after a create")
}

func TestKitService_RotateTokenStalesQR(t *testing.T) {
	t.Parallel()

	s, c, srv := newKitService(t)
	defer srv.Close()
	ctx := context.Background()

	qr, err := s.QR(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "tok-abc", qr.Token)
	require.True(t, c.Contains(kitQRKey(3)))

	token, err := s.RotateToken(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "tok-new", token)
	require.False(t, c.Contains(kitQRKey(3)), "old QR must go stale after rotation")
	require.False(t, c.Contains(kitDetailKey(3)))

	// Verification history is about the kit, not the token, and survives.
	_, err = s.Verifications(ctx, 3)
	require.NoError(t, err)
	require.True(t, c.Contains(kitVerificationsKey(3)))
}

func TestKitService_GetRequiresID(t *testing.T) {
	t.Parallel()

	s := NewKitService(api.NewClient("http://127.0.0.1:0", nil), cache.New())
	_, err := s.Get(context.Background(), 0)
	require.Error(t, err)
}

func TestKitService_ListUsesCache(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	s := NewKitService(api.NewClient(srv.URL, nil), cache.New())
	ctx := context.Background()
	_, err := s.List(ctx)
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, hits, "second read must come from cache")
}
