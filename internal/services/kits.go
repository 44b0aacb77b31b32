package services

import (
	"context"
	"fmt"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/domain"
)

type KitService struct {
	api   *api.Client
	cache *cache.Cache
}

func NewKitService(apiClient *api.Client, c *cache.Cache) *KitService {
	return &KitService{api: apiClient, cache: c}
}

// Cache keys of a kit's sub-resources. Detail, QR and verification
// history are cached per id and must all go stale when the kit does.
func kitDetailKey(id int) string        { return fmt.Sprintf("kit-detalle/%d", id) }
func kitQRKey(id int) string            { return fmt.Sprintf("kit-qr/%d", id) }
func kitVerificationsKey(id int) string { return fmt.Sprintf("kit-verificaciones/%d", id) }

func (s *KitService) List(ctx context.Context) ([]domain.Kit, error) {
	return cache.Fetch(ctx, s.cache, "kits", func(ctx context.Context) ([]domain.Kit, error) {
		return api.GetList[domain.Kit](ctx, s.api, "kits/", nil)
	})
}

// Get fetches the kit detail including its elements. A zero id is
// refused without touching the network.
func (s *KitService) Get(ctx context.Context, id int) (*domain.Kit, error) {
	if id <= 0 {
		return nil, fmt.Errorf("kit id is required")
	}
	return cache.Fetch(ctx, s.cache, kitDetailKey(id), func(ctx context.Context) (*domain.Kit, error) {
		var kit domain.Kit
		if err := s.api.Get(ctx, fmt.Sprintf("kits/%d/", id), nil, &kit); err != nil {
			return nil, err
		}
		return &kit, nil
	})
}

func (s *KitService) Save(ctx context.Context, id int, in domain.KitInput) (*domain.Kit, error) {
	var out domain.Kit
	var err error
	if id > 0 {
		err = s.api.Patch(ctx, fmt.Sprintf("kits/%d/", id), in, &out)
	} else {
		err = s.api.Post(ctx, "kits/", in, &out)
	}
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix("kits")
	if kitID := pickID(id, out.ID); kitID > 0 {
		s.cache.Invalidate(kitDetailKey(kitID))
	}
	return &out, nil
}

// Delete removes the kit and stales everything derived from it: the
// list, the detail, the QR and the verification history.
func (s *KitService) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("kits/%d/", id)); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("kits")
	s.cache.Invalidate(kitDetailKey(id), kitQRKey(id), kitVerificationsKey(id))
	return nil
}

// SaveElements replaces the kit checklist in one bulk call. The backend
// expects the rows under an "items" key.
func (s *KitService) SaveElements(ctx context.Context, kitID int, items []domain.ElementoKit) ([]domain.ElementoKit, error) {
	var out []domain.ElementoKit
	err := s.api.Post(ctx, fmt.Sprintf("kits/%d/elementos/", kitID), map[string]any{"items": items}, &out)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(kitDetailKey(kitID))
	return out, nil
}

func (s *KitService) QR(ctx context.Context, kitID int) (*domain.KitQR, error) {
	if kitID <= 0 {
		return nil, fmt.Errorf("kit id is required")
	}
	return cache.Fetch(ctx, s.cache, kitQRKey(kitID), func(ctx context.Context) (*domain.KitQR, error) {
		var qr domain.KitQR
		if err := s.api.Get(ctx, fmt.Sprintf("kits/%d/qr/", kitID), nil, &qr); err != nil {
			return nil, err
		}
		return &qr, nil
	})
}

// RotateToken mints a new public token, invalidating every link and QR
// minted with the old one.
func (s *KitService) RotateToken(ctx context.Context, kitID int) (string, error) {
	var resp struct {
		TokenPublico string `json:"token_publico"`
	}
	if err := s.api.Post(ctx, fmt.Sprintf("kits/%d/rotate_token/", kitID), nil, &resp); err != nil {
		return "", err
	}
	s.cache.Invalidate(kitQRKey(kitID), kitDetailKey(kitID))
	return resp.TokenPublico, nil
}

func (s *KitService) Verifications(ctx context.Context, kitID int) ([]domain.VerificacionKit, error) {
	if kitID <= 0 {
		return nil, fmt.Errorf("kit id is required")
	}
	return cache.Fetch(ctx, s.cache, kitVerificationsKey(kitID), func(ctx context.Context) ([]domain.VerificacionKit, error) {
		return api.GetList[domain.VerificacionKit](ctx, s.api, fmt.Sprintf("kits/%d/verificaciones/", kitID), nil)
	})
}

// pickID prefers the id the caller addressed; a create only knows the id
// from the response.
func pickID(requested, created int) int {
	if requested > 0 {
		return requested
	}
	return created
}
