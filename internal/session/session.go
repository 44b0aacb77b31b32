// Package session owns the authenticated state of every chat: login,
// logout and deriving the current user from the stored bearer token.
package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/domain"
	apperrors "github.com/daniilabradorr/diaflow/internal/errors"
	"github.com/daniilabradorr/diaflow/internal/logger"
)

type chatKey struct{}

// WithChat attaches the chat id to the context so the token of that chat
// rides along on every API call made while handling its update.
func WithChat(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatKey{}, chatID)
}

// ChatFrom extracts the chat id set by WithChat.
func ChatFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(chatKey{}).(int64)
	return id, ok
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager is the session state machine of each chat: Anonymous until a
// successful login, Authenticated while a decodable token is stored, and
// back to Anonymous on logout or decode failure.
type Manager struct {
	store Store
	api   *api.Client
}

// NewManager wires the manager to its own API client: the manager is the
// token source of that client, so profile fetches are authenticated with
// whatever token the current chat has stored.
func NewManager(store Store, apiBaseURL string) *Manager {
	m := &Manager{store: store}
	m.api = api.NewClient(apiBaseURL+"/api", m)
	return m
}

// Token implements api.TokenSource. The store is consulted on every
// request, so a logout is effective immediately on the next call.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	chatID, ok := ChatFrom(ctx)
	if !ok {
		return "", false
	}
	return m.store.Token(ctx, chatID)
}

// Login authenticates against the backend, persists the access token and
// returns the derived user. A rejected login surfaces only the generic
// credentials error, never backend detail.
func (m *Manager) Login(ctx context.Context, chatID int64, username, password string) (*domain.User, error) {
	var resp tokenResponse
	err := m.api.Post(ctx, "auth/token/", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		if api.IsStatus(err, 400) || api.IsStatus(err, 401) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.Access == "" {
		return nil, apperrors.NewInternalError(fmt.Errorf("token endpoint returned no access token"))
	}

	if err := m.store.Save(ctx, chatID, resp.Access); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := userFromToken(resp.Access)
	if user == nil {
		user = &domain.User{}
	}
	if user.Username == "" {
		// Fall back to what the user just typed.
		user.Username = username
	}

	// Best effort: a failed profile fetch does not block authentication.
	if perfil, err := m.Profile(WithChat(ctx, chatID)); err == nil {
		user.Perfil = perfil
		if perfil.Nombre != "" {
			user.Nombre = perfil.Nombre
		}
	} else {
		logger.Warn("Profile fetch after login failed", "error", err)
	}

	return user, nil
}

// Register creates a backend account. The caller still has to log in.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	return m.api.Post(ctx, "auth/register/", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

// Logout clears the stored token synchronously; the chat is anonymous as
// soon as this returns.
func (m *Manager) Logout(ctx context.Context, chatID int64) error {
	return m.store.Clear(ctx, chatID)
}

// Current re-derives the user from the stored token. Returns nil without
// error when the chat is anonymous. A token that no longer decodes is
// discarded and the chat degrades to anonymous instead of crashing.
func (m *Manager) Current(ctx context.Context, chatID int64) *domain.User {
	tok, ok := m.store.Token(ctx, chatID)
	if !ok || tok == "" {
		return nil
	}
	user := userFromToken(tok)
	if user == nil {
		logger.Warn("Stored token no longer decodes, clearing session", "chat_id", chatID)
		if err := m.store.Clear(ctx, chatID); err != nil {
			logger.Error("Failed to clear broken session", "chat_id", chatID, "error", err)
		}
		return nil
	}
	return user
}

// Profile fetches the patient profile of the current session.
func (m *Manager) Profile(ctx context.Context) (*domain.Paciente, error) {
	var p domain.Paciente
	if err := m.api.Get(ctx, "paciente/me/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile patches the patient profile.
func (m *Manager) UpdateProfile(ctx context.Context, p *domain.Paciente) (*domain.Paciente, error) {
	var updated domain.Paciente
	if err := m.api.Patch(ctx, "paciente/update_me/", p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// userFromToken decodes the JWT claims without verifying the signature:
// the backend is the authority, the client only reads the identity out of
// the token it was handed. Returns nil when the token does not decode.
func userFromToken(token string) *domain.User {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	user := &domain.User{}
	if v, ok := claims["username"].(string); ok {
		user.Username = v
	}
	if user.Username == "" {
		if v, ok := claims["user_id"].(float64); ok {
			user.Username = strconv.Itoa(int(v))
		}
	}
	return user
}
