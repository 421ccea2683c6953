package client

import (
	"context"
	"fmt"
	"sync"

	"community-hub/internal/dto/request"
	"community-hub/internal/dto/response"
)

// TokenStorage persists the bearer token between sessions.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStorage keeps the token for the life of the process.
type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStorage) Clear() error {
	return m.Save("")
}

// AuthStore owns the bearer token and the signed-in identity. It is the only
// place the token is read from or written to.
type AuthStore struct {
	User *SingleStore[response.UserResponse]

	c       *Client
	storage TokenStorage

	mu    sync.RWMutex
	token string
}

func newAuthStore(c *Client, storage TokenStorage) *AuthStore {
	if storage == nil {
		storage = &MemoryTokenStorage{}
	}
	return &AuthStore{
		User:    NewSingleStore(c.Profile),
		c:       c,
		storage: storage,
	}
}

func (a *AuthStore) restore() {
	token, err := a.storage.Load()
	if err != nil {
		return
	}
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *AuthStore) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthStore) IsAuthenticated() bool {
	return a.Token() != ""
}

func (a *AuthStore) setToken(token string) error {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()

	if err := a.storage.Save(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

func (a *AuthStore) Register(ctx context.Context, req request.RegisterRequest) error {
	res, err := a.c.Register(ctx, req)
	if err != nil {
		a.User.recordError(err)
		return err
	}
	return a.signIn(res.Token, *res)
}

func (a *AuthStore) Login(ctx context.Context, req request.LoginRequest) error {
	res, err := a.c.Login(ctx, req)
	if err != nil {
		a.User.recordError(err)
		return err
	}
	return a.signIn(res.Token, res.User)
}

func (a *AuthStore) signIn(token string, identity response.AuthResponse) error {
	if err := a.setToken(token); err != nil {
		return err
	}
	a.User.set(&response.UserResponse{
		ID:       identity.ID,
		Name:     identity.Name,
		Email:    identity.Email,
		Role:     identity.Role,
		IsActive: true,
	})
	return nil
}

// LoadProfile refreshes User from the server with the current token.
func (a *AuthStore) LoadProfile(ctx context.Context) error {
	return a.User.Load(ctx)
}

func (a *AuthStore) Logout() error {
	a.mu.Lock()
	a.token = ""
	a.mu.Unlock()

	a.User.set(nil)

	if err := a.storage.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
