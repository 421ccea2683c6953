package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/pkg/notify"
	"community-hub/pkg/storage"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Publish(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]notify.Kind, len(r.sent))
	for i, n := range r.sent {
		kinds[i] = n.Kind
	}
	return kinds
}

type testEnv struct {
	svc      *Service
	repo     *repository.Repository
	images   *storage.MemoryStore
	notifier *recordingNotifier
	tokens   *utils.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewMemoryRepository()
	images := storage.NewMemoryStore("http://images.test")
	notifier := &recordingNotifier{}
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1})

	return &testEnv{
		svc:      NewService(repo, tokens, images, notifier, zap.NewNop()),
		repo:     repo,
		images:   images,
		notifier: notifier,
		tokens:   tokens,
	}
}

// seedUser stores a user directly and returns the matching actor.
func (e *testEnv) seedUser(t *testing.T, name string, role entity.UserRole) utils.Actor {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.repo.User.Create(context.Background(), user))

	return utils.Actor{ID: user.ID, Role: role}
}

func testImage() *Image {
	return &Image{File: strings.NewReader("fake-png"), Filename: "poster.png"}
}

func ptr[T any](v T) *T { return &v }
