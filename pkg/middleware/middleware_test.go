package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-hub/internal/data/entity"
	"community-hub/internal/data/repository"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func seedUser(t *testing.T, users repository.UserRepository, role entity.UserRole, active bool) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:     "Alice",
		Email:    uuid.NewString() + "@example.com",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func serveWithToken(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "secret", ExpiryHours: 1})
	users := repository.NewMemoryRepository().User
	id := seedUser(t, users, entity.RoleUser, true)
	raw, _, err := tokens.Issue(id, entity.RoleUser)
	require.NoError(t, err)

	var seen utils.Actor
	h := Auth(tokens, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetActorFromContext(r.Context())
	}))

	w := serveWithToken(h, raw)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, seen.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUsesStoredRole(t *testing.T) {
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "secret", ExpiryHours: 1})
	users := repository.NewMemoryRepository().User
	id := seedUser(t, users, entity.RoleUser, true)
	stale, _, err := tokens.Issue(id, entity.RoleAdmin)
	require.NoError(t, err)

	var seen utils.Actor
	h := Auth(tokens, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetActorFromContext(r.Context())
	}))

	w := serveWithToken(h, stale)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.RoleUser, seen.Role)
	assert.False(t, seen.IsAdmin())

	w = serveWithToken(Auth(tokens, users, zap.NewNop())(Admin(zap.NewNop())(okHandler())), stale)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRejectsInactiveAndUnknownUsers(t *testing.T) {
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "secret", ExpiryHours: 1})
	users := repository.NewMemoryRepository().User

	inactive, _, err := tokens.Issue(seedUser(t, users, entity.RoleAdmin, false), entity.RoleAdmin)
	require.NoError(t, err)
	unknown, _, err := tokens.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	for _, mw := range []func(http.Handler) http.Handler{
		Auth(tokens, users, zap.NewNop()),
		OptionalAuth(tokens, users, zap.NewNop()),
	} {
		h := mw(okHandler())
		assert.Equal(t, http.StatusForbidden, serveWithToken(h, inactive).Code)
		assert.Equal(t, http.StatusUnauthorized, serveWithToken(h, unknown).Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "secret", ExpiryHours: 1})
	users := repository.NewMemoryRepository().User

	var hasActor bool
	h := OptionalAuth(tokens, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasActor = utils.GetActorFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hasActor)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

// fakeScripter answers every script call with a fixed reply.
type fakeScripter struct {
	reply []interface{}
	err   error
	calls int
}

func (f *fakeScripter) result() *redis.Cmd {
	f.calls++
	return redis.NewCmdResult(f.reply, f.err)
}

func (f *fakeScripter) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.result()
}

func (f *fakeScripter) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.result()
}

func (f *fakeScripter) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.result()
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.result()
}

func (f *fakeScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func rateConfig() utils.RateLimitConfig {
	return utils.RateLimitConfig{Enabled: true, Capacity: 5, RefillInterval: 3 * time.Second, Prefix: "rl"}
}

func TestRateLimitPassthrough(t *testing.T) {
	disabled := rateConfig()
	disabled.Enabled = false

	for name, mw := range map[string]func(http.Handler) http.Handler{
		"disabled":  RateLimit(disabled, &fakeScripter{}, zap.NewNop()),
		"no client": RateLimit(rateConfig(), nil, zap.NewNop()),
	} {
		w := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code, name)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"), name)
	}
}

func TestRateLimitAllowsAndBlocks(t *testing.T) {
	allow := &fakeScripter{reply: []interface{}{int64(1), int64(4), int64(0)}}
	w := httptest.NewRecorder()
	RateLimit(rateConfig(), allow, zap.NewNop())(okHandler()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))

	block := &fakeScripter{reply: []interface{}{int64(0), int64(0), int64(2500)}}
	w = httptest.NewRecorder()
	RateLimit(rateConfig(), block, zap.NewNop())(okHandler()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	broken := &fakeScripter{err: errors.New("connection refused")}

	w := httptest.NewRecorder()
	RateLimit(rateConfig(), broken, zap.NewNop())(okHandler()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Positive(t, broken.calls)
}

func TestRateKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", nil)
	req.RemoteAddr = "10.0.0.7:5123"

	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /api/auth/login", rateKey("rl", req))
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics("test")
	h := m.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	}

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != "test_http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" {
					assert.Equal(t, "unmatched", label.GetValue())
				}
			}
		}
	}
	assert.Equal(t, 3.0, total)
}
