package utils

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"community-hub/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tokens := NewTokenManager(JWTConfig{Secret: "secret", ExpiryHours: 2})
	id := uuid.New()

	raw, exp, err := tokens.Issue(id, entity.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, time.Minute)

	actor, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.True(t, actor.IsAdmin())
}

func TestTokenManagerRejects(t *testing.T) {
	tokens := NewTokenManager(JWTConfig{Secret: "secret", ExpiryHours: 1})
	raw, _, err := tokens.Issue(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager(JWTConfig{Secret: "other", ExpiryHours: 1})
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager(JWTConfig{Secret: "secret", ExpiryHours: 1})
		later.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2030-06-01", time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2030-06-01T18:30", time.Date(2030, 6, 1, 18, 30, 0, 0, time.UTC)},
		{"2030-06-01T18:30:00+02:00", time.Date(2030, 6, 1, 16, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, err := ParseDate("tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseFloat(t *testing.T) {
	got, err := ParseFloat("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseFloat("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, *got)

	_, err = ParseFloat("free")
	assert.ErrorIs(t, err, ErrValidation)

	for _, value := range []string{"Inf", "+Inf", "-inf", "NaN", "1e400"} {
		_, err = ParseFloat(value)
		assert.ErrorIs(t, err, ErrValidation, value)
	}
}

func TestValidatePriceBounds(t *testing.T) {
	type form struct {
		Price *float64 `validate:"omitempty,gte=0,lte=99999999.99"`
	}
	price := func(v float64) *float64 { return &v }

	assert.Empty(t, ValidateStruct(&form{Price: price(99999999.99)}))
	assert.Equal(t, "Must be at most 99999999.99", ValidateStruct(&form{Price: price(1e9)})["Price"])
	assert.Equal(t, "Must be at least 0", ValidateStruct(&form{Price: price(-1)})["Price"])
}

func TestResponseJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	ResponseJSON(w, http.StatusOK, map[string]float64{"price": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Internal server error", res.Message)
}

func TestValidateServiceCategory(t *testing.T) {
	type form struct {
		Category string `validate:"required,service_category"`
	}

	assert.Empty(t, ValidateStruct(&form{Category: "Tutor"}))

	errs := ValidateStruct(&form{Category: "Plumbing"})
	assert.Equal(t, "Must be one of: Tutor, Repair, Business", errs["Category"])
}

func TestErrorKinds(t *testing.T) {
	err := NewError(ErrForbidden, "Admin access required")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Admin access required", err.Error())

	vErr := NewValidationError(map[string]string{"Title": "This field is required"})
	assert.ErrorIs(t, vErr, ErrValidation)
	assert.Contains(t, vErr.Error(), "Title: This field is required")
}

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"JWT_SECRET=from-file\nPORT=9000\nCLIENT_ORIGIN=http://a.test, http://b.test\n",
	), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "9100")

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", config.JWT.Secret)
	assert.Equal(t, "9100", config.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.CORS.AllowedOrigins)
	assert.Equal(t, 24, config.JWT.ExpiryHours)
	assert.Equal(t, 3*time.Second, config.RateLimit.RefillInterval)
	assert.False(t, config.Cloudinary.Configured())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
