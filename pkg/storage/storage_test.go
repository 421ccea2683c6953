package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpload(t *testing.T) {
	store := NewMemoryStore("http://images.test/")

	url, err := store.Upload(context.Background(), strings.NewReader("png"), "poster.PNG", "events")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://images.test/events/"), url)
	assert.True(t, strings.HasSuffix(url, ".PNG"), url)
	assert.Equal(t, 1, store.Len())

	other, err := store.Upload(context.Background(), strings.NewReader("png"), "poster.PNG", "events")
	require.NoError(t, err)
	assert.NotEqual(t, url, other)
}

func TestMemoryStoreCancelled(t *testing.T) {
	store := NewMemoryStore("http://images.test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, strings.NewReader("png"), "a.png", "events")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreServesUploads(t *testing.T) {
	store := NewMemoryStore("http://images.test/uploads")

	url, err := store.Upload(context.Background(), strings.NewReader("png-bytes"), "poster.png", "events")
	require.NoError(t, err)

	srv := httptest.NewServer(http.StripPrefix("/uploads/", store))
	defer srv.Close()

	res, err := http.Get(srv.URL + strings.TrimPrefix(url, "http://images.test"))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))

	missing, err := http.Get(srv.URL + "/uploads/events/nope.png")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
