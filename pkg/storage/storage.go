// Package storage uploads listing images to the image host.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransformProfile is applied to every uploaded image.
const TransformProfile = "c_limit,w_800,h_600"

type ImageStore interface {
	// Upload stores the image under folder and returns its public URL.
	Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error)
}

// MemoryStore keeps uploads in process memory. It backs local runs without
// image host credentials and the tests, and serves the stored bytes back
// when mounted under the prefix of its base URL.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	objects map[string][]byte
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := path.Join(folder, uuid.NewString()+path.Ext(filename))

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Len reports how many images were stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// ServeHTTP serves a stored image. The request path is the object key, so
// the store is mounted behind http.StripPrefix.
func (s *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

	s.mu.Lock()
	data, ok := s.objects[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, key, time.Time{}, bytes.NewReader(data))
}
