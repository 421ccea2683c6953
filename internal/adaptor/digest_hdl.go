package adaptor

import (
	"net/http"

	"community-hub/internal/usecase"
	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

type DigestHandler struct {
	service usecase.DigestService
	log     *zap.Logger
}

func NewDigestHandler(service usecase.DigestService, log *zap.Logger) *DigestHandler {
	return &DigestHandler{
		service: service,
		log:     log.With(zap.String("handler", "digest")),
	}
}

// Get handles GET /api/daily-digest
func (h *DigestHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	digest, err := h.service.Get(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "build digest")
		return
	}

	utils.ResponseSuccess(w, digest)
}
