package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// handleServiceError maps usecase error kinds to HTTP responses. Client
// errors are logged as warnings, everything else as errors with a generic
// message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *utils.ValidationError
		appErr        *utils.Error
	)

	message := ""
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, utils.ErrValidation), errors.Is(err, utils.ErrConflict):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, orDefault(message, "Bad request"), nil)

	case errors.Is(err, utils.ErrUnauthorized):
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, orDefault(message, "Not authorized"))

	case errors.Is(err, utils.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, orDefault(message, "Forbidden"))

	case errors.Is(err, utils.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, orDefault(message, "Not found"))

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// requireActor writes 401 when the auth middleware did not run.
func requireActor(w http.ResponseWriter, r *http.Request) (utils.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Actor{}, false
	}
	return actor, true
}
