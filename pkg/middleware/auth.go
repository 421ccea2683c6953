package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"community-hub/internal/data/repository"
	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

var errNoToken = errors.New("missing authorization token")

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid token format, use: Bearer <token>")
	}

	return parts[1], nil
}

// resolveActor verifies the token and loads the stored role and active
// flag of its subject. The role claim inside the token is never trusted.
func resolveActor(ctx context.Context, raw string, tokens *utils.TokenManager, users repository.UserRepository) (utils.Actor, error) {
	actor, err := tokens.Parse(raw)
	if err != nil {
		return utils.Actor{}, err
	}

	user, err := users.FindByID(ctx, actor.ID)
	if err != nil {
		return utils.Actor{}, fmt.Errorf("load user %s: %w", actor.ID, err)
	}
	if user == nil {
		return utils.Actor{}, utils.NewError(utils.ErrUnauthorized, "Not authorized, user not found")
	}
	if !user.IsActive {
		return utils.Actor{}, utils.NewError(utils.ErrForbidden, "Account is deactivated")
	}

	actor.Role = user.Role
	return actor, nil
}

// rejectActor writes the response for a failed resolveActor call.
func rejectActor(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, utils.ErrForbidden):
		logger.Warn("Inactive account rejected", zap.String("path", r.URL.Path))
		utils.ResponseForbidden(w, err.Error())
	case errors.Is(err, utils.ErrUnauthorized):
		logger.Warn("Invalid access token",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		utils.ResponseUnauthorized(w, "Not authorized, token failed")
	default:
		logger.Error("Failed to resolve actor", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// Auth rejects requests without a valid access token and stores the actor,
// with its current role, in the request context.
func Auth(tokens *utils.TokenManager, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				utils.ResponseUnauthorized(w, "Not authorized, no token")
				return
			}

			actor, err := resolveActor(r.Context(), token, tokens, users)
			if err != nil {
				rejectActor(w, r, err, logger)
				return
			}

			ctx := utils.SetActorContext(r.Context(), actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through. A malformed or expired token is still
// rejected so clients notice stale sessions.
func OptionalAuth(tokens *utils.TokenManager, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if errors.Is(err, errNoToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				utils.ResponseUnauthorized(w, "Not authorized, token failed")
				return
			}

			actor, err := resolveActor(r.Context(), token, tokens, users)
			if err != nil {
				rejectActor(w, r, err, logger)
				return
			}

			ctx := utils.SetActorContext(r.Context(), actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin runs after Auth, which has already loaded the stored role.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActorFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !actor.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", actor.ID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
