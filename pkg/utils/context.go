package utils

import (
	"context"

	"community-hub/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const actorKey contextKey = "actor"

// Actor is the authenticated identity behind a request.
type Actor struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// Owns reports whether ownerID refers to the actor.
func (a Actor) Owns(ownerID *uuid.UUID) bool {
	return ownerID != nil && *ownerID == a.ID
}

func SetActorContext(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext returns the actor set by the auth middleware.
func GetActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
