package service

import (
	"context"

	"github.com/google/uuid"

	"forum-service/internal/response"
)

// Actor is the authenticated caller of a write operation
type Actor struct {
	ID       uuid.UUID
	Username string
}

type actorKey struct{}

// WithActor returns a context carrying the authenticated caller
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the authenticated caller stored in ctx, if any
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.ID != uuid.Nil
}

func requireActor(ctx context.Context) (Actor, error) {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return Actor{}, response.NewAppError(response.ErrCodeUnauthorized, "User ID not found in context", "")
	}
	return actor, nil
}
