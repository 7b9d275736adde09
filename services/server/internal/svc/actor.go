package svc

import (
	"context"

	"github.com/signoffhq/signoff/internal/ports"
)

type actorKey struct{}

// WithActor stores the authenticated identity on the request context.
func WithActor(ctx context.Context, a ports.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the authenticated identity, if any.
func ActorFrom(ctx context.Context) (ports.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(ports.Actor)
	return a, ok
}
