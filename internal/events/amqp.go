package events

import (
	"context"

	"bluereserve/internal/domain"
)

// JSONPublisher is satisfied by mq.Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// ForwardTo returns a handler that republishes every event on p, using the
// event name as routing key.
func ForwardTo(p JSONPublisher) Handler {
	return func(ctx context.Context, e domain.Event) error {
		return p.PublishJSON(ctx, e.EventName(), NewEnvelope(e))
	}
}
