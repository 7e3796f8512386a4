package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
)

// EventPublisher delivers domain events after a change has committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.DomainEvent) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.DomainEvent) error { return nil }

// publish is best effort: the change is already committed, so a broker
// failure is logged and swallowed.
func publish(ctx context.Context, pub EventPublisher, log *zap.Logger, ev model.DomainEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("publish domain event failed",
			zap.String("type", ev.Type),
			zap.Uint64("booking_id", ev.BookingID),
			zap.Error(err))
	}
}
