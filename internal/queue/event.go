// Package queue carries lodging domain events over RabbitMQ: a publisher
// used by the services after commit and an audit consumer that appends
// every event to a log file.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/event-lodging/internal/model"
)

// QueueName is the durable queue every lodging event is routed to.
const QueueName = "lodging.events"

// encode builds a persistent JSON message for ev.
func encode(ev model.DomainEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         ev.Type,
		Timestamp:    ts,
		Body:         body,
	}, nil
}

func decode(body []byte) (model.DomainEvent, error) {
	var ev model.DomainEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return model.DomainEvent{}, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.BookingID == 0 {
		return model.DomainEvent{}, fmt.Errorf("incomplete event: type=%q booking_id=%d", ev.Type, ev.BookingID)
	}
	return ev, nil
}

// auditLine renders one event as a single log line.
func auditLine(ev model.DomainEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | booking_id=%d | user_id=%d | actor_id=%d | event_id=%d | accommodation_id=%d | room_id=%d | stay=%s..%s | status=%s",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.BookingID, ev.UserID, ev.ActorID, ev.EventID,
		ev.AccommodationID, ev.RoomID, ev.CheckInDate, ev.CheckOutDate, ev.Status)
	if ev.PreviousStatus != "" {
		fmt.Fprintf(&b, " | previous_status=%s", ev.PreviousStatus)
	}
	fmt.Fprintf(&b, " | payment_status=%s | total=%d cents", ev.PaymentStatus, ev.TotalPriceCents)
	if ev.AmountCents > 0 {
		fmt.Fprintf(&b, " | amount=%d cents", ev.AmountCents)
	}
	b.WriteByte('\n')
	return b.String()
}
