package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
)

const (
	dialTimeout  = 2 * time.Second
	retryBackoff = 5 * time.Second
)

// ErrBrokerUnavailable is returned without touching the network while
// another publish is dialing or a recent dial has failed.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// Publisher sends domain events to QueueName.  The connection is opened
// lazily and reopened after a failure, so a broker outage only costs the
// events published while it lasts.  Dialing happens outside the lock and
// at most once per retryBackoff, so requests never queue behind it.
type Publisher struct {
	url     string
	log     *zap.Logger
	timeout time.Duration
	backoff time.Duration
	now     func() time.Time

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	dialing   bool
	downUntil time.Time
	closed    bool

	pubMu sync.Mutex
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{
		url:     url,
		log:     log,
		timeout: dialTimeout,
		backoff: retryBackoff,
		now:     time.Now,
	}
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() {
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	}
	if p.closed || p.dialing || p.now().Before(p.downUntil) {
		p.mu.Unlock()
		return nil, ErrBrokerUnavailable
	}
	p.closeLocked()
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.dial()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.downUntil = p.now().Add(p.backoff)
		return nil, err
	}
	if p.closed {
		_ = ch.Close()
		_ = conn.Close()
		return nil, ErrBrokerUnavailable
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}
	return conn, ch, nil
}

// Publish sends ev on the default exchange with QueueName as routing key.
func (p *Publisher) Publish(ctx context.Context, ev model.DomainEvent) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	p.pubMu.Lock()
	err = ch.PublishWithContext(ctx, "", QueueName, false, false, msg)
	p.pubMu.Unlock()
	if err != nil {
		p.mu.Lock()
		if p.ch == ch {
			p.closeLocked()
		}
		p.mu.Unlock()
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.log.Debug("event published", zap.String("type", ev.Type), zap.String("message_id", msg.MessageId))
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.closeLocked()
}
