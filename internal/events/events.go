// Package events publishes project change events.
//
// Each successful store mutation becomes an Event published on
// "<prefix>.<type>", for example "projectd.task.added". Publishing is
// best-effort: failures are logged and never fail the originating request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectd/internal/logging"
	"github.com/fyrsmithlabs/projectd/internal/project"
)

// Event is the JSON payload published for a store mutation.
type Event struct {
	Type      string    `json:"type"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// NATSPublisher publishes events as core NATS messages.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	owned  bool
}

// Connect dials url and returns a publisher that closes the connection on Close.
func Connect(url, prefix string, opts ...nats.Option) (*NATSPublisher, error) {
	opts = append([]nats.Option{nats.Name("projectd")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	p := NewNATSPublisher(nc, prefix)
	p.owned = true
	return p, nil
}

// NewNATSPublisher wraps an existing connection. Close does not close nc.
func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish marshals ev and publishes it.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(ev.Type), data); err != nil {
		return fmt.Errorf("publishing %s: %w", ev.Type, err)
	}
	return nil
}

// Close drains the connection if this publisher opened it.
func (p *NATSPublisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.nc.Drain()
}

// Observer turns store changes into published events.
type Observer struct {
	pub    Publisher
	logger *logging.Logger
	now    func() time.Time
}

var _ project.Observer = (*Observer)(nil)

// NewObserver returns a store observer publishing through pub.
func NewObserver(pub Publisher, logger *logging.Logger) *Observer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Observer{pub: pub, logger: logger, now: time.Now}
}

// Observe publishes change. Errors are logged at warn level.
func (o *Observer) Observe(ctx context.Context, change project.Change, _ project.Stats) {
	ev := Event{
		Type:      string(change.Op),
		ProjectID: change.ProjectID,
		Title:     change.Title,
		At:        o.now().UTC(),
	}
	if err := o.pub.Publish(ctx, ev); err != nil {
		o.logger.Warn(ctx, "failed to publish project event",
			zap.String("type", ev.Type),
			zap.String("project_id", ev.ProjectID),
			zap.Error(err))
		return
	}
	o.logger.Debug(ctx, "published project event",
		zap.String("type", ev.Type),
		zap.String("project_id", ev.ProjectID))
}
