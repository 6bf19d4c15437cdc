package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes events over a NATS core connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url. The connection
// reconnects indefinitely; publishes issued while disconnected are
// buffered by the client.
func NewNATSPublisher(url, name string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) {
	if ctx.Err() != nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal event",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		slog.Warn("failed to publish event",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}

// Drain flushes buffered messages and closes the connection.
func (p *NATSPublisher) Drain() error {
	return p.conn.Drain()
}
