package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

const (
	defaultConnectTimeout = 2 * time.Second
	defaultReconnectWait  = time.Second
	defaultMaxReconnects  = 10
)

// NATSNotifier publishes messages as JSON on a NATS subject.
type NATSNotifier struct {
	mu      sync.RWMutex
	conn    *nats.Conn
	subject string
	log     logger.Logger
}

// NewNATS connects to url and publishes on subject.
func NewNATS(url, subject string) (*NATSNotifier, error) {
	log := logger.Named("notify")
	conn, err := nats.Connect(url,
		nats.Name("gramconnect-engine"),
		nats.Timeout(defaultConnectTimeout),
		nats.ReconnectWait(defaultReconnectWait),
		nats.MaxReconnects(defaultMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn(context.Background(), "nats disconnected", logger.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info(context.Background(), "nats reconnected", logger.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return &NATSNotifier{conn: conn, subject: subject, log: log}, nil
}

// Notify publishes the message.
func (n *NATSNotifier) Notify(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.conn == nil {
		return ErrNotConnected
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", n.subject, err)
	}
	n.log.Debug(ctx, "notification published",
		logger.String("subject", n.subject),
		logger.String("assignment_id", m.AssignmentID),
		logger.String("person_id", m.PersonID),
	)
	return nil
}

// Close drains pending publishes and closes the connection.
func (n *NATSNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Drain()
	n.conn = nil
	return err
}
