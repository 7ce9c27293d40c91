// Package events publishes memory game change events to NATS.
//
// Every event of every session is published as JSON (service.GameEvent) on
//
//	memory.sessions.<session id>.<event type>
//
// so a consumer can follow one session with "memory.sessions.a1b2.>" or
// every win with "memory.sessions.*.won".
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/wricardo/mcp-training/memorygame/game/service"
)

// DefaultPrefix is the subject prefix used when none is configured
const DefaultPrefix = "memory.sessions"

// Publisher is the part of *nats.Conn the notifier needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notifier forwards game events to a Publisher. It implements
// service.Notifier.
type Notifier struct {
	pub    Publisher
	prefix string
}

var _ service.Notifier = (*Notifier)(nil)

// Option configures a Notifier
type Option func(*Notifier)

// WithPrefix overrides DefaultPrefix
func WithPrefix(prefix string) Option {
	return func(n *Notifier) {
		n.prefix = strings.TrimSuffix(prefix, ".")
	}
}

// NewNotifier creates a Notifier publishing through pub
func NewNotifier(pub Publisher, opts ...Option) *Notifier {
	n := &Notifier{pub: pub, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify publishes event on its subject
func (n *Notifier) Notify(event service.GameEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	subject := n.Subject(event.SessionID, string(event.Type))
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Subject returns the subject for one session and event type. Empty parts
// become the "*" wildcard.
func (n *Notifier) Subject(sessionID, eventType string) string {
	return Subject(n.prefix, sessionID, eventType)
}

// Subject builds prefix.<session>.<event>, using "*" for empty parts
func Subject(prefix, sessionID, eventType string) string {
	if sessionID == "" {
		sessionID = "*"
	}
	if eventType == "" {
		eventType = "*"
	}
	return prefix + "." + strings.ToLower(sessionID) + "." + eventType
}

// Connect dials a NATS server with reconnect settings suited to a long
// running game server
func Connect(url, name string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Watch subscribes to the events of one session, or of every session when
// sessionID is empty. Malformed payloads are passed to onError when it is
// not nil.
func Watch(nc *nats.Conn, prefix, sessionID string, fn func(service.GameEvent), onError func(error)) (*nats.Subscription, error) {
	subject := prefix + "." + strings.ToLower(sessionID) + ".>"
	if sessionID == "" {
		subject = prefix + ".>"
	}

	return nc.Subscribe(subject, func(m *nats.Msg) {
		event, err := Decode(m.Data)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("%s: %w", m.Subject, err))
			}
			return
		}
		fn(event)
	})
}

// Decode parses a published event
func Decode(data []byte) (service.GameEvent, error) {
	var event service.GameEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return service.GameEvent{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.SessionID == "" || event.Type == "" {
		return service.GameEvent{}, fmt.Errorf("failed to decode event: missing session or type")
	}
	return event, nil
}
