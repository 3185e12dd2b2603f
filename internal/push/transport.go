package push

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Transport opens connections to the push endpoint.
type Transport interface {
	// Dial opens a connection and performs any handshake the endpoint
	// requires before it starts sending messages. The connection stays
	// bound to ctx.
	Dial(ctx context.Context) (Conn, error)
}

// Conn is an open push connection.
type Conn interface {
	// Receive blocks until the next message payload arrives. Any error ends
	// the connection.
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// DefaultMaxMessageSize bounds a single inbound message when no
// WithMaxMessageSize option is given.
const DefaultMaxMessageSize = 1 << 20

// ErrMessageTooLarge is returned by Receive when an event stream message
// exceeds the configured size. WebSocket connections report
// websocket.ErrReadLimit instead.
var ErrMessageTooLarge = errors.New("push message exceeds size limit")

type transportOptions struct {
	maxMessageSize int64
}

// TransportOption configures a Transport.
type TransportOption func(*transportOptions)

// WithMaxMessageSize caps the size in bytes of one inbound message. Values
// <= 0 keep DefaultMaxMessageSize.
func WithMaxMessageSize(n int64) TransportOption {
	return func(o *transportOptions) {
		if n > 0 {
			o.maxMessageSize = n
		}
	}
}

func newTransportOptions(opts []TransportOption) transportOptions {
	o := transportOptions{maxMessageSize: DefaultMaxMessageSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Transport kinds accepted by NewTransport.
const (
	KindWebSocket = "ws"
	KindSSE       = "sse"
)

// NewTransport returns a transport for endpoint. An empty kind is inferred
// from the URL scheme: ws/wss selects WebSocket, http/https selects
// server-sent events.
func NewTransport(kind, endpoint string, opts ...TransportOption) (Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse push endpoint: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)

	if kind == "" {
		switch scheme {
		case "ws", "wss":
			kind = KindWebSocket
		case "http", "https":
			kind = KindSSE
		default:
			return nil, fmt.Errorf("cannot infer push transport from scheme %q", u.Scheme)
		}
	}

	switch strings.ToLower(kind) {
	case KindWebSocket, "websocket":
		return NewWebSocketTransport(endpoint, opts...), nil
	case KindSSE:
		return NewSSETransport(endpoint, nil, opts...), nil
	}
	return nil, fmt.Errorf("unknown push transport %q", kind)
}
