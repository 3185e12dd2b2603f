package push

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// SubscribeRequest is sent right after a WebSocket opens to ask the server
// for the current channel list.
const SubscribeRequest = "channels"

const handshakeTimeout = 10 * time.Second

// WebSocketTransport dials a bidirectional socket endpoint.
type WebSocketTransport struct {
	endpoint  string
	dialer    *websocket.Dialer
	readLimit int64
}

// NewWebSocketTransport returns a transport for a ws:// or wss:// endpoint.
func NewWebSocketTransport(endpoint string, opts ...TransportOption) *WebSocketTransport {
	o := newTransportOptions(opts)
	return &WebSocketTransport{
		endpoint: endpoint,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		readLimit: o.maxMessageSize,
	}
}

// Dial implements Transport.Dial. It sends SubscribeRequest before
// returning.
func (t *WebSocketTransport) Dial(ctx context.Context) (Conn, error) {
	conn, resp, err := t.dialer.DialContext(ctx, t.endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", t.endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", t.endpoint, err)
	}
	conn.SetReadLimit(t.readLimit)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(SubscribeRequest)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send subscribe request: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Receive(ctx context.Context) ([]byte, error) {
	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return payload, nil
		}
	}
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
