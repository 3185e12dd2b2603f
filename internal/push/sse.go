package push

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SSETransport subscribes to a server-sent events endpoint.
type SSETransport struct {
	endpoint string
	client   *http.Client
	maxSize  int
}

// NewSSETransport returns a transport for an http:// or https:// event
// stream. A nil client uses a client without a timeout, since the response
// body stays open for the life of the connection.
func NewSSETransport(endpoint string, client *http.Client, opts ...TransportOption) *SSETransport {
	if client == nil {
		client = &http.Client{}
	}
	o := newTransportOptions(opts)
	return &SSETransport{endpoint: endpoint, client: client, maxSize: int(o.maxMessageSize)}
}

// Dial implements Transport.Dial.
func (t *SSETransport) Dial(ctx context.Context) (Conn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build event stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open event stream %s: %w", t.endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("open event stream %s: unexpected status %d", t.endpoint, resp.StatusCode)
	}
	return &sseConn{body: resp.Body, reader: bufio.NewReader(resp.Body), maxSize: t.maxSize}, nil
}

type sseConn struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	maxSize int
}

// Receive returns the data of the next event. Multi-line data fields are
// joined with newlines; comments, other fields and events without data are
// skipped. A line or event larger than maxSize fails with
// ErrMessageTooLarge.
func (c *sseConn) Receive(ctx context.Context) ([]byte, error) {
	var data []string
	size := 0
	for {
		line, err := c.readLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(data) > 0 {
				return []byte(strings.Join(data, "\n")), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		if field == "data" {
			value = strings.TrimPrefix(value, " ")
			size += len(value) + 1
			if size > c.maxSize {
				return nil, ErrMessageTooLarge
			}
			data = append(data, value)
		}
	}
}

// readLine reads up to and including the next '\n' without buffering more
// than maxSize bytes of it.
func (c *sseConn) readLine() (string, error) {
	var line []byte
	for {
		frag, err := c.reader.ReadSlice('\n')
		if len(line)+len(frag) > c.maxSize {
			return "", ErrMessageTooLarge
		}
		line = append(line, frag...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return string(line), err
	}
}

func (c *sseConn) Close() error {
	return c.body.Close()
}
