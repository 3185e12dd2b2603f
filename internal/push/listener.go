// Package push keeps a viewer's channel set in sync with the server's live
// channel feed over a WebSocket or server-sent events connection.
package push

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"multistream/internal/channelset"
	"multistream/internal/platform/logger"
	"multistream/internal/platform/metrics"
)

// DefaultReconnectDelay is the pause between a failed connection and the
// next attempt.
const DefaultReconnectDelay = 5 * time.Second

const maxExponentialDelay = time.Minute

// ErrAlreadyRunning is returned by Run when the listener is already running.
var ErrAlreadyRunning = errors.New("push listener already running")

// Sink receives the channel set transitions decoded from push messages.
// *channelset.Store satisfies it.
type Sink interface {
	Dispatch(actions ...channelset.Action) channelset.Set
}

// Listener maintains a single connection to the push endpoint and
// reconnects after every failure for as long as Run's context lives.
type Listener struct {
	transport  Transport
	sink       Sink
	log        *slog.Logger
	metrics    *metrics.Metrics
	newBackOff func() backoff.BackOff

	mu         sync.Mutex
	running    bool
	state      State
	generation uint64
	observers  []func(State)
}

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(log *slog.Logger) Option {
	return func(l *Listener) { l.log = log }
}

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Listener) { l.metrics = m }
}

// WithReconnectDelay sets a constant delay between attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(l *Listener) {
		l.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(d) }
	}
}

// WithExponentialBackoff grows the delay from initial up to one minute and
// never gives up.
func WithExponentialBackoff(initial time.Duration) Option {
	return func(l *Listener) {
		l.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxExponentialDelay
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		}
	}
}

// WithBackOff installs a custom retry policy. A policy returning
// backoff.Stop falls back to DefaultReconnectDelay; the listener never
// gives up.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(l *Listener) { l.newBackOff = newBackOff }
}

// New returns a Listener reading from transport and writing to sink.
func New(transport Transport, sink Sink, opts ...Option) *Listener {
	l := &Listener{
		transport: transport,
		sink:      sink,
		state:     Idle,
	}
	WithReconnectDelay(DefaultReconnectDelay)(l)
	for _, opt := range opts {
		opt(l)
	}
	l.log = logger.OrDiscard(l.log)
	return l
}

// State returns the current connection state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// OnStateChange registers fn to be called on every state transition, in
// order, from the goroutine running Run.
func (l *Listener) OnStateChange(fn func(State)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Run connects and keeps reconnecting until ctx is cancelled, then returns
// nil. Only one Run may be active per Listener.
func (l *Listener) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.setState(Idle)
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	policy := l.newBackOff()
	for {
		err := l.session(ctx, policy)
		if ctx.Err() != nil {
			return nil
		}
		l.setState(Errored)

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			delay = DefaultReconnectDelay
		}
		l.log.Warn("push connection lost, retrying",
			slog.String("error", errString(err)),
			slog.Duration("retry_in", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if l.metrics != nil {
			l.metrics.IncReconnects()
		}
	}
}

// session runs one connection from dial to failure.
func (l *Listener) session(ctx context.Context, policy backoff.BackOff) error {
	l.setState(Connecting)

	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()
	log := l.log.With(slog.Uint64("generation", gen), slog.String("connection_id", uuid.NewString()))

	conn, err := l.transport.Dial(ctx)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		conn.Close()
		if l.metrics != nil {
			l.metrics.SetConnected(false)
		}
	}()

	policy.Reset()
	l.setState(Connected)
	if l.metrics != nil {
		l.metrics.SetConnected(true)
	}
	log.Info("push connection open")

	for {
		payload, err := conn.Receive(ctx)
		if err != nil {
			return err
		}
		l.handle(log, payload)
	}
}

// handle applies one payload. Malformed payloads are dropped without
// touching the connection.
func (l *Listener) handle(log *slog.Logger, payload []byte) {
	msg, err := Decode(payload)
	if err != nil {
		log.Debug("dropping push message", slog.String("error", err.Error()), slog.Int("size", len(payload)))
		if l.metrics != nil {
			l.metrics.IncPushDropped()
		}
		return
	}

	switch m := msg.(type) {
	case Notification:
		log.Debug("channel notification", slog.String("type", string(m.Type)), slog.String("channel", m.Channel))
	case OnlineChannels:
		log.Debug("online channels", slog.Int("count", len(m.Channels)))
	}

	l.sink.Dispatch(msg.Actions()...)
	if l.metrics != nil {
		l.metrics.IncPushMessages()
	}
}

func (l *Listener) setState(s State) {
	l.mu.Lock()
	if l.state == s {
		l.mu.Unlock()
		return
	}
	l.state = s
	observers := make([]func(State), len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

func errString(err error) string {
	if err == nil {
		return "connection closed"
	}
	return err.Error()
}
