package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"multistream/internal/channelset"
	"multistream/internal/platform/config"
	"multistream/internal/platform/logger"
	"multistream/internal/platform/metrics"
	"multistream/internal/push"
	"multistream/internal/settings"
	"multistream/internal/view"
)

const shutdownTimeout = 10 * time.Second

// newRootCmd builds the multistream command. Flags default to the
// environment (and .env), so either can configure a deployment.
func newRootCmd() *cobra.Command {
	_ = config.Load()
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "multistream [channel...]",
		Short: "Watch every live channel side by side",
		Long: `multistream keeps a grid of live streams in sync with a push feed of
online/offline notifications and serves it to a browser.

Channels given as arguments (or --path /a/b) seed the grid until the feed
reports the live set.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.InitialPath = view.FormatPath(args)
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port to serve the viewer on (PORT)")
	f.StringVar(&cfg.PushEndpoint, "endpoint", cfg.PushEndpoint, "push notification endpoint (PUSH_ENDPOINT)")
	f.StringVar(&cfg.PushTransport, "transport", cfg.PushTransport, "push transport: ws or sse, inferred from the endpoint scheme when empty (PUSH_TRANSPORT)")
	f.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "delay before reconnecting after a push failure (RECONNECT_DELAY)")
	f.BoolVar(&cfg.ExponentialReconnect, "exponential-backoff", cfg.ExponentialReconnect, "grow the reconnect delay after repeated failures (RECONNECT_EXPONENTIAL)")
	f.StringVar(&cfg.SettingsFile, "settings-file", cfg.SettingsFile, "YAML file persisting viewer settings; in-memory when empty (SETTINGS_FILE)")
	f.StringVar(&cfg.EmbedParent, "embed-parent", cfg.EmbedParent, "host name the embedded players are served from (EMBED_PARENT)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "json or text (LOG_FORMAT)")
	f.IntVar(&cfg.MaxMessageSize, "max-message-size", cfg.MaxMessageSize, "largest push message in bytes before the connection is dropped (PUSH_MAX_MESSAGE_SIZE)")
	f.StringVar(&cfg.InitialPath, "path", cfg.InitialPath, "initial channel path, e.g. /foo/bar (INITIAL_PATH)")

	return cmd
}

func run(ctx context.Context, cfg config.App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, err := openSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}
	prefs := settings.New(store)

	transport, err := push.NewTransport(cfg.PushTransport, cfg.PushEndpoint,
		push.WithMaxMessageSize(int64(cfg.MaxMessageSize)))
	if err != nil {
		return err
	}

	met := metrics.New()
	channels := channelset.NewStore()

	ctrl := view.New(channels, prefs,
		view.WithEmbed(view.TwitchEmbed(cfg.EmbedParent)),
		view.WithLogger(log.With(slog.String("component", "view"))),
		view.WithMetrics(met))

	backoffOpt := push.WithReconnectDelay(cfg.ReconnectDelay)
	if cfg.ExponentialReconnect {
		backoffOpt = push.WithExponentialBackoff(cfg.ReconnectDelay)
	}
	listener := push.New(transport, channels,
		backoffOpt,
		push.WithLogger(log.With(slog.String("component", "push"), slog.String("endpoint", cfg.PushEndpoint))),
		push.WithMetrics(met))
	listener.OnStateChange(ctrl.SetConnectionState)

	ctrl.Start(cfg.InitialPath)
	defer ctrl.Stop()

	h := view.NewHandler(ctrl, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", met.Handler(nil).ServeHTTP)
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	listenerDone := make(chan error, 1)
	go func() { listenerDone <- listener.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"endpoint", cfg.PushEndpoint,
		"transport", transportName(cfg.PushTransport, transport),
		"initial_path", cfg.InitialPath,
		"log_level", cfg.LogLevel,
	)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
			stop()
			<-listenerDone
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	<-listenerDone

	log.Info("server stopped")
	return nil
}

func openSettings(path string) (settings.Store, error) {
	if path == "" {
		return settings.NewMemoryStore(nil), nil
	}
	store, err := settings.OpenFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return store, nil
}

func transportName(kind string, t push.Transport) string {
	if kind != "" {
		return strings.ToLower(kind)
	}
	switch t.(type) {
	case *push.WebSocketTransport:
		return push.KindWebSocket
	case *push.SSETransport:
		return push.KindSSE
	}
	return "unknown"
}
