package main

import (
	"path/filepath"
	"testing"
	"time"

	"multistream/internal/push"
	"multistream/internal/settings"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "multistream [channel...]" {
		t.Errorf("unexpected Use %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected descriptions to be set")
	}
	if !cmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}

	for _, name := range []string{"port", "endpoint", "transport", "reconnect-delay", "exponential-backoff", "settings-file", "embed-parent", "log-level", "log-format", "path", "max-message-size"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}

func TestRootCommand_flag_defaults_from_env(t *testing.T) {
	t.Setenv("RECONNECT_DELAY", "250ms")
	t.Setenv("PUSH_ENDPOINT", "http://feed.example/events")
	t.Setenv("PUSH_MAX_MESSAGE_SIZE", "65536")

	cmd := newRootCmd()
	if got := cmd.Flags().Lookup("reconnect-delay").DefValue; got != (250 * time.Millisecond).String() {
		t.Errorf("reconnect-delay default = %s", got)
	}
	if got := cmd.Flags().Lookup("endpoint").DefValue; got != "http://feed.example/events" {
		t.Errorf("endpoint default = %s", got)
	}
	if got := cmd.Flags().Lookup("max-message-size").DefValue; got != "65536" {
		t.Errorf("max-message-size default = %s", got)
	}
}

func TestOpenSettings(t *testing.T) {
	mem, err := openSettings("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mem.(*settings.MemoryStore); !ok {
		t.Errorf("expected memory store, got %T", mem)
	}

	file, err := openSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := file.(*settings.FileStore); !ok {
		t.Errorf("expected file store, got %T", file)
	}
}

func TestTransportName(t *testing.T) {
	ws, _ := push.NewTransport("", "wss://example.test/ws")
	sse, _ := push.NewTransport("", "https://example.test/events")

	if got := transportName("", ws); got != push.KindWebSocket {
		t.Errorf("ws = %q", got)
	}
	if got := transportName("", sse); got != push.KindSSE {
		t.Errorf("sse = %q", got)
	}
	if got := transportName("SSE", sse); got != "sse" {
		t.Errorf("explicit = %q", got)
	}
}
