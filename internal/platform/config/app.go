package config

import "time"

// Defaults for the viewer.
const (
	DefaultPort           = "8080"
	DefaultPushEndpoint   = "wss://multi-stream.than.dev/ws"
	DefaultReconnectDelay = 5 * time.Second
	DefaultEmbedParent    = "localhost"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultInitialPath    = "/"
	DefaultMaxMessageSize = 1 << 20
)

// App is the resolved configuration of a viewer process.
type App struct {
	Port                 string
	PushEndpoint         string
	PushTransport        string
	ReconnectDelay       time.Duration
	ExponentialReconnect bool
	SettingsFile         string
	EmbedParent          string
	LogLevel             string
	LogFormat            string
	InitialPath          string
	MaxMessageSize       int
}

// FromEnv reads App from the environment, falling back to defaults.
// Call Load first to pick up a .env file.
func FromEnv() App {
	return App{
		Port:                 GetEnv("PORT", DefaultPort),
		PushEndpoint:         GetEnv("PUSH_ENDPOINT", DefaultPushEndpoint),
		PushTransport:        GetEnv("PUSH_TRANSPORT", ""),
		ReconnectDelay:       GetEnvDuration("RECONNECT_DELAY", DefaultReconnectDelay),
		ExponentialReconnect: GetEnvBool("RECONNECT_EXPONENTIAL", false),
		SettingsFile:         GetEnv("SETTINGS_FILE", ""),
		EmbedParent:          GetEnv("EMBED_PARENT", DefaultEmbedParent),
		LogLevel:             GetEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:            GetEnv("LOG_FORMAT", DefaultLogFormat),
		InitialPath:          GetEnv("INITIAL_PATH", DefaultInitialPath),
		MaxMessageSize:       GetEnvInt("PUSH_MAX_MESSAGE_SIZE", DefaultMaxMessageSize),
	}
}
