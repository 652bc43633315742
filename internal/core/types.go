package core

// Config represents the complete rinfobot configuration structure
type Config struct {
	Discord    DiscordConfig    `yaml:"discord"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DiscordConfig represents the gateway connection settings
type DiscordConfig struct {
	Token            string `yaml:"token"`              // Bot token (default: $DISCORD_TOKEN)
	GuildID          string `yaml:"guild_id"`           // Register commands in this guild only (default: global)
	RegisterCommands *bool  `yaml:"register_commands"`  // Overwrite application commands on ready (default: true)
	MessageCacheSize int    `yaml:"message_cache_size"` // Messages kept per channel by the state cache (default: 200)
}

// DispatcherConfig represents the worker pool that runs event handlers
type DispatcherConfig struct {
	Workers        int    `yaml:"workers"`         // Number of handler goroutines (default: 8)
	QueueSize      int    `yaml:"queue_size"`      // Pending jobs before new events are dropped (default: 256)
	HandlerTimeout string `yaml:"handler_timeout"` // Upper bound for one command (default: "15s")
}

// MetricsConfig represents the Prometheus endpoint
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Address for /metrics, e.g. ":9100". Empty disables the endpoint
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     bool   `yaml:"compress"`      // Whether to compress old logs
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}

// ShouldRegisterCommands reports whether commands are overwritten on ready
func (d DiscordConfig) ShouldRegisterCommands() bool {
	return d.RegisterCommands == nil || *d.RegisterCommands
}

// StdoutEnabled reports whether logs are also written to stdout
func (l LoggingConfig) StdoutEnabled() bool {
	return l.EnableStdout == nil || *l.EnableStdout
}
