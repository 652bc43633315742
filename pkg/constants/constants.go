package constants

import "time"

// Message length limits
const (
	// MaxDiscordMessageLength is Discord's message character limit
	MaxDiscordMessageLength = 2000
)

// Discord REST pagination
const (
	// MaxReactionsPerPage is the largest page the reactions endpoint returns
	MaxReactionsPerPage = 100
)

// Dispatcher defaults
const (
	// DefaultWorkers is the number of handler goroutines
	DefaultWorkers = 8
	// DefaultQueueSize is the buffer size of the job queue
	DefaultQueueSize = 256
	// DefaultHandlerTimeout bounds a single command invocation
	DefaultHandlerTimeout = 15 * time.Second
	// MaxWorkers is the upper limit accepted from configuration
	MaxWorkers = 256
)

// State cache
const (
	// DefaultMessageCacheSize is the number of messages kept per channel by the state cache
	DefaultMessageCacheSize = 200
)

// Shutdown
const (
	// ShutdownTimeout bounds graceful shutdown of the metrics server and worker pool
	ShutdownTimeout = 5 * time.Second
)

// Token masking
const (
	// MinSecretLengthForMasking is the minimum secret length to apply masking
	MinSecretLengthForMasking = 10
	// SecretMaskPrefixLength is the length of prefix to show before masking
	SecretMaskPrefixLength = 4
	// SecretMaskSuffixLength is the length of suffix to show after masking
	SecretMaskSuffixLength = 4
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxBackups is the default number of rotated files to keep
	DefaultLogMaxBackups = 5
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
