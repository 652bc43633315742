package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *logrus.Logger
)

// Config represents the configuration for the logger
type Config struct {
	Level        string
	File         string
	MaxSize      int
	MaxBackups   int
	MaxAge       int
	Compress     bool
	EnableStdout bool
}

// InitLogger initializes the global logger with the given configuration
func InitLogger(config Config) error {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	var writers []io.Writer

	// File output with rotation
	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSize,    // megabytes
			MaxBackups: config.MaxBackups, // number of backups
			MaxAge:     config.MaxAge,     // days
			Compress:   config.Compress,
		})
	}

	if config.EnableStdout {
		writers = append(writers, os.Stdout)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}

	if level == logrus.DebugLevel || level == logrus.TraceLevel {
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z",
		})
	}

	globalLogger = l
	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if globalLogger == nil {
		globalLogger = logrus.New()
		globalLogger.SetLevel(logrus.InfoLevel)
		globalLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return globalLogger
}

// Info logs a message at info level
func Info(args ...interface{}) {
	GetLogger().Info(args...)
}

// Warn logs a message at warning level
func Warn(args ...interface{}) {
	GetLogger().Warn(args...)
}

// WithFields returns a logger entry with structured fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithField returns a logger entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

// DiscordLogLevel maps the logrus level onto discordgo's session log level
func DiscordLogLevel() int {
	switch GetLogger().GetLevel() {
	case logrus.TraceLevel, logrus.DebugLevel:
		return discordgo.LogDebug
	case logrus.InfoLevel:
		return discordgo.LogInformational
	case logrus.WarnLevel:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

// DiscordLogger routes discordgo's internal messages, including gateway
// events it failed to decode, into the global logger. It matches the
// signature of discordgo.Logger.
func DiscordLogger(msgL, caller int, format string, a ...interface{}) {
	entry := WithField("source", "discordgo")
	msg := strings.TrimSpace(fmt.Sprintf(format, a...))

	switch msgL {
	case discordgo.LogError:
		entry.Error(msg)
	case discordgo.LogWarning:
		entry.Warn(msg)
	case discordgo.LogInformational:
		entry.Info(msg)
	default:
		entry.Debug(msg)
	}
}
