package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keepmind9/rinfobot/internal/core"
	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the rinfobot gateway process",
		Long:  "Connect to the Discord gateway, register application commands and answer events until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			// The default path may be absent; an explicit one must exist
			allowMissing := !cmd.Flags().Changed("config")
			config, err := core.LoadConfig(configFile, allowMissing)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			logConfig := logger.Config{
				Level:        config.Logging.Level,
				File:         config.Logging.File,
				MaxSize:      config.Logging.MaxSize,
				MaxBackups:   config.Logging.MaxBackups,
				MaxAge:       config.Logging.MaxAge,
				Compress:     config.Logging.Compress,
				EnableStdout: config.Logging.StdoutEnabled(),
			}
			if err := logger.InitLogger(logConfig); err != nil {
				log.Fatalf("Failed to initialize logger: %v", err)
			}

			logger.WithFields(logrus.Fields{
				"config_file":     configFile,
				"log_level":       config.Logging.Level,
				"log_file":        config.Logging.File,
				"workers":         config.Dispatcher.Workers,
				"queue_size":      config.Dispatcher.QueueSize,
				"handler_timeout": config.Dispatcher.HandlerTimeout,
				"metrics_listen":  config.Metrics.Listen,
			}).Info("logger-initialized")

			engine := core.NewEngine(config)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErr := engine.Run(ctx)
			if runErr != nil {
				logger.WithField("error", runErr).Error("engine-run-failed")
			} else {
				logger.Info("shutting-down-gracefully")
			}

			if err := engine.Stop(); err != nil {
				logger.WithField("error", err).Error("error-during-shutdown")
			}

			if runErr != nil {
				log.Fatalf("Engine error: %v", runErr)
			}
			logger.Info("rinfobot-stopped")
		},
	}
)

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
}
