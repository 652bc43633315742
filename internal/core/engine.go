package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/keepmind9/rinfobot/internal/bot"
	"github.com/keepmind9/rinfobot/internal/dispatch"
	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/keepmind9/rinfobot/pkg/constants"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Engine owns the bot connection, the handler pool and the metrics endpoint
type Engine struct {
	config        *Config
	pool          *dispatch.Pool
	bot           bot.BotAdapter
	metricsServer *http.Server
	metricsAddr   net.Addr
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
	stopOnce      sync.Once
}

// NewEngine creates a new Engine instance with a Discord adapter
func NewEngine(config *Config) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	pool := dispatch.NewPool(dispatch.Config{
		Workers:        config.Dispatcher.Workers,
		QueueSize:      config.Dispatcher.QueueSize,
		HandlerTimeout: config.HandlerTimeout(),
	})

	discordBot := bot.NewDiscordBot(bot.DiscordConfig{
		Token:            config.Discord.Token,
		GuildID:          config.Discord.GuildID,
		RegisterCommands: config.Discord.ShouldRegisterCommands(),
		MessageCacheSize: config.Discord.MessageCacheSize,
	}, pool)

	return &Engine{
		config: config,
		pool:   pool,
		bot:    discordBot,
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterBotAdapter replaces the gateway adapter
func (e *Engine) RegisterBotAdapter(adapter bot.BotAdapter) {
	e.bot = adapter
}

// Pool returns the dispatch pool handlers run on
func (e *Engine) Pool() *dispatch.Pool {
	return e.pool
}

// Run starts the engine and blocks until ctx is cancelled or Stop is called
func (e *Engine) Run(ctx context.Context) error {
	logger.Info("starting-rinfobot-engine")

	e.pool.Start()

	if e.config.Metrics.Listen != "" {
		if err := e.startMetricsServer(e.config.Metrics.Listen); err != nil {
			return err
		}
	}

	if err := e.bot.Start(); err != nil {
		return fmt.Errorf("failed to start discord bot: %w", err)
	}

	logger.Info("engine-running")

	select {
	case <-ctx.Done():
	case <-e.ctx.Done():
	}

	logger.Info("engine-run-loop-exited")
	return nil
}

func (e *Engine) startMetricsServer(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on metrics address %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Handler: mux}

	e.mu.Lock()
	e.metricsServer = server
	e.metricsAddr = listener.Addr()
	e.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithField("error", err).Error("metrics-server-failed")
		}
	}()

	logger.WithField("addr", listener.Addr().String()).Info("metrics-server-started")
	return nil
}

// MetricsAddr returns the bound metrics address, or nil when disabled
func (e *Engine) MetricsAddr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metricsAddr
}

// Stop shuts the engine down: the gateway first so no new events arrive,
// then the pool so in-flight replies can finish, then the metrics server.
func (e *Engine) Stop() error {
	var stopErr error
	e.stopOnce.Do(func() {
		logger.Info("stopping-rinfobot-engine")
		e.cancel()

		if err := e.bot.Stop(); err != nil {
			logger.WithField("error", err).Error("failed-to-stop-bot")
			stopErr = err
		}

		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := e.pool.Stop(ctx); err != nil {
			logger.WithField("error", err).Warn("dispatch-pool-did-not-drain")
		}

		e.mu.Lock()
		server := e.metricsServer
		e.mu.Unlock()
		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				logger.WithFields(logrus.Fields{
					"error": err,
				}).Error("failed-to-gracefully-stop-metrics-server")
				server.Close()
			}
		}

		logger.Info("engine-stopped")
	})
	return stopErr
}
