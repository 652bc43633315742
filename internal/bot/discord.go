package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/keepmind9/rinfobot/internal/rinfo"
	"github.com/keepmind9/rinfobot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Intents requested from the gateway. Guilds is needed so the state cache
// knows the channels that messages are stored under.
const discordIntents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildMessageReactions |
	discordgo.IntentMessageContent

// Job kinds, used as log fields and metric labels
const (
	jobPing        = "ping"
	jobRinfo       = "rinfo"
	jobContextMenu = "context_menu"
	jobRegister    = "register_commands"
)

// DiscordConfig holds the settings of the Discord adapter
type DiscordConfig struct {
	Token            string
	GuildID          string // register commands in one guild instead of globally
	RegisterCommands bool
	MessageCacheSize int
}

// DiscordBot implements BotAdapter interface for Discord
type DiscordBot struct {
	mu       sync.RWMutex
	config   DiscordConfig
	session  DiscordSessionInterface
	pool     Submitter
	handler  *rinfo.Handler
	removers []func()
}

// NewDiscordBot creates a new Discord bot that runs its handlers on pool
func NewDiscordBot(config DiscordConfig, pool Submitter) *DiscordBot {
	if config.MessageCacheSize <= 0 {
		config.MessageCacheSize = constants.DefaultMessageCacheSize
	}
	return &DiscordBot{
		config: config,
		pool:   pool,
	}
}

// newDiscordSession creates and configures the discordgo session
func (d *DiscordBot) newDiscordSession() (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + d.config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordIntents
	session.LogLevel = logger.DiscordLogLevel()
	// Handlers only enqueue work, so they can run on the read loop right
	// after the state cache has been updated.
	session.SyncEvents = true

	session.StateEnabled = true
	session.State.MaxMessageCount = d.config.MessageCacheSize
	session.State.TrackChannels = true
	session.State.TrackEmojis = false
	session.State.TrackMembers = false
	session.State.TrackRoles = false
	session.State.TrackVoice = false
	session.State.TrackPresences = false

	discordgo.Logger = logger.DiscordLogger
	return session, nil
}

// Start establishes connection to Discord and begins dispatching events
func (d *DiscordBot) Start() error {
	logger.WithFields(logrus.Fields{
		"token":             maskSecret(d.config.Token),
		"guild":             d.config.GuildID,
		"register_commands": d.config.RegisterCommands,
		"message_cache":     d.config.MessageCacheSize,
	}).Info("starting-discord-bot")

	d.mu.Lock()
	if d.session == nil {
		session, err := d.newDiscordSession()
		if err != nil {
			d.mu.Unlock()
			return err
		}
		d.session = session
	}
	session := d.session
	d.handler = rinfo.NewHandler(session)
	d.removers = []func(){
		session.AddHandler(d.onReady),
		session.AddHandler(d.onMessageCreate),
		session.AddHandler(d.onInteractionCreate),
	}
	d.mu.Unlock()

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}

	logger.Info("discord-gateway-connected")
	return nil
}

// Stop closes the Discord connection and cleans up resources
func (d *DiscordBot) Stop() error {
	d.mu.Lock()
	session := d.session
	removers := d.removers
	d.session = nil
	d.removers = nil
	d.mu.Unlock()

	if session == nil {
		return nil
	}

	for _, remove := range removers {
		remove()
	}

	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}

	logger.Info("discord-bot-stopped")
	return nil
}

func (d *DiscordBot) getSession() DiscordSessionInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.session
}

func (d *DiscordBot) getHandler() *rinfo.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handler
}

// submit hands a job to the pool; a rejected job is logged and dropped
func (d *DiscordBot) submit(kind string, fields logrus.Fields, job func(ctx context.Context)) {
	if err := d.pool.Submit(kind, job); err != nil {
		fields["kind"] = kind
		fields["error"] = err
		logger.WithFields(fields).Warn("discord-event-dropped")
	}
}

func (d *DiscordBot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		logger.Warn("discord-ready-without-user")
		return
	}

	logger.WithFields(logrus.Fields{
		"user_id":  r.User.ID,
		"username": r.User.Username,
		"guilds":   len(r.Guilds),
	}).Info("discord-ready")

	if !d.config.RegisterCommands {
		return
	}

	appID := r.User.ID
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}
	d.submit(jobRegister, logrus.Fields{"app_id": appID}, func(ctx context.Context) {
		if err := d.registerCommands(ctx, appID); err != nil {
			logger.WithField("error", err).Error("failed-to-register-commands")
		}
	})
}

// registerCommands overwrites the application's commands with Commands()
func (d *DiscordBot) registerCommands(ctx context.Context, appID string) error {
	session := d.getSession()
	if session == nil {
		return fmt.Errorf("discord session not initialized")
	}

	logger.WithFields(logrus.Fields{
		"app_id": appID,
		"guild":  d.config.GuildID,
	}).Info("registering-application-commands")

	created, err := session.ApplicationCommandBulkOverwrite(appID, d.config.GuildID, Commands(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to register application commands: %w", err)
	}

	logger.WithField("count", len(created)).Info("application-commands-registered")
	return nil
}

func (d *DiscordBot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if m.Content != rinfo.PingTrigger {
		return
	}

	channelID := m.ChannelID
	fields := logrus.Fields{
		"user_id": m.Author.ID,
		"channel": channelID,
	}
	logger.WithFields(fields).Debug("received-ping")

	d.submit(jobPing, fields, func(ctx context.Context) {
		session := d.getSession()
		if session == nil {
			return
		}
		if _, err := session.ChannelMessageSend(channelID, rinfo.PingReply, discordgo.WithContext(ctx)); err != nil {
			logger.WithFields(logrus.Fields{
				"channel": channelID,
				"error":   fmt.Errorf("%w: %v", rinfo.ErrSendFailure, err),
			}).Error("failed-to-send-message-to-discord")
			return
		}
		logger.WithField("channel", channelID).Info("message-sent-to-discord")
	})
}

func (d *DiscordBot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	interaction := i.Interaction

	if interaction.Type != discordgo.InteractionApplicationCommand {
		logger.WithField("type", interaction.Type.String()).Warn("unknown-interaction-type")
		return
	}

	data, ok := interaction.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		logger.WithField("data", fmt.Sprintf("%T", interaction.Data)).Warn("unknown-interaction-data-type")
		return
	}

	fields := logrus.Fields{
		"interaction_id": interaction.ID,
		"command":        data.Name,
		"channel":        interaction.ChannelID,
	}
	logger.WithFields(fields).Info("interaction-received")

	switch {
	// Only message commands carry a target
	case data.Name == CommandRinfo && data.TargetID == "":
		opts := rinfo.OptionsFromData(data)
		d.submit(jobRinfo, fields, func(ctx context.Context) {
			handler := d.getHandler()
			if handler == nil {
				return
			}
			d.respond(ctx, interaction, handler.ReactionInfo(ctx, opts))
		})

	case data.Name == CommandReactionInfo && data.TargetID != "":
		targetID := data.TargetID
		d.submit(jobContextMenu, fields, func(ctx context.Context) {
			handler := d.getHandler()
			if handler == nil {
				return
			}
			d.respond(ctx, interaction, handler.ContextMenu(targetID))
		})

	default:
		logger.WithFields(fields).Warn("unknown-command")
	}
}

// respond submits an interaction response. Failures are logged as
// ErrSendFailure and dropped.
func (d *DiscordBot) respond(ctx context.Context, interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) {
	session := d.getSession()
	if session == nil {
		logger.WithFields(logrus.Fields{
			"interaction_id": interaction.ID,
			"error":          fmt.Errorf("%w: discord session not initialized", rinfo.ErrSendFailure),
		}).Error("failed-to-send-interaction-response")
		return
	}

	if resp.Data != nil {
		resp.Data.Content = truncateMessage(resp.Data.Content)
	}

	if err := session.InteractionRespond(interaction, resp, discordgo.WithContext(ctx)); err != nil {
		logger.WithFields(logrus.Fields{
			"interaction_id": interaction.ID,
			"error":          fmt.Errorf("%w: %v", rinfo.ErrSendFailure, err),
		}).Error("failed-to-send-interaction-response")
		return
	}

	logger.WithField("interaction_id", interaction.ID).Info("interaction-response-sent")
}
