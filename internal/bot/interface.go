// Package bot connects rinfobot to the Discord gateway.
//
// The adapter owns the discordgo session: it configures intents and the
// message cache, registers the application commands once the gateway is
// ready, and turns every relevant gateway event into a job on the dispatch
// pool. Handlers run on the pool, never on the gateway read loop.
//
// # Events
//
//   - MESSAGE_CREATE: the !ping text command
//   - INTERACTION_CREATE: the /rinfo slash command and the "Reaction Info"
//     message context-menu command
//   - READY: command registration
//
// Unknown interaction kinds, data shapes and command names are logged and
// ignored without a reply.
//
// # Usage
//
//	pool := dispatch.NewPool(dispatch.Config{Workers: 8})
//	pool.Start()
//	discordBot := bot.NewDiscordBot(bot.DiscordConfig{Token: token}, pool)
//	if err := discordBot.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer discordBot.Stop()
package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/rinfobot/internal/dispatch"
	"github.com/keepmind9/rinfobot/internal/rinfo"
)

// BotAdapter defines the lifecycle of a gateway connection
type BotAdapter interface {
	// Start opens the gateway connection and begins dispatching events
	Start() error

	// Stop closes the connection and cleans up resources
	Stop() error
}

// Submitter accepts jobs for asynchronous execution. *dispatch.Pool satisfies it.
type Submitter interface {
	Submit(kind string, job dispatch.Job) error
}

// DiscordSessionInterface defines the interface we need from discordgo.Session
// This allows us to mock it in tests without depending on concrete types
type DiscordSessionInterface interface {
	rinfo.MessageClient

	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}
