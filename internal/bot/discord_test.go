package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/rinfobot/internal/dispatch"
	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/keepmind9/rinfobot/internal/rinfo"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockDiscordSession is a mock implementation of DiscordSessionInterface for testing
type MockDiscordSession struct {
	mu               sync.Mutex
	shouldFailOnOpen bool
	shouldFailOnSend bool
	openCalled       bool
	closed           bool
	handlers         []interface{}
	removed          int
	sentMessages     []SentMessage
	responses        []*discordgo.InteractionResponse
	registered       []*discordgo.ApplicationCommand
	registeredApp    string
	registeredGuild  string
	message          *discordgo.Message
	reactors         map[string][]*discordgo.User
}

type SentMessage struct {
	Channel string
	Message string
}

func (m *MockDiscordSession) AddHandler(handler interface{}) func() {
	m.handlers = append(m.handlers, handler)
	return func() { m.removed++ }
}

func (m *MockDiscordSession) Open() error {
	m.openCalled = true
	if m.shouldFailOnOpen {
		return errors.New("failed to open discord connection")
	}
	return nil
}

func (m *MockDiscordSession) Close() error {
	m.closed = true
	return nil
}

func (m *MockDiscordSession) ChannelMessageSend(channel, message string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFailOnSend {
		return nil, errors.New("failed to send message")
	}
	m.sentMessages = append(m.sentMessages, SentMessage{Channel: channel, Message: message})
	return &discordgo.Message{ID: "msg-id"}, nil
}

func (m *MockDiscordSession) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.message == nil {
		return nil, errors.New("HTTP 404 Not Found")
	}
	return m.message, nil
}

func (m *MockDiscordSession) MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error) {
	return m.reactors[emojiID], nil
}

func (m *MockDiscordSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFailOnSend {
		return errors.New("HTTP 401 Unauthorized")
	}
	m.responses = append(m.responses, resp)
	return nil
}

func (m *MockDiscordSession) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	m.registeredApp = appID
	m.registeredGuild = guildID
	m.registered = commands
	return commands, nil
}

// inlineSubmitter runs jobs synchronously so tests can assert right after dispatch
type inlineSubmitter struct {
	kinds []string
	err   error
}

func (s *inlineSubmitter) Submit(kind string, job dispatch.Job) error {
	if s.err != nil {
		return s.err
	}
	s.kinds = append(s.kinds, kind)
	job(context.Background())
	return nil
}

func startTestBot(t *testing.T, config DiscordConfig, session *MockDiscordSession) (*DiscordBot, *inlineSubmitter) {
	t.Helper()
	pool := &inlineSubmitter{}
	b := NewDiscordBot(config, pool)
	b.session = session
	require.NoError(t, b.Start())
	return b, pool
}

func commandInteraction(data discordgo.InteractionData) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "234567890123456789",
			Data:      data,
		},
	}
}

func TestNewDiscordBot_AppliesDefaults(t *testing.T) {
	b := NewDiscordBot(DiscordConfig{Token: "test-token"}, &inlineSubmitter{})

	assert.Equal(t, "test-token", b.config.Token)
	assert.Equal(t, 200, b.config.MessageCacheSize)
	assert.Nil(t, b.session)
}

func TestDiscordBot_Start_RegistersHandlersAndOpens(t *testing.T) {
	session := &MockDiscordSession{}
	b, _ := startTestBot(t, DiscordConfig{Token: "test-token"}, session)

	assert.True(t, session.openCalled)
	assert.Len(t, session.handlers, 3)
	assert.NotNil(t, b.getHandler())

	require.NoError(t, b.Stop())
	assert.True(t, session.closed)
	assert.Equal(t, 3, session.removed)
	assert.Nil(t, b.getSession())
}

func TestDiscordBot_Start_WithSessionOpenError_ReturnsError(t *testing.T) {
	session := &MockDiscordSession{shouldFailOnOpen: true}
	b := NewDiscordBot(DiscordConfig{Token: "test-token"}, &inlineSubmitter{})
	b.session = session

	err := b.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open discord connection")
	assert.True(t, session.openCalled)
}

func TestDiscordBot_Stop_NilSession(t *testing.T) {
	b := NewDiscordBot(DiscordConfig{}, &inlineSubmitter{})
	assert.NoError(t, b.Stop())
}

func TestDiscordBot_Ping(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{}, session)

	b.onMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		Content:   "!ping",
		ChannelID: "chan-1",
		Author:    &discordgo.User{ID: "user-1"},
	}})

	require.Len(t, session.sentMessages, 1)
	assert.Equal(t, SentMessage{Channel: "chan-1", Message: "Pong!"}, session.sentMessages[0])
	assert.Equal(t, []string{"ping"}, pool.kinds)
}

func TestDiscordBot_Ping_IgnoresOtherMessages(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{}, session)

	messages := []*discordgo.MessageCreate{
		{Message: &discordgo.Message{Content: "!ping ", Author: &discordgo.User{ID: "u"}}},
		{Message: &discordgo.Message{Content: "!PING", Author: &discordgo.User{ID: "u"}}},
		{Message: &discordgo.Message{Content: "!ping", Author: &discordgo.User{ID: "bot", Bot: true}}},
		{Message: &discordgo.Message{Content: "!ping"}},
		{},
	}
	for _, m := range messages {
		b.onMessageCreate(nil, m)
	}

	assert.Empty(t, session.sentMessages)
	assert.Empty(t, pool.kinds)
}

func TestDiscordBot_Ping_SendFailureIsSwallowed(t *testing.T) {
	session := &MockDiscordSession{shouldFailOnSend: true}
	b, _ := startTestBot(t, DiscordConfig{}, session)

	assert.NotPanics(t, func() {
		b.onMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
			Content: "!ping",
			Author:  &discordgo.User{ID: "user-1"},
		}})
	})
	assert.Empty(t, session.sentMessages)
}

func TestDiscordBot_RinfoCommand(t *testing.T) {
	session := &MockDiscordSession{
		message: &discordgo.Message{
			ID:     "345678901234567890",
			Author: &discordgo.User{ID: "900"},
			Reactions: []*discordgo.MessageReactions{
				{Count: 2, Emoji: &discordgo.Emoji{Name: "👍"}},
			},
		},
		reactors: map[string][]*discordgo.User{"👍": {{ID: "1"}, {ID: "2"}}},
	}
	b, pool := startTestBot(t, DiscordConfig{}, session)
	url := "https://discord.com/channels/1/234567890123456789/345678901234567890"

	b.onInteractionCreate(nil, commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name: "rinfo",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "message", Type: discordgo.ApplicationCommandOptionString, Value: url},
		},
	}))

	require.Len(t, session.responses, 1)
	resp := session.responses[0]
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "📝 <"+url+">\n\n```\n👍: <@1> <@2>\n\n```", resp.Data.Content)
	assert.Equal(t, []string{"rinfo"}, pool.kinds)
}

func TestDiscordBot_RinfoCommand_ParseErrorReply(t *testing.T) {
	session := &MockDiscordSession{}
	b, _ := startTestBot(t, DiscordConfig{}, session)

	b.onInteractionCreate(nil, commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name: "rinfo",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "message", Type: discordgo.ApplicationCommandOptionString, Value: "https://discord.com/invalid/url"},
		},
	}))

	require.Len(t, session.responses, 1)
	assert.Equal(t, "Error: Error parsing message identifier: "+rinfo.ErrInvalidFormat.Error(), session.responses[0].Data.Content)
}

func TestDiscordBot_ContextMenu(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{}, session)

	b.onInteractionCreate(nil, commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name:     "Reaction Info",
		TargetID: "345678901234567890",
	}))

	require.Len(t, session.responses, 1)
	assert.Equal(t, "Context Menu Command\nMessage ID: 345678901234567890", session.responses[0].Data.Content)
	assert.Equal(t, []string{"context_menu"}, pool.kinds)
}

func TestDiscordBot_IgnoresUnknownInteractions(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{}, session)

	events := []*discordgo.InteractionCreate{
		nil,
		{},
		{Interaction: &discordgo.Interaction{Type: discordgo.InteractionMessageComponent, Data: discordgo.MessageComponentInteractionData{CustomID: "x"}}},
		{Interaction: &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand, Data: discordgo.ModalSubmitInteractionData{CustomID: "x"}}},
		commandInteraction(discordgo.ApplicationCommandInteractionData{Name: "unknown"}),
		commandInteraction(discordgo.ApplicationCommandInteractionData{Name: "Reaction Info"}),
		commandInteraction(discordgo.ApplicationCommandInteractionData{Name: "rinfo", TargetID: "345678901234567890"}),
	}
	for _, ev := range events {
		assert.NotPanics(t, func() { b.onInteractionCreate(nil, ev) })
	}

	assert.Empty(t, session.responses)
	assert.Empty(t, pool.kinds)
}

func TestDiscordBot_RespondFailureIsLoggedAsSendFailure(t *testing.T) {
	session := &MockDiscordSession{shouldFailOnSend: true}
	b, _ := startTestBot(t, DiscordConfig{}, session)
	hooks := logger.GetLogger().ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { logger.GetLogger().ReplaceHooks(hooks) })
	hook := logtest.NewLocal(logger.GetLogger())

	b.respond(context.Background(), &discordgo.Interaction{ID: "i-1"}, rinfo.MessageResponse("hi"))

	assert.Empty(t, session.responses)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "failed-to-send-interaction-response", entry.Message)
	err, ok := entry.Data["error"].(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, rinfo.ErrSendFailure)
	assert.Contains(t, err.Error(), "HTTP 401 Unauthorized")
}

func TestDiscordBot_DroppedJobsDoNotReply(t *testing.T) {
	session := &MockDiscordSession{}
	pool := &inlineSubmitter{err: dispatch.ErrQueueFull}
	b := NewDiscordBot(DiscordConfig{}, pool)
	b.session = session
	require.NoError(t, b.Start())

	b.onInteractionCreate(nil, commandInteraction(discordgo.ApplicationCommandInteractionData{
		Name:     "Reaction Info",
		TargetID: "1",
	}))

	assert.Empty(t, session.responses)
}

func TestDiscordBot_OnReady_RegistersCommands(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{RegisterCommands: true, GuildID: "guild-1"}, session)

	b.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "app-1", Username: "rinfobot"}})

	assert.Equal(t, "app-1", session.registeredApp)
	assert.Equal(t, "guild-1", session.registeredGuild)
	assert.Len(t, session.registered, 2)
	assert.Equal(t, []string{"register_commands"}, pool.kinds)
}

func TestDiscordBot_OnReady_PrefersApplicationID(t *testing.T) {
	session := &MockDiscordSession{}
	b, _ := startTestBot(t, DiscordConfig{RegisterCommands: true}, session)

	b.onReady(nil, &discordgo.Ready{
		User:        &discordgo.User{ID: "bot-user-1"},
		Application: &discordgo.Application{ID: "app-1"},
	})

	assert.Equal(t, "app-1", session.registeredApp)
	assert.Equal(t, "", session.registeredGuild)
}

func TestDiscordBot_OnReady_SkipsRegistrationWhenDisabled(t *testing.T) {
	session := &MockDiscordSession{}
	b, pool := startTestBot(t, DiscordConfig{RegisterCommands: false}, session)

	b.onReady(nil, &discordgo.Ready{User: &discordgo.User{ID: "app-1"}})
	b.onReady(nil, &discordgo.Ready{})

	assert.Nil(t, session.registered)
	assert.Empty(t, pool.kinds)
}
