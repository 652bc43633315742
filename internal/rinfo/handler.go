package rinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/rinfobot/internal/logger"
	"github.com/keepmind9/rinfobot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Text command trigger and its fixed reply
const (
	PingTrigger = "!ping"
	PingReply   = "Pong!"
)

// Option names of the rinfo slash command
const (
	OptionMessage            = "message"
	OptionExcludeUser        = "exclude_user"
	OptionExcludeReaction    = "exclude_reaction"
	OptionIncludeMessageUser = "include_message_user"
	OptionUserOnly           = "user_only"
)

// reactionFetchError is a failed reactions lookup. It matches ErrFetchFailure.
type reactionFetchError struct {
	emoji string
	err   error
}

func (e *reactionFetchError) Error() string {
	return fmt.Sprintf("for %s: %v", e.emoji, e.err)
}

func (e *reactionFetchError) Is(target error) bool {
	return target == ErrFetchFailure
}

func (e *reactionFetchError) Unwrap() error {
	return e.err
}

// MessageClient is the subset of the Discord REST API the handler needs.
// *discordgo.Session satisfies it.
type MessageClient interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
}

// Options are the arguments of one rinfo invocation
type Options struct {
	Message            string
	ExcludeUser        string
	ExcludeReaction    string
	IncludeMessageUser bool
	UserOnly           bool
}

// OptionsFromData reads rinfo arguments from slash command data.
// Unknown options are ignored.
func OptionsFromData(data discordgo.ApplicationCommandInteractionData) Options {
	var opts Options
	for _, opt := range data.Options {
		if opt == nil {
			continue
		}
		switch opt.Name {
		case OptionMessage:
			opts.Message = optionString(opt)
		case OptionExcludeUser:
			opts.ExcludeUser = optionString(opt)
		case OptionExcludeReaction:
			opts.ExcludeReaction = optionString(opt)
		case OptionIncludeMessageUser:
			opts.IncludeMessageUser = optionBool(opt)
		case OptionUserOnly:
			opts.UserOnly = optionBool(opt)
		}
	}
	return opts
}

// StringValue and BoolValue panic on a type mismatch
func optionString(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

func optionBool(opt *discordgo.ApplicationCommandInteractionDataOption) bool {
	if opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return false
	}
	return opt.BoolValue()
}

// Handler answers the reaction-info commands
type Handler struct {
	client MessageClient
}

// NewHandler creates a handler backed by the given REST client
func NewHandler(client MessageClient) *Handler {
	return &Handler{client: client}
}

// ReactionInfo handles /rinfo. Every failure is turned into an error reply.
func (h *Handler) ReactionInfo(ctx context.Context, opts Options) *discordgo.InteractionResponse {
	ref, err := ParseMessageIdentifier(opts.Message)
	if err != nil {
		return ErrorResponse(fmt.Sprintf("Error parsing message identifier: %v", err))
	}

	summary, err := h.Summarize(ctx, ref, opts)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"channel": ref.ChannelID,
			"message": ref.MessageID,
			"error":   err,
		}).Warn("reaction-summary-failed")
		return ErrorResponse(describeFailure(err))
	}

	return MessageResponse(renderReply(opts.Message, summary.Format(opts.UserOnly)))
}

// ContextMenu handles the "Reaction Info" message command
func (h *Handler) ContextMenu(targetID string) *discordgo.InteractionResponse {
	return MessageResponse(fmt.Sprintf("Context Menu Command\nMessage ID: %s", targetID))
}

// Summarize fetches the referenced message and collects, per remaining
// reaction, the users who applied it.
func (h *Handler) Summarize(ctx context.Context, ref MessageReference, opts Options) (Summary, error) {
	message, err := h.fetchMessage(ctx, ref)
	if err != nil {
		return nil, err
	}

	authorID := ""
	if !opts.IncludeMessageUser && message.Author != nil {
		authorID = message.Author.ID
	}
	users := NewUserFilter(opts.ExcludeUser, authorID)

	var summary Summary
	for _, reaction := range FilterReactions(message.Reactions, opts.ExcludeReaction) {
		reactors, err := h.fetchReactors(ctx, ref, reaction.Emoji.APIName())
		if err != nil {
			return nil, err
		}

		group := ReactionGroup{Emoji: EmojiName(reaction.Emoji)}
		for _, user := range reactors {
			if user == nil || !users.Allows(user.ID) {
				continue
			}
			group.Users = append(group.Users, user.Mention())
		}
		if len(group.Users) > 0 {
			summary = append(summary, group)
		}
	}

	return summary, nil
}

func (h *Handler) fetchMessage(ctx context.Context, ref MessageReference) (*discordgo.Message, error) {
	message, err := h.client.ChannelMessage(ref.ChannelIDString(), ref.MessageIDString(), discordgo.WithContext(ctx))
	if err != nil {
		if errors.Is(err, discordgo.ErrJSONUnmarshal) {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	if message == nil {
		return nil, fmt.Errorf("%w: empty message", ErrDecodeFailure)
	}
	return message, nil
}

// fetchReactors pages through the reactions endpoint until a short page
func (h *Handler) fetchReactors(ctx context.Context, ref MessageReference, emojiID string) ([]*discordgo.User, error) {
	var users []*discordgo.User
	after := ""
	for {
		page, err := h.client.MessageReactions(ref.ChannelIDString(), ref.MessageIDString(), emojiID,
			constants.MaxReactionsPerPage, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, &reactionFetchError{emoji: emojiID, err: err}
		}
		users = append(users, page...)

		if len(page) < constants.MaxReactionsPerPage {
			return users, nil
		}
		last := page[len(page)-1]
		if last == nil || last.ID == after {
			return users, nil
		}
		after = last.ID
	}
}

func describeFailure(err error) string {
	var reactionErr *reactionFetchError
	switch {
	case errors.As(err, &reactionErr):
		return fmt.Sprintf("Error fetching reactions: %v", err)
	case errors.Is(err, ErrDecodeFailure):
		return fmt.Sprintf("Error parsing message: %v", err)
	case errors.Is(err, ErrFetchFailure):
		return fmt.Sprintf("Error fetching message: %v", err)
	default:
		return err.Error()
	}
}

// renderReply wraps the rendered block in the reply template
func renderReply(identifier, block string) string {
	return fmt.Sprintf("📝 <%s>\n\n```\n%s\n```", identifier, block)
}
