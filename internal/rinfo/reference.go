// Package rinfo implements the reaction-info commands: parsing message
// references, fetching reactors and rendering the summary reply.
package rinfo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrAmbiguousIdentifier is returned for a bare message ID, which cannot be
	// resolved without a channel.
	ErrAmbiguousIdentifier = errors.New("when providing just a message ID, you must also specify the channel ID")
	// ErrInvalidFormat is returned when the input is not a Discord message URL.
	ErrInvalidFormat = errors.New("invalid message identifier format, please provide a valid Discord message URL")
	// ErrFetchFailure wraps REST failures while loading a message or its reactions.
	ErrFetchFailure = errors.New("fetch failed")
	// ErrDecodeFailure wraps responses that could not be decoded into a message.
	ErrDecodeFailure = errors.New("decode failed")
	// ErrSendFailure wraps failures while submitting a reply.
	ErrSendFailure = errors.New("send failed")
)

var messageURLPattern = regexp.MustCompile(`https://discord\.com/channels/(?:\d+)/(\d+)/(\d+)`)

// MessageReference locates a message by channel and message ID.
type MessageReference struct {
	ChannelID uint64
	MessageID uint64
}

// ChannelIDString returns the channel ID as the snowflake string used by the REST API.
func (r MessageReference) ChannelIDString() string {
	return strconv.FormatUint(r.ChannelID, 10)
}

// MessageIDString returns the message ID as the snowflake string used by the REST API.
func (r MessageReference) MessageIDString() string {
	return strconv.FormatUint(r.MessageID, 10)
}

// URL formats the reference as a message link inside the given guild.
func (r MessageReference) URL(guildID uint64) string {
	return fmt.Sprintf("https://discord.com/channels/%d/%d/%d", guildID, r.ChannelID, r.MessageID)
}

// ParseMessageIdentifier converts a message link into a MessageReference.
//
// Accepted input is a link of the form
// https://discord.com/channels/<guild>/<channel>/<message>. A bare numeric ID
// fails with ErrAmbiguousIdentifier; anything else fails with ErrInvalidFormat.
func ParseMessageIdentifier(identifier string) (MessageReference, error) {
	if identifier != "" && isDigits(identifier) {
		return MessageReference{}, ErrAmbiguousIdentifier
	}

	matches := messageURLPattern.FindStringSubmatch(identifier)
	if matches == nil {
		return MessageReference{}, ErrInvalidFormat
	}

	channelID, err := parseSnowflake(matches[1])
	if err != nil {
		return MessageReference{}, fmt.Errorf("%w: channel id: %v", ErrInvalidFormat, err)
	}
	messageID, err := parseSnowflake(matches[2])
	if err != nil {
		return MessageReference{}, fmt.Errorf("%w: message id: %v", ErrInvalidFormat, err)
	}

	return MessageReference{ChannelID: channelID, MessageID: messageID}, nil
}

func parseSnowflake(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be non-zero")
	}
	return id, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
