package rinfo

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// NoReactionsText is rendered when nothing is left after filtering
const NoReactionsText = "No reactions found."

// ReactionGroup holds the mentions of the users who reacted with one emoji
type ReactionGroup struct {
	Emoji string
	Users []string
}

// Summary is the per-emoji reactor list of a message, in reaction order
type Summary []ReactionGroup

// Format renders the summary grouped by emoji, or as a flat de-duplicated
// mention list when userOnly is set.
func (s Summary) Format(userOnly bool) string {
	if len(s) == 0 {
		return NoReactionsText
	}

	if userOnly {
		return "Users who reacted: " + strings.Join(s.uniqueUsers(), " ")
	}

	var b strings.Builder
	for _, group := range s {
		b.WriteString(group.Emoji)
		b.WriteString(": ")
		b.WriteString(strings.Join(group.Users, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// uniqueUsers returns every mention once, in first-seen order
func (s Summary) uniqueUsers() []string {
	seen := make(map[string]struct{})
	var users []string
	for _, group := range s {
		for _, user := range group.Users {
			if _, ok := seen[user]; ok {
				continue
			}
			seen[user] = struct{}{}
			users = append(users, user)
		}
	}
	return users
}

// splitList splits a comma-separated option value into trimmed, non-empty tokens
func splitList(value string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens[part] = struct{}{}
	}
	return tokens
}

// EmojiName returns the name used to match and display a reaction emoji.
// Custom emojis without a name fall back to their ID.
func EmojiName(emoji *discordgo.Emoji) string {
	if emoji == nil {
		return ""
	}
	if emoji.Name != "" {
		return emoji.Name
	}
	return emoji.ID
}

// FilterReactions drops reactions whose emoji name exactly matches one of the
// comma-separated tokens in exclude. An empty exclude keeps everything.
func FilterReactions(reactions []*discordgo.MessageReactions, exclude string) []*discordgo.MessageReactions {
	excluded := splitList(exclude)

	filtered := make([]*discordgo.MessageReactions, 0, len(reactions))
	for _, reaction := range reactions {
		if reaction == nil || reaction.Emoji == nil {
			continue
		}
		if _, skip := excluded[EmojiName(reaction.Emoji)]; skip {
			continue
		}
		filtered = append(filtered, reaction)
	}
	return filtered
}

// UserFilter decides which reactors are left out of a summary
type UserFilter struct {
	excluded map[string]struct{}
}

// NewUserFilter builds a filter from a comma-separated list of user IDs or
// mentions. A non-empty authorID is excluded as well.
func NewUserFilter(excludeUsers, authorID string) UserFilter {
	excluded := make(map[string]struct{})
	for token := range splitList(excludeUsers) {
		excluded[normalizeUserID(token)] = struct{}{}
	}
	if authorID != "" {
		excluded[authorID] = struct{}{}
	}
	return UserFilter{excluded: excluded}
}

// Allows reports whether the user stays in the summary
func (f UserFilter) Allows(userID string) bool {
	_, skip := f.excluded[userID]
	return !skip
}

// normalizeUserID strips mention markup: <@123> and <@!123> become 123
func normalizeUserID(token string) string {
	if strings.HasPrefix(token, "<@") && strings.HasSuffix(token, ">") {
		token = strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
		token = strings.TrimPrefix(token, "!")
	}
	return token
}
