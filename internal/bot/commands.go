package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/rinfobot/internal/rinfo"
)

// Registered command names
const (
	CommandRinfo        = "rinfo"
	CommandReactionInfo = "Reaction Info"
)

// Commands returns the application command schema registered at startup
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandRinfo,
			Type:        discordgo.ChatApplicationCommand,
			Description: "Get reaction information for a message",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        rinfo.OptionMessage,
					Description: "Message URL or ID",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        rinfo.OptionExcludeUser,
					Description: "Users to exclude from the results",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        rinfo.OptionExcludeReaction,
					Description: "Reactions to exclude from the results",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        rinfo.OptionIncludeMessageUser,
					Description: "Include the message author in the results",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        rinfo.OptionUserOnly,
					Description: "Only show users, not grouped by reaction",
				},
			},
		},
		{
			// Context-menu commands must not carry a description
			Name: CommandReactionInfo,
			Type: discordgo.MessageApplicationCommand,
		},
	}
}
