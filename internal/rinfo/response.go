package rinfo

import "github.com/bwmarrin/discordgo"

// ErrorPrefix is prepended to every error reply
const ErrorPrefix = "Error: "

// MessageResponse builds an immediate channel-message reply
func MessageResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			TTS:     false,
		},
	}
}

// EphemeralMessageResponse builds a reply only the invoking user can see
func EphemeralMessageResponse(content string) *discordgo.InteractionResponse {
	resp := MessageResponse(content)
	resp.Data.Flags = discordgo.MessageFlagsEphemeral
	return resp
}

// ErrorResponse builds an immediate reply carrying an error message
func ErrorResponse(message string) *discordgo.InteractionResponse {
	return MessageResponse(ErrorPrefix + message)
}
