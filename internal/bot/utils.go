package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/keepmind9/rinfobot/pkg/constants"
)

const (
	truncationMarker = "..."
	codeFence        = "```"
)

// maskSecret masks sensitive information for logging
func maskSecret(s string) string {
	if len(s) <= constants.MinSecretLengthForMasking {
		return "***"
	}
	return s[:constants.SecretMaskPrefixLength] + "***" + s[len(s)-constants.SecretMaskSuffixLength:]
}

// truncateMessage cuts content to Discord's character limit, keeping the
// head of the message and closing a trailing code block.
func truncateMessage(content string) string {
	limit := constants.MaxDiscordMessageLength
	if utf8.RuneCountInString(content) <= limit {
		return content
	}

	suffix := truncationMarker
	if strings.HasSuffix(content, codeFence) {
		suffix = "\n" + truncationMarker + "\n" + codeFence
	}

	runes := []rune(content)
	return string(runes[:limit-utf8.RuneCountInString(suffix)]) + suffix
}
