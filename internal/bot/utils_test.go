package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "***", maskSecret(""))
	assert.Equal(t, "***", maskSecret("short"))
	assert.Equal(t, "abcd***wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}

func TestTruncateMessage(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, truncateMessage(short))

	long := strings.Repeat("a", 2500)
	got := truncateMessage(long)
	assert.Equal(t, 2000, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	block := "📝 <x>\n\n```\n" + strings.Repeat("👍: <@1>\n", 400) + "\n```"
	got = truncateMessage(block)
	assert.Equal(t, 2000, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "\n...\n```"))
	assert.True(t, utf8.ValidString(got))
}
