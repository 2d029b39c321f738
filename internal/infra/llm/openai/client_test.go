package openai

import (
	"strings"
	"testing"

	"github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/require"
)

func TestTruncateTokens(t *testing.T) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	require.NoError(t, err)

	short := "how do I register to vote"
	require.Equal(t, short, truncateTokens(enc, short, 100))

	long := strings.Repeat("voter registration deadline ", 200)
	truncated := truncateTokens(enc, long, 10)
	require.NotEqual(t, long, truncated)
	require.LessOrEqual(t, len(enc.Encode(truncated, nil, nil)), 10)
}
