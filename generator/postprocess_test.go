package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanContentPassesHTMLThrough(t *testing.T) {
	got, err := CleanContent("<div><b>犬</b> dog</div>")
	require.NoError(t, err)
	assert.Equal(t, "<div><b>犬</b> dog</div>", got)
}

func TestCleanContentStripsFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html fence", "```html\n<p>hi</p>\n```", "<p>hi</p>"},
		{"bare fence", "```\n<p>hi</p>\n```", "<p>hi</p>"},
		{"no fence", "<p>hi</p>", "<p>hi</p>"},
		{"surrounding whitespace", "  \n```html\n<p>hi</p>\n```\n ", "<p>hi</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanContent(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanContentRendersMarkdown(t *testing.T) {
	got, err := CleanContent("**dog** (noun)\n\n- a loyal animal")
	require.NoError(t, err)
	assert.Contains(t, got, "<strong>dog</strong>")
	assert.Contains(t, got, "<li>a loyal animal</li>")
}

func TestCleanContentEmpty(t *testing.T) {
	_, err := CleanContent("   \n ")
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindBadResponse, perr.Kind)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&Error{Kind: KindRateLimit}))
	assert.True(t, Retryable(&Error{Kind: KindTimeout}))
	assert.True(t, Retryable(&Error{Kind: KindNetwork}))
	assert.False(t, Retryable(&Error{Kind: KindAuth}))
	assert.False(t, Retryable(&Error{Kind: KindBadResponse}))
	assert.False(t, Retryable(errors.New("plain")))
}
