package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeepLink(t *testing.T) {
	got := NewDeepLink("abc123", "my phone", "holder")
	assert.Equal(t, "sim://oob/abc123?alias=holder&label=my+phone", got)
}

func TestParseDeepLink(t *testing.T) {
	id, err := ParseDeepLink("sim://oob/abc123?alias=holder&label=my+phone")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestParseDeepLinkRoundTrip(t *testing.T) {
	link := NewDeepLink("f00dfeed18c2a9b3", "holder", "holder")
	id, err := ParseDeepLink(link)
	require.NoError(t, err)
	assert.Equal(t, "f00dfeed18c2a9b3", id)
}

func TestParseDeepLinkErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"sim://oob/",
		"sim://oob/?label=x",
		"https://example.com/oob/abc123",
		"oob/abc123",
	} {
		_, err := ParseDeepLink(raw)
		assert.ErrorIs(t, err, ErrMalformedURL, "input %q", raw)
	}
}
