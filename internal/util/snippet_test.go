package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet_PlainTextIsCollapsed(t *testing.T) {
	got := Snippet([]byte("  upstream\n\tfailure  here \n"), 0)
	assert.Equal(t, "upstream failure here", got)
}

func TestSnippet_HTMLKeepsVisibleTextOnly(t *testing.T) {
	body := []byte(`<!DOCTYPE html><html><head><title>Wikimedia Error</title><style>p{}</style></head>
<body><h1>Error</h1><p>Our servers are currently under maintenance.</p><script>var x = 1;</script></body></html>`)

	got := Snippet(body, 0)
	assert.Equal(t, "Error Our servers are currently under maintenance.", got)
}

func TestSnippet_Truncates(t *testing.T) {
	got := Snippet([]byte(strings.Repeat("é", 20)), 5)
	assert.Equal(t, "ééééé...", got)
}

func TestSnippet_Empty(t *testing.T) {
	assert.Equal(t, "", Snippet(nil, 10))
	assert.Equal(t, "", Snippet([]byte(" \n "), 10))
}
