package wikipedia_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inevitable-commit/wikis/pkg/mockwiki"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

func newMockClient(t *testing.T, opts ...wikipedia.Option) (*wikipedia.Client, *mockwiki.Server) {
	t.Helper()

	mock := mockwiki.New()
	ts := httptest.NewServer(mock.Handler())
	t.Cleanup(ts.Close)

	c, err := wikipedia.NewClient(append([]wikipedia.Option{wikipedia.WithBaseURL(ts.URL)}, opts...)...)
	require.NoError(t, err)
	return c, mock
}

func newHandlerClient(t *testing.T, h http.HandlerFunc, opts ...wikipedia.Option) *wikipedia.Client {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := wikipedia.NewClient(append([]wikipedia.Option{wikipedia.WithBaseURL(ts.URL)}, opts...)...)
	require.NoError(t, err)
	return c
}
