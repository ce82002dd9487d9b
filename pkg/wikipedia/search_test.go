package wikipedia_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inevitable-commit/wikis/pkg/mockwiki"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

func mockPage(title, extract string) mockwiki.Page {
	return mockwiki.Page{Title: title, Extract: extract}
}

func TestSearch_ReturnsAlignedCandidatesInOrder(t *testing.T) {
	c, mock := newMockClient(t)
	mock.AddPage(mockPage("Terraria", "Terraria is a 2011 action-adventure sandbox game."))
	mock.AddPage(mockPage("Terraria (soundtrack)", "The soundtrack of Terraria."))
	mock.AddPage(mockPage("Minecraft", "Minecraft is a sandbox game."))

	res, err := c.Search(context.Background(), "terraria")
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())
	assert.Equal(t, []string{"Terraria", "Terraria (soundtrack)"}, res.Titles)
	assert.Equal(t, c.Site()+"/wiki/Terraria", res.Links[0])
	assert.Equal(t, c.Site()+"/wiki/Terraria_%28soundtrack%29", res.Links[1])
	assert.Equal(t, wikipedia.Topic{Title: "Terraria (soundtrack)", Link: res.Links[1]}, res.Topic(1))
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	c, _ := newMockClient(t)

	res, err := c.Search(context.Background(), "nothing matches this")
	require.NoError(t, err)
	assert.Zero(t, res.Len())
}

func TestSearch_PercentEncodesTopic(t *testing.T) {
	var rawQuery, search string
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		search = r.URL.Query().Get("search")
		_, _ = w.Write([]byte(`["AC/DC & friends",[],[],[]]`))
	})

	_, err := c.Search(context.Background(), "AC/DC & friends")
	require.NoError(t, err)
	assert.Equal(t, "AC/DC & friends", search)
	assert.Contains(t, rawQuery, "search=AC%2FDC+%26+friends")
	assert.Contains(t, rawQuery, "action=opensearch")
	assert.Contains(t, rawQuery, "format=json")
}

func TestSearch_BlankTopicMakesNoRequest(t *testing.T) {
	c, mock := newMockClient(t)

	_, err := c.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, wikipedia.ErrEmptyTopic))
	assert.Equal(t, wikipedia.KindInput, wikipedia.KindOf(err))
	assert.Empty(t, mock.Calls())
}

func TestSearch_MalformedResponses(t *testing.T) {
	cases := map[string]string{
		"object":            `{"batchcomplete":""}`,
		"api error":         `{"error":{"code":"badvalue","info":"Unrecognized value"}}`,
		"too short":         `["x",["A"],[""]]`,
		"length mismatch":   `["x",["A","B"],["",""],["https://x/wiki/A"]]`,
		"titles not string": `["x",[1,2],[],[]]`,
		"not json":          `<html>oops</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.Search(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, wikipedia.ErrMalformedResponse), "%v", err)
			assert.Equal(t, wikipedia.KindProtocol, wikipedia.KindOf(err))
		})
	}
}

func TestSearch_NonSuccessStatus(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html><body><p>Our servers are currently under maintenance.</p></body></html>"))
	})

	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, wikipedia.KindProtocol, wikipedia.KindOf(err))

	var he *wikipedia.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
	assert.Equal(t, "Our servers are currently under maintenance.", he.Snippet)
}
