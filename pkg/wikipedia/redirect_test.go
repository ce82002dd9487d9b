package wikipedia_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

func TestResolveRedirect_AbsoluteLocation(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://en.wikipedia.org/wiki/Albert_Einstein")
		w.WriteHeader(http.StatusFound)
	})

	got, err := c.ResolveRedirect(context.Background(), c.ArticleURL(wikipedia.RandomArticle))
	require.NoError(t, err)
	assert.Equal(t, "Albert_Einstein", got.Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Albert_Einstein", got.Link)
}

func TestResolveRedirect_RelativeLocation(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/wiki/Caf%C3%A9")
		w.WriteHeader(http.StatusMovedPermanently)
	})

	got, err := c.ResolveRedirect(context.Background(), c.ArticleURL("Cafe"))
	require.NoError(t, err)
	assert.Equal(t, "Café", got.Title)
	assert.Equal(t, c.Site()+"/wiki/Caf%C3%A9", got.Link)
}

func TestResolveRedirect_RequiresRedirectStatus(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})

	link := c.ArticleURL("Foo")
	_, err := c.ResolveRedirect(context.Background(), link)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wikipedia.ErrExpectedRedirect))
	assert.Equal(t, wikipedia.KindProtocol, wikipedia.KindOf(err))
	assert.Contains(t, err.Error(), link)
}

func TestResolveRedirect_RequiresLocation(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	_, err := c.ResolveRedirect(context.Background(), c.ArticleURL("Foo"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wikipedia.ErrMissingLocation))
}

func TestResolveRedirect_LocationMustBeArticle(t *testing.T) {
	c := newHandlerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://en.wikipedia.org/w/index.php?title=Foo")
		w.WriteHeader(http.StatusFound)
	})

	_, err := c.ResolveRedirect(context.Background(), c.ArticleURL("Foo"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wikipedia.ErrMalformedResponse))
	assert.Equal(t, wikipedia.KindProtocol, wikipedia.KindOf(err))
}

func TestResolveSpecial(t *testing.T) {
	c, mock := newMockClient(t)
	mock.SetRandom("Albert Einstein")
	mock.SetRandomRoot("Main Page")

	got, err := c.ResolveSpecial(context.Background(), "special:random")
	require.NoError(t, err)
	assert.Equal(t, wikipedia.Topic{Title: "Albert_Einstein", Link: c.Site() + "/wiki/Albert_Einstein"}, got)

	got, err = c.ResolveSpecial(context.Background(), wikipedia.RandomRootPage)
	require.NoError(t, err)
	assert.Equal(t, "Main_Page", got.Title)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/wiki/Special:Random", calls[0].Path)
	assert.Equal(t, "/wiki/Special:RandomRootpage", calls[1].Path)
}

func TestResolveSpecial_RejectsOtherTitles(t *testing.T) {
	c, mock := newMockClient(t)

	_, err := c.ResolveSpecial(context.Background(), "Special:AllPages")
	require.Error(t, err)
	assert.True(t, errors.Is(err, wikipedia.ErrNotSpecial))
	assert.Equal(t, wikipedia.KindInput, wikipedia.KindOf(err))
	assert.Empty(t, mock.Calls())
}

func TestTitleFromLink(t *testing.T) {
	cases := map[string]string{
		"https://en.wikipedia.org/wiki/Albert_Einstein": "Albert_Einstein",
		"https://en.wikipedia.org/wiki/AC/DC":           "AC/DC",
		"https://de.wikipedia.org/wiki/Stra%C3%9Fe":     "Straße",
	}
	for link, want := range cases {
		got, ok := wikipedia.TitleFromLink(link)
		assert.True(t, ok, link)
		assert.Equal(t, want, got, link)
	}

	for _, link := range []string{"https://en.wikipedia.org/", "https://en.wikipedia.org/wiki/", "::"} {
		_, ok := wikipedia.TitleFromLink(link)
		assert.False(t, ok, link)
	}
}
