package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ResolveSpecial turns Special:Random or Special:RandomRootpage into a concrete article
// by reading the redirect the pseudo-page answers with.
func (c *Client) ResolveSpecial(ctx context.Context, title string) (Topic, error) {
	var target string
	switch normalizeTitle(title) {
	case normalizeTitle(RandomArticle):
		target = RandomArticle
	case normalizeTitle(RandomRootPage):
		target = RandomRootPage
	default:
		return Topic{}, &Error{Kind: KindInput, Op: "special", Title: title, Err: ErrNotSpecial}
	}
	return c.ResolveRedirect(ctx, c.ArticleURL(target))
}

// ResolveRedirect requests link and expects a 3xx answer. The Location header becomes
// the resolved link and the path after /wiki/ the resolved title.
func (c *Client) ResolveRedirect(ctx context.Context, link string) (Topic, error) {
	resp, err := c.get(ctx, "redirect", link, acceptHTML)
	if err != nil {
		return Topic{}, err
	}
	if !isRedirect(resp.StatusCode) {
		return Topic{}, &Error{
			Kind: KindProtocol,
			Op:   "redirect",
			Link: link,
			Err:  fmt.Errorf("%w, got %s", ErrExpectedRedirect, resp.Status),
		}
	}

	loc := strings.TrimSpace(resp.Header.Get("Location"))
	if loc == "" {
		return Topic{}, &Error{Kind: KindProtocol, Op: "redirect", Link: link, Err: ErrMissingLocation}
	}

	target, err := resolveLocation(resp.URL, loc)
	if err != nil {
		return Topic{}, &Error{Kind: KindProtocol, Op: "redirect", Link: link, Err: err}
	}
	title, ok := TitleFromLink(target)
	if !ok {
		return Topic{}, &Error{
			Kind: KindProtocol,
			Op:   "redirect",
			Link: target,
			Err:  fmt.Errorf("%w: location is not an article link", ErrMalformedResponse),
		}
	}

	c.log.Debug("redirect resolved", zap.String("from", link), zap.String("title", title), zap.String("link", target))
	return Topic{Title: title, Link: target}, nil
}

// resolveLocation makes a possibly relative Location absolute. Absolute values are
// returned verbatim.
func resolveLocation(requestURL, loc string) (string, error) {
	l, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse location %q: %w", loc, err)
	}
	if l.IsAbs() {
		return loc, nil
	}
	base, err := url.Parse(requestURL)
	if err != nil {
		return "", fmt.Errorf("parse request url: %w", err)
	}
	return base.ResolveReference(l).String(), nil
}

// TitleFromLink returns the decoded path segment after /wiki/ in an article link.
func TitleFromLink(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	_, title, ok := strings.Cut(u.Path, "/wiki/")
	if !ok || title == "" {
		return "", false
	}
	return title, true
}
