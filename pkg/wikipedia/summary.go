package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Strategy selects the endpoint a summary is fetched from.
type Strategy string

const (
	// StrategyExtract uses the action API's plain-text intro extract, first line only.
	StrategyExtract Strategy = "extract"
	// StrategyREST uses the REST page summary endpoint.
	StrategyREST Strategy = "rest"
	// StrategyRESTRedirect is StrategyREST with the legacy fallback: a 403 is taken to
	// mean the title is a redirect stub, which is resolved and retried.
	StrategyRESTRedirect Strategy = "rest-redirect"
)

// DefaultStrategy is used when none is configured.
const DefaultStrategy = StrategyExtract

// Strategies lists the valid strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyExtract, StrategyREST, StrategyRESTRedirect}
}

// ParseStrategy validates a strategy name. An empty name selects DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultStrategy, nil
	}
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &Error{Kind: KindInput, Op: "strategy", Err: fmt.Errorf("%w: %q", ErrUnknownStrategy, s)}
}

// Summarize fetches the lead extract of t. The returned topic differs from t only when
// StrategyRESTRedirect followed a redirect stub.
func (c *Client) Summarize(ctx context.Context, strategy Strategy, t Topic) (Topic, string, error) {
	switch strategy {
	case StrategyExtract:
		s, err := c.extractSummary(ctx, t)
		return t, s, err
	case StrategyREST:
		s, err := c.restSummary(ctx, t)
		return t, s, err
	case StrategyRESTRedirect:
		return c.restSummaryFollow(ctx, t)
	default:
		return t, "", &Error{Kind: KindInput, Op: "summary", Title: t.Title, Link: t.Link, Err: fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)}
	}
}

type restSummaryResponse struct {
	Extract *string `json:"extract"`
}

// restSummary requests /api/rest_v1/page/summary/{title} and returns extract verbatim.
// API documentation: https://en.wikipedia.org/api/rest_v1/#/Page%20content
func (c *Client) restSummary(ctx context.Context, t Topic) (string, error) {
	u := c.site + "/api/rest_v1/page/summary/" + EscapeTitle(t.Title)

	resp, err := c.get(ctx, "summary", u, acceptJSON)
	if err != nil {
		return "", withTopic(err, t)
	}
	if !isSuccess(resp.StatusCode) {
		kind := KindProtocol
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return "", &Error{Kind: kind, Op: "summary", Title: t.Title, Link: t.Link, Err: newHTTPError("summary", resp)}
	}

	var out restSummaryResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", &Error{Kind: KindProtocol, Op: "summary", Title: t.Title, Link: t.Link, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if out.Extract == nil {
		return "", &Error{Kind: KindProtocol, Op: "summary", Title: t.Title, Link: t.Link, Err: fmt.Errorf("%w: missing extract", ErrMalformedResponse)}
	}
	return *out.Extract, nil
}

// restSummaryFollow retries restSummary through redirect stubs. Only 403 triggers the
// fallback; the loop is bounded by the client's max redirect hops. A stub pointing at a
// special page is resolved or rejected like a title supplied by the caller.
func (c *Client) restSummaryFollow(ctx context.Context, t Topic) (Topic, string, error) {
	for hops := 0; ; hops++ {
		s, err := c.restSummary(ctx, t)
		if err == nil {
			return t, s, nil
		}
		if !isForbidden(err) {
			return t, "", err
		}
		if hops >= c.maxHops {
			return t, "", &Error{
				Kind:  KindProtocol,
				Op:    "summary",
				Title: t.Title,
				Link:  t.Link,
				Err:   fmt.Errorf("%w: gave up after %d hops", ErrTooManyRedirects, hops),
			}
		}

		c.log.Debug("summary forbidden, probing for redirect", zap.String("title", t.Title), zap.Int("hop", hops+1))
		next, err := c.ResolveRedirect(ctx, c.ArticleURL(t.Title))
		if err != nil {
			return t, "", withTopic(err, t)
		}
		if IsSpecial(next.Title) {
			if next, err = c.ResolveSpecial(ctx, next.Title); err != nil {
				return t, "", withTopic(err, t)
			}
		}
		if err := CheckSummarizable(next); err != nil {
			return next, "", err
		}
		t = next
	}
}

func isForbidden(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusForbidden
}

type extractResponse struct {
	Query *struct {
		Pages map[string]extractPage `json:"pages"`
	} `json:"query"`
}

type extractPage struct {
	Title   string  `json:"title"`
	Extract *string `json:"extract"`
	Missing *string `json:"missing"`
	Invalid *string `json:"invalid"`
}

// missingPageID is the page id the action API uses for a title that does not exist.
const missingPageID = "-1"

// extractSummary requests the intro extract in plain text, resolving redirects server
// side, and keeps only the first line.
// API documentation: https://www.mediawiki.org/wiki/Extension:TextExtracts#API
func (c *Client) extractSummary(ctx context.Context, t Topic) (string, error) {
	u := c.apiURL(url.Values{
		"action":      []string{"query"},
		"format":      []string{"json"},
		"prop":        []string{"extracts"},
		"exintro":     []string{"1"},
		"explaintext": []string{"1"},
		"redirects":   []string{"1"},
		"titles":      []string{canonicalTitle(t.Title)},
	})

	resp, err := c.get(ctx, "summary", u, acceptJSON)
	if err != nil {
		return "", withTopic(err, t)
	}
	if !isSuccess(resp.StatusCode) {
		return "", &Error{Kind: KindProtocol, Op: "summary", Title: t.Title, Link: t.Link, Err: newHTTPError("summary", resp)}
	}

	var out extractResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", &Error{Kind: KindProtocol, Op: "summary", Title: t.Title, Link: t.Link, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	notFound := &Error{Kind: KindNotFound, Op: "summary", Title: t.Title, Link: t.Link, Err: ErrPageNotFound}
	if out.Query == nil || len(out.Query.Pages) == 0 {
		return "", notFound
	}
	if _, ok := out.Query.Pages[missingPageID]; ok {
		return "", notFound
	}

	ids := make([]string, 0, len(out.Query.Pages))
	for id := range out.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	page := out.Query.Pages[ids[0]]
	if page.Missing != nil || page.Invalid != nil || page.Extract == nil {
		return "", notFound
	}
	return FirstLine(*page.Extract), nil
}

// FirstLine returns s up to its first line break.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}

// withTopic fills in title and link on an *Error that lacks them.
func withTopic(err error, t Topic) error {
	var we *Error
	if errors.As(err, &we) {
		if we.Title == "" {
			we.Title = t.Title
		}
		if we.Link == "" {
			we.Link = t.Link
		}
	}
	return err
}
