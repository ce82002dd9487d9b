package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// SearchResult holds the candidates of an opensearch query. Titles and Links are
// index aligned and keep the relevance order of the endpoint.
type SearchResult struct {
	Titles []string
	Links  []string
}

// Len returns the number of candidates.
func (r SearchResult) Len() int {
	return len(r.Titles)
}

// Topic returns the i-th candidate.
func (r SearchResult) Topic(i int) Topic {
	return Topic{Title: r.Titles[i], Link: r.Links[i]}
}

// Search queries the edition's opensearch endpoint.
//
// An empty result is not an error; the caller decides how to report "no match".
// API documentation: https://www.mediawiki.org/wiki/API:Opensearch
func (c *Client) Search(ctx context.Context, topic string) (SearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return SearchResult{}, &Error{Kind: KindInput, Op: "search", Err: ErrEmptyTopic}
	}

	u := c.apiURL(url.Values{
		"action": []string{"opensearch"},
		"format": []string{"json"},
		"search": []string{topic},
	})

	resp, err := c.get(ctx, "search", u, acceptJSON)
	if err != nil {
		return SearchResult{}, err
	}
	if !isSuccess(resp.StatusCode) {
		return SearchResult{}, &Error{Kind: KindProtocol, Op: "search", Title: topic, Link: u, Err: newHTTPError("search", resp)}
	}

	res, err := parseOpenSearch(resp.Body)
	if err != nil {
		return SearchResult{}, &Error{Kind: KindProtocol, Op: "search", Title: topic, Link: u, Err: err}
	}
	return res, nil
}

// parseOpenSearch decodes [query, titles[], descriptions[], links[]].
func parseOpenSearch(body []byte) (SearchResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		// The action API reports errors as an object even for opensearch.
		if code, info, ok := parseAPIError(body); ok {
			return SearchResult{}, fmt.Errorf("%w: %s (code: %s)", ErrMalformedResponse, info, code)
		}
		return SearchResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(raw) < 4 {
		return SearchResult{}, fmt.Errorf("%w: expected 4 elements, got %d", ErrMalformedResponse, len(raw))
	}

	var res SearchResult
	if err := json.Unmarshal(raw[1], &res.Titles); err != nil {
		return SearchResult{}, fmt.Errorf("%w: titles: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(raw[3], &res.Links); err != nil {
		return SearchResult{}, fmt.Errorf("%w: links: %v", ErrMalformedResponse, err)
	}
	if len(res.Titles) != len(res.Links) {
		return SearchResult{}, fmt.Errorf("%w: %d titles but %d links", ErrMalformedResponse, len(res.Titles), len(res.Links))
	}
	return res, nil
}
