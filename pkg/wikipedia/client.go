package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/inevitable-commit/wikis/internal/version"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRedirectHops bounds the legacy 403 redirect fallback.
	DefaultMaxRedirectHops = 5

	maxBodyBytes = 8 << 20

	acceptJSON = "application/json"
	acceptHTML = "text/html"
)

// Client talks to one Wikipedia edition. It is created once per run and reused
// for every request so connections are kept alive.
type Client struct {
	lang         string
	baseURL      string
	userAgent    string
	timeout      time.Duration
	rateLimitRPS float64
	maxHops      int

	site    string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// Topic names one concrete article.
type Topic struct {
	Title string
	Link  string
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	// URL is the request URL, used to resolve relative Location headers.
	URL string
}

// NewClient constructs a client for the configured edition.
//
// The language is validated before anything else, so an unsupported code never
// leads to a network call.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		lang:      DefaultLanguage,
		userAgent: version.UserAgent(),
		timeout:   DefaultTimeout,
		maxHops:   DefaultMaxRedirectHops,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.lang = strings.TrimSpace(c.lang)
	if err := ValidateLanguage(c.lang); err != nil {
		return nil, err
	}

	site, err := siteURL(c.lang, c.baseURL)
	if err != nil {
		return nil, err
	}
	c.site = site

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxHops <= 0 {
		c.maxHops = DefaultMaxRedirectHops
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.rateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rateLimitRPS), 1)
	}

	if c.http == nil {
		c.http = newHTTPClient(c.timeout)
	} else {
		hc := *c.http
		hc.CheckRedirect = noRedirect
		c.http = &hc
	}
	return c, nil
}

// Language returns the edition code this client talks to.
func (c *Client) Language() string {
	return c.lang
}

// Site returns the edition's base URL without a trailing slash.
func (c *Client) Site() string {
	return c.site
}

func siteURL(lang, baseURL string) (string, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return fmt.Sprintf("https://%s.wikipedia.org", lang), nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &Error{Kind: KindInput, Op: "config", Err: fmt.Errorf("parse base URL: %w", err)}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &Error{Kind: KindInput, Op: "config", Err: fmt.Errorf("base URL must include a host (got %q)", baseURL)}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	// The transport negotiates gzip and decompresses transparently.
	tr.DisableCompression = false
	return &http.Client{
		Transport:     tr,
		Timeout:       timeout,
		CheckRedirect: noRedirect,
	}
}

// noRedirect hands 3xx responses back to the caller: special pages and redirect
// stubs are resolved by reading their Location header.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// get performs one blocking GET. Transport failures are returned as KindTransport
// errors; the status code is left for the caller to interpret.
func (c *Client) get(ctx context.Context, op, rawURL, accept string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Link: rawURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindInput, Op: op, Link: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("op", op), zap.String("url", rawURL), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Op: op, Link: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Link: rawURL, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.log.Debug("request",
		zap.String("op", op),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       b,
		URL:        rawURL,
	}, nil
}

// apiURL builds an action API request URL. Every value is percent-encoded.
func (c *Client) apiURL(q url.Values) string {
	return c.site + "/w/api.php?" + q.Encode()
}

// ArticleURL returns the canonical /wiki/ link for a title.
func (c *Client) ArticleURL(title string) string {
	return c.site + "/wiki/" + escapeArticlePath(title)
}

// EscapeTitle percent-encodes a title as a single path segment. Unlike an article
// path, "/" is encoded too, since REST endpoints would read it as a separator.
func EscapeTitle(title string) string {
	return url.PathEscape(canonicalTitle(title))
}

// escapeArticlePath preserves "/" separators (subpages) while escaping each segment.
func escapeArticlePath(title string) string {
	parts := strings.Split(canonicalTitle(title), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// canonicalTitle applies MediaWiki's space/underscore equivalence.
func canonicalTitle(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

func isSuccess(status int) bool {
	return status/100 == 2
}

func isRedirect(status int) bool {
	return status/100 == 3
}
