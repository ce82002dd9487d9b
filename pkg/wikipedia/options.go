package wikipedia

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for the Wikipedia client.
type Option func(*Client)

// WithLanguage selects the Wikipedia edition, e.g. "en" or "zh-yue".
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.lang = lang
	}
}

// WithBaseURL replaces https://<lang>.wikipedia.org, for mirrors and tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client. Its redirect policy is always
// overridden: redirects are returned to the caller, never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent overrides the identifying user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds each request. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps requests per second; <= 0 disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.rateLimitRPS = rps
	}
}

// WithMaxRedirectHops bounds the legacy redirect fallback of StrategyRESTRedirect.
func WithMaxRedirectHops(n int) Option {
	return func(c *Client) {
		c.maxHops = n
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}
