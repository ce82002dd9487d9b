package wikipedia

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies failures so the caller can pick a message and exit status.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindInput covers bad language codes, out of range choices and denylisted pages.
	KindInput
	// KindTransport covers DNS, connection and TLS failures. Never retried.
	KindTransport
	// KindProtocol covers responses that do not match the expected shape.
	KindProtocol
	// KindNotFound covers empty searches and missing pages.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

var (
	ErrUnsupportedLanguage = errors.New("unsupported language code")
	ErrEmptyTopic          = errors.New("topic is required")
	ErrUnknownStrategy     = errors.New("unknown summary strategy")
	ErrMalformedResponse   = errors.New("malformed API response")
	ErrExpectedRedirect    = errors.New("expected a redirection")
	ErrMissingLocation     = errors.New("redirection without a Location header")
	ErrTooManyRedirects    = errors.New("too many redirects")
	ErrPageNotFound        = errors.New("no summary found")
	ErrNotSpecial          = errors.New("not a resolvable special page")
	ErrQuirkyPage          = errors.New("special page cannot be summarized, open the link in a browser instead")
)

// Error carries the kind of a failure along with the title and link it concerns,
// so diagnostics let the user investigate manually.
type Error struct {
	Kind  ErrorKind
	Op    string
	Title string
	Link  string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "wikipedia error"
	}
	var parts []string
	msg := "wikipedia error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	parts = append(parts, msg)
	if e.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", e.Title))
	}
	if e.Link != "" {
		parts = append(parts, "link="+e.Link)
	}
	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain.
// An unwrapped *HTTPError is classified by status code.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var we *Error
	if errors.As(err, &we) && we.Kind != KindUnknown {
		return we.Kind
	}
	var he *HTTPError
	if errors.As(err, &he) {
		if he.StatusCode == http.StatusNotFound {
			return KindNotFound
		}
		return KindProtocol
	}
	return KindUnknown
}
