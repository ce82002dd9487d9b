package wikipedia

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inevitable-commit/wikis/internal/util"
)

// apiErrorEnvelope covers both error shapes Wikipedia returns: the action API's
// {"error": {"code", "info"}} and the REST API's problem document.
type apiErrorEnvelope struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`

	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// HTTPError is a summary of a non-2xx (or unexpected) Wikipedia response.
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
	URL        string
	Code       string
	Info       string

	// Snippet is a sanitized, truncated hint used when the body is not an error envelope.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "wikipedia http error"
	}
	parts := []string{
		fmt.Sprintf("wikipedia api error: op=%s status=%s", strings.TrimSpace(e.Op), strings.TrimSpace(e.Status)),
	}
	if strings.TrimSpace(e.Code) != "" {
		parts = append(parts, "code="+strings.TrimSpace(e.Code))
	}
	if strings.TrimSpace(e.Info) != "" {
		parts = append(parts, fmt.Sprintf("info=%q", strings.TrimSpace(e.Info)))
	}
	if strings.TrimSpace(e.Snippet) != "" {
		parts = append(parts, "body="+strings.TrimSpace(e.Snippet))
	}
	return strings.Join(parts, " ")
}

func newHTTPError(op string, resp *response) *HTTPError {
	h := &HTTPError{Op: op}
	if resp == nil {
		return h
	}
	h.StatusCode = resp.StatusCode
	h.Status = resp.Status
	h.URL = resp.URL

	if code, info, ok := parseAPIError(resp.Body); ok {
		h.Code = code
		h.Info = info
		return h
	}

	h.Snippet = util.Snippet(resp.Body, util.DefaultSnippetLen)
	return h
}

// parseAPIError extracts code and info from either error envelope. Best effort.
func parseAPIError(body []byte) (code, info string, ok bool) {
	var env apiErrorEnvelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return "", "", false
	}
	if env.Error != nil {
		code = strings.TrimSpace(env.Error.Code)
		info = strings.TrimSpace(env.Error.Info)
		return code, info, code != "" || info != ""
	}
	if env.Type == "" && env.Title == "" && env.Detail == "" {
		return "", "", false
	}
	// REST problem types are URLs ending in the error name, e.g. ".../errors/not_found".
	code = strings.TrimSpace(env.Type)
	if i := strings.LastIndex(code, "/"); i >= 0 {
		code = code[i+1:]
	}
	info = strings.TrimSpace(env.Detail)
	if info == "" {
		info = strings.TrimSpace(env.Title)
	}
	return code, info, true
}
