package mockwiki

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Call records a request made to the mock service.
type Call struct {
	Method string
	Path   string
	Query  url.Values
}

// Page is one article served by the mock.
type Page struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Extract     string `yaml:"extract"`
}

// Server implements the slice of a Wikipedia edition that wikis talks to:
// opensearch, query extracts, REST page summaries and /wiki/ redirects.
type Server struct {
	mu    sync.Mutex
	calls []Call

	pages map[string]Page
	// order is insertion order; it doubles as search ranking and page ids.
	order []string

	redirects  map[string]string
	forbidden  map[string]bool
	random     string
	randomRoot string
}

// New constructs an empty mock server.
func New() *Server {
	return &Server{
		pages:     make(map[string]Page),
		redirects: make(map[string]string),
		forbidden: make(map[string]bool),
	}
}

// AddPage adds or replaces an article.
func (s *Server) AddPage(p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := canonical(p.Title)
	if _, ok := s.pages[key]; !ok {
		s.order = append(s.order, key)
	}
	s.pages[key] = p
}

// AddRedirect makes /wiki/{from} answer with a 301 to {to}.
func (s *Server) AddRedirect(from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirects[canonical(from)] = to
}

// Forbid makes the REST summary endpoint answer 403 for title.
func (s *Server) Forbid(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forbidden[canonical(title)] = true
}

// SetRandom sets the target of Special:Random.
func (s *Server) SetRandom(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.random = title
}

// SetRandomRoot sets the target of Special:RandomRootpage.
func (s *Server) SetRandomRoot(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.randomRoot = title
}

// Handler returns an http.Handler that serves the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", s.handleAPI)
	mux.HandleFunc("/api/rest_v1/page/summary/", s.handleRESTSummary)
	mux.HandleFunc("/wiki/", s.handleWiki)
	return mux
}

// Calls returns a snapshot of calls made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CountPrefix returns how many recorded calls have a path starting with prefix.
func (s *Server) CountPrefix(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()})
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	switch q.Get("action") {
	case "opensearch":
		s.handleOpenSearch(w, r, q.Get("search"))
	case "query":
		if q.Get("prop") != "extracts" {
			writeAPIError(w, "badvalue", "Unrecognized value for parameter \"prop\".")
			return
		}
		s.handleExtracts(w, q.Get("titles"), q.Get("redirects") != "")
	default:
		writeAPIError(w, "badvalue", fmt.Sprintf("Unrecognized value for parameter \"action\": %s.", q.Get("action")))
	}
}

func (s *Server) handleOpenSearch(w http.ResponseWriter, r *http.Request, search string) {
	needle := strings.ToLower(strings.TrimSpace(search))

	s.mu.Lock()
	titles := []string{}
	descs := []string{}
	links := []string{}
	for _, key := range s.order {
		p := s.pages[key]
		if needle == "" || !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		titles = append(titles, p.Title)
		descs = append(descs, p.Description)
		links = append(links, articleLink(r, p.Title))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, []any{search, titles, descs, links})
}

func (s *Server) handleExtracts(w http.ResponseWriter, title string, followRedirects bool) {
	s.mu.Lock()
	key := canonical(title)
	if followRedirects {
		if to, ok := s.redirects[key]; ok {
			key = canonical(to)
		}
	}
	p, ok := s.pages[key]
	id := s.pageID(key)
	s.mu.Unlock()

	pages := map[string]any{}
	if !ok {
		pages["-1"] = map[string]any{"ns": 0, "title": title, "missing": ""}
	} else {
		pages[strconv.Itoa(id)] = map[string]any{"pageid": id, "ns": 0, "title": p.Title, "extract": p.Extract}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"batchcomplete": "",
		"query":         map[string]any{"pages": pages},
	})
}

func (s *Server) handleRESTSummary(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)

	// The escaped path keeps %2F inside titles.
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/api/rest_v1/page/summary/")
	title, err := url.PathUnescape(raw)
	if err != nil || title == "" {
		writeProblem(w, http.StatusBadRequest, "bad_request", "Invalid title.")
		return
	}

	s.mu.Lock()
	key := canonical(title)
	forbidden := s.forbidden[key]
	if to, ok := s.redirects[key]; ok && !forbidden {
		key = canonical(to)
	}
	p, ok := s.pages[key]
	s.mu.Unlock()

	switch {
	case forbidden:
		writeProblem(w, http.StatusForbidden, "forbidden", "Access to this title is restricted.")
	case !ok:
		writeProblem(w, http.StatusNotFound, "not_found", "Page or revision not found.")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"type":        "standard",
			"title":       p.Title,
			"description": p.Description,
			"extract":     p.Extract,
		})
	}
}

func (s *Server) handleWiki(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)

	title := strings.TrimPrefix(r.URL.Path, "/wiki/")
	key := canonical(title)

	s.mu.Lock()
	var target string
	status := http.StatusMovedPermanently
	switch strings.ToLower(key) {
	case "special:random":
		target, status = s.random, http.StatusFound
	case "special:randomrootpage":
		target, status = s.randomRoot, http.StatusFound
	default:
		target = s.redirects[key]
	}
	_, exists := s.pages[key]
	s.mu.Unlock()

	if target != "" {
		w.Header().Set("Location", articleLink(r, target))
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, "<html><body><p>Wikipedia does not have an article with this exact name.</p></body></html>")
		return
	}
	_, _ = fmt.Fprintf(w, "<html><body><h1>%s</h1></body></html>", title)
}

// pageID must be called with s.mu held.
func (s *Server) pageID(key string) int {
	for i, k := range s.order {
		if k == key {
			return i + 1
		}
	}
	return 0
}

func canonical(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

func articleLink(r *http.Request, title string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	parts := strings.Split(canonical(title), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return scheme + "://" + r.Host + "/wiki/" + strings.Join(parts, "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code, info string) {
	// The action API reports errors with status 200.
	writeJSON(w, http.StatusOK, map[string]any{
		"error": map[string]string{"code": code, "info": info},
	})
}

func writeProblem(w http.ResponseWriter, status int, name, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"type":   "https://mediawiki.org/wiki/HyperSwitch/errors/" + name,
		"title":  http.StatusText(status),
		"method": "get",
		"detail": detail,
	})
}

// Titles returns the titles of all pages, sorted.
func (s *Server) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p.Title)
	}
	sort.Strings(out)
	return out
}
