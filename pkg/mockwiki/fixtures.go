package mockwiki

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixtures describes the content of a mock edition.
//
// Example (YAML):
//
//	pages:
//	  - title: Albert Einstein
//	    description: German-born theoretical physicist
//	    extract: |
//	      Albert Einstein was a German-born theoretical physicist.
//	      He is best known for developing the theory of relativity.
//	redirects:
//	  Einstein: Albert Einstein
//	forbidden: [Einstein]
//	random: Albert Einstein
//	random_root: Albert Einstein
type Fixtures struct {
	Pages      []Page            `yaml:"pages"`
	Redirects  map[string]string `yaml:"redirects"`
	Forbidden  []string          `yaml:"forbidden"`
	Random     string            `yaml:"random"`
	RandomRoot string            `yaml:"random_root"`
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (Fixtures, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Fixtures{}, fmt.Errorf("fixture path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures YAML: %w", err)
	}
	for i, p := range f.Pages {
		if strings.TrimSpace(p.Title) == "" {
			return Fixtures{}, fmt.Errorf("page %d: title is required", i)
		}
	}
	return f, nil
}

// Load adds the fixture content to the server.
func (s *Server) Load(f Fixtures) {
	for _, p := range f.Pages {
		s.AddPage(p)
	}
	for from, to := range f.Redirects {
		s.AddRedirect(from, to)
	}
	for _, t := range f.Forbidden {
		s.Forbid(t)
	}
	if f.Random != "" {
		s.SetRandom(f.Random)
	}
	if f.RandomRoot != "" {
		s.SetRandomRoot(f.RandomRoot)
	}
}
