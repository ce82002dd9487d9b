package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// ErrNoMatch is returned when a search yields no candidates.
var ErrNoMatch = errors.New("nothing found")

// ErrIndexOutOfRange is returned for a selection outside the candidate list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Mode decides where the topic comes from.
type Mode int

const (
	// ModeSearch searches for the query and disambiguates among the hits.
	ModeSearch Mode = iota
	// ModeExact takes the query as an article title without searching.
	ModeExact
	// ModeRandom looks up Special:Random.
	ModeRandom
	// ModeRandomRoot looks up Special:RandomRootpage.
	ModeRandomRoot
)

// Options controls one lookup.
type Options struct {
	Mode Mode
	// Strategy defaults to wikipedia.DefaultStrategy.
	Strategy wikipedia.Strategy

	// NoLink drops the link from the result.
	NoLink bool
	// NoSummary skips the summary request entirely.
	NoSummary bool
}

// Runner wires the pipeline stages together. Source and Selector may be nil
// when the mode never needs them.
type Runner struct {
	Wiki     Wiki
	Source   TopicSource
	Selector Selector
	Sink     Sink
	Logger   *zap.Logger
}

// Run resolves one topic to one result and hands it to the sink.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if r.Wiki == nil || r.Sink == nil {
		return Result{}, fmt.Errorf("lookup: wiki and sink are required")
	}

	if opts.Strategy == "" {
		opts.Strategy = wikipedia.DefaultStrategy
	}

	topic, err := r.resolveTopic(ctx, opts, log)
	if err != nil {
		return Result{}, err
	}

	if wikipedia.IsSpecial(topic.Title) {
		log.Debug("resolving special page", zap.String("title", topic.Title))
		topic, err = r.Wiki.ResolveSpecial(ctx, topic.Title)
		if err != nil {
			return Result{}, err
		}
	}

	var summary string
	if !opts.NoSummary {
		if err := wikipedia.CheckSummarizable(topic); err != nil {
			return Result{}, err
		}
		log.Debug("fetching summary", zap.String("title", topic.Title), zap.String("strategy", string(opts.Strategy)))
		topic, summary, err = r.Wiki.Summarize(ctx, opts.Strategy, topic)
		if err != nil {
			return Result{}, err
		}
	}

	res := Result{Title: topic.Title, Link: topic.Link, Summary: summary}
	if opts.NoLink {
		res.Link = ""
	}
	if err := r.Sink.Emit(ctx, res); err != nil {
		return Result{}, fmt.Errorf("output: %w", err)
	}
	return res, nil
}

func (r *Runner) resolveTopic(ctx context.Context, opts Options, log *zap.Logger) (wikipedia.Topic, error) {
	switch opts.Mode {
	case ModeRandom:
		return r.special(wikipedia.RandomArticle), nil
	case ModeRandomRoot:
		return r.special(wikipedia.RandomRootPage), nil
	case ModeSearch, ModeExact:
	default:
		return wikipedia.Topic{}, fmt.Errorf("lookup: unknown mode %d", opts.Mode)
	}

	if r.Source == nil {
		return wikipedia.Topic{}, fmt.Errorf("lookup: topic source is required")
	}
	query, err := r.Source.Topic(ctx)
	if err != nil {
		return wikipedia.Topic{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return wikipedia.Topic{}, &wikipedia.Error{Kind: wikipedia.KindInput, Op: "topic", Err: wikipedia.ErrEmptyTopic}
	}

	if opts.Mode == ModeExact {
		return wikipedia.Topic{Title: query, Link: r.Wiki.ArticleURL(query)}, nil
	}

	log.Debug("searching", zap.String("query", query))
	res, err := r.Wiki.Search(ctx, query)
	if err != nil {
		return wikipedia.Topic{}, err
	}
	idx, err := r.disambiguate(ctx, query, res.Titles)
	if err != nil {
		return wikipedia.Topic{}, err
	}
	log.Debug("selected", zap.Int("index", idx), zap.Int("candidates", res.Len()))
	return res.Topic(idx), nil
}

func (r *Runner) disambiguate(ctx context.Context, query string, titles []string) (int, error) {
	switch len(titles) {
	case 0:
		return 0, &wikipedia.Error{Kind: wikipedia.KindNotFound, Op: "search", Title: query, Err: ErrNoMatch}
	case 1:
		return 0, nil
	}
	if r.Selector == nil {
		return 0, fmt.Errorf("lookup: selector is required for %d candidates", len(titles))
	}
	idx, err := r.Selector.Select(ctx, titles)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(titles) {
		return 0, &wikipedia.Error{
			Kind: wikipedia.KindInput,
			Op:   "select",
			Err:  fmt.Errorf("%w: %d not in 1..%d", ErrIndexOutOfRange, idx+1, len(titles)),
		}
	}
	return idx, nil
}

func (r *Runner) special(title string) wikipedia.Topic {
	return wikipedia.Topic{Title: title, Link: r.Wiki.ArticleURL(title)}
}
