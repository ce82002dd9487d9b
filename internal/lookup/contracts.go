package lookup

import (
	"context"

	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// Wiki is the part of *wikipedia.Client the pipeline drives.
type Wiki interface {
	Search(ctx context.Context, topic string) (wikipedia.SearchResult, error)
	ResolveSpecial(ctx context.Context, title string) (wikipedia.Topic, error)
	Summarize(ctx context.Context, strategy wikipedia.Strategy, t wikipedia.Topic) (wikipedia.Topic, string, error)
	ArticleURL(title string) string
}

// TopicSource supplies the free-text query.
type TopicSource interface {
	Topic(ctx context.Context) (string, error)
}

// Selector picks one of several candidate titles and returns its zero-based index.
type Selector interface {
	Select(ctx context.Context, titles []string) (int, error)
}

// SelectFunc adapts a function to the Selector interface.
type SelectFunc func(ctx context.Context, titles []string) (int, error)

func (f SelectFunc) Select(ctx context.Context, titles []string) (int, error) {
	return f(ctx, titles)
}

// Sink presents the final result.
type Sink interface {
	Emit(ctx context.Context, r Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, r Result) error

func (f SinkFunc) Emit(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// Result is what a lookup produces. An empty Link or Summary was suppressed.
type Result struct {
	Title   string
	Link    string
	Summary string
}
