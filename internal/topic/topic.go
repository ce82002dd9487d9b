package topic

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/inevitable-commit/wikis/internal/lookup"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// Args joins command-line words into one query.
type Args []string

func (a Args) Topic(context.Context) (string, error) {
	q := strings.TrimSpace(strings.Join(a, " "))
	if q == "" {
		return "", &wikipedia.Error{Kind: wikipedia.KindInput, Op: "topic", Err: wikipedia.ErrEmptyTopic}
	}
	return q, nil
}

// Stdin reads the query as one line. Prompt, when set, is written to Out first.
//
// In is shared with the terminal selector, so only one line is consumed.
type Stdin struct {
	In     *bufio.Reader
	Out    io.Writer
	Prompt bool
}

// PromptText is shown before reading an interactive query.
const PromptText = "Enter query: "

func (s Stdin) Topic(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Prompt && s.Out != nil {
		_, _ = io.WriteString(s.Out, PromptText)
	}
	line, err := s.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read query: %w", err)
	}
	q := strings.TrimSpace(line)
	if q == "" {
		return "", &wikipedia.Error{Kind: wikipedia.KindInput, Op: "topic", Err: wikipedia.ErrEmptyTopic}
	}
	return q, nil
}

var (
	_ lookup.TopicSource = Args(nil)
	_ lookup.TopicSource = Stdin{}
)
