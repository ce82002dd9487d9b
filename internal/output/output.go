package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/browser"

	"github.com/inevitable-commit/wikis/internal/lookup"
)

// Text prints the title, link and summary on separate lines, skipping empty fields.
type Text struct {
	W io.Writer
	// Styled renders the title in bold; set it when W is a terminal.
	Styled bool
}

func (t Text) Emit(_ context.Context, r lookup.Result) error {
	title := r.Title
	if t.Styled {
		title = lipgloss.NewRenderer(t.W).NewStyle().Bold(true).Render(title)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	if r.Link != "" {
		b.WriteString(r.Link)
		b.WriteByte('\n')
	}
	if r.Summary != "" {
		b.WriteString(r.Summary)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(t.W, b.String())
	return err
}

// RunFunc runs name with args.
type RunFunc func(ctx context.Context, name string, args ...string) error

// DefaultNotifyCommand is the freedesktop notification client.
const DefaultNotifyCommand = "notify-send"

// Notify announces the result as a desktop notification: the title as the
// summary line and the extract and link as the body.
type Notify struct {
	Command string
	Run     RunFunc
}

func (n Notify) Emit(ctx context.Context, r lookup.Result) error {
	command := strings.TrimSpace(n.Command)
	if command == "" {
		command = DefaultNotifyCommand
	}
	run := n.Run
	if run == nil {
		run = execRun
	}

	args := []string{r.Title}
	var body []string
	if r.Summary != "" {
		body = append(body, r.Summary)
	}
	if r.Link != "" {
		body = append(body, r.Link)
	}
	if len(body) > 0 {
		args = append(args, strings.Join(body, "\n"))
	}
	if err := run(ctx, command, args...); err != nil {
		return fmt.Errorf("notify via %s: %w", command, err)
	}
	return nil
}

func execRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ErrNoLink is returned by Browser when the result carries no link.
var ErrNoLink = errors.New("result has no link to open")

// Browser hands the link to the user's web browser.
type Browser struct {
	// Open defaults to browser.OpenURL.
	Open func(url string) error
}

func (b Browser) Emit(_ context.Context, r lookup.Result) error {
	if r.Link == "" {
		return ErrNoLink
	}
	open := b.Open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(r.Link); err != nil {
		return fmt.Errorf("open %s: %w", r.Link, err)
	}
	return nil
}

// Tee emits to every sink in order and stops at the first failure.
type Tee []lookup.Sink

func (t Tee) Emit(ctx context.Context, r lookup.Result) error {
	for _, s := range t {
		if err := s.Emit(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ lookup.Sink = Text{}
	_ lookup.Sink = Notify{}
	_ lookup.Sink = Browser{}
	_ lookup.Sink = Tee{}
)
