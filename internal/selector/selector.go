package selector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/inevitable-commit/wikis/internal/lookup"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// ErrNoSelection is returned when the picker was dismissed or echoed an unknown line.
var ErrNoSelection = errors.New("no topic selected")

// Fixed selects a pre-supplied 1-based choice.
type Fixed struct {
	Choice int
}

func (f Fixed) Select(_ context.Context, titles []string) (int, error) {
	if f.Choice < 1 || f.Choice > len(titles) {
		return 0, outOfRange(f.Choice, len(titles))
	}
	return f.Choice - 1, nil
}

// Terminal asks on a line-oriented terminal. An empty answer accepts the first title.
type Terminal struct {
	In  *bufio.Reader
	Out io.Writer
	// ShowList prints the numbered candidates before the prompt.
	ShowList bool
}

func (t Terminal) Select(ctx context.Context, titles []string) (int, error) {
	if len(titles) == 0 {
		return 0, outOfRange(1, 0)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if t.ShowList {
		for i, title := range titles {
			_, _ = fmt.Fprintf(t.Out, "%2d: %s\n", i+1, title)
		}
	}
	_, _ = fmt.Fprintf(t.Out, "Select a topic (Default: %q): ", titles[0])

	line, err := t.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, &wikipedia.Error{Kind: wikipedia.KindInput, Op: "select", Err: fmt.Errorf("invalid choice %q: %w", line, err)}
	}
	if n < 1 || n > len(titles) {
		return 0, outOfRange(n, len(titles))
	}
	return n - 1, nil
}

// RunFunc runs name with args, feeding stdin, and returns its standard output.
type RunFunc func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

// Picker delegates the choice to an external menu such as dmenu or rofi -dmenu.
// Candidates are written one per line; the echoed line is matched back to its index.
type Picker struct {
	Command []string
	Run     RunFunc
}

// DefaultPickerCommand is dmenu, case-insensitive, five lines.
var DefaultPickerCommand = []string{"dmenu", "-i", "-l", "5", "-p", "Select a topic: "}

func (p Picker) Select(ctx context.Context, titles []string) (int, error) {
	command := p.Command
	if len(command) == 0 {
		command = DefaultPickerCommand
	}
	run := p.Run
	if run == nil {
		run = execRun
	}

	input := strings.Join(titles, "\n") + "\n"
	out, err := run(ctx, command[0], command[1:], []byte(input))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// dmenu exits non-zero when dismissed.
			return 0, &wikipedia.Error{Kind: wikipedia.KindInput, Op: "select", Err: ErrNoSelection}
		}
		return 0, fmt.Errorf("run picker %s: %w", command[0], err)
	}

	choice := strings.TrimRight(string(out), "\r\n")
	for i, title := range titles {
		if title == choice {
			return i, nil
		}
	}
	return 0, &wikipedia.Error{Kind: wikipedia.KindInput, Op: "select", Title: choice, Err: ErrNoSelection}
}

func execRun(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	return cmd.Output()
}

func outOfRange(choice, n int) error {
	return &wikipedia.Error{
		Kind: wikipedia.KindInput,
		Op:   "select",
		Err:  fmt.Errorf("%w: %d not in 1..%d", lookup.ErrIndexOutOfRange, choice, n),
	}
}

var (
	_ lookup.Selector = Fixed{}
	_ lookup.Selector = Terminal{}
	_ lookup.Selector = Picker{}
)
