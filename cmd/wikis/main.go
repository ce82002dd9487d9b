package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inevitable-commit/wikis/internal/logging"
	"github.com/inevitable-commit/wikis/internal/version"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks bad flags, arguments or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// run executes one invocation and returns the process exit code. All errors end up
// here; nothing below prints diagnostics or exits.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	switch code {
	case exitNotFound:
		_, _ = fmt.Fprintf(stderr, "wikis: %s\n", err)
	case exitUsage:
		_, _ = fmt.Fprintf(stderr, "wikis: %s\n", err)
		if errors.Is(err, wikipedia.ErrQuirkyPage) {
			_, _ = fmt.Fprintln(stderr, "Use --browser to open it instead.")
		}
		var ue *usageError
		if errors.As(err, &ue) {
			_, _ = fmt.Fprintln(stderr, "Run 'wikis --help' for usage.")
		}
	default:
		_, _ = fmt.Fprintf(stderr, "wikis: %s error: %s\n", wikipedia.KindOf(err), err)
	}
	return code
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	switch wikipedia.KindOf(err) {
	case wikipedia.KindInput:
		return exitUsage
	case wikipedia.KindNotFound:
		return exitNotFound
	default:
		return exitFailure
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags
	var logger *zap.Logger

	root := &cobra.Command{
		Use:   "wikis [flags] [topic...]",
		Short: "Look up a topic on Wikipedia",
		Long: `wikis searches Wikipedia for a topic, lets you pick among the matching
articles and prints the title, link and first line of the chosen article.

Without a topic on the command line the query is read from standard input.

Configuration is read from $WIKIS_CONFIG or $XDG_CONFIG_HOME/wikis/config.yaml
and may be overridden with WIKIS_* environment variables and flags.`,
		Example: `  wikis albert einstein
  wikis -c 2 terraria
  wikis --random --lang de
  echo "AC/DC" | wikis --stdin --no-link
  wikis --browser Special:AllPages --exact`,
		Version:       version.Current,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New(flags.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args, flags, logger, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags.register(root)
	root.AddCommand(newLangsCmd())
	return root
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List supported language codes",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("langs takes no arguments")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, code := range wikipedia.Languages() {
				if _, err := fmt.Fprintln(w, code); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
