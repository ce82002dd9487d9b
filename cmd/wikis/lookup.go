package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/inevitable-commit/wikis/internal/config"
	"github.com/inevitable-commit/wikis/internal/lookup"
	"github.com/inevitable-commit/wikis/internal/output"
	"github.com/inevitable-commit/wikis/internal/selector"
	"github.com/inevitable-commit/wikis/internal/topic"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// Sink hooks, replaced in tests. A nil runNotify executes the notify command.
var openURL = browser.OpenURL

var runNotify output.RunFunc

type rootFlags struct {
	noLink     bool
	noSummary  bool
	lang       string
	choice     int
	stdin      bool
	browser    bool
	strategy   string
	random     bool
	randomRoot bool
	exact      bool
	picker     string
	notify     bool
	quiet      bool
	timeout    time.Duration
	baseURL    string
	configPath string
	verbose    bool
}

func (f *rootFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.noLink, "no-link", false, "Do not show the article link (config: no_link, env: WIKIS_NO_LINK)")
	fs.BoolVar(&f.noSummary, "no-summary", false, "Do not fetch or show the summary; listing pages such as Special:AllPages are allowed (config: no_summary, env: WIKIS_NO_SUMMARY)")
	fs.StringVarP(&f.lang, "lang", "l", wikipedia.DefaultLanguage, "Wikipedia language edition, see 'wikis langs' (env: WIKIS_LANG)")
	fs.IntVarP(&f.choice, "choice", "c", 0, "Pick the Nth search result (1-based) without prompting")
	fs.BoolVar(&f.stdin, "stdin", false, "Read the topic from standard input")
	fs.BoolVarP(&f.browser, "browser", "b", false, "Open the article in a web browser instead of printing a summary")
	fs.StringVar(&f.strategy, "strategy", string(wikipedia.DefaultStrategy), "Summary source: extract, rest or rest-redirect (env: WIKIS_STRATEGY)")
	fs.BoolVar(&f.random, "random", false, "Look up a random article")
	fs.BoolVar(&f.randomRoot, "random-root", false, "Look up a random root page")
	fs.BoolVar(&f.exact, "exact", false, "Treat the topic as an exact article title and skip the search")
	fs.StringVar(&f.picker, "picker", config.PickerTerminal, "How to choose among results: terminal or menu (env: WIKIS_PICKER)")
	fs.BoolVar(&f.notify, "notify", false, "Also show the result as a desktop notification (config: notify_command)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Do not list the candidates before the selection prompt")
	fs.DurationVar(&f.timeout, "timeout", wikipedia.DefaultTimeout, "Per-request timeout (env: WIKIS_TIMEOUT)")
	fs.StringVar(&f.baseURL, "base-url", "", "Wikipedia base URL override, for mirrors and testing (env: WIKIS_BASE_URL)")
	fs.StringVar(&f.configPath, "config", "", "Config file path (default $XDG_CONFIG_HOME/wikis/config.yaml)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log requests to stderr")
	_ = fs.MarkHidden("base-url")
}

// validate checks flag combinations cobra cannot express as usage errors.
func (f *rootFlags) validate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("choice") && f.choice < 1 {
		return usagef("--choice must be at least 1 (got %d)", f.choice)
	}
	modes := 0
	for _, set := range []bool{f.random, f.randomRoot, f.exact} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return usagef("--random, --random-root and --exact are mutually exclusive")
	}
	if f.browser && f.notify {
		return usagef("--browser and --notify are mutually exclusive")
	}
	if (f.random || f.randomRoot) && (len(args) > 0 || f.stdin) {
		return usagef("--random and --random-root take no topic")
	}
	if f.stdin && len(args) > 0 {
		return usagef("--stdin takes no topic arguments")
	}
	return nil
}

// applyTo overrides cfg with the flags set on the command line.
func (f *rootFlags) applyTo(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("lang") {
		cfg.Lang = f.lang
	}
	if changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("picker") {
		cfg.Picker = f.picker
	}
	if changed("no-link") {
		cfg.NoLink = f.noLink
	}
	if changed("no-summary") {
		cfg.NoSummary = f.noSummary
	}
}

func (f *rootFlags) mode() lookup.Mode {
	switch {
	case f.random:
		return lookup.ModeRandom
	case f.randomRoot:
		return lookup.ModeRandomRoot
	case f.exact:
		return lookup.ModeExact
	default:
		return lookup.ModeSearch
	}
}

func runLookup(cmd *cobra.Command, args []string, flags rootFlags, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := flags.validate(cmd, args); err != nil {
		return err
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return usagef("config error: %w", err)
	}
	flags.applyTo(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		if wikipedia.KindOf(err) == wikipedia.KindInput {
			return err
		}
		return usagef("config error: %w", err)
	}
	strategy, err := wikipedia.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	mode := flags.mode()

	client, err := wikipedia.NewClient(
		wikipedia.WithLanguage(cfg.Lang),
		wikipedia.WithBaseURL(cfg.BaseURL),
		wikipedia.WithTimeout(cfg.Timeout),
		wikipedia.WithRateLimit(cfg.RateLimitRPS),
		wikipedia.WithMaxRedirectHops(cfg.MaxRedirectHops),
		wikipedia.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Topic source and terminal selector share one reader so neither loses buffered input.
	in := bufio.NewReader(stdin)
	interactive := isTerminal(stdin)

	var source lookup.TopicSource = topic.Args(args)
	if flags.stdin || (len(args) == 0 && mode != lookup.ModeRandom && mode != lookup.ModeRandomRoot) {
		source = topic.Stdin{In: in, Out: stderr, Prompt: interactive}
	}

	var sel lookup.Selector
	switch {
	case cmd.Flags().Changed("choice"):
		sel = selector.Fixed{Choice: flags.choice}
	case cfg.Picker == config.PickerMenu:
		sel = selector.Picker{Command: cfg.PickerCommand}
	default:
		sel = selector.Terminal{In: in, Out: stderr, ShowList: !flags.quiet}
	}

	opts := lookup.Options{
		Mode:      mode,
		Strategy:  strategy,
		NoLink:    cfg.NoLink,
		NoSummary: cfg.NoSummary,
	}

	text := output.Text{W: stdout, Styled: isTerminal(stdout)}
	var sink lookup.Sink = text
	switch {
	case flags.browser:
		// The browser shows the page itself; the denylist does not apply.
		opts.NoSummary = true
		opts.NoLink = false
		browser.Stdout = stderr
		browser.Stderr = stderr
		sink = output.Browser{Open: openURL}
	case flags.notify:
		sink = output.Tee{text, output.Notify{Command: cfg.NotifyCommand, Run: runNotify}}
	}

	logger.Debug("lookup start",
		zap.String("lang", client.Language()),
		zap.String("site", client.Site()),
		zap.String("strategy", string(strategy)),
		zap.String("topic", strings.Join(args, " ")),
	)
	runner := &lookup.Runner{
		Wiki:     client,
		Source:   source,
		Selector: sel,
		Sink:     sink,
		Logger:   logger,
	}
	_, err = runner.Run(cmd.Context(), opts)
	return err
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
