package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inevitable-commit/wikis/pkg/mockwiki"
)

func main() {
	addr := defaultString("MOCK_WIKIPEDIA_ADDR", ":8080")
	fixtures := defaultString("MOCK_WIKIPEDIA_FIXTURES", "")
	forbidden := defaultString("MOCK_WIKIPEDIA_FORBIDDEN", "")

	fs := flag.NewFlagSet("mock-wikipedia", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&fixtures, "fixtures", fixtures, "YAML file with pages, redirects and random targets")
	fs.StringVar(&forbidden, "forbidden", forbidden, "Comma-separated titles the REST summary endpoint answers with 403 (also supports env: MOCK_WIKIPEDIA_FORBIDDEN)")
	_ = fs.Parse(os.Args[1:])

	srv := mockwiki.New()
	if fixtures != "" {
		f, err := mockwiki.LoadFixtures(fixtures)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "fixtures error: %v\n", err)
			os.Exit(2)
		}
		srv.Load(f)
	}
	for _, title := range splitCSV(forbidden) {
		srv.Forbid(title)
	}

	_, _ = fmt.Fprintf(os.Stdout, "mock-wikipedia listening on %s (pages=%d)\n", addr, len(srv.Titles()))
	_, _ = fmt.Fprintf(os.Stdout, "try: wikis --base-url http://localhost%s <topic>\n", portOf(addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// serve runs hs until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, hs *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
