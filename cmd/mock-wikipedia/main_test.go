package main

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/inevitable-commit/wikis/pkg/mockwiki"
)

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" Einstein, ,AC/DC,")
	want := []string{"Einstein", "AC/DC"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %v want %v", got, want)
	}
}

func TestPortOf(t *testing.T) {
	if got := portOf(":8080"); got != ":8080" {
		t.Fatalf("unexpected port: %q", got)
	}
	if got := portOf("127.0.0.1:9000"); got != ":9000" {
		t.Fatalf("unexpected port: %q", got)
	}
}

func TestSampleFixturesLoad(t *testing.T) {
	f, err := mockwiki.LoadFixtures("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	if len(f.Pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(f.Pages))
	}
	if f.Redirects["Einstein"] != "Albert Einstein" {
		t.Fatalf("unexpected redirects: %v", f.Redirects)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hs := &http.Server{Addr: "127.0.0.1:0", Handler: mockwiki.New().Handler()}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, hs) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop after cancel")
	}
}

func TestServe_ReportsListenError(t *testing.T) {
	hs := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	if err := serve(context.Background(), hs); err == nil {
		t.Fatalf("expected listen error")
	}
}
