package networks

import (
	"context"
	"errors"
	"testing"
)

type stubAdapter struct {
	url   string
	err   error
	calls int
}

func (s *stubAdapter) TrackingLink(ctx context.Context, req LinkRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func testDispatcher(primary, fallback Adapter) *Dispatcher {
	return &Dispatcher{
		adapters: map[Network]Adapter{NetworkAwin: primary},
		fallback: fallback,
	}
}

func TestDispatcher_PrimarySucceeds(t *testing.T) {
	primary := &stubAdapter{url: "https://track.example/p"}
	fallback := &stubAdapter{url: "https://track.example/f"}
	d := testDispatcher(primary, fallback)

	got, err := d.GenerateLink(context.Background(), NetworkAwin, LinkRequest{})
	if err != nil {
		t.Fatalf("GenerateLink error: %v", err)
	}
	if got != "https://track.example/p" {
		t.Fatalf("expected primary url, got %s", got)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run when primary succeeds, ran %d times", fallback.calls)
	}
}

func TestDispatcher_FallsBackOnceOnPrimaryFailure(t *testing.T) {
	primary := &stubAdapter{err: ErrUpstreamUnavailable}
	fallback := &stubAdapter{url: "https://track.example/f"}
	d := testDispatcher(primary, fallback)

	got, err := d.GenerateLink(context.Background(), NetworkAwin, LinkRequest{})
	if err != nil {
		t.Fatalf("GenerateLink error: %v", err)
	}
	if got != "https://track.example/f" {
		t.Fatalf("expected fallback url, got %s", got)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected one primary and one fallback call, got %d/%d", primary.calls, fallback.calls)
	}
}

func TestDispatcher_UnknownNetworkUsesFallback(t *testing.T) {
	fallback := &stubAdapter{url: "https://track.example/f"}
	d := testDispatcher(&stubAdapter{}, fallback)

	got, err := d.GenerateLink(context.Background(), Network("shareasale"), LinkRequest{})
	if err != nil {
		t.Fatalf("GenerateLink error: %v", err)
	}
	if got != "https://track.example/f" {
		t.Fatalf("expected fallback url, got %s", got)
	}
}

func TestDispatcher_BothPathsFail(t *testing.T) {
	primary := &stubAdapter{err: ErrUpstreamRejected}
	fallback := &stubAdapter{err: ErrUpstreamUnavailable}
	d := testDispatcher(primary, fallback)

	_, err := d.GenerateLink(context.Background(), NetworkAwin, LinkRequest{})
	if !errors.Is(err, ErrLinkGenerationFailed) {
		t.Fatalf("expected ErrLinkGenerationFailed, got %v", err)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback must be tried exactly once, ran %d times", fallback.calls)
	}
}

func TestNewDispatcher_CoversAllKnownNetworks(t *testing.T) {
	d := NewDispatcher(Config{})
	for _, n := range knownNetworks {
		if _, ok := d.adapters[n]; !ok {
			t.Fatalf("no adapter registered for %s", n)
		}
	}
	if d.fallback == nil {
		t.Fatal("fallback adapter missing")
	}
}
