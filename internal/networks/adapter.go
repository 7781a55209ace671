package networks

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Network identifies a supported affiliate network. The set is closed:
// NewDispatcher refuses to construct unless every known network has an
// adapter, so an unsupported merchant network is a construction-time
// problem, not a runtime surprise.
type Network string

const (
	NetworkInvolveAsia Network = "involveasia"
	NetworkImpact      Network = "impact"
	NetworkAwin        Network = "awin"
)

var knownNetworks = []Network{NetworkInvolveAsia, NetworkImpact, NetworkAwin}

// Adapter-level error classification. The dispatcher absorbs all of these
// via its fallback path; callers only ever see ErrLinkGenerationFailed.
var (
	ErrCredentialsMissing   = errors.New("network credentials missing")
	ErrUpstreamRejected     = errors.New("network rejected the request")
	ErrUpstreamUnavailable  = errors.New("network unavailable")
	ErrLinkGenerationFailed = errors.New("link generation failed")
)

// LinkRequest carries everything an adapter needs to produce a tracking URL.
// Token is the attribution token; adapters treat it as an opaque string.
type LinkRequest struct {
	DestinationURL string
	CampaignID     string
	Token          string
	Metadata       map[string]string
}

// Adapter produces a tracking URL for a link request, or fails with one of
// the classified errors above. Adapters are independent and share no
// mutable state.
type Adapter interface {
	TrackingLink(ctx context.Context, req LinkRequest) (string, error)
}

const defaultTimeout = 8 * time.Second

// Config holds per-network credentials and base URLs. It is assembled once
// from the environment and passed in at construction; adapters never read
// ambient globals.
type Config struct {
	InvolveAsiaAPIKey  string
	InvolveAsiaBaseURL string

	ImpactAccountSID string
	ImpactAuthToken  string
	ImpactBaseURL    string

	AwinPublisherID string

	MediatedBaseURL string

	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func newHTTPClient(cfg Config) *http.Client {
	return &http.Client{Timeout: cfg.timeout()}
}
