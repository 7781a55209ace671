package networks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// mediated is the secondary link-generation path: a generic backend
// tracking-link endpoint that wraps any destination regardless of the
// merchant's direct network integration. The dispatcher falls back to it
// when a direct adapter fails.
type mediated struct {
	baseURL    string
	httpClient *http.Client
}

func newMediated(cfg Config) *mediated {
	return &mediated{
		baseURL:    strings.TrimRight(cfg.MediatedBaseURL, "/"),
		httpClient: newHTTPClient(cfg),
	}
}

type mediatedRequest struct {
	URL        string `json:"url"`
	CampaignID string `json:"campaign_id,omitempty"`
	SubID      string `json:"sub_id"`
}

type mediatedResponse struct {
	Success     bool   `json:"success"`
	TrackingURL string `json:"trackingUrl"`
}

func (a *mediated) TrackingLink(ctx context.Context, req LinkRequest) (string, error) {
	if a.baseURL == "" {
		return "", fmt.Errorf("%w: mediated base url", ErrCredentialsMissing)
	}

	payload, err := json.Marshal(mediatedRequest{
		URL:        req.DestinationURL,
		CampaignID: req.CampaignID,
		SubID:      req.Token,
	})
	if err != nil {
		return "", fmt.Errorf("marshal mediated request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/tracking-links", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build mediated request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: mediated status %d", ErrUpstreamRejected, resp.StatusCode)
	}

	var out mediatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode mediated response: %v", ErrUpstreamRejected, err)
	}
	if !out.Success || out.TrackingURL == "" {
		return "", fmt.Errorf("%w: mediated endpoint returned no tracking url", ErrUpstreamRejected)
	}
	return out.TrackingURL, nil
}
