package networks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// involveAsia generates deep links through the Involve Asia API.
// Attribution rides in aff_sub and is echoed back on conversion postbacks.
type involveAsia struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newInvolveAsia(cfg Config) *involveAsia {
	base := cfg.InvolveAsiaBaseURL
	if base == "" {
		base = "https://api.involve.asia"
	}
	return &involveAsia{
		apiKey:     cfg.InvolveAsiaAPIKey,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: newHTTPClient(cfg),
	}
}

type involveAsiaRequest struct {
	OfferID string `json:"offer_id"`
	URL     string `json:"url"`
	AffSub  string `json:"aff_sub"`
}

type involveAsiaResponse struct {
	Status string `json:"status"`
	Data   struct {
		TrackingLink string `json:"tracking_link"`
	} `json:"data"`
}

func (a *involveAsia) TrackingLink(ctx context.Context, req LinkRequest) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("%w: involveasia api key", ErrCredentialsMissing)
	}

	payload, err := json.Marshal(involveAsiaRequest{
		OfferID: req.CampaignID,
		URL:     req.DestinationURL,
		AffSub:  req.Token,
	})
	if err != nil {
		return "", fmt.Errorf("marshal involveasia request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/affiliates/offer/generate_link", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build involveasia request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: involveasia status %d", ErrUpstreamRejected, resp.StatusCode)
	}

	var out involveAsiaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode involveasia response: %v", ErrUpstreamRejected, err)
	}
	if out.Data.TrackingLink == "" {
		return "", fmt.Errorf("%w: involveasia returned no tracking link", ErrUpstreamRejected)
	}
	return out.Data.TrackingLink, nil
}
