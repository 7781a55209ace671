package networks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// impact generates tracking links through the Impact Mediapartners API.
// The attribution token is passed as SubId1 and returned on postbacks.
type impact struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

func newImpact(cfg Config) *impact {
	base := cfg.ImpactBaseURL
	if base == "" {
		base = "https://api.impact.com"
	}
	return &impact{
		accountSID: cfg.ImpactAccountSID,
		authToken:  cfg.ImpactAuthToken,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: newHTTPClient(cfg),
	}
}

type impactResponse struct {
	TrackingURL string `json:"TrackingURL"`
}

func (a *impact) TrackingLink(ctx context.Context, req LinkRequest) (string, error) {
	if a.accountSID == "" || a.authToken == "" {
		return "", fmt.Errorf("%w: impact account sid / auth token", ErrCredentialsMissing)
	}

	q := url.Values{}
	q.Set("Type", "Regular")
	q.Set("DeepLink", req.DestinationURL)
	q.Set("subId1", req.Token)

	u := fmt.Sprintf("%s/Mediapartners/%s/Programs/%s/TrackingLinks?%s",
		a.baseURL, url.PathEscape(a.accountSID), url.PathEscape(req.CampaignID), q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build impact request: %w", err)
	}
	httpReq.SetBasicAuth(a.accountSID, a.authToken)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: impact status %d", ErrUpstreamRejected, resp.StatusCode)
	}

	var out impactResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode impact response: %v", ErrUpstreamRejected, err)
	}
	if out.TrackingURL == "" {
		return "", fmt.Errorf("%w: impact returned no tracking url", ErrUpstreamRejected)
	}
	return out.TrackingURL, nil
}
