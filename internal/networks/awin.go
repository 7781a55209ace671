package networks

import (
	"context"
	"fmt"
	"net/url"
)

// awin builds Awin cread deep links. This is pure URL construction: no
// outbound call, so the only failure mode is a missing publisher id.
type awin struct {
	publisherID string
}

func newAwin(cfg Config) *awin {
	return &awin{publisherID: cfg.AwinPublisherID}
}

func (a *awin) TrackingLink(ctx context.Context, req LinkRequest) (string, error) {
	if a.publisherID == "" {
		return "", fmt.Errorf("%w: awin publisher id", ErrCredentialsMissing)
	}

	q := url.Values{}
	q.Set("awinmid", req.CampaignID)
	q.Set("awinaffid", a.publisherID)
	q.Set("clickref", req.Token)
	q.Set("ued", req.DestinationURL)

	return "https://www.awin1.com/cread.php?" + q.Encode(), nil
}
