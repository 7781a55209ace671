package networks

import (
	"context"
	"fmt"
	"log"
)

// Dispatcher routes link generation to the adapter for a merchant's declared
// network and falls back exactly once to the mediated path on any failure.
// The availability trade-off is deliberate: a mis-configured or transiently
// down network integration should not stop link generation while the
// mediated path can still serve it.
type Dispatcher struct {
	adapters map[Network]Adapter
	fallback Adapter
}

// NewDispatcher builds the closed adapter set from config. It panics if a
// known network is left without an adapter: that is a programming error and
// must not survive into a running process.
func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		adapters: map[Network]Adapter{
			NetworkInvolveAsia: newInvolveAsia(cfg),
			NetworkImpact:      newImpact(cfg),
			NetworkAwin:        newAwin(cfg),
		},
		fallback: newMediated(cfg),
	}
	for _, n := range knownNetworks {
		if _, ok := d.adapters[n]; !ok {
			panic(fmt.Sprintf("networks: no adapter registered for %q", n))
		}
	}
	return d
}

// GenerateLink produces a tracking URL for the given network. Primary
// adapter errors of any classification are absorbed by one fallback attempt;
// only the fallback failing too surfaces as ErrLinkGenerationFailed.
func (d *Dispatcher) GenerateLink(ctx context.Context, network Network, req LinkRequest) (string, error) {
	if primary, ok := d.adapters[network]; ok {
		trackingURL, err := primary.TrackingLink(ctx, req)
		if err == nil {
			return trackingURL, nil
		}
		log.Printf("[networks] %s adapter failed, trying mediated fallback: %v", network, err)
	} else {
		// Merchant data drifted to a network we don't integrate directly.
		log.Printf("[networks] no adapter for network %q, trying mediated fallback", network)
	}

	trackingURL, err := d.fallback.TrackingLink(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLinkGenerationFailed, err)
	}
	return trackingURL, nil
}
