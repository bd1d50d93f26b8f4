// Package unifi implements the inventory-source side of the sync: listing
// currently-active network clients from a UniFi controller.
package unifi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkngrm/unipisync/internal/transport"
	"github.com/mkngrm/unipisync/pkg/logging"
	"github.com/mkngrm/unipisync/pkg/syncer"
)

const endpointName = "unifi"

// Config holds the controller connection settings.
type Config struct {
	Host     string
	Port     string
	APIToken string
	Site     string

	// AllowedPrefixes restricts the listing to clients whose address
	// starts with one of these prefixes. Empty means all clients.
	AllowedPrefixes []string
}

// Client is a UniFi controller API client.
type Client struct {
	transport       *transport.Client
	baseURL         string
	site            string
	allowedPrefixes []string
}

// New creates a controller client. Controllers ship with self-signed
// certificates, so server verification is skipped; the API token in the
// X-API-KEY header authenticates us either way.
func New(cfg Config) *Client {
	return &Client{
		transport: transport.New(
			&transport.HeaderAuth{Header: "X-API-KEY", Value: cfg.APIToken},
			transport.WithInsecureTLS(),
		),
		baseURL:         fmt.Sprintf("https://%s:%s", cfg.Host, cfg.Port),
		site:            cfg.Site,
		allowedPrefixes: cfg.AllowedPrefixes,
	}
}

// station is one entry of the controller's active-client listing. Only the
// fields the sync needs are decoded.
type station struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	Name     string `json:"name"`
}

// stationsResponse is the controller's stat/sta payload envelope.
type stationsResponse struct {
	Data []station `json:"data"`
}

// ListActiveEntries retrieves the active clients from the controller,
// omitting clients without an address or a usable name and, when a prefix
// allowlist is configured, clients outside it.
func (c *Client) ListActiveEntries(ctx context.Context) ([]syncer.ObservedEntry, error) {
	url := fmt.Sprintf("%s/proxy/network/api/s/%s/stat/sta", c.baseURL, c.site)

	resp, err := c.transport.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload stationsResponse
	if err := transport.DecodeJSON(resp, endpointName, &payload); err != nil {
		return nil, err
	}

	entries := make([]syncer.ObservedEntry, 0, len(payload.Data))
	for _, sta := range payload.Data {
		name := sta.Hostname
		if name == "" {
			name = sta.Name
		}
		if sta.IP == "" || name == "" {
			continue
		}
		if !c.allowed(sta.IP) {
			continue
		}
		entries = append(entries, syncer.ObservedEntry{
			Address: sta.IP,
			RawName: name,
		})
	}

	if len(c.allowedPrefixes) > 0 {
		logging.Ctx(ctx).Debug().
			Int("clients", len(entries)).
			Str("subnets", strings.Join(c.allowedPrefixes, ", ")).
			Msg("Filtered active clients by subnet")
	}

	return entries, nil
}

// allowed reports whether an address passes the prefix allowlist.
func (c *Client) allowed(address string) bool {
	if len(c.allowedPrefixes) == 0 {
		return true
	}
	for _, prefix := range c.allowedPrefixes {
		if strings.HasPrefix(address, prefix) {
			return true
		}
	}
	return false
}
