// Package pihole implements the record-store side of the sync against the
// Pi-hole v6 API: session authentication, listing the dns.hosts config, and
// idempotent record upserts.
package pihole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkngrm/unipisync/internal/transport"
	"github.com/mkngrm/unipisync/pkg/errors"
	"github.com/mkngrm/unipisync/pkg/logging"
	"github.com/mkngrm/unipisync/pkg/syncer"
)

const endpointName = "pihole"

// Config holds the Pi-hole connection settings.
type Config struct {
	Host     string
	Password string
	// Domain is appended to every record name on upsert.
	Domain string
}

// Client is a Pi-hole API client. Session state is never stored on the
// client: Authenticate returns a Session that callers thread through every
// subsequent call.
type Client struct {
	transport *transport.Client
	baseURL   string
	password  string
	domain    string
}

// Session is an authenticated Pi-hole session: the sid and CSRF token the
// API hands out on login, sent as headers on every call.
type Session struct {
	SID  string
	CSRF string
}

// apply sets the session headers on a request.
func (s *Session) apply(req *http.Request) {
	req.Header.Set("X-FTL-SID", s.SID)
	req.Header.Set("X-FTL-CSRF-TOKEN", s.CSRF)
}

// New creates a Pi-hole client.
func New(cfg Config) *Client {
	return &Client{
		transport: transport.New(&transport.NoAuth{}),
		baseURL:   "http://" + cfg.Host,
		password:  cfg.Password,
		domain:    cfg.Domain,
	}
}

// authResponse is the /api/auth payload.
type authResponse struct {
	Session struct {
		SID  string `json:"sid"`
		CSRF string `json:"csrf"`
	} `json:"session"`
}

// Authenticate logs in with the configured password and returns the session
// handle for subsequent calls.
func (c *Client) Authenticate(ctx context.Context) (syncer.Session, error) {
	body, err := json.Marshal(map[string]string{"password": c.password})
	if err != nil {
		return nil, errors.WrapParse("json", endpointName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapIO("create", "POST /api/auth", err)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, &errors.AuthenticationError{Endpoint: endpointName, Message: "auth request failed", Err: err}
	}

	var payload authResponse
	if err := transport.DecodeJSON(resp, endpointName, &payload); err != nil {
		return nil, &errors.AuthenticationError{Endpoint: endpointName, Message: "auth request rejected", Err: err}
	}

	if payload.Session.SID == "" || payload.Session.CSRF == "" {
		return nil, &errors.AuthenticationError{Endpoint: endpointName, Message: "no session in auth response"}
	}

	logging.Ctx(ctx).Info().Msg("Successfully authenticated to Pi-hole")
	return &Session{SID: payload.Session.SID, CSRF: payload.Session.CSRF}, nil
}

// hostsResponse is the /api/config/dns/hosts payload.
type hostsResponse struct {
	Config struct {
		DNS struct {
			Hosts []string `json:"hosts"`
		} `json:"dns"`
	} `json:"config"`
}

// ListRecords retrieves the existing host records as an fqdn -> address map.
func (c *Client) ListRecords(ctx context.Context, session syncer.Session) (map[string]string, error) {
	sess, err := c.session(session)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/config/dns/hosts", nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET /api/config/dns/hosts", err)
	}
	sess.apply(req)

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(endpointName, 0, err)
	}

	var payload hostsResponse
	if err := transport.DecodeJSON(resp, endpointName, &payload); err != nil {
		return nil, err
	}

	existing, skipped := ParseHosts(payload.Config.DNS.Hosts)
	if skipped > 0 {
		logging.Ctx(ctx).Warn().Int("lines", skipped).Msg("Skipped malformed host lines")
	}

	return existing, nil
}

// UpsertRecord creates or overwrites the record for name + "." + domain.
// The name must already be sanitized. The operation is idempotent: repeating
// it with the same arguments leaves the store unchanged.
func (c *Client) UpsertRecord(ctx context.Context, session syncer.Session, name, address string) error {
	sess, err := c.session(session)
	if err != nil {
		return err
	}

	record := fmt.Sprintf("%s %s.%s", address, name, c.domain)
	target := c.baseURL + "/api/config/dns/hosts/" + url.PathEscape(record)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, nil)
	if err != nil {
		return errors.WrapIO("create", "PUT /api/config/dns/hosts", err)
	}
	sess.apply(req)

	resp, err := c.transport.Do(req)
	if err != nil {
		return errors.WrapAPI(endpointName, 0, err)
	}

	return transport.Discard(resp, endpointName)
}

// session narrows the opaque handle back to this client's session type.
func (c *Client) session(session syncer.Session) (*Session, error) {
	sess, ok := session.(*Session)
	if !ok || sess == nil {
		return nil, &errors.ValidationError{
			Field:   "session",
			Value:   session,
			Message: "not a Pi-hole session",
		}
	}
	return sess, nil
}
