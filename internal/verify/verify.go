// Package verify performs a best-effort post-sync check: it queries a DNS
// server for the records a run added or updated and reports names that do
// not resolve to the expected address. Verification never changes a run's
// success; propagation through the resolver is the store's business, the
// check only surfaces it.
package verify

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/mkngrm/unipisync/pkg/logging"
	"github.com/mkngrm/unipisync/pkg/syncer"
)

// queryTimeout bounds each DNS query.
const queryTimeout = 5 * time.Second

// Mismatch describes one record that failed verification.
type Mismatch struct {
	FQDN     string
	Expected string
	Answers  []string
	Reason   string
}

// Checker verifies records against a DNS server.
type Checker struct {
	client *dns.Client
	server string
}

// New creates a Checker for the given server. A server without a port gets
// the standard DNS port appended.
func New(server string) *Checker {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &Checker{
		client: &dns.Client{Timeout: queryTimeout},
		server: server,
	}
}

// Check queries every record and returns the ones that do not resolve to
// their expected address. A nil result means everything verified.
func (c *Checker) Check(ctx context.Context, records []syncer.RecordResult) []Mismatch {
	log := logging.Ctx(ctx)

	var mismatches []Mismatch
	for _, rec := range records {
		if m := c.check(ctx, rec); m != nil {
			log.Warn().
				Str("fqdn", m.FQDN).
				Str("expected", m.Expected).
				Strs("answers", m.Answers).
				Str("reason", m.Reason).
				Msg("Record failed verification")
			mismatches = append(mismatches, *m)
		} else {
			log.Debug().Str("fqdn", rec.FQDN).Msg("Record verified")
		}
	}

	return mismatches
}

// check resolves one record and compares the answers to its address.
func (c *Checker) check(ctx context.Context, rec syncer.RecordResult) *Mismatch {
	qtype := dns.TypeA
	if ip := net.ParseIP(rec.Address); ip != nil && ip.To4() == nil {
		qtype = dns.TypeAAAA
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(rec.FQDN), qtype)

	resp, _, err := c.client.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return &Mismatch{FQDN: rec.FQDN, Expected: rec.Address, Reason: "query failed: " + err.Error()}
	}
	if resp.Rcode != dns.RcodeSuccess {
		return &Mismatch{FQDN: rec.FQDN, Expected: rec.Address, Reason: "rcode " + dns.RcodeToString[resp.Rcode]}
	}

	answers := answerAddresses(resp)
	for _, a := range answers {
		if a == rec.Address {
			return nil
		}
	}

	return &Mismatch{FQDN: rec.FQDN, Expected: rec.Address, Answers: answers, Reason: "address mismatch"}
}

// answerAddresses extracts the A/AAAA addresses from a response.
func answerAddresses(resp *dns.Msg) []string {
	var out []string
	for _, rr := range resp.Answer {
		switch a := rr.(type) {
		case *dns.A:
			out = append(out, a.A.String())
		case *dns.AAAA:
			out = append(out, a.AAAA.String())
		}
	}
	return out
}
