// Package resolver looks up "_for-sale" TXT records over DNS and enforces
// the DNSSEC trust boundary: a response is only accepted if the upstream
// resolver has set the AD (Authentic Data) bit, meaning the upstream itself
// validated the signature chain. This package never performs RRSIG/NSEC3
// chain validation itself; it trusts a validating recursive resolver to have
// done so, the same way blocky's dnssec.Validator sets the DO bit on its
// upstream query and inspects the result rather than re-deriving the chain
// of trust from root keys on every lookup.
package resolver

import (
	"context"
	"fmt"

	"github.com/domainsale/domainsale/log"
	"github.com/domainsale/domainsale/model"
	"github.com/domainsale/domainsale/util"

	"github.com/miekg/dns"
)

const (
	// ForSalePrefix names the TXT record queried for a domain's sale status.
	ForSalePrefix = "_for-sale"

	ednsUDPSize = 1232

	// maxRecordSize bounds a single concatenated TXT value. DNS TXT records
	// are themselves limited to 255 bytes per character-string; a resolver
	// that hands back a concatenation larger than that is not something the
	// validator's own size gate was designed to parse, so it's dropped here
	// instead of being forwarded.
	maxRecordSize = 255
)

// Client performs validated TXT lookups against a single upstream resolver.
type Client struct {
	// Upstream is the host:port of a recursive resolver trusted to perform
	// DNSSEC validation and set the AD bit honestly. Typically reached over
	// a loopback or otherwise private network path; see DESIGN.md for the
	// trust boundary this implies.
	Upstream string

	// RequireDNSSEC rejects any response that does not carry the AD bit: a
	// signed zone's answer becomes a KindDNSSEC error, an unsigned zone's
	// answer yields no records and no error. Disable only for domains known
	// not to be signed, per spec's design note on partial DNSSEC adoption.
	RequireDNSSEC bool

	dnsClient *dns.Client
}

// NewClient builds a Client for the given upstream resolver address.
func NewClient(upstream string, requireDNSSEC bool) *Client {
	return &Client{
		Upstream:      upstream,
		RequireDNSSEC: requireDNSSEC,
		dnsClient:     &dns.Client{},
	}
}

// LookupForSaleTXT queries "_for-sale.<domain>" for a TXT record, returning
// the concatenated record contents. It returns (nil, nil) on NXDOMAIN, on an
// empty answer, and, when RequireDNSSEC is set, on an unauthenticated answer
// from an unsigned zone: "domain not for sale" is not an error condition.
func (c *Client) LookupForSaleTXT(ctx context.Context, domain string) ([]string, error) {
	name := dns.Fqdn(ForSalePrefix + "." + domain)

	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypeTXT)
	msg.SetEdns0(ednsUDPSize, true) // DO bit: ask upstream to validate and report it

	resp, _, err := c.dnsClient.ExchangeContext(ctx, msg, c.Upstream)
	if err != nil {
		log.FromCtx(ctx).WithField("domain", domain).Debugf("dns exchange failed: %v", err)

		return nil, model.New(model.KindTimeout, domain, fmt.Errorf("dns query for %s failed: %w", name, err))
	}

	if resp.Rcode == dns.RcodeNameError {
		return nil, nil
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, model.New(model.KindDNSSEC, domain,
			fmt.Errorf("dns query for %s returned rcode %s", name, dns.RcodeToString[resp.Rcode]))
	}

	if c.RequireDNSSEC && !resp.AuthenticatedData {
		if zoneIsSigned(resp) {
			return nil, model.New(model.KindDNSSEC, domain,
				fmt.Errorf("response for %s is not DNSSEC-authenticated (AD bit unset, zone is signed)", name))
		}

		// Unsigned zone: its answers are not trusted, but that is not an error.
		return nil, nil
	}

	var records []string

	for _, rr := range resp.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}

		joined := joinTXT(txt.Txt)
		if len(joined) > maxRecordSize {
			log.PrefixedLog("resolver").Warnf("dropping oversized _for-sale record for %s (%d bytes)", domain, len(joined))

			continue
		}

		records = append(records, joined)
	}

	return records, nil
}

// zoneIsSigned reports whether the response carries an RRSIG record in any
// section, meaning the zone is DNSSEC-signed and an absent AD bit indicates
// a genuine validation failure rather than an insecure (unsigned) delegation.
func zoneIsSigned(resp *dns.Msg) bool {
	for _, rr := range util.ConcatSlices(resp.Answer, resp.Ns, resp.Extra) {
		if _, ok := rr.(*dns.RRSIG); ok {
			return true
		}
	}

	return false
}

// joinTXT concatenates the character-strings of a TXT RR, mirroring how a
// resolver library hands back multi-segment TXT content as a single value.
func joinTXT(segments []string) string {
	out := ""
	for _, s := range segments {
		out += s
	}

	return out
}
