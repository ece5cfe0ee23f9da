// Package rdap cross-checks a domain's RDAP status codes for a "for sale"
// tag, adapted from the original domainsale.rdap module but backed by
// openrdap's bootstrap/registry format for server discovery instead of a
// hand-rolled TLD map.
package rdap

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/domainsale/domainsale/cache"
	"github.com/domainsale/domainsale/model"
	"github.com/domainsale/domainsale/rdap/bootstrap"
	"github.com/domainsale/domainsale/util"
)

const (
	// BootstrapURL is IANA's DNS Service Registry, mapping TLDs to RDAP
	// base URLs per RFC 7484.
	BootstrapURL = "https://data.iana.org/rdap/dns.json"

	// ForSaleStatusTag is the RDAP status value that marks a domain as
	// listed for sale by its registry/registrar.
	ForSaleStatusTag = "for-sale"

	// BootstrapTTL bounds how long a downloaded bootstrap file is reused
	// before being re-fetched, matching the original client's hour-long
	// refresh interval.
	BootstrapTTL = time.Hour

	bootstrapCacheKey = "dns.json"
)

// Client checks RDAP for-sale status, caching the IANA bootstrap registry.
// Per-domain responses are not cached here; every call queries the server.
type Client struct {
	HTTP         *http.Client
	BootstrapURL string

	bootstrap *cache.Cache[*bootstrap.Registry]
}

// NewClient builds a Client with the given request timeout. ctx bounds the
// lifetime of the bootstrap cache's background cleanup goroutine. The HTTP
// client's transport pins a minimum TLS version of 1.2, the same fixed
// floor blocky's own TLS setup enforces rather than trusting Go's default.
func NewClient(ctx context.Context, timeout time.Duration) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	return &Client{
		HTTP:         &http.Client{Timeout: timeout, Transport: transport},
		BootstrapURL: BootstrapURL,
		bootstrap:    cache.New[*bootstrap.Registry](ctx, cache.Options{MaxSize: 1}),
	}
}

// CheckForSaleStatus reports whether domain's RDAP record carries the
// "for-sale" status tag.
func (c *Client) CheckForSaleStatus(ctx context.Context, domain string) (bool, error) {
	reg, err := c.registry(ctx)
	if err != nil {
		return false, err
	}

	server, ok := firstServer(reg, domain)
	if !ok {
		return false, model.New(model.KindRDAP, domain, fmt.Errorf("no rdap server found for %s", domain))
	}

	record, err := c.query(ctx, domain, server)
	if err != nil {
		return false, err
	}

	for _, status := range record.Status {
		if status == ForSaleStatusTag {
			return true, nil
		}
	}

	return false, nil
}

func firstServer(reg *bootstrap.Registry, domain string) (string, bool) {
	urls, ok := reg.Lookup(domain)
	if !ok || len(urls) == 0 {
		return "", false
	}

	servers := util.ConvertEach(urls, func(u *url.URL) string {
		return strings.TrimSuffix(u.String(), "/")
	})

	return servers[0], true
}

func (c *Client) registry(ctx context.Context) (*bootstrap.Registry, error) {
	return cache.Lookup(ctx, c.bootstrap, bootstrapCacheKey, BootstrapTTL, c.fetchBootstrap)
}

func (c *Client) fetchBootstrap(ctx context.Context) (*bootstrap.Registry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bootstrapURL(), nil)
	if err != nil {
		return nil, model.New(model.KindRDAP, "", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, model.New(model.KindRDAP, "", fmt.Errorf("rdap bootstrap lookup failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.New(model.KindRDAP, "", fmt.Errorf("rdap bootstrap lookup failed with status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.New(model.KindRDAP, "", err)
	}

	reg, err := bootstrap.Parse(body)
	if err != nil {
		return nil, model.New(model.KindRDAP, "", err)
	}

	return reg, nil
}

func (c *Client) bootstrapURL() string {
	if c.BootstrapURL != "" {
		return c.BootstrapURL
	}

	return BootstrapURL
}

type domainRecord struct {
	Status []string `json:"status"`
}

func (c *Client) query(ctx context.Context, domain, server string) (*domainRecord, error) {
	endpoint := fmt.Sprintf("%s/domain/%s", server, domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.New(model.KindRDAP, domain, err)
	}

	req.Header.Set("Accept", "application/rdap+json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, model.New(model.KindRDAP, domain, fmt.Errorf("rdap query failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.New(model.KindRDAP, domain, fmt.Errorf("rdap query failed with status %d", resp.StatusCode))
	}

	var record domainRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, model.New(model.KindRDAP, domain, fmt.Errorf("decoding rdap response: %w", err))
	}

	return &record, nil
}
