// Package domainsale discovers and safely renders the "for sale" status of
// an internet domain, as advertised by a DNSSEC-signed "_for-sale" TXT
// record and optionally cross-checked against RDAP. It is the facade that
// ties together validator, resolver, and rdap: most callers only need
// Default().GetStatus or a *Client built with NewClient.
package domainsale

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/domainsale/domainsale/cache"
	"github.com/domainsale/domainsale/log"
	"github.com/domainsale/domainsale/metrics"
	"github.com/domainsale/domainsale/model"
	"github.com/domainsale/domainsale/rdap"
	"github.com/domainsale/domainsale/resolver"
	"github.com/domainsale/domainsale/validator"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultCacheTTL is used when Options.CacheTTL is zero.
	DefaultCacheTTL = 300 // seconds

	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 5 // seconds

	// DefaultUpstream is used when neither the Client nor per-call Options
	// name a DNSSEC-validating resolver. 127.0.0.1:53 assumes a local
	// validating recursor; production deployments should set one
	// explicitly (see DESIGN.md's note on the DNSSEC trust boundary).
	DefaultUpstream = "127.0.0.1:53"
)

// Client performs domain sale status lookups, owning the DNS and RDAP
// result caches shared across calls.
type Client struct {
	Upstream      string
	RequireDNSSEC bool

	RDAP *rdap.Client

	dnsCache  *cache.Cache[[]string]
	rdapCache *cache.Cache[bool]
}

// NewClient builds a Client. ctx bounds the lifetime of the caches'
// background cleanup goroutines, not of any individual lookup.
func NewClient(ctx context.Context) *Client {
	return &Client{
		Upstream:      DefaultUpstream,
		RequireDNSSEC: true,
		RDAP:          rdap.NewClient(ctx, DefaultTimeout*time.Second),
		dnsCache: cache.New[[]string](ctx, cache.Options{
			OnHit:  func(string) { metrics.DNSCacheHit() },
			OnMiss: func(string) { metrics.DNSCacheMiss() },
		}),
		rdapCache: cache.New[bool](ctx, cache.Options{
			OnHit:  func(string) { metrics.RDAPCacheHit() },
			OnMiss: func(string) { metrics.RDAPCacheMiss() },
		}),
	}
}

//nolint:gochecknoglobals
var (
	defaultClient     *Client
	defaultClientOnce sync.Once
)

// Default returns a lazily-constructed, process-wide Client for callers
// that don't need to configure their own upstream resolver or manage
// cache lifetime.
func Default() *Client {
	defaultClientOnce.Do(func() {
		defaultClient = NewClient(context.Background())
	})

	return defaultClient
}

// GetStatus checks whether domain is advertised for sale.
func (c *Client) GetStatus(ctx context.Context, domain string, opts Options) (*Response, error) {
	start := time.Now()
	defer func() { metrics.ObserveLookupDuration(time.Since(start).Seconds()) }()

	timeout := time.Duration(orDefault(opts.Timeout, DefaultTimeout)) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, logEntry := log.CtxWithFields(ctx, logrus.Fields{"domain": domain})
	logEntry.Debug("checking for-sale status")

	response := &Response{Domain: domain}

	records, sources, err := c.lookupTXTRecords(ctx, domain, opts)
	if err != nil {
		appendLookupError(response, err)

		return response, nil
	}

	record, recordErrs := extractValidRecord(domain, records)
	response.Errors = append(response.Errors, recordErrs...)

	if record == nil {
		return response, nil
	}

	if opts.EnableRDAPCheck {
		rdapForSale, err := c.checkRDAPStatus(ctx, domain, opts)
		if err != nil {
			response.Errors = append(response.Errors, fmt.Sprintf("RDAP check failed: %v", err))

			return response, nil
		} else if rdapForSale {
			sources = append(sources, "rdap")
		} else {
			response.RDAPDisagreement = true

			return response, nil
		}
	}

	response.ForSale = true
	response.Price = record.Price
	response.URL = record.URL
	response.Contact = record.Contact
	response.Expires = record.ExpiresString()
	response.Source = sources

	return response, nil
}

func appendLookupError(response *Response, err error) {
	var typed *model.Error
	if errors.As(err, &typed) {
		switch typed.Kind {
		case model.KindDNSSEC:
			response.Errors = append(response.Errors, fmt.Sprintf("DNSSEC validation failed: %v", typed.Err))
		case model.KindTimeout:
			response.Errors = append(response.Errors, fmt.Sprintf("Timeout: %v", typed.Err))
		default:
			response.Errors = append(response.Errors, err.Error())
		}

		return
	}

	response.Errors = append(response.Errors, fmt.Sprintf("Unexpected error: %v", err))
}

// extractValidRecord returns the first valid record among records,
// collecting a human-readable message for every one that fails validation.
// A single domain publishing multiple "_for-sale" TXT strings (one valid,
// others stale or malformed) still resolves successfully.
func extractValidRecord(domain string, records []string) (*model.ValidatedRecord, []string) {
	var errs []string

	for _, txt := range records {
		record, err := validator.Extract(domain, txt)
		if err != nil {
			metrics.ValidationResult(false)
			errs = append(errs, err.Error())

			continue
		}

		if record != nil {
			metrics.ValidationResult(true)

			return record, errs
		}
	}

	return nil, errs
}

func (c *Client) lookupTXTRecords(ctx context.Context, domain string, opts Options) ([]string, []string, error) {
	upstream := orDefaultString(opts.Upstream, c.Upstream)
	requireDNSSEC := c.RequireDNSSEC

	if opts.RequireDNSSEC != nil {
		requireDNSSEC = *opts.RequireDNSSEC
	}

	ttl := time.Duration(orDefault(opts.CacheTTL, DefaultCacheTTL)) * time.Second
	key := "dns:" + upstream + ":" + domain

	records, err := cache.Lookup(ctx, c.dnsCache, key, ttl, func(ctx context.Context) ([]string, error) {
		client := resolver.NewClient(upstream, requireDNSSEC)

		return client.LookupForSaleTXT(ctx, domain)
	})
	if err != nil {
		return nil, nil, err
	}

	return records, []string{"dns"}, nil
}

func (c *Client) checkRDAPStatus(ctx context.Context, domain string, opts Options) (bool, error) {
	ttl := time.Duration(orDefault(opts.CacheTTL, DefaultCacheTTL)) * time.Second
	key := "rdap:" + domain

	return cache.Lookup(ctx, c.rdapCache, key, ttl, func(ctx context.Context) (bool, error) {
		return c.RDAP.CheckForSaleStatus(ctx, domain)
	})
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}

func orDefaultString(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
