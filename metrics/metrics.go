// Package metrics exposes prometheus collectors for the domainsale facade,
// registered against a package-level registry the way blocky's metrics
// package registers its own collectors against a shared registry. Unlike
// blocky, domainsale is a library embedded in a caller's process rather than
// a standalone daemon, so this package exposes a Handler for the caller to
// mount instead of opening its own listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// nolint:gochecknoglobals
var reg = prometheus.NewRegistry()

//nolint:gochecknoglobals
var (
	dnsLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainsale_dns_lookups_total",
		Help: "TXT record lookups against the upstream resolver, by cache outcome",
	}, []string{"result"})

	rdapLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainsale_rdap_lookups_total",
		Help: "RDAP cross-checks, by cache outcome",
	}, []string{"result"})

	validations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainsale_validations_total",
		Help: "_for-sale TXT record validation outcomes",
	}, []string{"result"})

	lookupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "domainsale_lookup_duration_seconds",
		Help:    "End-to-end duration of GetStatus calls",
		Buckets: prometheus.DefBuckets,
	})
)

//nolint:gochecknoinits
func init() {
	RegisterMetric(dnsLookups)
	RegisterMetric(rdapLookups)
	RegisterMetric(validations)
	RegisterMetric(lookupDuration)
}

// RegisterMetric adds a collector to the shared registry. Safe to call
// with a collector that's already registered; the duplicate is dropped.
func RegisterMetric(c prometheus.Collector) {
	_ = reg.Register(c)
}

// Handler returns an http.Handler serving the registry in Prometheus
// exposition format, for a caller to mount at whatever path it likes.
func Handler() http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// DNSCacheHit records a TXT lookup served from cache.
func DNSCacheHit() { dnsLookups.WithLabelValues(resultHit).Inc() }

// DNSCacheMiss records a TXT lookup that queried the upstream resolver.
func DNSCacheMiss() { dnsLookups.WithLabelValues(resultMiss).Inc() }

// RDAPCacheHit records an RDAP cross-check served from cache.
func RDAPCacheHit() { rdapLookups.WithLabelValues(resultHit).Inc() }

// RDAPCacheMiss records an RDAP cross-check that queried the registry.
func RDAPCacheMiss() { rdapLookups.WithLabelValues(resultMiss).Inc() }

// ValidationResult records a TXT record validation as "valid" or "invalid".
func ValidationResult(valid bool) {
	if valid {
		validations.WithLabelValues("valid").Inc()

		return
	}

	validations.WithLabelValues("invalid").Inc()
}

// ObserveLookupDuration records the duration of a GetStatus call, in seconds.
func ObserveLookupDuration(seconds float64) {
	lookupDuration.Observe(seconds)
}
