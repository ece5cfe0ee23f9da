// Package bootstrap resolves a domain to its authoritative RDAP server using
// IANA's DNS Service Registry (dns.json), adapted from openrdap's
// bootstrap.DNSRegistry: the registry file maps TLDs to RDAP base URLs, and
// a query walks from the full name up through each parent label until a
// match is found.
package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Registry is a parsed IANA dns.json Service Registry: a map from a TLD (or
// any other label the registry lists) to its RDAP base URLs.
type Registry struct {
	entries map[string][]*url.URL
}

// Parse decodes a dns.json document. The document's top-level "services"
// field is a list of [tlds, urls] pairs per RFC 7484 section 4.
func Parse(body []byte) (*Registry, error) {
	var doc struct {
		Services [][][]string `json:"services"`
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing rdap bootstrap document: %w", err)
	}

	entries := make(map[string][]*url.URL)

	for _, service := range doc.Services {
		if len(service) != 2 {
			return nil, errors.New("malformed rdap bootstrap: service entry must have 2 elements")
		}

		tlds, rawURLs := service[0], service[1]

		var urls []*url.URL

		for _, raw := range rawURLs {
			u, err := url.Parse(raw)
			if err != nil {
				continue // ignore unparsable URLs, matching openrdap's bootstrap.parse
			}

			urls = append(urls, u)
		}

		if len(urls) == 0 {
			continue
		}

		for _, tld := range tlds {
			entries[strings.ToLower(tld)] = urls
		}
	}

	return &Registry{entries: entries}, nil
}

// Lookup returns the RDAP base URLs for domain, walking from the full FQDN
// up through each parent label (e.g. "an.example.com" -> "example.com" ->
// "com") until an entry is found, same algorithm as openrdap's
// DNSRegistry.Lookup.
func (r *Registry) Lookup(domain string) ([]*url.URL, bool) {
	name := strings.ToLower(strings.TrimSuffix(domain, "."))

	for {
		if urls, ok := r.entries[name]; ok {
			return urls, true
		}

		idx := strings.IndexByte(name, '.')
		if idx == -1 {
			return nil, false
		}

		name = name[idx+1:]
	}
}
