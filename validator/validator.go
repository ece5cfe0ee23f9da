// Package validator implements schema and field validation for "_for-sale"
// TXT records, the part of the system responsible for the two security
// properties the format exists to guarantee: a malformed or oversized record
// can't be used to smuggle data past the cache, and a well-formed one can't
// point a renderer at anything other than an https:// URL or a mailto:
// address.
package validator

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/domainsale/domainsale/model"
)

const (
	// MaxTXTSize is the largest "_for-sale" TXT record content this package
	// will parse, in bytes. DNS TXT records are themselves limited to 255
	// bytes per character-string, so this also doubles as a sanity bound
	// against a resolver that concatenates multiple character-strings into
	// one RR.
	MaxTXTSize = 255

	// VersionTag prefixes every record this package recognizes. Records
	// without it are not "_for-sale" records at all and are reported as
	// absent rather than invalid.
	VersionTag = "v=FORSALE1;"

	dateLayout = "2006-01-02"
)

var (
	requiredFields = []string{"v", "price", "url", "contact"}
	allowedFields  = map[string]bool{"v": true, "price": true, "url": true, "contact": true, "expires": true}

	priceExpr = regexp.MustCompile(`^[A-Z]{3}:[0-9]+(\.[0-9]{1,2})?$`)
	dateExpr  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// rawRecord is the wire JSON shape, decoded with json.Number-free string
// fields so that an unknown field is detected rather than silently dropped.
type rawRecord map[string]interface{}

// Extract parses and validates the content of a "_for-sale" TXT record.
//
// A record that does not start with VersionTag is not a for-sale record at
// all: Extract returns (nil, nil) rather than an error, so callers can
// distinguish "domain not for sale" from "domain for sale, but the record is
// broken" (model.KindSchema / model.KindField / model.KindSize).
func Extract(domain, txt string) (*model.ValidatedRecord, error) {
	if len(txt) > MaxTXTSize {
		return nil, model.New(model.KindSize, domain,
			fmt.Errorf("TXT record is %d bytes, exceeds maximum of %d", len(txt), MaxTXTSize))
	}

	if !strings.HasPrefix(txt, VersionTag) {
		return nil, nil
	}

	body := strings.TrimPrefix(txt, VersionTag)

	var raw rawRecord
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, model.New(model.KindSchema, domain, fmt.Errorf("invalid JSON: %w", err))
	}

	if err := validateSchema(raw); err != nil {
		return nil, model.New(model.KindSchema, domain, err)
	}

	return validateFields(domain, raw)
}

func validateSchema(raw rawRecord) error {
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for field := range raw {
		if !allowedFields[field] {
			return fmt.Errorf("unknown field: %s", field)
		}
	}

	return nil
}

func validateFields(domain string, raw rawRecord) (*model.ValidatedRecord, error) {
	version, _ := raw["v"].(string)
	if version != "1" {
		return nil, model.New(model.KindField, domain, fmt.Errorf("invalid version: %v", raw["v"]))
	}

	price, ok := raw["price"].(string)
	if !ok || !priceExpr.MatchString(price) {
		return nil, model.New(model.KindField, domain,
			fmt.Errorf("invalid price format: %v, must be 'CUR:AMOUNT' (e.g. 'USD:1000')", raw["price"]))
	}

	rawURL, _ := raw["url"].(string)
	if err := validateScheme(rawURL, "https"); err != nil {
		return nil, model.New(model.KindField, domain, fmt.Errorf("invalid url: %w", err))
	}

	contact, _ := raw["contact"].(string)
	if err := validateScheme(contact, "mailto"); err != nil {
		return nil, model.New(model.KindField, domain, fmt.Errorf("invalid contact: %w", err))
	}

	record := &model.ValidatedRecord{Price: price, URL: rawURL, Contact: contact}

	if rawExpires, present := raw["expires"]; present {
		expires, ok := rawExpires.(string)
		if !ok {
			return nil, model.New(model.KindField, domain, fmt.Errorf("invalid expires format: %v", rawExpires))
		}

		t, err := validateExpires(expires)
		if err != nil {
			return nil, model.New(model.KindField, domain, err)
		}

		record.Expires = t
	}

	return record, nil
}

func validateScheme(raw, wantScheme string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%q: %w", raw, err)
	}

	if parsed.Scheme != wantScheme {
		return fmt.Errorf("scheme %q, must be %q", parsed.Scheme, wantScheme)
	}

	switch wantScheme {
	case "https":
		if parsed.Host == "" {
			return fmt.Errorf("%q: must contain a host", raw)
		}
	case "mailto":
		if parsed.Opaque == "" && parsed.Path == "" {
			return fmt.Errorf("%q: mailto: URI must contain an email address", raw)
		}
	}

	return nil
}

func validateExpires(expires string) (*time.Time, error) {
	if !dateExpr.MatchString(expires) {
		return nil, fmt.Errorf("invalid expires format: %s, must be 'YYYY-MM-DD'", expires)
	}

	t, err := time.Parse(dateLayout, expires)
	if err != nil {
		return nil, fmt.Errorf("invalid expires date: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if t.Before(today) {
		return nil, fmt.Errorf("expires date is in the past: %s", expires)
	}

	return &t, nil
}
