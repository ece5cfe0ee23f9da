package model

import "time"

// ValidatedRecord is the immutable result of a TXT payload that has cleared
// every gate in the validator: closed schema, version tag, and per-field
// format checks. It is constructed once per DNS record and consumed by the
// API facade; nothing downstream mutates it.
type ValidatedRecord struct {
	Price   string
	URL     string
	Contact string
	Expires *time.Time
}

// ExpiresString renders Expires back to its wire format, or "" if absent.
func (r *ValidatedRecord) ExpiresString() string {
	if r.Expires == nil {
		return ""
	}

	return r.Expires.Format("2006-01-02")
}
