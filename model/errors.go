// Package model holds the typed error taxonomy and small value types shared
// across the domainsale packages.
package model

import "fmt"

// Kind identifies the category of a domainsale error. ENUM(
// dnssec // the zone is signed but validation failed or could not be attested
// timeout // a DNS or RDAP operation exceeded its deadline
// schema // the TXT record JSON did not match the closed schema
// field // a field in an otherwise well-formed record failed its format check
// size // the TXT record payload exceeded the 255 byte limit
// rdap // RDAP network or protocol failure
// )
type Kind int

const (
	KindDNSSEC Kind = iota
	KindTimeout
	KindSchema
	KindField
	KindSize
	KindRDAP
)

func (k Kind) String() string {
	switch k {
	case KindDNSSEC:
		return "dnssec"
	case KindTimeout:
		return "timeout"
	case KindSchema:
		return "schema"
	case KindField:
		return "field"
	case KindSize:
		return "size"
	case KindRDAP:
		return "rdap"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the resolver, validator and rdap
// packages; each of their failure paths is wrapped into one of these before
// it is returned.
type Error struct {
	Kind   Kind
	Domain string
	Err    error
}

func (e *Error) Error() string {
	if e.Domain != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Domain, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, model.DNSSECValidation) against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Err == nil
}

// New builds a typed error for the given kind, domain, and cause.
func New(kind Kind, domain string, err error) *Error {
	return &Error{Kind: kind, Domain: domain, Err: err}
}

// Sentinels usable with errors.Is(err, model.DNSSECValidation) to test the
// kind of a returned *Error without caring about domain or cause.
var (
	DNSSECValidation = &Error{Kind: KindDNSSEC}
	Timeout          = &Error{Kind: KindTimeout}
	SchemaValidation = &Error{Kind: KindSchema}
	FieldValidation  = &Error{Kind: KindField}
	SizeExceeded     = &Error{Kind: KindSize}
	RDAPFailure      = &Error{Kind: KindRDAP}
)
