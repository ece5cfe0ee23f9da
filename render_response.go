package domainsale

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/domainsale/domainsale/model"
	"github.com/domainsale/domainsale/render"
)

func parseExpires(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ToJSON marshals the response, matching the field set of a plain
// dictionary dump in the original implementation.
func (r *Response) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ToHTML renders the response as an HTML fragment: sale info when for sale,
// an error block when errors occurred, or a plain "not for sale" message.
func (r *Response) ToHTML() (string, error) {
	if r.ForSale {
		return render.HTML(r.Domain, r.asValidatedRecord())
	}

	if len(r.Errors) > 0 {
		return render.HTMLError(strings.Join(r.Errors, ", "))
	}

	return render.HTMLError(fmt.Sprintf("Domain %s is not for sale", r.Domain))
}

// ToText renders the response as plain text for console output.
func (r *Response) ToText() string {
	if r.ForSale {
		return render.Text(r.Domain, r.asValidatedRecord(), r.Source)
	}

	if len(r.Errors) > 0 {
		return render.TextError(strings.Join(r.Errors, ", "))
	}

	return render.TextError(fmt.Sprintf("Domain %s is not for sale", r.Domain))
}

func (r *Response) asValidatedRecord() *model.ValidatedRecord {
	record := &model.ValidatedRecord{Price: r.Price, URL: r.URL, Contact: r.Contact}

	if r.Expires != "" {
		if t, err := parseExpires(r.Expires); err == nil {
			record.Expires = t
		}
	}

	return record
}
