package types

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	ierr "github.com/flexprice/gstbill/internal/errors"
)

// Address is a postal address. Customers carry billing and shipping addresses;
// invoices snapshot both at creation time.
type Address struct {
	Line1      string `json:"line1,omitempty" validate:"omitempty,max=255"`
	Line2      string `json:"line2,omitempty" validate:"omitempty,max=255"`
	City       string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country    string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// IsZero reports whether no component is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// Merge fills empty components of a from fallback
func (a Address) Merge(fallback Address) Address {
	return Address{
		Line1:      firstNonEmpty(a.Line1, fallback.Line1),
		Line2:      firstNonEmpty(a.Line2, fallback.Line2),
		City:       firstNonEmpty(a.City, fallback.City),
		State:      firstNonEmpty(a.State, fallback.State),
		PostalCode: firstNonEmpty(a.PostalCode, fallback.PostalCode),
		Country:    firstNonEmpty(a.Country, fallback.Country),
	}
}

// String joins the non-empty components on one line
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// FirstNonEmpty returns the first value that is not blank
func FirstNonEmpty(values ...string) string {
	return firstNonEmpty(values...)
}

// Value stores the address as a JSONB document
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return ierr.NewErrorf("cannot scan %T into address", src).Mark(ierr.ErrDatabase)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(data, a)
}
