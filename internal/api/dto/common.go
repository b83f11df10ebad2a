package dto

import (
	"strings"

	"github.com/flexprice/gstbill/internal/types"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// Address is the request shape of a postal address
type Address struct {
	Line1      string `json:"line1" validate:"omitempty,max=255"`
	Line2      string `json:"line2" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
}

func (a *Address) ToAddress() types.Address {
	if a == nil {
		return types.Address{}
	}
	return types.Address{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// ImportResponse reports the outcome of a spreadsheet import
type ImportResponse struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// ImportError names the spreadsheet row that could not be imported. Row is one
// based and counts the header.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
