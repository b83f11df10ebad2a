package validator

import (
	"testing"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	GSTIN string `validate:"omitempty,gstin"`
	Phone string `validate:"omitempty,phone"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr bool
		field   string
	}{
		{name: "valid", req: sampleRequest{Name: "Acme", GSTIN: "27AAPFU0939F1ZV", Phone: "+919876543210"}},
		{name: "missing_name", req: sampleRequest{}, wantErr: true, field: "Name"},
		{name: "bad_gstin", req: sampleRequest{Name: "Acme", GSTIN: "27AAPFU0939F1Z"}, wantErr: true, field: "GSTIN"},
		{name: "lowercase_gstin", req: sampleRequest{Name: "Acme", GSTIN: "27aapfu0939f1zv"}},
		{name: "padded_gstin", req: sampleRequest{Name: "Acme", GSTIN: " 27AAPFU0939F1ZV "}},
		{name: "bad_phone", req: sampleRequest{Name: "Acme", Phone: "12"}, wantErr: true, field: "Phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			assert.Contains(t, ierr.ReportableDetails(err), tt.field)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", NormalizePhone("98765 43210"))
	assert.Equal(t, "not-a-phone", NormalizePhone("not-a-phone"))
}

func TestNormalizeGSTIN(t *testing.T) {
	assert.Equal(t, "29ABCDE1234F1Z5", NormalizeGSTIN(" 29abcde1234f1z5\t"))
	assert.True(t, IsValidGSTIN("29abcde1234f1z5"))
	assert.False(t, IsValidGSTIN("29abcde1234f1z"))
}
